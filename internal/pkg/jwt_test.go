package pkg

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	token, err := j.Generate(42)
	require.NoError(t, err)

	claims, err := j.Parse(token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
}

func TestJWTRejects(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	token, err := j.Generate(1)
	require.NoError(t, err)

	_, err = NewJWT("other", time.Hour).Parse(token)
	require.True(t, errors.Is(err, ErrTokenInvalid))

	_, err = j.Parse("garbage")
	require.True(t, errors.Is(err, ErrTokenParseFailure))

	j.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = j.Parse(token)
	require.True(t, errors.Is(err, ErrTokenExpired))
}

func TestRandDigits(t *testing.T) {
	code, err := RandDigits(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, r := range code {
		require.True(t, r >= '0' && r <= '9')
	}
}

func TestNewKafkaProducerNeedsBrokers(t *testing.T) {
	_, err := NewKafkaProducer(KafkaConfig{Topic: "t"})
	require.True(t, errors.Is(err, ErrNoBrokers))

	p, err := NewKafkaProducer(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}, Topic: "yatube.social"})
	require.NoError(t, err)
	require.Equal(t, "yatube.social", p.Topic())
	require.NoError(t, p.Close())
}
