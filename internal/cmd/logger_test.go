package cmd

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("warn")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, lvl)

	_, err = parseLevel("loud")
	require.True(t, errors.Is(err, ErrInvalidLogLevel))
}
