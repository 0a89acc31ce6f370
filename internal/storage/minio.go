package storage

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Minio 对象存储
type Minio struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinio(cfg MinioConfig) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	public := strings.TrimRight(cfg.PublicURL, "/")
	if public == "" {
		scheme := "http://"
		if cfg.UseSSL {
			scheme = "https://"
		}
		public = scheme + cfg.Endpoint + "/" + cfg.Bucket
	}
	return &Minio{client: client, bucket: cfg.Bucket, publicURL: public}, nil
}

// EnsureBucket 启动时创建桶
func (m *Minio) EnsureBucket(ctx context.Context) error {
	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
}

func (m *Minio) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *Minio) URL(key string) string {
	if key == "" {
		return ""
	}
	return m.publicURL + "/" + key
}
