package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local 本地磁盘存储，由 /media 路由提供访问
type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	dst := filepath.Join(l.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return err
	}
	return f.Close()
}

func (l *Local) URL(key string) string {
	if key == "" {
		return ""
	}
	return l.BaseURL + "/" + path.Clean(key)
}
