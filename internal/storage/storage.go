package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrNotImage = errors.New("file is not an image")

const ImagePrefix = "posts/"

// ImageStore 帖子配图的存储后端
type ImageStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	URL(key string) string
}

// Sniff 按文件内容判断是否图片，返回 MIME 和扩展名；读完后回到开头
func Sniff(r io.ReadSeeker) (string, string, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", "", err
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", "", fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}
	return mt.String(), mt.Extension(), nil
}

// NewKey 生成对象名
func NewKey(ext string) string {
	return ImagePrefix + uuid.New().String() + ext
}

// Upload 校验后写入 store，返回对象名
func Upload(ctx context.Context, store ImageStore, r io.ReadSeeker, size int64) (string, error) {
	contentType, ext, err := Sniff(r)
	if err != nil {
		return "", err
	}
	key := NewKey(ext)
	if err := store.Save(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return key, nil
}
