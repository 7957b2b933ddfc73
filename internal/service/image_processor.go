package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/nexttalk/nexttalk-api/internal/media"
)

func prepareImageForUpload(ctx context.Context, processor media.Processor, upload media.Upload, size int) (io.Reader, int64, string, error) {
	if processor == nil {
		return upload.Reader, upload.Size, upload.ContentType, nil
	}
	result, err := processor.Process(ctx, upload, size)
	if err != nil {
		return nil, 0, "", err
	}
	return bytes.NewReader(result.Bytes), int64(len(result.Bytes)), result.ContentType, nil
}

func safeImageExtension(contentType, fileName string) string {
	ext := extensionFromContentType(strings.ToLower(strings.TrimSpace(contentType)))
	if ext != "" {
		return ext
	}
	if fileName != "" {
		if nameExt := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName))); nameExt != "" {
			return nameExt
		}
	}
	return ".bin"
}

func extensionFromContentType(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ""
}
