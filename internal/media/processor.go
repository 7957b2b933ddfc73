package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/webp"
)

const (
	DefaultAvatarSize  = 400
	defaultJPEGQuality = 4
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Resized     bool
}

// Processor normalizes an uploaded image into a square avatar.
type Processor interface {
	Process(ctx context.Context, upload Upload, size int) (*Result, error)
}

// FFMPEGProcessor shells out to ffmpeg to center-crop the image square and
// scale it to the avatar size, always emitting JPEG.
type FFMPEGProcessor struct {
	path        string
	avatarSize  int
	jpegQuality int
}

func NewFFMPEGProcessor(binaryPath string, avatarSize int) *FFMPEGProcessor {
	path := strings.TrimSpace(binaryPath)
	if path == "" {
		path = "ffmpeg"
	}
	if avatarSize <= 0 {
		avatarSize = DefaultAvatarSize
	}
	return &FFMPEGProcessor{
		path:        path,
		avatarSize:  avatarSize,
		jpegQuality: defaultJPEGQuality,
	}
}

func (p *FFMPEGProcessor) Process(ctx context.Context, upload Upload, size int) (*Result, error) {
	if upload.Reader == nil {
		return nil, fmt.Errorf("media: empty reader")
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media: empty image data")
	}

	contentType := normalizeContentType(upload.ContentType, upload.FileName)
	if !SupportedContentType(contentType) {
		return nil, fmt.Errorf("media: unsupported content type %s", contentType)
	}

	width, height, err := decodeDimensions(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode dimensions: %w", err)
	}

	target := size
	if target <= 0 {
		target = p.avatarSize
	}
	if width == height && width <= target && contentType == "image/jpeg" {
		return &Result{Bytes: data, ContentType: contentType, Resized: false}, nil
	}

	processed, err := p.transcode(ctx, data, target)
	if err != nil {
		return nil, err
	}

	return &Result{
		Bytes:       processed,
		ContentType: "image/jpeg",
		Resized:     true,
	}, nil
}

// SupportedContentType reports whether the avatar pipeline accepts the type.
func SupportedContentType(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}

func decodeDimensions(r io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

func (p *FFMPEGProcessor) transcode(ctx context.Context, data []byte, size int) ([]byte, error) {
	// Cover crop: scale the short edge to size, then crop the center square.
	filter := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase:flags=lanczos,crop=%d:%d", size, size, size, size)
	cmdArgs := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vf", filter,
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"-q:v", strconv.Itoa(p.jpegQuality),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, p.path, cmdArgs...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return nil, fmt.Errorf("ffmpeg: %v: %s", err, errMsg)
		}
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}

	result := stdout.Bytes()
	if len(result) == 0 {
		return nil, fmt.Errorf("ffmpeg: produced empty output")
	}
	return result, nil
}

func normalizeContentType(value, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(value))
	if ct != "" {
		if ct == "image/jpg" {
			return "image/jpeg"
		}
		return ct
	}
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName)))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strings.ToLower(mt)
		}
	}
	return "image/jpeg"
}
