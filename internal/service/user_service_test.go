package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nexttalk/nexttalk-api/internal/domain"
	"github.com/nexttalk/nexttalk-api/internal/media"
	"github.com/nexttalk/nexttalk-api/internal/repository/ports"
)

type fakeStorage struct {
	uploaded []struct {
		bucket      string
		objectName  string
		contentType string
		size        int64
	}
	url string
	err error
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	f.uploaded = append(f.uploaded, struct {
		bucket      string
		objectName  string
		contentType string
		size        int64
	}{bucket: bucket, objectName: objectName, contentType: contentType, size: size})
	if f.err != nil {
		return "", f.err
	}
	if f.url != "" {
		return f.url, nil
	}
	return "https://storage/" + objectName, nil
}

type fakeProcessor struct {
	result *media.Result
	err    error
}

func (f *fakeProcessor) Process(ctx context.Context, upload media.Upload, size int) (*media.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &media.Result{Bytes: []byte("processed"), ContentType: "image/jpeg", Resized: true}, nil
}

func TestUpdateProfileNormalizesFields(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "p@example.com"}
	repo := &fakeUserRepo{user: user}
	svc := NewUserService(repo, &fakeStorage{}, nil, "profiles", 0)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfileParams{
		Name:  authStringPtr(" New Name "),
		Phone: authStringPtr("   "),
		Bio:   authStringPtr("hello"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.updateProfileParams.Name == nil || *repo.updateProfileParams.Name != "New Name" {
		t.Fatalf("expected trimmed name, got %v", repo.updateProfileParams.Name)
	}
	if repo.updateProfileParams.Phone != nil {
		t.Fatal("expected blank phone to collapse to nil")
	}
	if updated.Bio == nil || *updated.Bio != "hello" {
		t.Fatalf("expected bio to be persisted, got %v", updated.Bio)
	}
}

func TestUpdateProfileMissingUser(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, &fakeStorage{}, nil, "profiles", 0)

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), ports.UpdateProfileParams{})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProfileExcludesNothingButResolvesUser(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "p@example.com"}
	svc := NewUserService(&fakeUserRepo{user: user}, &fakeStorage{}, nil, "profiles", 0)

	got, err := svc.Profile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s", user.ID)
	}

	if _, err := svc.Profile(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUploadProfileImage(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Email: "img@example.com"}

	t.Run("success", func(t *testing.T) {
		repo := &fakeUserRepo{user: user}
		storage := &fakeStorage{}
		svc := NewUserService(repo, storage, &fakeProcessor{}, "profile-bucket", 1024)

		updated, err := svc.UploadProfileImage(ctx, user.ID, media.Upload{
			Reader:      bytes.NewReader([]byte("raw-image")),
			Size:        9,
			FileName:    "avatar.png",
			ContentType: "image/png",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(storage.uploaded) != 1 {
			t.Fatalf("expected one upload, got %d", len(storage.uploaded))
		}
		up := storage.uploaded[0]
		if up.bucket != "profile-bucket" {
			t.Fatalf("unexpected bucket %q", up.bucket)
		}
		if !strings.HasPrefix(up.objectName, "profiles/"+user.ID.String()+"/avatar_") {
			t.Fatalf("unexpected object name %q", up.objectName)
		}
		if !strings.HasSuffix(up.objectName, ".jpg") {
			t.Fatalf("expected processed jpeg extension, got %q", up.objectName)
		}
		if up.contentType != "image/jpeg" {
			t.Fatalf("expected processed content type, got %q", up.contentType)
		}
		if up.size != int64(len("processed")) {
			t.Fatalf("expected processed size, got %d", up.size)
		}
		if updated.ProfileImageURL == nil || *updated.ProfileImageURL != repo.updateImageURL {
			t.Fatalf("expected stored URL on user, got %v", updated.ProfileImageURL)
		}
	})

	t.Run("oversized upload rejected", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepo{user: user}, &fakeStorage{}, &fakeProcessor{}, "b", 10)
		_, err := svc.UploadProfileImage(ctx, user.ID, media.Upload{Reader: bytes.NewReader(make([]byte, 11)), Size: 11, ContentType: "image/png"})
		if !errors.Is(err, ErrImageTooLarge) {
			t.Fatalf("expected ErrImageTooLarge, got %v", err)
		}
	})

	t.Run("unsupported type rejected", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepo{user: user}, &fakeStorage{}, &fakeProcessor{}, "b", 0)
		_, err := svc.UploadProfileImage(ctx, user.ID, media.Upload{Reader: bytes.NewReader([]byte("x")), Size: 1, ContentType: "application/pdf"})
		if !errors.Is(err, ErrUnsupportedImage) {
			t.Fatalf("expected ErrUnsupportedImage, got %v", err)
		}
	})

	t.Run("processor failure surfaces as unsupported", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepo{user: user}, &fakeStorage{}, &fakeProcessor{err: errors.New("corrupt image")}, "b", 0)
		_, err := svc.UploadProfileImage(ctx, user.ID, media.Upload{Reader: bytes.NewReader([]byte("x")), Size: 1, ContentType: "image/png"})
		if !errors.Is(err, ErrUnsupportedImage) {
			t.Fatalf("expected ErrUnsupportedImage, got %v", err)
		}
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		storageErr := errors.New("minio down")
		svc := NewUserService(&fakeUserRepo{user: user}, &fakeStorage{err: storageErr}, &fakeProcessor{}, "b", 0)
		_, err := svc.UploadProfileImage(ctx, user.ID, media.Upload{Reader: bytes.NewReader([]byte("x")), Size: 1, ContentType: "image/png"})
		if !errors.Is(err, storageErr) {
			t.Fatalf("expected storage error, got %v", err)
		}
	})
}
