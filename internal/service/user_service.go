package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexttalk/nexttalk-api/internal/domain"
	"github.com/nexttalk/nexttalk-api/internal/media"
	"github.com/nexttalk/nexttalk-api/internal/repository/ports"
)

var (
	ErrImageTooLarge    = errors.New("image exceeds the size limit")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

type UserService struct {
	users          ports.UserRepository
	storage        ports.ObjectStorage
	imageProcessor media.Processor
	bucket         string
	imageMaxBytes  int64

	now func() time.Time
}

func NewUserService(users ports.UserRepository, storage ports.ObjectStorage, processor media.Processor, bucket string, imageMaxBytes int64) *UserService {
	return &UserService{
		users:          users,
		storage:        storage,
		imageProcessor: processor,
		bucket:         bucket,
		imageMaxBytes:  imageMaxBytes,
		now:            time.Now,
	}
}

func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile mutates the owner's profile fields; nil params leave the
// stored value untouched.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, params ports.UpdateProfileParams) (*domain.User, error) {
	params.Name = normalizeOptional(params.Name)
	params.Phone = normalizeOptional(params.Phone)
	params.Bio = normalizeOptional(params.Bio)

	user, err := s.users.UpdateProfile(ctx, id, params)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UploadProfileImage normalizes the uploaded image into a square avatar,
// stores it, and persists the resulting URL on the user row.
func (s *UserService) UploadProfileImage(ctx context.Context, userID uuid.UUID, upload media.Upload) (*domain.User, error) {
	if s.imageMaxBytes > 0 && upload.Size > s.imageMaxBytes {
		return nil, ErrImageTooLarge
	}
	if !media.SupportedContentType(upload.ContentType) {
		return nil, ErrUnsupportedImage
	}

	reader, size, contentType, err := prepareImageForUpload(ctx, s.imageProcessor, upload, media.DefaultAvatarSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	objectKey := fmt.Sprintf("profiles/%s/avatar_%s%s",
		userID.String(),
		s.now().UTC().Format("20060102T150405Z0700"),
		safeImageExtension(contentType, upload.FileName),
	)

	url, err := s.storage.Upload(ctx, s.bucket, objectKey, contentType, reader, size)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfileImage(ctx, userID, url)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
