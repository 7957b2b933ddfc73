package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nexttalk/nexttalk-api/internal/media"
	"github.com/nexttalk/nexttalk-api/internal/service"
	"github.com/nexttalk/nexttalk-api/internal/util"
)

type stubStorage struct {
	uploaded bool
}

func (s *stubStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	s.uploaded = true
	return "http://cdn.test/" + bucket + "/" + objectName, nil
}

type stubProcessor struct{}

func (stubProcessor) Process(ctx context.Context, upload media.Upload, size int) (*media.Result, error) {
	return &media.Result{Bytes: []byte("jpeg-bytes"), ContentType: "image/jpeg", Resized: true}, nil
}

func newUserTestServer(t *testing.T) (*echo.Echo, *stubStorage, string) {
	t.Helper()
	repo := newMemoryUserRepo()
	jwtManager := util.NewJWTManager("handler-test-secret", time.Hour)
	auth := service.NewAuthService(repo, nil, jwtManager, time.Hour, "")
	storage := &stubStorage{}
	users := service.NewUserService(repo, storage, stubProcessor{}, "profiles", 5*1024*1024)

	e := NewRouter([]string{"*"})
	RegisterAuth(e, auth)
	RegisterUsers(e, auth, users)

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Dana","email":"dana@example.com","password":"Secret123!"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register fixture user: %d: %s", rec.Code, rec.Body.String())
	}
	var created AuthTokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return e, storage, created.Token
}

func TestGetProfile(t *testing.T) {
	e, _, token := newUserTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/user/profile", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body AuthUserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if body.User.Email != "dana@example.com" {
		t.Fatalf("unexpected email %q", body.User.Email)
	}

	if rec := doJSON(e, http.MethodGet, "/api/user/profile", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	e, _, token := newUserTestServer(t)

	rec := doJSON(e, http.MethodPut, "/api/user/profile",
		`{"name":"Dana Updated","bio":"  hello  "}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body AuthUserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if body.User.Name == nil || *body.User.Name != "Dana Updated" {
		t.Fatalf("name not updated: %+v", body.User.Name)
	}
	if body.User.Bio == nil || *body.User.Bio != "hello" {
		t.Fatalf("expected trimmed bio, got %+v", body.User.Bio)
	}
}

func TestUploadProfileImage(t *testing.T) {
	e, storage, token := newUserTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="avatar.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("fake-png-bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/user/profile-image", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body UploadImageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if !body.Success || body.ImageURL == "" {
		t.Fatalf("unexpected upload response: %+v", body)
	}
	if !storage.uploaded {
		t.Fatal("expected object storage upload to run")
	}

	profile := doJSON(e, http.MethodGet, "/api/user/profile", "", token)
	var after AuthUserResponse
	if err := json.Unmarshal(profile.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if after.User.ProfileImageURL == nil || *after.User.ProfileImageURL != body.ImageURL {
		t.Fatalf("expected persisted image URL %q, got %+v", body.ImageURL, after.User.ProfileImageURL)
	}

	missing := httptest.NewRequest(http.MethodPost, "/api/user/profile-image", nil)
	missing.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	missingRec := httptest.NewRecorder()
	e.ServeHTTP(missingRec, missing)
	if missingRec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a file, got %d", missingRec.Code)
	}
}
