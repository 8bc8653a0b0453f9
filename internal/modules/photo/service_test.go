package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"fieldbook/internal/repository"
)

// Minimal valid PNG header, enough for http.DetectContentType.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func setupPhotoService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:photo_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(repository.NewPhotoRepository(db), t.TempDir(), "/static/photos")
}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("photo", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	return req.MultipartForm.File["photo"][0]
}

func TestUploadAndList(t *testing.T) {
	svc := setupPhotoService(t)
	ctx := context.Background()

	fh := makeFileHeader(t, "site overview.png", pngBytes)
	p, err := svc.Upload(ctx, "proj-1", "user-1", " north face ", fh)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if p.MimeType != "image/png" {
		t.Fatalf("mime not detected: %s", p.MimeType)
	}
	if p.Caption != "north face" {
		t.Fatalf("caption not trimmed: %q", p.Caption)
	}
	if !strings.HasPrefix(p.FileURL, "/static/photos/") {
		t.Fatalf("unexpected file url: %s", p.FileURL)
	}
	if _, err := os.Stat(filepath.Join(svc.baseDir, p.FilePath)); err != nil {
		t.Fatalf("file not written to disk: %v", err)
	}

	photos, err := svc.ListByProject(ctx, "proj-1")
	if err != nil {
		t.Fatalf("ListByProject returned error: %v", err)
	}
	if len(photos) != 1 || photos[0].ID != p.ID {
		t.Fatalf("unexpected gallery contents: %+v", photos)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc := setupPhotoService(t)

	fh := makeFileHeader(t, "notes.txt", []byte("plain text, definitely not a photo"))
	if _, err := svc.Upload(context.Background(), "proj-1", "user-1", "", fh); !errors.Is(err, ErrInvalidMimeType) {
		t.Fatalf("expected ErrInvalidMimeType, got %v", err)
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc := setupPhotoService(t)

	fh := makeFileHeader(t, "empty.png", nil)
	if _, err := svc.Upload(context.Background(), "proj-1", "user-1", "", fh); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestDeleteOnlyByUploader(t *testing.T) {
	svc := setupPhotoService(t)
	ctx := context.Background()

	fh := makeFileHeader(t, "shot.png", pngBytes)
	p, err := svc.Upload(ctx, "proj-1", "user-1", "", fh)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if err := svc.Delete(ctx, p.ID, "someone-else"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Delete(ctx, p.ID, "user-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(svc.baseDir, p.FilePath)); !os.IsNotExist(err) {
		t.Fatal("file should be removed from disk")
	}
	if err := svc.Delete(ctx, p.ID, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
