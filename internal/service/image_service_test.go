package service

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spec-kit/restaurant-site/internal/config"
	"github.com/spec-kit/restaurant-site/internal/repository"
)

func TestImageService_Upload(t *testing.T) {
	dir := t.TempDir()
	repo := repository.NewMemoryStore().Images()
	svc := NewImageService(repo, config.UploadsConfig{Dir: dir, MaxSizeBytes: 16}, "https://cdn.example.com/")
	ctx := context.Background()

	image, err := svc.Upload(ctx, UploadInput{
		FileName:    "../../hero.png",
		ContentType: "image/png",
		SizeBytes:   4,
		Body:        strings.NewReader("\x89PNG"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if image.FileName != "hero.png" {
		t.Errorf("expected base file name, got %s", image.FileName)
	}
	if !strings.HasPrefix(image.URL, "https://cdn.example.com/uploads/") || !strings.HasSuffix(image.URL, ".png") {
		t.Errorf("unexpected url %s", image.URL)
	}
	if _, err := os.Stat(filepath.Join(dir, image.StorageKey)); err != nil {
		t.Errorf("expected file on disk: %v", err)
	}

	listed, err := svc.List(ctx)
	if err != nil || len(listed) != 1 || listed[0].URL != image.URL {
		t.Errorf("unexpected list %+v, %v", listed, err)
	}
}

func TestImageService_Rejects(t *testing.T) {
	dir := t.TempDir()
	svc := NewImageService(repository.NewMemoryStore().Images(), config.UploadsConfig{Dir: dir, MaxSizeBytes: 4}, "")
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{FileName: "a.txt", ContentType: "text/plain", Body: strings.NewReader("hi")})
	if statusOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for text upload, got %v", err)
	}

	_, err = svc.Upload(ctx, UploadInput{FileName: "big.jpg", ContentType: "image/jpeg", SizeBytes: 2, Body: strings.NewReader("0123456789")})
	if statusOf(err) != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 for oversized body, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("rejected upload must not leave files, found %d", len(entries))
	}
}
