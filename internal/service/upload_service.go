package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"rollcall-backend/internal/apperr"
)

const lunchImageDir = "lunch_images"

type UploadService interface {
	// SaveLunchImage re-encodes the uploaded image (bounding its width)
	// and returns the stored relative path.
	SaveLunchImage(r io.Reader) (string, error)
	DeleteLunchImage(relPath string) error
}

type uploadService struct {
	baseDir  string
	maxWidth int
}

func NewUploadService(baseDir string, maxWidth int) UploadService {
	if maxWidth <= 0 {
		maxWidth = 1280
	}
	return &uploadService{baseDir: baseDir, maxWidth: maxWidth}
}

func (s *uploadService) SaveLunchImage(r io.Reader) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", apperr.Validation("이미지 파일이 아니거나 손상된 파일입니다.")
	}

	if img.Bounds().Dx() > s.maxWidth {
		img = imaging.Resize(img, s.maxWidth, 0, imaging.Lanczos)
	}

	dir := filepath.Join(s.baseDir, lunchImageDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("lunch_%d_%s.jpg", time.Now().Unix(), uuid.New().String()[:8])
	fullPath := filepath.Join(dir, filename)
	if err := imaging.Save(img, fullPath, imaging.JPEGQuality(85)); err != nil {
		return "", err
	}

	return filepath.ToSlash(filepath.Join(lunchImageDir, filename)), nil
}

// DeleteLunchImage only removes files inside the lunch image directory.
func (s *uploadService) DeleteLunchImage(relPath string) error {
	clean := filepath.ToSlash(filepath.Clean(relPath))
	if !strings.HasPrefix(clean, lunchImageDir+"/") || strings.Contains(clean, "..") {
		return apperr.Validation("잘못된 경로입니다.")
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(clean))
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.Remove(fullPath)
}
