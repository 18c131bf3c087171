// Package services — Medya galerisi servisi.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/repository"
	"github.com/anjuman/hub/ws"
)

// MediaService, galeri iş mantığı interface'i.
type MediaService interface {
	// Upload, dosyayı doğrular, diske kaydeder ve galeri kaydı oluşturur.
	Upload(ctx context.Context, uploaderID, title string, file multipart.File, header *multipart.FileHeader) (*models.MediaItem, error)
	GetAll(ctx context.Context) ([]models.MediaItem, error)
	// Delete, medyayı siler. Sadece yükleyen veya platform admin silebilir.
	Delete(ctx context.Context, mediaID, requesterID string, isAdmin bool) error
	// RegisterDownload, indirme sayacını artırır ve güncel kaydı döner.
	RegisterDownload(ctx context.Context, mediaID string) (*models.MediaItem, error)
}

type mediaService struct {
	repo      repository.MediaRepository
	hub       ws.EventPublisher
	uploadDir string
	maxSize   int64
}

// NewMediaService, constructor.
func NewMediaService(
	repo repository.MediaRepository,
	hub ws.EventPublisher,
	uploadDir string,
	maxSize int64,
) MediaService {
	return &mediaService{
		repo:      repo,
		hub:       hub,
		uploadDir: uploadDir,
		maxSize:   maxSize,
	}
}

// allowedMimeTypes, galeriye yüklemeye izin verilen dosya türleri.
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/webm":      true,
	"audio/mpeg":      true,
	"audio/ogg":       true,
	"application/pdf": true,
}

func (s *mediaService) Upload(ctx context.Context, uploaderID, title string, file multipart.File, header *multipart.FileHeader) (*models.MediaItem, error) {
	// Boyut kontrolü
	if header.Size > s.maxSize {
		return nil, fmt.Errorf("%w: file too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}

	// MIME type kontrolü
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	// Sadece base MIME type'ı al (charset vb. parametre olabilir)
	mimeBase := strings.TrimSpace(strings.Split(contentType, ";")[0])

	if !allowedMimeTypes[mimeBase] {
		return nil, fmt.Errorf("%w: file type not allowed: %s", pkg.ErrBadRequest, mimeBase)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = header.Filename
	}

	// Unique dosya adı oluştur — çakışma ve güvenlik için
	// {random_hex}_{original_filename} formatı
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random filename: %w", err)
	}
	safeFilename := sanitizeFilename(header.Filename)
	diskFilename := hex.EncodeToString(randomBytes) + "_" + safeFilename

	destPath := filepath.Join(s.uploadDir, diskFilename)
	destFile, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		// Hata durumunda dosyayı temizle
		os.Remove(destPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	fileSize := header.Size
	item := &models.MediaItem{
		Title:      title,
		Filename:   header.Filename,
		FileURL:    "/api/uploads/" + diskFilename,
		MimeType:   &mimeBase,
		FileSize:   &fileSize,
		UploaderID: uploaderID,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		os.Remove(destPath) // Hata durumunda dosyayı temizle
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpMediaCreate, Data: item})
	return item, nil
}

func (s *mediaService) GetAll(ctx context.Context) ([]models.MediaItem, error) {
	return s.repo.GetAll(ctx)
}

func (s *mediaService) Delete(ctx context.Context, mediaID, requesterID string, isAdmin bool) error {
	item, err := s.repo.GetByID(ctx, mediaID)
	if err != nil {
		return err
	}

	if !isAdmin && item.UploaderID != requesterID {
		return fmt.Errorf("%w: only the uploader or an admin can delete media", pkg.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, mediaID); err != nil {
		return err
	}

	// Disk dosyasını da temizle — DB kaydı silindi, dosya yetim kalmasın.
	// Silme hatası kritik değil, sadece loglanır.
	if strings.HasPrefix(item.FileURL, "/api/uploads/") {
		diskPath := filepath.Join(s.uploadDir, filepath.Base(item.FileURL))
		if err := os.Remove(diskPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[media] failed to remove file %s: %v", diskPath, err)
		}
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpMediaDelete, Data: ws.DeletedData{ID: mediaID}})
	return nil
}

func (s *mediaService) RegisterDownload(ctx context.Context, mediaID string) (*models.MediaItem, error) {
	item, err := s.repo.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.IncrementDownload(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	item.DownloadCount = count
	return item, nil
}

// sanitizeFilename, dosya adını güvenli hale getirir.
// Path traversal saldırılarını önler (../../etc/passwd gibi).
func sanitizeFilename(name string) string {
	// Sadece dosya adını al (dizin yolunu kaldır)
	name = filepath.Base(name)

	// Tehlikeli karakterleri kaldır
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '\x00' {
			return -1 // Karakteri sil
		}
		return r
	}, name)

	if name == "" || name == "." || name == ".." {
		name = "unnamed"
	}

	return name
}
