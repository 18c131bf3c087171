// Package models — Medya galerisi modelleri.
package models

import "time"

// MediaItem, galeriye yüklenmiş bir dosyayı temsil eder.
//
// DownloadCount: kaç kez indirildiği. Client indirme başlattığında
// register-download endpoint'ini çağırır, sayaç atomik artar.
type MediaItem struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Filename      string    `json:"filename"`
	FileURL       string    `json:"file_url"`
	MimeType      *string   `json:"mime_type"`
	FileSize      *int64    `json:"file_size"`
	UploaderID    string    `json:"uploader_id"`
	UploaderName  string    `json:"uploader_name"`
	DownloadCount int       `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
}
