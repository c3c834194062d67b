package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaAsset is the metadata record of an ingested image. FileName is the
// storage key of the backing file.
type MediaAsset struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FileName     string    `gorm:"size:255;not null;uniqueIndex" json:"file_name"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	URL          string    `gorm:"size:1024;not null" json:"url"`
	AltTextEN    string    `gorm:"column:alt_text_en" json:"alt_text_en"`
	AltTextTA    string    `gorm:"column:alt_text_ta" json:"alt_text_ta"`
	ContentType  string    `gorm:"size:50" json:"content_type"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	FileSize     int64     `gorm:"not null" json:"file_size"`
	Checksum     string    `gorm:"size:64" json:"checksum"`
	UploadedBy   string    `gorm:"size:255;not null" json:"uploaded_by"`
	UploadedAt   time.Time `gorm:"index" json:"uploaded_at"`
}

// TableName specifies the table name for MediaAsset
func (MediaAsset) TableName() string {
	return "media_assets"
}

// BeforeCreate assigns the identifier and upload time when the caller did not.
func (m *MediaAsset) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.UploadedAt.IsZero() {
		m.UploadedAt = time.Now().UTC()
	}
	return nil
}

// MediaSnapshot is the audit representation of an asset, without generated identifiers.
type MediaSnapshot struct {
	FileName     string `json:"file_name"`
	OriginalName string `json:"original_name"`
	URL          string `json:"url"`
	AltTextEN    string `json:"alt_text_en"`
	AltTextTA    string `json:"alt_text_ta"`
	FileSize     int64  `json:"file_size"`
	UploadedBy   string `json:"uploaded_by"`
}

// Snapshot returns the audit representation of m.
func (m *MediaAsset) Snapshot() MediaSnapshot {
	return MediaSnapshot{
		FileName:     m.FileName,
		OriginalName: m.OriginalName,
		URL:          m.URL,
		AltTextEN:    m.AltTextEN,
		AltTextTA:    m.AltTextTA,
		FileSize:     m.FileSize,
		UploadedBy:   m.UploadedBy,
	}
}
