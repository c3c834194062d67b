package repository

import (
	"context"

	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaRepository defines the interface for media metadata access
type MediaRepository interface {
	Create(ctx context.Context, asset *models.MediaAsset) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MediaAsset, error)
	List(ctx context.Context, limit int) ([]models.MediaAsset, error)
	UpdateAltText(ctx context.Context, id uuid.UUID, altEN, altTA string) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	FileNames(ctx context.Context) ([]string, error)
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, asset *models.MediaAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *mediaRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *mediaRepository) List(ctx context.Context, limit int) ([]models.MediaAsset, error) {
	var assets []models.MediaAsset
	err := r.db.WithContext(ctx).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&assets).Error
	return assets, err
}

func (r *mediaRepository) UpdateAltText(ctx context.Context, id uuid.UUID, altEN, altTA string) error {
	return r.db.WithContext(ctx).
		Model(&models.MediaAsset{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"alt_text_en": altEN,
			"alt_text_ta": altTA,
		}).Error
}

// Delete returns the number of removed rows so callers can detect a concurrent delete.
func (r *mediaRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MediaAsset{})
	return result.RowsAffected, result.Error
}

// FileNames returns every referenced storage key.
func (r *mediaRepository) FileNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.MediaAsset{}).
		Pluck("file_name", &names).Error
	return names, err
}
