package repository

import (
	"context"

	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentRepository stores documents of every content section in one table.
type ContentRepository interface {
	Create(ctx context.Context, doc *models.ContentDocument) error
	FindByID(ctx context.Context, section string, id uuid.UUID) (*models.ContentDocument, error)
	List(ctx context.Context, section string, publishedOnly bool) ([]models.ContentDocument, error)
	Update(ctx context.Context, doc *models.ContentDocument) error
	Delete(ctx context.Context, section string, id uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) ContentRepository
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) WithTx(tx *gorm.DB) ContentRepository {
	return &contentRepository{db: tx}
}

func (r *contentRepository) Create(ctx context.Context, doc *models.ContentDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *contentRepository) FindByID(ctx context.Context, section string, id uuid.UUID) (*models.ContentDocument, error) {
	var doc models.ContentDocument
	err := r.db.WithContext(ctx).
		Where("section = ? AND id = ?", section, id).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *contentRepository) List(ctx context.Context, section string, publishedOnly bool) ([]models.ContentDocument, error) {
	q := r.db.WithContext(ctx).Where("section = ?", section)
	if publishedOnly {
		q = q.Where("status = ?", true)
	}

	var docs []models.ContentDocument
	err := q.Order(listOrder(section)).Find(&docs).Error
	return docs, err
}

// listOrder sorts on the section's data field when it has one. Comparing jsonb
// values orders numbers numerically and ISO dates chronologically, and never
// fails on a malformed value the way a cast would.
func listOrder(section string) clause.OrderBy {
	desc, ok := models.LookupSection(section)
	if !ok || desc.Sort == nil {
		return clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "created_at ASC", Raw: true}}}}
	}
	dir := "ASC"
	if desc.Sort.Desc {
		dir = "DESC"
	}
	return clause.OrderBy{Expression: clause.Expr{
		SQL:  "data->? " + dir + " NULLS LAST, created_at ASC",
		Vars: []interface{}{desc.Sort.Field},
	}}
}

// Update writes the editable columns only.
func (r *contentRepository) Update(ctx context.Context, doc *models.ContentDocument) error {
	return r.db.WithContext(ctx).
		Model(doc).
		Select("Data", "Status", "UpdatedAt").
		Updates(doc).Error
}

func (r *contentRepository) Delete(ctx context.Context, section string, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("section = ? AND id = ?", section, id).
		Delete(&models.ContentDocument{})
	return result.RowsAffected, result.Error
}
