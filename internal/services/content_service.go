package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/ahamhfc/aham-cms-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Keys the server owns; they are dropped from editor payloads.
var reservedContentKeys = []string{"id", "_id", "section", "status", "created_at", "updated_at"}

// ContentService implements CRUD for every content section through one
// generic document model. Each mutation is audited.
type ContentService struct {
	repo   repository.ContentRepository
	writer auditedWriter
}

func NewContentService(db *gorm.DB, repo repository.ContentRepository, audit *AuditService, strictAudit bool) *ContentService {
	return &ContentService{
		repo:   repo,
		writer: auditedWriter{db: db, audit: audit, strict: strictAudit},
	}
}

func (s *ContentService) repoFor(tx *gorm.DB) repository.ContentRepository {
	if tx == nil {
		return s.repo
	}
	return s.repo.WithTx(tx)
}

// Section resolves a content section by name.
func (s *ContentService) Section(name string) (models.Section, error) {
	sec, ok := models.LookupSection(name)
	if !ok {
		return models.Section{}, fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
	return sec, nil
}

// List returns every document of a section, drafts included.
func (s *ContentService) List(ctx context.Context, section string) ([]models.ContentDocument, error) {
	return s.list(ctx, section, false)
}

// ListPublished returns the documents visitors may see.
func (s *ContentService) ListPublished(ctx context.Context, section string) ([]models.ContentDocument, error) {
	return s.list(ctx, section, true)
}

func (s *ContentService) list(ctx context.Context, section string, publishedOnly bool) ([]models.ContentDocument, error) {
	if _, err := s.Section(section); err != nil {
		return nil, err
	}
	docs, err := s.repo.List(ctx, section, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrStorageFailure, section, err)
	}
	return docs, nil
}

func (s *ContentService) Get(ctx context.Context, section string, id uuid.UUID) (*models.ContentDocument, error) {
	if _, err := s.Section(section); err != nil {
		return nil, err
	}
	doc, err := s.repo.FindByID(ctx, section, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return doc, nil
}

// Create stores a new document and audits it with the persisted state.
func (s *ContentService) Create(ctx context.Context, actor, section string, data json.RawMessage, status bool) (*models.ContentDocument, error) {
	sec, err := s.Section(section)
	if err != nil {
		return nil, err
	}
	normalized, err := normalizeContent(sec, data)
	if err != nil {
		return nil, err
	}

	doc := &models.ContentDocument{
		ID:      uuid.New(),
		Section: section,
		Data:    normalized,
		Status:  status,
	}

	err = s.writer.run(ctx, func(tx *gorm.DB, record recordFunc) error {
		repo := s.repoFor(tx)
		if sec.Singleton {
			existing, err := repo.List(ctx, section, false)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrStorageFailure, err)
			}
			if len(existing) > 0 {
				return fmt.Errorf("%w: %s already has a document", ErrDuplicate, section)
			}
		}
		if err := repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("%w: create %s: %v", ErrStorageFailure, section, err)
		}
		return record(actor, section, models.ActionCreate, doc.ID.String(), nil, doc.Snapshot())
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update replaces a document's data and status. The prior state is read in the
// same call, before the write, and becomes the audit old value.
func (s *ContentService) Update(ctx context.Context, actor, section string, id uuid.UUID, data json.RawMessage, status bool) (*models.ContentDocument, error) {
	sec, err := s.Section(section)
	if err != nil {
		return nil, err
	}
	normalized, err := normalizeContent(sec, data)
	if err != nil {
		return nil, err
	}

	var updated *models.ContentDocument
	err = s.writer.run(ctx, func(tx *gorm.DB, record recordFunc) error {
		repo := s.repoFor(tx)
		old, err := repo.FindByID(ctx, section, id)
		if err != nil {
			return mapLookupError(err)
		}
		before := old.Snapshot()

		doc := *old
		doc.Data = normalized
		doc.Status = status
		if err := repo.Update(ctx, &doc); err != nil {
			return fmt.Errorf("%w: update %s: %v", ErrStorageFailure, section, err)
		}
		updated = &doc
		return record(actor, section, models.ActionUpdate, id.String(), before, doc.Snapshot())
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a document of a collection section.
func (s *ContentService) Delete(ctx context.Context, actor, section string, id uuid.UUID) error {
	sec, err := s.Section(section)
	if err != nil {
		return err
	}
	if sec.Singleton {
		return fmt.Errorf("%w: %s cannot be deleted", ErrOperationNotAllowed, section)
	}

	return s.writer.run(ctx, func(tx *gorm.DB, record recordFunc) error {
		repo := s.repoFor(tx)
		old, err := repo.FindByID(ctx, section, id)
		if err != nil {
			return mapLookupError(err)
		}
		n, err := repo.Delete(ctx, section, id)
		if err != nil {
			return fmt.Errorf("%w: delete %s: %v", ErrStorageFailure, section, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return record(actor, section, models.ActionDelete, id.String(), old.Snapshot(), nil)
	})
}

// normalizeContent checks that data is a JSON object carrying the section's
// required fields and returns it re-encoded without server-owned keys.
func normalizeContent(sec models.Section, data json.RawMessage) (json.RawMessage, error) {
	// UseNumber keeps integers beyond float64 precision intact
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidContent)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: body must be a single JSON object", ErrInvalidContent)
	}
	for _, k := range reservedContentKeys {
		delete(fields, k)
	}

	var missing []string
	for _, f := range sec.RequiredFields {
		v, ok := fields[f]
		if !ok || v == nil {
			missing = append(missing, f)
			continue
		}
		if str, isStr := v.(string); isStr && strings.TrimSpace(str) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", ErrInvalidContent, strings.Join(missing, ", "))
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return out, nil
}
