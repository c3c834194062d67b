package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/ahamhfc/aham-cms-api/internal/repository"
	"github.com/ahamhfc/aham-cms-api/pkg/logger"
	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

// AuditService appends entries to the audit trail. It never edits or removes them.
type AuditService struct {
	repo repository.AuditRepository
	now  func() time.Time
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

// WithTx returns a recorder whose appends join tx.
func (s *AuditService) WithTx(tx *gorm.DB) *AuditService {
	return &AuditService{repo: s.repo.WithTx(tx), now: s.now}
}

// Record appends one entry. oldValue must be read before the mutating write
// and newValue must be what was persisted; either may be nil.
func (s *AuditService) Record(ctx context.Context, actor, section, action, recordID string, oldValue, newValue any) (*models.AuditLog, error) {
	if actor == "" || recordID == "" {
		return nil, fmt.Errorf("%w: actor and record id are required", ErrInvalidAudit)
	}
	if !models.IsKnownSection(section) {
		return nil, fmt.Errorf("%w: unknown section %q", ErrInvalidAudit, section)
	}
	if !models.IsValidAction(action) {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidAudit, action)
	}

	oldJSON, err := snapshotJSON(oldValue)
	if err != nil {
		return nil, fmt.Errorf("%w: old value: %v", ErrInvalidAudit, err)
	}
	newJSON, err := snapshotJSON(newValue)
	if err != nil {
		return nil, fmt.Errorf("%w: new value: %v", ErrInvalidAudit, err)
	}

	entry := &models.AuditLog{
		UserEmail: actor,
		Section:   section,
		Action:    action,
		RecordID:  recordID,
		OldValue:  oldJSON,
		NewValue:  newJSON,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: append audit log: %v", ErrStorageFailure, err)
	}
	return entry, nil
}

// RecordBestEffort records an entry for a mutation that has already committed.
// A failed append is logged and reported to Sentry; the mutation stands.
func (s *AuditService) RecordBestEffort(ctx context.Context, actor, section, action, recordID string, oldValue, newValue any) {
	if _, err := s.Record(ctx, actor, section, action, recordID, oldValue, newValue); err != nil {
		logger.Error("Audit log write failed",
			"error", err,
			"actor", actor,
			"section", section,
			"action", action,
			"record_id", recordID,
		)
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	}
}

// List retrieves audit logs, newest first
func (s *AuditService) List(ctx context.Context, filter repository.AuditFilter) ([]models.AuditLog, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultAuditLimit
	}
	if filter.Limit > maxAuditLimit {
		filter.Limit = maxAuditLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list audit logs: %v", ErrStorageFailure, err)
	}
	return logs, total, nil
}

// snapshotJSON turns an opaque snapshot into JSON; nil and JSON null become SQL NULL.
func snapshotJSON(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	var raw []byte
	switch t := v.(type) {
	case json.RawMessage:
		raw = t
	case []byte:
		raw = t
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("snapshot is not valid JSON")
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out, nil
}
