package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/ahamhfc/aham-cms-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_Record_AppendsOneEntry(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	entry, err := svc.Record(context.Background(), "editor@ahamhfc.com", models.SectionBanners, models.ActionUpdate, "b-1",
		map[string]any{"title_en": "Old"}, map[string]any{"title_en": "New"})
	require.NoError(t, err)

	entries := repo.all()
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, "editor@ahamhfc.com", entries[0].UserEmail)
	assert.Equal(t, models.SectionBanners, entries[0].Section)
	assert.Equal(t, models.ActionUpdate, entries[0].Action)
	assert.Equal(t, "b-1", entries[0].RecordID)
	assert.JSONEq(t, `{"title_en":"Old"}`, string(entries[0].OldValue))
	assert.JSONEq(t, `{"title_en":"New"}`, string(entries[0].NewValue))
	assert.Equal(t, fixed, entries[0].CreatedAt)
}

func TestAuditService_Record_NilSnapshotsStayEmpty(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo)

	_, err := svc.Record(context.Background(), "admin@ahamhfc.com", models.SectionMedia, models.ActionDelete, "m-1",
		json.RawMessage(`{"file_name":"a.jpg"}`), nil)
	require.NoError(t, err)

	entries := repo.all()
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].NewValue)
	assert.JSONEq(t, `{"file_name":"a.jpg"}`, string(entries[0].OldValue))
}

func TestAuditService_Record_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		actor    string
		section  string
		action   string
		recordID string
	}{
		{"unknown action", "a@b.com", models.SectionBanners, "upsert", "1"},
		{"unknown section", "a@b.com", "pages", models.ActionCreate, "1"},
		{"missing actor", "", models.SectionBanners, models.ActionCreate, "1"},
		{"missing record id", "a@b.com", models.SectionBanners, models.ActionCreate, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAuditRepo{}
			svc := NewAuditService(repo)

			_, err := svc.Record(context.Background(), tt.actor, tt.section, tt.action, tt.recordID, nil, nil)
			assert.ErrorIs(t, err, ErrInvalidAudit)
			assert.Empty(t, repo.all())
		})
	}
}

func TestAuditService_Record_StorageFailure(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("connection refused")}
	svc := NewAuditService(repo)

	_, err := svc.Record(context.Background(), "a@b.com", models.SectionProducts, models.ActionCreate, "p-1", nil, map[string]any{"x": 1})
	assert.ErrorIs(t, err, ErrStorageFailure)
}

func TestAuditService_RecordBestEffort_SwallowsFailure(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("connection refused")}
	svc := NewAuditService(repo)

	assert.NotPanics(t, func() {
		svc.RecordBestEffort(context.Background(), "a@b.com", models.SectionProducts, models.ActionCreate, "p-1", nil, nil)
	})
	assert.Empty(t, repo.all())
}

func TestAuditService_List_ClampsLimit(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo)

	_, _, err := svc.List(context.Background(), repository.AuditFilter{Limit: 10_000, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, maxAuditLimit, repo.lastQuery.Limit)
	assert.Equal(t, 0, repo.lastQuery.Offset)

	_, _, err = svc.List(context.Background(), repository.AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, defaultAuditLimit, repo.lastQuery.Limit)
}

func TestAuditService_List_StorageFailure(t *testing.T) {
	repo := &mockAuditRepo{listErr: errors.New("timeout")}
	svc := NewAuditService(repo)

	_, _, err := svc.List(context.Background(), repository.AuditFilter{})
	assert.ErrorIs(t, err, ErrStorageFailure)
}
