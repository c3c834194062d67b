package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/ahamhfc/aham-cms-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mockAuditRepo struct {
	repository.AuditRepository
	mu        sync.Mutex
	entries   []models.AuditLog
	createErr error
	listErr   error
	lastQuery repository.AuditFilter
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	entry.ID = uint(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, filter repository.AuditFilter) ([]models.AuditLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	total := int64(len(m.entries))
	if filter.Offset >= len(m.entries) {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(m.entries) {
		end = len(m.entries)
	}
	out := make([]models.AuditLog, end-filter.Offset)
	copy(out, m.entries[filter.Offset:end])
	return out, total, nil
}

func (m *mockAuditRepo) WithTx(tx *gorm.DB) repository.AuditRepository {
	return m
}

func (m *mockAuditRepo) all() []models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditLog, len(m.entries))
	copy(out, m.entries)
	return out
}

type mockMediaRepo struct {
	repository.MediaRepository
	assets      map[uuid.UUID]models.MediaAsset
	createCalls int
	createErr   error
	deleteErr   error
}

func newMockMediaRepo() *mockMediaRepo {
	return &mockMediaRepo{assets: map[uuid.UUID]models.MediaAsset{}}
}

func (m *mockMediaRepo) Create(ctx context.Context, asset *models.MediaAsset) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.assets[asset.ID] = *asset
	return nil
}

func (m *mockMediaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaAsset, error) {
	a, ok := m.assets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (m *mockMediaRepo) List(ctx context.Context, limit int) ([]models.MediaAsset, error) {
	var out []models.MediaAsset
	for _, a := range m.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockMediaRepo) UpdateAltText(ctx context.Context, id uuid.UUID, altEN, altTA string) error {
	a, ok := m.assets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.AltTextEN, a.AltTextTA = altEN, altTA
	m.assets[id] = a
	return nil
}

func (m *mockMediaRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	if _, ok := m.assets[id]; !ok {
		return 0, nil
	}
	delete(m.assets, id)
	return 1, nil
}

func (m *mockMediaRepo) FileNames(ctx context.Context) ([]string, error) {
	var names []string
	for _, a := range m.assets {
		names = append(names, a.FileName)
	}
	return names, nil
}

type mockContentRepo struct {
	repository.ContentRepository
	docs      map[uuid.UUID]models.ContentDocument
	updateErr error
}

func newMockContentRepo() *mockContentRepo {
	return &mockContentRepo{docs: map[uuid.UUID]models.ContentDocument{}}
}

func (m *mockContentRepo) Create(ctx context.Context, doc *models.ContentDocument) error {
	now := time.Now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now
	m.docs[doc.ID] = *doc
	return nil
}

func (m *mockContentRepo) FindByID(ctx context.Context, section string, id uuid.UUID) (*models.ContentDocument, error) {
	d, ok := m.docs[id]
	if !ok || d.Section != section {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (m *mockContentRepo) List(ctx context.Context, section string, publishedOnly bool) ([]models.ContentDocument, error) {
	var out []models.ContentDocument
	for _, d := range m.docs {
		if d.Section == section && (!publishedOnly || d.Status) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockContentRepo) Update(ctx context.Context, doc *models.ContentDocument) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	doc.UpdatedAt = time.Now().UTC()
	m.docs[doc.ID] = *doc
	return nil
}

func (m *mockContentRepo) Delete(ctx context.Context, section string, id uuid.UUID) (int64, error) {
	d, ok := m.docs[id]
	if !ok || d.Section != section {
		return 0, nil
	}
	delete(m.docs, id)
	return 1, nil
}

func (m *mockContentRepo) WithTx(tx *gorm.DB) repository.ContentRepository {
	return m
}

type mockUserRepo struct {
	repository.UserRepository
	users     map[uint]models.User
	nextID    uint
	touched   map[uint]time.Time
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[uint]models.User{}, touched: map[uint]time.Time{}}
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateKey
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) (int64, error) {
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepo) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	m.touched[id] = at
	return nil
}

func (m *mockUserRepo) WithTx(tx *gorm.DB) repository.UserRepository {
	return m
}
