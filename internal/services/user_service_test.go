package services

import (
	"context"
	"testing"

	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create(t *testing.T) {
	repo := newMockUserRepo()
	auditRepo := &mockAuditRepo{}
	svc := NewUserService(nil, repo, NewAuditService(auditRepo), false)

	user, err := svc.Create(context.Background(), "admin@ahamhfc.com", CreateUserInput{
		Name: "Priya", Email: " Priya@AhamHFC.com ", Password: "long-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, "priya@ahamhfc.com", user.Email)
	assert.Equal(t, models.RoleEditor, user.Role)
	assert.True(t, VerifyPassword("long-enough", user.EncryptedPassword))

	entries := auditRepo.all()
	require.Len(t, entries, 1)
	assert.Equal(t, models.SectionUsers, entries[0].Section)
	assert.Equal(t, models.ActionCreate, entries[0].Action)
	assert.Contains(t, string(entries[0].NewValue), "priya@ahamhfc.com")
	assert.NotContains(t, string(entries[0].NewValue), user.EncryptedPassword)
	assert.NotContains(t, string(entries[0].NewValue), "password")
}

func TestUserService_Create_Rejects(t *testing.T) {
	repo := newMockUserRepo()
	auditRepo := &mockAuditRepo{}
	svc := NewUserService(nil, repo, NewAuditService(auditRepo), false)
	_, err := svc.Create(context.Background(), "admin@ahamhfc.com", CreateUserInput{Email: "taken@ahamhfc.com", Password: "long-enough"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   CreateUserInput
		want error
	}{
		{"duplicate email", CreateUserInput{Email: "TAKEN@ahamhfc.com", Password: "long-enough"}, ErrDuplicate},
		{"bad email", CreateUserInput{Email: "not-an-email", Password: "long-enough"}, ErrInvalidContent},
		{"short password", CreateUserInput{Email: "new@ahamhfc.com", Password: "short"}, ErrInvalidContent},
		{"bad role", CreateUserInput{Email: "new@ahamhfc.com", Password: "long-enough", Role: "owner"}, ErrInvalidContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "admin@ahamhfc.com", tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Len(t, auditRepo.all(), 1)
}

func TestUserService_Delete(t *testing.T) {
	repo := newMockUserRepo()
	auditRepo := &mockAuditRepo{}
	svc := NewUserService(nil, repo, NewAuditService(auditRepo), false)
	admin, err := svc.Create(context.Background(), "system", CreateUserInput{Email: "admin@ahamhfc.com", Password: "long-enough", Role: models.RoleAdmin})
	require.NoError(t, err)
	editor, err := svc.Create(context.Background(), "admin@ahamhfc.com", CreateUserInput{Email: "ed@ahamhfc.com", Password: "long-enough"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "admin@ahamhfc.com", admin.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), "admin@ahamhfc.com", editor.ID))
	entries := auditRepo.all()
	last := entries[len(entries)-1]
	assert.Equal(t, models.ActionDelete, last.Action)
	assert.Contains(t, string(last.OldValue), "ed@ahamhfc.com")

	err = svc.Delete(context.Background(), "admin@ahamhfc.com", editor.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_EnsureDefaultAdmin(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(nil, repo, NewAuditService(&mockAuditRepo{}), false)

	require.NoError(t, svc.EnsureDefaultAdmin(context.Background(), "Admin@AhamHFC.com", "bootstrap-pass"))
	require.NoError(t, svc.EnsureDefaultAdmin(context.Background(), "admin@ahamhfc.com", "other-pass"))

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@ahamhfc.com", users[0].Email)
	assert.True(t, users[0].IsAdmin())
	assert.True(t, VerifyPassword("bootstrap-pass", users[0].EncryptedPassword))

	require.NoError(t, svc.EnsureDefaultAdmin(context.Background(), "", ""))
}

func TestUserService_Create_NotifiesAfterCommit(t *testing.T) {
	svc := NewUserService(nil, newMockUserRepo(), NewAuditService(&mockAuditRepo{}), false)
	var notified []string
	svc.onCreated = func(u models.User) { notified = append(notified, u.Email) }

	_, err := svc.Create(context.Background(), "admin@ahamhfc.com", CreateUserInput{Email: "new@ahamhfc.com", Password: "long-enough"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "admin@ahamhfc.com", CreateUserInput{Email: "new@ahamhfc.com", Password: "long-enough"})
	require.Error(t, err)

	assert.Equal(t, []string{"new@ahamhfc.com"}, notified)
}
