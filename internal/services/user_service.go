package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/ahamhfc/aham-cms-api/internal/repository"
	"github.com/ahamhfc/aham-cms-api/pkg/logger"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// CreateUserInput carries the fields an admin supplies for a new account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UserService handles CMS account management
type UserService struct {
	repo   repository.UserRepository
	writer auditedWriter
	// onCreated runs after a user is committed
	onCreated func(models.User)
}

func NewUserService(db *gorm.DB, repo repository.UserRepository, audit *AuditService, strictAudit bool) *UserService {
	return &UserService{
		repo:   repo,
		writer: auditedWriter{db: db, audit: audit, strict: strictAudit},
	}
}

func (s *UserService) repoFor(tx *gorm.DB) repository.UserRepository {
	if tx == nil {
		return s.repo
	}
	return s.repo.WithTx(tx)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", ErrStorageFailure, err)
	}
	return users, nil
}

// Create adds an account. The audit snapshot is the public view of the user,
// so the password hash never reaches the audit log.
func (s *UserService) Create(ctx context.Context, actor string, in CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidContent)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidContent, minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = models.RoleEditor
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidContent, role)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:              strings.TrimSpace(in.Name),
		Email:             email,
		EncryptedPassword: hash,
		Role:              role,
	}

	err = s.writer.run(ctx, func(tx *gorm.DB, record recordFunc) error {
		if err := s.repoFor(tx).Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return fmt.Errorf("%w: email %s already registered", ErrDuplicate, email)
			}
			return fmt.Errorf("%w: create user: %v", ErrStorageFailure, err)
		}
		return record(actor, models.SectionUsers, models.ActionCreate, strconv.FormatUint(uint64(user.ID), 10), nil, user.ToResponse())
	})
	if err != nil {
		return nil, err
	}
	if s.onCreated != nil {
		s.onCreated(*user)
	}
	return user, nil
}

// Delete removes an account. Nobody can delete their own account.
func (s *UserService) Delete(ctx context.Context, actor string, id uint) error {
	return s.writer.run(ctx, func(tx *gorm.DB, record recordFunc) error {
		repo := s.repoFor(tx)
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}
		if strings.EqualFold(user.Email, actor) {
			return fmt.Errorf("%w: cannot delete your own account", ErrForbidden)
		}

		n, err := repo.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: delete user: %v", ErrStorageFailure, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return record(actor, models.SectionUsers, models.ActionDelete, strconv.FormatUint(uint64(id), 10), user.ToResponse(), nil)
	})
}

// EnsureDefaultAdmin creates the bootstrap admin account when it is missing.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up default admin: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Name:              "Administrator",
		Email:             strings.ToLower(email),
		EncryptedPassword: hash,
		Role:              models.RoleAdmin,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("create default admin: %w", err)
	}
	logger.Info("Default admin account created", "email", admin.Email)
	return nil
}
