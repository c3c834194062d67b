package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User    UserRepository
	Content ContentRepository
	Media   MediaRepository
	Audit   AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Content: NewContentRepository(db),
		Media:   NewMediaRepository(db),
		Audit:   NewAuditRepository(db),
	}
}
