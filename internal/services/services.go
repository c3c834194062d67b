package services

import (
	"github.com/ahamhfc/aham-cms-api/internal/config"
	"github.com/ahamhfc/aham-cms-api/internal/jobs"
	"github.com/ahamhfc/aham-cms-api/internal/repository"
	"github.com/ahamhfc/aham-cms-api/internal/storage"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth    *AuthService
	User    *UserService
	Content *ContentService
	Media   *MediaService
	Audit   *AuditService
	Export  *ExportService
	Email   *EmailService
	Job     *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store storage.Storage, cfg *config.Config, db *gorm.DB) *Services {
	auditSvc := NewAuditService(repos.Audit)
	mediaSvc := NewMediaService(repos.Media, store, NewImageProcessor(), auditSvc, cfg.MediaOrphanMinAge)
	emailSvc := NewEmailService(cfg)
	jobSvc := NewJobService(worker, mediaSvc, emailSvc)

	userSvc := NewUserService(db, repos.User, auditSvc, cfg.AuditStrict)
	userSvc.onCreated = jobSvc.QueueAccountCreatedEmail

	return &Services{
		Auth:    NewAuthService(repos.User, cfg),
		User:    userSvc,
		Content: NewContentService(db, repos.Content, auditSvc, cfg.AuditStrict),
		Media:   mediaSvc,
		Audit:   auditSvc,
		Export:  NewExportService(auditSvc),
		Email:   emailSvc,
		Job:     jobSvc,
	}
}
