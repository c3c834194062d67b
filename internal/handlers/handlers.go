package handlers

import (
	"context"

	"github.com/ahamhfc/aham-cms-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	User    *UserHandler
	Content *ContentHandler
	Media   *MediaHandler
	Audit   *AuditHandler
	Job     *JobHandler
}

// NewHandlers creates all handler instances. ping checks the database for the
// health endpoint and may be nil.
func NewHandlers(svcs *services.Services, ping func(ctx context.Context) error) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(ping),
		Auth:    NewAuthHandler(svcs.Auth),
		User:    NewUserHandler(svcs.User),
		Content: NewContentHandler(svcs.Content),
		Media:   NewMediaHandler(svcs.Media),
		Audit:   NewAuditHandler(svcs.Audit, svcs.Export),
		Job:     NewJobHandler(svcs.Job),
	}
}
