package services

import (
	"context"

	"gorm.io/gorm"
)

// recordFunc appends the audit entry of the mutation in progress.
type recordFunc func(actor, section, action, recordID string, oldValue, newValue any) error

// auditedWriter runs a mutation together with its audit append.
//
// By default the append is best-effort: the mutation commits on its own and an
// append failure is only logged. In strict mode both run in one transaction
// and a failed append rolls the mutation back.
type auditedWriter struct {
	db     *gorm.DB
	audit  *AuditService
	strict bool
}

// run calls fn with tx == nil outside strict mode; repositories are then used as-is.
func (w auditedWriter) run(ctx context.Context, fn func(tx *gorm.DB, record recordFunc) error) error {
	if !w.strict || w.db == nil {
		return fn(nil, func(actor, section, action, recordID string, oldValue, newValue any) error {
			w.audit.RecordBestEffort(ctx, actor, section, action, recordID, oldValue, newValue)
			return nil
		})
	}

	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		audit := w.audit.WithTx(tx)
		return fn(tx, func(actor, section, action, recordID string, oldValue, newValue any) error {
			_, err := audit.Record(ctx, actor, section, action, recordID, oldValue, newValue)
			return err
		})
	})
}
