package models

import (
	"encoding/json"
	"time"
)

// Audit actions
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// IsValidAction reports whether action is one of the recorded mutation kinds.
func IsValidAction(action string) bool {
	switch action {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// AuditLog is one immutable entry of the admin audit trail.
// It has no foreign key to the mutated record so entries outlive deletions.
type AuditLog struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserEmail string          `gorm:"size:255;not null;index" json:"user_email"`
	Section   string          `gorm:"size:50;not null;index" json:"section"`
	Action    string          `gorm:"size:20;not null" json:"action"`
	RecordID  string          `gorm:"size:64;not null" json:"record_id"`
	OldValue  json.RawMessage `gorm:"type:jsonb" json:"old_value"`
	NewValue  json.RawMessage `gorm:"type:jsonb" json:"new_value"`
	CreatedAt time.Time       `gorm:"index" json:"timestamp"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
