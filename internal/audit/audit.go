package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nebari-dev/multiversion/internal/models"
	"gorm.io/gorm"
)

// Audit actions constants
const (
	ActionCreateWorkspace = "create_workspace"
	ActionUpdateWorkspace = "update_workspace"
	ActionDeleteWorkspace = "delete_workspace"
)

// Logger writes audit log entries to the database.
type Logger struct {
	db *gorm.DB
}

// New creates an audit Logger backed by db.
func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// LogAction records an audit log entry
func (l *Logger) LogAction(ctx context.Context, action, resource string, details interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	log := models.AuditLog{
		Action:      action,
		Resource:    resource,
		DetailsJSON: string(detailsJSON),
		Timestamp:   time.Now(),
	}

	return l.db.WithContext(ctx).Create(&log).Error
}

// List returns the most recent entries first, up to limit (0 means no limit).
func (l *Logger) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	q := l.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
