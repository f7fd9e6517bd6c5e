package models

import (
	"time"
)

// AuditLog represents a record of workspace changes
type AuditLog struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Action      string    `gorm:"not null" json:"action"`        // e.g., "create_workspace", "delete_workspace"
	Resource    string    `gorm:"not null" json:"resource"`      // e.g., "ws:staging"
	DetailsJSON string    `gorm:"type:text" json:"details_json"` // Additional context in JSON
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
}
