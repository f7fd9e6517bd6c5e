package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BundleWorkspace is the bundle every workspace belongs to unless told otherwise.
const BundleWorkspace = "workspace"

// Workspace is a named container that content versions are tracked in.
// MachineName doubles as the stable identifier, so it is only set on create.
type Workspace struct {
	ID          uuid.UUID `gorm:"type:text;primary_key" json:"id"`
	Label       string    `gorm:"type:varchar(255);not null" json:"label"`
	MachineName string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"machine_name"`
	Bundle      string    `gorm:"not null;default:'workspace'" json:"bundle"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName ensures GORM uses the "workspaces" table
func (Workspace) TableName() string {
	return "workspaces"
}

// IsNew reports whether the workspace has never been persisted.
func (w *Workspace) IsNew() bool {
	return w.ID == uuid.Nil
}

// BundleName returns the bundle, falling back to the default one.
func (w *Workspace) BundleName() string {
	if w.Bundle == "" {
		return BundleWorkspace
	}
	return w.Bundle
}

// BeforeCreate hook to generate UUID
func (w *Workspace) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Bundle == "" {
		w.Bundle = BundleWorkspace
	}
	return nil
}
