// Package store provides the GORM-backed system of record for workspaces.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nebari-dev/multiversion/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound indicates the requested workspace does not exist.
var ErrNotFound = errors.New("workspace not found")

// ErrMachineNameTaken is returned by Persist when another workspace already
// uses the machine name.
var ErrMachineNameTaken = errors.New("machine name already in use")

// WorkspaceRepository persists workspaces with GORM.
type WorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a repository over db.
func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Exists reports whether a workspace with the given machine name is stored.
func (r *WorkspaceRepository) Exists(ctx context.Context, machineName string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Workspace{}).
		Where("machine_name = ?", machineName).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Persist inserts a new workspace or updates an existing one. A new
// workspace gets its ID only when the insert commits.
func (r *WorkspaceRepository) Persist(ctx context.Context, ws *models.Workspace) error {
	if ws.IsNew() {
		err := r.db.WithContext(ctx).Create(ws).Error
		if err != nil {
			// BeforeCreate and gorm assigned these; the row never landed.
			ws.ID = uuid.Nil
			ws.CreatedAt = time.Time{}
			ws.UpdatedAt = time.Time{}
			if isUniqueViolation(err) {
				return ErrMachineNameTaken
			}
			return fmt.Errorf("create workspace: %w", err)
		}
		return nil
	}

	res := r.db.WithContext(ctx).Model(&models.Workspace{}).
		Where("id = ?", ws.ID).
		Updates(map[string]interface{}{
			"label":  ws.Label,
			"bundle": ws.BundleName(),
		})
	if res.Error != nil {
		return fmt.Errorf("update workspace: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns a workspace by ID.
func (r *WorkspaceRepository) Get(ctx context.Context, id string) (*models.Workspace, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var ws models.Workspace
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ws).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

// GetByMachineName returns the workspace using the given machine name.
func (r *WorkspaceRepository) GetByMachineName(ctx context.Context, machineName string) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.WithContext(ctx).Where("machine_name = ?", machineName).First(&ws).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

// Load resolves a workspace by ID or, failing that, by machine name.
func (r *WorkspaceRepository) Load(ctx context.Context, ref string) (*models.Workspace, error) {
	ws, err := r.Get(ctx, ref)
	if errors.Is(err, ErrNotFound) {
		return r.GetByMachineName(ctx, ref)
	}
	return ws, err
}

// List returns all workspaces ordered by label.
func (r *WorkspaceRepository) List(ctx context.Context) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	if err := r.db.WithContext(ctx).Order("label ASC").Order("machine_name ASC").Find(&workspaces).Error; err != nil {
		return nil, err
	}
	return workspaces, nil
}

// Delete removes a workspace by ID.
func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Workspace{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation recognizes unique-constraint failures whether or not the
// dialector translates them into gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
