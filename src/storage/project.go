package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// CreateProject creates a new project in the database
func CreateProject(ctx context.Context, db Execer, project *Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}
	if project.UpdatedAt.IsZero() {
		project.UpdatedAt = project.CreatedAt
	}

	query := `INSERT INTO projects (id, tenant_id, client_id, name, domain, cms, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		project.ID,
		project.TenantID,
		project.ClientID,
		project.Name,
		project.Domain,
		project.CMS,
		project.CreatedAt,
		project.UpdatedAt,
	)
	return err
}

// GetProjectByID retrieves a project by its ID. Returns nil when no row matches.
func GetProjectByID(ctx context.Context, db sqlscan.Querier, id string) (*Project, error) {
	var project Project
	err := sqlscan.Get(ctx, db, &project, `SELECT id, tenant_id, client_id, name, domain, cms, created_at, updated_at FROM projects WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return &project, nil
}
