package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gigflow/internal/models"
)

func (repo *Repository) AddGig(ctx context.Context, gig models.Gig) (models.Gig, error) {
	query := `
	INSERT INTO gigs (owner_id, title, description, budget, status)
	VALUES
		($1, $2, $3, $4, 'open')
	RETURNING
		id, status, created_at, updated_at
	`

	row := repo.db.QueryRowContext(ctx, query, gig.OwnerId, gig.Title, gig.Description, gig.Budget)
	err := row.Scan(&gig.Id, &gig.Status, &gig.CreatedAt, &gig.UpdatedAt)
	if err != nil {
		return gig, fmt.Errorf("repository.Repository.AddGig: %w", err)
	}

	return gig, nil
}

func (repo *Repository) GetGigs(ctx context.Context, limit, offset int, search string) ([]models.Gig, error) {
	query := `
	SELECT
		g.id, g.owner_id, u.name, g.title, g.description, g.budget, g.status, g.created_at, g.updated_at
	FROM gigs g
	JOIN users u ON u.id = g.owner_id
	WHERE ($3 = '' OR g.title ILIKE '%' || $3 || '%')
	ORDER BY g.created_at DESC
	LIMIT $1
	OFFSET $2
	`

	var limitParam interface{}
	if limit > 0 {
		limitParam = limit
	}

	rows, err := repo.db.QueryContext(ctx, query, limitParam, offset, search)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetGigs: %w", err)
	}
	defer rows.Close()

	var result []models.Gig
	var gig models.Gig
	for rows.Next() {
		err = rows.Scan(&gig.Id, &gig.OwnerId, &gig.OwnerName, &gig.Title, &gig.Description, &gig.Budget, &gig.Status, &gig.CreatedAt, &gig.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetGigs: rows scan error: %w", err)
		}
		result = append(result, gig)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetGigs: %w", rows.Err())
	}

	return result, nil
}

func (repo *Repository) GetGigByUUID(ctx context.Context, UUID string) (models.Gig, bool, error) {
	var gig models.Gig
	query := `
	SELECT
		g.id, g.owner_id, u.name, g.title, g.description, g.budget, g.status, g.created_at, g.updated_at
	FROM gigs g
	JOIN users u ON u.id = g.owner_id
	WHERE g.id = $1
	LIMIT 1
	`

	row := repo.db.QueryRowContext(ctx, query, UUID)
	err := row.Scan(&gig.Id, &gig.OwnerId, &gig.OwnerName, &gig.Title, &gig.Description, &gig.Budget, &gig.Status, &gig.CreatedAt, &gig.UpdatedAt)
	if err == sql.ErrNoRows || isInvalidUUID(err) {
		return gig, false, nil
	} else if err != nil {
		return gig, false, fmt.Errorf("repository.Repository.GetGigByUUID: %w", err)
	}

	return gig, true, nil
}
