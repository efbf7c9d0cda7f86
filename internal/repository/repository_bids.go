package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gigflow/internal/models"
)

func (repo *Repository) AddBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	query := `
	INSERT INTO bids (gig_id, freelancer_id, message, price, status)
	VALUES
		($1, $2, $3, $4, 'pending')
	RETURNING
		id, status, created_at, updated_at
	`

	row := repo.db.QueryRowContext(ctx, query, bid.GigId, bid.FreelancerId, bid.Message, bid.Price)
	err := row.Scan(&bid.Id, &bid.Status, &bid.CreatedAt, &bid.UpdatedAt)
	if isUniqueViolation(err) {
		return bid, fmt.Errorf("repository.Repository.AddBid: %w", models.ErrDuplicateBid)
	} else if err != nil {
		return bid, fmt.Errorf("repository.Repository.AddBid: %w", err)
	}

	return bid, nil
}

func (repo *Repository) GetBids(ctx context.Context, limit, offset int, freelancerId, gigId string) ([]models.Bid, error) {
	query := `
	SELECT
		b.id, b.gig_id, g.title, b.freelancer_id, b.message, b.price, b.status, b.created_at, b.updated_at
	FROM bids b
	JOIN gigs g ON g.id = b.gig_id
	WHERE ($3 = '' OR b.freelancer_id::text = $3)
	  AND ($4 = '' OR b.gig_id::text = $4)
	ORDER BY b.created_at DESC
	LIMIT $1
	OFFSET $2
	`

	var limitParam interface{}
	if limit > 0 {
		limitParam = limit
	}

	rows, err := repo.db.QueryContext(ctx, query, limitParam, offset, freelancerId, gigId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetBids: %w", err)
	}
	defer rows.Close()

	var result []models.Bid
	var bid models.Bid
	for rows.Next() {
		err = rows.Scan(&bid.Id, &bid.GigId, &bid.GigTitle, &bid.FreelancerId, &bid.Message, &bid.Price, &bid.Status, &bid.CreatedAt, &bid.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetBids: rows scan error: %w", err)
		}
		result = append(result, bid)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetBids: %w", rows.Err())
	}

	return result, nil
}

func (repo *Repository) GetBidByUUID(ctx context.Context, UUID string) (models.Bid, bool, error) {
	var bid models.Bid
	query := `
	SELECT
		b.id, b.gig_id, g.title, b.freelancer_id, b.message, b.price, b.status, b.created_at, b.updated_at
	FROM bids b
	JOIN gigs g ON g.id = b.gig_id
	WHERE b.id = $1
	LIMIT 1
	`

	row := repo.db.QueryRowContext(ctx, query, UUID)
	err := row.Scan(&bid.Id, &bid.GigId, &bid.GigTitle, &bid.FreelancerId, &bid.Message, &bid.Price, &bid.Status, &bid.CreatedAt, &bid.UpdatedAt)
	if err == sql.ErrNoRows || isInvalidUUID(err) {
		return bid, false, nil
	} else if err != nil {
		return bid, false, fmt.Errorf("repository.Repository.GetBidByUUID: %w", err)
	}

	return bid, true, nil
}

// HireBid settles a gig in a single transaction: the gig becomes assigned,
// the named bid becomes hired and every other pending bid on the gig becomes
// rejected. The gig row is locked for the duration, so concurrent hires on
// the same gig serialize and the loser fails on the status check.
func (repo *Repository) HireBid(ctx context.Context, bidId, actingUserId string) (models.HireResult, error) {
	var res models.HireResult

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("repository.Repository.HireBid: failed to start transaction: %w", err)
	}

	var bid models.Bid
	bidQuery := `
	SELECT
		id, gig_id, freelancer_id, message, price, status, created_at, updated_at
	FROM bids
	WHERE id = $1
	`
	row := tx.QueryRowContext(ctx, bidQuery, bidId)
	err = row.Scan(&bid.Id, &bid.GigId, &bid.FreelancerId, &bid.Message, &bid.Price, &bid.Status, &bid.CreatedAt, &bid.UpdatedAt)
	if err == sql.ErrNoRows || isInvalidUUID(err) {
		return res, fmt.Errorf("repository.Repository.HireBid: %w", wrapRollbackErr(tx, models.ErrNoBid))
	} else if err != nil {
		return res, fmt.Errorf("repository.Repository.HireBid: %w", wrapRollbackErr(tx, err))
	}

	// Locking the gig row is what serializes settlements per gig. FOR UPDATE
	// re-reads the latest committed version, so the status check below sees
	// the outcome of any settlement that won the race.
	var ownerId, title string
	var status models.GigStatus
	gigQuery := `
	SELECT owner_id, title, status
	FROM gigs
	WHERE id = $1
	FOR UPDATE
	`
	row = tx.QueryRowContext(ctx, gigQuery, bid.GigId)
	err = row.Scan(&ownerId, &title, &status)
	if err == sql.ErrNoRows {
		return res, fmt.Errorf("repository.Repository.HireBid: %w", wrapRollbackErr(tx, models.ErrNoGig))
	} else if err != nil {
		return res, fmt.Errorf("repository.Repository.HireBid: %w", wrapRollbackErr(tx, err))
	}

	if ownerId != actingUserId {
		return res, fmt.Errorf("repository.Repository.HireBid: %w", wrapRollbackErr(tx, models.ErrForbidden))
	}
	if status != models.GigOpen {
		return res, fmt.Errorf("repository.Repository.HireBid: %w", wrapRollbackErr(tx, models.ErrGigAssigned))
	}

	_, err = tx.ExecContext(ctx, `
	UPDATE gigs
	SET (status, updated_at) = ('assigned', CURRENT_TIMESTAMP)
	WHERE id = $1
	`, bid.GigId)
	if err != nil {
		return res, fmt.Errorf("repository.Repository.HireBid: %w", wrapRollbackErr(tx, err))
	}

	_, err = tx.ExecContext(ctx, `
	UPDATE bids
	SET (status, updated_at) = ('hired', CURRENT_TIMESTAMP)
	WHERE id = $1
	`, bid.Id)
	if err != nil {
		return res, fmt.Errorf("repository.Repository.HireBid: %w", wrapRollbackErr(tx, err))
	}

	_, err = tx.ExecContext(ctx, `
	UPDATE bids
	SET (status, updated_at) = ('rejected', CURRENT_TIMESTAMP)
	WHERE gig_id = $1 AND id <> $2 AND status = 'pending'
	`, bid.GigId, bid.Id)
	if err != nil {
		return res, fmt.Errorf("repository.Repository.HireBid: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return res, fmt.Errorf("repository.Repository.HireBid: failed to commit transaction: %w", err)
	}

	bid.Status = models.BidHired
	bid.GigTitle = title
	res.Bid = bid
	res.GigTitle = title
	res.FreelancerId = bid.FreelancerId
	return res, nil
}
