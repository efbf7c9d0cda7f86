package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gigflow/internal/config"
	"gigflow/internal/models"

	postgres "gigflow/internal/repository/db"

	"github.com/lib/pq"
)

// Store is the persistence contract the service layer depends on. HireBid is
// the single atomic multi-record update: every check and write it performs is
// all-or-nothing and isolated per gig.
type Store interface {
	AddUser(ctx context.Context, user models.User) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, bool, error)
	UserByUUID(ctx context.Context, UUID string) (models.User, bool, error)

	AddGig(ctx context.Context, gig models.Gig) (models.Gig, error)
	GetGigs(ctx context.Context, limit, offset int, search string) ([]models.Gig, error)
	GetGigByUUID(ctx context.Context, UUID string) (models.Gig, bool, error)

	AddBid(ctx context.Context, bid models.Bid) (models.Bid, error)
	GetBids(ctx context.Context, limit, offset int, freelancerId, gigId string) ([]models.Bid, error)
	GetBidByUUID(ctx context.Context, UUID string) (models.Bid, bool, error)

	HireBid(ctx context.Context, bidId, actingUserId string) (models.HireResult, error)
}

type Repository struct {
	db  *sql.DB
	cfg *config.PostgresConfig
}

func NewRepository(db *sql.DB, cfg *config.PostgresConfig) (*Repository, error) {
	var err error

	repo := &Repository{
		db:  db,
		cfg: cfg,
	}

	if repo.cfg == nil {
		repo.cfg, err = config.NewPostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not load postgres config: %w", err)
		}
	}

	if repo.db == nil {
		repo.db, err = postgres.NewPostgresDB(repo.cfg)
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not open postgres db: %w", err)
		}
	}

	if repo.cfg.AutoMigrateUp == "true" {
		err = repo.MigrateUp()
		if err != nil {
			return nil, err
		}
	}

	return repo, nil
}

func (repo *Repository) MigrateUp() error {
	err := postgres.MigrateUp(repo.db, repo.cfg.MigrationsURL)
	if err != nil {
		return fmt.Errorf("repository.Repository.MigrateUp: %w", err)
	}
	return nil
}

func (repo *Repository) MigrateDown() error {
	err := postgres.MigrateDown(repo.db, repo.cfg.MigrationsURL)
	if err != nil {
		return fmt.Errorf("repository.Repository.MigrateDown: %w", err)
	}
	return nil
}

func (repo *Repository) Close() error {
	var migErr error
	if repo.cfg.AutoMigrateDown == "true" {
		migErr = repo.MigrateDown()
	}

	err := repo.db.Close()
	return errors.Join(migErr, err)
}

//// Users

func (repo *Repository) AddUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
	INSERT INTO users (name, email, password_hash)
	VALUES
		($1, $2, $3)
	RETURNING
		id, created_at, updated_at
	`

	row := repo.db.QueryRowContext(ctx, query, user.Name, user.Email, user.PasswordHash)
	err := row.Scan(&user.Id, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return user, fmt.Errorf("repository.Repository.AddUser: %w", models.ErrEmailTaken)
	} else if err != nil {
		return user, fmt.Errorf("repository.Repository.AddUser: %w", err)
	}

	return user, nil
}

func (repo *Repository) UserByEmail(ctx context.Context, email string) (models.User, bool, error) {
	var user models.User
	query := `
	SELECT
		id,
		name,
		email,
		password_hash,
		created_at,
		updated_at
	FROM users
	WHERE email = $1
	LIMIT 1
	`
	row := repo.db.QueryRowContext(ctx, query, email)
	err := row.Scan(&user.Id, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return user, false, nil
	} else if err != nil {
		return user, false, fmt.Errorf("repository.Repository.UserByEmail: %w", err)
	}

	return user, true, nil
}

func (repo *Repository) UserByUUID(ctx context.Context, UUID string) (models.User, bool, error) {
	var user models.User
	query := `
	SELECT
		id,
		name,
		email,
		password_hash,
		created_at,
		updated_at
	FROM users
	WHERE id = $1
	LIMIT 1
	`
	row := repo.db.QueryRowContext(ctx, query, UUID)
	err := row.Scan(&user.Id, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows || isInvalidUUID(err) {
		return user, false, nil
	} else if err != nil {
		return user, false, fmt.Errorf("repository.Repository.UserByUUID: %w", err)
	}

	return user, true, nil
}

//// Service

func wrapRollbackErr(tx *sql.Tx, err error) error {
	rollerr := tx.Rollback()
	if rollerr == nil {
		return err
	}
	return fmt.Errorf("failed to rollback transaction after previous error: %w, %w", rollerr, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// Malformed UUID text in a lookup means the row cannot exist; treat it the
// same as no rows instead of bubbling a syntax error up as a 500.
func isInvalidUUID(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "22P02"
	}
	return false
}

//// Test utils

func (repo *Repository) TestGetDB() *sql.DB {
	return repo.db
}
