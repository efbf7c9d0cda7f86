package db

import (
	"database/sql"

	"gigflow/internal/config"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

func NewPostgresDB(cfg *config.PostgresConfig) (*sql.DB, error) {
	log.WithField("conn", cfg.Conn).Info("connecting to postgres")
	db, err := sql.Open("postgres", cfg.Conn)

	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		return nil, err
	}

	return db, nil
}
