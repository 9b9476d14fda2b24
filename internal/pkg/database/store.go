package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rocketbird/rocketbird-api/internal/pkg/docstore"
)

// StoreConfig selects and configures the document store backend
type StoreConfig struct {
	Driver        string // postgres, mongo or memory
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	MaxConns      int
}

// OpenStore connects the configured document store backend.
// The returned close func releases the underlying connection.
func OpenStore(ctx context.Context, cfg StoreConfig) (docstore.Store, func(), error) {
	switch cfg.Driver {
	case "postgres":
		db, err := NewPostgres(ctx, cfg.DatabaseURL, cfg.MaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return docstore.NewPostgres(db), func() { ClosePostgres(db) }, nil

	case "mongo":
		db, err := NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, uint64(cfg.MaxConns))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		return docstore.NewMongo(db), func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			CloseMongo(closeCtx, db)
		}, nil

	case "memory":
		log.Warn().Msg("Using in-memory document store, every collection starts missing")
		return docstore.NewMemory(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
