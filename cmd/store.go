package cmd

import (
	"context"
	"fmt"

	"github.com/blogforge/blogd/config"
	"github.com/blogforge/blogd/store"
	"github.com/blogforge/blogd/store/gormstore"
	"github.com/blogforge/blogd/store/memstore"
	"github.com/blogforge/blogd/store/mongostore"
)

// openStore connects the backend selected by DB_DRIVER.
func openStore(ctx context.Context, cfg config.AppConfig) (*store.Store, error) {
	switch cfg.DBDriver {
	case "mysql":
		db, err := config.OpenMySQL(cfg, gormstore.Models()...)
		if err != nil {
			return nil, err
		}
		return gormstore.New(db), nil
	case "mongo":
		db, err := config.OpenMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return mongostore.New(ctx, db)
	case "memory":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}
