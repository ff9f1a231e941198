// Package tokenstore persists the single bearer credential of the client.
package tokenstore

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-client/internal/config"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/SAP-F-2025/exam-client/pkg"
)

// Credential is an opaque bearer token. Its contents are never inspected.
type Credential string

// Store holds at most one credential. An absent credential is reported by ok == false.
type Store interface {
	Get(ctx context.Context) (cred Credential, ok bool, err error)
	Set(ctx context.Context, cred Credential) error
	Clear(ctx context.Context) error
}

// New builds the backend named by cfg.TokenStore.
func New(ctx context.Context, cfg *config.Config, logger utils.Logger) (Store, error) {
	switch cfg.TokenStore {
	case "file", "":
		logger.DebugContext(ctx, "using file token store", "path", cfg.TokenFile)
		return NewFileStore(cfg.TokenFile), nil
	case "redis":
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.DebugContext(ctx, "using redis token store", "key", cfg.TokenKey)
		return NewRedisStore(client, cfg.TokenKey), nil
	case "sql":
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		logger.DebugContext(ctx, "using sql token store", "key", cfg.TokenKey)
		return NewSQLStore(db, cfg.TokenKey)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported token store: %s", cfg.TokenStore)
	}
}
