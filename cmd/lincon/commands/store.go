package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/haivivi/lincon/cmd/lincon/internal/config"
	"github.com/haivivi/lincon/pkg/kv"
	"github.com/haivivi/lincon/pkg/snapshot"
	"github.com/haivivi/lincon/pkg/storage"
)

type snapshotStore = snapshot.Store[string]

// openStore opens the snapshot store of the selected context. The caller
// must call the returned close function.
func openStore() (*snapshotStore, func(), error) {
	dir, err := resolveContextDir()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.LoadStore(dir)
	if err != nil {
		return nil, nil, err
	}
	kvs, err := kv.Open(cfg.Config, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	logger.Debug("store opened", "backend", cfg.Backend, "dir", cfg.Dir, "format", cfg.Format)
	closeFn := func() {
		if err := kvs.Close(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}
	return snapshot.NewStore[string](kvs, cfg.Format), closeFn, nil
}

// resolveLocation maps a local path or s3:// location to a FileStore using
// the selected context's s3.yaml.
func resolveLocation(ctx context.Context, location string) (storage.FileStore, string, error) {
	var s3cfg *storage.S3Config
	if strings.HasPrefix(location, "s3://") {
		dir, err := resolveContextDir()
		if err != nil {
			return nil, "", err
		}
		if s3cfg, err = config.LoadS3(dir); err != nil {
			return nil, "", err
		}
	}
	return storage.Resolve(ctx, location, s3cfg)
}
