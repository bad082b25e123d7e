package snapshot

import (
	"context"
	"fmt"

	"github.com/haivivi/lincon/pkg/storage"
)

// Export writes snap to path in fs and returns the number of bytes
// written. An empty format is inferred from the path's extension.
func Export[T any](ctx context.Context, fs storage.FileStore, path string, format Format, snap *Snapshot[T]) (int64, error) {
	f, err := formatFor(path, format)
	if err != nil {
		return 0, err
	}
	data, err := Marshal(f, snap)
	if err != nil {
		return 0, err
	}
	if err := storage.WriteFile(ctx, fs, path, data); err != nil {
		return 0, fmt.Errorf("snapshot: export %s: %w", path, err)
	}
	return int64(len(data)), nil
}

// Import reads a snapshot from path in fs. An empty format is inferred from
// the path's extension.
func Import[T any](ctx context.Context, fs storage.FileStore, path string, format Format) (*Snapshot[T], error) {
	f, err := formatFor(path, format)
	if err != nil {
		return nil, err
	}
	data, err := storage.ReadFile(ctx, fs, path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: import %s: %w", path, err)
	}
	return Unmarshal[T](f, data)
}

func formatFor(path string, format Format) (Format, error) {
	if format != "" {
		return ParseFormat(string(format))
	}
	return FormatFromPath(path)
}
