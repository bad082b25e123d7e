package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/haivivi/lincon/pkg/kv"
	"github.com/haivivi/lincon/pkg/snapshot"
	"github.com/haivivi/lincon/pkg/storage"
)

// ErrServiceNotFound is returned when a context has no file for a service.
var ErrServiceNotFound = errors.New("service config not found")

const (
	// StoreService configures the snapshot store.
	StoreService = "store"

	// S3Service configures the bucket behind s3:// locations.
	S3Service = "s3"

	// DefaultStoreDir is the store directory inside a context when
	// store.yaml does not name one.
	DefaultStoreDir = "snapshots"
)

// StoreConfig is the content of store.yaml.
//
//	backend: pebble     # memory, badger or pebble
//	dir: snapshots      # relative to the context directory
//	format: yaml        # encoding of saved snapshots
type StoreConfig struct {
	kv.Config `yaml:",inline"`

	Format snapshot.Format `yaml:"format,omitempty" json:"format,omitempty"`
}

// ServicePath returns the YAML file path for a service within a context.
// For example, ServicePath("dev", "s3") → ".../contexts/dev/s3.yaml".
func (c *Config) ServicePath(context, service string) string {
	return filepath.Join(c.ContextDir(context), service+".yaml")
}

// LoadService loads a service configuration from the given context directory.
// The service name maps to a YAML file: "{contextDir}/{service}.yaml".
func LoadService[T any](contextDir, service string) (*T, error) {
	path := filepath.Join(contextDir, service+".yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q (expected: %s)", ErrServiceNotFound, service, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &v, nil
}

// SaveService writes a service configuration to the given context directory.
func SaveService[T any](contextDir, service string, v *T) error {
	if err := os.MkdirAll(contextDir, 0755); err != nil {
		return fmt.Errorf("create context dir: %w", err)
	}

	path := filepath.Join(contextDir, service+".yaml")

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s config: %w", service, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ListServices returns the service names configured in a context directory.
// Each .yaml file corresponds to one service.
func ListServices(contextDir string) ([]string, error) {
	entries, err := os.ReadDir(contextDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list services: %w", err)
	}

	var services []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext == ".yaml" || ext == ".yml" {
			services = append(services, name[:len(name)-len(ext)])
		}
	}
	return services, nil
}

// LoadStore reads store.yaml from contextDir. A missing file selects a
// badger store under DefaultStoreDir. Relative directories are resolved
// against contextDir.
func LoadStore(contextDir string) (StoreConfig, error) {
	cfg := StoreConfig{Config: kv.Config{Backend: "badger"}}
	loaded, err := LoadService[StoreConfig](contextDir, StoreService)
	switch {
	case err == nil:
		cfg = *loaded
	case !errors.Is(err, ErrServiceNotFound):
		return StoreConfig{}, err
	}

	if cfg.Backend != "" && cfg.Backend != "memory" {
		if cfg.Dir == "" {
			cfg.Dir = DefaultStoreDir
		}
		if !filepath.IsAbs(cfg.Dir) {
			cfg.Dir = filepath.Join(contextDir, cfg.Dir)
		}
	}
	format, err := snapshot.ParseFormat(string(cfg.Format))
	if err != nil {
		return StoreConfig{}, fmt.Errorf("%s.yaml: %w", StoreService, err)
	}
	cfg.Format = format
	return cfg, nil
}

// LoadS3 reads s3.yaml from contextDir. It returns nil when the context
// has no S3 configuration.
func LoadS3(contextDir string) (*storage.S3Config, error) {
	cfg, err := LoadService[storage.S3Config](contextDir, S3Service)
	if errors.Is(err, ErrServiceNotFound) {
		return nil, nil
	}
	return cfg, err
}
