// Package config provides the configuration system for the lincon CLI.
//
// Configuration is stored under os.UserConfigDir()/lincon/, or under
// $LINCON_CONFIG_DIR when set:
//
//	lincon/
//	├── current-context          # plain text: name of current context
//	└── contexts/
//	    ├── dev/
//	    │   ├── store.yaml       # snapshot store backend
//	    │   ├── s3.yaml          # bucket for s3:// export and import
//	    │   └── snapshots/       # default on-disk store
//	    └── staging/
//	        └── ...
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvConfigDir overrides the configuration root directory.
	EnvConfigDir = "LINCON_CONFIG_DIR"

	// appDir is the directory name under os.UserConfigDir().
	appDir = "lincon"

	// currentContextFile stores the name of the current context.
	currentContextFile = "current-context"

	// contextsDir is the subdirectory holding all context directories.
	contextsDir = "contexts"
)

var (
	// ErrContextNotFound is returned for a context without a directory.
	ErrContextNotFound = errors.New("context not found")

	// ErrNoCurrentContext is returned when a command needs the current
	// context and none is set.
	ErrNoCurrentContext = errors.New("no current context set; use 'lincon ctx use <name>'")
)

// Config holds the root configuration state.
type Config struct {
	// Dir is the root configuration directory.
	Dir string

	// CurrentContext is the name of the active context.
	CurrentContext string
}

// Load loads the configuration from $LINCON_CONFIG_DIR or the default
// location.
func Load() (*Config, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return LoadFrom(dir)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine config directory: %w", err)
	}
	return LoadFrom(filepath.Join(base, appDir))
}

// LoadFrom loads the configuration from a specific root directory.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{Dir: dir}

	data, err := os.ReadFile(filepath.Join(dir, currentContextFile))
	switch {
	case err == nil:
		cfg.CurrentContext = strings.TrimSpace(string(data))
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read current context: %w", err)
	}
	return cfg, nil
}

// ValidateContextName checks that name is usable as a directory name.
func ValidateContextName(name string) error {
	if name == "" {
		return fmt.Errorf("context name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("context name %q must not contain path separators", name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("context name %q must not start with '.'", name)
	}
	return nil
}

// ContextsDir returns the path to the contexts directory.
func (c *Config) ContextsDir() string {
	return filepath.Join(c.Dir, contextsDir)
}

// ContextDir returns the directory path for a named context.
func (c *Config) ContextDir(name string) string {
	return filepath.Join(c.Dir, contextsDir, name)
}

// existingContext validates name and returns its directory, or
// ErrContextNotFound when the directory is missing.
func (c *Config) existingContext(name string) (string, error) {
	if err := ValidateContextName(name); err != nil {
		return "", err
	}
	dir := c.ContextDir(name)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrContextNotFound, name)
		}
		return "", fmt.Errorf("stat context %q: %w", name, err)
	}
	return dir, nil
}

// CurrentContextDir returns the directory path for the current context.
// Returns ErrNoCurrentContext if no current context is set.
func (c *Config) CurrentContextDir() (string, error) {
	if c.CurrentContext == "" {
		return "", ErrNoCurrentContext
	}
	return c.ContextDir(c.CurrentContext), nil
}

// ResolveContext returns the directory for the given context name,
// or the current context if name is empty.
func (c *Config) ResolveContext(name string) (string, error) {
	if name == "" {
		return c.CurrentContextDir()
	}
	return c.existingContext(name)
}

// ListContexts returns the names of all available contexts.
func (c *Config) ListContexts() ([]string, error) {
	entries, err := os.ReadDir(c.ContextsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list contexts: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// AddContext creates a new context directory.
func (c *Config) AddContext(name string) error {
	_, err := c.existingContext(name)
	switch {
	case err == nil:
		return fmt.Errorf("context %q already exists", name)
	case !errors.Is(err, ErrContextNotFound):
		return err
	}
	if err := os.MkdirAll(c.ContextDir(name), 0755); err != nil {
		return fmt.Errorf("create context %q: %w", name, err)
	}
	return nil
}

// DeleteContext removes a context directory with its service configs and
// any store data kept inside it. Deleting the current context unsets it.
func (c *Config) DeleteContext(name string) error {
	dir, err := c.existingContext(name)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete context %q: %w", name, err)
	}
	if c.CurrentContext != name {
		return nil
	}
	return c.setCurrent("")
}

// UseContext switches the current context.
func (c *Config) UseContext(name string) error {
	if _, err := c.existingContext(name); err != nil {
		return err
	}
	return c.setCurrent(name)
}

func (c *Config) setCurrent(name string) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.Dir, currentContextFile), []byte(name+"\n"), 0644); err != nil {
		return fmt.Errorf("write current context: %w", err)
	}
	c.CurrentContext = name
	return nil
}
