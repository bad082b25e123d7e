package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/lincon/cmd/lincon/internal/config"
)

// validateServiceName checks that a service name is non-empty and safe for use as a filename.
func validateServiceName(service string) error {
	if service == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if strings.ContainsAny(service, "/\\") {
		return fmt.Errorf("service name %q must not contain path separators", service)
	}
	if strings.HasPrefix(service, ".") {
		return fmt.Errorf("service name %q must not start with '.'", service)
	}
	return nil
}

var ctxCmd = &cobra.Command{
	Use:   "ctx",
	Short: "Manage configuration contexts",
	Long: `Manage contexts and their service configurations.

A context is a named directory holding per-service YAML files:
  store.yaml   snapshot store (backend: memory|badger|pebble, dir, format)
  s3.yaml      bucket for s3:// locations (bucket, prefix, region, endpoint,
               access_key, secret_key, path_style)

Examples:
  lincon ctx add dev
  lincon ctx use dev
  lincon ctx set dev store backend pebble
  lincon ctx set dev s3 bucket my-snapshots
  lincon ctx get dev s3 bucket
  lincon ctx list`,
}

var ctxListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		names, err := cfg.ListContexts()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No contexts configured.")
			fmt.Println("Create one with: lincon ctx add <name>")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tSERVICES")
		for _, name := range names {
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			services, _ := config.ListServices(cfg.ContextDir(name))
			fmt.Fprintf(w, "%s\t%s\t%s\n", current, name, strings.Join(services, ", "))
		}
		return w.Flush()
	},
}

var ctxAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := args[0]

		if err := cfg.AddContext(name); err != nil {
			return err
		}
		fmt.Printf("Context %q created.\n", name)
		fmt.Printf("Configure services with: lincon ctx set %s <service> <key> <value>\n", name)
		return nil
	},
}

var ctxDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a context, its service configs and its store data",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := args[0]

		if err := cfg.DeleteContext(name); err != nil {
			return err
		}
		fmt.Printf("Context %q deleted.\n", name)
		return nil
	},
}

var ctxUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := args[0]

		if err := cfg.UseContext(name); err != nil {
			return err
		}
		fmt.Printf("Switched to context %q.\n", name)
		return nil
	},
}

var ctxCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Display the current context name",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set.")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var ctxSetCmd = &cobra.Command{
	Use:   "set <context> <service> <key> <value>",
	Short: "Set a service config value",
	Long: `Set a key-value pair in a service's YAML config file.

The values "true" and "false" are stored as booleans so flags such as
s3 path_style can be set from the command line.

Examples:
  lincon ctx set dev store backend badger
  lincon ctx set dev store format json
  lincon ctx set dev s3 endpoint http://localhost:9000
  lincon ctx set dev s3 path_style true`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		ctxName, service, key, value := args[0], args[1], args[2], args[3]
		if err := validateServiceName(service); err != nil {
			return err
		}
		contextDir, err := cfg.ResolveContext(ctxName)
		if err != nil {
			return err
		}

		m := map[string]any{}
		existing, err := config.LoadService[map[string]any](contextDir, service)
		switch {
		case err == nil:
			if *existing != nil {
				m = *existing
			}
		case !errors.Is(err, config.ErrServiceNotFound):
			return fmt.Errorf("cannot read existing %s config: %w", service, err)
		}

		switch value {
		case "true":
			m[key] = true
		case "false":
			m[key] = false
		default:
			m[key] = value
		}
		if err := config.SaveService(contextDir, service, &m); err != nil {
			return err
		}

		fmt.Printf("Set %s.%s = %s (context: %s)\n", service, key, value, ctxName)
		return nil
	},
}

var ctxGetCmd = &cobra.Command{
	Use:   "get <context> <service> <key>",
	Short: "Get a service config value",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		ctxName, service, key := args[0], args[1], args[2]
		if err := validateServiceName(service); err != nil {
			return err
		}
		contextDir, err := cfg.ResolveContext(ctxName)
		if err != nil {
			return err
		}

		m, err := config.LoadService[map[string]any](contextDir, service)
		if err != nil {
			return err
		}
		val, ok := (*m)[key]
		if !ok {
			return fmt.Errorf("key %q not found in %s config", key, service)
		}
		fmt.Println(val)
		return nil
	},
}

func init() {
	ctxCmd.AddCommand(ctxListCmd)
	ctxCmd.AddCommand(ctxAddCmd)
	ctxCmd.AddCommand(ctxDeleteCmd)
	ctxCmd.AddCommand(ctxUseCmd)
	ctxCmd.AddCommand(ctxCurrentCmd)
	ctxCmd.AddCommand(ctxSetCmd)
	ctxCmd.AddCommand(ctxGetCmd)
	rootCmd.AddCommand(ctxCmd)
}
