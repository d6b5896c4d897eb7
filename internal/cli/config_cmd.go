package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/nagmodel/internal/config"
)

type globalConfigContext struct {
	cfg          *config.Config
	configPath   string
	configExists bool
}

// configField is one settable config.toml key. Flag names avoid the
// global --snapshot, --db and --log-level overrides.
type configField struct {
	key  string // toml key, e.g. "ui.accent"
	flag string
	help string
	ptr  func(*config.Config) *string
}

var configFields = []configField{
	{"store", "store", "Definition backend (yaml|sqlite)", func(c *config.Config) *string { return &c.Store }},
	{"snapshot", "snapshot-path", "YAML snapshot path (relative to the config directory)", func(c *config.Config) *string { return &c.Snapshot }},
	{"database", "database-path", "SQLite database path (relative to the config directory)", func(c *config.Config) *string { return &c.Database }},
	{"audit_log", "audit-log", "Audit log path; empty disables it", func(c *config.Config) *string { return &c.AuditLog }},
	{"log_level", "default-log-level", "Log level (debug|info|warn|error)", func(c *config.Config) *string { return &c.LogLevel }},
	{"ui.accent", "ui-accent", "UI accent color (ANSI 0-255 or #RRGGBB)", func(c *config.Config) *string { return &c.UI.Accent }},
	{"ui.code_theme", "ui-code-theme", "Markdown code theme name", func(c *config.Config) *string { return &c.UI.CodeTheme }},
}

var (
	configSetValues  = make(map[string]*string)
	configUnsetFlags = make(map[string]*bool)
)

func loadGlobalConfigContextAllowMissing() (*globalConfigContext, error) {
	path := config.ResolveConfigPath(configPath)
	_, statErr := os.Stat(path)
	if statErr != nil && !os.IsNotExist(statErr) {
		return nil, statErr
	}
	exists := statErr == nil

	loaded := &config.Config{}
	if exists {
		var err error
		loaded, err = config.LoadFrom(path)
		if err != nil {
			return nil, err
		}
	}
	return &globalConfigContext{cfg: loaded, configPath: path, configExists: exists}, nil
}

func configData(ctx *globalConfigContext) map[string]interface{} {
	c := ctx.cfg
	return map[string]interface{}{
		"config_path": ctx.configPath,
		"exists":      ctx.configExists,
		"store":       c.StoreKind(),
		"snapshot":    config.ResolvePath(ctx.configPath, c.Snapshot),
		"database":    config.ResolvePath(ctx.configPath, c.Database),
		"audit_log":   config.ResolvePath(ctx.configPath, c.AuditLog),
		"log_level":   strings.TrimSpace(c.LogLevel),
		"ui": map[string]interface{}{
			"accent":     strings.TrimSpace(c.UI.Accent),
			"code_theme": strings.TrimSpace(c.UI.CodeTheme),
		},
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ctx, err := loadGlobalConfigContextAllowMissing()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	if isJSONOutput() {
		outputSuccess(configData(ctx), nil)
		return nil
	}

	if !ctx.configExists {
		fmt.Printf("Config file does not exist: %s\n", ctx.configPath)
		fmt.Println("Run 'nagmodel config init' to create it.")
		return nil
	}

	fmt.Printf("config: %s\n", ctx.configPath)
	fmt.Printf("store: %s\n", ctx.cfg.StoreKind())
	for _, f := range configFields[1:] {
		if v := strings.TrimSpace(*f.ptr(ctx.cfg)); v != "" {
			fmt.Printf("%s: %s\n", f.key, v)
		}
	}
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nagmodel config.toml settings",
	Long: `Manage nagmodel config.toml settings.

Use this to initialize, inspect, and edit the store location, audit log
and display preferences.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := config.ResolveConfigPath(configPath)
		_, statErr := os.Stat(targetPath)
		existed := statErr == nil
		if statErr != nil && !os.IsNotExist(statErr) {
			return handleError(ErrConfigInvalid, statErr, "")
		}

		createdPath, err := config.CreateDefaultAt(targetPath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": createdPath,
				"created":     !existed,
			}, nil)
			return nil
		}

		if existed {
			fmt.Printf("Config already exists: %s\n", createdPath)
		} else {
			fmt.Printf("Created config: %s\n", createdPath)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more config.toml fields",
	Long: `Set config.toml fields.

Examples:
  nagmodel config set --store sqlite --database-path objects.db
  nagmodel config set --audit-log audit.jsonl`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		var changed []string
		for _, f := range configFields {
			if !cmd.Flags().Changed(f.flag) {
				continue
			}
			value := strings.TrimSpace(*configSetValues[f.flag])
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("%s cannot be empty; use 'nagmodel config unset --%s' to clear it", f.flag, f.flag), "")
			}
			*f.ptr(ctx.cfg) = value
			changed = append(changed, f.key)
		}
		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields provided", "Run 'nagmodel config set --help' for the available flags")
		}
		return saveConfigChange(ctx, changed, "changed")
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "Clear one or more config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if !ctx.configExists {
			return handleErrorMsg(ErrFileNotFound, fmt.Sprintf("config file not found: %s", ctx.configPath), "Run 'nagmodel config init' first")
		}

		var changed []string
		for _, f := range configFields {
			if *configUnsetFlags[f.flag] {
				*f.ptr(ctx.cfg) = ""
				changed = append(changed, f.key)
			}
		}
		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields selected; pass one or more unset flags", "")
		}
		return saveConfigChange(ctx, changed, "cleared")
	},
}

func saveConfigChange(ctx *globalConfigContext, changed []string, verb string) error {
	if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	ctx.configExists = true

	if isJSONOutput() {
		data := configData(ctx)
		data["changed"] = changed
		outputSuccess(data, nil)
		return nil
	}

	fmt.Printf("Updated config: %s\n", ctx.configPath)
	fmt.Printf("%s: %s\n", verb, strings.Join(changed, ", "))
	return nil
}

// registerConfigFieldFlags adds one flag per config field to the set
// and unset commands.
func registerConfigFieldFlags(set, unset *pflag.FlagSet) {
	for _, f := range configFields {
		configSetValues[f.flag] = set.String(f.flag, "", "Set "+f.help)
		configUnsetFlags[f.flag] = unset.Bool(f.flag, false, "Clear "+f.key)
	}
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current config.toml values",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})

	registerConfigFieldFlags(configSetCmd.Flags(), configUnsetCmd.Flags())

	rootCmd.AddCommand(configCmd)
}
