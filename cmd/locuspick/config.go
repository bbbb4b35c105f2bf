package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configValueKind tells runConfigSet/runConfigGet how to parse and
// validate one known configuration key's value.
type configValueKind int

const (
	kindBool configValueKind = iota
	kindInt
	kindFloat
	kindEnum
	kindString
)

type configKeySpec struct {
	kind    configValueKind
	allowed []string // populated for kindEnum
}

// knownConfigKeys mirrors config.Config's actual fields: every key a run
// reads is listed here with the type and (where applicable) the enum the
// resolved Config validates it against, so a bad `config set` is rejected
// at the CLI rather than surfacing as an InvalidConfigurationError at run
// time.
var knownConfigKeys = map[string]configKeySpec{
	"pick.run_options.purge":                         {kind: kindBool},
	"pick.run_options.subloci_from_cds_only":         {kind: kindBool},
	"pick.run_options.flank":                         {kind: kindInt},
	"pick.run_options.threads":                       {kind: kindInt},
	"pick.run_options.strand_aware_superloci":        {kind: kindBool},
	"pick.clustering.min_cdna_overlap":               {kind: kindFloat},
	"pick.clustering.min_cds_overlap":                {kind: kindFloat},
	"pick.clustering.simple_overlap_for_monoexonic":  {kind: kindBool},
	"pick.clustering.community_algorithm":            {kind: kindEnum, allowed: []string{"clique", "modularity"}},
	"pick.clustering.modularity_resolution":          {kind: kindFloat},
	"pick.alternative_splicing.report":               {kind: kindBool},
	"pick.alternative_splicing.min_cds_overlap":      {kind: kindFloat},
	"pick.alternative_splicing.max_isoforms":         {kind: kindInt},
	"pick.alternative_splicing.keep_retained_introns": {kind: kindBool},
	"scoring.tie_break":                              {kind: kindEnum, allowed: []string{"full", "reduced"}},
	"store.path":                                      {kind: kindString},
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage locuspick configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.locuspick.yaml.",
		Example: `  locuspick config                                  # show all config
  locuspick config set pick.run_options.purge true  # enable purge
  locuspick config get pick.clustering.min_cdna_overlap`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home, err := os.UserHomeDir(); err == nil {
				viper.AddConfigPath(home)
			}
			viper.SetConfigName(".locuspick")
			viper.SetConfigType("yaml")
			_ = viper.ReadInConfig() // a missing file leaves the settings empty
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.locuspick.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	spec, ok := knownConfigKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key %q", key)
	}

	parsed, err := parseConfigValue(key, value, spec)
	if err != nil {
		return err
	}
	viper.Set(key, parsed)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".locuspick.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %v in %s\n", key, parsed, cfgFile)
	return nil
}

func parseConfigValue(key, value string, spec configKeySpec) (any, error) {
	switch spec.kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s: expected true/false, got %q", key, value)
		}
		return b, nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s: expected an integer, got %q", key, value)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: expected a number, got %q", key, value)
		}
		return f, nil
	case kindEnum:
		for _, a := range spec.allowed {
			if value == a {
				return value, nil
			}
		}
		return nil, fmt.Errorf("%s: must be one of %v, got %q", key, spec.allowed, value)
	default:
		return value, nil
	}
}

func runConfigGet(key string) error {
	spec, ok := knownConfigKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key %q", key)
	}

	if viper.Get(key) == nil {
		return fmt.Errorf("key %q is not set", key)
	}

	switch spec.kind {
	case kindBool:
		fmt.Println(viper.GetBool(key))
	case kindInt:
		fmt.Println(viper.GetInt(key))
	case kindFloat:
		fmt.Println(viper.GetFloat64(key))
	default:
		fmt.Println(viper.GetString(key))
	}
	return nil
}
