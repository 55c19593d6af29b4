package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-chromatin/internal/chromatin"
)

// Viper keys for the model parameters.
const (
	keyWrapLength       = "model.wrap_length"
	keyMeanLinkerLength = "model.mean_linker_length"
	keyLinkerVariance   = "model.linker_variance"
	keyNucleosomes      = "model.total_nucleosomes"
	keyMissingPercent   = "model.missing_percent"
	keyCutsPerKbp       = "model.cuts_per_kbp"
	keyRetryBudget      = "model.retry_budget"
)

const configName = ".vibe-chromatin"

// initConfig loads ~/.vibe-chromatin.yaml and VIBE_CHROMATIN_* environment
// variables. A missing config file is not an error.
func initConfig() error {
	def := chromatin.DefaultConfig()
	viper.SetDefault(keyWrapLength, def.WrapLength)
	viper.SetDefault(keyMeanLinkerLength, def.MeanLinkerLength)
	viper.SetDefault(keyLinkerVariance, def.LinkerVariance)
	viper.SetDefault(keyNucleosomes, def.TotalNucleosomes)
	viper.SetDefault(keyMissingPercent, int(def.MissingFraction*100))
	viper.SetDefault(keyCutsPerKbp, def.CutsPerKilobasePairs)
	viper.SetDefault(keyRetryBudget, def.RetryBudget)

	viper.SetEnvPrefix("VIBE_CHROMATIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if viper.ConfigFileUsed() != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// addModelFlags registers the model parameters as persistent flags bound to viper.
func addModelFlags(cmd *cobra.Command) {
	def := chromatin.DefaultConfig()
	fs := cmd.PersistentFlags()
	fs.Int("wrap", def.WrapLength, "Base pairs wrapped around each nucleosome")
	fs.Int("linker", def.MeanLinkerLength, "Mean linker length in base pairs")
	fs.Int("variance", int(def.LinkerVariance), "Nucleosome spacing variance (bp^2)")
	fs.Int("nucleosomes", def.TotalNucleosomes, "Number of nucleosomes in the model")
	fs.Int("missing-percent", int(def.MissingFraction*100), "Percent of histones missing (0-100)")
	fs.Float64("cuts-per-kbp", def.CutsPerKilobasePairs, "Cut density per 3000 bp of expected span")
	fs.Int("retry-budget", def.RetryBudget, "Maximum draws per rejection-sampling step")

	bindings := map[string]string{
		keyWrapLength:       "wrap",
		keyMeanLinkerLength: "linker",
		keyLinkerVariance:   "variance",
		keyNucleosomes:      "nucleosomes",
		keyMissingPercent:   "missing-percent",
		keyCutsPerKbp:       "cuts-per-kbp",
		keyRetryBudget:      "retry-budget",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, fs.Lookup(flag))
	}
}

// modelConfig assembles the model configuration from flags, env and config file.
func modelConfig() chromatin.Config {
	base := chromatin.DefaultConfig()
	base.WrapLength = viper.GetInt(keyWrapLength)
	base.MeanLinkerLength = viper.GetInt(keyMeanLinkerLength)
	base.TotalNucleosomes = viper.GetInt(keyNucleosomes)
	base.RetryBudget = viper.GetInt(keyRetryBudget)
	return chromatin.ConfigFromControls(base,
		viper.GetInt(keyMissingPercent),
		viper.GetInt(keyLinkerVariance),
		viper.GetFloat64(keyCutsPerKbp))
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-chromatin configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vibe-chromatin.yaml.",
		Example: `  vibe-chromatin config                                 # show all config
  vibe-chromatin config set model.missing_percent 30     # detach 30% of nucleosomes
  vibe-chromatin config get model.cuts_per_kbp           # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
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
			return runConfigSet(cmd, args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "# No config file, showing defaults. Config file: ~/.vibe-chromatin.yaml")
	}

	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

// parseConfigValue turns a command-line string into a bool, int, float or string.
func parseConfigValue(value string) any {
	switch value {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	viper.Set(key, parseConfigValue(value))

	// Ensure config file exists
	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, configName+".yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}
