package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/cad"
)

// EnvPrefix prefixes every environment variable bomtool reads
const EnvPrefix = "BOMTOOL"

// Config is the merged configuration. Precedence, highest first: flags,
// BOMTOOL_* environment (including .env files), config file, defaults.
type Config struct {
	Verbosity  int
	LogFormat  string
	ConfigFile string

	// Spreadsheet output
	Separate   bool
	EagleValue bool

	// Suppliers whose part number becomes MPN in CAD output
	SupplierMPN []string
}

// flagKeys maps config keys to the flag that overrides them
var flagKeys = map[string]string{
	"log_format":   "log-format",
	"separate":     "separate",
	"eagle_value":  "eagle-value",
	"supplier_mpn": "supplier-mpn",
}

// LoadConfig builds the configuration for cmd
func LoadConfig(cmd *cobra.Command) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	v.SetDefault("supplier_mpn", cad.DefaultSupplierMPN)

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(".bomtool")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("config: bind --%s: %w", name, err)
			}
		}
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	return &Config{
		Verbosity:   verbosity,
		LogFormat:   v.GetString("log_format"),
		ConfigFile:  v.ConfigFileUsed(),
		Separate:    v.GetBool("separate"),
		EagleValue:  v.GetBool("eagle_value"),
		SupplierMPN: v.GetStringSlice("supplier_mpn"),
	}, nil
}

// loadEnvFiles loads .env then .env.local. Variables already set win.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
