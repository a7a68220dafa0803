// Package cmd provides the command-line interface for barcore with
// configuration loading from multiple sources.
//
// Configuration precedence, highest first:
//  1. Command-line flags (--config, --log-level)
//  2. BARCORE_CONFIG_FILE environment variable
//  3. Individual environment variables (BARCORE_LOG_LEVEL, ...)
//  4. Configuration file (.barcore.yml in the current directory)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "barcore",
	Short: "A modular status-bar segment runtime",
	Long: `barcore runs the configured set of status-bar modules, renders
their formats into markup, and routes external action events to them.

Quick start:
  barcore run                  Run the bar with .barcore.yml
  barcore run --dump           Print the effective configuration
  barcore version              Show version information`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .barcore.yml, can also use BARCORE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	bindFlag(rootCmd.PersistentFlags(), "log.level", "log-level")
}

// bindFlag hooks a cobra flag into the viper config tree.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

// initConfig wires viper to the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("BARCORE_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".barcore")
	}

	// BARCORE_LOG_LEVEL, BARCORE_IPC_ADDRESS, and so on.
	viper.SetEnvPrefix("BARCORE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults and environment carry
	// the rest.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
