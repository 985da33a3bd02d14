// Package cli implements the reporunner command line interface.
package cli

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	reporunner "github.com/reporunner/reporunner-go"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reporunner",
	Short: "Command line client for the Reporunner workflow service",
	Long: `reporunner drives a Reporunner server from the command line:

  - Manage workflows (create, list, update, delete) from YAML definitions
  - Submit executions and optionally block until they finish
  - Follow live execution updates over WebSocket
  - Keep a workflow in sync with a local definition file

Run a workflow and wait for the result:
  reporunner execution run <workflow-id> --wait

Follow an execution live:
  reporunner execution watch <execution-id>`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./reporunner.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("server", reporunner.DefaultBaseURL, "server base URL")
	rootCmd.PersistentFlags().String("api-key", "", "bearer token sent with every request")
	rootCmd.PersistentFlags().Duration("timeout", reporunner.DefaultTimeout, "request timeout")

	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api-key"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	rootCmd.AddCommand(workflowCmd())
	rootCmd.AddCommand(executionCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("reporunner")
	}

	viper.SetEnvPrefix("REPORUNNER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			log.Debug().Str("file", viper.ConfigFileUsed()).Msg("Using config file")
		}
	}
}

// setupLogging configures zerolog based on verbosity.
func setupLogging() {
	output := zerolog.ConsoleWriter{Out: os.Stderr}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// newClient builds an SDK client from the resolved configuration.
func newClient() (*reporunner.Client, error) {
	opts := []reporunner.Option{
		reporunner.WithLogger(log.Logger),
		reporunner.WithTimeout(viper.GetDuration("timeout")),
	}
	if key := viper.GetString("api_key"); key != "" {
		opts = append(opts, reporunner.WithAPIKey(key))
	}
	return reporunner.New(viper.GetString("server"), opts...)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
