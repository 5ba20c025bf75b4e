package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/gerrit-client/cmd/gerrit/commands"
	"github.com/fivetwenty-io/gerrit-client/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "gerrit",
	Short: "Gerrit Code Review REST API CLI",
	Long: `A command-line interface for the Gerrit Code Review REST API.

Credentials are the account's HTTP password, not the login password. They can
be given as flags, as GERRIT_URL, GERRIT_USERNAME, and GERRIT_PASSWORD, or in
$HOME/.gerrit/config.yml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.gerrit/config.yml)")
	flags.StringP("url", "u", "", "Gerrit server URL, including any path prefix")
	flags.String("username", "", "username for HTTP Basic authentication")
	flags.String("password", "", "HTTP password (prompted when a username is set)")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.Bool("debug", false, "log every HTTP request and response")
	flags.Bool("read-only", false, "do not send mutating requests")
	flags.String("read-only-policy", "compat", "verbs suppressed in read-only mode (compat, strict)")
	flags.Bool("authenticated-delete-path", false, "delete single branches through /a/projects/")
	flags.String("log-file", "", "write logs to a rotated file instead of stderr")

	// Bind flags to viper
	bindings := map[string]string{
		"config":                    "config",
		"url":                       "url",
		"username":                  "username",
		"password":                  "password",
		"output":                    "output",
		"verbose":                   "verbose",
		"debug":                     "debug",
		"read_only":                 "read-only",
		"read_only_policy":          "read-only-policy",
		"authenticated_delete_path": "authenticated-delete-path",
		"log_file":                  "log-file",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewBranchesCommand())
	rootCmd.AddCommand(commands.NewFilesCommand())
	rootCmd.AddCommand(commands.NewAccountsCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.gerrit/config.yml
		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType("yml")
		viper.SetConfigName(constants.ConfigFileName)
	}

	// Read in environment variables that match
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
