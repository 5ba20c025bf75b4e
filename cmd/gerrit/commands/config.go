package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/gerrit-client/internal/constants"
)

// Config represents the CLI configuration.
type Config struct {
	URL                     string `json:"url,omitempty"                       yaml:"url,omitempty"`
	Username                string `json:"username,omitempty"                  yaml:"username,omitempty"`
	Password                string `json:"password,omitempty"                  yaml:"password,omitempty"`
	Output                  string `json:"output,omitempty"                    yaml:"output,omitempty"`
	ReadOnly                bool   `json:"read_only"                           yaml:"read_only"`
	ReadOnlyPolicy          string `json:"read_only_policy,omitempty"          yaml:"read_only_policy,omitempty"`
	AuthenticatedDeletePath bool   `json:"authenticated_delete_path"           yaml:"authenticated_delete_path"`
	LogFile                 string `json:"log_file,omitempty"                  yaml:"log_file,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the Gerrit CLI configuration stored in $HOME/.gerrit/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective CLI configuration. The password is masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.Password != "" {
				config.Password = Masked
			}

			return render(cmd.OutOrStdout(), config, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("URL", valueOrNA(config.URL))
				_ = table.Append("Username", valueOrNA(config.Username))
				_ = table.Append("Password", valueOrNA(config.Password))
				_ = table.Append("Output", valueOrNA(config.Output))
				_ = table.Append("Read Only", yesNo(config.ReadOnly))
				_ = table.Append("Read Only Policy", valueOrNA(config.ReadOnlyPolicy))
				_ = table.Append("Authenticated Delete Path", yesNo(config.AuthenticatedDeletePath))
				_ = table.Append("Log File", valueOrNA(config.LogFile))
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + configKeysHelp(),
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			notice(cmd, "Set %s", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Reset a configuration value to its default. Keys: " + configKeysHelp(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := unsetConfigValue(config, args[0])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			notice(cmd, "Unset %s", args[0])

			return nil
		},
	}
}

// configSetters maps each config key to a function parsing and storing its value.
var configSetters = map[string]func(*Config, string) error{
	keyURL:      func(c *Config, v string) error { c.URL = v; return nil },
	keyUsername: func(c *Config, v string) error { c.Username = v; return nil },
	keyPassword: func(c *Config, v string) error { c.Password = v; return nil },
	keyLogFile:  func(c *Config, v string) error { c.LogFile = v; return nil },
	keyOutput: func(c *Config, v string) error {
		switch v {
		case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			c.Output = v

			return nil
		default:
			return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, v)
		}
	},
	keyReadOnly: func(c *Config, v string) error {
		parsed, err := parseBool(v)
		c.ReadOnly = parsed

		return err
	},
	keyReadOnlyPolicy: func(c *Config, v string) error {
		policy, err := parseReadOnlyPolicy(v)
		if err != nil {
			return err
		}

		c.ReadOnlyPolicy = policy.String()

		return nil
	},
	keyAuthenticatedDeletePath: func(c *Config, v string) error {
		parsed, err := parseBool(v)
		c.AuthenticatedDeletePath = parsed

		return err
	},
}

func setConfigValue(config *Config, key, value string) error {
	setter, ok := configSetters[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return setter(config, value)
}

func unsetConfigValue(config *Config, key string) error {
	if _, ok := configSetters[key]; !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	switch key {
	case keyReadOnly:
		config.ReadOnly = false
	case keyAuthenticatedDeletePath:
		config.AuthenticatedDeletePath = false
	case keyURL:
		config.URL = ""
	case keyUsername:
		config.Username = ""
	case keyPassword:
		config.Password = ""
	case keyOutput:
		config.Output = ""
	case keyReadOnlyPolicy:
		config.ReadOnlyPolicy = ""
	case keyLogFile:
		config.LogFile = ""
	}

	return nil
}

func parseBool(value string) (bool, error) {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s", constants.ErrInvalidBool, value)
	}

	return parsed, nil
}

func configKeysHelp() string {
	keys := make([]string, 0, len(configSetters))
	for key := range configSetters {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return strings.Join(keys, ", ")
}

func loadConfig() *Config {
	return &Config{
		URL:                     viper.GetString(keyURL),
		Username:                viper.GetString(keyUsername),
		Password:                viper.GetString(keyPassword),
		Output:                  viper.GetString(keyOutput),
		ReadOnly:                viper.GetBool(keyReadOnly),
		ReadOnlyPolicy:          viper.GetString(keyReadOnlyPolicy),
		AuthenticatedDeletePath: viper.GetBool(keyAuthenticatedDeletePath),
		LogFile:                 viper.GetString(keyLogFile),
	}
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, constants.ConfigDirName)

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, constants.ConfigFileName+".yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
