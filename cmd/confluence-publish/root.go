package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/fatih/structs"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	// Store the result of binding cobra flags
	Config string
	Debug  bool

	// Command to run to retrieve the API Personal Access Token.  The token
	// can also come from CONFLUENCE_PAT.
	AuthTokenCmd []string

	AuthUsername string
	BaseURL      string
	SpaceKey     string
	ParentTitle  string
	CABundle     string

	ParsedConfig YamlConfig
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "confluence-publish",
	Short: "Publish local files and reports to a Confluence wiki",
	Long: `
Push content into a Confluence space from the command line: create-or-update pages under a parent,
wrap local scripts, images and office documents in pages with the raw file attached, and publish
tabular reports.  All writes are idempotent upserts keyed on (title, parent) for pages and
(page, filename) for attachments.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// You can bind cobra and config in a few locations, but PersistentPreRunE on the root command works well
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("confluence-publish: failed to initialise config: %w", err)
		}
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ~/.config/confluence-publish.yaml, respects CONFLUENCE_PUBLISH_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringSliceVar(&AuthTokenCmd, "auth-token-cmd", []string{}, "shell command to retrieve the Confluence Personal Access Token")
	rootCmd.PersistentFlags().StringVar(&AuthUsername, "auth-username", "", "your Confluence username or email (informational)")
	rootCmd.PersistentFlags().StringVar(&BaseURL, "base-url", "", "wiki base URL, e.g. https://wiki.example.com")
	rootCmd.PersistentFlags().StringVar(&SpaceKey, "space", "", "key of the space to publish into")
	rootCmd.PersistentFlags().StringVar(&ParentTitle, "parent", "", "title of the page everything is published under")
	rootCmd.PersistentFlags().StringVar(&CABundle, "ca-bundle", "", "path to a PEM CA bundle for TLS verification (absent: verification disabled)")
}

func initializeConfig(cmd *cobra.Command) error {
	// A .env next to the binary mirrors how the tool was originally driven;
	// missing files are fine.
	_ = godotenv.Load()

	if Config == "" {
		// Did the user provide an ENV?
		envConfig := os.Getenv("CONFLUENCE_PUBLISH_CONFIG")
		if envConfig != "" {
			Config = envConfig
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = "~/.config/confluence-publish.yaml"
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("confluence-publish: unable to expand homedir: %w", err)
	}
	Config = config

	// The config file is optional: everything can come from flags and env.
	if _, err := os.Stat(Config); err == nil {
		yamlFile, err := os.ReadFile(Config)
		if err != nil {
			return fmt.Errorf("confluence-publish: error reading config file: %w", err)
		}

		// I'd like to bark if a user sets a key we don't recognise:
		if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
			return fmt.Errorf("confluence-publish: issue parsing config file: %w", err)
		}

		if err := bindFlags(cmd, ParsedConfig); err != nil {
			return fmt.Errorf("confluence-publish: failed to bind flags: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("confluence-publish: couldn't stat config file %s: %w", Config, err)
	}

	applyEnvironment(cmd)

	return nil
}

type YamlConfig struct {
	ShowProgress *bool `yaml:"progress"`
	WithVCR      *bool `yaml:"with-vcr"`

	BaseURL      string   `yaml:"base-url"`
	SpaceKey     string   `yaml:"space"`
	ParentTitle  string   `yaml:"parent"`
	AuthUsername string   `yaml:"auth-username"`
	AuthTokenCmd []string `yaml:"auth-token-cmd"`
	CABundle     string   `yaml:"ca-bundle"`
}

// Bind each YAML config key to its cobra flag, unless the flag was set
// explicitly on the command line.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("confluence-publish: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// hmm... the flag is unknown.  but that can legitimately happen if you're running
			// e.g. `config show` which has no `with-vcr` flag but your YAML file does define it...
			continue
		}
		if !cmd.Flags().Changed(key) {
			switch field.Kind() {
			case reflect.Ptr:
				// err, this is crappy, but i know YamlConfig only uses pointers for bools.....
				b, ok := field.Value().(*bool)
				if !ok {
					return fmt.Errorf("confluence-publish: found unrecognised field: %+v", field)
				}
				if b != nil {
					cmd.Flags().Set(key, fmt.Sprintf("%v", *b))
				}

			case reflect.String:
				s, ok := field.Value().(string)
				if !ok {
					return fmt.Errorf("confluence-publish: found unrecognised field: %+v", field)
				}
				if s != "" {
					cmd.Flags().Set(key, s)
				}

			case reflect.Slice:
				ss, ok := field.Value().([]string)
				if !ok {
					return fmt.Errorf("confluence-publish: found unrecognised field: %+v", field)
				}
				for _, s := range ss {
					// yes, repeatedly calling Set() appends to the slice...
					cmd.Flags().Set(key, s)
				}

			default:
				return fmt.Errorf("confluence-publish: found unrecognised field: %+v", field)
			}
		}
	}

	return nil
}

// applyEnvironment fills still-unset flags from the environment variables the
// original automation recognised.
func applyEnvironment(cmd *cobra.Command) {
	envFlags := map[string]string{
		"base-url":      "CONFLUENCE_BASE_URL",
		"auth-username": "CONFLUENCE_USER_EMAIL",
		"space":         "CONFLUENCE_SPACE_KEY",
		"parent":        "CONFLUENCE_PARENT_TITLE",
		"ca-bundle":     "CONFLUENCE_CERT_PATH",
	}

	for key, env := range envFlags {
		if cmd.Flags().Changed(key) {
			continue
		}
		if v := os.Getenv(env); v != "" {
			cmd.Flags().Set(key, v)
		}
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Flags are only available after (or inside, presumably) the .Execute() thing.
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("confluence-publish: execution error: %w", err)
	}

	return nil
}
