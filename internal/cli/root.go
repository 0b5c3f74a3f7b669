// Package cli implements the lunaria command-line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lunaria-app/lunaria/pkg/client"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string
	apiClient    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "lunaria",
	Short: "Lunaria CLI - manage a Lunaria astrology platform",
	Long: `The Lunaria CLI talks to a running Lunaria server: check its health,
log in, inspect platform statistics, and manage daily insights.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Config commands run without a client.
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}
		initClient()
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.lunaria/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newInsightCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		configDir := home + "/.lunaria"
		_ = os.MkdirAll(configDir, 0700)
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LUNARIA")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func initClient() {
	base := viper.GetString("server_url")
	if base == "" {
		base = "http://localhost:8080"
	}

	apiClient = client.NewClient(client.Config{
		BaseURL: base,
		Session: viper.GetString("auth.session"),
	})
}

func writeConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := home + "/.lunaria"
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return viper.WriteConfigAs(configDir + "/config.yaml")
}

func getOutputFormat() string {
	if f := viper.GetString("output"); f != "" {
		return f
	}
	return "table"
}
