package cli

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phantomworx/cq-intel/internal/logging"
	"github.com/phantomworx/cq-intel/internal/proxy"
)

const (
	ExitSuccess = 0
	ExitError   = 1

	// DefaultSourceURL is the page the comments are scraped from.
	DefaultSourceURL = "http://www.airbusdriver.net/airbus_CQT_Intel.htm"

	defaultDataDir = "~/.local/share/cq-intel"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cq-intel",
	Short: "Fetch, search, and export CQ line pilot comments",
	Long: `cq-intel scrapes the airbusdriver.net CQ line pilot comments page,
caches the extracted entries locally, and serves date-range and keyword
queries over them. Results can be exported to CSV or PDF, and the tool
can host its own caching fetch proxy.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cq-intel.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "warn", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("data-dir", defaultDataDir, "Data directory for the entry cache")

	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCacheCmd())
}

// initConfig reads the config file and environment, creating the file
// with defaults on first run.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(ExitError)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".cq-intel")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	viper.SetDefault("source.url", DefaultSourceURL)
	viper.SetDefault("proxy.url", "")
	viper.SetDefault("cache.dir", defaultDataDir)
	viper.SetDefault("sort.order", "newest")
	viper.SetDefault("serve.allowed_hosts", proxy.DefaultAllowedHosts)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, _ := homedir.Dir()
			configPath := filepath.Join(home, ".cq-intel.yaml")
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error creating config file: %s\n", err)
			}
		}
	}

	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	logging.SetLevel(levelString)
}

// dataDir resolves the cache directory, preferring the flag over the
// config file.
func dataDir(cmd *cobra.Command) string {
	if cmd.Flags().Changed("data-dir") {
		dir, _ := cmd.Flags().GetString("data-dir")
		return dir
	}
	if dir := viper.GetString("cache.dir"); dir != "" {
		return dir
	}
	return defaultDataDir
}
