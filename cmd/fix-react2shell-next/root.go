package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vercel-labs/fix-react2shell-next/internal/registry"
)

var exit = os.Exit
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fix-react2shell-next",
	Short: "Detect and fix React2Shell and related Next.js vulnerabilities",
	Long: `fix-react2shell-next checks a project's Next.js and React Flight renderer
dependencies (next, react-server-dom-webpack, react-server-dom-turbopack,
react-server-dom-parcel) against the React2Shell advisory family and the
middleware authorization bypass, then computes and optionally applies the
minimal safe version bump for each affected package.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Runtime and usage failures exit with
// code 2; vulnerable findings exit with code 1 from the subcommands.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(2)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .fix-react2shell.yaml in the current directory)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit a machine-readable JSON report")
	rootCmd.PersistentFlags().String("registry", "", "npm registry base URL")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Timeout for registry requests and package manager probes")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable styled output")

	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("registry", rootCmd.PersistentFlags().Lookup("registry"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
}

// initConfig reads the config file and environment variables.
func initConfig() {
	// explicit .env loading; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fix-react2shell")
	}

	viper.SetEnvPrefix("FIXNEXT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("registry", registry.DefaultURL)
	viper.SetDefault("timeout", 10*time.Second)

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	initLogging()
}

func initLogging() {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// commandContext returns the command's context, which is nil when RunE is
// invoked outside Execute (as command tests do).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newRegistry builds the npm registry client from the configuration.
func newRegistry() *registry.Registry {
	var opts []registry.Option
	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		opts = append(opts, registry.WithTimeout(timeout))
	}
	client := registry.NewClient(opts...)
	return registry.New(viper.GetString("registry"), registry.NewBreakerClient(client))
}
