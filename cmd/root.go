package cmd

import (
	"log/slog"
	"os"
	"sync"

	"github.com/inovacc/wavelink/internal/application"
	"github.com/inovacc/wavelink/internal/config"
	"github.com/inovacc/wavelink/internal/logging"
	"github.com/spf13/cobra"
)

var (
	initOnce sync.Once
	initErr  error

	v       = config.New()
	cfg     *config.Config
	cfgFile string
	logger  = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "A roster manager for classroom devices",
	Long: `WaveLink keeps a roster of remote devices and the voice-annotated tasks
assigned to each of them, and exports the roster as a flat text payload
that the devices consume.

Data is stored in the data directory (see 'wavelink config show').`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initOnce.Do(func() {
			initErr = initConfig()
		})

		return initErr
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func initConfig() error {
	c, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	cfg = c
	logger = logging.New(os.Stderr, cfg.Log.Level, logging.Format(cfg.Log.Format))
	slog.SetDefault(logger)

	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: config.yaml in the data directory)")
	flags.String("data-dir", "", "Directory for the database and attachments")
	flags.String("backend", "", "Store backend: bolt, sqlite, postgres or memory")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")

	cobra.CheckErr(config.BindFlags(v, flags, map[string]string{
		"data-dir":   config.KeyDataDir,
		"backend":    config.KeyStoreBackend,
		"log-level":  config.KeyLogLevel,
		"log-format": config.KeyLogFormat,
	}))
}
