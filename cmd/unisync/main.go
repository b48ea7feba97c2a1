package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devtonic-net/unisync/internal/config"
	"github.com/devtonic-net/unisync/internal/sync"
	"github.com/devtonic-net/unisync/internal/utils"
	"github.com/devtonic-net/unisync/internal/version"
)

var (
	home, _        = os.UserHomeDir()
	configFileName = "config"
)

var rootCmd = &cobra.Command{
	Use:     "unisync",
	Short:   "UniSync maintains a full, identical copy of a source folder at a replica folder",
	Version: version.Detailed(),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.Config{
			Path:     viper.ConfigFileUsed(),
			Source:   viper.GetString("source"),
			Replica:  viper.GetString("replica"),
			Interval: viper.GetInt("interval"),
			LogFile:  viper.GetString("logfile"),
			Watch:    viper.GetBool("watch"),
		}
		if cfg.LogFile == "" {
			cfg.LogFile = config.DefaultLogFile
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		closeLog, err := setupLogging(cfg.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()

		// config is valid, errors from here on are runtime failures
		cmd.SilenceUsage = true
		showHeader()

		syncer, err := sync.NewSyncer(cfg.Source, cfg.Replica)
		if err != nil {
			return err
		}

		slog.Info("unisync",
			"source", syncer.SourceDir(),
			"replica", syncer.ReplicaDir(),
			"interval", cfg.SyncInterval(),
			"watch", cfg.Watch,
			"logfile", cfg.LogFile,
		)

		manager := sync.NewManager(syncer, cfg.SyncInterval(), cfg.Watch)

		defer slog.Info("Bye!")
		if err := manager.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("sync failed", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("source", "s", "", "Path to source folder")
	rootCmd.Flags().StringP("replica", "r", "", "Path to replica folder")
	rootCmd.Flags().IntP("interval", "i", 0, "Interval (seconds) to wait before resync. If not provided, unisync will run once and then exit")
	rootCmd.Flags().StringP("logfile", "l", config.DefaultLogFile, "Name of logging file")
	rootCmd.Flags().BoolP("watch", "w", false, "Re-sync whenever the source folder changes")
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "UniSync config file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(filepath.Join(home, ".unisync"))
		viper.AddConfigPath(filepath.Join(home, ".config/unisync"))
		viper.SetConfigName(configFileName)
		viper.SetConfigType("json")
	}

	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !enoent && !notFound {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	viper.BindPFlag("source", cmd.Flags().Lookup("source"))
	viper.BindPFlag("replica", cmd.Flags().Lookup("replica"))
	viper.BindPFlag("interval", cmd.Flags().Lookup("interval"))
	viper.BindPFlag("logfile", cmd.Flags().Lookup("logfile"))
	viper.BindPFlag("watch", cmd.Flags().Lookup("watch"))

	viper.SetEnvPrefix("UNISYNC")
	viper.AutomaticEnv()

	return nil
}

// setupLogging routes slog to both a tinted console handler and the log
// file. The returned func closes the log file.
func setupLogging(logFile string) (func(), error) {
	logPath, err := utils.ResolvePath(logFile)
	if err != nil {
		return nil, fmt.Errorf("resolve log file: %w", err)
	}
	if err := utils.EnsureParent(logPath); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	stdoutHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.RFC3339,
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	slog.SetDefault(slog.New(utils.NewMultiLogHandler(stdoutHandler, fileHandler)))

	return func() { file.Close() }, nil
}

func showHeader() {
	color.New(color.FgHiCyan, color.Bold).Println(version.DetailedWithApp())
}
