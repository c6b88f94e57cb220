package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ntarasova/moodlog/internal/blob"
	"github.com/ntarasova/moodlog/internal/config"
	"github.com/ntarasova/moodlog/internal/connectivity"
	"github.com/ntarasova/moodlog/internal/journal"
	"github.com/ntarasova/moodlog/internal/logging"
	"github.com/ntarasova/moodlog/internal/remote"
	"github.com/ntarasova/moodlog/internal/session"
	"github.com/ntarasova/moodlog/internal/storage"
	"github.com/ntarasova/moodlog/internal/sync"
)

const version = "0.1.0"

// app bundles everything a command needs. It is built once in the root
// command's PersistentPreRunE and torn down in PersistentPostRunE.
type app struct {
	cfg     *config.Config
	log     logging.Logger
	repos   *storage.Repositories
	sess    *session.Manager
	oracle  connectivity.Oracle
	syncer  *sync.Syncer
	trigger *sync.Trigger
	svc     *journal.Service
}

var a *app

var rootCmd = &cobra.Command{
	Use:           "moodlog",
	Short:         "An offline-first mood journal that syncs across devices",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		a, err = newApp(cmd.Context())
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if a == nil {
			return nil
		}
		waitForSync(a.trigger, 10*time.Second)
		return a.repos.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	// accepted here so cobra tolerates them; the config loader reads them
	// straight from os.Args
	pf := rootCmd.PersistentFlags()
	pf.StringP("database", "d", "", "path to the local database file")
	pf.StringP("remote", "r", "", "base URL of the remote journal store")
	pf.IntP("interval", "i", 0, "online check interval in seconds")
	pf.StringP("config", "c", "", "path to a JSON config file")
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.LoadConfig()
	log := newLogger(cfg)

	repos, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	sess := session.NewManager(repos.Metadata)
	if err := sess.Restore(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	store := remote.NewClient(cfg.RemoteBaseURL, sess, nil)
	oracle := connectivity.NewProber(cfg.RemoteBaseURL, nil)

	var images journal.ImageStore
	if cfg.S3Bucket != "" {
		s3store, err := blob.NewStore(ctx, cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			log.Warn(ctx, "attachment store unavailable", "error", err)
		} else {
			images = s3store
		}
	}

	syncer := sync.New(repos.Entries, repos.Profiles, store, sess, oracle, log)
	trigger := sync.NewTrigger(syncer)
	svc := journal.New(repos.Entries, sess, syncer, trigger, images, log)

	return &app{
		cfg:     cfg,
		log:     log,
		repos:   repos,
		sess:    sess,
		oracle:  oracle,
		syncer:  syncer,
		trigger: trigger,
		svc:     svc,
	}, nil
}

func newLogger(cfg *config.Config) logging.Logger {
	if cfg.LogFile != "" {
		w := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil)))
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	return logging.NewSlogLogger(slog.New(h))
}

// waitForSync lets an in-flight background cycle finish before the process
// exits. A one-shot CLI has no long-lived event loop to drain it otherwise.
func waitForSync(t *sync.Trigger, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if t.Idle() {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
}
