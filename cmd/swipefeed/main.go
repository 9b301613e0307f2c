// Command swipefeed runs a terminal demo of the swipe feed engine: it opens
// the offer database, joins offers with destination media, and drives the
// engine from keyboard input the way a touch front end would from gestures.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/roamlight/swipefeed"
	"github.com/roamlight/swipefeed/db"
	"github.com/roamlight/swipefeed/haptics"
	"github.com/roamlight/swipefeed/media"
	"github.com/roamlight/swipefeed/profile"
)

func main() {
	configPath := flag.String("config", "swipefeed.toml", "path to the TOML config file")
	fetch := flag.Bool("fetch", false, "verify media over HTTP instead of assuming readiness")
	flag.Parse()

	if err := run(*configPath, *fetch); err != nil {
		fmt.Fprintf(os.Stderr, "swipefeed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, fetch bool) error {
	cfg, err := swipefeed.LoadConfigFromFile(configPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "swipefeed.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	log := zerolog.New(logFile).With().Timestamp().Logger()

	conn, err := db.New(filepath.Join(cfg.DataDir, "swipefeed.db"))
	if err != nil {
		return err
	}
	repo := db.NewRepository(conn)
	defer repo.Close()

	ctx := context.Background()
	if err := repo.SeedDemo(ctx); err != nil {
		return fmt.Errorf("seeding demo data: %w", err)
	}

	store, err := profile.Open(cfg.DataDir)
	if err != nil {
		return err
	}

	filter := db.OfferFilter{}
	if store.Profile.HomeAirport != "" {
		filter.Origin = store.Profile.HomeAirport
	}
	if store.Profile.BudgetCents > 0 {
		filter.MaxPriceCents = store.Profile.BudgetCents
	}
	offers, err := repo.ListOffers(ctx, filter)
	if err != nil {
		return err
	}
	if len(offers) == 0 {
		// The profile filtered everything out; show the full list rather
		// than an empty feed.
		offers, err = repo.ListOffers(ctx, db.OfferFilter{})
		if err != nil {
			return err
		}
	}

	items, err := repo.BuildItems(ctx, offers, "")
	if err != nil {
		return err
	}

	engineCfg := cfg.EngineConfig(log)
	engineCfg.Haptics = haptics.Logged{Log: log}
	if fetch {
		engineCfg.Loader = media.NewFetcher(log)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory: editors replace the file, which drops a watch
	// on the file itself.
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}

	return runTUI(tuiDeps{
		cfg:        cfg,
		configPath: configPath,
		engineCfg:  engineCfg,
		offers:     offers,
		items:      items,
		store:      store,
		watcher:    watcher,
		log:        log,
	})
}
