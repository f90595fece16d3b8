package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mpellerin/reel/internal/catalog"
	"github.com/mpellerin/reel/internal/config"
	"github.com/mpellerin/reel/internal/playback"
	"github.com/mpellerin/reel/internal/queue"
	"github.com/mpellerin/reel/internal/session"
	"github.com/mpellerin/reel/internal/source"
)

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "reel",
	})
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	var store session.Interface
	if cfg.DataDir != "" {
		store, err = session.OpenPath(filepath.Join(cfg.DataDir, "reel.db"), logger)
	} else {
		store, err = session.Open(logger)
	}
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer store.Close()

	src := source.NewBeep()
	defer src.Close()

	ctrl := playback.New(src, store, nil, logger)
	defer ctrl.Close()

	// No session means nothing to resume; apply the configured volume.
	if len(ctrl.QueueTracks()) == 0 {
		ctrl.SetVolume(cfg.Volume)
	}

	// Arguments replace the restored queue and start playback from the first
	// entry. Local file paths are played directly; anything else is looked
	// up in the catalog by track id.
	if args := os.Args[1:]; len(args) > 0 {
		tracks, err := resolveTracks(cfg, args)
		if err != nil {
			return err
		}
		if err := ctrl.SelectTrack(tracks[0], tracks); err != nil {
			return fmt.Errorf("starting playback: %w", err)
		}
	}

	logger.Info("ready", "catalog", cfg.CatalogURL)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	logger.Info("shutting down", "signal", s)
	return nil
}

// resolveTracks turns command-line arguments into playable tracks. Existing
// files are used as-is with their embedded tags; the rest are catalog ids.
func resolveTracks(cfg *config.Config, args []string) ([]queue.Track, error) {
	var tracks []queue.Track
	var ids []string
	for _, arg := range args {
		if _, err := os.Stat(arg); err == nil {
			tags := source.ReadTags(arg)
			tracks = append(tracks, queue.Track{
				ID:     arg,
				Title:  tags.Title,
				Artist: tags.Artist,
				Album:  tags.Album,
				Src:    arg,
			})
			continue
		}
		ids = append(ids, arg)
	}

	if len(ids) > 0 {
		if !cfg.HasCatalog() {
			return nil, errors.New("track ids given but no catalog_url configured")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		fetched, err := catalog.NewClient(cfg.CatalogURL).Fetch(ctx, ids)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("fetching tracks: %w", err)
		}
		tracks = append(tracks, fetched...)
	}
	return tracks, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reel: %v\n", err)
		os.Exit(1)
	}
}
