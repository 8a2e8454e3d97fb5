// Command adjudicate runs the game-recovery and archive-mirroring loop:
// on startup it rehydrates every active game from the durable archive
// into the hot cache, then periodically copies every active game's
// current record from the hot cache into the archive. It does not
// resolve phases itself. Transport (HTTP/websocket) is a
// separate concern left to the consuming service; this binary only
// owns the engine and its two storage tiers.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jkolbly/diplomacy-rest/internal/config"
	"github.com/jkolbly/diplomacy-rest/internal/engine"
	"github.com/jkolbly/diplomacy-rest/internal/logger"
	"github.com/jkolbly/diplomacy-rest/internal/mapdata"
	"github.com/jkolbly/diplomacy-rest/internal/maploader"
	"github.com/jkolbly/diplomacy-rest/internal/storage"
	"github.com/jkolbly/diplomacy-rest/internal/storage/postgres"
	redisstore "github.com/jkolbly/diplomacy-rest/internal/storage/redis"
)

// pollInterval is how often the runner mirrors active games from the hot
// cache into the archive.
const pollInterval = 2 * time.Second

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := postgres.Connect(cfg.ArchiveURL)
	if err != nil {
		log.Fatal().Err(err).Msg("archive connection failed")
	}
	defer db.Close()
	archive := postgres.New(db)

	hot, err := redisstore.NewClient(cfg.GameStoreURL)
	if err != nil {
		log.Fatal().Err(err).Msg("game store connection failed")
	}
	defer hot.Close()

	m, err := loadMap(cfg.MapPath)
	if err != nil {
		log.Fatal().Err(err).Msg("map load failed")
	}
	log.Info().Str("map", m.Info.Name).Msg("map loaded")

	if err := recoverActiveGames(context.Background(), archive, hot); err != nil {
		log.Error().Err(err).Msg("recovering active games (continuing)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runLoop(ctx, archive, hot, m)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	cancel()
}

// loadMap selects the built-in standard map, or parses a .dipmap file
// if one was configured.
func loadMap(path string) (*engine.Map, error) {
	if path == "" {
		return mapdata.Standard(), nil
	}
	return maploader.Load(path)
}

// recoverActiveGames rehydrates the hot cache from the durable archive
// on startup, so an in-progress game survives a cache flush or restart.
func recoverActiveGames(ctx context.Context, archive storage.Store, hot storage.Store) error {
	ids, err := archive.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		rec, err := archive.Load(ctx, id)
		if err != nil {
			log.Warn().Err(err).Int64("gameId", id).Msg("skipping unloadable archived game")
			continue
		}
		if err := hot.Save(ctx, *rec); err != nil {
			log.Warn().Err(err).Int64("gameId", id).Msg("failed to rehydrate game into hot cache")
			continue
		}
		log.Info().Int64("gameId", id).Msg("recovered active game")
	}
	return nil
}

// runLoop polls the hot cache for active games and mirrors their
// current record into the durable archive, so the archive never falls
// far behind live play.
func runLoop(ctx context.Context, archive storage.Store, hot storage.Store, m *engine.Map) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			syncArchive(ctx, archive, hot)
		}
	}
}

func syncArchive(ctx context.Context, archive storage.Store, hot storage.Store) {
	ids, err := hot.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("listing active games from hot cache")
		return
	}
	for _, id := range ids {
		rec, err := hot.Load(ctx, id)
		if err != nil {
			log.Error().Err(err).Int64("gameId", id).Msg("loading game from hot cache")
			continue
		}
		if err := archive.Save(ctx, *rec); err != nil {
			log.Error().Err(err).Int64("gameId", id).Msg("archiving game")
		}
	}
}

// NewGameID mints a collision-resistant id for a freshly created game,
// condensed into the int64 the storage layer keys on.
func NewGameID() int64 {
	u := uuid.New()
	id := int64(0)
	for _, b := range u[:8] {
		id = id<<8 | int64(b)
	}
	if id < 0 {
		id = -id
	}
	return id
}
