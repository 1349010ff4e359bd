// Package app turns a loaded configuration into the wired store, sources and
// services shared by the API server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/csvio"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/notion"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-streaks/internal/config"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

var ErrNoSource = errors.New("no habit source configured: set the notion databases or resources.habits_file and resources.tracker_file")

// Store is the streak repository plus the connections behind it. DB and Redis
// are nil when not in use.
type Store struct {
	Repo  domain.StreakRepository
	DB    *sqlx.DB
	Redis *redis.Client
}

func (s *Store) Close() {
	if s.Redis != nil {
		s.Redis.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}

func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	store := &Store{}

	switch cfg.Database.Store {
	case config.StoreMemory:
		log.Println("[DB] Using in-memory streak store")
		store.Repo = repository.NewInMemoryStreakRepository()

	case config.StorePostgres, config.StoreSQLite:
		log.Printf("[DB] Connecting to %s...", cfg.Database.Store)
		db, err := repository.Open(ctx, cfg.Database.Driver(), cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		repo, err := repository.NewStreakRepositoryFor(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Println("[DB] Database connected successfully.")
		store.DB = db
		store.Repo = repo

	default:
		return nil, fmt.Errorf("%w: unknown store %q", config.ErrInvalidConfig, cfg.Database.Store)
	}

	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cache.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			log.Printf("[CACHE] Redis unavailable, serving streaks uncached: %v", err)
		} else {
			store.Redis = rdb
			store.Repo = repository.NewCachedStreakRepository(store.Repo, rdb)
		}
	}

	return store, nil
}

// NewNotionClient builds a client from cfg. opts are applied last.
func NewNotionClient(cfg config.NotionConfig, opts ...notion.ClientOption) *notion.Client {
	all := []notion.ClientOption{
		notion.WithBaseURL(cfg.BaseURL),
		notion.WithVersion(cfg.Version),
		notion.WithRateLimit(cfg.RateLimit),
		notion.WithHTTPClient(&http.Client{Timeout: cfg.TimeoutDuration()}),
	}
	return notion.NewClient(cfg.Token, append(all, opts...)...)
}

// Sources picks where habits and tracker rows come from: Notion when it is
// configured, the resource files otherwise. The calendar is always a file.
func Sources(cfg *config.Config) (services.HabitSource, services.TrackerSource, services.CalendarSource, error) {
	calendar := csvio.FileSource{CalendarPath: cfg.Resources.CalendarFile}

	if cfg.Notion.Configured() {
		src := notion.NewSource(NewNotionClient(cfg.Notion), cfg.Notion.HabitsDatabase, cfg.Notion.TrackerDatabase, notion.Columns{
			Name:      cfg.Notion.NameColumn,
			Frequency: cfg.Notion.FrequencyColumn,
			Kind:      cfg.Notion.KindColumn,
			Date:      cfg.Notion.DateColumn,
		})
		return src, src, calendar, nil
	}

	if cfg.Resources.HabitsFile != "" && cfg.Resources.TrackerFile != "" {
		files := csvio.FileSource{
			HabitsPath:   cfg.Resources.HabitsFile,
			TrackerPath:  cfg.Resources.TrackerFile,
			CalendarPath: cfg.Resources.CalendarFile,
		}
		return files, files, files, nil
	}

	return nil, nil, nil, ErrNoSource
}

// NewSyncService wires the configured sources, window and CSV export around repo.
func NewSyncService(cfg *config.Config, repo domain.StreakRepository, opts ...services.SyncOption) (*services.SyncService, error) {
	habits, rows, calendar, err := Sources(cfg)
	if err != nil {
		return nil, err
	}
	window, err := cfg.SyncWindow()
	if err != nil {
		return nil, err
	}

	all := []services.SyncOption{services.WithWindow(window)}
	if cfg.Resources.StreaksFile != "" {
		all = append(all, services.WithExporter(csvio.FileExporter{Path: cfg.Resources.StreaksFile}))
	}
	all = append(all, opts...)

	return services.NewSyncService(habits, rows, calendar, repo, all...), nil
}
