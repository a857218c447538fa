package app

import (
	"context"
	"fmt"
	"time"

	"github.com/guildwatch-hq/wcl-harvester/internal/config"
	"github.com/guildwatch-hq/wcl-harvester/internal/logger"
	"github.com/guildwatch-hq/wcl-harvester/internal/poller"
	"github.com/guildwatch-hq/wcl-harvester/internal/storage"
	"github.com/guildwatch-hq/wcl-harvester/pkg/httpclient"
	"github.com/guildwatch-hq/wcl-harvester/pkg/publishers"
	"github.com/guildwatch-hq/wcl-harvester/pkg/watchlist"
	"github.com/guildwatch-hq/wcl-harvester/pkg/wcl"
)

// Harvester is the daemon runtime. It owns the poll loop, coordinating the
// watchlist, the API client, publishers, and the seen-report store.
type Harvester struct {
	cfg          *config.Config
	watchReg     *watchlist.Registry
	fanout       *publishers.Fanout
	pollService  *poller.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewHarvester builds the harvester runtime from config files.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	watchReg, err := watchlist.Load(cfg.WatchlistFile)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	watched := watchReg.All()
	watchIDs := make([]string, 0, len(watched))
	for _, g := range watched {
		watchIDs = append(watchIDs, g.ID)
	}
	log.InfoObj("watchlist loaded", "watchlist_meta", map[string]any{
		"count": len(watchIDs),
		"ids":   watchIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ReportTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"report_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	client, err := wcl.New(cfg.APIBaseURL, cfg.APIKey,
		wcl.WithTransport(httpclient.NewRestyClient(cfg.RequestTimeout)))
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return &Harvester{
		cfg:          cfg,
		watchReg:     watchReg,
		fanout:       fanout,
		pollService:  poller.NewService(client, fanout, store, log),
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.pollService == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.closeStore()

	watched := h.watchReg.All()
	if len(watched) == 0 {
		h.log.WarnObj("no guilds configured; harvester idle", "watchlist_file", h.cfg.WatchlistFile)
		<-ctx.Done()
		return ctx.Err()
	}

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"guilds_count":     len(watched),
		"publishers_count": h.fanout.Size(),
		"poll_interval":    h.pollInterval.String(),
	})

	if err := h.runOnce(ctx, watched); err != nil {
		h.log.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := h.runOnce(ctx, watched); err != nil {
				h.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

// runOnce performs a single poll pass across all watched guilds.
func (h *Harvester) runOnce(ctx context.Context, guilds []watchlist.Guild) error {
	start := time.Now()
	h.log.InfoObj("poll started", "poll_meta", map[string]any{
		"guilds_count": len(guilds),
		"started_at":   start.UTC(),
	})
	if err := h.pollService.Run(ctx, guilds); err != nil {
		return err
	}
	h.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"guilds_count": len(guilds),
		"elapsed_ms":   time.Since(start).Milliseconds(),
	})
	return nil
}

// closeStore closes the storage backend, logging any error encountered.
func (h *Harvester) closeStore() {
	if h == nil || h.store == nil {
		return
	}
	if err := h.store.Close(); err != nil {
		h.log.ErrorObj("storage close failed", "error", err)
	}
}
