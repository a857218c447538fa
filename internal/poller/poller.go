package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guildwatch-hq/wcl-harvester/internal/domain"
	"github.com/guildwatch-hq/wcl-harvester/internal/logger"
	"github.com/guildwatch-hq/wcl-harvester/internal/storage"
	"github.com/guildwatch-hq/wcl-harvester/pkg/publishers"
	"github.com/guildwatch-hq/wcl-harvester/pkg/watchlist"
	"github.com/guildwatch-hq/wcl-harvester/pkg/wcl"
)

// ReportLister is the slice of the wcl client the poller needs.
type ReportLister interface {
	GuildReports(ctx context.Context, guild, server, region string, params *wcl.Params) (json.RawMessage, error)
}

// Service walks the watchlist, asks the API for recent guild reports, and
// publishes an event for every report it has not seen before.
type Service struct {
	api    ReportLister
	fanout *publishers.Fanout
	store  storage.Store
	log    logger.Logger
	now    func() time.Time
}

// NewService wires a poller from its collaborators.
func NewService(api ReportLister, fanout *publishers.Fanout, store storage.Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		api:    api,
		fanout: fanout,
		store:  store,
		log:    log,
		now:    time.Now,
	}
}

// Run executes one poll pass over all watched guilds. Per-guild failures are
// joined; one broken guild does not stop the rest of the pass.
func (s *Service) Run(ctx context.Context, guilds []watchlist.Guild) error {
	if s == nil || s.api == nil {
		return fmt.Errorf("poller service is not initialized")
	}
	if len(guilds) == 0 {
		return fmt.Errorf("no guilds configured for polling")
	}

	var errs []error
	for _, g := range guilds {
		if err := s.pollGuild(ctx, g); err != nil {
			errs = append(errs, fmt.Errorf("guild %s: %w", g.ID, err))
			s.log.ErrorObj("guild poll failed", "guild_error", map[string]any{
				"watch_id": g.ID,
				"error":    err.Error(),
			})
		}
	}
	return errors.Join(errs...)
}

// pollGuild lists reports uploaded within the guild's lookback window and
// publishes the ones that are new.
func (s *Service) pollGuild(ctx context.Context, g watchlist.Guild) error {
	start := s.now().Add(-g.Lookback()).UnixMilli()
	params := wcl.NewParams().Set("start", start)

	raw, err := s.api.GuildReports(ctx, g.Guild, g.Server, g.Region, params)
	if err != nil {
		return fmt.Errorf("list guild reports: %w", err)
	}

	var reports []domain.Report
	if err := json.Unmarshal(raw, &reports); err != nil {
		return fmt.Errorf("decode guild report listing: %w", err)
	}

	published := 0
	for _, r := range reports {
		if r.Code == "" {
			continue
		}

		seen, err := s.store.SeenReport(r.Code)
		if err != nil {
			return fmt.Errorf("check seen report %s: %w", r.Code, err)
		}
		if seen {
			continue
		}

		evt := publishers.NewEvent(g.ID, g.Guild, g.Server, g.Region, r)
		if _, err := s.fanout.Publish(ctx, evt); err != nil {
			return fmt.Errorf("publish report %s: %w", r.Code, err)
		}
		if err := s.store.MarkReport(r.Code); err != nil {
			return fmt.Errorf("mark report %s: %w", r.Code, err)
		}
		published++
	}

	s.log.InfoObj("guild poll completed", "guild_result", map[string]any{
		"watch_id":          g.ID,
		"reports_listed":    len(reports),
		"reports_published": published,
	})
	return nil
}
