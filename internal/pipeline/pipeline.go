// Package pipeline orchestrates one scrape run: nearby search, details,
// presence filtering, email harvesting, and lead construction. Everything is
// sequential; the only waits are bounded network timeouts and the pauses the
// collaborators impose themselves.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/magicplate/outreach/internal/harvest"
	"github.com/magicplate/outreach/internal/lead"
	"github.com/magicplate/outreach/internal/metrics"
	"github.com/magicplate/outreach/internal/outreach"
	"github.com/magicplate/outreach/internal/places"
)

// PlacesClient is the search/details collaborator.
type PlacesClient interface {
	NearbyAll(ctx context.Context, p places.SearchParams) ([]lead.Summary, error)
	Details(ctx context.Context, placeID string) (lead.Details, error)
}

// EmailFinder harvests contact emails for a website.
type EmailFinder interface {
	FindEmails(ctx context.Context, website string) []string
}

// Config holds the run parameters.
type Config struct {
	Search places.SearchParams
	Filter lead.FilterConfig
}

// Pipeline builds the deduplicated lead collection for one run.
type Pipeline struct {
	places    PlacesClient
	harvester EmailFinder
	clock     outreach.Clock
	cfg       Config
	logger    *zap.Logger
}

// New wires a Pipeline.
func New(placesClient PlacesClient, harvester EmailFinder, clock outreach.Clock, cfg Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		places:    placesClient,
		harvester: harvester,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
}

var _ EmailFinder = (*harvest.Harvester)(nil)
var _ PlacesClient = (*places.Client)(nil)

// CollectLeads runs search → details → filter → harvest → build → dedup.
// Upstream failures are absence, not errors: a failed search yields an empty
// collection and per-place failures are skips. Only context cancellation
// surfaces as an error.
func (p *Pipeline) CollectLeads(ctx context.Context) ([]lead.Lead, error) {
	summaries, err := p.places.NearbyAll(ctx, p.cfg.Search)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("nearby search: %w", ctxErr)
		}
		// NearbyAll returns the pages it already fetched; keep them.
		p.logger.Warn("nearby search failed, continuing with the places fetched so far",
			zap.Int("places", len(summaries)),
			zap.Error(err),
		)
	}
	metrics.ObservePlacesFound(len(summaries))
	p.logger.Info("places found", zap.Int("count", len(summaries)))

	var leads []lead.Lead
	for _, s := range summaries {
		if err := ctx.Err(); err != nil {
			return leads, err
		}
		if s.PlaceID == "" {
			continue
		}

		details, err := p.places.Details(ctx, s.PlaceID)
		if err != nil {
			// Failed fetch and genuinely absent details look the same
			// upstream; both are skips.
			p.logger.Debug("details unavailable", zap.String("place_id", s.PlaceID), zap.Error(err))
			continue
		}
		if details.Empty() {
			continue
		}
		if !lead.IsLowPresence(details, p.cfg.Filter) {
			continue
		}

		var emails []string
		if details.Website != "" {
			emails = p.harvester.FindEmails(ctx, details.Website)
			metrics.ObserveHarvest(len(emails))
		}

		l := lead.Build(details, emails, p.clock.Now())
		metrics.ObserveLeadBuilt(string(l.Status))
		p.logger.Info("lead built",
			zap.String("place_id", l.PlaceID),
			zap.String("name", l.Name),
			zap.Int("emails", len(l.Emails)),
			zap.String("status", string(l.Status)),
		)
		leads = append(leads, l)
	}

	deduped := lead.Dedupe(leads)
	p.logger.Info("lead collection ready",
		zap.Int("leads", len(deduped)),
		zap.Int("duplicates_dropped", len(leads)-len(deduped)),
	)
	return deduped, nil
}
