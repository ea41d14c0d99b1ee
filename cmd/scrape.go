package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magicplate/outreach/internal/clock/system"
	"github.com/magicplate/outreach/internal/config"
	"github.com/magicplate/outreach/internal/export"
	"github.com/magicplate/outreach/internal/harvest"
	"github.com/magicplate/outreach/internal/id/uuid"
	"github.com/magicplate/outreach/internal/lead"
	"github.com/magicplate/outreach/internal/mail"
	"github.com/magicplate/outreach/internal/outreach"
	"github.com/magicplate/outreach/internal/pipeline"
	"github.com/magicplate/outreach/internal/places"
	"github.com/magicplate/outreach/internal/storage/postgres"
	"github.com/magicplate/outreach/internal/webfetch"
)

// newScrapeCmd creates the 'scrape' subcommand: search, filter, harvest,
// export, and (with --send) the throttled outreach loop.
func newScrapeCmd() *cobra.Command {
	var dryRun, send bool

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Collect leads and optionally send outreach emails",
		Long: `Runs the full lead pipeline. By default (or with --dry-run) it stops
after exporting the lead collection; --send adds the capped, throttled send
loop and persists send history so reruns never double-email a place.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dryRun && send {
				return fmt.Errorf("--dry-run and --send are mutually exclusive")
			}
			// Dry run is the default when neither flag is given.
			return runScrape(cmd.Context(), current, send)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "scrape + export only (no emails, no state changes)")
	cmd.Flags().BoolVar(&send, "send", false, "send outreach emails (respects daily cap and send delay)")
	return cmd
}

func runScrape(ctx context.Context, a app, send bool) error {
	cfg, logger := a.cfg, a.logger

	if err := cfg.RequireScrapeCredentials(); err != nil {
		return err
	}
	if send {
		if err := cfg.RequireSendCredentials(); err != nil {
			return err
		}
	}

	runID, err := uuid.NewGenerator().NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	logger = logger.With(zap.String("run_id", runID))

	mode := "dry-run"
	if send {
		mode = "send"
	}
	logger.Info("starting scrape",
		zap.String("mode", mode),
		zap.Float64("lat", cfg.Search.Lat),
		zap.Float64("lng", cfg.Search.Lng),
		zap.Int("radius_m", cfg.Search.RadiusMeters),
		zap.Int("max_reviews", cfg.Filter.MaxReviews),
		zap.Int("max_photos", cfg.Filter.MaxPhotos),
		zap.Bool("require_website", cfg.Filter.RequireWebsite),
	)

	clk := system.New()
	placesClient := places.NewClient(cfg.Places.APIKey, cfg.HTTP.Timeout, logger)
	fetcher := webfetch.NewCollyFetcher(webfetch.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTP.Timeout,
	}, logger)
	harvester := harvest.New(fetcher, logger)

	p := pipeline.New(placesClient, harvester, clk, pipeline.Config{
		Search: places.SearchParams{
			Lat:          cfg.Search.Lat,
			Lng:          cfg.Search.Lng,
			RadiusMeters: cfg.Search.RadiusMeters,
			Keyword:      cfg.Search.Keyword,
			PlaceType:    cfg.Search.PlaceType,
		},
		Filter: leadFilter(cfg),
	}, logger)

	leads, err := p.CollectLeads(ctx)
	if err != nil {
		return err
	}

	// Sending happens before the export is written so the exported status
	// column reflects this run's sends.
	if send {
		mailer, err := buildMailer(cfg)
		if err != nil {
			return err
		}
		statePath := outreach.StatePath(cfg.Output.Dir)
		st := outreach.LoadState(statePath)

		sender := outreach.NewSender(mailer, clk, outreach.Config{
			DailyCap:  cfg.Outreach.DailyCap,
			SendDelay: cfg.Outreach.SendDelay,
			FromName:  cfg.Outreach.FromName,
			FromAddr:  cfg.Outreach.FromEmail,
		}, logger)
		sum := sender.Run(ctx, leads, st)

		if err := outreach.SaveState(statePath, st); err != nil {
			return fmt.Errorf("save outreach state: %w", err)
		}
		logger.Info("send loop done",
			zap.Int("sent", sum.Sent),
			zap.Int("failed", sum.Failed),
			zap.Int("skipped_no_email", sum.SkippedNoEmail),
			zap.Int("skipped_already_emailed", sum.SkippedAlreadyEmailed),
		)
	}

	csvPath, jsonPath := export.Paths(cfg.Output.Dir, clk.Now())
	if err := export.WriteCSV(csvPath, leads); err != nil {
		return err
	}
	if err := export.WriteJSON(jsonPath, export.NewDocument(runID, clk.Now(), leads)); err != nil {
		return err
	}
	logger.Info("exported leads",
		zap.Int("count", len(leads)),
		zap.String("csv", csvPath),
		zap.String("json", jsonPath),
	)

	persistLeads(ctx, cfg, logger, leads)

	if !send {
		logger.Info("dry run complete (no emails sent)")
	}
	return nil
}

func leadFilter(cfg config.Config) lead.FilterConfig {
	return lead.FilterConfig{
		MaxReviews:     cfg.Filter.MaxReviews,
		MaxPhotos:      cfg.Filter.MaxPhotos,
		RequireWebsite: cfg.Filter.RequireWebsite,
	}
}

func buildMailer(cfg config.Config) (mail.Sender, error) {
	switch cfg.Mail.Provider {
	case "resend":
		return mail.NewResendSender(cfg.Mail.ResendAPIKey, cfg.HTTP.Timeout), nil
	case "smtp":
		return mail.NewSMTPSender(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPUser, cfg.Mail.SMTPPassword), nil
	default:
		return nil, fmt.Errorf("unknown mail.provider %q", cfg.Mail.Provider)
	}
}

// persistLeads mirrors the run into Postgres when a DSN is configured.
// Persistence is best-effort: a broken database never fails a run that has
// already produced its exports.
func persistLeads(ctx context.Context, cfg config.Config, logger *zap.Logger, leads []lead.Lead) {
	if cfg.DB.DSN == "" {
		return
	}
	store, err := postgres.NewLeadStore(ctx, postgres.LeadStoreConfig{
		DSN:   cfg.DB.DSN,
		Table: cfg.DB.LeadsTable,
	})
	if err != nil {
		logger.Warn("lead store unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	if err := store.UpsertLeads(ctx, leads); err != nil {
		logger.Warn("persist leads", zap.Error(err))
		return
	}
	logger.Info("leads persisted", zap.Int("count", len(leads)), zap.String("table", cfg.DB.LeadsTable))
}
