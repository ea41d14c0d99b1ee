package outreach

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/magicplate/outreach/internal/lead"
	"github.com/magicplate/outreach/internal/mail"
	"github.com/magicplate/outreach/internal/metrics"
)

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// pauseController abstracts how the sender waits between send attempts.
type pauseController interface {
	Pause(ctx context.Context, delay time.Duration)
}

type timerPauseController struct{}

func (timerPauseController) Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Config controls one sending run.
type Config struct {
	DailyCap  int
	SendDelay time.Duration
	FromName  string
	FromAddr  string
}

// Summary reports what the send loop did.
type Summary struct {
	Sent                  int
	Failed                int
	SkippedNoEmail        int
	SkippedAlreadyEmailed int
}

// Sender walks the deduplicated lead collection and delivers intro emails,
// enforcing the daily cap, cross-run idempotence via the state, and a
// mandatory pause after every attempt.
type Sender struct {
	mailer mail.Sender
	clock  Clock
	pauser pauseController
	cfg    Config
	logger *zap.Logger
}

// NewSender builds a Sender.
func NewSender(mailer mail.Sender, clock Clock, cfg Config, logger *zap.Logger) *Sender {
	return &Sender{
		mailer: mailer,
		clock:  clock,
		pauser: timerPauseController{},
		cfg:    cfg,
		logger: logger,
	}
}

// Run executes the send loop. Leads are visited in collection order; once
// the sent count reaches the cap the loop stops outright, leaving the
// remaining leads untouched for the next run. Provider failures are logged
// per lead and never halt the run. The state is mutated in memory only;
// persisting it is the caller's job.
func (s *Sender) Run(ctx context.Context, leads []lead.Lead, st *State) Summary {
	var sum Summary
	for i := range leads {
		if sum.Sent >= s.cfg.DailyCap {
			s.logger.Info("daily cap reached", zap.Int("cap", s.cfg.DailyCap))
			break
		}
		if err := ctx.Err(); err != nil {
			break
		}

		l := &leads[i]
		if len(l.Emails) == 0 {
			sum.SkippedNoEmail++
			metrics.ObserveSend("skipped")
			continue
		}
		if st.AlreadyEmailed(l.PlaceID) {
			sum.SkippedAlreadyEmailed++
			metrics.ObserveSend("skipped")
			continue
		}

		recipient := l.Emails[0]
		msg := RenderIntro(*l, s.cfg.FromName, s.cfg.FromAddr)
		msg.To = recipient

		msgID, err := s.mailer.Send(ctx, msg)
		if err != nil {
			sum.Failed++
			metrics.ObserveSend("failed")
			s.logger.Warn("send failed",
				zap.String("place_id", l.PlaceID),
				zap.String("name", l.Name),
				zap.String("recipient", recipient),
				zap.Error(err),
			)
		} else {
			st.Emailed[l.PlaceID] = SendRecord{
				RecipientEmail:    recipient,
				SentAt:            s.clock.Now(),
				ProviderMessageID: msgID,
			}
			l.Status = lead.StatusEmailed
			sum.Sent++
			metrics.ObserveSend("sent")
			s.logger.Info("sent",
				zap.Int("count", sum.Sent),
				zap.Int("cap", s.cfg.DailyCap),
				zap.String("name", l.Name),
				zap.String("recipient", recipient),
			)
		}

		// Throttle after every attempt to stay under provider rate limits.
		s.pauser.Pause(ctx, s.cfg.SendDelay)
	}

	now := s.clock.Now()
	st.LastRun = &now
	return sum
}
