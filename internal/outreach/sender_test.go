package outreach

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/magicplate/outreach/internal/lead"
	"github.com/magicplate/outreach/internal/mail"
	"github.com/magicplate/outreach/internal/metrics"
)

type fakeMailer struct {
	sent    []mail.Message
	failFor map[string]error
	nextID  int
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) (string, error) {
	if err, ok := m.failFor[msg.To]; ok {
		return "", err
	}
	m.sent = append(m.sent, msg)
	m.nextID++
	return fmt.Sprintf("msg-%d", m.nextID), nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type countingPauser struct{ pauses int }

func (p *countingPauser) Pause(context.Context, time.Duration) { p.pauses++ }

func newTestSender(mailer mail.Sender, dailyCap int) *Sender {
	s := NewSender(mailer, fixedClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}, Config{
		DailyCap:  dailyCap,
		SendDelay: 12 * time.Second,
		FromName:  "Sydney - MagicPlate",
		FromAddr:  "sydney@magicplate.info",
	}, zap.NewNop())
	s.pauser = &countingPauser{}
	return s
}

// skippedSendCount reads outreach_sends_total{result="skipped"} from the
// default registry.
func skippedSendCount(t *testing.T) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "outreach_sends_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == "skipped" {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func leadWithEmail(id, email string) lead.Lead {
	return lead.Lead{
		PlaceID: id,
		Name:    "Cafe " + id,
		Address: "12 Olive St, Los Angeles, CA",
		Emails:  []string{email},
		Status:  lead.StatusNew,
	}
}

func TestSenderRun(t *testing.T) {
	t.Run("daily cap halts the loop entirely", func(t *testing.T) {
		mailer := &fakeMailer{}
		s := newTestSender(mailer, 2)
		leads := []lead.Lead{
			leadWithEmail("a", "a@x.com"),
			leadWithEmail("b", "b@x.com"),
			leadWithEmail("c", "c@x.com"),
			leadWithEmail("d", "d@x.com"),
			leadWithEmail("e", "e@x.com"),
		}
		st := NewState()

		sum := s.Run(context.Background(), leads, st)

		assert.Equal(t, 2, sum.Sent)
		assert.Len(t, mailer.sent, 2)
		assert.Len(t, st.Emailed, 2)
		assert.False(t, st.AlreadyEmailed("c"), "leads past the cap get no attempt and no state mutation")
		assert.Equal(t, lead.StatusEmailed, leads[0].Status)
		assert.Equal(t, lead.StatusNew, leads[2].Status)
	})

	t.Run("already-emailed places are never re-sent", func(t *testing.T) {
		mailer := &fakeMailer{}
		s := newTestSender(mailer, 10)
		st := NewState()
		existing := SendRecord{RecipientEmail: "old@x.com", ProviderMessageID: "msg-old"}
		st.Emailed["a"] = existing

		sum := s.Run(context.Background(), []lead.Lead{leadWithEmail("a", "a@x.com")}, st)

		assert.Equal(t, 0, sum.Sent)
		assert.Equal(t, 1, sum.SkippedAlreadyEmailed)
		assert.Empty(t, mailer.sent)
		assert.Equal(t, existing, st.Emailed["a"], "existing record untouched")
	})

	t.Run("no-email leads skip without charging the cap", func(t *testing.T) {
		mailer := &fakeMailer{}
		s := newTestSender(mailer, 1)
		leads := []lead.Lead{
			{PlaceID: "a", Name: "No Email", Status: lead.StatusSkipped},
			leadWithEmail("b", "b@x.com"),
		}
		st := NewState()

		sum := s.Run(context.Background(), leads, st)

		assert.Equal(t, 1, sum.SkippedNoEmail)
		assert.Equal(t, 1, sum.Sent)
		assert.True(t, st.AlreadyEmailed("b"))
	})

	t.Run("both skip kinds count as skipped sends", func(t *testing.T) {
		metrics.Init()
		before := skippedSendCount(t)

		s := newTestSender(&fakeMailer{}, 5)
		st := NewState()
		st.Emailed["b"] = SendRecord{RecipientEmail: "old@x.com"}

		sum := s.Run(context.Background(), []lead.Lead{
			{PlaceID: "a", Name: "No Email", Status: lead.StatusSkipped},
			leadWithEmail("b", "b@x.com"),
		}, st)

		assert.Equal(t, 1, sum.SkippedNoEmail)
		assert.Equal(t, 1, sum.SkippedAlreadyEmailed)
		assert.InDelta(t, before+2, skippedSendCount(t), 0.001)
	})

	t.Run("provider failure is logged and the loop continues", func(t *testing.T) {
		mailer := &fakeMailer{failFor: map[string]error{"a@x.com": errors.New("rate limited")}}
		s := newTestSender(mailer, 5)
		leads := []lead.Lead{
			leadWithEmail("a", "a@x.com"),
			leadWithEmail("b", "b@x.com"),
		}
		st := NewState()

		sum := s.Run(context.Background(), leads, st)

		assert.Equal(t, 1, sum.Failed)
		assert.Equal(t, 1, sum.Sent)
		assert.False(t, st.AlreadyEmailed("a"), "failed sends never enter the state")
		assert.True(t, st.AlreadyEmailed("b"))
	})

	t.Run("pauses after every attempt including failures", func(t *testing.T) {
		mailer := &fakeMailer{failFor: map[string]error{"a@x.com": errors.New("boom")}}
		s := newTestSender(mailer, 5)
		pauser := &countingPauser{}
		s.pauser = pauser

		s.Run(context.Background(), []lead.Lead{
			leadWithEmail("a", "a@x.com"),
			leadWithEmail("b", "b@x.com"),
		}, NewState())

		assert.Equal(t, 2, pauser.pauses)
	})

	t.Run("sends to the first harvested email", func(t *testing.T) {
		mailer := &fakeMailer{}
		s := newTestSender(mailer, 5)
		l := leadWithEmail("a", "first@x.com")
		l.Emails = append(l.Emails, "second@x.com")

		s.Run(context.Background(), []lead.Lead{l}, NewState())

		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "first@x.com", mailer.sent[0].To)
	})

	t.Run("records recipient time and message id", func(t *testing.T) {
		mailer := &fakeMailer{}
		s := newTestSender(mailer, 5)
		st := NewState()

		s.Run(context.Background(), []lead.Lead{leadWithEmail("a", "a@x.com")}, st)

		rec := st.Emailed["a"]
		assert.Equal(t, "a@x.com", rec.RecipientEmail)
		assert.NotEmpty(t, rec.ProviderMessageID)
		assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), rec.SentAt)
		require.NotNil(t, st.LastRun)
	})
}

func TestRenderIntro(t *testing.T) {
	l := lead.Lead{
		Name:    "Taqueria Luz",
		Address: "12 Olive St, Los Angeles, CA",
	}
	msg := RenderIntro(l, "Sydney", "sydney@magicplate.info")

	assert.Equal(t, "Quick question about Taqueria Luz (12 Olive St)", msg.Subject)
	assert.Contains(t, msg.HTML, "Taqueria Luz")
	assert.Contains(t, msg.Text, "Taqueria Luz")
	assert.Contains(t, msg.Text, `reply with "stop"`)
	assert.Equal(t, "sydney@magicplate.info", msg.FromAddr)

	t.Run("empty address", func(t *testing.T) {
		msg := RenderIntro(lead.Lead{Name: "X"}, "Sydney", "s@m.info")
		assert.Equal(t, "Quick question about X ()", msg.Subject)
	})
}
