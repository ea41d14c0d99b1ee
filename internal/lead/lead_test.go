package lead

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLowPresence(t *testing.T) {
	cfg := FilterConfig{MaxReviews: 15, MaxPhotos: 6, RequireWebsite: true}

	t.Run("too many reviews rejects regardless of the rest", func(t *testing.T) {
		d := Details{PlaceID: "p1", UserRatingsTotal: 20, PhotosCount: 0, Website: "https://example.com"}
		assert.False(t, IsLowPresence(d, cfg))
	})

	t.Run("too many photos rejects", func(t *testing.T) {
		d := Details{PlaceID: "p1", UserRatingsTotal: 3, PhotosCount: 7, Website: "https://example.com"}
		assert.False(t, IsLowPresence(d, cfg))
	})

	t.Run("missing website rejects when required", func(t *testing.T) {
		d := Details{PlaceID: "p1", UserRatingsTotal: 5, PhotosCount: 2}
		assert.False(t, IsLowPresence(d, cfg))
	})

	t.Run("missing website accepted when not required", func(t *testing.T) {
		d := Details{PlaceID: "p1", UserRatingsTotal: 5, PhotosCount: 2}
		relaxed := cfg
		relaxed.RequireWebsite = false
		assert.True(t, IsLowPresence(d, relaxed))
	})

	t.Run("missing counts pass by default", func(t *testing.T) {
		d := Details{PlaceID: "p1", Website: "https://example.com"}
		assert.True(t, IsLowPresence(d, cfg))
	})
}

func TestBuild(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	d := Details{
		PlaceID:          "p1",
		Name:             "Taqueria Luz",
		FormattedAddress: "12 Olive St, Los Angeles, CA",
		Website:          "https://taquerialuz.example",
		UserRatingsTotal: 4,
		PhotosCount:      1,
	}

	t.Run("with emails stays new", func(t *testing.T) {
		l := Build(d, []string{"hola@taquerialuz.example"}, now)
		assert.Equal(t, StatusNew, l.Status)
		assert.Equal(t, now, l.ScrapedAt)
		assert.Equal(t, "Taqueria Luz", l.Name)
	})

	t.Run("without emails downgrades to skipped", func(t *testing.T) {
		l := Build(d, nil, now)
		assert.Equal(t, StatusSkipped, l.Status)
	})
}

func TestDedupe(t *testing.T) {
	now := time.Now().UTC()
	leads := []Lead{
		{PlaceID: "a", Name: "First A", ScrapedAt: now},
		{PlaceID: "b", Name: "B", ScrapedAt: now},
		{PlaceID: "a", Name: "Second A", ScrapedAt: now},
	}

	out := Dedupe(leads)
	require.Len(t, out, 2)
	assert.Equal(t, "First A", out[0].Name, "first occurrence wins")
	assert.Equal(t, "b", out[1].PlaceID)
}

func TestDetailsEmpty(t *testing.T) {
	assert.True(t, Details{}.Empty())
	assert.False(t, Details{PlaceID: "p1"}.Empty())
}
