package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateLinks(t *testing.T) {
	t.Run("keeps same-host contact links and drops cross-host", func(t *testing.T) {
		html := `<a href="/contact-us">Contact</a> <a href="https://other.com/contact">X</a>`
		got := CandidateLinks("https://example.com", html)

		assert.Contains(t, got, "https://example.com/contact-us")
		assert.Contains(t, got, "https://example.com/contact")
		assert.Contains(t, got, "https://example.com/about")
		for _, u := range got {
			assert.NotContains(t, u, "other.com")
		}
	})

	t.Run("always appends fallback paths", func(t *testing.T) {
		got := CandidateLinks("https://example.com", "")
		assert.Equal(t, []string{
			"https://example.com/contact",
			"https://example.com/contact-us",
			"https://example.com/about",
			"https://example.com/about-us",
			"https://example.com/catering",
		}, got)
	})

	t.Run("skips fragments mailto and non-keyword links", func(t *testing.T) {
		html := `<a href="#top">Top</a> <a href="mailto:hi@example.com">Mail</a> <a href="/gallery">Gallery</a>`
		got := CandidateLinks("https://example.com", html)
		for _, u := range got {
			assert.NotContains(t, u, "#top")
			assert.NotContains(t, u, "mailto")
			assert.NotContains(t, u, "gallery")
		}
	})

	t.Run("truncates to ten after dedup", func(t *testing.T) {
		html := ""
		for _, p := range []string{"/contact-1", "/contact-2", "/contact-3", "/contact-4", "/contact-5", "/contact-6", "/contact-7", "/contact-8"} {
			html += `<a href="` + p + `">c</a>`
		}
		got := CandidateLinks("https://example.com", html)
		require.Len(t, got, 10)
	})

	t.Run("dedupes repeated hrefs", func(t *testing.T) {
		html := `<a href="/contact">a</a><a href="/contact">b</a>`
		got := CandidateLinks("https://example.com", html)
		count := 0
		for _, u := range got {
			if u == "https://example.com/contact" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("invalid base yields nothing", func(t *testing.T) {
		assert.Empty(t, CandidateLinks("://bad", "<a href=\"/contact\">c</a>"))
	})
}
