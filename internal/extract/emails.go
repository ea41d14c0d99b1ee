// Package extract implements the regex-based scraping heuristics: pulling
// contact emails and likely contact-page links out of raw page text. The
// heuristics are deliberately confined behind text-in, strings-out functions
// so a real parser could replace them without touching callers.
package extract

import (
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	strictPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Role addresses that never belong in an outreach list.
var bannedSubstrings = []string{
	"noreply",
	"no-reply",
	"donotreply",
	"privacy@",
	"abuse@",
	"support@",
	"billing@",
	"postmaster@",
	"webmaster@",
}

// Emails scans raw page text for publicly listed contact addresses.
// Matches are lowercased, validated against a stricter syntax check,
// stripped of role addresses, and deduplicated preserving first-seen order.
// The function is pure: same input, same ordered output.
func Emails(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, match := range emailPattern.FindAllString(text, -1) {
		email := strings.ToLower(strings.TrimSpace(match))
		if !strictPattern.MatchString(email) {
			continue
		}
		if isBannedRole(email) {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

func isBannedRole(email string) bool {
	for _, banned := range bannedSubstrings {
		if strings.Contains(email, banned) {
			return true
		}
	}
	return false
}
