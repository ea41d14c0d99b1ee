package extract

import (
	"net/url"
	"regexp"
	"strings"
)

var hrefPattern = regexp.MustCompile(`(?i)href=['"]([^'"]+)['"]`)

// Anchors that make a link worth visiting when hunting for a contact email.
var linkKeywords = []string{"contact", "about", "menu", "reserv", "cater", "connect"}

// Paths most small-business sites use even when the homepage never links them.
var fallbackPaths = []string{"/contact", "/contact-us", "/about", "/about-us", "/catering"}

const maxCandidates = 10

// CandidateLinks returns up to ten same-host URLs likely to expose a contact
// email: hrefs from the homepage whose target mentions a contact-ish keyword,
// plus a fixed set of common paths. Cross-host links are dropped so the
// harvester never wanders into aggregator or booking sites.
func CandidateLinks(baseURL, text string) []string {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil
	}

	var raw []string
	for _, m := range hrefPattern.FindAllStringSubmatch(text, -1) {
		href := strings.TrimSpace(m[1])
		if href == "" || strings.HasPrefix(href, "#") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(href), "mailto:") {
			continue
		}
		if !containsKeyword(href) {
			continue
		}
		raw = append(raw, href)
	}
	raw = append(raw, fallbackPaths...)

	var out []string
	seen := make(map[string]struct{})
	for _, href := range raw {
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if !strings.EqualFold(resolved.Host, base.Host) {
			continue
		}
		abs := resolved.String()
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
		if len(out) == maxCandidates {
			break
		}
	}
	return out
}

func containsKeyword(href string) bool {
	lower := strings.ToLower(href)
	for _, kw := range linkKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
