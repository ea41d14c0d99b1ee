// Package export serializes the run's lead collection to dated CSV and JSON
// files under the output directory.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/magicplate/outreach/internal/lead"
)

// Emails are joined into one CSV cell with this delimiter.
const emailDelimiter = ";"

var csvHeader = []string{
	"place_id",
	"name",
	"address",
	"website",
	"rating",
	"user_ratings_total",
	"photos_count",
	"emails",
	"scraped_at",
	"status",
}

// Paths returns the dated CSV and JSON file locations for a run.
func Paths(dir string, day time.Time) (csvPath, jsonPath string) {
	stamp := day.UTC().Format("2006-01-02")
	return filepath.Join(dir, fmt.Sprintf("leads-%s.csv", stamp)),
		filepath.Join(dir, fmt.Sprintf("leads-%s.json", stamp))
}

// WriteCSV writes the lead collection as a CSV file with a header row.
func WriteCSV(path string, leads []lead.Lead) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path) // #nosec G304 -- operator-configured output location.
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, l := range leads {
		rating := ""
		if l.Rating != nil {
			rating = strconv.FormatFloat(*l.Rating, 'f', -1, 64)
		}
		row := []string{
			l.PlaceID,
			l.Name,
			l.Address,
			l.Website,
			rating,
			strconv.Itoa(l.UserRatingsTotal),
			strconv.Itoa(l.PhotosCount),
			strings.Join(l.Emails, emailDelimiter),
			l.ScrapedAt.UTC().Format(time.RFC3339),
			string(l.Status),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", l.PlaceID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv %s: %w", path, err)
	}
	return nil
}

// Document is the JSON export envelope: run metadata plus the lead
// collection.
type Document struct {
	RunID       string      `json:"run_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Count       int         `json:"count"`
	Leads       []lead.Lead `json:"leads"`
}

// NewDocument wraps a lead collection in an export envelope.
func NewDocument(runID string, generatedAt time.Time, leads []lead.Lead) Document {
	return Document{
		RunID:       runID,
		GeneratedAt: generatedAt.UTC(),
		Count:       len(leads),
		Leads:       leads,
	}
}

// WriteJSON writes the export document as indented JSON.
func WriteJSON(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal leads: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write json %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads an export document back from disk.
func ReadJSON(path string) (Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-configured output location.
	if err != nil {
		return Document{}, fmt.Errorf("read json %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse json %s: %w", path, err)
	}
	return doc, nil
}

// LatestJSON returns the newest leads-*.json file under dir, or "" when none
// exists. The serve API reads exports through this.
func LatestJSON(dir string) string {
	matches, err := filepath.Glob(filepath.Join(dir, "leads-*.json"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	latest := matches[0]
	for _, m := range matches[1:] {
		if m > latest {
			latest = m
		}
	}
	return latest
}
