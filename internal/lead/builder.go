package lead

import "time"

// Build composes a details record and its harvested emails into a Lead.
// A lead starts as "new" and is downgraded to "skipped" immediately when
// the harvest came back empty, so exports show at a glance which leads
// are actionable.
func Build(d Details, emails []string, now time.Time) Lead {
	l := Lead{
		PlaceID:          d.PlaceID,
		Name:             d.Name,
		Address:          d.FormattedAddress,
		Website:          d.Website,
		Rating:           d.Rating,
		UserRatingsTotal: d.UserRatingsTotal,
		PhotosCount:      d.PhotosCount,
		Emails:           emails,
		ScrapedAt:        now,
		Status:           StatusNew,
	}
	if len(l.Emails) == 0 {
		l.Status = StatusSkipped
	}
	return l
}
