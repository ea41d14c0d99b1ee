package lead

// FilterConfig holds the operator-tunable thresholds for the low-presence
// heuristic. These are configuration, not business rules: the point is to
// approximate "under-marketed business", and the right cutoffs vary by area.
type FilterConfig struct {
	MaxReviews     int
	MaxPhotos      int
	RequireWebsite bool
}

// IsLowPresence reports whether a place qualifies as a low-online-presence
// lead. All conditions must hold; the first failing one decides.
func IsLowPresence(d Details, cfg FilterConfig) bool {
	if d.UserRatingsTotal > cfg.MaxReviews {
		return false
	}
	if d.PhotosCount > cfg.MaxPhotos {
		return false
	}
	if cfg.RequireWebsite && d.Website == "" {
		return false
	}
	return true
}
