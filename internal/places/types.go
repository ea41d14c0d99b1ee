package places

import "github.com/magicplate/outreach/internal/lead"

// Wire shapes for the Places API. Optional upstream fields stay pointers or
// zero values here and are converted to the typed boundary records in
// client.go; nothing downstream ever sees a raw response map.

type nearbyResponse struct {
	Results       []nearbyResult `json:"results"`
	NextPageToken string         `json:"next_page_token"`
	Status        string         `json:"status"`
}

type nearbyResult struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
}

func (r nearbyResponse) summaries() []lead.Summary {
	out := make([]lead.Summary, 0, len(r.Results))
	for _, res := range r.Results {
		out = append(out, lead.Summary{PlaceID: res.PlaceID, Name: res.Name})
	}
	return out
}

type detailsResponse struct {
	Result detailsResult `json:"result"`
	Status string        `json:"status"`
}

type detailsResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Website          string   `json:"website"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	Photos           []photo  `json:"photos"`
}

type photo struct {
	PhotoReference string `json:"photo_reference"`
}
