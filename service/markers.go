package service

import "crimewatch/models"

// Marker is one pin on the public map
type Marker struct {
	ID        string  `json:"id"`
	CrimeType string  `json:"crimeType"`
	Region    string  `json:"region"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

// Markers returns a marker for every report whose location parses.
// Reports with an unusable location are omitted from the map only.
func Markers(reports []models.Report) []Marker {
	out := make([]Marker, 0, len(reports))
	for _, r := range reports {
		c, ok := r.Coordinates()
		if !ok {
			continue
		}
		out = append(out, Marker{
			ID:        r.ID,
			CrimeType: r.CrimeType,
			Region:    r.Region,
			Lat:       c.Lat,
			Lng:       c.Lng,
		})
	}
	return out
}
