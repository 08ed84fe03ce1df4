package filter

import (
	"crimewatch/models"
	"sort"
)

// Options are the selectable values for each filter dimension.
type Options struct {
	Genres  []string `json:"genres"`
	Types   []string `json:"crimeTypes"`
	Regions []string `json:"regions"`
	Years   []int    `json:"years"`
}

// Partition returns the reports whose normalized status equals the normalized tab.
func Partition(reports []models.Report, tab string) []models.Report {
	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if models.SameStatus(r.Status, tab) {
			out = append(out, r)
		}
	}
	return out
}

// DeriveOptions computes filter options from a status partition. When selectedGenre is
// set, crime types are restricted to those co-occurring with that genre.
func DeriveOptions(partition []models.Report, selectedGenre string) Options {
	genres := make([]string, 0, len(partition))
	types := make([]string, 0, len(partition))
	regions := make([]string, 0, len(partition))
	yearSet := make(map[int]bool)

	for _, r := range partition {
		genres = append(genres, r.CrimeGenre)
		if selectedGenre == "" || SameText(r.CrimeGenre, selectedGenre) {
			types = append(types, r.CrimeType)
		}
		regions = append(regions, r.Region)
		if y, ok := r.IncidentYear(); ok {
			yearSet[y] = true
		}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	return Options{
		Genres:  distinct(genres),
		Types:   distinct(types),
		Regions: distinct(regions),
		Years:   years,
	}
}
