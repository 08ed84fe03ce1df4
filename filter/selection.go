package filter

import (
	"crimewatch/models"
)

// Selection is the admin's current choice in each secondary filter dimension.
// An empty dimension places no constraint.
type Selection struct {
	Genre   string   `json:"genre,omitempty"`
	Types   []string `json:"crimeTypes"`
	Regions []string `json:"regions"`
	Years   []int    `json:"years"`
}

// IsEmpty reports whether no dimension is constrained.
func (s Selection) IsEmpty() bool {
	return s.Genre == "" && len(s.Types) == 0 && len(s.Regions) == 0 && len(s.Years) == 0
}

// Reconcile prunes sel to values present in opts. When nothing is pruned it returns sel
// itself, sharing its slices, and false.
func Reconcile(opts Options, sel Selection) (Selection, bool) {
	genreGone := sel.Genre != "" && !containsText(opts.Genres, sel.Genre)
	types, typesChanged := pruneText(sel.Types, opts.Types)
	regions, regionsChanged := pruneText(sel.Regions, opts.Regions)
	years, yearsChanged := pruneInts(sel.Years, opts.Years)

	if !genreGone && !typesChanged && !regionsChanged && !yearsChanged {
		return sel, false
	}

	out := sel
	if genreGone {
		out.Genre = ""
	}
	out.Types = types
	out.Regions = regions
	out.Years = years
	return out, true
}

func pruneText(selected, allowed []string) ([]string, bool) {
	for i, v := range selected {
		if containsText(allowed, v) {
			continue
		}
		kept := append(make([]string, 0, len(selected)), selected[:i]...)
		for _, rest := range selected[i+1:] {
			if containsText(allowed, rest) {
				kept = append(kept, rest)
			}
		}
		return kept, true
	}
	return selected, false
}

func pruneInts(selected, allowed []int) ([]int, bool) {
	for i, v := range selected {
		if containsInt(allowed, v) {
			continue
		}
		kept := append(make([]int, 0, len(selected)), selected[:i]...)
		for _, rest := range selected[i+1:] {
			if containsInt(allowed, rest) {
				kept = append(kept, rest)
			}
		}
		return kept, true
	}
	return selected, false
}

// Matches reports whether r satisfies every constrained dimension of sel.
// Within a dimension any selected value matches.
func (s Selection) Matches(r models.Report) bool {
	if s.Genre != "" && !SameText(r.CrimeGenre, s.Genre) {
		return false
	}
	if len(s.Types) > 0 && !containsText(s.Types, r.CrimeType) {
		return false
	}
	if len(s.Regions) > 0 && !containsText(s.Regions, r.Region) {
		return false
	}
	if len(s.Years) > 0 {
		y, ok := r.IncidentYear()
		if !ok || !containsInt(s.Years, y) {
			return false
		}
	}
	return true
}

// Apply returns the reports of partition matching sel. An empty selection returns
// the partition unfiltered.
func Apply(partition []models.Report, sel Selection) []models.Report {
	if sel.IsEmpty() {
		return partition
	}
	out := make([]models.Report, 0, len(partition))
	for _, r := range partition {
		if sel.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
