package filter

import (
	"crimewatch/models"
	"sync"
)

// Derived is the status partition of a report list and the options it offers.
type Derived struct {
	Tab       string
	Partition []models.Report
	Options   Options
}

// Deriver memoizes Derive on the identity of the report slice and the tab.
// Replacing the list (never mutating it in place) invalidates the memo.
type Deriver struct {
	mu     sync.Mutex
	first  *models.Report
	length int
	tab    string
	last   *Derived
}

// Derive returns the partition and unconstrained options for tab.
func (d *Deriver) Derive(reports []models.Report, tab string) *Derived {
	d.mu.Lock()
	defer d.mu.Unlock()

	var first *models.Report
	if len(reports) > 0 {
		first = &reports[0]
	}
	tab = models.NormalizeStatus(tab)
	if d.last != nil && d.first == first && d.length == len(reports) && d.tab == tab {
		return d.last
	}

	partition := Partition(reports, tab)
	d.first, d.length, d.tab = first, len(reports), tab
	d.last = &Derived{
		Tab:       tab,
		Partition: partition,
		Options:   DeriveOptions(partition, ""),
	}
	return d.last
}

// Snapshot is the rendered state of a View.
type Snapshot struct {
	Tab       string          `json:"tab"`
	Selection Selection       `json:"selection"`
	Options   Options         `json:"options"`
	Reports   []models.Report `json:"reports"`
	Total     int             `json:"total"`
	Partition int             `json:"partitionTotal"`
	Visible   int             `json:"visible"`
	HasMore   bool            `json:"hasMore"`
}

// View holds one admin's report list state: tab, selection and pager.
// Every input change re-derives options, reconciles the selection and, for tab
// and filter changes, resets the pager.
type View struct {
	deriver   Deriver
	reports   []models.Report
	tab       string
	selection Selection
	pager     *Pager

	options  Options
	filtered []models.Report
	partSize int
}

// NewView creates a view on the draft tab.
func NewView(pageSize int) *View {
	v := &View{
		tab:   string(models.StatusDraft),
		pager: NewPager(pageSize),
	}
	v.refresh(false)
	return v
}

// SetReports replaces the report list. The pager resets only if reconciliation pruned the selection.
func (v *View) SetReports(reports []models.Report) {
	v.reports = reports
	v.refresh(false)
}

// SetTab switches the status tab, clearing the selection.
func (v *View) SetTab(tab string) {
	v.tab = models.NormalizeStatus(tab)
	v.selection = Selection{}
	v.refresh(true)
}

// SelectGenre sets the genre filter; an empty genre clears it.
func (v *View) SelectGenre(genre string) {
	v.selection.Genre = genre
	v.refresh(true)
}

// ToggleType adds or removes a crime type from the selection.
func (v *View) ToggleType(crimeType string) {
	v.selection.Types = toggleText(v.selection.Types, crimeType)
	v.refresh(true)
}

// ToggleRegion adds or removes a region from the selection.
func (v *View) ToggleRegion(region string) {
	v.selection.Regions = toggleText(v.selection.Regions, region)
	v.refresh(true)
}

// ToggleYear adds or removes a year from the selection.
func (v *View) ToggleYear(year int) {
	v.selection.Years = toggleInt(v.selection.Years, year)
	v.refresh(true)
}

// ClearFilters empties every dimension.
func (v *View) ClearFilters() {
	v.selection = Selection{}
	v.refresh(true)
}

// LoadMore reveals one more page.
func (v *View) LoadMore() {
	v.pager.LoadMore()
}

// HasMore reports whether filtered reports remain beyond the visible page.
func (v *View) HasMore() bool {
	return v.pager.HasMore()
}

// Selection returns the current, reconciled selection.
func (v *View) Selection() Selection {
	return v.selection
}

// Snapshot returns the visible page and the state needed to render the filters.
func (v *View) Snapshot() Snapshot {
	visible := v.pager.Visible()
	return Snapshot{
		Tab:       v.tab,
		Selection: v.selection,
		Options:   v.options,
		Reports:   v.filtered[:visible],
		Total:     len(v.filtered),
		Partition: v.partSize,
		Visible:   visible,
		HasMore:   v.pager.HasMore(),
	}
}

func (v *View) refresh(resetPager bool) {
	derived := v.deriver.Derive(v.reports, v.tab)
	v.partSize = len(derived.Partition)

	opts := derived.Options
	if v.selection.Genre != "" {
		opts = DeriveOptions(derived.Partition, v.selection.Genre)
		if !containsText(opts.Genres, v.selection.Genre) {
			opts = derived.Options
		}
	}

	sel, changed := Reconcile(opts, v.selection)
	if changed {
		v.selection = sel
		resetPager = true
		if sel.Genre == "" {
			opts = derived.Options
		}
	}
	v.options = opts

	v.filtered = Apply(derived.Partition, v.selection)
	v.pager.SetTotal(len(v.filtered))
	if resetPager {
		v.pager.Reset()
	}
}

func toggleText(list []string, v string) []string {
	out := make([]string, 0, len(list)+1)
	removed := false
	for _, item := range list {
		if SameText(item, v) {
			removed = true
			continue
		}
		out = append(out, item)
	}
	if !removed && Key(v) != "" {
		out = append(out, v)
	}
	return out
}

func toggleInt(list []int, v int) []int {
	out := make([]int, 0, len(list)+1)
	removed := false
	for _, item := range list {
		if item == v {
			removed = true
			continue
		}
		out = append(out, item)
	}
	if !removed {
		out = append(out, v)
	}
	return out
}
