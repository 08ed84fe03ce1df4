package service

import (
	"context"
	"crimewatch/filter"
	"crimewatch/models"
	"fmt"
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// NotInformed labels reports that left a demographic question unanswered.
const NotInformed = "Not informed"

// Bucket is one slice of a breakdown
type Bucket struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// MonthlySeries counts reports per month (index 0 = January) within one year
type MonthlySeries struct {
	Year   int     `json:"year"`
	Months [12]int `json:"months"`
}

// Demographics breaks reports down by the reporter's answers
type Demographics struct {
	AgeGroup          []Bucket `json:"ageGroup"`
	Ethnicity         []Bucket `json:"ethnicity"`
	GenderIdentity    []Bucket `json:"genderIdentity"`
	SexualOrientation []Bucket `json:"sexualOrientation"`
}

// Dashboard holds every aggregate the public dashboards render
type Dashboard struct {
	Total        int             `json:"total"`
	ByGenre      []Bucket        `json:"byGenre"`
	ByType       []Bucket        `json:"byCrimeType"`
	ByRegion     []Bucket        `json:"byRegion"`
	ByYear       []Bucket        `json:"byYear"`
	Monthly      []MonthlySeries `json:"monthly"`
	Resolution   []Bucket        `json:"resolution"`
	Demographics Demographics    `json:"demographics"`
}

// DashboardQuery narrows the reports a dashboard is computed over
type DashboardQuery struct {
	Status  string
	Types   []string
	Regions []string
	Years   []int
}

// StatsService computes dashboard aggregates and map markers
type StatsService struct {
	api ReportsAPI
	log *zap.SugaredLogger
}

// NewStatsService creates a stats service
func NewStatsService(api ReportsAPI, log *zap.SugaredLogger) *StatsService {
	return &StatsService{api: api, log: log}
}

// Dashboard fetches the reports for q.Status and aggregates those matching the rest of q.
func (s *StatsService) Dashboard(ctx context.Context, q DashboardQuery) (*Dashboard, error) {
	reports, err := s.fetch(ctx, q.Status)
	if err != nil {
		return nil, err
	}
	sel := filter.Selection{Types: q.Types, Regions: q.Regions, Years: q.Years}
	return Aggregate(filter.Apply(reports, sel)), nil
}

// Markers returns the map markers for reports in status (all reports when empty).
func (s *StatsService) Markers(ctx context.Context, status string) ([]Marker, error) {
	reports, err := s.fetch(ctx, status)
	if err != nil {
		return nil, err
	}
	markers := Markers(reports)
	if skipped := len(reports) - len(markers); skipped > 0 {
		s.log.Debugw("reports without a usable location left off the map", "count", skipped)
	}
	return markers, nil
}

func (s *StatsService) fetch(ctx context.Context, status string) ([]models.Report, error) {
	reports, err := s.api.ListReports(ctx, models.APIStatus(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if status != "" {
		reports = filter.Partition(reports, status)
	}
	return reports, nil
}

// Aggregate computes the dashboard for reports.
func Aggregate(reports []models.Report) *Dashboard {
	total := len(reports)
	d := &Dashboard{Total: total}

	d.ByGenre = breakdown(reports, total, func(r models.Report) string { return r.CrimeGenre })
	d.ByType = breakdown(reports, total, func(r models.Report) string { return r.CrimeType })
	d.ByRegion = breakdown(reports, total, func(r models.Report) string { return r.Region })

	yearCounts := make(map[int]int)
	monthly := make(map[int]*MonthlySeries)
	resolved := 0
	for _, r := range reports {
		if r.Resolved {
			resolved++
		}
		t, ok := models.ParseCrimeDate(r.CrimeDate)
		if !ok {
			continue
		}
		yearCounts[t.Year()]++
		series, ok := monthly[t.Year()]
		if !ok {
			series = &MonthlySeries{Year: t.Year()}
			monthly[t.Year()] = series
		}
		series.Months[t.Month()-1]++
	}

	years := make([]int, 0, len(yearCounts))
	for y := range yearCounts {
		years = append(years, y)
	}
	sort.Ints(years)
	d.ByYear = make([]Bucket, 0, len(years))
	d.Monthly = make([]MonthlySeries, 0, len(years))
	for _, y := range years {
		d.ByYear = append(d.ByYear, bucket(strconv.Itoa(y), yearCounts[y], total))
		d.Monthly = append(d.Monthly, *monthly[y])
	}

	d.Resolution = []Bucket{
		bucket("Resolved", resolved, total),
		bucket("Unresolved", total-resolved, total),
	}

	d.Demographics = Demographics{
		AgeGroup:          demographic(reports, total, func(rd *models.ReporterDetails) *string { return rd.AgeGroup }),
		Ethnicity:         demographic(reports, total, func(rd *models.ReporterDetails) *string { return rd.Ethnicity }),
		GenderIdentity:    demographic(reports, total, func(rd *models.ReporterDetails) *string { return rd.GenderIdentity }),
		SexualOrientation: demographic(reports, total, func(rd *models.ReporterDetails) *string { return rd.SexualOrientation }),
	}
	return d
}

// breakdown counts reports by a text field. Values are grouped like filter options
// and empty values are left out.
func breakdown(reports []models.Report, total int, field func(models.Report) string) []Bucket {
	values := make([]string, 0, len(reports))
	counts := make(map[string]int)
	for _, r := range reports {
		v := field(r)
		if k := filter.Key(v); k != "" {
			values = append(values, v)
			counts[k]++
		}
	}
	labels := filter.Labels(values)
	out := make([]Bucket, 0, len(labels))
	for _, label := range labels {
		out = append(out, bucket(label, counts[filter.Key(label)], total))
	}
	return out
}

func demographic(reports []models.Report, total int, field func(*models.ReporterDetails) *string) []Bucket {
	values := make([]string, 0, len(reports))
	counts := make(map[string]int)
	missing := 0
	for _, r := range reports {
		var v *string
		if r.ReporterDetails != nil {
			v = field(r.ReporterDetails)
		}
		if v == nil || filter.Key(*v) == "" {
			missing++
			continue
		}
		values = append(values, *v)
		counts[filter.Key(*v)]++
	}
	labels := filter.Labels(values)
	out := make([]Bucket, 0, len(labels)+1)
	for _, label := range labels {
		out = append(out, bucket(label, counts[filter.Key(label)], total))
	}
	if missing > 0 {
		out = append(out, bucket(NotInformed, missing, total))
	}
	return out
}

func bucket(label string, count, total int) Bucket {
	return Bucket{Label: label, Count: count, Percent: percent(count, total)}
}

// percent returns count/total as a percentage rounded to one decimal.
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)*1000/float64(total)) / 10
}
