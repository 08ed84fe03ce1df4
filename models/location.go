package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Coordinates is a latitude/longitude pair parsed from a report location
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

var coordinatePattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// ParseLocation extracts a latitude/longitude pair from a free-text location such as
// "-15.83, -47.93". The text must contain exactly two numbers within coordinate range.
func ParseLocation(location string) (Coordinates, bool) {
	matches := coordinatePattern.FindAllString(location, -1)
	if len(matches) != 2 {
		return Coordinates{}, false
	}
	lat, err := strconv.ParseFloat(matches[0], 64)
	if err != nil {
		return Coordinates{}, false
	}
	lng, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return Coordinates{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinates{}, false
	}
	return Coordinates{Lat: lat, Lng: lng}, true
}

// crimeDateLayouts are tried in order. The API emits ISO timestamps, sometimes without a zone.
var crimeDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseCrimeDate parses a timestamp string sent by the API. Zone-less values are read as UTC.
func ParseCrimeDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range crimeDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
