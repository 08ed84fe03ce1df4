package models

import "testing"

func TestParseLocation(t *testing.T) {
	c, ok := ParseLocation("-15.83, -47.93")
	if !ok {
		t.Fatal("expected location to parse")
	}
	if c.Lat != -15.83 || c.Lng != -47.93 {
		t.Fatalf("got %+v, want [-15.83, -47.93]", c)
	}

	for _, in := range []string{"invalid", "", "-15.83", "1, 2, 3", "95.0, 10.0", "10.0, 190.0"} {
		if _, ok := ParseLocation(in); ok {
			t.Errorf("ParseLocation(%q) should fail", in)
		}
	}

	c, ok = ParseLocation("Lat: -22.9 Lng: -47.06")
	if !ok || c.Lat != -22.9 || c.Lng != -47.06 {
		t.Fatalf("labelled location: got %+v, %v", c, ok)
	}
}

func TestParseCrimeDate(t *testing.T) {
	cases := []struct {
		in   string
		year int
		ok   bool
	}{
		{"2023-05-10T14:30:00Z", 2023, true},
		{"2022-01-01T00:00:00.123-03:00", 2022, true},
		{"2021-12-31T23:59:59", 2021, true},
		{"2021-12-31T23:59:59.1234567", 2021, true},
		{"2020-02-29", 2020, true},
		{"15/08/2019", 2019, true},
		{"", 0, false},
		{"yesterday", 0, false},
	}
	for _, tc := range cases {
		r := Report{CrimeDate: tc.in}
		year, ok := r.IncidentYear()
		if ok != tc.ok || year != tc.year {
			t.Errorf("IncidentYear(%q) = %d, %v; want %d, %v", tc.in, year, ok, tc.year, tc.ok)
		}
	}
}
