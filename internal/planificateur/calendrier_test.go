package planificateur

import (
	"testing"
	"time"
)

func paris(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

func TestNextBusinessSlot(t *testing.T) {
	loc := paris(t)
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"pendant les heures ouvrées",
			time.Date(2025, 11, 18, 10, 30, 0, 0, loc), // Tuesday
			time.Date(2025, 11, 18, 10, 30, 0, 0, loc),
		},
		{
			"avant 8h",
			time.Date(2025, 11, 18, 6, 0, 0, 0, loc),
			time.Date(2025, 11, 18, 8, 0, 0, 0, loc),
		},
		{
			"après 17h",
			time.Date(2025, 11, 18, 18, 15, 0, 0, loc),
			time.Date(2025, 11, 19, 8, 0, 0, 0, loc),
		},
		{
			"samedi ouvré",
			time.Date(2025, 11, 22, 9, 0, 0, 0, loc), // Saturday
			time.Date(2025, 11, 22, 9, 0, 0, 0, loc),
		},
		{
			"samedi soir vers lundi",
			time.Date(2025, 11, 22, 19, 0, 0, 0, loc),
			time.Date(2025, 11, 24, 8, 0, 0, 0, loc), // Monday
		},
		{
			"dimanche vers lundi",
			time.Date(2025, 11, 23, 12, 0, 0, 0, loc),
			time.Date(2025, 11, 24, 8, 0, 0, 0, loc),
		},
		{
			"minuit pile",
			time.Date(2025, 11, 18, 0, 0, 0, 0, loc),
			time.Date(2025, 11, 18, 8, 0, 0, 0, loc),
		},
		{
			"17h pile bascule au lendemain",
			time.Date(2025, 11, 18, 17, 0, 0, 0, loc),
			time.Date(2025, 11, 19, 8, 0, 0, 0, loc),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextBusinessSlot(tc.in, loc)
			if !got.Equal(tc.want) {
				t.Errorf("NextBusinessSlot(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNextBusinessSlot_ConvertsToLocation(t *testing.T) {
	loc := paris(t)
	// 23:00 UTC Tuesday = 00:00 Paris Wednesday (winter): next slot Wednesday 08:00.
	in := time.Date(2025, 11, 18, 23, 0, 0, 0, time.UTC)
	want := time.Date(2025, 11, 19, 8, 0, 0, 0, loc)
	if got := NextBusinessSlot(in, loc); !got.Equal(want) {
		t.Errorf("NextBusinessSlot(%v) = %v, want %v", in, got, want)
	}
}

func TestCursor(t *testing.T) {
	c := Cursor{TaillePopulationTotale: 10, BatchSize: 4}
	if c.Termine() {
		t.Error("fresh cursor should not be done")
	}
	c = c.Avance(4)
	if c.NbTraites != 4 || c.Offset != 4 {
		t.Errorf("cursor after one page: %+v", c)
	}
	c = c.Avance(4)
	c = c.Avance(2)
	if !c.Termine() {
		t.Errorf("cursor should be done: %+v", c)
	}
	if c.NbTraites != 10 {
		t.Errorf("NbTraites: %d", c.NbTraites)
	}
}

func TestDefaultBatchSize(t *testing.T) {
	cases := []struct{ population, want int }{
		{0, 1}, {1, 1}, {3, 1}, {4, 1}, {8, 2}, {100, 25},
	}
	for _, tc := range cases {
		if got := DefaultBatchSize(tc.population); got != tc.want {
			t.Errorf("DefaultBatchSize(%d) = %d, want %d", tc.population, got, tc.want)
		}
	}
}
