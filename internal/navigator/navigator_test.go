package navigator

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNextPreviousBoundaries(t *testing.T) {
	nav := New(13)
	if nav.Previous() {
		t.Fatalf("previous on first section should be a no-op")
	}
	if !nav.IsFirst() || nav.Current() != 1 {
		t.Fatalf("current = %d, want 1", nav.Current())
	}
	for i := 0; i < 20; i++ {
		nav.Next()
	}
	if nav.Current() != 13 || !nav.IsLast() {
		t.Fatalf("current = %d, want 13", nav.Current())
	}
	if nav.Next() {
		t.Fatalf("next on last section should be a no-op")
	}
}

func TestNextThenPreviousRoundTrips(t *testing.T) {
	for start := 1; start < 13; start++ {
		nav := New(13)
		nav.JumpTo(start)
		nav.Next()
		nav.Previous()
		if nav.Current() != start {
			t.Fatalf("round trip from %d landed on %d", start, nav.Current())
		}
	}
}

func TestJumpToOutOfRangeIgnored(t *testing.T) {
	nav := New(13)
	nav.JumpTo(5)
	for _, target := range []int{0, -1, 14, 100} {
		if nav.JumpTo(target) {
			t.Fatalf("jump to %d should be rejected", target)
		}
		if nav.Current() != 5 {
			t.Fatalf("jump to %d moved cursor to %d", target, nav.Current())
		}
	}
	if !nav.JumpTo(13) || nav.Current() != 13 {
		t.Fatalf("jump to 13 failed")
	}
}

func TestProgressPercent(t *testing.T) {
	cases := []struct {
		current, total, want int
	}{
		{1, 13, 8},
		{2, 13, 15},
		{7, 13, 54},
		{13, 13, 100},
		{1, 2, 50},
	}
	for _, tc := range cases {
		if got := Progress(tc.current, tc.total).Percent; got != tc.want {
			t.Fatalf("Progress(%d,%d) = %d%%, want %d%%", tc.current, tc.total, got, tc.want)
		}
	}
}

func TestProgressMarkers(t *testing.T) {
	report := Progress(3, 5)
	want := []Marker{Completed, Completed, Active, Pending, Pending}
	for i, m := range report.Markers {
		if m != want[i] {
			t.Fatalf("marker %d = %s, want %s", i+1, m, want[i])
		}
	}
}

func TestProgressClampsInputs(t *testing.T) {
	report := Progress(40, 13)
	if report.Current != 13 || report.Percent != 100 {
		t.Fatalf("clamped report = %+v", report)
	}
	report = Progress(0, 0)
	if report.Current != 1 || report.Total != 1 || len(report.Markers) != 1 {
		t.Fatalf("clamped report = %+v", report)
	}
}

func TestReportJSONUsesMarkerNames(t *testing.T) {
	raw, err := json.Marshal(New(3).Progress())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"markers":["active","pending","pending"]`) {
		t.Fatalf("unexpected json %s", raw)
	}
}

func TestReportJSONDecodesBack(t *testing.T) {
	want := Progress(5, 13)
	raw, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Report
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Current != want.Current || got.Percent != want.Percent || len(got.Markers) != len(want.Markers) {
		t.Fatalf("decoded %+v, want %+v", got, want)
	}
	for i := range want.Markers {
		if got.Markers[i] != want.Markers[i] {
			t.Fatalf("marker %d = %s, want %s", i, got.Markers[i], want.Markers[i])
		}
	}
	var m Marker
	if err := json.Unmarshal([]byte(`"done"`), &m); err == nil {
		t.Fatalf("unknown marker name should be rejected")
	}
}
