package navigator

import (
	"fmt"
	"math"
)

// Marker is the per-section state shown in the progress row.
type Marker int

const (
	Pending Marker = iota
	Active
	Completed
)

func (m Marker) String() string {
	switch m {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "pending"
	}
}

// MarshalText lets reports serialize markers by name.
func (m Marker) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a marker name written by MarshalText.
func (m *Marker) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pending":
		*m = Pending
	case "active":
		*m = Active
	case "completed":
		*m = Completed
	default:
		return fmt.Errorf("navigator: unknown marker %q", text)
	}
	return nil
}

// Report is the derived progress view.
type Report struct {
	Current int      `json:"current"`
	Total   int      `json:"total"`
	Percent int      `json:"percent"`
	Markers []Marker `json:"markers"`
}

// Progress computes the report for current out of total. Inputs are clamped
// so total is at least one and current lies in [1, total].
func Progress(current, total int) Report {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	markers := make([]Marker, total)
	for i := range markers {
		switch section := i + 1; {
		case section < current:
			markers[i] = Completed
		case section == current:
			markers[i] = Active
		default:
			markers[i] = Pending
		}
	}
	return Report{
		Current: current,
		Total:   total,
		Percent: int(math.Round(float64(current) / float64(total) * 100)),
		Markers: markers,
	}
}
