// Package navigator tracks which questionnaire section is on screen and
// derives the progress readout from it.
package navigator

// Navigator is a linear cursor over sections 1..total.
type Navigator struct {
	current int
	total   int
}

// New returns a navigator positioned on the first of total sections. A total
// below one is treated as a single section.
func New(total int) *Navigator {
	if total < 1 {
		total = 1
	}
	return &Navigator{current: 1, total: total}
}

// Current returns the 1-based section on screen.
func (n *Navigator) Current() int { return n.current }

// Total returns the number of sections.
func (n *Navigator) Total() int { return n.total }

// Next advances one section. It reports false on the last section.
func (n *Navigator) Next() bool {
	if n.current >= n.total {
		return false
	}
	n.current++
	return true
}

// Previous steps back one section. It reports false on the first section.
func (n *Navigator) Previous() bool {
	if n.current <= 1 {
		return false
	}
	n.current--
	return true
}

// JumpTo moves straight to section target. Out-of-range targets are ignored.
func (n *Navigator) JumpTo(target int) bool {
	if target < 1 || target > n.total {
		return false
	}
	n.current = target
	return true
}

// Reset returns to the first section.
func (n *Navigator) Reset() {
	n.current = 1
}

// IsFirst reports whether Previous has nowhere to go.
func (n *Navigator) IsFirst() bool { return n.current == 1 }

// IsLast reports whether the submit step is on screen.
func (n *Navigator) IsLast() bool { return n.current == n.total }

// Progress derives the current report.
func (n *Navigator) Progress() Report {
	return Progress(n.current, n.total)
}
