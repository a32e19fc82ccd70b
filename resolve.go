package richtext

import (
	"slices"
)

// StyleRun is a maximal byte range styled by a single resolved style.
type StyleRun struct {
	// Start and End are byte offsets into the text.
	Start, End int

	// Style indexes the layout's resolved style table.
	Style int
}

// styleSpan is one ranged partial style as fed to a builder. Spans keep
// their application order; later spans win per property.
type styleSpan struct {
	start, end int
	props      []Property
}

// resolveSpans sweeps the span boundaries over [0,textLen) and produces
// the deduplicated style table plus the disjoint style runs covering the
// whole text. Adjacent runs with identical styles are coalesced.
func resolveSpans(base Style, spans []styleSpan, textLen int) ([]Style, []StyleRun) {
	if textLen == 0 {
		return []Style{base}, []StyleRun{{Start: 0, End: 0, Style: 0}}
	}

	// Collect the unique boundary offsets.
	bounds := make([]int, 0, 2+2*len(spans))
	bounds = append(bounds, 0, textLen)
	for _, sp := range spans {
		if sp.start > 0 && sp.start < textLen {
			bounds = append(bounds, sp.start)
		}
		if sp.end > 0 && sp.end < textLen {
			bounds = append(bounds, sp.end)
		}
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	styles := make([]Style, 0, 4)
	runs := make([]StyleRun, 0, 4)

	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]

		resolved := base
		for _, sp := range spans {
			if sp.start <= start && end <= sp.end {
				for _, prop := range sp.props {
					prop(&resolved)
				}
			}
		}

		idx := -1
		for si := range styles {
			if styles[si].Equal(resolved) {
				idx = si
				break
			}
		}
		if idx < 0 {
			idx = len(styles)
			styles = append(styles, resolved)
		}

		if n := len(runs); n > 0 && runs[n-1].Style == idx && runs[n-1].End == start {
			runs[n-1].End = end
			continue
		}
		runs = append(runs, StyleRun{Start: start, End: end, Style: idx})
	}

	return styles, runs
}

// styleRunAt returns the index within runs of the run containing the byte
// offset. Runs tile the text, so this only fails for out-of-range offsets,
// which clamp to the last run.
func styleRunAt(runs []StyleRun, offset int) int {
	for i := range runs {
		if offset < runs[i].End {
			return i
		}
	}
	return len(runs) - 1
}
