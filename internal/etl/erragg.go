package etl

import "log"

// errAgg aggregates repeated row-level messages: it keeps the first few
// verbatim and counts the rest, so a heavily defective extract cannot flood
// the log.
type errAgg struct {
	max   int
	first []string
	total int
}

func newErrAgg(max int) *errAgg {
	return &errAgg{max: max}
}

func (a *errAgg) add(msg string) {
	a.total++
	if len(a.first) < a.max {
		a.first = append(a.first, msg)
	}
}

func (a *errAgg) report(prefix string) {
	if a.total == 0 {
		return
	}
	for _, msg := range a.first {
		log.Printf("%s: %s", prefix, msg)
	}
	if rest := a.total - len(a.first); rest > 0 {
		log.Printf("%s: ... and %d more", prefix, rest)
	}
}
