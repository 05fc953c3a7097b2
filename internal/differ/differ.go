// Package differ implements the differential status-replication engine
// (spec.md §4.A): given a fresh runtime poll, it compares each of the five
// channels against its stored baseline and produces a delta containing only
// the fields that changed, while keeping the baseline itself up to date.
package differ

import (
	"github.com/machinekit/mkwrapper-go/internal/status"
)

// Differ owns the five channel baselines and the per-channel first-run
// flags. It is read and written exclusively by the control-loop context
// (spec.md §5); no other goroutine may touch it.
type Differ struct {
	baseline status.Snapshot
	firstRun map[status.Channel]bool
	static   status.StaticConfig
}

// New returns a Differ with all five baselines zero-initialized and every
// channel's first-run flag set. static supplies the ini-sourced config
// fields seeded into the config baseline on its first diff.
func New(static status.StaticConfig) *Differ {
	d := &Differ{static: static, firstRun: make(map[status.Channel]bool, len(status.Channels))}
	for _, ch := range status.Channels {
		d.firstRun[ch] = true
	}
	return d
}

// Baseline returns the full current state of all five channels, e.g. to
// serialize a channel's FULL_UPDATE message after DiffX has been called for
// this cycle.
func (d *Differ) Baseline() status.Snapshot { return d.baseline }

// ---- scalar diff helpers -----------------------------------------------

func diffComparable[T comparable](base *T, fresh T) (T, bool) {
	if *base != fresh {
		*base = fresh
		return fresh, true
	}
	var zero T
	return zero, false
}

func diffFloat(base *float64, fresh float64) (float64, bool) {
	d := fresh - *base
	if d < 0 {
		d = -d
	}
	if d > status.Tolerance {
		*base = fresh
		return fresh, true
	}
	return 0, false
}

func diffPosition(base *status.Position, fresh status.Position) (status.Position, bool) {
	var delta status.Position
	changed := false
	if v, ok := diffFloat(&base.X, fresh.X); ok {
		delta.X = v
		changed = true
	}
	if v, ok := diffFloat(&base.Y, fresh.Y); ok {
		delta.Y = v
		changed = true
	}
	if v, ok := diffFloat(&base.Z, fresh.Z); ok {
		delta.Z = v
		changed = true
	}
	if v, ok := diffFloat(&base.A, fresh.A); ok {
		delta.A = v
		changed = true
	}
	if v, ok := diffFloat(&base.B, fresh.B); ok {
		delta.B = v
		changed = true
	}
	if v, ok := diffFloat(&base.C, fresh.C); ok {
		delta.C = v
		changed = true
	}
	if v, ok := diffFloat(&base.U, fresh.U); ok {
		delta.U = v
		changed = true
	}
	if v, ok := diffFloat(&base.V, fresh.V); ok {
		delta.V = v
		changed = true
	}
	if v, ok := diffFloat(&base.W, fresh.W); ok {
		delta.W = v
		changed = true
	}
	return delta, changed
}

// ---- generic indexed-repeated diff -------------------------------------

// diffIndexed implements the "Indexed repeated" rule of spec.md §4.A: it
// extends baseline to cover every index touched by fresh (up to limit, or
// unbounded when limit < 0), lets sentinel entries through untouched and
// undiffed, and otherwise compares each slot field-wise via cmp, collecting
// one delta record per changed slot with its index field populated.
func diffIndexed[T any](
	baseline *[]T,
	fresh []T,
	limit int,
	zero func(index int) T,
	sentinel func(T) bool,
	cmp func(base *T, fresh T) (delta T, changed bool),
	setIndex func(v *T, idx int),
) ([]T, bool) {
	n := len(fresh)
	if limit >= 0 && limit < n {
		n = limit
	}
	var deltas []T
	any := false
	for i := 0; i < n; i++ {
		f := fresh[i]
		for len(*baseline) <= i {
			(*baseline) = append(*baseline, zero(len(*baseline)))
		}
		if sentinel != nil && sentinel(f) {
			(*baseline)[i] = f
			continue
		}
		d, changed := cmp(&(*baseline)[i], f)
		if changed {
			setIndex(&d, i)
			deltas = append(deltas, d)
			any = true
		}
	}
	return deltas, any
}

var _ = diffComparable[int]
