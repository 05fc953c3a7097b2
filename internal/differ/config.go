package differ

import "github.com/machinekit/mkwrapper-go/internal/status"

func cmpAxisConfig(base *status.AxisConfig, fresh status.AxisConfig) (status.AxisConfig, bool) {
	var d status.AxisConfig
	changed := false
	if v, ok := diffFloat(&base.MinPositionLimit, fresh.MinPositionLimit); ok {
		d.MinPositionLimit, changed = v, true
	}
	if v, ok := diffFloat(&base.MaxPositionLimit, fresh.MaxPositionLimit); ok {
		d.MaxPositionLimit, changed = v, true
	}
	if v, ok := diffFloat(&base.MaxVelocity, fresh.MaxVelocity); ok {
		d.MaxVelocity, changed = v, true
	}
	if v, ok := diffFloat(&base.MaxAcceleration, fresh.MaxAcceleration); ok {
		d.MaxAcceleration, changed = v, true
	}
	if v, ok := diffFloat(&base.Home, fresh.Home); ok {
		d.Home, changed = v, true
	}
	if v, ok := diffFloat(&base.HomeOffset, fresh.HomeOffset); ok {
		d.HomeOffset, changed = v, true
	}
	if v, ok := diffComparable(&base.HomeSequence, fresh.HomeSequence); ok {
		d.HomeSequence, changed = v, true
	}
	if v, ok := diffFloat(&base.Backlash, fresh.Backlash); ok {
		d.Backlash, changed = v, true
	}
	return d, changed
}

// DiffConfig compares a fresh config-channel poll against the stored
// baseline. fresh carries only the dynamic per-cycle subset (Axes, Axis,
// TrajMaxVelocity, TrajMaxAcceleration); the ini-sourced static fields
// (spec.md §4.A "Config-only static fields") are read from d.static and
// merged into the baseline — and into the emitted delta — exactly once, on
// the first config diff. They are never re-read afterward, even if the ini
// values would later differ from the baseline.
func (d *Differ) DiffConfig(fresh status.Config) (status.Config, bool) {
	base := &d.baseline.Config

	var delta status.Config
	modified := false

	if d.firstRun[status.ChannelConfig] {
		*base = status.Config{}
		base.DefaultVelocity = d.static.DefaultVelocity
		base.DefaultAcceleration = d.static.DefaultAcceleration
		base.FeedOverrideMax = d.static.FeedOverrideMax
		base.SpindleOverrideMax = d.static.SpindleOverrideMax
		base.Increments = d.static.Increments
		base.Grids = d.static.Grids
		base.Lathe = d.static.Lathe
		base.Geometry = d.static.Geometry
		base.ArcDivision = d.static.ArcDivision
		base.NoForceHoming = d.static.NoForceHoming
		base.ProgramExtensions = append([]string(nil), d.static.ProgramExtensions...)
		base.PositionOffset = d.static.PositionOffset
		base.PositionFeedback = d.static.PositionFeedback

		delta.DefaultVelocity = base.DefaultVelocity
		delta.DefaultAcceleration = base.DefaultAcceleration
		delta.FeedOverrideMax = base.FeedOverrideMax
		delta.SpindleOverrideMax = base.SpindleOverrideMax
		delta.Increments = base.Increments
		delta.Grids = base.Grids
		delta.Lathe = base.Lathe
		delta.Geometry = base.Geometry
		delta.ArcDivision = base.ArcDivision
		delta.NoForceHoming = base.NoForceHoming
		delta.ProgramExtensions = base.ProgramExtensions
		delta.PositionOffset = base.PositionOffset
		delta.PositionFeedback = base.PositionFeedback
		modified = true

		d.firstRun[status.ChannelConfig] = false
	}

	if v, ok := diffComparable(&base.Axes, fresh.Axes); ok {
		delta.Axes, modified = v, true
	}
	if v, ok := diffFloat(&base.TrajMaxVelocity, fresh.TrajMaxVelocity); ok {
		delta.TrajMaxVelocity, modified = v, true
	}
	if v, ok := diffFloat(&base.TrajMaxAcceleration, fresh.TrajMaxAcceleration); ok {
		delta.TrajMaxAcceleration, modified = v, true
	}

	if deltas, any := diffIndexed(&base.Axis, fresh.Axis, fresh.Axes,
		func(i int) status.AxisConfig { return status.AxisConfig{Index: i} },
		nil, cmpAxisConfig,
		func(v *status.AxisConfig, idx int) { v.Index = idx },
	); any {
		delta.Axis, modified = deltas, true
	}

	return delta, modified
}
