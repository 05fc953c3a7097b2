package differ

import "github.com/machinekit/mkwrapper-go/internal/status"

func cmpAxisMotion(base *status.AxisMotion, fresh status.AxisMotion) (status.AxisMotion, bool) {
	var d status.AxisMotion
	changed := false
	if v, ok := diffFloat(&base.Position, fresh.Position); ok {
		d.Position, changed = v, true
	}
	if v, ok := diffFloat(&base.Velocity, fresh.Velocity); ok {
		d.Velocity, changed = v, true
	}
	if v, ok := diffComparable(&base.Homed, fresh.Homed); ok {
		d.Homed, changed = v, true
	}
	if v, ok := diffComparable(&base.Fault, fresh.Fault); ok {
		d.Fault, changed = v, true
	}
	if v, ok := diffComparable(&base.MinSoftLimit, fresh.MinSoftLimit); ok {
		d.MinSoftLimit, changed = v, true
	}
	if v, ok := diffComparable(&base.MaxSoftLimit, fresh.MaxSoftLimit); ok {
		d.MaxSoftLimit, changed = v, true
	}
	if v, ok := diffComparable(&base.MinHardLimit, fresh.MinHardLimit); ok {
		d.MinHardLimit, changed = v, true
	}
	if v, ok := diffComparable(&base.MaxHardLimit, fresh.MaxHardLimit); ok {
		d.MaxHardLimit, changed = v, true
	}
	if v, ok := diffComparable(&base.OverrideLimits, fresh.OverrideLimits); ok {
		d.OverrideLimits, changed = v, true
	}
	return d, changed
}

// DiffMotion compares a fresh motion-channel poll against the stored
// baseline. Only the first fresh.Axes entries of the axis array are ever
// diffed, per spec.md §4.A's "Axis arrays" rule.
func (d *Differ) DiffMotion(fresh status.Motion) (status.Motion, bool) {
	base := &d.baseline.Motion
	if d.firstRun[status.ChannelMotion] {
		*base = status.Motion{}
		d.firstRun[status.ChannelMotion] = false
	}

	var delta status.Motion
	modified := false

	if v, ok := diffComparable(&base.Enabled, fresh.Enabled); ok {
		delta.Enabled, modified = v, true
	}
	if v, ok := diffComparable(&base.InPos, fresh.InPos); ok {
		delta.InPos, modified = v, true
	}
	if v, ok := diffFloat(&base.Feedrate, fresh.Feedrate); ok {
		delta.Feedrate, modified = v, true
	}
	if v, ok := diffComparable(&base.TrajMode, fresh.TrajMode); ok {
		delta.TrajMode, modified = v, true
	}
	if v, ok := diffPosition(&base.Position, fresh.Position); ok {
		delta.Position, modified = v, true
	}
	if v, ok := diffPosition(&base.ActualPosition, fresh.ActualPosition); ok {
		delta.ActualPosition, modified = v, true
	}
	if v, ok := diffFloat(&base.Velocity, fresh.Velocity); ok {
		delta.Velocity, modified = v, true
	}
	if v, ok := diffFloat(&base.Acceleration, fresh.Acceleration); ok {
		delta.Acceleration, modified = v, true
	}
	if v, ok := diffComparable(&base.Queue, fresh.Queue); ok {
		delta.Queue, modified = v, true
	}
	if v, ok := diffComparable(&base.ActiveQueue, fresh.ActiveQueue); ok {
		delta.ActiveQueue, modified = v, true
	}
	if v, ok := diffComparable(&base.FeedHoldEnabled, fresh.FeedHoldEnabled); ok {
		delta.FeedHoldEnabled, modified = v, true
	}
	if v, ok := diffComparable(&base.FeedOverrideEnabled, fresh.FeedOverrideEnabled); ok {
		delta.FeedOverrideEnabled, modified = v, true
	}
	if v, ok := diffComparable(&base.SpindleOverrideEnabled, fresh.SpindleOverrideEnabled); ok {
		delta.SpindleOverrideEnabled, modified = v, true
	}
	if v, ok := diffComparable(&base.AdaptiveFeedEnabled, fresh.AdaptiveFeedEnabled); ok {
		delta.AdaptiveFeedEnabled, modified = v, true
	}
	if v, ok := diffComparable(&base.SpindleEnabled, fresh.SpindleEnabled); ok {
		delta.SpindleEnabled, modified = v, true
	}
	if v, ok := diffFloat(&base.SpindleSpeed, fresh.SpindleSpeed); ok {
		delta.SpindleSpeed, modified = v, true
	}
	if v, ok := diffComparable(&base.SpindleBrake, fresh.SpindleBrake); ok {
		delta.SpindleBrake, modified = v, true
	}
	if v, ok := diffComparable(&base.SpindleDirection, fresh.SpindleDirection); ok {
		delta.SpindleDirection, modified = v, true
	}
	if v, ok := diffComparable(&base.Axes, fresh.Axes); ok {
		delta.Axes, modified = v, true
	}

	if deltas, any := diffIndexed(&base.Axis, fresh.Axis, fresh.Axes,
		func(i int) status.AxisMotion { return status.AxisMotion{Index: i} },
		nil, cmpAxisMotion,
		func(v *status.AxisMotion, idx int) { v.Index = idx },
	); any {
		delta.Axis, modified = deltas, true
	}

	return delta, modified
}
