package differ

import "github.com/machinekit/mkwrapper-go/internal/status"

func cmpGCodeSlot(base *status.GCodeSlot, fresh status.GCodeSlot) (status.GCodeSlot, bool) {
	var d status.GCodeSlot
	if v, ok := diffComparable(&base.Value, fresh.Value); ok {
		d.Value = v
		return d, true
	}
	return d, false
}

func cmpMCodeSlot(base *status.MCodeSlot, fresh status.MCodeSlot) (status.MCodeSlot, bool) {
	var d status.MCodeSlot
	if v, ok := diffComparable(&base.Value, fresh.Value); ok {
		d.Value = v
		return d, true
	}
	return d, false
}

func cmpSettingSlot(base *status.SettingSlot, fresh status.SettingSlot) (status.SettingSlot, bool) {
	var d status.SettingSlot
	if v, ok := diffFloat(&base.Value, fresh.Value); ok {
		d.Value = v
		return d, true
	}
	return d, false
}

// DiffInterp compares a fresh interp-channel poll against the stored
// baseline.
func (d *Differ) DiffInterp(fresh status.Interp) (status.Interp, bool) {
	base := &d.baseline.Interp
	if d.firstRun[status.ChannelInterp] {
		*base = status.Interp{}
		d.firstRun[status.ChannelInterp] = false
	}

	var delta status.Interp
	modified := false

	if deltas, any := diffIndexed(&base.GCodes, fresh.GCodes, -1,
		func(i int) status.GCodeSlot { return status.GCodeSlot{Index: i} },
		nil, cmpGCodeSlot,
		func(v *status.GCodeSlot, idx int) { v.Index = idx },
	); any {
		delta.GCodes, modified = deltas, true
	}
	if deltas, any := diffIndexed(&base.MCodes, fresh.MCodes, -1,
		func(i int) status.MCodeSlot { return status.MCodeSlot{Index: i} },
		nil, cmpMCodeSlot,
		func(v *status.MCodeSlot, idx int) { v.Index = idx },
	); any {
		delta.MCodes, modified = deltas, true
	}
	if deltas, any := diffIndexed(&base.Settings, fresh.Settings, -1,
		func(i int) status.SettingSlot { return status.SettingSlot{Index: i} },
		nil, cmpSettingSlot,
		func(v *status.SettingSlot, idx int) { v.Index = idx },
	); any {
		delta.Settings, modified = deltas, true
	}
	if v, ok := diffPosition(&base.Origin, fresh.Origin); ok {
		delta.Origin, modified = v, true
	}

	return delta, modified
}
