package differ

import "github.com/machinekit/mkwrapper-go/internal/status"

func cmpToolTableEntry(base *status.ToolTableEntry, fresh status.ToolTableEntry) (status.ToolTableEntry, bool) {
	var d status.ToolTableEntry
	changed := false
	if v, ok := diffComparable(&base.ID, fresh.ID); ok {
		d.ID = v
		changed = true
	}
	if v, ok := diffFloat(&base.ZOffset, fresh.ZOffset); ok {
		d.ZOffset = v
		changed = true
	}
	if v, ok := diffFloat(&base.XOffset, fresh.XOffset); ok {
		d.XOffset = v
		changed = true
	}
	if v, ok := diffFloat(&base.Diameter, fresh.Diameter); ok {
		d.Diameter = v
		changed = true
	}
	if v, ok := diffFloat(&base.FrontAngle, fresh.FrontAngle); ok {
		d.FrontAngle = v
		changed = true
	}
	if v, ok := diffFloat(&base.BackAngle, fresh.BackAngle); ok {
		d.BackAngle = v
		changed = true
	}
	if v, ok := diffComparable(&base.Orientation, fresh.Orientation); ok {
		d.Orientation = v
		changed = true
	}
	return d, changed
}

func cmpDigitalIO(base *status.DigitalIO, fresh status.DigitalIO) (status.DigitalIO, bool) {
	var d status.DigitalIO
	if v, ok := diffComparable(&base.Value, fresh.Value); ok {
		d.Value = v
		return d, true
	}
	return d, false
}

func cmpAnalogIO(base *status.AnalogIO, fresh status.AnalogIO) (status.AnalogIO, bool) {
	var d status.AnalogIO
	if v, ok := diffFloat(&base.Value, fresh.Value); ok {
		d.Value = v
		return d, true
	}
	return d, false
}

// DiffIO compares a fresh io-channel poll against the stored baseline,
// seeding the baseline to zero on the first call for this channel.
func (d *Differ) DiffIO(fresh status.IO) (status.IO, bool) {
	base := &d.baseline.IO
	if d.firstRun[status.ChannelIO] {
		*base = status.IO{}
		d.firstRun[status.ChannelIO] = false
	}

	var delta status.IO
	modified := false

	if v, ok := diffComparable(&base.Estop, fresh.Estop); ok {
		delta.Estop, modified = v, true
	}
	if v, ok := diffComparable(&base.Flood, fresh.Flood); ok {
		delta.Flood, modified = v, true
	}
	if v, ok := diffComparable(&base.Lube, fresh.Lube); ok {
		delta.Lube, modified = v, true
	}
	if v, ok := diffComparable(&base.LubeLevel, fresh.LubeLevel); ok {
		delta.LubeLevel, modified = v, true
	}
	if v, ok := diffComparable(&base.Mist, fresh.Mist); ok {
		delta.Mist, modified = v, true
	}
	if v, ok := diffComparable(&base.PocketPrepped, fresh.PocketPrepped); ok {
		delta.PocketPrepped, modified = v, true
	}
	if v, ok := diffComparable(&base.ToolInSpindle, fresh.ToolInSpindle); ok {
		delta.ToolInSpindle, modified = v, true
	}

	if deltas, any := diffIndexed(&base.ToolTable, fresh.ToolTable, -1,
		func(i int) status.ToolTableEntry { return status.ToolTableEntry{Index: i, ID: status.ToolTableSentinelID} },
		func(e status.ToolTableEntry) bool { return e.ID == status.ToolTableSentinelID },
		cmpToolTableEntry,
		func(v *status.ToolTableEntry, idx int) { v.Index = idx },
	); any {
		delta.ToolTable, modified = deltas, true
	}

	if deltas, any := diffIndexed(&base.Din, fresh.Din, -1,
		func(i int) status.DigitalIO { return status.DigitalIO{Index: i} },
		nil, cmpDigitalIO,
		func(v *status.DigitalIO, idx int) { v.Index = idx },
	); any {
		delta.Din, modified = deltas, true
	}
	if deltas, any := diffIndexed(&base.Dout, fresh.Dout, -1,
		func(i int) status.DigitalIO { return status.DigitalIO{Index: i} },
		nil, cmpDigitalIO,
		func(v *status.DigitalIO, idx int) { v.Index = idx },
	); any {
		delta.Dout, modified = deltas, true
	}
	if deltas, any := diffIndexed(&base.Ain, fresh.Ain, -1,
		func(i int) status.AnalogIO { return status.AnalogIO{Index: i} },
		nil, cmpAnalogIO,
		func(v *status.AnalogIO, idx int) { v.Index = idx },
	); any {
		delta.Ain, modified = deltas, true
	}
	if deltas, any := diffIndexed(&base.Aout, fresh.Aout, -1,
		func(i int) status.AnalogIO { return status.AnalogIO{Index: i} },
		nil, cmpAnalogIO,
		func(v *status.AnalogIO, idx int) { v.Index = idx },
	); any {
		delta.Aout, modified = deltas, true
	}

	return delta, modified
}
