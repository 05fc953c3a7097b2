package differ

import "github.com/machinekit/mkwrapper-go/internal/status"

// DiffTask compares a fresh task-channel poll against the stored baseline.
func (d *Differ) DiffTask(fresh status.Task) (status.Task, bool) {
	base := &d.baseline.Task
	if d.firstRun[status.ChannelTask] {
		*base = status.Task{}
		d.firstRun[status.ChannelTask] = false
	}

	var delta status.Task
	modified := false

	if v, ok := diffComparable(&base.TaskMode, fresh.TaskMode); ok {
		delta.TaskMode, modified = v, true
	}
	if v, ok := diffComparable(&base.TaskState, fresh.TaskState); ok {
		delta.TaskState, modified = v, true
	}
	if v, ok := diffComparable(&base.ExecState, fresh.ExecState); ok {
		delta.ExecState, modified = v, true
	}
	if v, ok := diffComparable(&base.InterpState, fresh.InterpState); ok {
		delta.InterpState, modified = v, true
	}
	if v, ok := diffComparable(&base.CallLevel, fresh.CallLevel); ok {
		delta.CallLevel, modified = v, true
	}
	if v, ok := diffComparable(&base.CurrentLine, fresh.CurrentLine); ok {
		delta.CurrentLine, modified = v, true
	}
	if v, ok := diffComparable(&base.ReadLine, fresh.ReadLine); ok {
		delta.ReadLine, modified = v, true
	}
	if v, ok := diffComparable(&base.File, fresh.File); ok {
		delta.File, modified = v, true
	}
	if v, ok := diffComparable(&base.Command, fresh.Command); ok {
		delta.Command, modified = v, true
	}
	if v, ok := diffComparable(&base.TaskPaused, fresh.TaskPaused); ok {
		delta.TaskPaused, modified = v, true
	}
	if v, ok := diffComparable(&base.OptionalStop, fresh.OptionalStop); ok {
		delta.OptionalStop, modified = v, true
	}
	if v, ok := diffComparable(&base.BlockDelete, fresh.BlockDelete); ok {
		delta.BlockDelete, modified = v, true
	}
	if v, ok := diffComparable(&base.InputTimeout, fresh.InputTimeout); ok {
		delta.InputTimeout, modified = v, true
	}

	return delta, modified
}
