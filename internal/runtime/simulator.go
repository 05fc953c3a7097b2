package runtime

import (
	"sync"

	"context"

	"github.com/sirupsen/logrus"

	"github.com/machinekit/mkwrapper-go/internal/status"
)

// Simulator is a trivial in-process StatPoller/Commander used when no real
// kernel binding is wired up (local development, tests, demos). It mirrors
// the teacher's api.DiplusClient in spirit: a small, self-contained stand-in
// for an external data source that the rest of the bridge doesn't need to
// know is fake. Most Commander methods mutate the in-memory snapshot so the
// effects are observable on the next Poll, matching spec.md §7's "success is
// implicit" contract; SetDebugLevel, SetSpindleOverrideScale,
// SetTeleopEnable, AbortAxis, OverrideLimits, the position-limit setters,
// SpindleIncrease/Decrease/Constant and LoadToolTable change nothing.
type Simulator struct {
	mu       sync.Mutex
	snapshot Snapshot
	errs     []ErrorEvent
	logger   *logrus.Logger
}

// NewSimulator returns a Simulator seeded with a single axis and a tool
// table holding one unused (sentinel) slot.
func NewSimulator(logger *logrus.Logger) *Simulator {
	s := &Simulator{logger: logger}
	s.snapshot.Motion.Axes = 1
	s.snapshot.Motion.Axis = []status.AxisMotion{{Index: 0}}
	s.snapshot.Config.Axes = 1
	s.snapshot.Config.Axis = []status.AxisConfig{{Index: 0}}
	s.snapshot.IO.ToolTable = []status.ToolTableEntry{{Index: 0, ID: status.ToolTableSentinelID}}
	return s
}

func (s *Simulator) Poll(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, nil
}

func (s *Simulator) PollError(ctx context.Context) (ErrorEvent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) == 0 {
		return ErrorEvent{}, false, nil
	}
	ev := s.errs[0]
	s.errs = s.errs[1:]
	return ev, true, nil
}

// PushError queues an error-channel event for the next PollError call;
// useful for tests exercising the error publisher.
func (s *Simulator) PushError(ev ErrorEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, ev)
}

func (s *Simulator) axis(index int) *status.AxisMotion {
	for i := range s.snapshot.Motion.Axis {
		if s.snapshot.Motion.Axis[i].Index == index {
			return &s.snapshot.Motion.Axis[i]
		}
	}
	return nil
}

func (s *Simulator) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Task.ExecState = 1
	return nil
}

func (s *Simulator) Auto(mode AutoMode, lineNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mode {
	case AutoPause:
		s.snapshot.Task.TaskPaused = true
	case AutoResume:
		s.snapshot.Task.TaskPaused = false
	case AutoStep:
		s.snapshot.Task.CurrentLine++
	case AutoRun:
		s.snapshot.Task.CurrentLine = lineNumber
		s.snapshot.Task.TaskPaused = false
	}
	return nil
}

func (s *Simulator) ProgramOpen(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Task.File = path
	s.snapshot.Task.CurrentLine = 0
	return nil
}

func (s *Simulator) ResetInterpreter() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Task.InterpState = 0
	return nil
}

func (s *Simulator) MDI(command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Task.Command = command
	return nil
}

func (s *Simulator) SetBlockDelete(enable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Task.BlockDelete = enable
	return nil
}

func (s *Simulator) SetOptionalStop(enable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Task.OptionalStop = enable
	return nil
}

func (s *Simulator) SetDebugLevel(level int) error { return nil }

func (s *Simulator) SetFeedrateScale(scale float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Motion.Feedrate = scale
	return nil
}

func (s *Simulator) SetMaxVelocity(velocity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Config.TrajMaxVelocity = velocity
	return nil
}

func (s *Simulator) SetFeedHoldEnable(enable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Motion.FeedHoldEnabled = enable
	return nil
}

func (s *Simulator) SetFeedOverrideEnable(enable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Motion.FeedOverrideEnabled = enable
	return nil
}

func (s *Simulator) SetSpindleOverrideEnable(enable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Motion.SpindleOverrideEnabled = enable
	return nil
}

func (s *Simulator) SetSpindleOverrideScale(scale float64) error { return nil }

func (s *Simulator) SetTrajMode(mode int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Motion.TrajMode = mode
	return nil
}

func (s *Simulator) SetTeleopEnable(enable bool) error { return nil }

func (s *Simulator) SetTeleopVector(v TeleopVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Motion.Position.X = v.A
	s.snapshot.Motion.Position.Y = v.B
	s.snapshot.Motion.Position.Z = v.C
	return nil
}

func (s *Simulator) SetAdaptiveFeed(enable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Motion.AdaptiveFeedEnabled = enable
	return nil
}

func (s *Simulator) SetAnalogOutput(index int, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.IO.Aout = setAnalog(s.snapshot.IO.Aout, index, value)
	return nil
}

func (s *Simulator) SetDigitalOutput(index int, enable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.IO.Dout = setDigital(s.snapshot.IO.Dout, index, enable)
	return nil
}

func (s *Simulator) HomeAxis(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.axis(index); a != nil {
		a.Homed = true
	}
	return nil
}

func (s *Simulator) UnhomeAxis(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.axis(index); a != nil {
		a.Homed = false
	}
	return nil
}

func (s *Simulator) AbortAxis(index int) error { return nil }

func (s *Simulator) JogContinuous(index int, velocity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.axis(index); a != nil {
		a.Velocity = velocity
	}
	return nil
}

func (s *Simulator) JogIncremental(index int, velocity, distance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.axis(index); a != nil {
		a.Velocity = velocity
		a.Position += distance
	}
	return nil
}

func (s *Simulator) OverrideLimits() error { return nil }

func (s *Simulator) SetMaxPositionLimit(index int, value float64) error { return nil }
func (s *Simulator) SetMinPositionLimit(index int, value float64) error { return nil }

func (s *Simulator) FloodOn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.IO.Flood = true
	return nil
}
func (s *Simulator) FloodOff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.IO.Flood = false
	return nil
}
func (s *Simulator) MistOn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.IO.Mist = true
	return nil
}
func (s *Simulator) MistOff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.IO.Mist = false
	return nil
}

func (s *Simulator) SpindleOn(velocity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Motion.SpindleEnabled = true
	s.snapshot.Motion.SpindleSpeed = velocity
	return nil
}
func (s *Simulator) SpindleIncrease() error { return nil }
func (s *Simulator) SpindleDecrease() error { return nil }
func (s *Simulator) SpindleConstant() error { return nil }
func (s *Simulator) SpindleOff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Motion.SpindleEnabled = false
	s.snapshot.Motion.SpindleSpeed = 0
	return nil
}

func (s *Simulator) BrakeEngage() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Motion.SpindleBrake = true
	return nil
}
func (s *Simulator) BrakeRelease() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Motion.SpindleBrake = false
	return nil
}

func (s *Simulator) SetTaskMode(mode int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Task.TaskMode = mode
	return nil
}
func (s *Simulator) SetTaskState(state int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Task.TaskState = state
	return nil
}

func (s *Simulator) LoadToolTable() error { return nil }

func (s *Simulator) SetToolOffset(o ToolOffset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snapshot.IO.ToolTable {
		if s.snapshot.IO.ToolTable[i].Index == o.Index {
			s.snapshot.IO.ToolTable[i].ZOffset = o.ZOffset
			s.snapshot.IO.ToolTable[i].XOffset = o.XOffset
			s.snapshot.IO.ToolTable[i].Diameter = o.Diameter
			s.snapshot.IO.ToolTable[i].FrontAngle = o.FrontAngle
			s.snapshot.IO.ToolTable[i].BackAngle = o.BackAngle
			s.snapshot.IO.ToolTable[i].Orientation = o.Orientation
			return nil
		}
	}
	s.snapshot.IO.ToolTable = append(s.snapshot.IO.ToolTable, status.ToolTableEntry{
		Index: o.Index, ZOffset: o.ZOffset, XOffset: o.XOffset, Diameter: o.Diameter,
		FrontAngle: o.FrontAngle, BackAngle: o.BackAngle, Orientation: o.Orientation,
	})
	return nil
}

func setAnalog(slots []status.AnalogIO, index int, value float64) []status.AnalogIO {
	for i := range slots {
		if slots[i].Index == index {
			slots[i].Value = value
			return slots
		}
	}
	return append(slots, status.AnalogIO{Index: index, Value: value})
}

func setDigital(slots []status.DigitalIO, index int, value bool) []status.DigitalIO {
	for i := range slots {
		if slots[i].Index == index {
			slots[i].Value = value
			return slots
		}
	}
	return append(slots, status.DigitalIO{Index: index, Value: value})
}

var _ Commander = (*Simulator)(nil)
var _ StatPoller = (*Simulator)(nil)
