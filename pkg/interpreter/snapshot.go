package interpreter

import "sort"

type FrameSnapshot struct {
	Module string
	IP     int
	Line   int // source line of the next instruction, 0 when unknown
}

// DebuggerSnapshot is what a stepping UI shows at a pause point
type DebuggerSnapshot struct {
	Status      Status
	CurrentLine int
	Frames      []FrameSnapshot // outermost first
	Memory      []Variable      // sorted by name
}

type Variable struct {
	Name  string
	Value string
}

// Snapshot captures the execution stack and memory. It does not change
// the interpreter.
func (i *Interpreter) Snapshot() DebuggerSnapshot {
	s := DebuggerSnapshot{Status: i.status}

	for _, f := range i.frames.Array() {
		s.Frames = append(s.Frames, FrameSnapshot{Module: f.Name(), IP: f.IP, Line: f.line()})
	}
	if n := len(s.Frames); n > 0 {
		s.CurrentLine = s.Frames[n-1].Line
	}

	for name, v := range i.memory {
		s.Memory = append(s.Memory, Variable{Name: name, Value: v.ToString()})
	}
	sort.Slice(s.Memory, func(a, b int) bool { return s.Memory[a].Name < s.Memory[b].Name })

	return s
}

// line returns the line of the next instruction, or of the last one once
// the frame is exhausted
func (f *Frame) line() int {
	switch {
	case len(f.Instructions) == 0:
		return 0
	case f.IP < len(f.Instructions):
		return f.Instructions[f.IP].Range().Start.Line
	default:
		return f.Instructions[len(f.Instructions)-1].Range().Start.Line
	}
}
