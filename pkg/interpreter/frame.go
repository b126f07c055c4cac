package interpreter

import "smallbasic/pkg/emitter"

// Frame is one active module: the main program, a called submodule or an
// event callback.
type Frame struct {
	Module       string                // submodule name, empty for the main module
	Instructions []emitter.Instruction // instructions of the module
	IP           int                   // index of the next instruction
}

// Name returns the module name for display
func (f *Frame) Name() string {
	if f.Module == "" {
		return "<main>"
	}

	return f.Module
}
