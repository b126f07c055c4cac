package host

import (
	"time"

	"smallbasic/pkg/libraries"
	"smallbasic/pkg/value"
)

func (c *Console) programLibrary() *libraries.Library {
	return &libraries.Library{
		Name:        "Program",
		Description: "Controls the running program.",
		Methods: []*libraries.Method{
			{Name: "Pause", Description: "Pauses the program until it is resumed.", Intrinsic: true},
			{Name: "End", Description: "Ends the program.", Intrinsic: true},
			{
				Name:        "Delay",
				Description: "Waits for the given number of milliseconds.",
				Parameters:  params("milliseconds"),
				Execute:     c.delay,
			},
			{
				Name:         "GetArgument",
				Description:  "Returns the command line argument at a 1-based index.",
				Parameters:   params("index"),
				ReturnsValue: true,
				Execute: func(call libraries.Call) libraries.Result {
					i, ok := value.ToInt(call.Arg(0))
					if !ok || i < 1 || i > len(c.args) {
						return libraries.Ready(value.Empty)
					}

					return libraries.Ready(value.FromString(c.args[i-1]))
				},
			},
		},
		Properties: []*libraries.Property{
			{
				Name:        "ArgumentCount",
				Description: "The number of command line arguments.",
				Getter: func(libraries.Call) libraries.Result {
					return libraries.Ready(value.NewNumber(int64(len(c.args))))
				},
			},
			{
				Name:         "Directory",
				Description:  "The directory the program was started from.",
				NeedsDesktop: true,
				Getter: func(libraries.Call) libraries.Result {
					return libraries.Ready(value.NewString(c.dir))
				},
			},
		},
	}
}

// delay completes from a timer goroutine; the engine waits on the future
func (c *Console) delay(call libraries.Call) libraries.Result {
	ms, ok := value.ToInt(call.Arg(0))
	if !ok || ms <= 0 {
		return libraries.Done()
	}

	f := libraries.NewFuture()
	time.AfterFunc(time.Duration(ms)*time.Millisecond, func() {
		f.Complete(value.Empty)
	})

	return libraries.Pending(f)
}
