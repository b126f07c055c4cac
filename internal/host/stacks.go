package host

import (
	"smallbasic/pkg/libraries"
	"smallbasic/pkg/stack"
	"smallbasic/pkg/value"
)

func (c *Console) namedStack(name string) *stack.Stack[value.Value] {
	s, ok := c.stacks[name]
	if !ok {
		s = stack.NewStack[value.Value]()
		c.stacks[name] = s
	}

	return s
}

func (c *Console) stackLibrary() *libraries.Library {
	return &libraries.Library{
		Name:        "Stack",
		Description: "Named last-in first-out stacks of values.",
		Methods: []*libraries.Method{
			{
				Name:       "PushValue",
				Parameters: params("stackName", "value"),
				Execute: func(call libraries.Call) libraries.Result {
					c.namedStack(call.Arg(0).ToString()).Push(call.Arg(1))
					return libraries.Done()
				},
			},
			{
				Name:         "PopValue",
				Parameters:   params("stackName"),
				ReturnsValue: true,
				Execute: func(call libraries.Call) libraries.Result {
					s := c.namedStack(call.Arg(0).ToString())
					if s.Size() == 0 {
						return libraries.Ready(value.Empty)
					}

					return libraries.Ready(s.Pop())
				},
			},
			{
				Name:         "GetCount",
				Parameters:   params("stackName"),
				ReturnsValue: true,
				Execute: func(call libraries.Call) libraries.Result {
					return libraries.Ready(value.NewNumber(int64(c.namedStack(call.Arg(0).ToString()).Size())))
				},
			},
		},
	}
}
