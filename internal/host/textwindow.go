package host

import (
	"fmt"

	"smallbasic/pkg/color"
	"smallbasic/pkg/libraries"
	"smallbasic/pkg/value"
)

func (c *Console) textWindowLibrary() *libraries.Library {
	return &libraries.Library{
		Name:        "TextWindow",
		Description: "The console the program writes to and reads from.",
		Methods: []*libraries.Method{
			{
				Name:        "WriteLine",
				Description: "Writes text followed by a new line.",
				Parameters:  params("data"),
				Execute: func(call libraries.Call) libraries.Result {
					c.write(call.Arg(0).ToString() + "\n")
					return libraries.Done()
				},
			},
			{
				Name:        "Write",
				Description: "Writes text without a new line.",
				Parameters:  params("data"),
				Execute: func(call libraries.Call) libraries.Result {
					c.write(call.Arg(0).ToString())
					return libraries.Done()
				},
			},
			{
				Name:         "Read",
				Description:  "Waits for a line of text.",
				ReturnsValue: true,
				Intrinsic:    true,
			},
			{
				Name:         "ReadNumber",
				Description:  "Waits for a number.",
				ReturnsValue: true,
				Intrinsic:    true,
			},
		},
		Properties: []*libraries.Property{
			{
				Name:        "ForegroundColor",
				Description: "The color of text written from now on.",
				Getter: func(libraries.Call) libraries.Result {
					return libraries.Ready(value.NewString(c.foreground))
				},
				Setter: func(call libraries.Call) libraries.Result {
					name := call.Arg(0).ToString()
					if _, ok := color.Named(name); !ok {
						c.logger.Warn("unknown console color", "color", name)
						return libraries.Done()
					}

					c.foreground = name
					return libraries.Done()
				},
			},
			{
				Name:        "Title",
				Description: "The title of the console window.",
				Getter: func(libraries.Call) libraries.Result {
					return libraries.Ready(value.NewString(c.title))
				},
				Setter: func(call libraries.Call) libraries.Result {
					c.title = call.Arg(0).ToString()
					color.SetTitle(c.title)
					return libraries.Done()
				},
			},
		},
	}
}

func (c *Console) write(text string) {
	if fg, ok := color.Named(c.foreground); ok {
		text = color.Paint(fg, text)
	}

	if _, err := fmt.Fprint(c.out, text); err != nil {
		c.logger.Error("cannot write program output", "err", err)
	}
}
