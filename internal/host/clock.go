package host

import (
	"smallbasic/pkg/libraries"
	"smallbasic/pkg/value"
)

func (c *Console) clockLibrary() *libraries.Library {
	field := func(name string, get func() int64) *libraries.Property {
		return &libraries.Property{
			Name: name,
			Getter: func(libraries.Call) libraries.Result {
				return libraries.Ready(value.NewNumber(get()))
			},
		}
	}

	return &libraries.Library{
		Name:        "Clock",
		Description: "The current date and time.",
		Properties: []*libraries.Property{
			field("Year", func() int64 { return int64(c.now().Year()) }),
			field("Month", func() int64 { return int64(c.now().Month()) }),
			field("Day", func() int64 { return int64(c.now().Day()) }),
			field("Hour", func() int64 { return int64(c.now().Hour()) }),
			field("Minute", func() int64 { return int64(c.now().Minute()) }),
			field("Second", func() int64 { return int64(c.now().Second()) }),
			field("ElapsedMilliseconds", func() int64 { return c.now().Sub(c.started).Milliseconds() }),
		},
	}
}
