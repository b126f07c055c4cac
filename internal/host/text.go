package host

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"smallbasic/pkg/libraries"
	"smallbasic/pkg/value"
)

func (c *Console) textLibrary() *libraries.Library {
	returning := func(name string, args []libraries.Parameter, thunk libraries.Thunk) *libraries.Method {
		return &libraries.Method{Name: name, Parameters: args, ReturnsValue: true, Execute: thunk}
	}

	return &libraries.Library{
		Name:        "Text",
		Description: "Operations on text.",
		Methods: []*libraries.Method{
			returning("Append", params("text1", "text2"), func(call libraries.Call) libraries.Result {
				return libraries.Ready(value.NewString(call.Arg(0).ToString() + call.Arg(1).ToString()))
			}),
			returning("GetLength", params("text"), func(call libraries.Call) libraries.Result {
				return libraries.Ready(value.NewNumber(int64(len([]rune(call.Arg(0).ToString())))))
			}),
			returning("GetSubText", params("text", "start", "length"), getSubText),
			returning("IsSubText", params("text", "subText"), func(call libraries.Call) libraries.Result {
				return libraries.Ready(value.NewBoolean(strings.Contains(call.Arg(0).ToString(), call.Arg(1).ToString())))
			}),
			returning("ConvertToUpperCase", params("text"), func(call libraries.Call) libraries.Result {
				return libraries.Ready(value.NewString(cases.Upper(language.Und).String(call.Arg(0).ToString())))
			}),
			returning("ConvertToLowerCase", params("text"), func(call libraries.Call) libraries.Result {
				return libraries.Ready(value.NewString(cases.Lower(language.Und).String(call.Arg(0).ToString())))
			}),
		},
	}
}

// getSubText counts runes from 1. Out of range requests are clipped.
func getSubText(call libraries.Call) libraries.Result {
	text := []rune(call.Arg(0).ToString())
	start, ok := value.ToInt(call.Arg(1))
	if !ok || start < 1 || start > len(text) {
		return libraries.Ready(value.Empty)
	}

	length, ok := value.ToInt(call.Arg(2))
	if !ok || length <= 0 {
		return libraries.Ready(value.Empty)
	}

	end := min(start-1+length, len(text))
	return libraries.Ready(value.NewString(string(text[start-1 : end])))
}
