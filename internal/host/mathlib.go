package host

import (
	"github.com/cockroachdb/apd/v3"

	"smallbasic/pkg/libraries"
	"smallbasic/pkg/value"
)

const pi = "3.1415926535897932384626433833"

// unary wraps a decimal operation of one argument. Failures yield 0.
func unary(op func(d, x *apd.Decimal) (apd.Condition, error)) libraries.Thunk {
	return func(call libraries.Call) libraries.Result {
		var d apd.Decimal
		if _, err := op(&d, call.Arg(0).ToNumber()); err != nil {
			return libraries.Ready(value.NewNumber(0))
		}

		return libraries.Ready(value.NewDecimal(&d))
	}
}

func binary(op func(d, x, y *apd.Decimal) (apd.Condition, error)) libraries.Thunk {
	return func(call libraries.Call) libraries.Result {
		var d apd.Decimal
		if _, err := op(&d, call.Arg(0).ToNumber(), call.Arg(1).ToNumber()); err != nil {
			return libraries.Ready(value.NewNumber(0))
		}

		return libraries.Ready(value.NewDecimal(&d))
	}
}

func (c *Console) mathLibrary() *libraries.Library {
	ctx := value.Arithmetic()

	function := func(name, description string, args []libraries.Parameter, thunk libraries.Thunk) *libraries.Method {
		return &libraries.Method{
			Name:         name,
			Description:  description,
			Parameters:   args,
			ReturnsValue: true,
			Execute:      thunk,
		}
	}

	return &libraries.Library{
		Name:        "Math",
		Description: "Decimal arithmetic functions.",
		Methods: []*libraries.Method{
			function("Abs", "Absolute value.", params("number"), unary(ctx.Abs)),
			function("Floor", "Largest integer not above the number.", params("number"), unary(ctx.Floor)),
			function("Ceiling", "Smallest integer not below the number.", params("number"), unary(ctx.Ceil)),
			function("SquareRoot", "Square root.", params("number"), unary(ctx.Sqrt)),
			function("Power", "Raises a base to an exponent.", params("baseNumber", "exponent"), binary(ctx.Pow)),
			function("Remainder", "Remainder of a division.", params("dividend", "divisor"), binary(ctx.Rem)),
			function("Max", "The larger of two numbers.", params("number1", "number2"), extreme(1)),
			function("Min", "The smaller of two numbers.", params("number1", "number2"), extreme(-1)),
			function("GetRandomNumber", "A random integer between 1 and maxNumber.", params("maxNumber"),
				func(call libraries.Call) libraries.Result {
					limit, ok := value.ToInt(call.Arg(0))
					if !ok || limit < 1 {
						limit = 1
					}

					return libraries.Ready(value.NewNumber(int64(c.random.IntN(limit) + 1)))
				}),
		},
		Properties: []*libraries.Property{{
			Name:        "Pi",
			Description: "The ratio of a circle's circumference to its diameter.",
			Getter: func(libraries.Call) libraries.Result {
				return libraries.Ready(value.FromString(pi))
			},
		}},
	}
}

// extreme returns the argument that compares as sign against the other
func extreme(sign int) libraries.Thunk {
	return func(call libraries.Call) libraries.Result {
		x, y := call.Arg(0).ToNumber(), call.Arg(1).ToNumber()
		if x.Cmp(y) == -sign {
			return libraries.Ready(value.NewDecimal(y))
		}

		return libraries.Ready(value.NewDecimal(x))
	}
}
