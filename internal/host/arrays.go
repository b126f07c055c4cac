package host

import (
	"smallbasic/pkg/libraries"
	"smallbasic/pkg/value"
)

func asArray(v value.Value) (*value.ArrayValue, bool) {
	a, ok := v.(*value.ArrayValue)
	return a, ok
}

func (c *Console) arrayLibrary() *libraries.Library {
	returning := func(name string, args []libraries.Parameter, thunk libraries.Thunk) *libraries.Method {
		return &libraries.Method{Name: name, Parameters: args, ReturnsValue: true, Execute: thunk}
	}

	return &libraries.Library{
		Name:        "Array",
		Description: "Inspects array values.",
		Methods: []*libraries.Method{
			returning("ContainsIndex", params("array", "index"), func(call libraries.Call) libraries.Result {
				a, ok := asArray(call.Arg(0))
				if !ok {
					return libraries.Ready(value.NewBoolean(false))
				}

				_, found := a.Get(call.Arg(1).ToString())
				return libraries.Ready(value.NewBoolean(found))
			}),
			returning("ContainsValue", params("array", "value"), func(call libraries.Call) libraries.Result {
				a, ok := asArray(call.Arg(0))
				return libraries.Ready(value.NewBoolean(ok && a.Contains(call.Arg(1))))
			}),
			returning("GetItemCount", params("array"), func(call libraries.Call) libraries.Result {
				a, ok := asArray(call.Arg(0))
				if !ok {
					return libraries.Ready(value.NewNumber(0))
				}

				return libraries.Ready(value.NewNumber(int64(a.Len())))
			}),
			returning("GetAllIndices", params("array"), func(call libraries.Call) libraries.Result {
				indices := value.NewArray()
				if a, ok := asArray(call.Arg(0)); ok {
					for i, key := range a.Keys() {
						indices.Set(value.NewNumber(int64(i+1)).ToString(), value.FromString(key))
					}
				}

				return libraries.Ready(indices)
			}),
			returning("IsArray", params("array"), func(call libraries.Call) libraries.Result {
				_, ok := asArray(call.Arg(0))
				return libraries.Ready(value.NewBoolean(ok))
			}),
			{
				Name:         "GetValue",
				Parameters:   params("arrayName", "index"),
				ReturnsValue: true,
				IsDeprecated: true,
				Execute: func(call libraries.Call) libraries.Result {
					a, ok := c.arrays[call.Arg(0).ToString()]
					if !ok {
						return libraries.Ready(value.Empty)
					}

					v, _ := a.Get(call.Arg(1).ToString())
					if v == nil {
						v = value.Empty
					}
					return libraries.Ready(v)
				},
			},
			{
				Name:         "SetValue",
				Parameters:   params("arrayName", "index", "value"),
				IsDeprecated: true,
				Execute: func(call libraries.Call) libraries.Result {
					name := call.Arg(0).ToString()
					a, ok := c.arrays[name]
					if !ok {
						a = value.NewArray()
						c.arrays[name] = a
					}

					a.Set(call.Arg(1).ToString(), call.Arg(2))
					return libraries.Done()
				},
			},
		},
	}
}
