package value

import "testing"

func num(i int64) Value { return NewNumber(i) }
func str(s string) Value { return NewString(s) }

func TestOperatorCoercions(t *testing.T) {
	ar := NewArray()
	ar.Set("1", str("a"))

	tests := []struct {
		name     string
		got      Value
		expected string
	}{
		{"number plus numeric string", Add(num(1), str("2")), "3"},
		{"string plus number", Add(str("a"), num(2)), "a2"},
		{"numeric strings add", Add(str("1.5"), str(" 2 ")), "3.5"},
		{"boolean plus number concatenates", Add(NewBoolean(true), num(1)), "True1"},
		{"array plus string concatenates", Add(ar, str("!")), "1=a;!"},
		{"string minus string", Subtract(str("a"), str("a")), "0"},
		{"multiply coerces", Multiply(str("3"), str("x")), "0"},
		{"divide by zero returns dividend", Divide(num(10), num(0)), "10"},
		{"divide reduces", Divide(num(10), num(4)), "2.5"},
		{"divide exact", Divide(num(10), num(2)), "5"},
		{"one third", Divide(num(1), num(3)), "0.3333333333333333333333333333"},
		{"equal compares text", Equal(num(1), str("1")), "True"},
		{"equal is case sensitive", Equal(str("a"), str("A")), "False"},
		{"not equal", NotEqual(str("a"), str("A")), "True"},
		{"and needs exact True", And(num(1), str("True")), "False"},
		{"and of True strings", And(str("True"), NewBoolean(true)), "True"},
		{"lower-case true is false", Or(str("true"), str("False")), "False"},
		{"array less than itself", LessThan(ar, ar), "False"},
		{"numeric comparison", LessThan(str("9"), str("10")), "True"},
		{"non-numeric compares as zero", GreaterThanOrEqual(str("abc"), num(0)), "True"},
		{"less or equal", LessThanOrEqual(num(2), num(2)), "True"},
		{"greater", GreaterThan(num(2), num(3)), "False"},
		{"sum of halves is whole", Add(str("0.5"), str("0.5")), "1"},
		{"sum of halves equals one", Equal(Add(str("0.5"), str("0.5")), num(1)), "True"},
		{"product drops trailing zeros", Multiply(str("1.5"), num(2)), "3"},
		{"scaled product", Multiply(str("2.50"), num(2)), "5"},
		{"difference drops trailing zeros", Subtract(str("2.75"), str("0.25")), "2.5"},
		{"text with trailing zeros compares as text", Equal(str("1.0"), num(1)), "False"},
		{"parsed trailing zeros", Equal(FromString("1.0"), num(1)), "True"},
		{"large whole numbers keep their digits", Multiply(num(100), num(1000)), "100000"},
		{"negate", Negate(str("4")), "-4"},
		{"negate zero", Negate(num(0)), "0"},
		{"negate text", Negate(str("x")), "0"},
	}

	for _, test := range tests {
		if got := test.got.ToString(); got != test.expected {
			t.Errorf("%s: expected %q, got %q", test.name, test.expected, got)
		}
	}
}

func TestToBoolean(t *testing.T) {
	cases := map[Value]bool{
		str("True"):       true,
		str("False"):      false,
		str("TRUE"):       false,
		NewBoolean(true):  true,
		NewBoolean(false): false,
		num(1):            false,
		NewArray():        false,
	}

	for v, expected := range cases {
		if got := v.ToBoolean(); got != expected {
			t.Errorf("%q.ToBoolean(): expected %v, got %v", v.ToString(), expected, got)
		}
	}
}

func TestParseNumber(t *testing.T) {
	valid := []string{"1", "-2", "3.25", " 7 ", "1e3"}
	for _, s := range valid {
		if _, ok := ParseNumber(s); !ok {
			t.Errorf("expected %q to parse as a number", s)
		}
	}

	invalid := []string{"", "abc", "1a", "NaN", "Infinity", "-inf"}
	for _, s := range invalid {
		if _, ok := ParseNumber(s); ok {
			t.Errorf("expected %q not to parse as a number", s)
		}
	}
}

func TestArraySerialization(t *testing.T) {
	ar := NewArray()
	ar.Set("name", str("a=b;c"))
	ar.Set("2", num(5))
	inner := ar.Child("inner")
	inner.Set("x", str("y"))

	expected := `name=a\=b\;c;2=5;inner=x\=y\;;`
	if got := ar.ToString(); got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestArraySetEmptyRemoves(t *testing.T) {
	ar := NewArray()
	ar.Set("a", str("1"))
	ar.Set("b", str("2"))
	ar.Set("a", str(""))

	if ar.Len() != 1 {
		t.Fatalf("expected one element, got %d", ar.Len())
	}
	if keys := ar.Keys(); keys[0] != "b" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestArrayCloneIsDeep(t *testing.T) {
	ar := NewArray()
	ar.Child("1").Set("2", str("x"))

	c := ar.Clone()
	c.Child("1").Set("2", str("changed"))

	v, _ := ar.Child("1").Get("2")
	if v.ToString() != "x" {
		t.Fatalf("clone shares nested arrays")
	}
}

func TestChildReplacesNonArray(t *testing.T) {
	ar := NewArray()
	ar.Set("k", str("text"))
	ar.Child("k").Set("1", str("v"))

	if ar.ToString() != `k=1\=v\;;` {
		t.Fatalf("unexpected array %q", ar.ToString())
	}
}

func TestToInt(t *testing.T) {
	cases := map[string]int{"3": 3, "3.9": 3, "-3.9": -3, "x": 0}
	for s, expected := range cases {
		got, ok := ToInt(FromString(s))
		if !ok || got != expected {
			t.Errorf("ToInt(%q): expected %d, got %d (ok=%v)", s, expected, got, ok)
		}
	}
}
