package image

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"smallbasic/pkg/binder"
	"smallbasic/pkg/diagnostics"
	"smallbasic/pkg/emitter"
	"smallbasic/pkg/libraries"
	"smallbasic/pkg/parser"
)

const source = `
TextWindow.KeyDown = OnKey
For i = 10 To 1 Step -1.5
  a[i]["x"] = "text" + i
  If a[i]["x"] <> "" And i > 2 Then
    OnKey()
  EndIf
EndFor
x = TextWindow.ReadNumber()
Program.End()
Sub OnKey
  TextWindow.WriteLine(TextWindow.Title)
EndSub
`

func compile(t *testing.T) *emitter.Program {
	t.Helper()

	noop := func(libraries.Call) libraries.Result { return libraries.Done() }
	registry := libraries.NewRegistry(
		&libraries.Library{
			Name: "TextWindow",
			Methods: []*libraries.Method{
				{Name: "WriteLine", Parameters: []libraries.Parameter{{Name: "data"}}, Execute: noop},
				{Name: "ReadNumber", ReturnsValue: true, Intrinsic: true},
			},
			Properties: []*libraries.Property{{Name: "Title", Getter: noop, Setter: noop}},
			Events:     []*libraries.Event{{Name: "KeyDown"}},
		},
		&libraries.Library{Name: "Program", Methods: []*libraries.Method{{Name: "End", Intrinsic: true}}},
	)

	bag := diagnostics.NewBag()
	bound := binder.Bind(parser.Parse(source, bag), registry, bag, binder.Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	program, err := emitter.EmitProgram(bound)
	if err != nil {
		t.Fatal(err)
	}

	return program
}

func listing(instructions []emitter.Instruction) []string {
	out := make([]string, len(instructions))
	for i, ins := range instructions {
		out[i] = ins.String() + " @" + ins.Range().Start.String()
	}

	return out
}

func TestRoundTrip(t *testing.T) {
	program := compile(t)

	var buf bytes.Buffer
	if err := Encode(&buf, program); err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got, want := listing(decoded.Main), listing(program.Main); !reflect.DeepEqual(got, want) {
		t.Errorf("main module differs\nwant %v\n got %v", want, got)
	}
	if got, want := listing(decoded.SubModules["OnKey"]), listing(program.SubModules["OnKey"]); !reflect.DeepEqual(got, want) {
		t.Errorf("OnKey differs\nwant %v\n got %v", want, got)
	}
}

func TestEncodingIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := Encode(&a, compile(t)); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&b, compile(t)); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("two encodings of the same program differ")
	}
}

func TestDecodeRejectsForeignData(t *testing.T) {
	data, err := cbor.Marshal(map[int]any{1: "NOPE", 2: Version})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(bytes.NewReader(data)); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}

	data, err = cbor.Marshal(map[int]any{1: Magic, 2: Version + 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(bytes.NewReader(data)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}

	data, err = cbor.Marshal(map[int]any{1: Magic, 2: Version, 3: []map[int]any{{1: "bogus"}}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(bytes.NewReader(data)); !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
}

func TestEncodeRejectsUnresolvedLabels(t *testing.T) {
	program := &emitter.Program{Main: []emitter.Instruction{&emitter.TransientLabel{Label: "x"}}}
	if err := Encode(&bytes.Buffer{}, program); !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
}
