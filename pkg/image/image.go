// Package image stores emitted programs as CBOR so they can be run later
// without the source.
package image

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"smallbasic/pkg/emitter"
	"smallbasic/pkg/lexer"
	"smallbasic/pkg/syntax"
	"smallbasic/pkg/value"
)

const (
	Magic   = "SBIMG"
	Version = 1
)

// canonical mode keeps images byte-for-byte reproducible
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type file struct {
	Magic      string                   `cbor:"1,keyasint"`
	Version    int                      `cbor:"2,keyasint"`
	Main       []instruction            `cbor:"3,keyasint"`
	SubModules map[string][]instruction `cbor:"4,keyasint,omitempty"`
}

// instruction is the wire form of every instruction kind
type instruction struct {
	Op      string   `cbor:"1,keyasint"`
	Names   []string `cbor:"2,keyasint,omitempty"` // variable, library, member, submodule
	Count   int      `cbor:"3,keyasint,omitempty"`
	Literal *literal `cbor:"4,keyasint,omitempty"`
	Targets []int    `cbor:"5,keyasint,omitempty"` // -1 falls through
	Range   [4]int   `cbor:"6,keyasint"`           // start line, start column, end line, end column
}

type literal struct {
	Kind int    `cbor:"1,keyasint"`
	Text string `cbor:"2,keyasint"`
}

// Encode writes program to w
func Encode(w io.Writer, program *emitter.Program) error {
	f := file{Magic: Magic, Version: Version}

	main, err := encodeModule(program.Main)
	if err != nil {
		return err
	}
	f.Main = main

	if len(program.SubModules) > 0 {
		f.SubModules = make(map[string][]instruction, len(program.SubModules))
		for name, instructions := range program.SubModules {
			sub, err := encodeModule(instructions)
			if err != nil {
				return fmt.Errorf("image: submodule %s: %w", name, err)
			}
			f.SubModules[name] = sub
		}
	}

	if err := cborEncMode.NewEncoder(w).Encode(&f); err != nil {
		return fmt.Errorf("image: encode: %w", err)
	}

	return nil
}

// Decode reads a program written by Encode
func Decode(r io.Reader) (*emitter.Program, error) {
	var f file
	if err := cbor.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}

	if f.Magic != Magic {
		return nil, ErrBadMagic
	}
	if f.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}

	program := &emitter.Program{SubModules: make(map[string][]emitter.Instruction, len(f.SubModules))}

	main, err := decodeModule(f.Main)
	if err != nil {
		return nil, err
	}
	program.Main = main

	for name, wire := range f.SubModules {
		sub, err := decodeModule(wire)
		if err != nil {
			return nil, fmt.Errorf("image: submodule %s: %w", name, err)
		}
		program.SubModules[name] = sub
	}

	return program, nil
}

func encodeModule(instructions []emitter.Instruction) ([]instruction, error) {
	out := make([]instruction, 0, len(instructions))
	for _, ins := range instructions {
		wire, err := encodeInstruction(ins)
		if err != nil {
			return nil, err
		}
		out = append(out, wire)
	}

	return out, nil
}

func encodeInstruction(ins emitter.Instruction) (instruction, error) {
	r := ins.Range()
	wire := instruction{
		Op:    string(ins.Op()),
		Range: [4]int{r.Start.Line, r.Start.Column, r.End.Line, r.End.Column},
	}

	switch i := ins.(type) {
	case *emitter.PushLiteral:
		wire.Literal = &literal{Kind: int(i.Value.Kind()), Text: i.Value.ToString()}
	case *emitter.LoadVariable:
		wire.Names = []string{i.Name}
	case *emitter.StoreVariable:
		wire.Names = []string{i.Name}
	case *emitter.LoadArrayElement:
		wire.Names, wire.Count = []string{i.Name}, i.Count
	case *emitter.StoreArrayElement:
		wire.Names, wire.Count = []string{i.Name}, i.Count
	case *emitter.LoadProperty:
		wire.Names = []string{i.Library, i.Property}
	case *emitter.StoreProperty:
		wire.Names = []string{i.Library, i.Property}
	case *emitter.InvokeMethod:
		wire.Names, wire.Count = []string{i.Library, i.Method}, i.Count
	case *emitter.InvokeSubModule:
		wire.Names = []string{i.Name}
	case *emitter.SetEventCallback:
		wire.Names = []string{i.Library, i.Event, i.SubModule}
	case *emitter.Jump:
		wire.Targets = []int{i.Target}
	case *emitter.ConditionalJump:
		wire.Targets = []int{targetOf(i.TrueTarget), targetOf(i.FalseTarget)}
	case *emitter.TransientLabel:
		return wire, fmt.Errorf("%w: unresolved label %s", ErrUnknownOperation, i.Label)
	}

	return wire, nil
}

func targetOf(t *int) int {
	if t == nil {
		return -1
	}

	return *t
}

func targetFrom(t int) *int {
	if t < 0 {
		return nil
	}

	return &t
}

func decodeModule(wire []instruction) ([]emitter.Instruction, error) {
	out := make([]emitter.Instruction, 0, len(wire))
	for n, w := range wire {
		ins, err := decodeInstruction(w)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", n, err)
		}
		out = append(out, ins)
	}

	return out, nil
}

func decodeInstruction(w instruction) (emitter.Instruction, error) {
	src := emitter.Source{Span: syntax.Range{
		Start: lexer.Position{Line: w.Range[0], Column: w.Range[1]},
		End:   lexer.Position{Line: w.Range[2], Column: w.Range[3]},
	}}

	name := func(i int) string {
		if i < len(w.Names) {
			return w.Names[i]
		}
		return ""
	}
	target := func(i int) int {
		if i < len(w.Targets) {
			return w.Targets[i]
		}
		return -1
	}

	switch op := emitter.Operation(w.Op); op {
	case emitter.OpPush:
		v, err := decodeLiteral(w.Literal)
		if err != nil {
			return nil, err
		}
		return &emitter.PushLiteral{Source: src, Value: v}, nil
	case emitter.OpLoad:
		return &emitter.LoadVariable{Source: src, Name: name(0)}, nil
	case emitter.OpStore:
		return &emitter.StoreVariable{Source: src, Name: name(0)}, nil
	case emitter.OpLoadArray:
		return &emitter.LoadArrayElement{Source: src, Name: name(0), Count: w.Count}, nil
	case emitter.OpStoreArray:
		return &emitter.StoreArrayElement{Source: src, Name: name(0), Count: w.Count}, nil
	case emitter.OpLoadProperty:
		return &emitter.LoadProperty{Source: src, Library: name(0), Property: name(1)}, nil
	case emitter.OpStoreProperty:
		return &emitter.StoreProperty{Source: src, Library: name(0), Property: name(1)}, nil
	case emitter.OpInvokeMethod:
		return &emitter.InvokeMethod{Source: src, Library: name(0), Method: name(1), Count: w.Count}, nil
	case emitter.OpInvokeSubModule:
		return &emitter.InvokeSubModule{Source: src, Name: name(0)}, nil
	case emitter.OpSetEvent:
		return &emitter.SetEventCallback{Source: src, Library: name(0), Event: name(1), SubModule: name(2)}, nil
	case emitter.OpNeg:
		return &emitter.Unary{Source: src, Operation: op}, nil
	case emitter.OpAdd, emitter.OpSub, emitter.OpMul, emitter.OpDiv,
		emitter.OpEq, emitter.OpNeq, emitter.OpLt, emitter.OpLe, emitter.OpGt, emitter.OpGe:
		return &emitter.Binary{Source: src, Operation: op}, nil
	case emitter.OpJmp:
		return &emitter.Jump{Source: src, Target: target(0)}, nil
	case emitter.OpJmpc:
		return &emitter.ConditionalJump{
			Source:      src,
			TrueTarget:  targetFrom(target(0)),
			FalseTarget: targetFrom(target(1)),
		}, nil
	case emitter.OpPause:
		return &emitter.Pause{Source: src}, nil
	case emitter.OpEnd:
		return &emitter.Terminate{Source: src}, nil
	case emitter.OpReadString:
		return &emitter.BlockOnStringInput{Source: src}, nil
	case emitter.OpReadNumber:
		return &emitter.BlockOnNumberInput{Source: src}, nil
	case emitter.OpPop:
		return &emitter.PopValue{Source: src}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, w.Op)
	}
}

func decodeLiteral(l *literal) (value.Value, error) {
	if l == nil {
		return value.Empty, nil
	}

	switch value.Kind(l.Kind) {
	case value.KindString:
		return value.NewString(l.Text), nil
	case value.KindBoolean:
		return value.NewBoolean(l.Text == "True"), nil
	case value.KindNumber:
		d, ok := value.ParseNumber(l.Text)
		if !ok {
			return nil, fmt.Errorf("%w: bad number %q", ErrBadLiteral, l.Text)
		}
		return value.NewDecimal(d), nil
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrBadLiteral, l.Kind)
	}
}

var (
	ErrBadMagic           = errors.New("image: not a compiled program")
	ErrUnsupportedVersion = errors.New("image: unsupported version")
	ErrUnknownOperation   = errors.New("image: unknown operation")
	ErrBadLiteral         = errors.New("image: bad literal")
)
