// Package diagnostics collects compile-time problems found while parsing and binding.
package diagnostics

import (
	"fmt"
	"sort"

	"smallbasic/pkg/syntax"
)

type Code int

const (
	UnrecognizedCharacter Code = iota
	UnterminatedStringLiteral
	UnexpectedTokenFound
	UnexpectedEndOfStream
	UnexpectedStatementInsteadOfNewLine
	SubModuleInsideSubModule

	TwoSubModulesWithTheSameName
	ExpectedExpressionWithAValue
	LibraryMemberNotFound
	LibraryMemberDeprecatedFromOlderVersion
	LibraryMemberNeedsDesktop
	LibraryMemberNotSupported
	PropertyHasNoSetter
	PropertyHasNoGetter
	AssigningNonSubModuleToEvent
	UnassignedExpressionStatement
	InvalidExpressionStatement
	UnexpectedArgumentsCount
	UnsupportedArrayBaseExpression
	UnsupportedDotBaseExpression
	UnsupportedInvocationBaseExpression
	TwoLabelsWithTheSameName
	GoToUndefinedLabel
)

var codeNames = map[Code]string{
	UnrecognizedCharacter:                   "UnrecognizedCharacter",
	UnterminatedStringLiteral:               "UnterminatedStringLiteral",
	UnexpectedTokenFound:                    "UnexpectedTokenFound",
	UnexpectedEndOfStream:                   "UnexpectedEndOfStream",
	UnexpectedStatementInsteadOfNewLine:     "UnexpectedStatementInsteadOfNewLine",
	SubModuleInsideSubModule:                "SubModuleInsideSubModule",
	TwoSubModulesWithTheSameName:            "TwoSubModulesWithTheSameName",
	ExpectedExpressionWithAValue:            "ExpectedExpressionWithAValue",
	LibraryMemberNotFound:                   "LibraryMemberNotFound",
	LibraryMemberDeprecatedFromOlderVersion: "LibraryMemberDeprecatedFromOlderVersion",
	LibraryMemberNeedsDesktop:               "LibraryMemberNeedsDesktop",
	LibraryMemberNotSupported:               "LibraryMemberNotSupported",
	PropertyHasNoSetter:                     "PropertyHasNoSetter",
	PropertyHasNoGetter:                     "PropertyHasNoGetter",
	AssigningNonSubModuleToEvent:            "AssigningNonSubModuleToEvent",
	UnassignedExpressionStatement:           "UnassignedExpressionStatement",
	InvalidExpressionStatement:              "InvalidExpressionStatement",
	UnexpectedArgumentsCount:                "UnexpectedArgumentsCount",
	UnsupportedArrayBaseExpression:          "UnsupportedArrayBaseExpression",
	UnsupportedDotBaseExpression:            "UnsupportedDotBaseExpression",
	UnsupportedInvocationBaseExpression:     "UnsupportedInvocationBaseExpression",
	TwoLabelsWithTheSameName:                "TwoLabelsWithTheSameName",
	GoToUndefinedLabel:                      "GoToUndefinedLabel",
}

// English message templates, the arguments are filled in order
var codeMessages = map[Code]string{
	UnrecognizedCharacter:                   "I don't understand this character '%s'.",
	UnterminatedStringLiteral:               "This string is missing its right double quotes.",
	UnexpectedTokenFound:                    "I was expecting %[2]s here, but found '%[1]s' instead.",
	UnexpectedEndOfStream:                   "I was expecting %s here, but the program ended.",
	UnexpectedStatementInsteadOfNewLine:     "I was expecting a new line after the previous statement.",
	SubModuleInsideSubModule:                "You cannot define a sub inside another sub.",
	TwoSubModulesWithTheSameName:            "Another sub with the name '%s' is already defined.",
	ExpectedExpressionWithAValue:            "This expression must return a value to be used here.",
	LibraryMemberNotFound:                   "The library '%s' has no member named '%s'.",
	LibraryMemberDeprecatedFromOlderVersion: "The member '%s.%s' is deprecated and kept only for older programs.",
	LibraryMemberNeedsDesktop:               "The member '%s.%s' is only available on the desktop.",
	LibraryMemberNotSupported:               "The member '%s.%s' cannot be used in this edition.",
	PropertyHasNoSetter:                     "The property '%s.%s' cannot be assigned to.",
	PropertyHasNoGetter:                     "The property '%s.%s' cannot be read.",
	AssigningNonSubModuleToEvent:            "You can only assign a sub name to an event.",
	UnassignedExpressionStatement:           "This value is not assigned to anything. Did you mean to assign it to a variable?",
	InvalidExpressionStatement:              "This expression is not a valid statement.",
	UnexpectedArgumentsCount:                "I was expecting %[2]s arguments, but found %[1]s instead.",
	UnsupportedArrayBaseExpression:          "This expression cannot be indexed like an array.",
	UnsupportedDotBaseExpression:            "You can only use dot access with a library.",
	UnsupportedInvocationBaseExpression:     "This expression cannot be called like a method.",
	TwoLabelsWithTheSameName:                "Another label with the name '%s' is already defined here.",
	GoToUndefinedLabel:                      "No label with the name '%s' exists in the same module.",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return fmt.Sprintf("Code(%d)", int(c))
}

// IsWarning reports whether the code does not prevent the program from running
func (c Code) IsWarning() bool {
	return c == LibraryMemberDeprecatedFromOlderVersion
}

// Diagnostic is a single compile-time problem
type Diagnostic struct {
	Code  Code
	Range syntax.Range
	Args  []string
}

// Message renders the diagnostic in plain English
func (d Diagnostic) Message() string {
	template, ok := codeMessages[d.Code]
	if !ok {
		return d.Code.String()
	}

	args := make([]any, len(d.Args))
	for i, a := range d.Args {
		args[i] = a
	}

	return fmt.Sprintf(template, args...)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Range.Start, d.Code, d.Message())
}

// Bag is an append-only list of diagnostics
type Bag struct {
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

// Report appends a diagnostic to the bag
func (b *Bag) Report(code Code, r syntax.Range, args ...string) {
	b.items = append(b.items, Diagnostic{Code: code, Range: r, Args: args})
}

// Items returns the reported diagnostics in source order
func (b *Bag) Items() []Diagnostic {
	items := append([]Diagnostic(nil), b.items...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Range.Start.Before(items[j].Range.Start)
	})

	return items
}

// Codes returns the diagnostic codes in source order
func (b *Bag) Codes() []Code {
	var codes []Code
	for _, d := range b.Items() {
		codes = append(codes, d.Code)
	}

	return codes
}

func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors reports whether any diagnostic other than a warning was reported
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if !d.Code.IsWarning() {
			return true
		}
	}

	return false
}
