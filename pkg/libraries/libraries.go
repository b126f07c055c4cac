// Package libraries describes the host libraries a program can call: their
// shape for the binder and emitter, and the thunks the engine invokes.
package libraries

import (
	"context"
	"sort"

	"golang.org/x/text/cases"

	"smallbasic/pkg/value"
)

// Call carries the arguments of one library invocation
type Call struct {
	Context context.Context
	Library string
	Member  string
	Args    []value.Value
}

// Arg returns the i-th argument, or an empty value if it is missing
func (c Call) Arg(i int) value.Value {
	if i < 0 || i >= len(c.Args) {
		return value.Empty
	}

	return c.Args[i]
}

// Thunk is the host implementation of a method, getter or setter
type Thunk func(Call) Result

type Parameter struct {
	Name        string
	Description string
}

type Method struct {
	Name         string
	Description  string
	Parameters   []Parameter
	ReturnsValue bool
	IsDeprecated bool
	NeedsDesktop bool
	// Intrinsic methods have no thunk, they are lowered to engine instructions
	Intrinsic bool
	Execute   Thunk
}

// Executable reports whether the engine can run the method at all
func (m *Method) Executable() bool {
	return m.Intrinsic || m.Execute != nil
}

type Property struct {
	Name         string
	Description  string
	IsDeprecated bool
	NeedsDesktop bool
	Getter       Thunk
	Setter       Thunk
}

func (p *Property) HasGetter() bool { return p.Getter != nil }
func (p *Property) HasSetter() bool { return p.Setter != nil }

type Event struct {
	Name         string
	Description  string
	IsDeprecated bool
	NeedsDesktop bool
}

type Library struct {
	Name        string
	Description string
	Methods     []*Method
	Properties  []*Property
	Events      []*Event

	methods    map[string]*Method
	properties map[string]*Property
	events     map[string]*Event
}

// Method looks a method up, ignoring case
func (l *Library) Method(name string) (*Method, bool) {
	m, ok := l.methods[fold(name)]
	return m, ok
}

// Property looks a property up, ignoring case
func (l *Library) Property(name string) (*Property, bool) {
	p, ok := l.properties[fold(name)]
	return p, ok
}

// Event looks an event up, ignoring case
func (l *Library) Event(name string) (*Event, bool) {
	e, ok := l.events[fold(name)]
	return e, ok
}

func (l *Library) index() {
	l.methods = make(map[string]*Method, len(l.Methods))
	for _, m := range l.Methods {
		l.methods[fold(m.Name)] = m
	}

	l.properties = make(map[string]*Property, len(l.Properties))
	for _, p := range l.Properties {
		l.properties[fold(p.Name)] = p
	}

	l.events = make(map[string]*Event, len(l.Events))
	for _, e := range l.Events {
		l.events[fold(e.Name)] = e
	}
}

// Registry is the read-only table of libraries shared by the binder, the
// emitter and the engine. It must not be modified after NewRegistry.
type Registry struct {
	libraries map[string]*Library
}

// NewRegistry indexes the given libraries. Later libraries with the same
// name replace earlier ones.
func NewRegistry(libs ...*Library) *Registry {
	r := &Registry{libraries: make(map[string]*Library, len(libs))}
	for _, l := range libs {
		l.index()
		r.libraries[fold(l.Name)] = l
	}

	return r
}

// Library looks a library up, ignoring case
func (r *Registry) Library(name string) (*Library, bool) {
	l, ok := r.libraries[fold(name)]
	return l, ok
}

// Names returns the canonical library names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.libraries))
	for _, l := range r.libraries {
		names = append(names, l.Name)
	}
	sort.Strings(names)

	return names
}

// fold normalizes identifiers for case-insensitive lookups. A fresh Caser is
// used per call since Casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}
