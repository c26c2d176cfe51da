package hir

import (
	"sync"

	"github.com/google/uuid"
)

// Module is the top-level shared holder for one compiled unit: its
// module-scope variables, classes, traits, the two-level function index
// every call resolves against, and the running list of monomorphized
// instances produced while lowering its body.
//
// Grounded on funvibe-funxy/internal/modules/module.go's file/declaration
// bookkeeping, adapted from a single-file AST module to the multi-level
// name/type/function index §4.3-§4.4 describe.
type Module struct {
	mu sync.RWMutex

	ID   uuid.UUID
	Name string

	Statements []Statement

	variables map[string]*Variable
	types     map[string]Type // classes and traits, keyed by basename

	// functionsByFormat buckets every declared function by name format;
	// within a bucket, functionsByCanonical disambiguates by the full
	// canonical name (§4.5's two-level lookup).
	functionsByFormat    map[string][]*Function
	functionsByCanonical map[string]*Function

	// Monomorphized records every specialization produced so far, so the
	// monomorphizer (C9) can find-or-create idempotently instead of
	// walking functionsByCanonical's whole bucket each time.
	Monomorphized []*Function
}

func NewModule(name string) *Module {
	return &Module{
		ID:                   uuid.New(),
		Name:                 name,
		variables:            make(map[string]*Variable),
		types:                make(map[string]Type),
		functionsByFormat:    make(map[string][]*Function),
		functionsByCanonical: make(map[string]*Function),
	}
}

func (m *Module) AddVariable(v *Variable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variables[v.Name.Text] = v
}

func (m *Module) Variable(name string) (*Variable, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.variables[name]
	return v, ok
}

func (m *Module) AddType(t Type) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[t.Basename()] = t
}

func (m *Module) Type(basename string) (Type, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.types[basename]
	return t, ok
}

// AddFunction registers a function under both levels of its lookup key.
func (m *Module) AddFunction(f *Function) {
	m.mu.Lock()
	defer m.mu.Unlock()
	format := f.NameFormat()
	m.functionsByFormat[format] = append(m.functionsByFormat[format], f)
	m.functionsByCanonical[f.CanonicalName()] = f
}

// FunctionsWithFormat is the resolver's first-level lookup (§4.5): every
// function sharing a name format, regardless of parameter types.
func (m *Module) FunctionsWithFormat(format string) []*Function {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.functionsByFormat[format]
}

// FunctionByCanonicalName is the exact second-level lookup, used by the
// monomorphizer to check whether a specialization already exists before
// creating a new one (§4.9's "reuse by canonical name").
func (m *Module) FunctionByCanonicalName(name string) (*Function, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.functionsByCanonical[name]
	return f, ok
}

// AddMonomorphized records a newly created specialization and indexes it
// like any other function.
func (m *Module) AddMonomorphized(f *Function) {
	m.mu.Lock()
	m.Monomorphized = append(m.Monomorphized, f)
	m.mu.Unlock()
	m.AddFunction(f)
}
