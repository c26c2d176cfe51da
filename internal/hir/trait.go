package hir

import (
	"sync"

	"github.com/google/uuid"

	"github.com/corelang/hirc/internal/source"
)

// Trait is a shared holder for a user-defined trait: a named set of
// function signatures (bodies live on implementations, not here) plus
// its supertraits. Lookup of "does Class X implement Trait Y" is owned
// by internal/checker; Trait itself only holds the declared shape.
//
// Grounded on original_source/src/hir/declarations/trait.rs (not present
// in the retrieved pack; shape inferred from types.rs's Trait usage) and
// the teacher's two-level function-index pattern in
// internal/symbols/symbol_table_advanced.go.
type Trait struct {
	mu sync.RWMutex

	ID uuid.UUID

	Name_       string
	SuperTraits []Type
	Loc         source.Location

	// Functions lists signatures in declaration order; FunctionsByFormat
	// indexes the same slice by name-format for multipart lookup (§4.5).
	Functions        []*Function
	FunctionsByFormat map[string][]*Function
}

func NewTrait(name string, loc source.Location) *Trait {
	return &Trait{
		ID:                uuid.New(),
		Name_:             name,
		Loc:               loc,
		FunctionsByFormat: make(map[string][]*Function),
	}
}

func (t *Trait) String() string   { return t.Name_ }
func (t *Trait) Name() string     { return t.Name_ }
func (t *Trait) Basename() string { return t.Name_ }
func (*Trait) IsGeneric() bool    { return true }
func (*Trait) isType()            {}

// AddFunction registers a signature under its name format.
func (t *Trait) AddFunction(f *Function) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Functions = append(t.Functions, f)
	format := f.NameFormat()
	t.FunctionsByFormat[format] = append(t.FunctionsByFormat[format], f)
}

// FunctionsWithFormat returns every declared signature sharing a name
// format, the first stage of the two-level lookup in §4.5.
func (t *Trait) FunctionsWithFormat(format string) []*Function {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.FunctionsByFormat[format]
}

func (t *Trait) FunctionList() []*Function {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Functions
}
