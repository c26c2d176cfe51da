package hir

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/corelang/hirc/internal/source"
)

// BuiltinTag names one of the fixed builtin classes from §6. NotBuiltin
// marks an ordinary user-defined class.
type BuiltinTag int

const (
	NotBuiltin BuiltinTag = iota
	BuiltinNone
	BuiltinBool
	BuiltinI32
	BuiltinF64
	BuiltinInteger
	BuiltinRational
	BuiltinString
	BuiltinReference
	BuiltinReferenceMut
)

// Member is a named, typed field of a class.
type Member struct {
	Name source.Identifier
	Type Type
}

// Class is a shared holder (§4.2) for a user-defined or builtin class. A
// generic class ("type A<T, U>") and its specializations ("A<X, Y>")
// are distinct Class values connected by SpecializationOf; Generics
// holds the original's Generic placeholders on the generic form and the
// concrete arguments on a specialization.
//
// Grounded on original_source/src/hir/types.rs (Class/BuiltinClass) and
// the funvibe-funxy typesystem's mutex-guarded type values.
type Class struct {
	mu sync.RWMutex

	ID uuid.UUID

	Basename_ string
	Generics  []Type
	Builtin   BuiltinTag
	Members   []Member
	Loc       source.Location

	// SpecializationOf points back at the generic class this was
	// monomorphized from; nil for a non-generic class or the generic
	// original itself.
	SpecializationOf *Class
}

// NewClass builds a fresh, non-specialized class.
func NewClass(basename string, loc source.Location) *Class {
	return &Class{ID: uuid.New(), Basename_: basename, Loc: loc}
}

// NewBuiltinClass builds one of the fixed classes listed in §6.
func NewBuiltinClass(basename string, tag BuiltinTag) *Class {
	return &Class{ID: uuid.New(), Basename_: basename, Builtin: tag}
}

func (c *Class) String() string { return c.Name() }

// Name renders the class's specialized display name, e.g. "A<X, B<Y>>".
// Grounded on Type::diff's companion Named impl in types.rs.
func (c *Class) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.Generics) == 0 {
		return c.Basename_
	}
	var b strings.Builder
	b.WriteString(c.Basename_)
	b.WriteByte('<')
	for i, g := range c.Generics {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(g.Name())
	}
	b.WriteByte('>')
	return b.String()
}

func (c *Class) Basename() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Basename_
}

func (c *Class) IsGeneric() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, g := range c.Generics {
		if g.IsGeneric() {
			return true
		}
	}
	return false
}

func (*Class) isType() {}

// SetMembers installs a class's members after they've been lowered; it
// exists because a class's own members may reference the class itself
// (a linked-list node holding a `next: Reference<Node>`), so the Class
// holder must exist before its members are lowered.
func (c *Class) SetMembers(members []Member) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Members = members
}

func (c *Class) MemberList() []Member {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Members
}

// IsBuiltin reports whether this class is one of §6's fixed classes.
func (c *Class) IsBuiltin() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Builtin != NotBuiltin
}

func (c *Class) IsNone() bool       { return c.builtinIs(BuiltinNone) }
func (c *Class) IsBool() bool       { return c.builtinIs(BuiltinBool) }
func (c *Class) IsI32() bool        { return c.builtinIs(BuiltinI32) }
func (c *Class) IsInteger() bool    { return c.builtinIs(BuiltinInteger) }
func (c *Class) IsString() bool     { return c.builtinIs(BuiltinString) }
func (c *Class) IsReference() bool  { return c.builtinIs(BuiltinReference) }
func (c *Class) IsReferenceMut() bool { return c.builtinIs(BuiltinReferenceMut) }

// IsAnyReference reports whether this is Reference<T> or ReferenceMut<T>.
func (c *Class) IsAnyReference() bool {
	return c.IsReference() || c.IsReferenceMut()
}

func (c *Class) builtinIs(tag BuiltinTag) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Builtin == tag
}

// SizeInBytes reports the class's size for handoff/diagnostics metadata
// only (§ supplemented features); it has no bearing on checking or
// monomorphization. Builtin classes have fixed sizes; user classes sum
// their members'.
func (c *Class) SizeInBytes() int {
	c.mu.RLock()
	builtin := c.Builtin
	members := c.Members
	c.mu.RUnlock()

	switch builtin {
	case BuiltinNone:
		return 0
	case BuiltinBool:
		return 1
	case BuiltinI32:
		return 4
	case BuiltinF64:
		return 8
	case BuiltinReference, BuiltinReferenceMut:
		return 8
	case BuiltinInteger, BuiltinRational, BuiltinString:
		// Heap-backed builtins: a pointer-sized handle in the HIR's model.
		return 8
	}
	total := 0
	for _, m := range members {
		total += typeSize(m.Type)
	}
	return total
}

func typeSize(t Type) int {
	if c, ok := t.(*Class); ok {
		return c.SizeInBytes()
	}
	return 8
}

// specializeGenerics clones a generic class into a specialization bound
// to concrete generic arguments, reusing members by re-substituting
// their declared types. Called by Apply when substituting through a
// class's generic arguments, and by the monomorphizer when it first
// requests a specialization (internal/monomorphize drives the member
// substitution via this same helper so the two callers never diverge).
func specializeGenerics(generic *Class, args []Type) *Class {
	generic.mu.RLock()
	basename := generic.Basename_
	origGenerics := generic.Generics
	members := generic.Members
	loc := generic.Loc
	generic.mu.RUnlock()

	sub := Substitution{}
	n := len(origGenerics)
	if len(args) < n {
		n = len(args)
	}
	for i := 0; i < n; i++ {
		sub[origGenerics[i]] = args[i]
	}

	spec := &Class{
		ID:               uuid.New(),
		Basename_:        basename,
		Generics:         args,
		Loc:              loc,
		SpecializationOf: generic,
	}
	newMembers := make([]Member, len(members))
	for i, m := range members {
		newMembers[i] = Member{Name: m.Name, Type: Apply(m.Type, sub)}
	}
	spec.Members = newMembers
	return spec
}
