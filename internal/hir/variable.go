package hir

import (
	"sync"

	"github.com/google/uuid"

	"github.com/corelang/hirc/internal/source"
)

// Variable is a shared holder for a declared name binding: a local, a
// parameter once lowered into a block's scope, or a module-level
// constant. Mutability gates both assignment (§7 AssignmentToImmutable)
// and destructor insertion's MOVED transition (only a mutable binding
// can be moved out of without the compiler treating the move as a
// copy-then-move error).
type Variable struct {
	mu sync.RWMutex

	ID uuid.UUID

	Name    source.Identifier
	Type    Type
	Mutable bool
	Loc     source.Location

	// Initialized tracks whether a value has been bound to this variable
	// yet; destructor insertion (C10) drives this alongside its own
	// liveness state so a variable's "Initialized" flag and its
	// destructor-state-machine state never disagree about whether reading
	// it is legal before lowering has finished.
	Initialized bool
}

func NewVariable(name source.Identifier, typ Type, mutable bool, loc source.Location) *Variable {
	return &Variable{ID: uuid.New(), Name: name, Type: typ, Mutable: mutable, Loc: loc}
}

func (v *Variable) String() string { return v.Name.String() }

func (v *Variable) SetInitialized(initialized bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Initialized = initialized
}

func (v *Variable) IsInitialized() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.Initialized
}
