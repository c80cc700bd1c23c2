package element

import "sync/atomic"

// ID identifies an element in the owning toolkit's tree.
// The zero value is never a valid element.
type ID uint64

// None is the zero ID, used where no element is referenced.
const None ID = 0

// IsValid returns true if the ID refers to an element.
func (id ID) IsValid() bool {
	return id != None
}

// Tree is the parent-lookup capability supplied by the toolkit layer.
// The input core resolves element IDs through it at time of use and never
// holds owning references to elements.
//
// Implementations must be safe for concurrent use.
type Tree interface {
	// Parent returns the parent of id, or (None, false) if id is a root
	// or is not part of the tree.
	Parent(id ID) (ID, bool)

	// Live reports whether id currently refers to an attached element.
	Live(id ID) bool
}

// MaxDepth caps propagation-path construction. A well-formed UI tree is
// far shallower than this; hitting the cap means the parent graph is cyclic
// or corrupt.
const MaxDepth = 256

// PathToRoot returns the chain [id, parent(id), ...] ending at the first
// element with no parent. Traversal stops at MaxDepth elements so a cyclic
// parent graph cannot hang the caller.
func PathToRoot(tree Tree, id ID) []ID {
	if tree == nil || !id.IsValid() {
		return nil
	}
	path := make([]ID, 0, 8)
	cur := id
	for cur.IsValid() && len(path) < MaxDepth {
		path = append(path, cur)
		parent, ok := tree.Parent(cur)
		if !ok {
			break
		}
		cur = parent
	}
	return path
}

var idCounter atomic.Uint64

// NewID returns a process-unique element ID. The reference Map uses it;
// toolkits with their own identity scheme may ignore it as long as their
// IDs are non-zero.
func NewID() ID {
	return ID(idCounter.Add(1))
}
