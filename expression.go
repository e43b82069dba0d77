// Package mclang is an embedded DSL for building GPU compute-kernel
// source text from host Go code. Expression trees are assembled with
// factory functions and operator-like constructors; Builder lowers a
// tree to kernel source, and Binder pushes host-side argument values
// into a compiled kernel in the same order Builder assigned them.
package mclang

import "sync/atomic"

// Expression is the emission/binding protocol every node in the tree
// implements. Nodes are shared, immutable values: a tree is really a
// DAG, and the *Seen sets threaded through the emission passes make
// each pass idempotent under sharing.
type Expression interface {
	// EmitGlobal writes any global-scope declarations this node
	// needs (sampler constants, __local array constants), guarded
	// by seen so a shared node emits its globals exactly once.
	EmitGlobal(w *kernelWriter, seen *Seen)

	// EmitLocal writes local variable declarations / hoisted
	// statements that must appear before the kernel body's first
	// value use, guarded by seen.
	EmitLocal(w *kernelWriter, seen *Seen)

	// EmitValue writes this node's inline expression text, guarded by
	// seen for the rare node (ConditionalOp) whose value emission is a
	// full statement rather than a pure inline expression and so must
	// not be repeated if the same node is reachable from more than one
	// place in the DAG.
	EmitValue(w *kernelWriter, seen *Seen)

	// PushSignature appends this node's formal kernel parameter
	// (type, name) to sig, exactly once per node identity.
	PushSignature(sig *Signature)

	// BindValues pushes this node's current host-side value into
	// the next kernel parameter slot, exactly once per node
	// identity, in the same order PushSignature visited it.
	BindValues(b *Binder)

	// Type returns the type of the expression's result.
	Type() Type

	// IsLvalue reports whether this expression denotes an
	// assignable storage location.
	IsLvalue() bool

	// ID returns a stable identity for this node, used to name its
	// parameter slot and to key the Seen dedup sets.
	ID() uint64
}

var nextExpressionID uint64

// newID allocates the next process-wide monotonic node identity. The
// original implementation derives id() from the node's memory address;
// Go exposes no equivalent stable address, so a counter allocated at
// construction time stands in — it is unique and stable for the life
// of the process, which is all §3's invariants require.
func newID() uint64 {
	return atomic.AddUint64(&nextExpressionID, 1)
}

// base is embedded by every concrete node to supply ID() and the
// default zero-value behavior of Type()/IsLvalue() (overridden by
// nodes that need something other than TypeVoid / not-an-lvalue).
type base struct {
	id uint64
}

func newBase() base { return base{id: newID()} }

func (b base) ID() uint64     { return b.id }
func (b base) IsLvalue() bool { return false }

// Seen is a set of node identities, used across all three emission
// passes to make them idempotent over a shared DAG: a node inserts
// itself the first time it is visited and skips re-emitting after that.
type Seen struct {
	ids map[uint64]struct{}
}

// NewSeen returns a fresh, empty Seen set.
func NewSeen() *Seen {
	return &Seen{ids: make(map[uint64]struct{})}
}

// Visit reports whether id has already been recorded; if not, it
// records it and returns false.
func (s *Seen) Visit(id uint64) (alreadySeen bool) {
	if _, ok := s.ids[id]; ok {
		return true
	}
	s.ids[id] = struct{}{}
	return false
}
