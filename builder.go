package mclang

import "fmt"

// signatureParam is one formal kernel parameter: its type and its
// lexically unique name (derived from node identity).
type signatureParam struct {
	Type Type
	Name string
}

// Signature accumulates the ordered parameter list of a kernel during
// Builder's signature-collection pass. Parameter index equals order of
// appearance in a depth-first, left-to-right traversal of the tree.
type Signature struct {
	seen   *Seen
	params []signatureParam
}

func newSignature() *Signature {
	return &Signature{seen: NewSeen()}
}

// Push appends a parameter exactly once per node identity; subsequent
// calls for the same id are no-ops.
func (s *Signature) Push(id uint64, t Type, name string) {
	if s.seen.Visit(id) {
		return
	}
	s.params = append(s.params, signatureParam{Type: t, Name: name})
}

func (s *Signature) text() string {
	parts := make([]string, len(s.params))
	for i, p := range s.params {
		parts[i] = p.Type.Name() + " " + p.Name
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// paramName returns the conventional parameter name for a node of the
// given identity: a short prefix plus the node's numeric id, unique
// for the process lifetime.
func paramName(prefix string, id uint64) string {
	return fmt.Sprintf("%s%d", prefix, id)
}

// Builder lowers an Expression tree to kernel source text via the
// three-pass protocol of §4.3: emit_global, signature collection,
// emit_local, emit_value, each over one shared kernelWriter. It
// memoizes its own output in a buildCache keyed by tree identity,
// grounded on the teacher's staged gen_go_eval.go emitter plus its
// query.go memoizing cache.
type Builder struct {
	indent string
	cache  *buildCache
}

// NewBuilder returns a Builder that indents kernel source with indent
// (the teacher's outputWriter took the same "space" parameter).
func NewBuilder(indent string) *Builder {
	if indent == "" {
		indent = "  "
	}
	return &Builder{indent: indent, cache: newBuildCache()}
}

// Build performs the 3-pass emission of §4.3 over root and returns the
// complete kernel-source string, memoized by root.ID().
func (b *Builder) Build(root Expression) string {
	if src, ok := b.cache.get(root.ID()); ok {
		return src
	}

	w := newKernelWriter(b.indent)

	globalSeen := NewSeen()
	root.EmitGlobal(w, globalSeen)

	sig := newSignature()
	root.PushSignature(sig)

	w.writel(fmt.Sprintf("kernel void main_kernel(%s) {", sig.text()))
	w.indent()

	localSeen := NewSeen()
	root.EmitLocal(w, localSeen)

	valueSeen := NewSeen()
	w.writei("")
	root.EmitValue(w, valueSeen)
	w.writel(";")

	w.unindent()
	w.writel("};")

	src := w.String()
	b.cache.set(root.ID(), src)
	return src
}

// Stats exposes the Builder's cache occupancy, for tests and
// diagnostics.
func (b *Builder) Stats() buildCacheStats { return b.cache.stats() }
