package mclang

// Cast emits `convert_<T>(e)` when target is a vector type, otherwise
// `((T) e)`; it is a no-op (just emits e) when e is already of target
// type.
type Cast struct {
	base
	e      Expression
	target Type
}

// CastTo returns a Cast node converting e to target.
func CastTo(e Expression, target Type) *Cast {
	return &Cast{base: newBase(), e: e, target: target}
}

func (n *Cast) Type() Type { return n.target }

func (n *Cast) EmitGlobal(w *kernelWriter, seen *Seen) { n.e.EmitGlobal(w, seen) }
func (n *Cast) EmitLocal(w *kernelWriter, seen *Seen)  { n.e.EmitLocal(w, seen) }

func (n *Cast) EmitValue(w *kernelWriter, seen *Seen) {
	if n.e.Type().Equal(n.target) {
		n.e.EmitValue(w, seen)
		return
	}
	if n.target.IsVector() {
		w.write("convert_" + n.target.Name() + "(")
		n.e.EmitValue(w, seen)
		w.write(")")
		return
	}
	w.write("((" + n.target.Name() + ") ")
	n.e.EmitValue(w, seen)
	w.write(")")
}

func (n *Cast) PushSignature(sig *Signature) { n.e.PushSignature(sig) }
func (n *Cast) BindValues(b *Binder)         { n.e.BindValues(b) }
