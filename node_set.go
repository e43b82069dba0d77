package mclang

// Set emits `lhs = rhs`; lhs must be an lvalue.
type Set struct {
	base
	lhs, rhs Expression
}

// SetValue returns a Set node. lhs must satisfy IsLvalue.
func SetValue(lhs, rhs Expression) *Set {
	if !lhs.IsLvalue() {
		panic(newTypeError("Set requires an lvalue left-hand side"))
	}
	return &Set{base: newBase(), lhs: lhs, rhs: rhs}
}

func (n *Set) Type() Type { return n.lhs.Type() }

func (n *Set) EmitGlobal(w *kernelWriter, seen *Seen) {
	n.lhs.EmitGlobal(w, seen)
	n.rhs.EmitGlobal(w, seen)
}

func (n *Set) EmitLocal(w *kernelWriter, seen *Seen) {
	n.lhs.EmitLocal(w, seen)
	n.rhs.EmitLocal(w, seen)
}

func (n *Set) EmitValue(w *kernelWriter, seen *Seen) {
	n.lhs.EmitValue(w, seen)
	w.write(" = ")
	n.rhs.EmitValue(w, seen)
}

func (n *Set) PushSignature(sig *Signature) {
	n.lhs.PushSignature(sig)
	n.rhs.PushSignature(sig)
}

func (n *Set) BindValues(b *Binder) {
	n.lhs.BindValues(b)
	n.rhs.BindValues(b)
}

// SetImage emits `write_imagef(imgW, pos, color)`. pos must be
// vector(2,int); color must be vector(4,float).
type SetImage struct {
	base
	imgW, pos, color Expression
}

// SetTexel returns a SetImage node.
func SetTexel(imgW, pos, color Expression) *SetImage {
	if !imgW.Type().Equal(TypeImageW) {
		panic(newTypeError("SetImage requires a writable image expression, got %s", imgW.Type().Name()))
	}
	if !pos.Type().Equal(Vector(2, TypeInt)) {
		panic(newTypeError("SetImage position must be vector(2,int), got %s", pos.Type().Name()))
	}
	if !color.Type().Equal(Vector(4, TypeFloat)) {
		panic(newTypeError("SetImage color must be vector(4,float), got %s", color.Type().Name()))
	}
	return &SetImage{base: newBase(), imgW: imgW, pos: pos, color: color}
}

func (n *SetImage) Type() Type { return TypeVoid }

func (n *SetImage) EmitGlobal(w *kernelWriter, seen *Seen) {
	n.imgW.EmitGlobal(w, seen)
	n.pos.EmitGlobal(w, seen)
	n.color.EmitGlobal(w, seen)
}

func (n *SetImage) EmitLocal(w *kernelWriter, seen *Seen) {
	n.imgW.EmitLocal(w, seen)
	n.pos.EmitLocal(w, seen)
	n.color.EmitLocal(w, seen)
}

func (n *SetImage) EmitValue(w *kernelWriter, seen *Seen) {
	w.write("write_imagef(")
	n.imgW.EmitValue(w, seen)
	w.write(", ")
	n.pos.EmitValue(w, seen)
	w.write(", ")
	n.color.EmitValue(w, seen)
	w.write(")")
}

func (n *SetImage) PushSignature(sig *Signature) {
	n.imgW.PushSignature(sig)
	n.pos.PushSignature(sig)
	n.color.PushSignature(sig)
}

func (n *SetImage) BindValues(b *Binder) {
	n.imgW.BindValues(b)
	n.pos.BindValues(b)
	n.color.BindValues(b)
}
