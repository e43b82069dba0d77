package mclang

// BinOp is the compile-time operator token for BinaryOp, the Go
// stand-in for the original's `BinaryOp<OP>` template parameter.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLogicalOr
	OpLogicalAnd
	OpBitOr
	OpBitAnd
	OpBitXor
	OpEq
	OpNeq
)

func (op BinOp) token() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpLogicalOr:
		return "||"
	case OpLogicalAnd:
		return "&&"
	case OpBitOr:
		return "|"
	case OpBitAnd:
		return "&"
	case OpBitXor:
		return "^"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	default:
		panic("unknown BinOp")
	}
}

// BinaryOp emits `(a OP b)`; its result type is max(a.Type(), b.Type()).
type BinaryOp struct {
	base
	op   BinOp
	a, b Expression
}

// Bin returns a BinaryOp node for op over a and b.
func Bin(op BinOp, a, b Expression) *BinaryOp {
	return &BinaryOp{base: newBase(), op: op, a: a, b: b}
}

func Add(a, b Expression) *BinaryOp    { return Bin(OpAdd, a, b) }
func Sub(a, b Expression) *BinaryOp    { return Bin(OpSub, a, b) }
func Mul(a, b Expression) *BinaryOp    { return Bin(OpMul, a, b) }
func Div(a, b Expression) *BinaryOp    { return Bin(OpDiv, a, b) }
func Mod(a, b Expression) *BinaryOp    { return Bin(OpMod, a, b) }
func Or(a, b Expression) *BinaryOp     { return Bin(OpLogicalOr, a, b) }
func And(a, b Expression) *BinaryOp    { return Bin(OpLogicalAnd, a, b) }
func BitOr(a, b Expression) *BinaryOp  { return Bin(OpBitOr, a, b) }
func BitAnd(a, b Expression) *BinaryOp { return Bin(OpBitAnd, a, b) }
func BitXor(a, b Expression) *BinaryOp { return Bin(OpBitXor, a, b) }
func Eq(a, b Expression) *BinaryOp     { return Bin(OpEq, a, b) }
func Neq(a, b Expression) *BinaryOp    { return Bin(OpNeq, a, b) }

func (n *BinaryOp) Type() Type { return Max(n.a.Type(), n.b.Type()) }

func (n *BinaryOp) EmitGlobal(w *kernelWriter, seen *Seen) {
	n.a.EmitGlobal(w, seen)
	n.b.EmitGlobal(w, seen)
}

func (n *BinaryOp) EmitLocal(w *kernelWriter, seen *Seen) {
	n.a.EmitLocal(w, seen)
	n.b.EmitLocal(w, seen)
}

func (n *BinaryOp) EmitValue(w *kernelWriter, seen *Seen) {
	w.write("(")
	n.a.EmitValue(w, seen)
	w.write(" " + n.op.token() + " ")
	n.b.EmitValue(w, seen)
	w.write(")")
}

func (n *BinaryOp) PushSignature(sig *Signature) {
	n.a.PushSignature(sig)
	n.b.PushSignature(sig)
}

func (n *BinaryOp) BindValues(b *Binder) {
	n.a.BindValues(b)
	n.b.BindValues(b)
}

// UnOp is the compile-time operator token for UnaryOp.
type UnOp int

const (
	OpLogicalNot UnOp = iota
	OpBitNot
	OpNeg
)

func (op UnOp) token() string {
	switch op {
	case OpLogicalNot:
		return "!"
	case OpBitNot:
		return "~"
	case OpNeg:
		return "-"
	default:
		panic("unknown UnOp")
	}
}

// UnaryOp emits `(OP a)`; its result type is a.Type().
type UnaryOp struct {
	base
	op UnOp
	a  Expression
}

// Un returns a UnaryOp node for op over a.
func Un(op UnOp, a Expression) *UnaryOp {
	return &UnaryOp{base: newBase(), op: op, a: a}
}

func Not(a Expression) *UnaryOp    { return Un(OpLogicalNot, a) }
func BitNot(a Expression) *UnaryOp { return Un(OpBitNot, a) }
func Neg(a Expression) *UnaryOp    { return Un(OpNeg, a) }

func (n *UnaryOp) Type() Type { return n.a.Type() }

func (n *UnaryOp) EmitGlobal(w *kernelWriter, seen *Seen) { n.a.EmitGlobal(w, seen) }
func (n *UnaryOp) EmitLocal(w *kernelWriter, seen *Seen)  { n.a.EmitLocal(w, seen) }

func (n *UnaryOp) EmitValue(w *kernelWriter, seen *Seen) {
	w.write("(" + n.op.token())
	n.a.EmitValue(w, seen)
	w.write(")")
}

func (n *UnaryOp) PushSignature(sig *Signature) { n.a.PushSignature(sig) }
func (n *UnaryOp) BindValues(b *Binder)         { n.a.BindValues(b) }

// TernaryOp emits `(c ? t : e)`; its result type is max(t.Type(), e.Type()).
type TernaryOp struct {
	base
	c, t, e Expression
}

// Ternary returns a TernaryOp node. c should be a boolean/integer
// condition expression.
func Ternary(c, t, e Expression) *TernaryOp {
	return &TernaryOp{base: newBase(), c: c, t: t, e: e}
}

func (n *TernaryOp) Type() Type { return Max(n.t.Type(), n.e.Type()) }

func (n *TernaryOp) EmitGlobal(w *kernelWriter, seen *Seen) {
	n.c.EmitGlobal(w, seen)
	n.t.EmitGlobal(w, seen)
	n.e.EmitGlobal(w, seen)
}

func (n *TernaryOp) EmitLocal(w *kernelWriter, seen *Seen) {
	n.c.EmitLocal(w, seen)
	n.t.EmitLocal(w, seen)
	n.e.EmitLocal(w, seen)
}

func (n *TernaryOp) EmitValue(w *kernelWriter, seen *Seen) {
	w.write("(")
	n.c.EmitValue(w, seen)
	w.write(" ? ")
	n.t.EmitValue(w, seen)
	w.write(" : ")
	n.e.EmitValue(w, seen)
	w.write(")")
}

func (n *TernaryOp) PushSignature(sig *Signature) {
	n.c.PushSignature(sig)
	n.t.PushSignature(sig)
	n.e.PushSignature(sig)
}

func (n *TernaryOp) BindValues(b *Binder) {
	n.c.BindValues(b)
	n.t.BindValues(b)
	n.e.BindValues(b)
}

// ConditionalOp emits an if/else statement, not an expression; either
// branch may be nil. If only the else branch is present it emits
// `if(!c) { e; }`. Unlike every other node, its EmitValue writes a
// full statement and so must run at most once per build even if the
// node is reachable from more than one place in the DAG — guarded by
// the seen set threaded through the value pass.
type ConditionalOp struct {
	base
	c           Expression
	then, else_ Expression
}

// Cond returns a ConditionalOp with both branches.
func Cond(c, then, else_ Expression) *ConditionalOp {
	if then == nil && else_ == nil {
		panic(newTypeError("ConditionalOp requires at least one branch"))
	}
	return &ConditionalOp{base: newBase(), c: c, then: then, else_: else_}
}

// Unless returns a ConditionalOp with only an else branch, emitted as
// `if(!c) { e; }`.
func Unless(c, else_ Expression) *ConditionalOp {
	return Cond(c, nil, else_)
}

func (n *ConditionalOp) Type() Type     { return TypeVoid }
func (n *ConditionalOp) IsLvalue() bool { return false }

func (n *ConditionalOp) EmitGlobal(w *kernelWriter, seen *Seen) {
	n.c.EmitGlobal(w, seen)
	if n.then != nil {
		n.then.EmitGlobal(w, seen)
	}
	if n.else_ != nil {
		n.else_.EmitGlobal(w, seen)
	}
}

func (n *ConditionalOp) EmitLocal(w *kernelWriter, seen *Seen) {
	n.c.EmitLocal(w, seen)
	if n.then != nil {
		n.then.EmitLocal(w, seen)
	}
	if n.else_ != nil {
		n.else_.EmitLocal(w, seen)
	}
}

func (n *ConditionalOp) EmitValue(w *kernelWriter, seen *Seen) {
	if seen.Visit(n.id) {
		return
	}
	switch {
	case n.then != nil && n.else_ != nil:
		w.write("if (")
		n.c.EmitValue(w, seen)
		w.write(") { ")
		n.then.EmitValue(w, seen)
		w.write("; } else { ")
		n.else_.EmitValue(w, seen)
		w.write("; }")
	case n.then != nil:
		w.write("if (")
		n.c.EmitValue(w, seen)
		w.write(") { ")
		n.then.EmitValue(w, seen)
		w.write("; }")
	default:
		w.write("if (!")
		n.c.EmitValue(w, seen)
		w.write(") { ")
		n.else_.EmitValue(w, seen)
		w.write("; }")
	}
}

func (n *ConditionalOp) PushSignature(sig *Signature) {
	n.c.PushSignature(sig)
	if n.then != nil {
		n.then.PushSignature(sig)
	}
	if n.else_ != nil {
		n.else_.PushSignature(sig)
	}
}

func (n *ConditionalOp) BindValues(b *Binder) {
	n.c.BindValues(b)
	if n.then != nil {
		n.then.BindValues(b)
	}
	if n.else_ != nil {
		n.else_.BindValues(b)
	}
}
