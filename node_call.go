package mclang

// CallFunction is the generic intrinsic-call node every built-in in
// intrinsics.go is built from: `name(a0, a1, ...)`. argTypes entries
// equal to TypeVoid are wildcards (no check against the corresponding
// arg); every other entry must equal the corresponding arg's type
// exactly.
type CallFunction struct {
	base
	name       string
	returnType Type
	args       []Expression
}

// Call returns a CallFunction node. argTypes must have the same
// length as args; a TypeVoid entry skips the check for that argument.
func Call(name string, returnType Type, argTypes []Type, args ...Expression) *CallFunction {
	if len(argTypes) != len(args) {
		panic(newTypeError("%s expects %d arguments, got %d", name, len(argTypes), len(args)))
	}
	for i, want := range argTypes {
		if want.Equal(TypeVoid) {
			continue
		}
		if !args[i].Type().Equal(want) {
			panic(newTypeError("%s argument %d must be %s, got %s", name, i, want.Name(), args[i].Type().Name()))
		}
	}
	return &CallFunction{base: newBase(), name: name, returnType: returnType, args: args}
}

func (n *CallFunction) Type() Type { return n.returnType }

func (n *CallFunction) EmitGlobal(w *kernelWriter, seen *Seen) {
	for _, a := range n.args {
		a.EmitGlobal(w, seen)
	}
}

func (n *CallFunction) EmitLocal(w *kernelWriter, seen *Seen) {
	for _, a := range n.args {
		a.EmitLocal(w, seen)
	}
}

func (n *CallFunction) EmitValue(w *kernelWriter, seen *Seen) {
	w.write(n.name)
	w.write("(")
	for i, a := range n.args {
		if i > 0 {
			w.write(", ")
		}
		a.EmitValue(w, seen)
	}
	w.write(")")
}

func (n *CallFunction) PushSignature(sig *Signature) {
	for _, a := range n.args {
		a.PushSignature(sig)
	}
}

func (n *CallFunction) BindValues(b *Binder) {
	for _, a := range n.args {
		a.BindValues(b)
	}
}
