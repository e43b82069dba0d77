package mclang

// SelectBuffer is `buf[index]`: a pointer-typed expression indexed by
// an integer expression, yielding an lvalue of the buffer's element
// type.
type SelectBuffer struct {
	base
	buf   Expression
	index Expression
}

// Select returns a SelectBuffer node. buf must be a pointer type;
// index must be integer.
func Select(buf, index Expression) *SelectBuffer {
	if !buf.Type().IsPointer() {
		panic(newTypeError("SelectBuffer requires a pointer expression, got %s", buf.Type().Name()))
	}
	if !index.Type().IsInteger() {
		panic(newTypeError("SelectBuffer index must be integer, got %s", index.Type().Name()))
	}
	return &SelectBuffer{base: newBase(), buf: buf, index: index}
}

func (s *SelectBuffer) Type() Type     { return s.buf.Type().PointerTo() }
func (s *SelectBuffer) IsLvalue() bool { return true }

func (s *SelectBuffer) EmitGlobal(w *kernelWriter, seen *Seen) {
	s.buf.EmitGlobal(w, seen)
	s.index.EmitGlobal(w, seen)
}

func (s *SelectBuffer) EmitLocal(w *kernelWriter, seen *Seen) {
	s.buf.EmitLocal(w, seen)
	s.index.EmitLocal(w, seen)
}

func (s *SelectBuffer) EmitValue(w *kernelWriter, seen *Seen) {
	s.buf.EmitValue(w, seen)
	w.write("[")
	s.index.EmitValue(w, seen)
	w.write("]")
}

func (s *SelectBuffer) PushSignature(sig *Signature) {
	s.buf.PushSignature(sig)
	s.index.PushSignature(sig)
}

func (s *SelectBuffer) BindValues(b *Binder) {
	s.buf.BindValues(b)
	s.index.BindValues(b)
}

var hexDigits = "0123456789abcdef"

// SelectVector is `v.s<hex-digit>`: a single-lane view into a vector
// expression, lvalue iff v is.
type SelectVector struct {
	base
	v    Expression
	lane int
}

// SelectLane returns a SelectVector node. v must be a vector
// expression; lane must be less than v's width.
func SelectLane(v Expression, lane int) *SelectVector {
	if !v.Type().IsVector() {
		panic(newTypeError("SelectVector requires a vector expression, got %s", v.Type().Name()))
	}
	if lane < 0 || lane >= v.Type().VectorWidth() {
		panic(newTypeError("SelectVector lane %d out of range for width %d", lane, v.Type().VectorWidth()))
	}
	return &SelectVector{base: newBase(), v: v, lane: lane}
}

func (s *SelectVector) Type() Type     { return s.v.Type().VectorOf() }
func (s *SelectVector) IsLvalue() bool { return s.v.IsLvalue() }

func (s *SelectVector) EmitGlobal(w *kernelWriter, seen *Seen) { s.v.EmitGlobal(w, seen) }
func (s *SelectVector) EmitLocal(w *kernelWriter, seen *Seen)  { s.v.EmitLocal(w, seen) }

func (s *SelectVector) EmitValue(w *kernelWriter, seen *Seen) {
	s.v.EmitValue(w, seen)
	w.write(".s")
	w.write(string(hexDigits[s.lane]))
}

func (s *SelectVector) PushSignature(sig *Signature) { s.v.PushSignature(sig) }
func (s *SelectVector) BindValues(b *Binder)         { s.v.BindValues(b) }

// SelectImage reads a single texel from an image expression via
// read_imagef, using one of the four predeclared samplers selected by
// (addressing, filter).
type SelectImage struct {
	base
	img  Expression
	pos  Expression
	addr ImageAddressing
	filt ImageFilter
}

// SelectTexel returns a SelectImage node. img must be image_r; pos
// must be vector(2, float) or vector(2, int).
func SelectTexel(img, pos Expression, addr ImageAddressing, filt ImageFilter) *SelectImage {
	if !img.Type().Equal(TypeImageR) {
		panic(newTypeError("SelectImage requires a readable image expression, got %s", img.Type().Name()))
	}
	if !isImageCoord(pos.Type()) {
		panic(newTypeError("SelectImage position must be vector(2,float) or vector(2,int), got %s", pos.Type().Name()))
	}
	return &SelectImage{base: newBase(), img: img, pos: pos, addr: addr, filt: filt}
}

// SelectTexelDefault is SelectTexel with its filter taken from cfg's
// "sampler.default_filter" instead of passed explicitly, for callers
// that don't care and just want the configured default.
func SelectTexelDefault(img, pos Expression, addr ImageAddressing, cfg *Config) *SelectImage {
	return SelectTexel(img, pos, addr, DefaultFilter(cfg))
}

func isImageCoord(t Type) bool {
	if !t.IsVector() || t.VectorWidth() != 2 {
		return false
	}
	elem := t.VectorOf()
	return elem.Equal(TypeFloat) || elem.Equal(TypeInt)
}

func (s *SelectImage) Type() Type { return Vector(4, TypeFloat) }

func (s *SelectImage) EmitGlobal(w *kernelWriter, seen *Seen) {
	emitSamplerGlobal(w, seen, s.addr, s.filt)
	s.img.EmitGlobal(w, seen)
	s.pos.EmitGlobal(w, seen)
}

func (s *SelectImage) EmitLocal(w *kernelWriter, seen *Seen) {
	s.img.EmitLocal(w, seen)
	s.pos.EmitLocal(w, seen)
}

func (s *SelectImage) EmitValue(w *kernelWriter, seen *Seen) {
	w.write("read_imagef(")
	s.img.EmitValue(w, seen)
	w.write(", ")
	w.write(samplerName(s.addr, s.filt))
	w.write(", ")
	s.pos.EmitValue(w, seen)
	w.write(")")
}

func (s *SelectImage) PushSignature(sig *Signature) {
	s.img.PushSignature(sig)
	s.pos.PushSignature(sig)
}

func (s *SelectImage) BindValues(b *Binder) {
	s.img.BindValues(b)
	s.pos.BindValues(b)
}

// SelectArray is a multi-index access into an ArrayConst: arr[i0][i1]...
// when len(idxs) matches arr's declared dimension count, or a single
// flat index when len(idxs) == 1.
type SelectArray[T Scalar] struct {
	base
	arr  *ArrayConst[T]
	idxs []Expression
}

// SelectElem returns a SelectArray node over arr. len(idxs) must equal
// len(arr.Dims()) or be exactly 1 (flat indexing); every index must be
// integer.
func SelectElem[T Scalar](arr *ArrayConst[T], idxs ...Expression) *SelectArray[T] {
	if len(idxs) != len(arr.Dims()) && len(idxs) != 1 {
		panic(newTypeError("SelectArray needs %d indices (or 1 for flat indexing), got %d", len(arr.Dims()), len(idxs)))
	}
	for _, idx := range idxs {
		if !idx.Type().IsInteger() {
			panic(newTypeError("SelectArray index must be integer, got %s", idx.Type().Name()))
		}
	}
	return &SelectArray[T]{base: newBase(), arr: arr, idxs: idxs}
}

func (s *SelectArray[T]) Type() Type { return scalarType[T]() }

func (s *SelectArray[T]) EmitGlobal(w *kernelWriter, seen *Seen) {
	s.arr.EmitGlobal(w, seen)
	for _, idx := range s.idxs {
		idx.EmitGlobal(w, seen)
	}
}

func (s *SelectArray[T]) EmitLocal(w *kernelWriter, seen *Seen) {
	for _, idx := range s.idxs {
		idx.EmitLocal(w, seen)
	}
}

func (s *SelectArray[T]) EmitValue(w *kernelWriter, seen *Seen) {
	s.arr.EmitValue(w, seen)
	for _, idx := range s.idxs {
		w.write("[")
		idx.EmitValue(w, seen)
		w.write("]")
	}
}

func (s *SelectArray[T]) PushSignature(sig *Signature) {
	s.arr.PushSignature(sig)
	for _, idx := range s.idxs {
		idx.PushSignature(sig)
	}
}

func (s *SelectArray[T]) BindValues(b *Binder) {
	s.arr.BindValues(b)
	for _, idx := range s.idxs {
		idx.BindValues(b)
	}
}
