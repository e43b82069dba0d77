package mclang

// This file is the Go rendering of the built-in intrinsic catalogue:
// work-item queries, integer/numeric/float math, and geometric
// functions, all constructed over CallFunction. The original expresses
// each family with a C++ macro (MCLANG_T_FN_1/2/3) that asserts every
// argument's class, promotes to a common type, casts each argument to
// it, and emits the call; tFn below is that same shared implementation
// as a plain Go function instead of a macro.

func isIntegerish(t Type) bool {
	if t.IsVector() {
		return t.VectorOf().IsInteger()
	}
	return t.IsInteger()
}

func isNumericish(t Type) bool {
	if t.IsVector() {
		return t.VectorOf().IsNumeric()
	}
	return t.IsNumeric()
}

func isFloatish(t Type) bool {
	if t.IsVector() {
		return t.VectorOf().IsFloat()
	}
	return t.IsFloat()
}

func promote(args ...Expression) Type {
	rtype := TypeVoid
	for _, a := range args {
		if rtype.Equal(TypeVoid) {
			rtype = a.Type()
		} else {
			rtype = Max(rtype, a.Type())
		}
	}
	return rtype
}

func requireClass(name string, class func(Type) bool, args ...Expression) {
	for i, a := range args {
		if !class(a.Type()) {
			panic(newTypeError("%s argument %d has unsupported type %s", name, i, a.Type().Name()))
		}
	}
}

func tFn(name string, class func(Type) bool, args ...Expression) *CallFunction {
	requireClass(name, class, args...)
	rtype := promote(args...)
	casted := make([]Expression, len(args))
	argTypes := make([]Type, len(args))
	for i, a := range args {
		casted[i] = CastTo(a, rtype)
		argTypes[i] = TypeVoid
	}
	return Call(name, rtype, argTypes, casted...)
}

// Work-item queries.

func sizeFn(name string, d uint32) *CallFunction {
	return Call(name, TypeSize, []Type{TypeUint}, Cnst(d))
}

func GetGlobalSize(d uint32) *CallFunction   { return sizeFn("get_global_size", d) }
func GetGlobalID(d uint32) *CallFunction     { return sizeFn("get_global_id", d) }
func GetLocalSize(d uint32) *CallFunction    { return sizeFn("get_local_size", d) }
func GetLocalID(d uint32) *CallFunction      { return sizeFn("get_local_id", d) }
func GetGroupID(d uint32) *CallFunction      { return sizeFn("get_group_id", d) }
func GetGlobalOffset(d uint32) *CallFunction { return sizeFn("get_global_offset", d) }

func GetWorkDim() *CallFunction {
	return Call("get_work_dim", TypeUint, nil)
}

// Abs returns the unsigned magnitude of an integer or vector-of-integer
// expression.
func Abs(e Expression) *CallFunction {
	requireClass("abs", isIntegerish, e)
	rtype := ToUnsigned(e.Type())
	return Call("abs", rtype, []Type{TypeVoid}, e)
}

// AbsDiff returns |e1 - e2| computed without intermediate overflow.
func AbsDiff(e1, e2 Expression) *CallFunction {
	requireClass("abs_diff", isIntegerish, e1, e2)
	argt := Max(e1.Type(), e2.Type())
	rtype := ToUnsigned(argt)
	return Call("abs_diff", rtype, []Type{TypeVoid, TypeVoid}, CastTo(e1, argt), CastTo(e2, argt))
}

// Integer intrinsics.

func AddSat(a, b Expression) *CallFunction        { return tFn("add_sat", isIntegerish, a, b) }
func Hadd(a, b Expression) *CallFunction          { return tFn("hadd", isIntegerish, a, b) }
func Rhadd(a, b Expression) *CallFunction         { return tFn("rhadd", isIntegerish, a, b) }
func Clz(a Expression) *CallFunction              { return tFn("clz", isIntegerish, a) }
func MadHi(a, b, c Expression) *CallFunction      { return tFn("mad_hi", isIntegerish, a, b, c) }
func MadSat(a, b, c Expression) *CallFunction     { return tFn("mad_sat", isIntegerish, a, b, c) }
func Rotate(a, b Expression) *CallFunction        { return tFn("rotate", isIntegerish, a, b) }
func SubSat(a, b Expression) *CallFunction        { return tFn("sub_sat", isIntegerish, a, b) }
func Mad24(a, b, c Expression) *CallFunction      { return tFn("mad24", isIntegerish, a, b, c) }
func Mul24(a, b Expression) *CallFunction         { return tFn("mul24", isIntegerish, a, b) }

// Numeric intrinsics (integer or float).

func Clamp(a, lo, hi Expression) *CallFunction { return tFn("clamp", isNumericish, a, lo, hi) }
func Min(a, b Expression) *CallFunction        { return tFn("min", isNumericish, a, b) }

// Max2 is the kernel-source `max(a, b)` numeric intrinsic; named Max2
// because Max is already the type-promotion function in types.go.
func Max2(a, b Expression) *CallFunction { return tFn("max", isNumericish, a, b) }
func Mix(a, b, t Expression) *CallFunction     { return tFn("mix", isNumericish, a, b, t) }
func Radians(a Expression) *CallFunction       { return tFn("radians", isNumericish, a) }
func Step(edge, x Expression) *CallFunction    { return tFn("step", isNumericish, edge, x) }
func Smoothstep(e0, e1, x Expression) *CallFunction {
	return tFn("smoothstep", isNumericish, e0, e1, x)
}
func Sign(a Expression) *CallFunction { return tFn("sign", isNumericish, a) }

// Floating-point math.

func Acos(a Expression) *CallFunction       { return tFn("acos", isFloatish, a) }
func Acosh(a Expression) *CallFunction      { return tFn("acosh", isFloatish, a) }
func Acospi(a Expression) *CallFunction     { return tFn("acospi", isFloatish, a) }
func Asin(a Expression) *CallFunction       { return tFn("asin", isFloatish, a) }
func Asinh(a Expression) *CallFunction      { return tFn("asinh", isFloatish, a) }
func Asinpi(a Expression) *CallFunction     { return tFn("asinpi", isFloatish, a) }
func Atan(a Expression) *CallFunction       { return tFn("atan", isFloatish, a) }
func Atan2(a, b Expression) *CallFunction   { return tFn("atan2", isFloatish, a, b) }
func Atanh(a Expression) *CallFunction      { return tFn("atanh", isFloatish, a) }
func Atanpi(a Expression) *CallFunction     { return tFn("atanpi", isFloatish, a) }
func Atan2pi(a, b Expression) *CallFunction { return tFn("atan2pi", isFloatish, a, b) }
func Cbrt(a Expression) *CallFunction       { return tFn("cbrt", isFloatish, a) }
func Ceil(a Expression) *CallFunction       { return tFn("ceil", isFloatish, a) }
func Copysign(a, b Expression) *CallFunction { return tFn("copysign", isFloatish, a, b) }
func Cos(a Expression) *CallFunction        { return tFn("cos", isFloatish, a) }
func Cosh(a Expression) *CallFunction       { return tFn("cosh", isFloatish, a) }
func Cospi(a Expression) *CallFunction      { return tFn("cospi", isFloatish, a) }
func Erfc(a Expression) *CallFunction       { return tFn("erfc", isFloatish, a) }
func Erf(a Expression) *CallFunction        { return tFn("erf", isFloatish, a) }
func Exp(a Expression) *CallFunction        { return tFn("exp", isFloatish, a) }
func Exp2(a Expression) *CallFunction       { return tFn("exp2", isFloatish, a) }
func Exp10(a Expression) *CallFunction      { return tFn("exp10", isFloatish, a) }
func Expm1(a Expression) *CallFunction      { return tFn("expm1", isFloatish, a) }
func Fabs(a Expression) *CallFunction       { return tFn("fabs", isFloatish, a) }
func Fdim(a, b Expression) *CallFunction    { return tFn("fdim", isFloatish, a, b) }
func Floor(a Expression) *CallFunction      { return tFn("floor", isFloatish, a) }
func Fma(a, b, c Expression) *CallFunction  { return tFn("fma", isFloatish, a, b, c) }
func Fmax(a, b Expression) *CallFunction    { return tFn("fmax", isFloatish, a, b) }
func Fmin(a, b Expression) *CallFunction    { return tFn("fmin", isFloatish, a, b) }
func Fmod(a, b Expression) *CallFunction    { return tFn("fmod", isFloatish, a, b) }
func Hypot(a, b Expression) *CallFunction   { return tFn("hypot", isFloatish, a, b) }
func Lgamma(a Expression) *CallFunction     { return tFn("lgamma", isFloatish, a) }
func Log(a Expression) *CallFunction        { return tFn("log", isFloatish, a) }
func Log2(a Expression) *CallFunction       { return tFn("log2", isFloatish, a) }
func Log10(a Expression) *CallFunction      { return tFn("log10", isFloatish, a) }
func Log1p(a Expression) *CallFunction      { return tFn("log1p", isFloatish, a) }
func Logb(a Expression) *CallFunction       { return tFn("logb", isFloatish, a) }
func FloatMad(a, b, c Expression) *CallFunction { return tFn("mad", isFloatish, a, b, c) }
func Maxmag(a, b Expression) *CallFunction  { return tFn("maxmag", isFloatish, a, b) }
func Minmag(a, b Expression) *CallFunction  { return tFn("minmag", isFloatish, a, b) }
func Nextafter(a, b Expression) *CallFunction { return tFn("nextafter", isFloatish, a, b) }
func Pow(a, b Expression) *CallFunction     { return tFn("pow", isFloatish, a, b) }
func Remainder(a, b Expression) *CallFunction { return tFn("remainder", isFloatish, a, b) }
func Rint(a Expression) *CallFunction       { return tFn("rint", isFloatish, a) }
func Round(a Expression) *CallFunction      { return tFn("round", isFloatish, a) }
func Rsqrt(a Expression) *CallFunction      { return tFn("rsqrt", isFloatish, a) }
func Sin(a Expression) *CallFunction        { return tFn("sin", isFloatish, a) }
func Sinh(a Expression) *CallFunction       { return tFn("sinh", isFloatish, a) }
func Sinpi(a Expression) *CallFunction      { return tFn("sinpi", isFloatish, a) }
func Sqrt(a Expression) *CallFunction       { return tFn("sqrt", isFloatish, a) }
func Tan(a Expression) *CallFunction        { return tFn("tan", isFloatish, a) }
func Tanh(a Expression) *CallFunction       { return tFn("tanh", isFloatish, a) }
func Tanpi(a Expression) *CallFunction      { return tFn("tanpi", isFloatish, a) }
func Tgamma(a Expression) *CallFunction     { return tFn("tgamma", isFloatish, a) }
func Trunc(a Expression) *CallFunction      { return tFn("trunc", isFloatish, a) }
func CrossRaw(a, b Expression) *CallFunction { return tFn("cross", isFloatish, a, b) }
func NormalizeRaw(a Expression) *CallFunction { return tFn("normalize", isFloatish, a) }
func FastNormalize(a Expression) *CallFunction { return tFn("fast_normalize", isFloatish, a) }

// Geometric functions: these validate vector width (<=4) directly,
// rather than going through tFn's promote-then-cast machinery, since
// both operands must already share the same vector-of-float type.

func requireGeometric(name string, t Type) {
	ok := t.IsFloat() || (t.IsVector() && t.VectorOf().IsFloat() && t.VectorWidth() <= 4)
	if !ok {
		panic(newTypeError("%s requires float or vector(<=4,float), got %s", name, t.Name()))
	}
}

func Length(e Expression) *CallFunction {
	requireGeometric("length", e.Type())
	return Call("length", TypeFloat, []Type{TypeVoid}, e)
}

func Distance(e1, e2 Expression) *CallFunction {
	if !e1.Type().Equal(e2.Type()) {
		panic(newTypeError("distance requires matching operand types, got %s and %s", e1.Type().Name(), e2.Type().Name()))
	}
	requireGeometric("distance", e1.Type())
	return Call("distance", TypeFloat, []Type{TypeVoid, TypeVoid}, e1, e2)
}

func Dot(e1, e2 Expression) *CallFunction {
	if !e1.Type().Equal(e2.Type()) {
		panic(newTypeError("dot requires matching operand types, got %s and %s", e1.Type().Name(), e2.Type().Name()))
	}
	requireGeometric("dot", e1.Type())
	return Call("dot", TypeFloat, []Type{TypeVoid, TypeVoid}, e1, e2)
}

// Cross and Normalize keep their natural spec names; CrossRaw and
// NormalizeRaw above exist only so both can share the tFn machinery.
func Cross(e1, e2 Expression) *CallFunction { return CrossRaw(e1, e2) }
func Normalize(e Expression) *CallFunction  { return NormalizeRaw(e) }
