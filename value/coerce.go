package value

// This file implements the exhaustive scalar/vector/color/list coercion
// lattice: every (from, to) pair CanCoerceTo reports true for has a
// matching case in Coerce, and every other pair is uncoercible. Coerce
// is total: an uncoercible pair returns Zero(to) rather than an error,
// matching the "every input has a value" invariant ports rely on.

// CanCoerceTo reports whether a Value of kind from can be converted to
// kind to via Coerce without landing on Zero(to).
func CanCoerceTo(from, to Kind) bool {
	if from == to {
		return true
	}
	switch {
	case from == Int && to == Float:
		return true
	case from == Float && to == Int:
		return true
	case from == Int && to == Bool:
		return true
	case from == Bool && to == Int:
		return true
	case from == Float && to == Bool:
		return true
	case from == Bool && to == Float:
		return true

	case from == Float && to == Vec2:
		return true
	case from == Float && to == Vec3:
		return true
	case from == Float && to == Vec4:
		return true
	case from == Float && to == Color:
		return true

	case from == Vec3 && to == Vec4:
		return true
	case from == Vec4 && to == Vec3:
		return true
	case from == Vec4 && to == Color:
		return true
	case from == Color && to == Vec4:
		return true
	case from == Color && to == Vec3:
		return true

	case from == Int && to == String:
		return true
	case from == Float && to == String:
		return true
	case from == Bool && to == String:
		return true

	case from == IntList && to == FloatList:
		return true
	case from == FloatList && to == IntList:
		return true

	case from == ColorList && to == Vec4List:
		return true
	case from == Vec4List && to == ColorList:
		return true

	case from == FloatList && to == Vec2List:
		return true
	case from == FloatList && to == Vec3List:
		return true
	case from == FloatList && to == Vec4List:
		return true
	case from == Vec2List && to == FloatList:
		return true
	case from == Vec3List && to == FloatList:
		return true
	case from == Vec4List && to == FloatList:
		return true
	}
	if scalarKind, listKind, ok := scalarListPair(from, to); ok {
		_ = scalarKind
		_ = listKind
		return true
	}
	return false
}

// scalarListPair reports whether (from, to) is a scalar-to-its-own-list
// wrap pair: Float->FloatList, Vec3->Vec3List, and so on.
func scalarListPair(from, to Kind) (Kind, Kind, bool) {
	wantList, ok := ListKindOf(from)
	if !ok || wantList != to {
		return from, to, false
	}
	return from, to, true
}

// Coerce converts v to kind to, following the lattice documented on
// CanCoerceTo. When no rule applies, Coerce returns Zero(to).
func Coerce(v Value, to Kind) Value {
	from := v.kind
	if from == to {
		return v
	}

	switch {
	case from == Int && to == Float:
		i, _ := v.AsInt()
		return NewFloat(float32(i))
	case from == Float && to == Int:
		f, _ := v.AsFloat()
		return NewInt(int32(f))
	case from == Int && to == Bool:
		i, _ := v.AsInt()
		return NewBool(i != 0)
	case from == Bool && to == Int:
		b, _ := v.AsBool()
		return NewInt(boolToInt(b))
	case from == Float && to == Bool:
		f, _ := v.AsFloat()
		return NewBool(f != 0)
	case from == Bool && to == Float:
		b, _ := v.AsBool()
		return NewFloat(boolToFloat(b))

	case from == Float && to == Vec2:
		f, _ := v.AsFloat()
		return NewVec2([2]float32{f, f})
	case from == Float && to == Vec3:
		f, _ := v.AsFloat()
		return NewVec3([3]float32{f, f, f})
	case from == Float && to == Vec4:
		f, _ := v.AsFloat()
		return NewVec4([4]float32{f, f, f, f})
	case from == Float && to == Color:
		f, _ := v.AsFloat()
		return NewColor(RGBA{R: f, G: f, B: f, A: 1})

	case from == Vec3 && to == Vec4:
		v3, _ := v.AsVec3()
		return NewVec4([4]float32{v3[0], v3[1], v3[2], 1})
	case from == Vec4 && to == Vec3:
		v4, _ := v.AsVec4()
		return NewVec3([3]float32{v4[0], v4[1], v4[2]})
	case from == Vec4 && to == Color:
		v4, _ := v.AsVec4()
		return NewColor(RGBA{R: v4[0], G: v4[1], B: v4[2], A: v4[3]})
	case from == Color && to == Vec4:
		c, _ := v.AsColor()
		return NewVec4([4]float32{c.R, c.G, c.B, c.A})
	case from == Color && to == Vec3:
		c, _ := v.AsColor()
		return NewVec3([3]float32{c.R, c.G, c.B})

	case from == Int && to == String:
		i, _ := v.AsInt()
		return NewString(formatInt(i))
	case from == Float && to == String:
		f, _ := v.AsFloat()
		return NewString(formatFloat(f))
	case from == Bool && to == String:
		b, _ := v.AsBool()
		return NewString(formatBool(b))

	case from == IntList && to == FloatList:
		il, _ := v.AsIntList()
		out := make([]float32, len(il))
		for i, x := range il {
			out[i] = float32(x)
		}
		return NewFloatList(out)
	case from == FloatList && to == IntList:
		fl, _ := v.AsFloatList()
		out := make([]int32, len(fl))
		for i, x := range fl {
			out[i] = int32(x)
		}
		return NewIntList(out)

	case from == ColorList && to == Vec4List:
		cl, _ := v.AsColorList()
		out := make([][4]float32, len(cl))
		for i, c := range cl {
			out[i] = [4]float32{c.R, c.G, c.B, c.A}
		}
		return NewVec4List(out)
	case from == Vec4List && to == ColorList:
		vl, _ := v.AsVec4List()
		out := make([]RGBA, len(vl))
		for i, e := range vl {
			out[i] = RGBA{R: e[0], G: e[1], B: e[2], A: e[3]}
		}
		return NewColorList(out)

	case from == FloatList && to == Vec2List:
		return NewVec2List(groupFloats2(mustFloatList(v)))
	case from == FloatList && to == Vec3List:
		return NewVec3List(groupFloats3(mustFloatList(v)))
	case from == FloatList && to == Vec4List:
		return NewVec4List(groupFloats4(mustFloatList(v)))
	case from == Vec2List && to == FloatList:
		vl, _ := v.AsVec2List()
		out := make([]float32, 0, len(vl)*2)
		for _, e := range vl {
			out = append(out, e[0], e[1])
		}
		return NewFloatList(out)
	case from == Vec3List && to == FloatList:
		vl, _ := v.AsVec3List()
		out := make([]float32, 0, len(vl)*3)
		for _, e := range vl {
			out = append(out, e[0], e[1], e[2])
		}
		return NewFloatList(out)
	case from == Vec4List && to == FloatList:
		vl, _ := v.AsVec4List()
		out := make([]float32, 0, len(vl)*4)
		for _, e := range vl {
			out = append(out, e[0], e[1], e[2], e[3])
		}
		return NewFloatList(out)
	}

	if listKind, ok := ListKindOf(from); ok && listKind == to {
		return wrapSingleton(v, to)
	}

	return Zero(to)
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// wrapSingleton builds a single-element list of kind listKind containing v.
func wrapSingleton(v Value, listKind Kind) Value {
	switch listKind {
	case FloatList:
		f, _ := v.AsFloat()
		return NewFloatList([]float32{f})
	case IntList:
		i, _ := v.AsInt()
		return NewIntList([]int32{i})
	case BoolList:
		b, _ := v.AsBool()
		return NewBoolList([]bool{b})
	case StringList:
		s, _ := v.AsString()
		return NewStringList([]string{s})
	case Vec2List:
		v2, _ := v.AsVec2()
		return NewVec2List([][2]float32{v2})
	case Vec3List:
		v3, _ := v.AsVec3()
		return NewVec3List([][3]float32{v3})
	case Vec4List:
		v4, _ := v.AsVec4()
		return NewVec4List([][4]float32{v4})
	case ColorList:
		c, _ := v.AsColor()
		return NewColorList([]RGBA{c})
	default:
		return Zero(listKind)
	}
}

func mustFloatList(v Value) []float32 {
	fl, _ := v.AsFloatList()
	return fl
}

// groupFloats2/3/4 pack a flat float list into fixed-width tuples,
// discarding any trailing elements that don't fill a full tuple.
func groupFloats2(fl []float32) [][2]float32 {
	n := len(fl) / 2
	out := make([][2]float32, n)
	for i := 0; i < n; i++ {
		out[i] = [2]float32{fl[i*2], fl[i*2+1]}
	}
	return out
}

func groupFloats3(fl []float32) [][3]float32 {
	n := len(fl) / 3
	out := make([][3]float32, n)
	for i := 0; i < n; i++ {
		out[i] = [3]float32{fl[i*3], fl[i*3+1], fl[i*3+2]}
	}
	return out
}

func groupFloats4(fl []float32) [][4]float32 {
	n := len(fl) / 4
	out := make([][4]float32, n)
	for i := 0; i < n; i++ {
		out[i] = [4]float32{fl[i*4], fl[i*4+1], fl[i*4+2], fl[i*4+3]}
	}
	return out
}
