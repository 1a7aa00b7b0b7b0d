package value

// IsNumeric reports whether k is a bare scalar number (Float or Int).
func IsNumeric(k Kind) bool {
	return k == Float || k == Int
}

// IsVector reports whether k is one of the fixed-width vector kinds.
func IsVector(k Kind) bool {
	return k == Vec2 || k == Vec3 || k == Vec4
}

// IsColorLike reports whether k can stand in for a color: Color itself,
// or a vector wide enough to carry RGB/RGBA channels.
func IsColorLike(k Kind) bool {
	return k == Color || k == Vec3 || k == Vec4
}

// IsArithmetic reports whether k supports the elementwise arithmetic
// operators (+ - * /): numbers, vectors, and colors.
func IsArithmetic(k Kind) bool {
	return IsNumeric(k) || IsVector(k) || k == Color
}

// IsList reports whether k is one of the eight list kinds.
func IsList(k Kind) bool {
	switch k {
	case FloatList, IntList, BoolList, Vec2List, Vec3List, Vec4List, ColorList, StringList:
		return true
	default:
		return false
	}
}

// IsMatrix reports whether k is the Matrix4 kind.
func IsMatrix(k Kind) bool {
	return k == Matrix4
}

// IsAny always reports true; it is the constraint satisfied by every
// Kind, used by ports that accept an unconstrained value.
func IsAny(Kind) bool { return true }

// ElementKind returns the scalar/vector/color Kind that elements of the
// list kind k hold, and true if k is in fact a list kind.
func ElementKind(k Kind) (Kind, bool) {
	switch k {
	case FloatList:
		return Float, true
	case IntList:
		return Int, true
	case BoolList:
		return Bool, true
	case Vec2List:
		return Vec2, true
	case Vec3List:
		return Vec3, true
	case Vec4List:
		return Vec4, true
	case ColorList:
		return Color, true
	case StringList:
		return String, true
	default:
		return k, false
	}
}

// ListKindOf returns the list Kind whose elements are k, and true if
// such a list kind exists in the closed Kind set.
func ListKindOf(k Kind) (Kind, bool) {
	switch k {
	case Float:
		return FloatList, true
	case Int:
		return IntList, true
	case Bool:
		return BoolList, true
	case Vec2:
		return Vec2List, true
	case Vec3:
		return Vec3List, true
	case Vec4:
		return Vec4List, true
	case Color:
		return ColorList, true
	case String:
		return StringList, true
	default:
		return k, false
	}
}
