// Package value implements the closed value-kind system shared by every
// port, operator, and conversion in fluxrt: a tagged union of scalar,
// vector, color, gradient, matrix, and list kinds (see Kind), plus the
// category predicates and coercion lattice that let polymorphic ports
// and the graph's auto-conversion step reason about compatibility.
//
// Value is a plain struct rather than an interface{} union so that the
// zero Value (Kind == Float, 0.0) is always well-formed and so that
// scalar coercion never allocates.
package value

import "fmt"

// Kind tags the shape a Value holds. The set is closed: every switch
// over Kind in this module is expected to be exhaustive, and adding a
// new Kind is a breaking change to the whole graph (ports, registry
// parameter types, and the coercion lattice all enumerate Kind).
type Kind int

const (
	Float Kind = iota
	Int
	Bool
	Vec2
	Vec3
	Vec4
	String
	Color
	Gradient
	Matrix4
	FloatList
	IntList
	BoolList
	Vec2List
	Vec3List
	Vec4List
	ColorList
	StringList
)

// String renders the Kind's canonical name, used in error messages and
// registry introspection.
func (k Kind) String() string {
	switch k {
	case Float:
		return "Float"
	case Int:
		return "Int"
	case Bool:
		return "Bool"
	case Vec2:
		return "Vec2"
	case Vec3:
		return "Vec3"
	case Vec4:
		return "Vec4"
	case String:
		return "String"
	case Color:
		return "Color"
	case Gradient:
		return "Gradient"
	case Matrix4:
		return "Matrix4"
	case FloatList:
		return "FloatList"
	case IntList:
		return "IntList"
	case BoolList:
		return "BoolList"
	case Vec2List:
		return "Vec2List"
	case Vec3List:
		return "Vec3List"
	case Vec4List:
		return "Vec4List"
	case ColorList:
		return "ColorList"
	case StringList:
		return "StringList"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RGBA is the color value shape: four independent float32 channels.
type RGBA struct {
	R, G, B, A float32
}

// GradientStop is one control point of a Gradient: a position in [0,1]
// (not enforced by this package — callers define their own convention)
// and the color at that position.
type GradientStop struct {
	Position float32
	Color    RGBA
}

// Value is the tagged union described by Kind. Only the field(s)
// matching Kind are meaningful; all others hold their zero value.
type Value struct {
	kind Kind

	f32     float32
	i32     int32
	boolean bool
	str     string
	vec2    [2]float32
	vec3    [3]float32
	vec4    [4]float32
	color   RGBA
	matrix  [4][4]float32
	grad    []GradientStop

	floatList  []float32
	intList    []int32
	boolList   []bool
	vec2List   [][2]float32
	vec3List   [][3]float32
	vec4List   [][4]float32
	colorList  []RGBA
	stringList []string
}

// Kind reports the tag of v.
func (v Value) Kind() Kind { return v.kind }

// --- Constructors ----------------------------------------------------

func NewFloat(f float32) Value   { return Value{kind: Float, f32: f} }
func NewInt(i int32) Value       { return Value{kind: Int, i32: i} }
func NewBool(b bool) Value       { return Value{kind: Bool, boolean: b} }
func NewVec2(v [2]float32) Value { return Value{kind: Vec2, vec2: v} }
func NewVec3(v [3]float32) Value { return Value{kind: Vec3, vec3: v} }
func NewVec4(v [4]float32) Value { return Value{kind: Vec4, vec4: v} }
func NewString(s string) Value   { return Value{kind: String, str: s} }
func NewColor(c RGBA) Value      { return Value{kind: Color, color: c} }
func NewGradient(stops []GradientStop) Value {
	return Value{kind: Gradient, grad: append([]GradientStop(nil), stops...)}
}
func NewMatrix4(m [4][4]float32) Value { return Value{kind: Matrix4, matrix: m} }

func NewFloatList(v []float32) Value  { return Value{kind: FloatList, floatList: cloneF32(v)} }
func NewIntList(v []int32) Value      { return Value{kind: IntList, intList: cloneI32(v)} }
func NewBoolList(v []bool) Value      { return Value{kind: BoolList, boolList: cloneBool(v)} }
func NewVec2List(v [][2]float32) Value {
	return Value{kind: Vec2List, vec2List: append([][2]float32(nil), v...)}
}
func NewVec3List(v [][3]float32) Value {
	return Value{kind: Vec3List, vec3List: append([][3]float32(nil), v...)}
}
func NewVec4List(v [][4]float32) Value {
	return Value{kind: Vec4List, vec4List: append([][4]float32(nil), v...)}
}
func NewColorList(v []RGBA) Value {
	return Value{kind: ColorList, colorList: append([]RGBA(nil), v...)}
}
func NewStringList(v []string) Value {
	return Value{kind: StringList, stringList: append([]string(nil), v...)}
}

func cloneF32(v []float32) []float32 { return append([]float32(nil), v...) }
func cloneI32(v []int32) []int32     { return append([]int32(nil), v...) }
func cloneBool(v []bool) []bool      { return append([]bool(nil), v...) }

// --- Accessors ---------------------------------------------------------
//
// Each As* accessor returns the zero value and false when v is not of
// the matching Kind; callers that want coercion should call Coerce
// first (see coerce.go).

func (v Value) AsFloat() (float32, bool) {
	if v.kind != Float {
		return 0, false
	}
	return v.f32, true
}

func (v Value) AsInt() (int32, bool) {
	if v.kind != Int {
		return 0, false
	}
	return v.i32, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.boolean, true
}

func (v Value) AsVec2() ([2]float32, bool) {
	if v.kind != Vec2 {
		return [2]float32{}, false
	}
	return v.vec2, true
}

func (v Value) AsVec3() ([3]float32, bool) {
	if v.kind != Vec3 {
		return [3]float32{}, false
	}
	return v.vec3, true
}

func (v Value) AsVec4() ([4]float32, bool) {
	if v.kind != Vec4 {
		return [4]float32{}, false
	}
	return v.vec4, true
}

func (v Value) AsString() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.str, true
}

func (v Value) AsColor() (RGBA, bool) {
	if v.kind != Color {
		return RGBA{}, false
	}
	return v.color, true
}

func (v Value) AsGradient() ([]GradientStop, bool) {
	if v.kind != Gradient {
		return nil, false
	}
	return v.grad, true
}

func (v Value) AsMatrix4() ([4][4]float32, bool) {
	if v.kind != Matrix4 {
		return [4][4]float32{}, false
	}
	return v.matrix, true
}

func (v Value) AsFloatList() ([]float32, bool) {
	if v.kind != FloatList {
		return nil, false
	}
	return v.floatList, true
}

func (v Value) AsIntList() ([]int32, bool) {
	if v.kind != IntList {
		return nil, false
	}
	return v.intList, true
}

func (v Value) AsBoolList() ([]bool, bool) {
	if v.kind != BoolList {
		return nil, false
	}
	return v.boolList, true
}

func (v Value) AsVec2List() ([][2]float32, bool) {
	if v.kind != Vec2List {
		return nil, false
	}
	return v.vec2List, true
}

func (v Value) AsVec3List() ([][3]float32, bool) {
	if v.kind != Vec3List {
		return nil, false
	}
	return v.vec3List, true
}

func (v Value) AsVec4List() ([][4]float32, bool) {
	if v.kind != Vec4List {
		return nil, false
	}
	return v.vec4List, true
}

func (v Value) AsColorList() ([]RGBA, bool) {
	if v.kind != ColorList {
		return nil, false
	}
	return v.colorList, true
}

func (v Value) AsStringList() ([]string, bool) {
	if v.kind != StringList {
		return nil, false
	}
	return v.stringList, true
}

// Zero returns the default value for kind: the value every input port
// falls back to and the value every uncoercible conversion lands on.
func Zero(kind Kind) Value {
	switch kind {
	case Float:
		return NewFloat(0)
	case Int:
		return NewInt(0)
	case Bool:
		return NewBool(false)
	case Vec2:
		return NewVec2([2]float32{})
	case Vec3:
		return NewVec3([3]float32{})
	case Vec4:
		return NewVec4([4]float32{})
	case String:
		return NewString("")
	case Color:
		return NewColor(RGBA{})
	case Gradient:
		return NewGradient(nil)
	case Matrix4:
		return NewMatrix4([4][4]float32{})
	case FloatList:
		return NewFloatList(nil)
	case IntList:
		return NewIntList(nil)
	case BoolList:
		return NewBoolList(nil)
	case Vec2List:
		return NewVec2List(nil)
	case Vec3List:
		return NewVec3List(nil)
	case Vec4List:
		return NewVec4List(nil)
	case ColorList:
		return NewColorList(nil)
	case StringList:
		return NewStringList(nil)
	default:
		return NewFloat(0)
	}
}

// Equal reports whether a and b hold the same Kind and contents.
// Intended for tests; not used on any hot path.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Float:
		return a.f32 == b.f32
	case Int:
		return a.i32 == b.i32
	case Bool:
		return a.boolean == b.boolean
	case Vec2:
		return a.vec2 == b.vec2
	case Vec3:
		return a.vec3 == b.vec3
	case Vec4:
		return a.vec4 == b.vec4
	case String:
		return a.str == b.str
	case Color:
		return a.color == b.color
	case Matrix4:
		return a.matrix == b.matrix
	case Gradient:
		return gradientEqual(a.grad, b.grad)
	case FloatList:
		return f32SliceEqual(a.floatList, b.floatList)
	case IntList:
		return i32SliceEqual(a.intList, b.intList)
	case BoolList:
		return boolSliceEqual(a.boolList, b.boolList)
	case Vec2List:
		return vec2SliceEqual(a.vec2List, b.vec2List)
	case Vec3List:
		return vec3SliceEqual(a.vec3List, b.vec3List)
	case Vec4List:
		return vec4SliceEqual(a.vec4List, b.vec4List)
	case ColorList:
		return colorSliceEqual(a.colorList, b.colorList)
	case StringList:
		return stringSliceEqual(a.stringList, b.stringList)
	default:
		return false
	}
}

func gradientEqual(a, b []GradientStop) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func f32SliceEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func i32SliceEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func boolSliceEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func vec2SliceEqual(a, b [][2]float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func vec3SliceEqual(a, b [][3]float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func vec4SliceEqual(a, b [][4]float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func colorSliceEqual(a, b []RGBA) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
