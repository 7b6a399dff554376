package scene

// --------------------------------------------------------------------------
// Value Types
// --------------------------------------------------------------------------

// Vec3 is an XYZ triple used for locations, rotations (Euler angles in
// radians) and scale factors.
type Vec3 [3]float64

// Color is an RGBA quadruple with components in the range 0 to 1.
type Color [4]float64

// DefaultColor is the base color new materials start with.
var DefaultColor = Color{0.8, 0.8, 0.8, 1.0}

// Object kinds accepted by CreateObject.
const (
	KindCube     = "CUBE"
	KindSphere   = "SPHERE"
	KindCylinder = "CYLINDER"
	KindPlane    = "PLANE"
)

// Object types as reported in scene listings. All primitives are meshes,
// the camera is its own type.
const (
	TypeMesh   = "MESH"
	TypeCamera = "CAMERA"
)

// Material property names accepted by SetMaterialProperty.
const (
	PropBaseColor = "Base Color"
	PropMetallic  = "Metallic"
	PropRoughness = "Roughness"
)

// Animatable object property names accepted by AddKeyframe.
const (
	PropLocation = "location"
	PropRotation = "rotation"
	PropScale    = "scale"
)

// RootCollection is the collection every fresh document starts with.
// Objects are linked to it until moved elsewhere.
const RootCollection = "Scene Collection"

// Keyframe records an animated value for one property at one frame.
type Keyframe struct {
	Frame int
	Value Vec3
}

// Object is a single scene object. Materials holds the names of assigned
// materials in slot order, Keyframes maps an animatable property name to
// its keyframes sorted by frame.
type Object struct {
	Name       string
	Type       string
	Location   Vec3
	Rotation   Vec3
	Scale      Vec3
	Parent     string
	Collection string
	Materials  []string
	Keyframes  map[string][]Keyframe
}

// Material is a single material with the subset of surface properties the
// bridge exposes.
type Material struct {
	Name      string
	Color     Color
	Metallic  float64
	Roughness float64
}

// Collection groups objects. Parent is empty only for the root collection.
type Collection struct {
	Name   string
	Parent string
}

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IScene is the generic interface for interacting with a scene document.
// All mutating operations return an error whose message is intended for the
// remote client verbatim, read operations return the requested data along
// with an error.
//
// Implementations are NOT required to be safe for concurrent use. The
// bridge guarantees that every call happens on the host loop.
type IScene interface {
	// CreateObject adds a primitive of the given kind. If name is empty the
	// kind's default base name is used. Names are deduplicated with numeric
	// suffixes (Cube, Cube.001, ...). The new object becomes active.
	CreateObject(kind string, location Vec3, name string) (*Object, error)
	// DeleteObject removes an object. Children of the object stay in the
	// scene with their parent reference cleared.
	DeleteObject(name string) error
	// MoveObject sets an object's location.
	MoveObject(name string, location Vec3) (*Object, error)
	// ScaleObject sets an object's scale factors.
	ScaleObject(name string, scale Vec3) (*Object, error)
	// RotateObject sets an object's rotation (Euler angles in radians).
	RotateObject(name string, rotation Vec3) (*Object, error)
	// DuplicateObject copies an object including transform, materials and
	// keyframes. The copy is placed at the source location plus offset and
	// becomes active.
	DuplicateObject(name, newName string, offset Vec3) (*Object, error)
	// ParentObjects makes child a child of parent. Self-parenting and
	// parent cycles are rejected.
	ParentObjects(childName, parentName string) error
	// GetObject returns a single object by name.
	GetObject(name string) (*Object, error)
	// Objects returns all objects sorted by name.
	Objects() []*Object
	// ActiveObject returns the name of the active object, or "" if none.
	ActiveObject() string
	// SetCameraPosition moves the scene camera, creating a "Camera" object
	// first if the scene has none.
	SetCameraPosition(location, rotation Vec3) (*Object, error)

	// CreateMaterial adds a material. If name is empty "Material" is used
	// as the base name. Names are deduplicated like object names.
	CreateMaterial(name string, color Color) (*Material, error)
	// AssignMaterial assigns a material to an object's first slot,
	// replacing a previous assignment.
	AssignMaterial(objectName, materialName string) error
	// SetMaterialProperty sets a single material property ("Base Color",
	// "Metallic" or "Roughness"). The value is validated per property.
	SetMaterialProperty(materialName, property string, value interface{}) error
	// Materials returns all materials sorted by name.
	Materials() []*Material

	// CreateCollection adds a collection under the given parent, or under
	// the root collection if parent is empty.
	CreateCollection(name, parent string) (*Collection, error)
	// MoveToCollection moves objects into a collection. The operation is
	// atomic: if any object or the collection is missing, nothing moves.
	MoveToCollection(objectNames []string, collectionName string) error

	// AddKeyframe sets the property to the given value and records a
	// keyframe for it at the given frame, replacing a keyframe previously
	// recorded at the same frame.
	AddKeyframe(objectName, property string, frame int, value Vec3) error
	// SetAnimationRange sets the scene frame range.
	SetAnimationRange(start, end int) error
	// FrameRange returns the scene frame range.
	FrameRange() (start, end int)
}
