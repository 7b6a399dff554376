package scene

import (
	"fmt"
	"sort"
)

// Blender-style frame range defaults for a fresh document.
const (
	defaultFrameStart = 1
	defaultFrameEnd   = 250
)

// Document is the in-memory scene state. It is confined to the host loop:
// no method takes a lock, the single-consumer task execution is the only
// synchronization.
type Document struct {
	objects     map[string]*Object
	materials   map[string]*Material
	collections map[string]*Collection
	active      string
	frameStart  int
	frameEnd    int
}

// NewDocument creates an empty document holding only the root collection.
func NewDocument() *Document {
	d := &Document{
		objects:     make(map[string]*Object),
		materials:   make(map[string]*Material),
		collections: make(map[string]*Collection),
		frameStart:  defaultFrameStart,
		frameEnd:    defaultFrameEnd,
	}
	d.collections[RootCollection] = &Collection{Name: RootCollection}
	return d
}

// --------------------------------------------------------------------------
// Internal Helpers
// --------------------------------------------------------------------------

// uniqueName returns base if unused, otherwise base with the first free
// numeric suffix (base.001, base.002, ...).
func uniqueName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if !taken(name) {
			return name
		}
	}
}

// defaultBaseName returns the name a new primitive gets when the client
// does not supply one.
func defaultBaseName(kind string) string {
	switch kind {
	case KindCube:
		return "Cube"
	case KindSphere:
		return "Sphere"
	case KindCylinder:
		return "Cylinder"
	case KindPlane:
		return "Plane"
	default:
		return "Object"
	}
}

func (d *Document) hasObject(name string) bool {
	_, ok := d.objects[name]
	return ok
}

func (d *Document) hasMaterial(name string) bool {
	_, ok := d.materials[name]
	return ok
}

// toFloat converts the raw wire value of a numeric property.
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// toColor converts the raw wire value of a color property. Three component
// values get an implicit alpha of 1.
func toColor(value interface{}) (Color, bool) {
	var components []float64
	switch v := value.(type) {
	case []interface{}:
		for _, c := range v {
			f, ok := toFloat(c)
			if !ok {
				return Color{}, false
			}
			components = append(components, f)
		}
	case []float64:
		components = v
	default:
		return Color{}, false
	}

	switch len(components) {
	case 3:
		return Color{components[0], components[1], components[2], 1.0}, true
	case 4:
		return Color{components[0], components[1], components[2], components[3]}, true
	default:
		return Color{}, false
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see scene/interface.go)
// --------------------------------------------------------------------------

func (d *Document) CreateObject(kind string, location Vec3, name string) (*Object, error) {
	switch kind {
	case KindCube, KindSphere, KindCylinder, KindPlane:
	default:
		return nil, fmt.Errorf("Unknown object type: %s", kind)
	}

	base := name
	if base == "" {
		base = defaultBaseName(kind)
	}

	obj := &Object{
		Name:       uniqueName(base, d.hasObject),
		Type:       TypeMesh,
		Location:   location,
		Scale:      Vec3{1, 1, 1},
		Collection: RootCollection,
		Keyframes:  make(map[string][]Keyframe),
	}
	d.objects[obj.Name] = obj
	d.active = obj.Name
	return obj, nil
}

func (d *Document) DeleteObject(name string) error {
	if !d.hasObject(name) {
		return fmt.Errorf("Object '%s' not found", name)
	}
	delete(d.objects, name)

	// Children stay in the scene, their parent reference is cleared
	for _, obj := range d.objects {
		if obj.Parent == name {
			obj.Parent = ""
		}
	}

	if d.active == name {
		d.active = ""
	}
	return nil
}

func (d *Document) MoveObject(name string, location Vec3) (*Object, error) {
	obj, ok := d.objects[name]
	if !ok {
		return nil, fmt.Errorf("Object '%s' not found", name)
	}
	obj.Location = location
	return obj, nil
}

func (d *Document) ScaleObject(name string, scale Vec3) (*Object, error) {
	obj, ok := d.objects[name]
	if !ok {
		return nil, fmt.Errorf("Object '%s' not found", name)
	}
	obj.Scale = scale
	return obj, nil
}

func (d *Document) RotateObject(name string, rotation Vec3) (*Object, error) {
	obj, ok := d.objects[name]
	if !ok {
		return nil, fmt.Errorf("Object '%s' not found", name)
	}
	obj.Rotation = rotation
	return obj, nil
}

func (d *Document) DuplicateObject(name, newName string, offset Vec3) (*Object, error) {
	src, ok := d.objects[name]
	if !ok {
		return nil, fmt.Errorf("Object '%s' not found", name)
	}

	base := newName
	if base == "" {
		base = src.Name
	}

	dup := &Object{
		Name:       uniqueName(base, d.hasObject),
		Type:       src.Type,
		Location:   Vec3{src.Location[0] + offset[0], src.Location[1] + offset[1], src.Location[2] + offset[2]},
		Rotation:   src.Rotation,
		Scale:      src.Scale,
		Parent:     src.Parent,
		Collection: src.Collection,
		Materials:  append([]string(nil), src.Materials...),
		Keyframes:  make(map[string][]Keyframe),
	}
	for prop, frames := range src.Keyframes {
		dup.Keyframes[prop] = append([]Keyframe(nil), frames...)
	}

	d.objects[dup.Name] = dup
	d.active = dup.Name
	return dup, nil
}

func (d *Document) ParentObjects(childName, parentName string) error {
	child, ok := d.objects[childName]
	if !ok {
		return fmt.Errorf("Object '%s' not found", childName)
	}
	if !d.hasObject(parentName) {
		return fmt.Errorf("Object '%s' not found", parentName)
	}
	if childName == parentName {
		return fmt.Errorf("Cannot parent '%s' to itself", childName)
	}

	// Reject cycles: the child must not be an ancestor of the new parent
	for cur := parentName; cur != ""; {
		obj, ok := d.objects[cur]
		if !ok {
			break
		}
		if obj.Parent == childName {
			return fmt.Errorf("Parenting '%s' to '%s' would create a cycle", childName, parentName)
		}
		cur = obj.Parent
	}

	child.Parent = parentName
	return nil
}

func (d *Document) GetObject(name string) (*Object, error) {
	obj, ok := d.objects[name]
	if !ok {
		return nil, fmt.Errorf("Object '%s' not found", name)
	}
	return obj, nil
}

func (d *Document) Objects() []*Object {
	objs := make([]*Object, 0, len(d.objects))
	for _, obj := range d.objects {
		objs = append(objs, obj)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].Name < objs[j].Name })
	return objs
}

func (d *Document) ActiveObject() string {
	return d.active
}

func (d *Document) SetCameraPosition(location, rotation Vec3) (*Object, error) {
	// Reuse the scene camera if one exists
	var cam *Object
	for _, obj := range d.Objects() {
		if obj.Type == TypeCamera {
			cam = obj
			break
		}
	}

	if cam == nil {
		cam = &Object{
			Name:       uniqueName("Camera", d.hasObject),
			Type:       TypeCamera,
			Scale:      Vec3{1, 1, 1},
			Collection: RootCollection,
			Keyframes:  make(map[string][]Keyframe),
		}
		d.objects[cam.Name] = cam
	}

	cam.Location = location
	cam.Rotation = rotation
	return cam, nil
}

func (d *Document) CreateMaterial(name string, color Color) (*Material, error) {
	base := name
	if base == "" {
		base = "Material"
	}

	mat := &Material{
		Name:      uniqueName(base, d.hasMaterial),
		Color:     color,
		Metallic:  0.0,
		Roughness: 0.5,
	}
	d.materials[mat.Name] = mat
	return mat, nil
}

func (d *Document) AssignMaterial(objectName, materialName string) error {
	obj, ok := d.objects[objectName]
	if !ok {
		return fmt.Errorf("Object '%s' not found", objectName)
	}
	if !d.hasMaterial(materialName) {
		return fmt.Errorf("Material '%s' not found", materialName)
	}

	if len(obj.Materials) > 0 {
		obj.Materials[0] = materialName
	} else {
		obj.Materials = append(obj.Materials, materialName)
	}
	return nil
}

func (d *Document) SetMaterialProperty(materialName, property string, value interface{}) error {
	mat, ok := d.materials[materialName]
	if !ok {
		return fmt.Errorf("Material '%s' not found", materialName)
	}

	switch property {
	case PropBaseColor:
		color, ok := toColor(value)
		if !ok {
			return fmt.Errorf("Invalid value for property '%s'", property)
		}
		mat.Color = color
	case PropMetallic:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("Invalid value for property '%s'", property)
		}
		mat.Metallic = f
	case PropRoughness:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("Invalid value for property '%s'", property)
		}
		mat.Roughness = f
	default:
		return fmt.Errorf("Unknown material property: %s", property)
	}
	return nil
}

func (d *Document) Materials() []*Material {
	mats := make([]*Material, 0, len(d.materials))
	for _, mat := range d.materials {
		mats = append(mats, mat)
	}
	sort.Slice(mats, func(i, j int) bool { return mats[i].Name < mats[j].Name })
	return mats
}

func (d *Document) CreateCollection(name, parent string) (*Collection, error) {
	if parent == "" {
		parent = RootCollection
	}
	if _, ok := d.collections[parent]; !ok {
		return nil, fmt.Errorf("Collection '%s' not found", parent)
	}

	base := name
	if base == "" {
		base = "Collection"
	}

	col := &Collection{
		Name: uniqueName(base, func(n string) bool {
			_, ok := d.collections[n]
			return ok
		}),
		Parent: parent,
	}
	d.collections[col.Name] = col
	return col, nil
}

func (d *Document) MoveToCollection(objectNames []string, collectionName string) error {
	if _, ok := d.collections[collectionName]; !ok {
		return fmt.Errorf("Collection '%s' not found", collectionName)
	}

	// Validate everything before mutating so the move is all-or-nothing
	objs := make([]*Object, 0, len(objectNames))
	for _, name := range objectNames {
		obj, ok := d.objects[name]
		if !ok {
			return fmt.Errorf("Object '%s' not found", name)
		}
		objs = append(objs, obj)
	}

	for _, obj := range objs {
		obj.Collection = collectionName
	}
	return nil
}

func (d *Document) AddKeyframe(objectName, property string, frame int, value Vec3) error {
	obj, ok := d.objects[objectName]
	if !ok {
		return fmt.Errorf("Object '%s' not found", objectName)
	}

	// Keyframing records the value and applies it to the object
	switch property {
	case PropLocation:
		obj.Location = value
	case PropRotation:
		obj.Rotation = value
	case PropScale:
		obj.Scale = value
	default:
		return fmt.Errorf("Cannot keyframe property '%s'", property)
	}

	frames := obj.Keyframes[property]
	idx := sort.Search(len(frames), func(i int) bool { return frames[i].Frame >= frame })
	if idx < len(frames) && frames[idx].Frame == frame {
		frames[idx].Value = value
	} else {
		frames = append(frames, Keyframe{})
		copy(frames[idx+1:], frames[idx:])
		frames[idx] = Keyframe{Frame: frame, Value: value}
	}
	obj.Keyframes[property] = frames
	return nil
}

func (d *Document) SetAnimationRange(start, end int) error {
	if start > end {
		return fmt.Errorf("Invalid animation range: start %d is after end %d", start, end)
	}
	d.frameStart = start
	d.frameEnd = end
	return nil
}

func (d *Document) FrameRange() (int, int) {
	return d.frameStart, d.frameEnd
}
