package server

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/kmattheis/scenebridge/lib/scene"
	"github.com/kmattheis/scenebridge/rpc/bridge"
	"github.com/kmattheis/scenebridge/rpc/common"
)

// NewSceneServerAdapter creates the adapter exposing a scene to remote
// automation clients. Every handler it registers runs on the host loop, so
// the scene needs no locking of its own.
func NewSceneServerAdapter(sc scene.IScene) IRPCServerAdapter {
	return &sceneServerAdapterImpl{scene: sc}
}

type sceneServerAdapterImpl struct {
	scene scene.IScene
}

// --------------------------------------------------------------------------
// Interface Methods (docu see server.IRPCServerAdapter)
// --------------------------------------------------------------------------

func (adapter *sceneServerAdapterImpl) Register(d *bridge.Dispatcher) {
	// Object commands
	d.Register("create_object", adapter.handleCreateObject)
	d.Register("delete_object", adapter.handleDeleteObject)
	d.Register("move_object", adapter.handleMoveObject)
	d.Register("scale_object", adapter.handleScaleObject)
	d.Register("rotate_object", adapter.handleRotateObject)
	d.Register("duplicate_object", adapter.handleDuplicateObject)
	d.Register("parent_objects", adapter.handleParentObjects)
	d.Register("get_object_info", adapter.handleGetObjectInfo)
	d.Register("get_scene_info", adapter.handleGetSceneInfo)
	d.Register("set_camera_position", adapter.handleSetCameraPosition)

	// Material commands
	d.Register("create_material", adapter.handleCreateMaterial)
	d.Register("assign_material", adapter.handleAssignMaterial)
	d.Register("set_material_property", adapter.handleSetMaterialProperty)
	d.Register("get_materials", adapter.handleGetMaterials)

	// Collection commands
	d.Register("create_collection", adapter.handleCreateCollection)
	d.Register("move_to_collection", adapter.handleMoveToCollection)

	// Animation commands
	d.Register("add_keyframe", adapter.handleAddKeyframe)
	d.Register("set_animation_range", adapter.handleSetAnimationRange)
}

// --------------------------------------------------------------------------
// Object Handlers
// --------------------------------------------------------------------------

func (adapter *sceneServerAdapterImpl) handleCreateObject(params map[string]interface{}) *common.Response {
	p := struct {
		ObjectType string    `mapstructure:"object_type"`
		Location   []float64 `mapstructure:"location"`
		Name       string    `mapstructure:"name"`
	}{ObjectType: scene.KindCube}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	location, err := vec3Param(p.Location, scene.Vec3{})
	if err != nil {
		return common.NewErrorResponsef("Invalid location: %v", err)
	}

	obj, err := adapter.scene.CreateObject(p.ObjectType, location, p.Name)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewSuccessResponse(map[string]interface{}{
		"name":     obj.Name,
		"location": vecSlice(obj.Location),
		"type":     p.ObjectType,
	})
}

func (adapter *sceneServerAdapterImpl) handleDeleteObject(params map[string]interface{}) *common.Response {
	p := struct {
		ObjectName string `mapstructure:"object_name"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	if err := adapter.scene.DeleteObject(p.ObjectName); err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewMessageResponse("Object '%s' deleted", p.ObjectName)
}

func (adapter *sceneServerAdapterImpl) handleMoveObject(params map[string]interface{}) *common.Response {
	p := struct {
		ObjectName string    `mapstructure:"object_name"`
		Location   []float64 `mapstructure:"location"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	current, err := adapter.scene.GetObject(p.ObjectName)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	// A missing location leaves the object where it is
	location, err := vec3Param(p.Location, current.Location)
	if err != nil {
		return common.NewErrorResponsef("Invalid location: %v", err)
	}

	obj, err := adapter.scene.MoveObject(p.ObjectName, location)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewSuccessResponse(map[string]interface{}{
		"name":     obj.Name,
		"location": vecSlice(obj.Location),
	})
}

func (adapter *sceneServerAdapterImpl) handleScaleObject(params map[string]interface{}) *common.Response {
	p := struct {
		ObjectName string    `mapstructure:"object_name"`
		Scale      []float64 `mapstructure:"scale"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	current, err := adapter.scene.GetObject(p.ObjectName)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	// A missing scale keeps the object unchanged
	factors, err := vec3Param(p.Scale, current.Scale)
	if err != nil {
		return common.NewErrorResponsef("Invalid scale: %v", err)
	}

	obj, err := adapter.scene.ScaleObject(p.ObjectName, factors)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewSuccessResponse(map[string]interface{}{
		"name":  obj.Name,
		"scale": vecSlice(obj.Scale),
	})
}

func (adapter *sceneServerAdapterImpl) handleRotateObject(params map[string]interface{}) *common.Response {
	p := struct {
		ObjectName string    `mapstructure:"object_name"`
		Rotation   []float64 `mapstructure:"rotation"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	current, err := adapter.scene.GetObject(p.ObjectName)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	// A missing rotation keeps the object unchanged
	rotation, err := vec3Param(p.Rotation, current.Rotation)
	if err != nil {
		return common.NewErrorResponsef("Invalid rotation: %v", err)
	}

	obj, err := adapter.scene.RotateObject(p.ObjectName, rotation)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewSuccessResponse(map[string]interface{}{
		"name":     obj.Name,
		"rotation": vecSlice(obj.Rotation),
	})
}

func (adapter *sceneServerAdapterImpl) handleDuplicateObject(params map[string]interface{}) *common.Response {
	p := struct {
		ObjectName string    `mapstructure:"object_name"`
		NewName    string    `mapstructure:"new_name"`
		Offset     []float64 `mapstructure:"offset"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	offset, err := vec3Param(p.Offset, scene.Vec3{1, 0, 0})
	if err != nil {
		return common.NewErrorResponsef("Invalid offset: %v", err)
	}

	obj, err := adapter.scene.DuplicateObject(p.ObjectName, p.NewName, offset)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewSuccessResponse(map[string]interface{}{
		"name":     obj.Name,
		"location": vecSlice(obj.Location),
	})
}

func (adapter *sceneServerAdapterImpl) handleParentObjects(params map[string]interface{}) *common.Response {
	p := struct {
		ChildName  string `mapstructure:"child_name"`
		ParentName string `mapstructure:"parent_name"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	if err := adapter.scene.ParentObjects(p.ChildName, p.ParentName); err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewMessageResponse("Object '%s' parented to '%s'", p.ChildName, p.ParentName)
}

func (adapter *sceneServerAdapterImpl) handleGetObjectInfo(params map[string]interface{}) *common.Response {
	p := struct {
		ObjectName string `mapstructure:"object_name"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	obj, err := adapter.scene.GetObject(p.ObjectName)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	keyframes := make(map[string]interface{}, len(obj.Keyframes))
	for property, keys := range obj.Keyframes {
		list := make([]interface{}, 0, len(keys))
		for _, k := range keys {
			list = append(list, map[string]interface{}{
				"frame": k.Frame,
				"value": vecSlice(k.Value),
			})
		}
		keyframes[property] = list
	}

	return common.NewSuccessResponse(map[string]interface{}{
		"name":       obj.Name,
		"type":       obj.Type,
		"location":   vecSlice(obj.Location),
		"rotation":   vecSlice(obj.Rotation),
		"scale":      vecSlice(obj.Scale),
		"parent":     obj.Parent,
		"collection": obj.Collection,
		"materials":  append([]string{}, obj.Materials...),
		"keyframes":  keyframes,
	})
}

func (adapter *sceneServerAdapterImpl) handleGetSceneInfo(params map[string]interface{}) *common.Response {
	all := adapter.scene.Objects()

	objects := make([]interface{}, 0, len(all))
	for _, obj := range all {
		objects = append(objects, map[string]interface{}{
			"name":     obj.Name,
			"type":     obj.Type,
			"location": vecSlice(obj.Location),
			"rotation": vecSlice(obj.Rotation),
			"scale":    vecSlice(obj.Scale),
		})
	}

	result := map[string]interface{}{
		"objects": objects,
	}
	// The key is absent instead of null while nothing is active, null does
	// not survive every wire format
	if active := adapter.scene.ActiveObject(); active != "" {
		result["active_object"] = active
	}

	return common.NewSuccessResponse(result)
}

func (adapter *sceneServerAdapterImpl) handleSetCameraPosition(params map[string]interface{}) *common.Response {
	p := struct {
		Location []float64 `mapstructure:"location"`
		Rotation []float64 `mapstructure:"rotation"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	location, err := vec3Param(p.Location, scene.Vec3{})
	if err != nil {
		return common.NewErrorResponsef("Invalid location: %v", err)
	}
	rotation, err := vec3Param(p.Rotation, scene.Vec3{})
	if err != nil {
		return common.NewErrorResponsef("Invalid rotation: %v", err)
	}

	obj, err := adapter.scene.SetCameraPosition(location, rotation)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewSuccessResponse(map[string]interface{}{
		"name":     obj.Name,
		"location": vecSlice(obj.Location),
		"rotation": vecSlice(obj.Rotation),
	})
}

// --------------------------------------------------------------------------
// Material Handlers
// --------------------------------------------------------------------------

func (adapter *sceneServerAdapterImpl) handleCreateMaterial(params map[string]interface{}) *common.Response {
	p := struct {
		Name  string    `mapstructure:"name"`
		Color []float64 `mapstructure:"color"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	color, err := colorParam(p.Color, scene.DefaultColor)
	if err != nil {
		return common.NewErrorResponsef("Invalid color: %v", err)
	}

	mat, err := adapter.scene.CreateMaterial(p.Name, color)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewSuccessResponse(map[string]interface{}{
		"name":  mat.Name,
		"color": colorSlice(mat.Color),
	})
}

func (adapter *sceneServerAdapterImpl) handleAssignMaterial(params map[string]interface{}) *common.Response {
	p := struct {
		ObjectName   string `mapstructure:"object_name"`
		MaterialName string `mapstructure:"material_name"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	if err := adapter.scene.AssignMaterial(p.ObjectName, p.MaterialName); err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewMessageResponse("Material '%s' assigned to '%s'", p.MaterialName, p.ObjectName)
}

func (adapter *sceneServerAdapterImpl) handleSetMaterialProperty(params map[string]interface{}) *common.Response {
	p := struct {
		MaterialName string      `mapstructure:"material_name"`
		PropertyName string      `mapstructure:"property_name"`
		Value        interface{} `mapstructure:"value"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	// The value shape depends on the property, the scene validates it
	if err := adapter.scene.SetMaterialProperty(p.MaterialName, p.PropertyName, p.Value); err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewSuccessResponse(map[string]interface{}{
		"name":     p.MaterialName,
		"property": p.PropertyName,
		"value":    p.Value,
	})
}

func (adapter *sceneServerAdapterImpl) handleGetMaterials(params map[string]interface{}) *common.Response {
	all := adapter.scene.Materials()

	materials := make([]interface{}, 0, len(all))
	for _, mat := range all {
		materials = append(materials, map[string]interface{}{
			"name":      mat.Name,
			"color":     colorSlice(mat.Color),
			"metallic":  mat.Metallic,
			"roughness": mat.Roughness,
		})
	}

	return common.NewSuccessResponse(materials)
}

// --------------------------------------------------------------------------
// Collection Handlers
// --------------------------------------------------------------------------

func (adapter *sceneServerAdapterImpl) handleCreateCollection(params map[string]interface{}) *common.Response {
	p := struct {
		Name             string `mapstructure:"name"`
		ParentCollection string `mapstructure:"parent_collection"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	col, err := adapter.scene.CreateCollection(p.Name, p.ParentCollection)
	if err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewSuccessResponse(map[string]interface{}{
		"name":   col.Name,
		"parent": col.Parent,
	})
}

func (adapter *sceneServerAdapterImpl) handleMoveToCollection(params map[string]interface{}) *common.Response {
	p := struct {
		ObjectNames    []string `mapstructure:"object_names"`
		CollectionName string   `mapstructure:"collection_name"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	if err := adapter.scene.MoveToCollection(p.ObjectNames, p.CollectionName); err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewMessageResponse("Moved %d objects to collection '%s'", len(p.ObjectNames), p.CollectionName)
}

// --------------------------------------------------------------------------
// Animation Handlers
// --------------------------------------------------------------------------

func (adapter *sceneServerAdapterImpl) handleAddKeyframe(params map[string]interface{}) *common.Response {
	p := struct {
		ObjectName   string    `mapstructure:"object_name"`
		PropertyName string    `mapstructure:"property_name"`
		Frame        int       `mapstructure:"frame"`
		Value        []float64 `mapstructure:"value"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	value, err := vec3Param(p.Value, scene.Vec3{})
	if err != nil {
		return common.NewErrorResponsef("Invalid value: %v", err)
	}

	if err := adapter.scene.AddKeyframe(p.ObjectName, p.PropertyName, p.Frame, value); err != nil {
		return common.NewErrorResponse(err.Error())
	}

	return common.NewSuccessResponse(map[string]interface{}{
		"name":     p.ObjectName,
		"property": p.PropertyName,
		"frame":    p.Frame,
	})
}

func (adapter *sceneServerAdapterImpl) handleSetAnimationRange(params map[string]interface{}) *common.Response {
	p := struct {
		StartFrame int `mapstructure:"start_frame"`
		EndFrame   int `mapstructure:"end_frame"`
	}{}
	if resp := decodeParams(params, &p); resp != nil {
		return resp
	}

	if err := adapter.scene.SetAnimationRange(p.StartFrame, p.EndFrame); err != nil {
		return common.NewErrorResponse(err.Error())
	}

	start, end := adapter.scene.FrameRange()
	return common.NewSuccessResponse(map[string]interface{}{
		"start": start,
		"end":   end,
	})
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// decodeParams decodes the generic params map into a typed struct. Decoding
// is weakly typed so integer fields accept the float numbers JSON delivers.
func decodeParams(params map[string]interface{}, target interface{}) *common.Response {
	if err := mapstructure.WeakDecode(params, target); err != nil {
		return common.NewErrorResponsef("Invalid parameters: %v", err)
	}
	return nil
}

// vec3Param converts a decoded float slice into a Vec3, substituting def
// when the parameter was absent.
func vec3Param(values []float64, def scene.Vec3) (scene.Vec3, error) {
	if values == nil {
		return def, nil
	}
	if len(values) != 3 {
		return scene.Vec3{}, fmt.Errorf("expected 3 numbers, got %d", len(values))
	}
	return scene.Vec3{values[0], values[1], values[2]}, nil
}

// colorParam converts a decoded float slice into a Color, substituting def
// when the parameter was absent. Three components imply full alpha.
func colorParam(values []float64, def scene.Color) (scene.Color, error) {
	switch len(values) {
	case 0:
		return def, nil
	case 3:
		return scene.Color{values[0], values[1], values[2], 1.0}, nil
	case 4:
		return scene.Color{values[0], values[1], values[2], values[3]}, nil
	default:
		return scene.Color{}, fmt.Errorf("expected 3 or 4 numbers, got %d", len(values))
	}
}

// vecSlice copies a Vec3 into a fresh wire-safe slice. Result payloads must
// never alias live scene state, they are serialized on the connection
// goroutine while later commands may already be mutating the scene.
func vecSlice(v scene.Vec3) []float64 {
	return []float64{v[0], v[1], v[2]}
}

// colorSlice copies a Color into a fresh wire-safe slice.
func colorSlice(c scene.Color) []float64 {
	return []float64{c[0], c[1], c[2], c[3]}
}
