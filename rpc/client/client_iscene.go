package client

import (
	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/kmattheis/scenebridge/rpc/serializer"
	"github.com/kmattheis/scenebridge/rpc/transport"
)

// NewRPCSceneClient creates a new RPC scene client.
// The function takes a config, a transport and a serializer as parameters.
// It connects the transport eagerly so configuration problems surface here
// and not on the first command.
func NewRPCSceneClient(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.ISerializer,
) (ISceneClient, error) {

	// Connect the transport
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	// Create a new RPC scene client
	c := rpcSceneClient{
		rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	return &c, nil
}

type rpcSceneClient struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see client.ISceneClient)
// --------------------------------------------------------------------------

func (c *rpcSceneClient) CreateObject(kind string, location []float64, name string) (*ObjectState, error) {
	params := map[string]interface{}{}
	if kind != "" {
		params["object_type"] = kind
	}
	if location != nil {
		params["location"] = location
	}
	if name != "" {
		params["name"] = name
	}
	return objectState(invokeRPCCommand("create_object", params, c.transport, c.serializer))
}

func (c *rpcSceneClient) DeleteObject(name string) error {
	params := map[string]interface{}{"object_name": name}
	_, err := invokeRPCCommand("delete_object", params, c.transport, c.serializer)
	return err
}

func (c *rpcSceneClient) MoveObject(name string, location []float64) (*ObjectState, error) {
	params := map[string]interface{}{"object_name": name}
	if location != nil {
		params["location"] = location
	}
	return objectState(invokeRPCCommand("move_object", params, c.transport, c.serializer))
}

func (c *rpcSceneClient) ScaleObject(name string, scale []float64) (*ObjectState, error) {
	params := map[string]interface{}{"object_name": name}
	if scale != nil {
		params["scale"] = scale
	}
	return objectState(invokeRPCCommand("scale_object", params, c.transport, c.serializer))
}

func (c *rpcSceneClient) RotateObject(name string, rotation []float64) (*ObjectState, error) {
	params := map[string]interface{}{"object_name": name}
	if rotation != nil {
		params["rotation"] = rotation
	}
	return objectState(invokeRPCCommand("rotate_object", params, c.transport, c.serializer))
}

func (c *rpcSceneClient) DuplicateObject(name, newName string, offset []float64) (*ObjectState, error) {
	params := map[string]interface{}{"object_name": name}
	if newName != "" {
		params["new_name"] = newName
	}
	if offset != nil {
		params["offset"] = offset
	}
	return objectState(invokeRPCCommand("duplicate_object", params, c.transport, c.serializer))
}

func (c *rpcSceneClient) ParentObjects(childName, parentName string) error {
	params := map[string]interface{}{
		"child_name":  childName,
		"parent_name": parentName,
	}
	_, err := invokeRPCCommand("parent_objects", params, c.transport, c.serializer)
	return err
}

func (c *rpcSceneClient) ObjectInfo(name string) (*ObjectInfo, error) {
	params := map[string]interface{}{"object_name": name}
	resp, err := invokeRPCCommand("get_object_info", params, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}

	info := &ObjectInfo{}
	if err := decodeResult(resp, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *rpcSceneClient) SceneInfo() (*SceneInfo, error) {
	resp, err := invokeRPCCommand("get_scene_info", nil, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}

	info := &SceneInfo{}
	if err := decodeResult(resp, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *rpcSceneClient) SetCameraPosition(location, rotation []float64) (*ObjectState, error) {
	params := map[string]interface{}{}
	if location != nil {
		params["location"] = location
	}
	if rotation != nil {
		params["rotation"] = rotation
	}
	return objectState(invokeRPCCommand("set_camera_position", params, c.transport, c.serializer))
}

func (c *rpcSceneClient) CreateMaterial(name string, color []float64) (*MaterialInfo, error) {
	params := map[string]interface{}{}
	if name != "" {
		params["name"] = name
	}
	if color != nil {
		params["color"] = color
	}

	resp, err := invokeRPCCommand("create_material", params, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}

	info := &MaterialInfo{}
	if err := decodeResult(resp, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *rpcSceneClient) AssignMaterial(objectName, materialName string) error {
	params := map[string]interface{}{
		"object_name":   objectName,
		"material_name": materialName,
	}
	_, err := invokeRPCCommand("assign_material", params, c.transport, c.serializer)
	return err
}

func (c *rpcSceneClient) SetMaterialProperty(materialName, propertyName string, value interface{}) error {
	params := map[string]interface{}{
		"material_name": materialName,
		"property_name": propertyName,
		"value":         value,
	}
	_, err := invokeRPCCommand("set_material_property", params, c.transport, c.serializer)
	return err
}

func (c *rpcSceneClient) Materials() ([]MaterialInfo, error) {
	resp, err := invokeRPCCommand("get_materials", nil, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}

	var materials []MaterialInfo
	if err := decodeResult(resp, &materials); err != nil {
		return nil, err
	}
	return materials, nil
}

func (c *rpcSceneClient) CreateCollection(name, parentCollection string) (*CollectionInfo, error) {
	params := map[string]interface{}{}
	if name != "" {
		params["name"] = name
	}
	if parentCollection != "" {
		params["parent_collection"] = parentCollection
	}

	resp, err := invokeRPCCommand("create_collection", params, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}

	info := &CollectionInfo{}
	if err := decodeResult(resp, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *rpcSceneClient) MoveToCollection(objectNames []string, collectionName string) error {
	params := map[string]interface{}{
		"object_names":    objectNames,
		"collection_name": collectionName,
	}
	_, err := invokeRPCCommand("move_to_collection", params, c.transport, c.serializer)
	return err
}

func (c *rpcSceneClient) AddKeyframe(objectName, propertyName string, frame int, value []float64) error {
	params := map[string]interface{}{
		"object_name":   objectName,
		"property_name": propertyName,
		"frame":         frame,
	}
	if value != nil {
		params["value"] = value
	}
	_, err := invokeRPCCommand("add_keyframe", params, c.transport, c.serializer)
	return err
}

func (c *rpcSceneClient) SetAnimationRange(startFrame, endFrame int) error {
	params := map[string]interface{}{
		"start_frame": startFrame,
		"end_frame":   endFrame,
	}
	_, err := invokeRPCCommand("set_animation_range", params, c.transport, c.serializer)
	return err
}

func (c *rpcSceneClient) Send(cmdType string, params map[string]interface{}) (*common.Response, error) {
	return exchangeRPCCommand(cmdType, params, c.transport, c.serializer)
}
