package client

import (
	"github.com/kmattheis/scenebridge/rpc/common"
)

// ObjectState is the transform state of one object as reported by the
// server. Commands that touch only part of the transform leave the other
// fields empty.
type ObjectState struct {
	Name     string    `mapstructure:"name"`
	Type     string    `mapstructure:"type"`
	Location []float64 `mapstructure:"location"`
	Rotation []float64 `mapstructure:"rotation"`
	Scale    []float64 `mapstructure:"scale"`
}

// ObjectInfo is the full server-side state of one object
type ObjectInfo struct {
	Name       string                `mapstructure:"name"`
	Type       string                `mapstructure:"type"`
	Location   []float64             `mapstructure:"location"`
	Rotation   []float64             `mapstructure:"rotation"`
	Scale      []float64             `mapstructure:"scale"`
	Parent     string                `mapstructure:"parent"`
	Collection string                `mapstructure:"collection"`
	Materials  []string              `mapstructure:"materials"`
	Keyframes  map[string][]Keyframe `mapstructure:"keyframes"`
}

// Keyframe is one recorded animation key
type Keyframe struct {
	Frame int       `mapstructure:"frame"`
	Value []float64 `mapstructure:"value"`
}

// SceneInfo is the scene summary returned by the server. ActiveObject is
// empty while no object is active
type SceneInfo struct {
	Objects      []ObjectState `mapstructure:"objects"`
	ActiveObject string        `mapstructure:"active_object"`
}

// MaterialInfo describes one material
type MaterialInfo struct {
	Name      string    `mapstructure:"name"`
	Color     []float64 `mapstructure:"color"`
	Metallic  float64   `mapstructure:"metallic"`
	Roughness float64   `mapstructure:"roughness"`
}

// CollectionInfo describes one collection
type CollectionInfo struct {
	Name   string `mapstructure:"name"`
	Parent string `mapstructure:"parent"`
}

// ISceneClient is the typed client for the scene command protocol. Each
// method wraps exactly one wire command. A response with error status is
// converted into a Go error carrying the server message, except for the
// raw Send method which hands the response through unchanged.
//
// Optional parameters follow the server defaults when their zero value is
// passed: an empty kind creates a cube, a nil vector leaves the server-side
// default or the current object state untouched, an empty name lets the
// server pick one.
type ISceneClient interface {
	// CreateObject adds a primitive of the given kind to the scene and
	// returns its assigned name and transform
	CreateObject(kind string, location []float64, name string) (*ObjectState, error)

	// DeleteObject removes the named object from the scene
	DeleteObject(name string) error

	// MoveObject sets the location of the named object
	MoveObject(name string, location []float64) (*ObjectState, error)

	// ScaleObject sets the scale factors of the named object
	ScaleObject(name string, scale []float64) (*ObjectState, error)

	// RotateObject sets the euler rotation of the named object
	RotateObject(name string, rotation []float64) (*ObjectState, error)

	// DuplicateObject copies the named object, shifted by offset
	DuplicateObject(name, newName string, offset []float64) (*ObjectState, error)

	// ParentObjects makes child a child of parent
	ParentObjects(childName, parentName string) error

	// ObjectInfo returns the full state of the named object
	ObjectInfo(name string) (*ObjectInfo, error)

	// SceneInfo returns a summary of all objects in the scene
	SceneInfo() (*SceneInfo, error)

	// SetCameraPosition places the scene camera, creating it on first use
	SetCameraPosition(location, rotation []float64) (*ObjectState, error)

	// CreateMaterial adds a material with the given base color
	CreateMaterial(name string, color []float64) (*MaterialInfo, error)

	// AssignMaterial assigns the named material to the named object
	AssignMaterial(objectName, materialName string) error

	// SetMaterialProperty updates a single material property
	SetMaterialProperty(materialName, propertyName string, value interface{}) error

	// Materials lists all materials in the scene
	Materials() ([]MaterialInfo, error)

	// CreateCollection adds a collection under the given parent
	CreateCollection(name, parentCollection string) (*CollectionInfo, error)

	// MoveToCollection moves the named objects into the named collection
	MoveToCollection(objectNames []string, collectionName string) error

	// AddKeyframe records an animation key for one object property
	AddKeyframe(objectName, propertyName string, frame int, value []float64) error

	// SetAnimationRange sets the scene frame range
	SetAnimationRange(startFrame, endFrame int) error

	// Send sends a raw command. The response is returned as-is, error
	// responses are not converted into Go errors. Intended for commands
	// without a typed wrapper
	Send(cmdType string, params map[string]interface{}) (*common.Response, error)
}
