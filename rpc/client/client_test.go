package client

import (
	"testing"

	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/kmattheis/scenebridge/rpc/serializer"
	"github.com/kmattheis/scenebridge/rpc/server"
	"github.com/kmattheis/scenebridge/rpc/transport/tcp"
	"github.com/stretchr/testify/require"
)

// startSceneServer boots a full server on an ephemeral port and returns its
// address
func startSceneServer(t *testing.T, ser serializer.ISerializer) string {
	t.Helper()

	s := server.NewRPCServer(common.ServerConfig{
		Endpoint:          "127.0.0.1:0",
		ExecTimeoutSecond: 5,
		LogLevel:          "error",
	}, tcp.NewTCPDefaultServerTransport(), ser)

	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Close() })

	return s.Addr().String()
}

// newSceneClient connects a typed client to the given address
func newSceneClient(t *testing.T, addr string, ser serializer.ISerializer) ISceneClient {
	t.Helper()

	transport := tcp.NewTCPClientTransport()
	c, err := NewRPCSceneClient(common.ClientConfig{
		Endpoints:     []string{addr},
		TimeoutSecond: 5,
		RetryCount:    3,
	}, transport, ser)
	require.NoError(t, err)
	t.Cleanup(func() { _ = transport.Close() })

	return c
}

func TestSceneClientObjectLifecycle(t *testing.T) {
	ser := serializer.NewJSONSerializer()
	scene := newSceneClient(t, startSceneServer(t, ser), ser)

	obj, err := scene.CreateObject("CUBE", []float64{1, 2, 3}, "Box")
	require.NoError(t, err)
	require.Equal(t, "Box", obj.Name)
	require.Equal(t, "CUBE", obj.Type)
	require.Equal(t, []float64{1, 2, 3}, obj.Location)

	// A nil location reports the current position without moving
	obj, err = scene.MoveObject("Box", nil)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, obj.Location)

	obj, err = scene.MoveObject("Box", []float64{4, 5, 6})
	require.NoError(t, err)
	require.Equal(t, []float64{4, 5, 6}, obj.Location)

	obj, err = scene.ScaleObject("Box", []float64{2, 2, 2})
	require.NoError(t, err)
	require.Equal(t, []float64{2, 2, 2}, obj.Scale)

	dup, err := scene.DuplicateObject("Box", "", []float64{1, 0, 0})
	require.NoError(t, err)
	require.Equal(t, "Box.001", dup.Name)
	require.Equal(t, []float64{5, 5, 6}, dup.Location)

	require.NoError(t, scene.ParentObjects("Box.001", "Box"))

	info, err := scene.ObjectInfo("Box.001")
	require.NoError(t, err)
	require.Equal(t, "Box", info.Parent)
	require.Equal(t, []float64{2, 2, 2}, info.Scale)

	summary, err := scene.SceneInfo()
	require.NoError(t, err)
	require.Len(t, summary.Objects, 2)
	require.Equal(t, "Box.001", summary.ActiveObject)

	require.NoError(t, scene.DeleteObject("Box.001"))

	// The delete cleared the active object
	summary, err = scene.SceneInfo()
	require.NoError(t, err)
	require.Len(t, summary.Objects, 1)
	require.Empty(t, summary.ActiveObject)
}

func TestSceneClientMaterialFlow(t *testing.T) {
	ser := serializer.NewJSONSerializer()
	scene := newSceneClient(t, startSceneServer(t, ser), ser)

	_, err := scene.CreateObject("SPHERE", nil, "Orb")
	require.NoError(t, err)

	mat, err := scene.CreateMaterial("Steel", []float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	require.Equal(t, "Steel", mat.Name)
	require.Equal(t, []float64{0.1, 0.2, 0.3, 1}, mat.Color)

	require.NoError(t, scene.AssignMaterial("Orb", "Steel"))
	require.NoError(t, scene.SetMaterialProperty("Steel", "Roughness", 0.2))

	materials, err := scene.Materials()
	require.NoError(t, err)
	require.Len(t, materials, 1)
	require.Equal(t, "Steel", materials[0].Name)
	require.Equal(t, 0.2, materials[0].Roughness)

	info, err := scene.ObjectInfo("Orb")
	require.NoError(t, err)
	require.Equal(t, []string{"Steel"}, info.Materials)
}

func TestSceneClientCollectionsAndAnimation(t *testing.T) {
	ser := serializer.NewJSONSerializer()
	scene := newSceneClient(t, startSceneServer(t, ser), ser)

	_, err := scene.CreateObject("CUBE", nil, "Box")
	require.NoError(t, err)

	col, err := scene.CreateCollection("Props", "")
	require.NoError(t, err)
	require.Equal(t, "Props", col.Name)
	require.Equal(t, "Scene Collection", col.Parent)

	require.NoError(t, scene.MoveToCollection([]string{"Box"}, "Props"))

	require.NoError(t, scene.AddKeyframe("Box", "location", 1, []float64{0, 0, 0}))
	require.NoError(t, scene.AddKeyframe("Box", "location", 24, []float64{0, 0, 5}))
	require.NoError(t, scene.SetAnimationRange(1, 24))

	info, err := scene.ObjectInfo("Box")
	require.NoError(t, err)
	require.Equal(t, "Props", info.Collection)
	require.Equal(t, []Keyframe{
		{Frame: 1, Value: []float64{0, 0, 0}},
		{Frame: 24, Value: []float64{0, 0, 5}},
	}, info.Keyframes["location"])

	// The last key applied its value to the object
	require.Equal(t, []float64{0, 0, 5}, info.Location)
}

func TestSceneClientCameraPlacement(t *testing.T) {
	ser := serializer.NewJSONSerializer()
	scene := newSceneClient(t, startSceneServer(t, ser), ser)

	cam, err := scene.SetCameraPosition([]float64{0, -8, 4}, []float64{1.1, 0, 0.2})
	require.NoError(t, err)
	require.Equal(t, "Camera", cam.Name)
	require.Equal(t, []float64{0, -8, 4}, cam.Location)
	require.Equal(t, []float64{1.1, 0, 0.2}, cam.Rotation)
}

func TestSceneClientServerMessagesSurviveVerbatim(t *testing.T) {
	ser := serializer.NewJSONSerializer()
	scene := newSceneClient(t, startSceneServer(t, ser), ser)

	_, err := scene.MoveObject("Ghost", []float64{1, 2, 3})
	require.EqualError(t, err, "Object 'Ghost' not found")

	err = scene.AssignMaterial("Ghost", "Gold")
	require.EqualError(t, err, "Object 'Ghost' not found")

	_, err = scene.CreateObject("TORUS", nil, "")
	require.EqualError(t, err, "Unknown object type: TORUS")
}

func TestSceneClientRawSend(t *testing.T) {
	ser := serializer.NewJSONSerializer()
	scene := newSceneClient(t, startSceneServer(t, ser), ser)

	// Raw sends hand error responses through instead of converting them
	resp, err := scene.Send("frobnicate", nil)
	require.NoError(t, err)
	require.Equal(t, common.StatusError, resp.Status)
	require.Equal(t, "Unknown command: frobnicate", resp.Message)

	resp, err = scene.Send("create_object", map[string]interface{}{"name": "Raw"})
	require.NoError(t, err)
	require.Equal(t, common.StatusSuccess, resp.Status)
}

func TestSceneClientGOBSerializer(t *testing.T) {
	ser := serializer.NewGOBSerializer()
	scene := newSceneClient(t, startSceneServer(t, ser), ser)

	obj, err := scene.CreateObject("CYLINDER", []float64{0, 0, 2}, "Pillar")
	require.NoError(t, err)
	require.Equal(t, "Pillar", obj.Name)
	require.Equal(t, []float64{0, 0, 2}, obj.Location)

	require.NoError(t, scene.AddKeyframe("Pillar", "scale", 12, []float64{1, 1, 3}))

	info, err := scene.ObjectInfo("Pillar")
	require.NoError(t, err)
	require.Equal(t, []Keyframe{{Frame: 12, Value: []float64{1, 1, 3}}}, info.Keyframes["scale"])
}

func TestSceneClientCBORSerializer(t *testing.T) {
	ser := serializer.NewCBORSerializer()
	scene := newSceneClient(t, startSceneServer(t, ser), ser)

	obj, err := scene.CreateObject("PLANE", []float64{0.5, 1.5, 0}, "Ground")
	require.NoError(t, err)
	require.Equal(t, "Ground", obj.Name)
	require.Equal(t, []float64{0.5, 1.5, 0}, obj.Location)

	summary, err := scene.SceneInfo()
	require.NoError(t, err)
	require.Equal(t, "Ground", summary.ActiveObject)
}

func TestSceneClientConnectFailure(t *testing.T) {
	transport := tcp.NewTCPClientTransport()

	_, err := NewRPCSceneClient(common.ClientConfig{
		Endpoints:     []string{"127.0.0.1:1"},
		TimeoutSecond: 1,
		RetryCount:    1,
	}, transport, serializer.NewJSONSerializer())

	require.Error(t, err)
}
