package serializer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kmattheis/scenebridge/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() ISerializer{
	"JSON": NewJSONSerializer,
	"GOB":  NewGOBSerializer,
	"CBOR": NewCBORSerializer,
}

// testCommands creates a set of test commands with different param shapes.
// Numeric values are float64 so that all formats decode to the same
// in-memory representation.
func testCommands() []common.Command {
	return []common.Command{
		// Command without params
		{Type: "get_scene_info"},

		// Command with string and array params
		{
			Type: "create_object",
			Params: map[string]interface{}{
				"object_type": "CUBE",
				"location":    []interface{}{0.0, 0.0, 0.0},
				"name":        "Box",
			},
		},

		// Command with nested map params
		{
			Type: "set_material_property",
			Params: map[string]interface{}{
				"material_name": "Steel",
				"property_name": "Base Color",
				"value":         []interface{}{0.8, 0.8, 0.8, 1.0},
			},
		},
	}
}

// testResponses creates a set of test responses with the shapes the
// bridge actually produces
func testResponses() []common.Response {
	return []common.Response{
		// Success with result payload
		{
			Status: common.StatusSuccess,
			Result: map[string]interface{}{
				"name":     "Box",
				"location": []interface{}{1.0, 2.0, 3.0},
				"type":     "CUBE",
			},
		},

		// Success with message only
		{
			Status:  common.StatusSuccess,
			Message: "Object 'Box' deleted",
		},

		// Error response
		{
			Status:  common.StatusError,
			Message: "Object 'Missing' not found",
		},
	}
}

// TestCommandRoundTrip tests that commands can be serialized and deserialized correctly
func TestCommandRoundTrip(t *testing.T) {
	commands := testCommands()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, cmd := range commands {
				// Serialize
				data, err := serializer.Serialize(cmd)
				if err != nil {
					t.Errorf("Failed to serialize command %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Command
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize command %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(cmd, result) {
					t.Errorf("Command %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, cmd, result)
				}
			}
		})
	}
}

// TestResponseRoundTrip tests that responses can be serialized and deserialized correctly
func TestResponseRoundTrip(t *testing.T) {
	responses := testResponses()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, resp := range responses {
				// Serialize
				data, err := serializer.Serialize(resp)
				if err != nil {
					t.Errorf("Failed to serialize response %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Response
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize response %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(resp, result) {
					t.Errorf("Response %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, resp, result)
				}
			}
		})
	}
}

// TestJSONWireFormat pins the JSON wire representation since external
// clients depend on it
func TestJSONWireFormat(t *testing.T) {
	serializer := NewJSONSerializer()

	data, err := serializer.Serialize(common.NewErrorResponse("Unknown command: frobnicate"))
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}

	got := string(data)
	if !strings.Contains(got, `"status":"error"`) {
		t.Errorf("Expected string status in wire format, got: %s", got)
	}
	if !strings.Contains(got, `"message":"Unknown command: frobnicate"`) {
		t.Errorf("Expected message in wire format, got: %s", got)
	}
	if strings.Contains(got, `"result"`) {
		t.Errorf("Error response must not carry a result field, got: %s", got)
	}

	// Success responses omit the message field unless set
	data, err = serializer.Serialize(common.NewSuccessResponse(map[string]interface{}{"name": "Box"}))
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	if strings.Contains(string(data), `"message"`) {
		t.Errorf("Success response without message must omit the field, got: %s", data)
	}
}

// TestDeserializeInvalidData tests that all serializers reject garbage input
func TestDeserializeInvalidData(t *testing.T) {
	garbage := [][]byte{
		[]byte("this is not a payload"),
		{0xff, 0xfe, 0xfd},
	}

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, data := range garbage {
				var cmd common.Command
				if err := serializer.Deserialize(data, &cmd); err == nil {
					t.Errorf("Expected error for garbage input %d but got none", i)
				}
			}
		})
	}
}

// TestSerializerNames verifies the display names used in protocol error messages
func TestSerializerNames(t *testing.T) {
	expected := map[string]string{
		"JSON": "JSON",
		"GOB":  "GOB",
		"CBOR": "CBOR",
	}

	for name, factory := range testSerializers {
		if got := factory().Name(); got != expected[name] {
			t.Errorf("Expected name %s, got %s", expected[name], got)
		}
	}
}
