package serializer

import (
	"testing"

	"github.com/kmattheis/scenebridge/rpc/common"
)

// benchmarkCommands returns a set of commands for targeted benchmarking
func benchmarkCommands() map[string]common.Command {
	// A scene info result with a realistic number of objects, used to
	// benchmark the largest payloads the bridge produces
	objects := make([]interface{}, 0, 64)
	for i := 0; i < 64; i++ {
		objects = append(objects, map[string]interface{}{
			"name":     "Object.042",
			"type":     "MESH",
			"location": []interface{}{1.5, -2.25, 3.75},
			"rotation": []interface{}{0.0, 0.0, 1.5707},
			"scale":    []interface{}{1.0, 1.0, 1.0},
		})
	}

	return map[string]common.Command{
		"NoParams": {
			Type: "get_scene_info",
		},
		"SmallParams": {
			Type: "delete_object",
			Params: map[string]interface{}{
				"object_name": "Cube",
			},
		},
		"TypicalParams": {
			Type: "create_object",
			Params: map[string]interface{}{
				"object_type": "SPHERE",
				"location":    []interface{}{1.0, 2.0, 3.0},
				"name":        "Ball",
			},
		},
		"NestedParams": {
			Type: "set_material_property",
			Params: map[string]interface{}{
				"material_name": "Steel",
				"property_name": "Base Color",
				"value":         []interface{}{0.8, 0.8, 0.8, 1.0},
			},
		},
		"LargePayload": {
			Type: "bulk",
			Params: map[string]interface{}{
				"objects": objects,
			},
		},
	}
}

// BenchmarkSerialize benchmarks serialization for all implementations with various commands
func BenchmarkSerialize(b *testing.B) {
	commands := benchmarkCommands()

	for name, factory := range testSerializers {
		for cmdName, cmd := range commands {
			b.Run(name+"_"+cmdName, func(b *testing.B) {
				serializer := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := serializer.Serialize(cmd)
					if err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserialize benchmarks deserialization for all implementations with various commands
func BenchmarkDeserialize(b *testing.B) {
	commands := benchmarkCommands()
	serializedData := make(map[string]map[string][]byte)

	// Pre-serialize all commands with all serializers
	for name, factory := range testSerializers {
		serializer := factory()
		serializedData[name] = make(map[string][]byte)

		for cmdName, cmd := range commands {
			data, err := serializer.Serialize(cmd)
			if err != nil {
				b.Fatalf("Failed to serialize %s with %s: %v", cmdName, name, err)
			}
			serializedData[name][cmdName] = data
		}
	}

	// Benchmark deserialization
	for name, factory := range testSerializers {
		for cmdName := range commands {
			b.Run(name+"_"+cmdName, func(b *testing.B) {
				serializer := factory()
				data := serializedData[name][cmdName]
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					var cmd common.Command
					err := serializer.Deserialize(data, &cmd)
					if err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkSize measures and reports the serialized size for each command type
func BenchmarkSize(b *testing.B) {
	commands := benchmarkCommands()

	for name, factory := range testSerializers {
		serializer := factory()

		for cmdName, cmd := range commands {
			b.Run(name+"_"+cmdName, func(b *testing.B) {
				data, err := serializer.Serialize(cmd)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}

				// Report the size as a custom metric
				b.ReportMetric(float64(len(data)), "bytes")

				// Minimal loop to satisfy benchmark requirements
				for i := 0; i < b.N; i++ {
					_ = data
				}
			})
		}
	}
}
