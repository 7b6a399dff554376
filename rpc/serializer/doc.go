// Package serializer provides message serialization capabilities for the
// scene bridge RPC system. It defines a common interface and multiple
// implementations for serializing and deserializing commands and responses
// between client and server components.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Offering multiple implementations with different performance characteristics
//   - Supporting the free-form parameter and result payloads of the protocol
//
// Key Components:
//
//   - ISerializer: Core interface that all serializer implementations must
//     satisfy. The Name method feeds the protocol error message a client
//     receives when it sends an undecodable payload.
//
//   - jsonSerializerImpl: Implementation using JSON encoding. This is the
//     protocol default and the only format interoperable with clients
//     written in other languages.
//
//   - cborSerializerImpl: Implementation using CBOR (RFC 8949) in canonical
//     encoding mode. Compact binary representation that still carries the
//     protocol's nested parameter maps.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding,
//     offering good compatibility with Go's type system but with larger
//     serialized sizes. Only usable between Go programs.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	Serializers are typically created once and reused throughout the application:
//
//	  serializer := serializer.NewJSONSerializer()
//	  data, err := serializer.Serialize(cmd)
//	  // ... send data ...
//	  var resp common.Response
//	  err = serializer.Deserialize(receivedData, &resp)
package serializer
