package serializer

// ISerializer is the interface for all Command/Response serializers
type ISerializer interface {
	// Serialize serializes a Command or Response into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(v interface{}) ([]byte, error)
	// Deserialize deserializes a byte array into a Command or Response
	// It takes a byte array and a pointer to the target as parameters
	// It returns an error if any
	Deserialize(b []byte, v interface{}) error
	// Name returns the display name of the wire format (e.g. "JSON").
	// It is embedded in protocol error messages sent to clients.
	Name() string
}
