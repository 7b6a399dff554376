package serializer

import (
	"bytes"
	"encoding/gob"
)

func init() {
	// Params and Result carry free-form values. The concrete types that can
	// appear inside them must be known to gob for interface transmission.
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
	gob.Register([]float64{})
	gob.Register([]string{})
}

// NewGOBSerializer creates a new serializer using Go's binary gob format.
// Only usable when both client and server are Go programs.
func NewGOBSerializer() ISerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the ISerializer interface using gob encoding
type gobSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) Serialize(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl) Deserialize(b []byte, v interface{}) error {
	buf := bytes.NewBuffer(b)
	dec := gob.NewDecoder(buf)
	return dec.Decode(v)
}

func (g gobSerializerImpl) Name() string {
	return "GOB"
}
