package serializer

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Encoding and decoding modes are immutable and safe for concurrent use,
// so they are created once at package init. Decoding maps untyped CBOR
// maps to map[string]interface{} so that nested params keep the same
// in-memory shape as the JSON wire format.
var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("serializer: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("serializer: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

// NewCBORSerializer creates a new serializer using the CBOR binary format
// (RFC 8949). Compact like a hand-rolled binary format but able to carry
// the free-form parameter maps of the protocol.
func NewCBORSerializer() ISerializer {
	return &cborSerializerImpl{}
}

// cborSerializerImpl implements the ISerializer interface using cbor encoding
type cborSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (c cborSerializerImpl) Serialize(v interface{}) ([]byte, error) {
	return cborEncMode.Marshal(v)
}

func (c cborSerializerImpl) Deserialize(b []byte, v interface{}) error {
	return cborDecMode.Unmarshal(b, v)
}

func (c cborSerializerImpl) Name() string {
	return "CBOR"
}
