package client

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/kmattheis/scenebridge/rpc/serializer"
	"github.com/kmattheis/scenebridge/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter stores all data needed for an implementation of an RPC client
// Used by the scene client with composition pattern
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.ISerializer
}

// exchangeRPCCommand performs one raw command exchange: serialize, send,
// deserialize. The response is returned whatever its status, only transport
// and wire format failures produce an error
func exchangeRPCCommand(cmdType string, params map[string]interface{}, transport transport.IRPCClientTransport, serializer serializer.ISerializer) (*common.Response, error) {
	// Serialize the request
	reqBytes, err := serializer.Serialize(common.NewCommand(cmdType, params))
	if err != nil {
		return nil, err
	}

	// Send the command
	respBytes, err := transport.Send(reqBytes)
	if err != nil {
		return nil, err
	}

	// Deserialize the response
	resp := &common.Response{}
	if err := serializer.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("RPC SceneClient - Error: %s", err)
	}

	return resp, nil
}

// invokeRPCCommand is the helper function used by all typed client methods.
// On top of the raw exchange it converts error responses into Go errors
// carrying the server message
func invokeRPCCommand(cmdType string, params map[string]interface{}, transport transport.IRPCClientTransport, serializer serializer.ISerializer) (*common.Response, error) {
	resp, err := exchangeRPCCommand(cmdType, params, transport, serializer)
	if err != nil {
		return nil, err
	}

	// Check if the response is an error response. The server message is the
	// error, automation scripts match on its exact wording
	if resp.Status != common.StatusSuccess {
		return nil, errors.New(resp.Message)
	}

	return resp, nil
}

// decodeResult maps the generic result payload of a response into a typed
// struct. Decoding is weakly typed so numeric fields accept whatever number
// type the wire format delivered
func decodeResult(resp *common.Response, target interface{}) error {
	if err := mapstructure.WeakDecode(resp.Result, target); err != nil {
		return fmt.Errorf("RPC SceneClient - Error: %s", err)
	}
	return nil
}

// objectState decodes an object transform result. Taking the (response,
// error) pair lets the call sites stay one line
func objectState(resp *common.Response, err error) (*ObjectState, error) {
	if err != nil {
		return nil, err
	}
	state := &ObjectState{}
	if err := decodeResult(resp, state); err != nil {
		return nil, err
	}
	return state, nil
}
