package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structures
// --------------------------------------------------------------------------

// Command represents a single request sent by an automation client.
// Type selects the handler, Params carries the handler specific arguments.
type Command struct {
	// Type of the command, e.g. "create_object"
	Type string `json:"type"`

	// Params holds the command specific arguments. May be empty for
	// commands without parameters, e.g. "get_scene_info".
	Params map[string]interface{} `json:"params,omitempty"`
}

// Response represents the outcome of a single command. Status is always
// set, Result and Message depend on the command and its outcome.
type Response struct {
	// Status of the executed command
	Status Status `json:"status"`

	// Result payload of a successful command (command specific shape)
	Result interface{} `json:"result,omitempty"`

	// Message contains the error description of a failed command. Some
	// commands (delete_object, assign_material) also set it on success.
	Message string `json:"message,omitempty"`
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewCommand creates a new Command
func NewCommand(cmdType string, params map[string]interface{}) *Command {
	return &Command{
		Type:   cmdType,
		Params: params,
	}
}

// NewSuccessResponse creates a new success Response carrying a result payload
func NewSuccessResponse(result interface{}) *Response {
	return &Response{
		Status: StatusSuccess,
		Result: result,
	}
}

// NewMessageResponse creates a new success Response carrying only a
// human-readable message instead of a result payload
func NewMessageResponse(format string, args ...interface{}) *Response {
	return &Response{
		Status:  StatusSuccess,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewErrorResponse creates a new error Response
func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  StatusError,
		Message: message,
	}
}

// NewErrorResponsef creates a new error Response with a formatted message
func NewErrorResponsef(format string, args ...interface{}) *Response {
	return &Response{
		Status:  StatusError,
		Message: fmt.Sprintf(format, args...),
	}
}

// --------------------------------------------------------------------------
// Status Definition
// --------------------------------------------------------------------------

// Status defines the outcome of a command as reported to the client.
type Status uint8

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for Status.
// This allows Status to be serialized as a string in JSON.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for Status.
// This allows Status to be deserialized from a string in JSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	// Convert string back to Status
	switch str {
	case "success":
		*s = StatusSuccess
	case "error":
		*s = StatusError
	default:
		return fmt.Errorf("unknown status: %s", str)
	}

	return nil
}

// --------------------------------------------------------------------------
// Status Constants
// --------------------------------------------------------------------------

const (
	StatusUnknown Status = iota
	StatusSuccess        // Indicates a successfully executed command
	StatusError          // Indicates the command failed
)
