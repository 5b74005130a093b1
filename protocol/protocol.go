// Package protocol defines the JSON frames exchanged between the viewer and the shape server.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pthm-cable/msa3d/shapes"
)

// Commands understood by the server. Any other command is echoed back.
const (
	CmdWake  = "wake"
	CmdShape = "shape"
)

// Response actions.
const (
	ActionShape = "shape"
	ActionEcho  = "echo"
	ActionError = "error"
)

// MsgInvalidPayload is the error message for frames that are not valid JSON.
const MsgInvalidPayload = "invalid payload"

// DefaultShape is used when a shape request names no shape.
const DefaultShape = shapes.Circle

// Request is a client -> server frame.
type Request struct {
	Cmd     string `json:"cmd"`
	Shape   string `json:"shape,omitempty"`
	Trigger string `json:"trigger,omitempty"`
}

// NewWake builds the request sent when a wake phrase is heard.
func NewWake(shape, trigger string) Request {
	return Request{Cmd: CmdWake, Shape: shape, Trigger: trigger}
}

// NewShape builds the request sent when the user picks a shape.
func NewShape(shape string) Request {
	return Request{Cmd: CmdShape, Shape: shape}
}

// Response is a server -> client frame. Which fields are set depends on Action.
type Response struct {
	Action   string          `json:"action"`
	Shape    string          `json:"shape,omitempty"`
	Points   []shapes.Point  `json:"points,omitempty"`
	Received json.RawMessage `json:"received,omitempty"`
	Msg      string          `json:"msg,omitempty"`
}

// ErrorResponse builds an error frame.
func ErrorResponse(msg string) Response {
	return Response{Action: ActionError, Msg: msg}
}

// ShapeResponse builds a shape frame.
func ShapeResponse(shape string, points []shapes.Point) Response {
	return Response{Action: ActionShape, Shape: shape, Points: points}
}

// Handler answers request frames. The zero DefaultShape means DefaultShape.
type Handler struct {
	Count        int    // Points per shape response
	DefaultShape string // Shape used when a request names none
}

// Handle maps one inbound frame to exactly one outbound frame using count
// points per shape and the package default shape.
func Handle(frame []byte, count int) Response {
	return Handler{Count: count}.Handle(frame)
}

// Handle maps one inbound frame to exactly one outbound frame.
//
// Frames that are not JSON (or are JSON null) produce an error frame. Objects
// whose cmd is wake or shape produce Count shape points; everything else is
// echoed back verbatim.
func (h Handler) Handle(frame []byte) Response {
	frame = bytes.TrimSpace(frame)
	if !json.Valid(frame) || bytes.Equal(frame, []byte("null")) {
		return ErrorResponse(MsgInvalidPayload)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(frame, &fields); err != nil {
		// Valid JSON but not an object: nothing to dispatch on.
		return echo(frame)
	}

	var cmd string
	if raw, ok := fields["cmd"]; !ok || json.Unmarshal(raw, &cmd) != nil {
		return echo(frame)
	}

	switch cmd {
	case CmdWake, CmdShape:
		shape := h.shapeName(fields["shape"])
		return ShapeResponse(shape, shapes.Generate(shape, h.Count))
	default:
		return echo(frame)
	}
}

// shapeName extracts the requested shape, falling back to the default when
// the field is absent, empty, or not a string.
func (h Handler) shapeName(raw json.RawMessage) string {
	var shape string
	if raw == nil || json.Unmarshal(raw, &shape) != nil || shape == "" {
		if h.DefaultShape != "" {
			return h.DefaultShape
		}
		return DefaultShape
	}
	return shape
}

func echo(frame []byte) Response {
	received := make(json.RawMessage, len(frame))
	copy(received, frame)
	return Response{Action: ActionEcho, Received: received}
}

// Encode marshals a frame for the wire.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	return data, nil
}

// DecodeResponse parses a server frame.
func DecodeResponse(data []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("decoding response: %w", err)
	}
	if resp.Action == "" {
		return Response{}, fmt.Errorf("decoding response: missing action")
	}
	return resp, nil
}
