package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type failureShape int

const (
	// {"success":false,"message":...}
	shapeMessage failureShape = iota
	// {"success":false,"error":...[,"raw":...]}
	shapeError
	// {"error":...}
	shapeBareError
)

// Response is the plain-data result of one bridge operation. On success the
// payload is passed on verbatim; failures carry their text in the field the
// operation has always used.
type Response struct {
	OK      bool
	Payload json.RawMessage
	Err     string
	Raw     *string

	shape failureShape
}

func success(payload any) Response {
	switch p := payload.(type) {
	case json.RawMessage:
		return Response{OK: true, Payload: p}
	case nil:
		return Response{OK: true, Payload: json.RawMessage("null")}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return Response{Err: fmt.Sprintf("encode result: %v", err), shape: shapeError}
	}

	return Response{OK: true, Payload: encoded}
}

func failMessage(message string) Response {
	return Response{Err: message, shape: shapeMessage}
}

func failError(message string) Response {
	return Response{Err: message, shape: shapeError}
}

func failBare(message string) Response {
	return Response{Err: message, shape: shapeBareError}
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.OK {
		if len(bytes.TrimSpace(r.Payload)) == 0 {
			return []byte("null"), nil
		}
		return r.Payload, nil
	}

	switch r.shape {
	case shapeMessage:
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}{Message: r.Err})
	case shapeBareError:
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: r.Err})
	default:
		return json.Marshal(struct {
			Success bool    `json:"success"`
			Error   string  `json:"error"`
			Raw     *string `json:"raw,omitempty"`
		}{Error: r.Err, Raw: r.Raw})
	}
}

// Failed reports whether the operation failed, including a successful call
// whose payload carries an "error" field from the remote service.
func (r Response) Failed() bool {
	if !r.OK {
		return true
	}
	return r.payloadError() != ""
}

// Message returns the failure text, or "" for a successful response.
func (r Response) Message() string {
	if !r.OK {
		return r.Err
	}
	return r.payloadError()
}

// Decode unmarshals a successful payload into v.
func (r Response) Decode(v any) error {
	if !r.OK {
		return errors.New(r.Err)
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("decode bridge payload: %w", err)
	}
	return nil
}

// IsNull reports a successful response with a null payload.
func (r Response) IsNull() bool {
	return r.OK && bytes.Equal(bytes.TrimSpace(r.Payload), []byte("null"))
}

func (r Response) payloadError() string {
	var envelope struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(r.Payload, &envelope); err != nil {
		return ""
	}

	switch e := envelope.Error.(type) {
	case string:
		return e
	case nil, bool:
		return ""
	default:
		encoded, _ := json.Marshal(e)
		return string(encoded)
	}
}
