package whatsapp

import (
	"encoding/json"
	"fmt"
)

// ConfigError reports a required configuration field that was missing before a
// request could be attempted. No network call is made when it is returned.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("whatsapp: missing required config field %q", e.Field)
}

// APIError is a non-2xx response from the Cloud API. The envelope fields are
// decoded best-effort; Raw always carries the response body as received.
type APIError struct {
	StatusCode int
	Code       int
	Subcode    int
	Type       string
	Message    string
	FBTraceID  string
	Raw        []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("whatsapp api error: status=%d code=%d message=%s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("whatsapp api error: status=%d body=%s", e.StatusCode, string(e.Raw))
}

// TransportError is a connection-level failure: the call never produced a
// status code. The underlying cause is preserved for errors.Is/As.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("whatsapp transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// apiErrorEnvelope mirrors the Cloud API error payload.
type apiErrorEnvelope struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		ErrorData    any    `json:"error_data"`
		FBTraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}

// newAPIError classifies a non-2xx response body. A body that is not the
// structured envelope is kept raw, never discarded.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Raw: body}

	var envelope apiErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Subcode = envelope.Error.ErrorSubcode
		apiErr.Type = envelope.Error.Type
		apiErr.Message = envelope.Error.Message
		apiErr.FBTraceID = envelope.Error.FBTraceID
	}
	return apiErr
}
