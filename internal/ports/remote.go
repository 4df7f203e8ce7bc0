package ports

import (
	"context"
	"encoding/json"

	"github.com/querykiln/kiln/internal/domain"
)

type VerifyResponse struct {
	Valid     bool             `json:"valid"`
	Tier      domain.Tier      `json:"tier"`
	VariantID domain.VariantID `json:"variant_id"`
	Status    string           `json:"status"`
	RenewsAt  string           `json:"renews_at"`
	Error     string           `json:"error"`
}

// InvalidResponseError reports a response body that is not JSON, or not the
// shape the endpoint promises. Raw holds the body text as received and Err
// the decoding or schema failure, when there is one.
type InvalidResponseError struct {
	Path   string
	Status int
	Raw    string
	Err    error
}

func (e *InvalidResponseError) Error() string {
	return "Invalid JSON from Worker"
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

// RemoteError is a business rejection reported by the Worker in an "error"
// field.
type RemoteError struct {
	Path    string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Remote is the Worker API. Post returns the response body verbatim when it
// is valid JSON.
type Remote interface {
	VerifyLicense(ctx context.Context, key string) (VerifyResponse, error)
	Usage(ctx context.Context, key string) (domain.UsageSnapshot, error)
	Post(ctx context.Context, key string, path string, payload any) (json.RawMessage, error)
}
