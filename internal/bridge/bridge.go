package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/metrics"
	"github.com/querykiln/kiln/internal/ports"
	"go.uber.org/zap"
)

const (
	OpValidateLicense     = "validate-license"
	OpLoadSavedLicense    = "load-saved-license"
	OpClearSavedLicense   = "clear-saved-license"
	OpGetUsage            = "get-usage"
	OpSecureRequest       = "secure-request"
	OpCheckForUpdates     = "check-for-updates"
	OpStartUpdateDownload = "start-update-download"
	OpQuitAndInstall      = "quit-and-install"
)

// Operations lists every operation name in a stable order.
var Operations = []string{
	OpValidateLicense,
	OpLoadSavedLicense,
	OpClearSavedLicense,
	OpGetUsage,
	OpSecureRequest,
	OpCheckForUpdates,
	OpStartUpdateDownload,
	OpQuitAndInstall,
}

var (
	ErrUnknownOperation = errors.New("unknown bridge operation")
	ErrBadArguments     = errors.New("invalid bridge arguments")
)

const (
	messageNoLicenseProvided = "No license provided"
	messageNoLicenseLoaded   = "No license loaded"
)

type Licenses interface {
	ValidateLicense(ctx context.Context, key string) (domain.License, error)
	LoadLicense(ctx context.Context) (domain.License, error)
	ClearLicense(ctx context.Context) error
	Usage(ctx context.Context) (domain.UsageSnapshot, error)
	SecureRequest(ctx context.Context, path string, payload any) (json.RawMessage, error)
}

type Updates interface {
	Check(ctx context.Context) (string, error)
	StartDownload(ctx context.Context)
	Install(ctx context.Context) error
}

// Bridge exposes the privileged operations. Every method returns plain data;
// failures are reported inside the Response, never as Go errors.
type Bridge struct {
	licenses Licenses
	updates  Updates
	log      *zap.Logger
	newID    func() string
}

func New(licenses Licenses, updates Updates, log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}

	return &Bridge{
		licenses: licenses,
		updates:  updates,
		log:      log,
		newID:    func() string { return uuid.NewString() },
	}
}

func (b *Bridge) ValidateLicense(ctx context.Context, key string) Response {
	return b.observe(ctx, OpValidateLicense, func(ctx context.Context) Response {
		license, err := b.licenses.ValidateLicense(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrEmptyLicenseKey) {
				return failMessage(messageNoLicenseProvided)
			}
			return failMessage(errorText(err))
		}
		return success(license)
	})
}

// LoadSavedLicense returns the stored record, or a null payload.
func (b *Bridge) LoadSavedLicense(ctx context.Context) Response {
	return b.observe(ctx, OpLoadSavedLicense, func(ctx context.Context) Response {
		license, err := b.licenses.LoadLicense(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrNoLicense) {
				b.log.Warn("load saved license", zap.Error(err))
			}
			return success(nil)
		}
		return success(license)
	})
}

func (b *Bridge) ClearSavedLicense(ctx context.Context) Response {
	return b.observe(ctx, OpClearSavedLicense, func(ctx context.Context) Response {
		if err := b.licenses.ClearLicense(ctx); err != nil {
			return failError(errorText(err))
		}
		return success(struct {
			Success bool `json:"success"`
		}{Success: true})
	})
}

func (b *Bridge) GetUsage(ctx context.Context) Response {
	return b.observe(ctx, OpGetUsage, func(ctx context.Context) Response {
		usage, err := b.licenses.Usage(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNoLicense) {
				return failBare(messageNoLicenseLoaded)
			}
			return failBare(errorText(err))
		}
		return success(usage)
	})
}

// SecureRequest proxies path to the remote service. The remote body is
// returned verbatim, including its own error fields.
func (b *Bridge) SecureRequest(ctx context.Context, path string, payload any) Response {
	return b.observe(ctx, OpSecureRequest, func(ctx context.Context) Response {
		body, err := b.licenses.SecureRequest(ctx, path, payload)
		if err != nil {
			if errors.Is(err, domain.ErrNoLicense) {
				return failError(messageNoLicenseLoaded)
			}

			resp := failError(errorText(err))
			var invalid *ports.InvalidResponseError
			if errors.As(err, &invalid) {
				raw := invalid.Raw
				resp.Raw = &raw
			}
			return resp
		}
		return success(body)
	}, zap.String("endpoint", path))
}

func (b *Bridge) CheckForUpdates(ctx context.Context) Response {
	return b.observe(ctx, OpCheckForUpdates, func(ctx context.Context) Response {
		version, err := b.updates.Check(ctx)
		if err != nil {
			return failMessage(errorText(err))
		}

		result := struct {
			Success bool    `json:"success"`
			Version *string `json:"version"`
		}{Success: true}
		if version != "" {
			result.Version = &version
		}
		return success(result)
	})
}

// StartUpdateDownload returns at once; progress arrives as update events.
func (b *Bridge) StartUpdateDownload(ctx context.Context) Response {
	return b.observe(ctx, OpStartUpdateDownload, func(ctx context.Context) Response {
		b.updates.StartDownload(ctx)
		return success(struct {
			Success bool `json:"success"`
		}{Success: true})
	})
}

// QuitAndInstall applies the downloaded update and terminates the process.
// It only returns when there was nothing to install or applying failed.
func (b *Bridge) QuitAndInstall(ctx context.Context) Response {
	return b.observe(ctx, OpQuitAndInstall, func(ctx context.Context) Response {
		if err := b.updates.Install(ctx); err != nil {
			return failMessage(errorText(err))
		}
		return success(nil)
	})
}

// Dispatch routes a call by operation name. args is a JSON array of
// positional arguments and may be empty. The returned error is only set for
// an unknown operation or malformed arguments.
func (b *Bridge) Dispatch(ctx context.Context, operation string, args json.RawMessage) (Response, error) {
	positional, err := decodeArgs(args)
	if err != nil {
		return Response{}, err
	}

	switch operation {
	case OpValidateLicense:
		key, err := stringArg(positional, 0)
		if err != nil {
			return Response{}, err
		}
		return b.ValidateLicense(ctx, key), nil
	case OpLoadSavedLicense:
		return b.LoadSavedLicense(ctx), nil
	case OpClearSavedLicense:
		return b.ClearSavedLicense(ctx), nil
	case OpGetUsage:
		return b.GetUsage(ctx), nil
	case OpSecureRequest:
		path, err := stringArg(positional, 0)
		if err != nil {
			return Response{}, err
		}
		var payload json.RawMessage
		if len(positional) > 1 {
			payload = positional[1]
		}
		return b.SecureRequest(ctx, path, payload), nil
	case OpCheckForUpdates:
		return b.CheckForUpdates(ctx), nil
	case OpStartUpdateDownload:
		return b.StartUpdateDownload(ctx), nil
	case OpQuitAndInstall:
		return b.QuitAndInstall(ctx), nil
	default:
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownOperation, operation)
	}
}

func (b *Bridge) observe(ctx context.Context, operation string, run func(context.Context) Response, fields ...zap.Field) Response {
	requestID := b.newID()
	started := time.Now()

	resp := run(ctx)

	elapsed := time.Since(started)
	status := metrics.OutcomeOK
	if resp.Failed() {
		status = metrics.OutcomeError
	}

	metrics.BridgeOperations.WithLabelValues(operation, status).Inc()
	metrics.BridgeOperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())

	if ce := b.log.Check(zap.DebugLevel, "bridge call"); ce != nil {
		logFields := append([]zap.Field{
			zap.String("request_id", requestID),
			zap.String("operation", operation),
			zap.String("status", status),
			zap.Int64("duration_ms", elapsed.Milliseconds()),
			zap.Time("timestamp", started.UTC()),
		}, fields...)
		if status == metrics.OutcomeError {
			logFields = append(logFields, zap.String("error", resp.Message()))
		}
		ce.Write(logFields...)
	}

	return resp
}

// errorText renders err for the UI. Remote failures and malformed bodies
// keep their own message; other errors keep their wrapped context.
func errorText(err error) string {
	var invalid *ports.InvalidResponseError
	var remote *ports.RemoteError
	var rejected *domain.RejectedError
	switch {
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.As(err, &remote):
		return remote.Message
	case errors.As(err, &rejected):
		return rejected.Message
	default:
		return err.Error()
	}
}

func decodeArgs(args json.RawMessage) ([]json.RawMessage, error) {
	if len(args) == 0 || string(args) == "null" {
		return nil, nil
	}

	var positional []json.RawMessage
	if err := json.Unmarshal(args, &positional); err != nil {
		return nil, fmt.Errorf("%w: arguments must be a JSON array: %v", ErrBadArguments, err)
	}

	return positional, nil
}

// stringArg reads a string argument; a missing or null value reads as "".
func stringArg(args []json.RawMessage, index int) (string, error) {
	if index >= len(args) {
		return "", nil
	}

	var value *string
	if err := json.Unmarshal(args[index], &value); err != nil {
		return "", fmt.Errorf("%w: argument %d must be a string", ErrBadArguments, index)
	}
	if value == nil {
		return "", nil
	}

	return *value, nil
}
