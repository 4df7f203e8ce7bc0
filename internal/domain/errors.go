package domain

import "errors"

var (
	ErrNoLicense         = errors.New("no license loaded")
	ErrEmptyLicenseKey   = errors.New("no license provided")
	ErrLicenseRejected   = errors.New("license rejected")
	ErrSecretNotFound    = errors.New("secret not found")
	ErrNoUpdateAvailable = errors.New("no update available")
	ErrNoPendingUpdate   = errors.New("no downloaded update to install")
)

// RejectedError carries the remote service's reason for refusing a license
// key.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

func (e *RejectedError) Unwrap() error {
	return ErrLicenseRejected
}
