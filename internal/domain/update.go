package domain

import "time"

type UpdateInfo struct {
	Version     string    `json:"version"`
	ReleaseDate time.Time `json:"releaseDate,omitempty"`
	Path        string    `json:"path,omitempty"`
	SHA512      string    `json:"sha512,omitempty"`
	Size        int64     `json:"size,omitempty"`
}

type UpdateProgress struct {
	Percent        float64 `json:"percent"`
	Transferred    int64   `json:"transferred"`
	Total          int64   `json:"total"`
	BytesPerSecond int64   `json:"bytesPerSecond"`
}

type UpdateEventKind string

const (
	UpdateEventAvailable  UpdateEventKind = "update-available"
	UpdateEventProgress   UpdateEventKind = "update-progress"
	UpdateEventDownloaded UpdateEventKind = "update-downloaded"
	UpdateEventError      UpdateEventKind = "update-error"
)

// UpdateEvent is one updater lifecycle signal. Exactly one of Info, Progress
// or Error is set, depending on Kind.
type UpdateEvent struct {
	Kind     UpdateEventKind `json:"kind"`
	Info     *UpdateInfo     `json:"info,omitempty"`
	Progress *UpdateProgress `json:"progress,omitempty"`
	Error    string          `json:"error,omitempty"`
}
