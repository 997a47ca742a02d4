package domain

import "time"

// UploadState represents the lifecycle state of an upload session
type UploadState string

const (
	UploadStatePending   UploadState = "pending"
	UploadStateVerified  UploadState = "verified"
	UploadStateExpired   UploadState = "expired"
	UploadStateReclaimed UploadState = "reclaimed"
)

// IsTerminal reports whether no further transition can leave the state
func (s UploadState) IsTerminal() bool {
	return s == UploadStateVerified || s == UploadStateReclaimed
}

// Object key prefixes separating staged uploads from promoted, readable ones
const (
	StagingPrefix = "staging/"
	PublicPrefix  = "public/"
)

// OwnerContext carries the identifiers the authorizing upstream layer attached
// to the session. It is stored and returned verbatim, never interpreted.
type OwnerContext map[string]string

// UploadSession represents one direct-to-storage upload attempt
type UploadSession struct {
	Token             string
	Category          string
	OwnerContext      OwnerContext
	ObjectKey         string
	AllowedExtensions []string
	MaxSizeBytes      int64
	State             UploadState
	IssuedAt          time.Time
	ExpiresAt         time.Time
	VerifiedAt        *time.Time
	FinalLocation     *string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IssuedCredential is what the client needs to perform the upload itself
type IssuedCredential struct {
	Token             string
	UploadURL         string
	Headers           map[string]string
	ExpiresAt         time.Time
	MaxSizeBytes      int64
	AllowedExtensions []string
}
