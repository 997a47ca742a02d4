package domain

import "errors"

// ErrUnknownCategory is an error thrown when no policy exists for the requested category
var ErrUnknownCategory = errors.New("unknown upload category")

// ErrInvalidExtension is an error thrown when the declared filename fails validation
var ErrInvalidExtension = errors.New("invalid file extension")

// ErrSessionNotFound is an error thrown when no session exists for a token
var ErrSessionNotFound = errors.New("upload session not found")

// ErrWindowExpired is an error thrown when the validity window has lapsed
var ErrWindowExpired = errors.New("upload window expired")

// ErrAlreadyFinalized is an error thrown when a session is already in a terminal state
var ErrAlreadyFinalized = errors.New("upload session already finalized")

// ErrObjectNotFound is an error thrown when the uploaded object is not yet visible in storage
var ErrObjectNotFound = errors.New("object not found in storage")

// ErrObjectTooLarge is an error thrown when the stored object exceeds the category size policy
var ErrObjectTooLarge = errors.New("object exceeds size policy")

// ErrVersionConflict is an error thrown when a conditional state transition matched no row
var ErrVersionConflict = errors.New("version conflict")

// ErrConcurrentModification is an error thrown when verification lost the optimistic race twice
var ErrConcurrentModification = errors.New("concurrent modification")

// ErrStorageUnavailable is an error thrown when the object store cannot be reached
var ErrStorageUnavailable = errors.New("storage unavailable")
