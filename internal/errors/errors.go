package errors

import (
	"errors"
)

// indicates the store rejected a write; the cause is logged, not carried
var ErrUploadFailed = errors.New("failed to upload")

// indicates the caller supplied something the uploader cannot act on
var ErrInvalidInput = errors.New("invalid input")

// indicates another holder owns the per-key lock or the lock backend refused it
var ErrLockNotAcquired = errors.New("lock not acquired")
