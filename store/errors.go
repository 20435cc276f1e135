// ABOUTME: Error kinds shared by the storage backends
// ABOUTME: Callers branch on these with errors.Is
package store

import "errors"

var (
	// ErrUnsupportedPlatform means the storage capability is absent. Not
	// recoverable; the user has to switch backend.
	ErrUnsupportedPlatform = errors.New("storage capability not available on this platform")

	// ErrUserCancelled means a picker was dismissed. It is not a failure and
	// should not be shown to the user.
	ErrUserCancelled = errors.New("cancelled by user")

	// ErrInvalidFormat means the file content is not a parseable document.
	ErrInvalidFormat = errors.New("invalid document format")

	// ErrFileExists means a save target is already there and the picker was
	// not allowed to replace it.
	ErrFileExists = errors.New("file already exists")

	// ErrWriteFailed means the storage medium rejected a write.
	ErrWriteFailed = errors.New("write failed")

	// ErrQuotaExceeded is wrapped inside ErrWriteFailed when the local slot is full.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrSlotEmpty is returned by Slot implementations when nothing is stored under a key.
	ErrSlotEmpty = errors.New("slot is empty")
)
