package engine

import "errors"

var (
	// ErrRequestNotFound reports a status transition on an unknown
	// request id. Nothing is mutated.
	ErrRequestNotFound = errors.New("schedule request not found")

	// ErrRequestFinalized reports a status transition on a request
	// that is already approved or rejected. Nothing is mutated.
	ErrRequestFinalized = errors.New("schedule request already finalized")

	// ErrEmployeeNotFound reports an edit or approval that names an
	// employee absent from the override roster.
	ErrEmployeeNotFound = errors.New("employee not found in override roster")

	// ErrUnknownDateHeader reports a request date that matches no
	// header in the override roster.
	ErrUnknownDateHeader = errors.New("date matches no roster header")

	// ErrNoSyncLinks reports a sync attempt with no links configured.
	ErrNoSyncLinks = errors.New("no roster links configured")

	// ErrNoSheetsSynced reports a sync in which every configured link
	// failed.
	ErrNoSheetsSynced = errors.New("no sheets were successfully synced")
)
