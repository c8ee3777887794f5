package core

import "errors"

// Failure taxonomy shared across storage, services and handlers.
//
// ErrStoreUnavailable aborts the calling flow entirely: an invoice is never
// persisted without a freshly allocated number. ErrMalformedRecord is absorbed
// per-record during aggregation so one bad row never blocks a statement view.
var (
	// ErrStoreUnavailable wraps network/backend failures from the row store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrAllocation indicates the invoice counter row is corrupt and needs
	// operator repair before further invoices can be issued.
	ErrAllocation = errors.New("invoice counter malformed")

	// ErrMalformedRecord indicates an invoice or transaction row is missing
	// expected fields.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")
)
