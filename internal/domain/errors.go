package domain

import (
	"errors"
	"fmt"
)

// ErrBotChallenge indicates the page served a CAPTCHA or bot-detection
// interstitial instead of product markup. Recoverable only by backing off.
var ErrBotChallenge = errors.New("bot challenge detected")

// FetchError wraps a transport-level or HTTP-status failure while fetching
// a listing page. Recoverable by retrying later.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MissingFieldError indicates the page did not contain a field required for
// ingestion. Permanently unrecoverable for that URL without new extraction
// strategies.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q not found in page", e.Field)
}

// StoreErrorKind classifies catalog store failures so the operator gets a
// useful remediation hint.
type StoreErrorKind string

const (
	// StoreErrMissingColumn means the insert referenced a column the table
	// does not have, usually a pending migration.
	StoreErrMissingColumn StoreErrorKind = "missing_column"
	// StoreErrMissingTable means the products table does not exist yet.
	StoreErrMissingTable StoreErrorKind = "missing_table"
	// StoreErrGeneric covers everything else.
	StoreErrGeneric StoreErrorKind = "generic"
)

// StoreError wraps a catalog store failure with its classification and a
// remediation hint.
type StoreError struct {
	Kind StoreErrorKind
	Hint string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("store: %v (%s)", e.Err, e.Hint)
	}
	return fmt.Sprintf("store: %v", e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
