// Package drizzleerr defines the typed error kinds raised across the
// query-compilation pipeline and the Pod executor (spec §7). Every
// error is a distinct Go type so callers can use errors.As instead of
// string matching, mirroring the teacher's pgconn.PgError predicate
// style (internal/database/errors.go) generalized beyond a single
// error family.
package drizzleerr

import (
	"errors"
	"fmt"
)

// ProgrammerError indicates caller misuse: a negative limit/offset, an
// empty join condition, an unsupported join type, duplicate IDs in an
// insert batch, an aggregate without a column, a mixed select without
// a matching group-by, or an update without a where clause.
type ProgrammerError struct {
	Msg string
}

func (e *ProgrammerError) Error() string { return "programmer error: " + e.Msg }

// NewProgrammerError constructs a ProgrammerError with a formatted message.
func NewProgrammerError(format string, args ...interface{}) *ProgrammerError {
	return &ProgrammerError{Msg: fmt.Sprintf(format, args...)}
}

// NotLoggedInError indicates a Database was constructed from an
// unauthenticated Session, or the Session has no webId.
type NotLoggedInError struct {
	Msg string
}

func (e *NotLoggedInError) Error() string { return "not logged in: " + e.Msg }

// ResourceExistsError indicates an insert would clash with an existing
// subject URI.
type ResourceExistsError struct {
	Subject string
}

func (e *ResourceExistsError) Error() string {
	return fmt.Sprintf("resource exists: %s", e.Subject)
}

// NotFoundError indicates an update or delete preflight found no
// resource at the expected URL.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("not found: %s", e.URL) }

// TransportError wraps a non-2xx HTTP response (after the prescribed
// retries) or a network failure.
type TransportError struct {
	Status     int
	StatusText string
	Body       string
	URL        string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %d %s", e.URL, e.Status, e.StatusText)
}

// SparqlError wraps an engine-reported failure parsing or executing a
// SPARQL statement.
type SparqlError struct {
	Diagnostic string
	Query      string
}

func (e *SparqlError) Error() string { return "sparql error: " + e.Diagnostic }

// ParseError indicates a malformed RDF literal or unexpected datatype
// encountered during result normalization. Per spec §7 this is logged,
// not fatal: the offending value surfaces as a raw string and this
// error type exists so normalizers can report it to the logger without
// aborting the row.
type ParseError struct {
	Value    string
	Datatype string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: value %q datatype %q", e.Value, e.Datatype)
}

// Predicate helpers, mirroring internal/database/errors.go's
// IsUniqueViolation/IsForeignKeyViolation/etc. shape.

func IsProgrammerError(err error) bool {
	var e *ProgrammerError
	return errors.As(err, &e)
}

func IsNotLoggedIn(err error) bool {
	var e *NotLoggedInError
	return errors.As(err, &e)
}

func IsResourceExists(err error) bool {
	var e *ResourceExistsError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

func IsSparqlError(err error) bool {
	var e *SparqlError
	return errors.As(err, &e)
}

func IsParseError(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}

// AsTransportError extracts the *TransportError from err, if any.
func AsTransportError(err error) (*TransportError, bool) {
	var e *TransportError
	ok := errors.As(err, &e)
	return e, ok
}
