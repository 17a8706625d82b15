package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFirstPage = errors.New("already on the first page")
	ErrNotFound  = errors.New("repository not found")
)

// ValidationError reports an empty owner or repository name.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

// DuplicateError reports that a repository is already tracked.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("repository already tracked: %s", e.Name)
}

// RemoteFetchError wraps any failure talking to the remote API.
type RemoteFetchError struct {
	Operation string
	Target    string
	Err       error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Target, e.Err)
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a payload that does not carry the fields
// the dashboard consumes.
type MalformedResponseError struct {
	Resource string
	Problems []string
}

func (e *MalformedResponseError) Error() string {
	if len(e.Problems) == 0 {
		return fmt.Sprintf("malformed %s response", e.Resource)
	}
	return fmt.Sprintf("malformed %s response: %s", e.Resource, strings.Join(e.Problems, "; "))
}
