package common

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v57/github"
)

var ErrInvalidIdentifierFormat = errors.New("invalid repository identifier format")

// ExtractErrorMessage returns the API's own message when err carries a
// GitHub error response, and err.Error() otherwise.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		for _, e := range ghErr.Errors {
			if e.Message != "" {
				return e.Message
			}
		}
		if ghErr.Message != "" {
			return ghErr.Message
		}
	}

	return err.Error()
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
