package common

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseRepositoryName splits an "owner/name" identifier. The URL-encoded
// form used by the detail route ("owner%2Fname") is accepted as well.
func ParseRepositoryName(identifier string) (owner, name string, err error) {
	decoded, err := url.PathUnescape(strings.TrimSpace(identifier))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidIdentifierFormat, err)
	}

	parts := strings.Split(decoded, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: expected 'owner/name', got '%s'", ErrInvalidIdentifierFormat, identifier)
	}

	owner = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])
	if owner == "" || name == "" {
		return "", "", fmt.Errorf("%w: owner and name must be non-empty", ErrInvalidIdentifierFormat)
	}

	return owner, name, nil
}

func FormatRepositoryName(owner, name string) string {
	return fmt.Sprintf("%s/%s", owner, name)
}

// EncodeRoute returns the identifier in the form the detail route carries.
func EncodeRoute(fullName string) string {
	return url.PathEscape(fullName)
}
