package validators

import (
	"errors"
	"strings"
)

var ErrMissingBearer = errors.New("missing bearer token")

// BearerToken extracts the credential from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", ErrMissingBearer
	}
	token := strings.TrimSpace(header[7:])
	if token == "" {
		return "", ErrMissingBearer
	}
	return token, nil
}
