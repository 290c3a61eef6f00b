package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/pipeline-integrity/internal/domain"
)

// UUIDPattern constrains chi route params, e.g. "/{id:" + UUIDPattern + "}".
// Anything else does not match the route and falls through to 404.
const UUIDPattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

// ValidateID checks that id is a UUID.
func ValidateID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		return domain.Invalid(field, field+" must be a UUID.")
	}
	return nil
}

// OptionalIDQuery reads an optional UUID query parameter. Blank yields "".
func OptionalIDQuery(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", nil
	}
	if err := ValidateID(name, v); err != nil {
		return "", err
	}
	return strings.ToLower(v), nil
}
