// Package common provides shared HTTP handler utilities.
package common

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/constants"
	"github.com/orris-inc/subtrack/internal/shared/errors"
)

// Identity is the caller as established by the auth middleware.
type Identity struct {
	UserSID string
	Email   string
	Role    string
}

func (i Identity) IsAdmin() bool {
	return i.Role == constants.RoleAdmin
}

// CurrentUser reads the identity set by the auth middleware. ok is false on
// unauthenticated requests.
func CurrentUser(c *gin.Context) (Identity, bool) {
	role := c.GetString(constants.ContextKeyUserRole)
	if role == "" {
		return Identity{}, false
	}
	return Identity{
		UserSID: c.GetString(constants.ContextKeyUserID),
		Email:   c.GetString(constants.ContextKeyUserEmail),
		Role:    role,
	}, true
}

// ParseDate parses a required-format date field. Empty input yields nil.
func ParseDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := biztime.ParseDate(raw)
	if err != nil {
		return nil, errors.NewValidationError("invalid " + field + ", expected YYYY-MM-DD")
	}
	return &t, nil
}

// ParseDatePatch reads an optional date in a partial update. A nil raw keeps
// the current value; an empty string clears it.
func ParseDatePatch(raw *string, field string) (date *time.Time, clear bool, err error) {
	if raw == nil {
		return nil, false, nil
	}
	if strings.TrimSpace(*raw) == "" {
		return nil, true, nil
	}
	date, err = ParseDate(*raw, field)
	return date, false, err
}

// Search returns the trimmed "search" query, falling back to "q".
func Search(c *gin.Context) string {
	if s := strings.TrimSpace(c.Query("search")); s != "" {
		return s
	}
	return strings.TrimSpace(c.Query("q"))
}

// SortDesc reports whether the "order" query asks for descending order.
func SortDesc(c *gin.Context) bool {
	return strings.EqualFold(c.Query("order"), "desc")
}
