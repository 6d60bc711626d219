package handler // handler defines the HTTP handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated account ID stored in the echo
// context by the JWT middleware and converts it to uint64. JWT numeric
// claims decode as float64, but other middleware may store the value in a
// different shape.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
