package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/atelierbois/portfolio/internal/api/middleware"
	"github.com/atelierbois/portfolio/internal/core/domain"
)

// currentUser returns the user loaded by the Auth middleware. A missing
// user means the route was wired without Auth.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.UserFrom(c)
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
