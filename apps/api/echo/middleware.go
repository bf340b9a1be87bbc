package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/auth"
)

// requireRole gates a route on the role carried by the request's claims,
// mapping access decisions to HTTP statuses: a missing session is 401 and a
// role mismatch is 403.
func requireRole(required auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			switch auth.Decide(getContextIdentity(ctx), required) {
			case auth.Proceed:
				return next(ctx)
			case auth.RedirectLogin:
				return errUnauthorized
			default:
				return errHttpForbidden
			}
		}
	}
}

// anyRole only requires an authenticated session.
func anyRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if getContextIdentity(ctx) == nil {
				return errUnauthorized
			}
			return next(ctx)
		}
	}
}
