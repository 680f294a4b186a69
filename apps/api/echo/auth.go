package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/codebluemti/tiba/core"
)

// Identity headers asserted by the fronting gateway, which terminates
// authentication before requests reach this service.
const (
	authUserHeader  = "X-Auth-User"
	authRolesHeader = "X-Auth-Roles"
)

var contextIdentityKey = "identity"

// identityMiddleware pulls the caller's identity off the gateway headers and
// stores it in the request context. Requests without an identity are rejected.
func identityMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id := core.Identity{ID: strings.TrimSpace(ctx.Request().Header.Get(authUserHeader))}
			if id.ID == "" {
				return errUnauthorized
			}
			for _, role := range strings.Split(ctx.Request().Header.Get(authRolesHeader), ",") {
				if role = strings.TrimSpace(role); role != "" {
					id.Roles = append(id.Roles, role)
				}
			}
			ctx.Set(contextIdentityKey, id)
			return next(ctx)
		}
	}
}

func getContextIdentity(ctx echo.Context) (core.Identity, error) {
	if id, ok := ctx.Get(contextIdentityKey).(core.Identity); ok {
		return id, nil
	}
	return core.Identity{}, errUnauthorized
}

func adminMiddleware() echo.MiddlewareFunc {
	return requireRole(func(id core.Identity) bool { return id.IsAdmin() })
}

func lecturerMiddleware() echo.MiddlewareFunc {
	return requireRole(func(id core.Identity) bool { return id.IsLecturer() || id.IsAdmin() })
}

func studentMiddleware() echo.MiddlewareFunc {
	return requireRole(func(id core.Identity) bool { return id.IsStudent() || id.IsAdmin() })
}

func requireRole(allowed func(core.Identity) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := getContextIdentity(ctx)
			if err != nil {
				return err
			}
			if allowed(id) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
