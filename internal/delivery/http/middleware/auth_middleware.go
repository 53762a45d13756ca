package middleware

import (
	"log/slog"
	"slices"
	"strings"

	deliverycontext "shop/internal/delivery/context"
	"shop/internal/delivery/http/response"
	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const (
	contextKeyEmail       = "email"
	contextKeyAuthorities = "authorities"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer access token and exposes the member email
// and authorities to the handlers.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Authorization header is missing")
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, domainerrors.ErrUnauthorized.ErrorCode(), "Invalid or expired token")
		}

		c.Set(contextKeyEmail, claims.Subject)
		c.Set(contextKeyAuthorities, claims.Roles)

		ctx := c.Request().Context()
		logger := deliverycontext.GetLogger(ctx)
		if logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("member", claims.Subject)))
			c.SetRequest(c.Request().WithContext(ctx))
		}

		return next(c)
	}
}

// RequireRole rejects members that do not hold role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(role entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !HasRole(c, role) {
				return response.Forbidden(c, domainerrors.ErrForbidden.ErrorCode(), "Permission denied: require '"+role.String()+"' role")
			}

			return next(c)
		}
	}
}

// GetEmail returns the email of the authenticated member.
func GetEmail(c echo.Context) (string, bool) {
	email, ok := c.Get(contextKeyEmail).(string)

	return email, ok && email != ""
}

// GetAuthorities returns the authorities carried by the access token.
func GetAuthorities(c echo.Context) ([]string, bool) {
	authorities, ok := c.Get(contextKeyAuthorities).([]string)

	return authorities, ok
}

// HasRole reports whether the authenticated member holds role.
func HasRole(c echo.Context, role entity.Role) bool {
	authorities, _ := GetAuthorities(c)

	return slices.Contains(authorities, role.Authority())
}
