package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"cinda/internal/domain/user"
	"cinda/internal/pkg/jwt"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserTypeKey = "user_type"

	// Session keys written at login and read by the deprecated cookie channel.
	SessionUserIDKey   = "uid"
	SessionUserTypeKey = "userType"

	deprecationWarning = `299 - "Cookie session authentication is deprecated; send a bearer token"`
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware authenticates with the bearer token. Requests without an
// Authorization header fall back to the cookie session and are flagged with
// Deprecation and Warning headers.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if strings.TrimSpace(c.Get(fiber.HeaderAuthorization)) == "" {
			if uid, role, ok := sessionIdentity(c); ok {
				c.Set("Deprecation", "true")
				c.Set("Warning", deprecationWarning)
				setIdentity(c, uid, role)
				return c.Next()
			}
			return NewAppError(fiber.StatusUnauthorized, "No token, authorization denied", nil, nil)
		}

		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Token is not valid", nil, nil)
		}

		claims, err := m.Authenticate(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Token is not valid", nil, err)
		}

		setIdentity(c, claims.UserID, user.Role(claims.UserType))
		return c.Next()
	}
}

// Authenticate validates an access token. Refresh tokens are rejected.
func (m *AuthMiddleware) Authenticate(token string) (jwt.Claims, error) {
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return jwt.Claims{}, err
	}
	if claims.TokenType != jwt.TokenTypeAccess || m.jwt.IsRefreshToken(claims) {
		return jwt.Claims{}, jwt.ErrTokenInvalid
	}
	return claims, nil
}

// RequireRole rejects authenticated callers whose role is not listed.
func RequireRole(roles ...user.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		got := UserType(c)
		for _, r := range roles {
			if got == r {
				return c.Next()
			}
		}
		return NewAppError(fiber.StatusForbidden, "Access denied", nil, nil)
	}
}

func UserID(c fiber.Ctx) string {
	v, _ := c.Locals(CtxUserIDKey).(string)
	return v
}

func UserType(c fiber.Ctx) user.Role {
	v, _ := c.Locals(CtxUserTypeKey).(user.Role)
	return v
}

func setIdentity(c fiber.Ctx, uid string, role user.Role) {
	c.Locals(CtxUserIDKey, uid)
	c.Locals(CtxUserTypeKey, role)
}

func sessionIdentity(c fiber.Ctx) (string, user.Role, bool) {
	sess := session.FromContext(c)
	if sess == nil {
		return "", "", false
	}
	uid, _ := sess.Get(SessionUserIDKey).(string)
	if uid == "" {
		return "", "", false
	}
	role, _ := sess.Get(SessionUserTypeKey).(string)
	return uid, user.Role(role), true
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
