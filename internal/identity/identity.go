// Package identity resolves who is making a request: a signed-in user from
// a bearer token, or a guest bound to a cookie.
package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
)

const (
	contextKey = "tubearchitect.identity"

	guestPrefix    = "guest:"
	guestCookieAge = 60 * 60 * 24 * 365
)

type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Guest  bool   `json:"guest"`
}

// Claims are the fields read from an identity provider access token.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Config struct {
	// Secret verifies HS256 bearer tokens. Empty disables token sign-in.
	Secret []byte
	// Audience, when set, must appear in the token's aud claim.
	Audience    string
	GuestCookie string
}

type Authenticator struct {
	cfg    Config
	logger *zap.Logger
}

func NewAuthenticator(cfg Config, logger *zap.Logger) *Authenticator {
	return &Authenticator{cfg: cfg, logger: logger}
}

// ValidateToken checks the signature and expiry of an access token and
// returns the identity it names.
func (a *Authenticator) ValidateToken(tokenString string) (Identity, error) {
	if len(a.cfg.Secret) == 0 {
		return Identity{}, errors.New("token sign-in is not configured")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(a.cfg.Audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.cfg.Secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return Identity{}, errors.New("token has no subject")
	}
	return Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// Middleware attaches an Identity to every request. A bearer token that
// fails validation is rejected; requests without one become guests.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			id, err := a.ValidateToken(token)
			if err != nil {
				a.logger.Warn("Rejected bearer token",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					apperr.ToResponse(apperr.NewUnauthorized("Your session is invalid or expired. Please sign in again.")))
				return
			}
			c.Set(contextKey, id)
			c.Next()
			return
		}

		c.Set(contextKey, a.guest(c))
		c.Next()
	}
}

func (a *Authenticator) guest(c *gin.Context) Identity {
	if v, err := c.Cookie(a.cfg.GuestCookie); err == nil {
		if _, err := uuid.Parse(v); err == nil {
			return Identity{UserID: guestPrefix + v, Guest: true}
		}
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.cfg.GuestCookie, id, guestCookieAge, "/", "", c.Request.TLS != nil, true)
	a.logger.Debug("Issued guest identity", zap.String("guest_id", id))
	return Identity{UserID: guestPrefix + id, Guest: true}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// FromContext returns the identity set by Middleware.
func FromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
