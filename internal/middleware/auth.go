package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fandomapp/internal/access"
	"fandomapp/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthClaims represents the JWT claims structure
type AuthClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

const claimsKey = "session_claims"

// TokenManager issues and verifies signed session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a new JWT token for a user
func (m *TokenManager) Issue(userID uint, username string) (string, *AuthClaims, error) {
	now := time.Now()
	claims := &AuthClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

func (m *TokenManager) Parse(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ResolveFunc maps the user id of a valid session to the current caller. Returning the
// anonymous caller drops the session.
type ResolveFunc func(ctx context.Context, userID uint) (access.Caller, error)

// Authenticator attaches the request caller from the session cookie or a bearer token,
// and starts and ends sessions.
type Authenticator struct {
	tokens  *TokenManager
	revoked *session.Denylist
	resolve ResolveFunc
	cookie  string
	secure  bool
	log     *zap.Logger
}

type AuthenticatorConfig struct {
	Tokens       *TokenManager
	Revoked      *session.Denylist
	Resolve      ResolveFunc
	CookieName   string
	SecureCookie bool
	Logger       *zap.Logger
}

func NewAuthenticator(cfg AuthenticatorConfig) *Authenticator {
	return &Authenticator{
		tokens:  cfg.Tokens,
		revoked: cfg.Revoked,
		resolve: cfg.Resolve,
		cookie:  cfg.CookieName,
		secure:  cfg.SecureCookie,
		log:     cfg.Logger,
	}
}

// Middleware never rejects a request; it sets the caller, anonymous when there is no
// usable session.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := access.Anonymous
		if claims := a.claims(c); claims != nil {
			caller = access.Caller{UserID: claims.UserID, Username: claims.Username}
			if a.resolve != nil {
				resolved, err := a.resolve(c.Request.Context(), claims.UserID)
				if err != nil {
					a.log.Warn("failed to resolve session user", zap.Uint("user_id", claims.UserID), zap.Error(err))
					resolved = access.Anonymous
				}
				caller = resolved
			}
			if caller.Authenticated() {
				c.Set(claimsKey, claims)
			}
		}
		c.Set(access.ContextKey, caller)
		c.Next()
	}
}

func (a *Authenticator) claims(c *gin.Context) *AuthClaims {
	tokenString, _ := c.Cookie(a.cookie)
	if tokenString == "" {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if tokenString == "" {
		return nil
	}

	claims, err := a.tokens.Parse(tokenString)
	if err != nil {
		return nil
	}
	revoked, err := a.revoked.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		a.log.Warn("failed to check session revocation", zap.Error(err))
		return nil
	}
	if revoked {
		return nil
	}
	return claims
}

// StartSession issues a token for the user and stores it in the session cookie.
func (a *Authenticator) StartSession(c *gin.Context, userID uint, username string) error {
	token, claims, err := a.tokens.Issue(userID, username)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.cookie, token, int(time.Until(claims.ExpiresAt.Time).Seconds()), "/", "", a.secure, true)
	c.Set(access.ContextKey, access.Caller{UserID: userID, Username: username})
	c.Set(claimsKey, claims)
	return nil
}

// EndSession revokes the current token and clears the session cookie.
func (a *Authenticator) EndSession(c *gin.Context) error {
	var err error
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*AuthClaims); ok {
			err = a.revoked.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time)
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.cookie, "", -1, "/", "", a.secure, true)
	c.Set(access.ContextKey, access.Anonymous)
	return err
}

// CallerFrom returns the caller attached by the Authenticator.
func CallerFrom(c *gin.Context) access.Caller {
	if v, ok := c.Get(access.ContextKey); ok {
		if caller, ok := v.(access.Caller); ok {
			return caller
		}
	}
	return access.Anonymous
}

// LoginURL is the login page that returns to next afterwards.
func LoginURL(next string) string {
	if next == "" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

// RequireAuth redirects anonymous callers to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CallerFrom(c).Authenticated() {
			c.Redirect(http.StatusSeeOther, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}
