// Package auth identifies callers. Users log in with email and password and
// receive a signed token that is sent as bearer token on all other requests.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const contextUserID = "budget-user-id"

var (
	ErrTokenMissing = errors.New("missing or invalid Authorization header")
	ErrTokenInvalid = errors.New("the token is invalid or has expired")
)

type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) Authenticator {
	return Authenticator{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed token for the user and the time it expires.
func (a Authenticator) Issue(userID uuid.UUID) (string, time.Time, error) {
	now := a.now().UTC()
	expires := now.Add(a.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return signed, expires, nil
}

// Verify checks the token and returns the ID of the user it was issued for.
func (a Authenticator) Verify(tokenString string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return uuid.Nil, ErrTokenInvalid
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}

	return id, nil
}

// Middleware aborts requests without a valid bearer token with
// 401 Unauthorized. OPTIONS requests are always let through.
func (a Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrTokenMissing.Error()})
			return
		}

		id, err := a.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(contextUserID, id)
		c.Next()
	}
}

// UserID returns the ID of the authenticated caller. It is uuid.Nil if the
// request did not pass the Middleware.
func UserID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(contextUserID)
	if !ok {
		return uuid.Nil
	}

	id, _ := v.(uuid.UUID)
	return id
}
