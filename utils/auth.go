package utils

import (
	"edunova/common"
	"edunova/config"
	"edunova/models"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID      = "userID"
	ContextUserEmail   = "userEmail"
	ContextTokenID     = "tokenID"
	ContextTokenExpiry = "tokenExpiry"
)

const tokenIssuer = "edunova"

var errNoSecret = errors.New("JWT secret is not configured")

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches the stored bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Claims is the payload of an edunova access token.
type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateJWT signs an access token for user. The jti is a dashless UUID so a
// single token can be revoked on logout.
func GenerateJWT(user models.User, cfg *config.Config) (string, error) {
	if cfg.JwtSecret == "" {
		return "", errNoSecret
	}

	issued := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        GenerateDashlessUUID(),
			Issuer:    tokenIssuer,
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(cfg.TokenLifetime)),
		},
	}).SignedString([]byte(cfg.JwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateJWT parses tokenString and checks its signature, issuer and expiry.
// Rejections wrap common.ErrUnauthorized.
func ValidateJWT(tokenString string, cfg *config.Config) (*Claims, error) {
	if cfg.JwtSecret == "" {
		return nil, errNoSecret
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JwtSecret), nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: token has expired", common.ErrUnauthorized)
	default:
		return nil, fmt.Errorf("%w: invalid token: %v", common.ErrUnauthorized, err)
	}
}

// RevocationChecker reports whether a token ID has been revoked by a logout.
type RevocationChecker interface {
	IsTokenRevoked(tokenID string) bool
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
		return "", false
	}
	return fields[1], true
}

// AuthMiddleware rejects requests without a valid, unrevoked bearer token and
// stores the caller's identity in the gin context. revoked may be nil.
func AuthMiddleware(cfg *config.Config, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			GinUnauthorized(c, "Authorization header required")
			return
		}
		raw, ok := bearerToken(header)
		if !ok {
			GinError(c, http.StatusBadRequest, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := ValidateJWT(raw, cfg)
		if err != nil {
			GinUnauthorized(c, "Invalid token: "+err.Error())
			return
		}
		if revoked != nil && revoked.IsTokenRevoked(claims.ID) {
			GinUnauthorized(c, "Invalid token: token has been revoked")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExpiry, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// UserIDFromContext returns the user ID stored by AuthMiddleware.
func UserIDFromContext(c *gin.Context) (int, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok && id > 0
}
