package middleware

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	models "Scrawl/models/postgres"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const claimsKey = "claims"

// Claims is the bearer token payload issued at login and consumed by
// every authenticated endpoint.
type Claims struct {
	UUID     string          `json:"uuid"`
	Name     string          `json:"name"`
	Verified bool            `json:"verified"`
	UserType models.UserType `json:"type"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWTSECRET")
	if secret == "" {
		// fall back on an invalid secret if none is registered in the env
		secret = "invalid"
	}
	return []byte(secret)
}

// CreateAccessToken signs a token for the account. Expiry comes from
// JWTEXPIRY (seconds), defaulting to an hour.
func CreateAccessToken(account *models.Account) (string, error) {
	expiry := 3600
	if v, err := strconv.Atoi(os.Getenv("JWTEXPIRY")); err == nil && v > 0 {
		expiry = v
	}

	claims := Claims{
		UUID:     account.UUID,
		Name:     account.Name,
		Verified: account.Verified,
		UserType: account.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiry) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// VerifyJWT checks the Authorization header and stores the decoded
// claims on the context for downstream gates and handlers.
func VerifyJWT(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no Bearer auth header found"})
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	c.Set(claimsKey, claims)
	c.Next()
}

// TokenClaims returns the claims stored by VerifyJWT. Handlers behind
// the middleware can rely on ok being true.
func TokenClaims(c *gin.Context) (*Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*Claims)
	return claims, ok
}

// RequireOwner lets a request through when the :uuid path parameter is
// the caller's own account, or the caller is a moderator or above.
func RequireOwner(c *gin.Context) {
	claims, ok := TokenClaims(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if claims.UserType <= models.UserTypeModerator || claims.UUID == c.Param("uuid") {
		c.Next()
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "this resource is scoped to its owner and moderators"})
}

// RequireVerified blocks accounts that have not confirmed their email.
func RequireVerified(c *gin.Context) {
	claims, ok := TokenClaims(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if !claims.Verified {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you must verify your email address before you can access this endpoint"})
		return
	}
	c.Next()
}

// RequireModerator admits moderators and administrators.
func RequireModerator(c *gin.Context) {
	claims, ok := TokenClaims(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if claims.UserType > models.UserTypeModerator {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "this is a resource scoped to moderators and above"})
		return
	}
	c.Next()
}

// RequireAdmin admits administrators only.
func RequireAdmin(c *gin.Context) {
	claims, ok := TokenClaims(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if claims.UserType != models.UserTypeAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "this is a resource scoped to administrators"})
		return
	}
	c.Next()
}
