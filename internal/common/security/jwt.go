package security

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"inventory_api/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const ClaimUserID = "user_id"

var (
	TokenAuth *jwtauth.JWTAuth
	tokenTTL  time.Duration
)

// Verification failures. Each wraps common.ErrUnauthorized.
var (
	ErrTokenMissing = fmt.Errorf("authorization token required: %w", common.ErrUnauthorized)
	ErrTokenInvalid = fmt.Errorf("invalid or expired token: %w", common.ErrUnauthorized)
	ErrTokenClaims  = fmt.Errorf("invalid token claims: %w", common.ErrUnauthorized)
)

// InitJWT configures the process-wide HS256 signer. The secret comes from
// configuration and is never a literal.
func InitJWT(secret []byte, ttl time.Duration) {
	TokenAuth = jwtauth.New("HS256", secret, nil)
	tokenTTL = ttl
}

func GenerateToken(userID string) (string, error) {
	return generateToken(userID, time.Now(), tokenTTL)
}

func generateToken(userID string, issuedAt time.Time, ttl time.Duration) (string, error) {
	if TokenAuth == nil {
		return "", errors.New("jwt signer not initialized")
	}
	claims := jwt.MapClaims{
		ClaimUserID: userID,
		"exp":       issuedAt.Add(ttl).Unix(),
		"iat":       issuedAt.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// VerifyRequest checks the "Authorization: Bearer <token>" header, the HS256
// signature and expiry, and returns the user id the token asserts.
func VerifyRequest(r *http.Request) (string, error) {
	token, err := jwtauth.VerifyRequest(TokenAuth, r, jwtauth.TokenFromHeader)
	if err != nil {
		if errors.Is(err, jwtauth.ErrNoTokenFound) {
			return "", ErrTokenMissing
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	claims, err := token.AsMap(r.Context())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenClaims, err)
	}
	userID, err := GetUserIDFromClaims(claims)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenClaims, err)
	}
	return userID, nil
}

// GetUserIDFromClaims extracts the user id claim.
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims[ClaimUserID].(string)
	if !ok || id == "" {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}
