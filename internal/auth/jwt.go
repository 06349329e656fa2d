package auth

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hearthledger/budget-backend/errors"
)

// AccessClaims are the caller identity carried by a bearer token.
type AccessClaims struct {
	UserID string
	Email  string
}

type tokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT issues an HS256 access token for userID. Tokens are normally
// issued by the identity provider; this is used by tooling and tests.
func GenerateJWT(userID, email, secretKey string, expiry time.Duration) (string, error) {
	if secretKey == "" {
		return "", fmt.Errorf("jwt secret key is required")
	}

	now := time.Now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
}

// ValidateAccessToken verifies an HS256 token and returns its claims. The
// AppError code names the failure: token_expired, invalid_signature,
// malformed_token or invalid_claims.
func ValidateAccessToken(tokenString, secretKey string) (*AccessClaims, error) {
	if tokenString == "" {
		return nil, errors.Unauthorized("malformed_token", "Authorization token is empty")
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case stderrors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.Unauthorized("token_expired", "Your session has expired")
		case stderrors.Is(err, jwt.ErrTokenSignatureInvalid), stderrors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, errors.Unauthorized("invalid_signature", "Invalid authentication token")
		case stderrors.Is(err, jwt.ErrTokenMalformed):
			return nil, errors.Unauthorized("malformed_token", "Invalid authentication token")
		default:
			return nil, errors.Unauthorized("invalid_token", "Invalid authentication token")
		}
	}
	if !token.Valid {
		return nil, errors.Unauthorized("invalid_token", "Invalid authentication token")
	}
	if claims.Subject == "" {
		return nil, errors.Unauthorized("invalid_claims", "Token has no subject")
	}

	return &AccessClaims{UserID: claims.Subject, Email: claims.Email}, nil
}
