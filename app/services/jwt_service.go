package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService verifies operator-identity tokens minted by the dashboard's
// auth layer. Sessions and permissions live there; this service only checks
// the signature and extracts the operator and workspace grants.
type JWTService struct {
	secret     []byte
	expiration time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string, expirationSec int64) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		expiration: time.Duration(expirationSec) * time.Second,
	}
}

// OperatorClaims represents operator JWT claims
type OperatorClaims struct {
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username"`
	Workspaces []int64 `json:"workspaces"`
	jwt.RegisteredClaims
}

// HasWorkspace reports whether the token grants access to a workspace.
func (c *OperatorClaims) HasWorkspace(workspaceGroupID int64) bool {
	for _, id := range c.Workspaces {
		if id == workspaceGroupID {
			return true
		}
	}
	return false
}

// GenerateToken mints an operator token. Used by the dashboard integration
// and the test suite.
func (j *JWTService) GenerateToken(userID int64, username string, workspaces []int64) (string, error) {
	now := time.Now()
	claims := &OperatorClaims{
		UserID:     userID,
		Username:   username,
		Workspaces: workspaces,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			Issuer:    "remote-admin-svc",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates an operator token and returns its claims.
func (j *JWTService) ValidateToken(tokenString string) (*OperatorClaims, error) {
	claims := &OperatorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
