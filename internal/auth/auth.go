package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtIssuer   = "fitclub-api"
	jwtAudience = "fitclub-members"

	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// tokenKind separates short-lived access tokens from the refresh tokens
// that can only be traded for new access tokens.
type tokenKind string

const (
	tokenTypeAccess  tokenKind = "access"
	tokenTypeRefresh tokenKind = "refresh"
)

func (k tokenKind) ttl() time.Duration {
	if k == tokenTypeRefresh {
		return RefreshTokenTTL
	}
	return AccessTokenTTL
}

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrEmptyJWTSecret   = errors.New("jwt secret cannot be empty")
	ErrUnknownRole      = errors.New("unknown member role")
)

// Identity is the member a token speaks for.
type Identity struct {
	MemberID uuid.UUID `json:"member_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func knownRole(role string) bool {
	return role == RoleMember || role == RoleAdmin
}

// Claims is the JWT payload. The registered subject always carries the
// member id as well, and tokens where the two disagree are rejected.
type Claims struct {
	Identity
	TokenType tokenKind `json:"token_type"`
	jwt.RegisteredClaims
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hashedPassword, plainPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword)) == nil
}

func issue(id Identity, kind tokenKind, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptyJWTSecret
	}
	if !knownRole(id.Role) {
		return "", ErrUnknownRole
	}

	now := time.Now()
	claims := &Claims{
		Identity:  id,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    jwtIssuer,
			Subject:   id.MemberID.String(),
			Audience:  jwt.ClaimStrings{jwtAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(kind.ttl())),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func GenerateAccessToken(memberID uuid.UUID, email, role, secret string) (string, error) {
	return issue(Identity{MemberID: memberID, Email: email, Role: role}, tokenTypeAccess, secret)
}

func GenerateRefreshToken(memberID uuid.UUID, email, role, secret string) (string, error) {
	return issue(Identity{MemberID: memberID, Email: email, Role: role}, tokenTypeRefresh, secret)
}

// GenerateTokens returns the access and refresh pair handed out at login.
func GenerateTokens(memberID uuid.UUID, email, role, secret string) (accessToken, refreshToken string, err error) {
	id := Identity{MemberID: memberID, Email: email, Role: role}
	if accessToken, err = issue(id, tokenTypeAccess, secret); err != nil {
		return "", "", err
	}
	if refreshToken, err = issue(id, tokenTypeRefresh, secret); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func ValidateToken(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptyJWTSecret
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer),
		jwt.WithAudience(jwtAudience),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, err
	}

	if claims.MemberID == uuid.Nil || claims.Subject != claims.MemberID.String() || !knownRole(claims.Role) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
// Callers that need current role data should reissue from the stored member.
func RefreshAccessToken(refreshToken, secret string) (string, *Claims, error) {
	claims, err := ValidateToken(refreshToken, secret)
	if err != nil {
		return "", nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return "", nil, ErrInvalidTokenType
	}

	access, err := issue(claims.Identity, tokenTypeAccess, secret)
	if err != nil {
		return "", nil, err
	}
	return access, claims, nil
}
