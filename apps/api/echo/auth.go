package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    []byte(core.Conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "identityToken",
		Claims:        new(Claims),
	}
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	StudentID int64  `json:"student_id,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}

func GetIdentityClaims(ident auth.Identity) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   ident.Email,
			Audience:  "Academia",
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:     ident.Email,
		Role:      string(ident.Role),
		StudentID: ident.StudentID.Int64,
		IsAdmin:   ident.Role == auth.RoleAdmin,
	}
}

// GenerateToken generates a signed JWT token string representing the identity Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextIdentity rebuilds the identity carried by the request's claims.
// nil when the request is unauthenticated.
func getContextIdentity(ctx echo.Context) *auth.Identity {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil
	}
	ident := &auth.Identity{
		Email: claims.Email,
		Role:  auth.Role(claims.Role),
	}
	if claims.StudentID != 0 {
		ident.StudentID = null.Int64From(claims.StudentID)
	}
	return ident
}
