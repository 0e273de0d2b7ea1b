package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity es el resultado tipado de verificar un bearer token. Los call sites
// deciden explícitamente el camino no autenticado: Parse nunca degrada un
// token inválido a identidad anónima de forma silenciosa.
type Identity struct {
	UserID string
	OrgID  string // tenant activo embebido en el token; puede estar vacío
	Email  string
	Role   string // "admin" | "gerente" | "vendedor"
}

// Anonymous identidad vacía para rutas que aceptan requests sin token.
func Anonymous() Identity { return Identity{} }

// IsAnonymous informa si la identidad no tiene sujeto.
func (i Identity) IsAnonymous() bool { return i.UserID == "" }

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Generate genera un token JWT HS256 firmado con la identidad dada.
func Generate(secret string, id Identity, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: id.UserID,
		OrgID:  id.OrgID,
		Email:  id.Email,
		Role:   id.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad. Retorna error si el token es
// inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	return Identity{
		UserID: claims.UserID,
		OrgID:  claims.OrgID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
