package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos por la API.
const (
	RoleAuditor = "auditor" // consulta, valida e importa
	RoleAdmin   = "admin"   // además puede eliminar documentos
)

var (
	errNoSecret  = errors.New("jwt: secret vacío")
	errNoSubject = errors.New("jwt: subject vacío")
)

// Claims registrados más el rol del usuario; el middleware autoriza solo con esto.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Generate firma con HS256 un token para subject que vence en ttlMinutes.
func Generate(secret, subject, role, issuer string, ttlMinutes int) (string, error) {
	switch {
	case secret == "":
		return "", errNoSecret
	case subject == "":
		return "", errNoSubject
	}
	issued := time.Now()
	expires := issued.Add(time.Duration(ttlMinutes) * time.Minute)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Role: role,
	}).SignedString([]byte(secret))
}

// Parse verifica firma y vencimiento, y devuelve subject y rol.
func Parse(secret, raw string) (subject, role string, err error) {
	if secret == "" {
		return "", "", errNoSecret
	}
	claims := &Claims{}
	_, err = jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", "", fmt.Errorf("jwt: %w", err)
	}
	return claims.Subject, claims.Role, nil
}
