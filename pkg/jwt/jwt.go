package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos en el claim "role".
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Claims incluye los claims estándar JWT más el tenant (admin) y el actor (empleado).
// AdminID identifica al tenant dueño de los datos; EmployeeID es opcional y solo
// se usa para atribuir movimientos del ledger.
type Claims struct {
	jwt.RegisteredClaims
	AdminID    string `json:"admin_id"`
	EmployeeID string `json:"employee_id,omitempty"`
	Role       string `json:"role"`
}

// Generate genera un token JWT firmado (HS256). La emisión real la hace el proveedor
// de identidad; se usa en tests y herramientas.
func Generate(secret, adminID, employeeID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	subject := adminID
	if employeeID != "" {
		subject = employeeID
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		AdminID:    adminID,
		EmployeeID: employeeID,
		Role:       role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve adminID, employeeID y role.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (adminID, employeeID, role string, err error) {
	if secret == "" {
		return "", "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", "", fmt.Errorf("claims inválidos")
	}
	if claims.AdminID == "" {
		return "", "", "", fmt.Errorf("jwt: admin_id ausente")
	}
	return claims.AdminID, claims.EmployeeID, claims.Role, nil
}
