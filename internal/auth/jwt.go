package auth

import (
	"time"

	"lokanta-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	EmployeeID uint                `json:"employee_id"`
	Email      string              `json:"email"`
	Role       models.EmployeeRole `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, emp *models.Employee) (string, error) {
	claims := &JWTCustomClaims{
		EmployeeID: emp.ID,
		Email:      emp.Email,
		Role:       emp.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // 1 gün
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
