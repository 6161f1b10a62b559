package staff

import (
	"strings"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	PositionTitle string `json:"position_title"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	IsActive      bool   `json:"is_active"`
}

type CreateEmployeeRequest struct {
	Name          string `json:"name"`
	PositionTitle string `json:"position_title"`
	Email         string `json:"email"`
	Password      string `json:"password"`
}

type UpdateEmployeeRequest struct {
	Name          *string `json:"name"`
	PositionTitle *string `json:"position_title"`
}

func toResponse(e *models.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		Name:          e.Name,
		PositionTitle: e.PositionTitle,
		Email:         e.Email,
		Role:          string(e.Role),
		IsActive:      e.IsActive,
	}
}

// GET /api/employees
func ListEmployeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var employees []models.Employee
		if err := database.DB.Order("id asc").Find(&employees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çalışanlar listelenemedi")
		}

		res := make([]EmployeeResponse, 0, len(employees))
		for i := range employees {
			res = append(res, toResponse(&employees[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/employees
func CreateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.PositionTitle = strings.TrimSpace(body.PositionTitle)

		if body.Name == "" || body.Email == "" || body.Password == "" || body.PositionTitle == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, pozisyon, email ve şifre zorunlu")
		}

		var existing models.Employee
		if err := database.DB.Where("email = ?", body.Email).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu email zaten kullanılıyor")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		emp := models.Employee{
			Name:          body.Name,
			PositionTitle: body.PositionTitle,
			Email:         body.Email,
			PasswordHash:  string(hash),
			Role:          models.RoleStaff,
			IsActive:      true,
		}
		if err := database.DB.Create(&emp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çalışan oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&emp))
	}
}

// PUT /api/admin/employees/:id
func UpdateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var emp models.Employee
		if err := database.DB.First(&emp, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Çalışan bulunamadı")
		}

		var body UpdateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "İsim boş olamaz")
			}
			emp.Name = name
		}
		if body.PositionTitle != nil {
			emp.PositionTitle = strings.TrimSpace(*body.PositionTitle)
		}

		if err := database.DB.Save(&emp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çalışan güncellenemedi")
		}

		return c.JSON(toResponse(&emp))
	}
}

// POST /api/admin/employees/:id/toggle-active
func ToggleEmployeeActiveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var emp models.Employee
		if err := database.DB.First(&emp, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Çalışan bulunamadı")
		}

		emp.IsActive = !emp.IsActive
		if err := database.DB.Save(&emp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çalışan güncellenemedi")
		}

		return c.JSON(toResponse(&emp))
	}
}
