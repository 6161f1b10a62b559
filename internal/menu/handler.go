package menu

import (
	"strings"

	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MenuItemResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"is_available"`
}

type CreateMenuItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type UpdateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	IsAvailable *bool    `json:"is_available"`
}

func toResponse(m *models.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Price:       m.Price,
		IsAvailable: m.IsAvailable,
	}
}

// GET /api/menu-items?available=true
func ListMenuItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.MenuItem{})
		if c.Query("available") == "true" {
			dbq = dbq.Where("is_available = ?", true)
		}

		var items []models.MenuItem
		if err := dbq.Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü listelenemedi")
		}

		res := make([]MenuItemResponse, 0, len(items))
		for i := range items {
			res = append(res, toResponse(&items[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/menu-items
func CreateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		empID, err := auth.EmployeeID(c)
		if err != nil {
			return err
		}

		var body CreateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
		}
		if body.Price <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat pozitif olmalı")
		}

		item := models.MenuItem{
			Name:        body.Name,
			Price:       body.Price,
			IsAvailable: true,
		}
		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü ürünü oluşturulamadı")
		}

		_ = audit.WriteLog(audit.LogOptions{
			EmployeeID: empID,
			EntityType: "menu_item",
			EntityID:   item.ID,
			Action:     models.AuditActionCreate,
			After:      item,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(&item))
	}
}

// PUT /api/admin/menu-items/:id
func UpdateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		empID, err := auth.EmployeeID(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var item models.MenuItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menü ürünü bulunamadı")
		}
		before := item

		var body UpdateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			item.Name = name
		}
		if body.Price != nil {
			if *body.Price <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat pozitif olmalı")
			}
			item.Price = *body.Price
		}
		if body.IsAvailable != nil {
			item.IsAvailable = *body.IsAvailable
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü ürünü güncellenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			EmployeeID: empID,
			EntityType: "menu_item",
			EntityID:   item.ID,
			Action:     models.AuditActionUpdate,
			Before:     before,
			After:      item,
		})

		return c.JSON(toResponse(&item))
	}
}
