package recipe

import (
	"errors"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RecipeLineResponse struct {
	WarehouseItemID  uint    `json:"warehouse_item_id"`
	WarehouseItem    string  `json:"warehouse_item"`
	QuantityRequired float64 `json:"quantity_required"`
	IsActive         bool    `json:"is_active"`
}

type UpsertRecipeLineRequest struct {
	WarehouseItemID  uint    `json:"warehouse_item_id"`
	QuantityRequired float64 `json:"quantity_required"`
}

// GET /api/menu-items/:id/recipe
// Pasif satırlar da döner (geçmiş görünür kalsın diye).
func ListRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		menuItemID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz menü ürünü id")
		}

		var lines []models.RecipeLine
		if err := database.DB.Preload("WarehouseItem").
			Where("menu_item_id = ?", menuItemID).
			Find(&lines).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete listelenemedi")
		}

		res := make([]RecipeLineResponse, 0, len(lines))
		for _, line := range lines {
			res = append(res, RecipeLineResponse{
				WarehouseItemID:  line.WarehouseItemID,
				WarehouseItem:    line.WarehouseItem.Name,
				QuantityRequired: line.QuantityRequired,
				IsActive:         line.IsActive,
			})
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/menu-items/:id/recipe
func UpsertRecipeLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		menuItemID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz menü ürünü id")
		}

		var body UpsertRecipeLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		if body.QuantityRequired <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Birim miktar pozitif olmalı")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return UpsertLine(tx, uint(menuItemID), body.WarehouseItemID, body.QuantityRequired)
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		}
		if err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DELETE /api/admin/menu-items/:id/recipe/:itemId
// Satır silinmez, pasifleştirilir.
func DeactivateRecipeLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		menuItemID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz menü ürünü id")
		}
		itemID, err := c.ParamsInt("itemId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz hammadde id")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return DeactivateLine(tx, uint(menuItemID), uint(itemID))
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Reçete satırı bulunamadı")
		}
		if err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
