package supplier

import (
	"strings"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SupplierResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type CreateSupplierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type SupplierItemResponse struct {
	WarehouseItemID uint    `json:"warehouse_item_id"`
	WarehouseItem   string  `json:"warehouse_item"`
	UnitPrice       float64 `json:"unit_price"`
}

type UpsertSupplierItemRequest struct {
	WarehouseItemID uint    `json:"warehouse_item_id"`
	UnitPrice       float64 `json:"unit_price"`
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Order("name asc").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçiler listelenemedi")
		}

		res := make([]SupplierResponse, 0, len(suppliers))
		for _, s := range suppliers {
			res = append(res, SupplierResponse{ID: s.ID, Name: s.Name, Phone: s.Phone, Email: s.Email})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi adı boş olamaz")
		}

		s := models.Supplier{
			Name:  body.Name,
			Phone: strings.TrimSpace(body.Phone),
			Email: strings.TrimSpace(body.Email),
		}
		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(SupplierResponse{ID: s.ID, Name: s.Name, Phone: s.Phone, Email: s.Email})
	}
}

// GET /api/suppliers/:id/items
// Tedarikçinin katalogu; PurchaseWorkflow fiyatı buradan okur.
func ListSupplierItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tedarikçi id")
		}

		var items []models.SupplierItem
		if err := database.DB.Preload("WarehouseItem").
			Where("supplier_id = ?", id).
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katalog listelenemedi")
		}

		res := make([]SupplierItemResponse, 0, len(items))
		for _, item := range items {
			res = append(res, SupplierItemResponse{
				WarehouseItemID: item.WarehouseItemID,
				WarehouseItem:   item.WarehouseItem.Name,
				UnitPrice:       item.UnitPrice,
			})
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/suppliers/:id/items
// Katalog fiyatı günceller; sonraki tedarik kalemlerinde geçerli olur,
// var olan kalemlerin sabitlenmiş fiyatına dokunmaz.
func UpsertSupplierItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tedarikçi id")
		}

		var body UpsertSupplierItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		if body.UnitPrice <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat pozitif olmalı")
		}

		if err := database.DB.First(&models.Supplier{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tedarikçi bulunamadı")
		}
		if err := database.DB.First(&models.WarehouseItem{}, "id = ?", body.WarehouseItemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hammadde bulunamadı")
		}

		var existing models.SupplierItem
		err = database.DB.Where("supplier_id = ? AND warehouse_item_id = ?", id, body.WarehouseItemID).
			First(&existing).Error
		if err == nil {
			existing.UnitPrice = body.UnitPrice
			if err := database.DB.Save(&existing).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Katalog güncellenemedi")
			}
			return c.SendStatus(fiber.StatusNoContent)
		}

		item := models.SupplierItem{
			SupplierID:      uint(id),
			WarehouseItemID: body.WarehouseItemID,
			UnitPrice:       body.UnitPrice,
		}
		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katalog kaydı oluşturulamadı")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DELETE /api/admin/suppliers/:id/items/:itemId
// Tedarik anlaşması sonlandırılır; sonraki AddPurchaseLine çağrıları
// bu hammadde için NoSupplyAgreement alır.
func DeleteSupplierItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tedarikçi id")
		}
		itemID, err := c.ParamsInt("itemId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz hammadde id")
		}

		if err := database.DB.Where("supplier_id = ? AND warehouse_item_id = ?", id, itemID).
			Delete(&models.SupplierItem{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katalog kaydı silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
