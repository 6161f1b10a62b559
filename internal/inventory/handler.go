package inventory

import (
	"strings"

	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WarehouseItemResponse struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	Unit             string  `json:"unit"`
	StockQuantity    float64 `json:"stock_quantity"`
	ReorderThreshold float64 `json:"reorder_threshold"`
}

type CreateWarehouseItemRequest struct {
	Name             string  `json:"name"`
	Unit             string  `json:"unit"`
	InitialStock     float64 `json:"initial_stock"` // Opsiyonel; hareket günlüğüne giriş olarak yazılır
	ReorderThreshold float64 `json:"reorder_threshold"`
}

type UpdateWarehouseItemRequest struct {
	Name             *string  `json:"name"`
	Unit             *string  `json:"unit"`
	ReorderThreshold *float64 `json:"reorder_threshold"`
}

type StockMovementResponse struct {
	ID              uint    `json:"id"`
	MovementType    string  `json:"movement_type"`
	QuantityChange  float64 `json:"quantity_change"`
	MovementDate    string  `json:"movement_date"`
	WarehouseItemID uint    `json:"warehouse_item_id"`
	EmployeeID      uint    `json:"employee_id"`
}

func toItemResponse(item *models.WarehouseItem) WarehouseItemResponse {
	return WarehouseItemResponse{
		ID:               item.ID,
		Name:             item.Name,
		Unit:             item.Unit,
		StockQuantity:    item.StockQuantity,
		ReorderThreshold: item.ReorderThreshold,
	}
}

// GET /api/warehouse-items
func ListWarehouseItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.WarehouseItem
		if err := database.DB.Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hammaddeler listelenemedi")
		}

		res := make([]WarehouseItemResponse, 0, len(items))
		for i := range items {
			res = append(res, toItemResponse(&items[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/warehouse-items
// Başlangıç stoğu doğrudan kolona yazılmaz; stok her zaman hareket
// günlüğüyle birlikte değişsin diye Receive üzerinden girilir.
func CreateWarehouseItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		empID, err := auth.EmployeeID(c)
		if err != nil {
			return err
		}

		var body CreateWarehouseItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)
		if body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name ve unit zorunlu")
		}
		if body.InitialStock < 0 || body.ReorderThreshold < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stok ve eşik negatif olamaz")
		}

		item := models.WarehouseItem{
			Name:             body.Name,
			Unit:             body.Unit,
			StockQuantity:    0,
			ReorderThreshold: body.ReorderThreshold,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			if body.InitialStock > 0 {
				if err := Receive(tx, item.ID, body.InitialStock, empID); err != nil {
					return err
				}
				item.StockQuantity = body.InitialStock
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hammadde oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toItemResponse(&item))
	}
}

// PUT /api/admin/warehouse-items/:id
// Stok miktarı buradan değiştirilemez; sadece tanım alanları güncellenir.
func UpdateWarehouseItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.WarehouseItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hammadde bulunamadı")
		}

		var body UpdateWarehouseItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			item.Name = name
		}
		if body.Unit != nil {
			item.Unit = strings.TrimSpace(*body.Unit)
		}
		if body.ReorderThreshold != nil {
			if *body.ReorderThreshold < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Eşik negatif olamaz")
			}
			item.ReorderThreshold = *body.ReorderThreshold
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hammadde güncellenemedi")
		}

		return c.JSON(toItemResponse(&item))
	}
}

// GET /api/warehouse-items/reorder
// Eşiğin altına inmiş (veya eşiğe eşit) hammaddeler.
func ReorderReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.WarehouseItem
		if err := database.DB.
			Where("stock_quantity <= reorder_threshold").
			Order("name asc").
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
		}

		res := make([]WarehouseItemResponse, 0, len(items))
		for i := range items {
			res = append(res, toItemResponse(&items[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/warehouse-items/:id/movements
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.First(&models.WarehouseItem{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hammadde bulunamadı")
		}

		var movements []models.StockMovement
		if err := database.DB.
			Where("warehouse_item_id = ?", id).
			Order("movement_date desc").
			Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareketler listelenemedi")
		}

		res := make([]StockMovementResponse, 0, len(movements))
		for _, m := range movements {
			res = append(res, StockMovementResponse{
				ID:              m.ID,
				MovementType:    string(m.MovementType),
				QuantityChange:  m.QuantityChange,
				MovementDate:    m.MovementDate.Format("2006-01-02 15:04:05"),
				WarehouseItemID: m.WarehouseItemID,
				EmployeeID:      m.EmployeeID,
			})
		}
		return c.JSON(res)
	}
}
