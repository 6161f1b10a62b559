package purchase

import (
	"errors"

	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StartPurchaseRequest struct {
	SupplierID uint `json:"supplier_id"`
}

type AddPurchaseLineRequest struct {
	WarehouseItemID uint    `json:"warehouse_item_id"`
	Quantity        float64 `json:"quantity"`
}

type PurchaseLineResponse struct {
	WarehouseItemID uint    `json:"warehouse_item_id"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
}

type PurchaseResponse struct {
	ID           uint                   `json:"id"`
	SupplierID   uint                   `json:"supplier_id"`
	EmployeeID   uint                   `json:"employee_id"`
	PurchaseDate string                 `json:"purchase_date"`
	Status       string                 `json:"status"`
	TotalCost    float64                `json:"total_cost"`
	Settlement   string                 `json:"settlement,omitempty"`
	TotalPaid    float64                `json:"total_paid"`
	Lines        []PurchaseLineResponse `json:"lines,omitempty"`
}

func toPurchaseResponse(p *models.Purchase) PurchaseResponse {
	res := PurchaseResponse{
		ID:           p.ID,
		SupplierID:   p.SupplierID,
		EmployeeID:   p.EmployeeID,
		PurchaseDate: p.PurchaseDate.Format("2006-01-02 15:04:05"),
		Status:       string(p.Status),
		TotalCost:    p.TotalCost,
	}
	for _, line := range p.Lines {
		res.Lines = append(res.Lines, PurchaseLineResponse{
			WarehouseItemID: line.WarehouseItemID,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
		})
	}
	return res
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, ErrNotDraft):
		return fiber.NewError(fiber.StatusConflict, "Tedarik siparişi taslak durumunda değil")
	case errors.Is(err, ErrNotConfirmed):
		return fiber.NewError(fiber.StatusConflict, "Tedarik siparişi onaylanmamış")
	case errors.Is(err, ErrNoSupplyAgreement):
		return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi bu hammaddeyi sağlamıyor")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
	default:
		return err
	}
}

// POST /api/purchases
func StartPurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		empID, err := auth.EmployeeID(c)
		if err != nil {
			return err
		}

		var body StartPurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		var created *models.Purchase
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			created, txErr = Start(tx, body.SupplierID, empID)
			return txErr
		})
		if err != nil {
			return mapServiceError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(toPurchaseResponse(created))
	}
}

// POST /api/purchases/:id/lines
func AddPurchaseLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		purchaseID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tedarik id")
		}

		var body AddPurchaseLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar pozitif olmalı")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return AddLine(tx, uint(purchaseID), body.WarehouseItemID, body.Quantity)
		})
		if err != nil {
			return mapServiceError(err)
		}

		return detailResponse(c, uint(purchaseID))
	}
}

// POST /api/purchases/:id/lines/:itemId/decrement
func DecrementPurchaseLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		purchaseID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tedarik id")
		}
		itemID, err := c.ParamsInt("itemId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz hammadde id")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return DecrementLine(tx, uint(purchaseID), uint(itemID))
		})
		if err != nil {
			return mapServiceError(err)
		}

		return detailResponse(c, uint(purchaseID))
	}
}

// POST /api/purchases/:id/confirm
func ConfirmPurchaseHandler() fiber.Handler {
	return purchaseActionHandler(func(tx *gorm.DB, id, _ uint) error {
		return Confirm(tx, id)
	})
}

// POST /api/purchases/:id/deliver
func DeliverPurchaseHandler() fiber.Handler {
	return purchaseActionHandler(Deliver)
}

// POST /api/purchases/:id/cancel
func CancelPurchaseHandler() fiber.Handler {
	return purchaseActionHandler(func(tx *gorm.DB, id, _ uint) error {
		return Cancel(tx, id)
	})
}

func purchaseActionHandler(action func(tx *gorm.DB, purchaseID, employeeID uint) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		purchaseID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tedarik id")
		}

		empID, err := auth.EmployeeID(c)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return action(tx, uint(purchaseID), empID)
		})
		if err != nil {
			return mapServiceError(err)
		}

		return detailResponse(c, uint(purchaseID))
	}
}

// GET /api/purchases
func ListPurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var purchases []models.Purchase
		if err := database.DB.Order("purchase_date desc").Find(&purchases).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarik siparişleri listelenemedi")
		}

		res := make([]PurchaseResponse, 0, len(purchases))
		for i := range purchases {
			res = append(res, toPurchaseResponse(&purchases[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/purchases/:id
func GetPurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		purchaseID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tedarik id")
		}
		return detailResponse(c, uint(purchaseID))
	}
}

func detailResponse(c *fiber.Ctx, purchaseID uint) error {
	var p models.Purchase
	if err := database.DB.Preload("Lines").First(&p, "id = ?", purchaseID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Tedarik siparişi bulunamadı")
	}

	res := toPurchaseResponse(&p)

	settlement, paid, err := payment.Settlement(database.DB, purchaseID)
	if err == nil {
		res.Settlement = string(settlement)
		res.TotalPaid = paid
	}

	return c.JSON(res)
}
