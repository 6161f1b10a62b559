package order

import (
	"errors"

	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/inventory"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/tablesession"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type StartOrderRequest struct {
	CustomerID uint   `json:"customer_id"`
	Kind       string `json:"kind"` // "dine_in" veya "takeaway"
	TableID    *uint  `json:"table_id"`
	PartySize  int    `json:"party_size"`
}

type AddLineRequest struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

type AssignmentRequest struct {
	EmployeeID uint `json:"employee_id"`
}

type OrderLineResponse struct {
	MenuItemID uint    `json:"menu_item_id"`
	MenuItem   string  `json:"menu_item"`
	Quantity   int     `json:"quantity"`
	Subtotal   float64 `json:"subtotal"`
	Status     string  `json:"status"`
}

type OrderResponse struct {
	ID           uint    `json:"id"`
	CustomerID   uint    `json:"customer_id"`
	TableID      *uint   `json:"table_id"`
	SessionStart *string `json:"session_start"`
	OrderDate    string  `json:"order_date"`
	Total        float64 `json:"total"`
	Status       string  `json:"status"`
	Kind         string  `json:"kind"`
	PartySize    int     `json:"party_size"`

	Lines []OrderLineResponse `json:"lines,omitempty"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	res := OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		TableID:    o.TableID,
		OrderDate:  o.OrderDate.Format("2006-01-02 15:04:05"),
		Total:      o.Total,
		Status:     string(o.Status),
		Kind:       string(o.Kind),
		PartySize:  o.PartySize,
	}
	if o.SessionStart != nil {
		s := o.SessionStart.Format("2006-01-02 15:04:05")
		res.SessionStart = &s
	}
	for _, line := range o.Lines {
		res.Lines = append(res.Lines, OrderLineResponse{
			MenuItemID: line.MenuItemID,
			MenuItem:   line.MenuItem.Name,
			Quantity:   line.Quantity,
			Subtotal:   line.Subtotal,
			Status:     string(line.Status),
		})
	}
	return res
}

// mapServiceError: Çekirdeğin tipli hatalarını HTTP yanıtına çevirir.
func mapServiceError(err error) error {
	var capErr *tablesession.CapacityExceededError
	switch {
	case errors.As(err, &capErr):
		return fiber.NewError(fiber.StatusConflict, capErr.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		return fiber.NewError(fiber.StatusConflict, "Yetersiz stok")
	case errors.Is(err, ErrOrderNotEditable):
		return fiber.NewError(fiber.StatusConflict, "Sipariş bu durumda düzenlenemez")
	case errors.Is(err, ErrLineNotEditable):
		return fiber.NewError(fiber.StatusConflict, "Sipariş kalemi bu durumda düzenlenemez")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
	default:
		return err
	}
}

// POST /api/orders
func StartOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StartOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		kind := models.OrderKind(body.Kind)
		if kind != models.OrderDineIn && kind != models.OrderTakeaway {
			return fiber.NewError(fiber.StatusBadRequest, "kind 'dine_in' veya 'takeaway' olmalı")
		}
		if kind == models.OrderDineIn {
			if body.TableID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Masa siparişi için table_id zorunlu")
			}
			if body.PartySize <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "party_size pozitif olmalı")
			}
		}

		var created *models.Order
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			created, txErr = StartOrder(tx, StartOrderInput{
				CustomerID: body.CustomerID,
				Kind:       kind,
				TableID:    body.TableID,
				PartySize:  body.PartySize,
			})
			return txErr
		})
		if err != nil {
			return mapServiceError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(created))
	}
}

// POST /api/orders/:id/lines
func AddLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		empID, err := auth.EmployeeID(c)
		if err != nil {
			return err
		}

		var body AddLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar pozitif olmalı")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return AddLine(tx, uint(orderID), body.MenuItemID, body.Quantity, empID)
		})
		if err != nil {
			return mapServiceError(err)
		}

		return detailResponse(c, uint(orderID))
	}
}

// POST /api/orders/:id/lines/:menuItemId/decrement
func DecrementLineHandler() fiber.Handler {
	return lineActionHandler(DecrementLine)
}

// POST /api/orders/:id/lines/:menuItemId/cancel
func CancelLineHandler() fiber.Handler {
	return lineActionHandler(CancelLine)
}

// POST /api/orders/:id/lines/:menuItemId/uncancel
func UncancelLineHandler() fiber.Handler {
	return lineActionHandler(UncancelLine)
}

func lineActionHandler(action func(tx *gorm.DB, orderID, menuItemID, employeeID uint) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}
		menuItemID, err := c.ParamsInt("menuItemId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz menü ürünü id")
		}

		empID, err := auth.EmployeeID(c)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return action(tx, uint(orderID), uint(menuItemID), empID)
		})
		if err != nil {
			return mapServiceError(err)
		}

		return detailResponse(c, uint(orderID))
	}
}

// POST /api/orders/:id/cancel
func CancelOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		empID, err := auth.EmployeeID(c)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return CancelOrder(tx, uint(orderID), empID)
		})
		if err != nil {
			return mapServiceError(err)
		}

		return detailResponse(c, uint(orderID))
	}
}

// POST /api/orders/:id/serve
func MarkServedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return MarkServed(tx, uint(orderID))
		})
		if err != nil {
			return mapServiceError(err)
		}

		return detailResponse(c, uint(orderID))
	}
}

// POST /api/orders/:id/assignments
func RecordAssignmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		var body AssignmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return RecordAssignment(tx, uint(orderID), body.EmployeeID)
		})
		if err != nil {
			return mapServiceError(err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DELETE /api/orders/:id/assignments/:employeeId
func RemoveAssignmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}
		employeeID, err := c.ParamsInt("employeeId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz çalışan id")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return RemoveAssignment(tx, uint(orderID), uint(employeeID))
		})
		if err != nil {
			return mapServiceError(err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var orders []models.Order
		if err := database.DB.Order("order_date desc").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		res := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			res = append(res, toOrderResponse(&orders[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/orders/:id
// Kalemleriyle birlikte sipariş detayı; fiş basımında da kullanılır.
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}
		return detailResponse(c, uint(orderID))
	}
}

func detailResponse(c *fiber.Ctx, orderID uint) error {
	var o models.Order
	if err := database.DB.Preload("Lines.MenuItem").First(&o, "id = ?", orderID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
	}
	return c.JSON(toOrderResponse(&o))
}
