package payment

import (
	"errors"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RecordPaymentRequest struct {
	TargetType string  `json:"target_type"` // "order" veya "purchase"
	TargetID   uint    `json:"target_id"`
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"` // ör: "cash", "card"
}

type PaymentResponse struct {
	ID          uint    `json:"id"`
	PaymentDate string  `json:"payment_date"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	TargetType  string  `json:"target_type"`
	OrderID     *uint   `json:"order_id,omitempty"`
	PurchaseID  *uint   `json:"purchase_id,omitempty"`
}

func toPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		PaymentDate: p.PaymentDate.Format("2006-01-02 15:04:05"),
		Amount:      p.Amount,
		Method:      p.Method,
		TargetType:  string(p.TargetType),
		OrderID:     p.OrderID,
		PurchaseID:  p.PurchaseID,
	}
}

// POST /api/payments
func RecordPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RecordPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		method := body.Method
		if method == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ödeme yöntemi zorunlu")
		}

		var created *models.Payment
		var err error
		switch models.PaymentTarget(body.TargetType) {
		case models.PaymentForOrder:
			err = database.DB.Transaction(func(tx *gorm.DB) error {
				var txErr error
				created, txErr = RecordOrderPayment(tx, body.TargetID, body.Amount, method)
				return txErr
			})
		case models.PaymentForPurchase:
			err = database.DB.Transaction(func(tx *gorm.DB) error {
				var txErr error
				created, txErr = RecordPurchasePayment(tx, body.TargetID, body.Amount, method)
				return txErr
			})
		default:
			return fiber.NewError(fiber.StatusBadRequest, "target_type 'order' veya 'purchase' olmalı")
		}

		switch {
		case errors.Is(err, ErrInvalidAmount):
			return fiber.NewError(fiber.StatusBadRequest, "Ödeme tutarı pozitif olmalı")
		case errors.Is(err, ErrOverpayment):
			return fiber.NewError(fiber.StatusBadRequest, "Ödeme tutarı kalan borçtan büyük")
		case errors.Is(err, ErrAlreadySettled):
			return fiber.NewError(fiber.StatusConflict, "Hedef zaten tamamen ödenmiş")
		case errors.Is(err, ErrTargetCancelled):
			return fiber.NewError(fiber.StatusConflict, "İptal edilmiş hedefe ödeme yapılamaz")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		case err != nil:
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(created))
	}
}

// GET /api/payments?target_type=order&target_id=5
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Payment{})

		targetType := c.Query("target_type")
		targetID := c.QueryInt("target_id")

		switch models.PaymentTarget(targetType) {
		case models.PaymentForOrder:
			dbq = dbq.Where("target_type = ? AND order_id = ?", targetType, targetID)
		case models.PaymentForPurchase:
			dbq = dbq.Where("target_type = ? AND purchase_id = ?", targetType, targetID)
		}

		var payments []models.Payment
		if err := dbq.Order("payment_date desc").Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödemeler listelenemedi")
		}

		res := make([]PaymentResponse, 0, len(payments))
		for i := range payments {
			res = append(res, toPaymentResponse(&payments[i]))
		}
		return c.JSON(res)
	}
}
