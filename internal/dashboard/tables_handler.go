package dashboard

import (
	"fmt"
	"time"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/tablesession"

	"github.com/gofiber/fiber/v2"
)

type LatestOrderInfo struct {
	ID     uint    `json:"id"`
	Status string  `json:"status"`
	Total  float64 `json:"total"`
}

type TableStateResponse struct {
	TableID         uint             `json:"table_id"`
	Capacity        int              `json:"capacity"`
	State           string           `json:"state"`
	SessionStart    *string          `json:"session_start"`
	SessionDuration *string          `json:"session_duration"`
	SeatedCount     int              `json:"seated_count"`
	LatestOrder     *LatestOrderInfo `json:"latest_order"`
	CanClose        bool             `json:"can_close"`
}

// GET /api/dashboard/tables
// Salon görünümü: her masanın durumu, açık oturum süresi ve kapatılabilirliği.
func TablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tables []models.Table
		if err := database.DB.Order("id asc").Find(&tables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masalar listelenemedi")
		}

		result := make([]TableStateResponse, 0, len(tables))

		for _, t := range tables {
			entry := TableStateResponse{
				TableID:  t.ID,
				Capacity: t.Capacity,
				State:    "free",
			}

			sess, err := tablesession.GetActiveSession(database.DB, t.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Oturum sorgulanamadı")
			}

			if sess != nil {
				start := sess.SessionStart.Format("2006-01-02 15:04:05.999999999")
				entry.SessionStart = &start
				entry.SeatedCount = sess.SeatedCount

				minutes := int(time.Since(sess.SessionStart).Minutes())
				duration := fmt.Sprintf("%d min", minutes)
				entry.SessionDuration = &duration

				var latest models.Order
				err := database.DB.
					Where("table_id = ? AND session_start = ?", t.ID, sess.SessionStart).
					Order("order_date desc").
					First(&latest).Error

				if err != nil {
					entry.State = "occupied_no_order_yet"
				} else {
					entry.LatestOrder = &LatestOrderInfo{
						ID:     latest.ID,
						Status: string(latest.Status),
						Total:  latest.Total,
					}
					switch latest.Status {
					case models.OrderPending:
						entry.State = "occupied_no_order_yet"
					case models.OrderOrdered:
						entry.State = "ordered_waiting"
					case models.OrderServed:
						entry.State = "served_waiting_payment"
					case models.OrderPaid:
						entry.State = "paid_but_seated"
					default:
						entry.State = "occupied_no_order_yet"
					}
				}

				// Oturum ancak engelleyen sipariş kalmayınca kapatılabilir
				var blocking int64
				database.DB.Model(&models.Order{}).
					Where("table_id = ? AND session_start = ? AND status IN ?",
						t.ID, sess.SessionStart,
						[]models.OrderStatus{models.OrderPending, models.OrderOrdered, models.OrderServed}).
					Count(&blocking)
				entry.CanClose = blocking == 0
			}

			result = append(result, entry)
		}

		return c.JSON(result)
	}
}
