package tablesession

import (
	"errors"
	"time"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TableResponse struct {
	ID       uint `json:"id"`
	Capacity int  `json:"capacity"`
}

type CreateTableRequest struct {
	Capacity int `json:"capacity"`
}

type SessionResponse struct {
	TableID      uint    `json:"table_id"`
	SessionStart string  `json:"session_start"`
	SessionEnd   *string `json:"session_end"`
	IsClosed     bool    `json:"is_closed"`
	SeatedCount  int     `json:"seated_count"`
}

type CloseSessionRequest struct {
	SessionStart string `json:"session_start"` // "2006-01-02 15:04:05.999999999"
}

const sessionTimeFormat = "2006-01-02 15:04:05.999999999"

func toSessionResponse(s *models.TableSession) SessionResponse {
	res := SessionResponse{
		TableID:      s.TableID,
		SessionStart: s.SessionStart.Format(sessionTimeFormat),
		IsClosed:     s.IsClosed,
		SeatedCount:  s.SeatedCount,
	}
	if s.SessionEnd != nil {
		e := s.SessionEnd.Format(sessionTimeFormat)
		res.SessionEnd = &e
	}
	return res
}

// GET /api/tables
func ListTablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tables []models.Table
		if err := database.DB.Order("id asc").Find(&tables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masalar listelenemedi")
		}

		res := make([]TableResponse, 0, len(tables))
		for _, t := range tables {
			res = append(res, TableResponse{ID: t.ID, Capacity: t.Capacity})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/tables
func CreateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		if body.Capacity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Kapasite pozitif olmalı")
		}

		t := models.Table{Capacity: body.Capacity}
		if err := database.DB.Create(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(TableResponse{ID: t.ID, Capacity: t.Capacity})
	}
}

// GET /api/tables/:id/session
// Masanın açık oturumu; yoksa 404.
func GetActiveSessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tableID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz masa id")
		}

		sess, err := GetActiveSession(database.DB, uint(tableID))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Oturum sorgulanamadı")
		}
		if sess == nil {
			return fiber.NewError(fiber.StatusNotFound, "Masanın açık oturumu yok")
		}

		return c.JSON(toSessionResponse(sess))
	}
}

// POST /api/tables/:id/close-session
func CloseSessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tableID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz masa id")
		}

		var body CloseSessionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		start, err := time.ParseInLocation(sessionTimeFormat, body.SessionStart, time.Local)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "session_start formatı geçersiz")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return CloseSession(tx, uint(tableID), start)
		})
		switch {
		case errors.Is(err, ErrSessionBlocked):
			return fiber.NewError(fiber.StatusConflict, "Oturumda bekleyen/servis edilen sipariş var, kapatılamaz")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Oturum bulunamadı")
		case err != nil:
			return err
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
