package inventory

import (
	"log"
	"strconv"
	"strings"

	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ImportResultResponse struct {
	CreatedCount int      `json:"created_count"`
	SkippedCount int      `json:"skipped_count"`
	SkippedRows  []string `json:"skipped_rows"`
}

// POST /api/admin/warehouse-items/import
// Excel dosyasından toplu hammadde girişi. Beklenen kolonlar:
// ad | birim | başlangıç stoğu | sipariş eşiği
func ImportWarehouseItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		empID, err := auth.EmployeeID(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		// İlk satır başlık satırı mı?
		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "HAMMADDE") || strings.Contains(firstCell, "AD") ||
				strings.Contains(firstCell, "NAME") || strings.Contains(firstCell, "ITEM") {
				startIndex = 1
				log.Println("İlk satır başlık satırı olarak algılandı, atlanıyor")
			}
		}

		result := ImportResultResponse{SkippedRows: make([]string, 0)}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for i := startIndex; i < len(rows); i++ {
				row := rows[i]
				if len(row) == 0 {
					continue
				}

				name := strings.TrimSpace(row[0])
				if name == "" {
					continue
				}

				unit := "adet"
				if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
					unit = strings.TrimSpace(row[1])
				}

				initialStock := 0.0
				if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
					v, parseErr := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
					if parseErr != nil || v < 0 {
						result.SkippedCount++
						result.SkippedRows = append(result.SkippedRows, name+": geçersiz stok miktarı")
						continue
					}
					initialStock = v
				}

				threshold := 0.0
				if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
					v, parseErr := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
					if parseErr != nil || v < 0 {
						result.SkippedCount++
						result.SkippedRows = append(result.SkippedRows, name+": geçersiz eşik")
						continue
					}
					threshold = v
				}

				// Aynı isimde hammadde varsa atla
				var count int64
				if err := tx.Model(&models.WarehouseItem{}).
					Where("name = ?", name).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					result.SkippedCount++
					result.SkippedRows = append(result.SkippedRows, name+": zaten mevcut")
					continue
				}

				item := models.WarehouseItem{
					Name:             name,
					Unit:             unit,
					StockQuantity:    0,
					ReorderThreshold: threshold,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				if initialStock > 0 {
					if err := Receive(tx, item.ID, initialStock, empID); err != nil {
						return err
					}
				}
				result.CreatedCount++
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İçe aktarma başarısız: "+err.Error())
		}

		log.Printf("Hammadde içe aktarma tamamlandı: %d eklendi, %d atlandı", result.CreatedCount, result.SkippedCount)
		return c.JSON(result)
	}
}
