package recipe

import (
	"errors"
	"fmt"

	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

// ActiveLines: Menü ürününün güncel reçetesi (sadece aktif satırlar).
// OrderLedger stok ayırırken bunu kullanır.
func ActiveLines(tx *gorm.DB, menuItemID uint) ([]models.RecipeLine, error) {
	var lines []models.RecipeLine
	if err := tx.Where("menu_item_id = ? AND is_active = ?", menuItemID, true).
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// UpsertLine: Reçete satırı ekler veya günceller. Daha önce
// pasifleştirilmiş bir satır yeniden aktifleştirilir.
func UpsertLine(tx *gorm.DB, menuItemID, warehouseItemID uint, quantityRequired float64) error {
	if err := tx.First(&models.MenuItem{}, "id = ?", menuItemID).Error; err != nil {
		return fmt.Errorf("menü ürünü bulunamadı (id=%d): %w", menuItemID, err)
	}
	if err := tx.First(&models.WarehouseItem{}, "id = ?", warehouseItemID).Error; err != nil {
		return fmt.Errorf("hammadde bulunamadı (id=%d): %w", warehouseItemID, err)
	}

	var line models.RecipeLine
	err := tx.Where("menu_item_id = ? AND warehouse_item_id = ?", menuItemID, warehouseItemID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		line = models.RecipeLine{
			MenuItemID:       menuItemID,
			WarehouseItemID:  warehouseItemID,
			QuantityRequired: quantityRequired,
			IsActive:         true,
		}
		return tx.Create(&line).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&models.RecipeLine{}).
		Where("menu_item_id = ? AND warehouse_item_id = ?", menuItemID, warehouseItemID).
		Updates(map[string]any{
			"quantity_required": quantityRequired,
			"is_active":         true,
		}).Error
}

// DeactivateLine: Satırı pasifleştirir; geçmiş için silinmez.
func DeactivateLine(tx *gorm.DB, menuItemID, warehouseItemID uint) error {
	var line models.RecipeLine
	if err := tx.Where("menu_item_id = ? AND warehouse_item_id = ?", menuItemID, warehouseItemID).
		First(&line).Error; err != nil {
		return fmt.Errorf("reçete satırı bulunamadı: %w", err)
	}

	return tx.Model(&models.RecipeLine{}).
		Where("menu_item_id = ? AND warehouse_item_id = ?", menuItemID, warehouseItemID).
		Update("is_active", false).Error
}
