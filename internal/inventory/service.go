package inventory

import (
	"errors"
	"fmt"
	"time"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("yetersiz stok")

// Consume: Hammadde tüketimi. Stok yetmiyorsa hiçbir değişiklik yapmadan
// ErrInsufficientStock döner. Okuma-kontrol-yazma aralığı satır kilidiyle
// korunur; iki eşzamanlı tüketim aynı stoğu ikinci kez düşüremez.
func Consume(tx *gorm.DB, warehouseItemID uint, quantity float64, employeeID uint) error {
	var item models.WarehouseItem
	if err := database.RowLock(tx).First(&item, "id = ?", warehouseItemID).Error; err != nil {
		return fmt.Errorf("hammadde bulunamadı (id=%d): %w", warehouseItemID, err)
	}

	if item.StockQuantity < quantity {
		return ErrInsufficientStock
	}

	if err := tx.Model(&models.WarehouseItem{}).
		Where("id = ?", item.ID).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity)).Error; err != nil {
		return err
	}

	return appendMovement(tx, models.MovementSale, -quantity, item.ID, employeeID)
}

// Restore: Daha önce tüketilmiş stoğun iadesi. Tüketim zaten doğrulanmış
// olduğundan iade her zaman başarılıdır; hammadde yoksa hata döner.
func Restore(tx *gorm.DB, warehouseItemID uint, quantity float64, employeeID uint, movementType models.StockMovementType) error {
	var item models.WarehouseItem
	if err := database.RowLock(tx).First(&item, "id = ?", warehouseItemID).Error; err != nil {
		return fmt.Errorf("hammadde bulunamadı (id=%d): %w", warehouseItemID, err)
	}

	if err := tx.Model(&models.WarehouseItem{}).
		Where("id = ?", item.ID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity)).Error; err != nil {
		return err
	}

	return appendMovement(tx, movementType, quantity, item.ID, employeeID)
}

// Receive: Tedarik teslimatından stok girişi.
func Receive(tx *gorm.DB, warehouseItemID uint, quantity float64, employeeID uint) error {
	return Restore(tx, warehouseItemID, quantity, employeeID, models.MovementPurchase)
}

func appendMovement(tx *gorm.DB, movementType models.StockMovementType, delta float64, warehouseItemID, employeeID uint) error {
	m := models.StockMovement{
		MovementType:    movementType,
		QuantityChange:  delta,
		MovementDate:    time.Now(),
		WarehouseItemID: warehouseItemID,
		EmployeeID:      employeeID,
	}
	return tx.Create(&m).Error
}

// Reconcile: Bir hammaddenin hareket günlüğünü sıfırdan toplayıp güncel
// stok ile karşılaştırır. Çalışma zamanında değil denetim/test amaçlı
// kullanılır.
func Reconcile(tx *gorm.DB, warehouseItemID uint) (replayed float64, onHand float64, err error) {
	var item models.WarehouseItem
	if err := tx.First(&item, "id = ?", warehouseItemID).Error; err != nil {
		return 0, 0, err
	}

	var sum *float64
	if err := tx.Model(&models.StockMovement{}).
		Where("warehouse_item_id = ?", warehouseItemID).
		Select("sum(quantity_change)").
		Scan(&sum).Error; err != nil {
		return 0, 0, err
	}

	if sum != nil {
		replayed = *sum
	}
	return replayed, item.StockQuantity, nil
}
