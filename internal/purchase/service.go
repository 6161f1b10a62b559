package purchase

import (
	"errors"
	"fmt"
	"time"

	"lokanta-backend/internal/inventory"
	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotDraft          = errors.New("tedarik siparişi taslak durumunda değil")
	ErrNotConfirmed      = errors.New("tedarik siparişi onaylanmış durumda değil")
	ErrNoSupplyAgreement = errors.New("tedarikçi bu hammaddeyi sağlamıyor")
)

// Start: Taslak durumda yeni tedarik siparişi açar.
func Start(tx *gorm.DB, supplierID, employeeID uint) (*models.Purchase, error) {
	if err := tx.First(&models.Supplier{}, "id = ?", supplierID).Error; err != nil {
		return nil, fmt.Errorf("tedarikçi bulunamadı (id=%d): %w", supplierID, err)
	}

	p := models.Purchase{
		SupplierID:   supplierID,
		EmployeeID:   employeeID,
		PurchaseDate: time.Now(),
		Status:       models.PurchaseDraft,
		TotalCost:    0,
	}
	if err := tx.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// AddLine: Taslağa kalem ekler. Birim fiyat tedarikçi kataloğundan ekleme
// anında okunur ve kaleme sabitlenir; var olan kaleme ekleme kalemin
// sabitlenmiş fiyatıyla birikir.
func AddLine(tx *gorm.DB, purchaseID, warehouseItemID uint, quantity float64) error {
	if quantity <= 0 {
		return errors.New("miktar pozitif olmalı")
	}

	p, err := find(tx, purchaseID)
	if err != nil {
		return err
	}
	if p.Status != models.PurchaseDraft {
		return ErrNotDraft
	}

	var line models.PurchaseLine
	err = tx.Where("purchase_id = ? AND warehouse_item_id = ?", purchaseID, warehouseItemID).
		First(&line).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		var catalog models.SupplierItem
		catErr := tx.Where("supplier_id = ? AND warehouse_item_id = ?", p.SupplierID, warehouseItemID).
			First(&catalog).Error
		if errors.Is(catErr, gorm.ErrRecordNotFound) {
			return ErrNoSupplyAgreement
		}
		if catErr != nil {
			return catErr
		}

		line = models.PurchaseLine{
			PurchaseID:      purchaseID,
			WarehouseItemID: warehouseItemID,
			Quantity:        quantity,
			UnitPrice:       catalog.UnitPrice,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := tx.Model(&models.PurchaseLine{}).
			Where("purchase_id = ? AND warehouse_item_id = ?", purchaseID, warehouseItemID).
			Update("quantity", line.Quantity+quantity).Error; err != nil {
			return err
		}
	}

	return recomputeTotal(tx, purchaseID)
}

// DecrementLine: Kalem miktarını bir azaltır. Henüz stok etkisi olmadığı
// için sıfıra inen kalem tamamen silinir.
func DecrementLine(tx *gorm.DB, purchaseID, warehouseItemID uint) error {
	p, err := find(tx, purchaseID)
	if err != nil {
		return err
	}
	if p.Status != models.PurchaseDraft {
		return ErrNotDraft
	}

	var line models.PurchaseLine
	if err := tx.Where("purchase_id = ? AND warehouse_item_id = ?", purchaseID, warehouseItemID).
		First(&line).Error; err != nil {
		return fmt.Errorf("tedarik kalemi bulunamadı: %w", err)
	}

	if line.Quantity > 1 {
		if err := tx.Model(&models.PurchaseLine{}).
			Where("purchase_id = ? AND warehouse_item_id = ?", purchaseID, warehouseItemID).
			Update("quantity", line.Quantity-1).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("purchase_id = ? AND warehouse_item_id = ?", purchaseID, warehouseItemID).
			Delete(&models.PurchaseLine{}).Error; err != nil {
			return err
		}
	}

	return recomputeTotal(tx, purchaseID)
}

// Confirm: draft -> confirmed. Tedarikçi taahhüdünü temsil eder, stok
// etkisi yoktur.
func Confirm(tx *gorm.DB, purchaseID uint) error {
	p, err := find(tx, purchaseID)
	if err != nil {
		return err
	}
	if p.Status != models.PurchaseDraft {
		return ErrNotDraft
	}

	return tx.Model(&models.Purchase{}).Where("id = ?", purchaseID).
		Update("status", models.PurchaseConfirmed).Error
}

// Deliver: confirmed -> delivered. Stok girişinin yapıldığı tek yer;
// durum makinesi aynı teslimatın iki kez işlenmesini engeller.
func Deliver(tx *gorm.DB, purchaseID, employeeID uint) error {
	p, err := find(tx, purchaseID)
	if err != nil {
		return err
	}
	if p.Status != models.PurchaseConfirmed {
		return ErrNotConfirmed
	}

	var lines []models.PurchaseLine
	if err := tx.Where("purchase_id = ?", purchaseID).Find(&lines).Error; err != nil {
		return err
	}
	for _, line := range lines {
		if err := inventory.Receive(tx, line.WarehouseItemID, line.Quantity, employeeID); err != nil {
			return err
		}
	}

	return tx.Model(&models.Purchase{}).Where("id = ?", purchaseID).
		Update("status", models.PurchaseDelivered).Error
}

// Cancel: Sadece taslak iptal edilebilir.
func Cancel(tx *gorm.DB, purchaseID uint) error {
	p, err := find(tx, purchaseID)
	if err != nil {
		return err
	}
	if p.Status != models.PurchaseDraft {
		return ErrNotDraft
	}

	return tx.Model(&models.Purchase{}).Where("id = ?", purchaseID).
		Update("status", models.PurchaseCancelled).Error
}

func find(tx *gorm.DB, purchaseID uint) (*models.Purchase, error) {
	var p models.Purchase
	if err := tx.First(&p, "id = ?", purchaseID).Error; err != nil {
		return nil, fmt.Errorf("tedarik siparişi bulunamadı (id=%d): %w", purchaseID, err)
	}
	return &p, nil
}

func recomputeTotal(tx *gorm.DB, purchaseID uint) error {
	var sum *float64
	if err := tx.Model(&models.PurchaseLine{}).
		Where("purchase_id = ?", purchaseID).
		Select("sum(quantity * unit_price)").
		Scan(&sum).Error; err != nil {
		return err
	}

	total := 0.0
	if sum != nil {
		total = *sum
	}
	return tx.Model(&models.Purchase{}).Where("id = ?", purchaseID).
		Update("total_cost", total).Error
}
