package inventory

import (
	"errors"
	"testing"

	"lokanta-backend/internal/models"
	"lokanta-backend/internal/testutil"

	"gorm.io/gorm"
)

func seedItem(t *testing.T, db *gorm.DB, name string, stock float64) *models.WarehouseItem {
	t.Helper()

	item := models.WarehouseItem{Name: name, Unit: "kg"}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("hammadde oluşturulamadı: %v", err)
	}
	if stock > 0 {
		if err := db.Transaction(func(tx *gorm.DB) error {
			return Receive(tx, item.ID, stock, 1)
		}); err != nil {
			t.Fatalf("başlangıç stoğu girilemedi: %v", err)
		}
	}
	return &item
}

func stockOf(t *testing.T, db *gorm.DB, itemID uint) float64 {
	t.Helper()

	var item models.WarehouseItem
	if err := db.First(&item, "id = ?", itemID).Error; err != nil {
		t.Fatalf("hammadde okunamadı: %v", err)
	}
	return item.StockQuantity
}

func TestConsumeDecrementsStockAndLogsMovement(t *testing.T) {
	db := testutil.NewDB(t)
	item := seedItem(t, db, "Kıyma", 10)

	if err := db.Transaction(func(tx *gorm.DB) error {
		return Consume(tx, item.ID, 2.5, 1)
	}); err != nil {
		t.Fatalf("Consume hata döndü: %v", err)
	}

	if got := stockOf(t, db, item.ID); got != 7.5 {
		t.Errorf("stok = %v, beklenen 7.5", got)
	}

	var mv models.StockMovement
	if err := db.Where("warehouse_item_id = ? AND movement_type = ?", item.ID, models.MovementSale).
		First(&mv).Error; err != nil {
		t.Fatalf("sale hareketi bulunamadı: %v", err)
	}
	if mv.QuantityChange != -2.5 {
		t.Errorf("hareket deltası = %v, beklenen -2.5", mv.QuantityChange)
	}
}

func TestConsumeInsufficientStockRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	item := seedItem(t, db, "Kıyma", 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Consume(tx, item.ID, 3, 1)
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, beklenen ErrInsufficientStock", err)
	}

	if got := stockOf(t, db, item.ID); got != 1 {
		t.Errorf("stok = %v, yetersiz tüketim stoka dokunmamalı", got)
	}

	var count int64
	db.Model(&models.StockMovement{}).
		Where("warehouse_item_id = ? AND movement_type = ?", item.ID, models.MovementSale).
		Count(&count)
	if count != 0 {
		t.Errorf("başarısız tüketim hareket bırakmış (%d adet)", count)
	}
}

func TestRestoreIncreasesStock(t *testing.T) {
	db := testutil.NewDB(t)
	item := seedItem(t, db, "Domates", 5)

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := Consume(tx, item.ID, 2, 1); err != nil {
			return err
		}
		return Restore(tx, item.ID, 2, 1, models.MovementItemCancel)
	}); err != nil {
		t.Fatalf("tüket/iade hata döndü: %v", err)
	}

	if got := stockOf(t, db, item.ID); got != 5 {
		t.Errorf("stok = %v, iade sonrası 5 olmalı", got)
	}
}

// Hareket günlüğü baştan oynatıldığında güncel stoku vermeli. Başlangıç
// stoğu da purchase hareketi olarak girildiği için toplam her an tutar.
func TestReconcileReplaysMovements(t *testing.T) {
	db := testutil.NewDB(t)
	item := seedItem(t, db, "Un", 20)

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := Consume(tx, item.ID, 4, 1); err != nil {
			return err
		}
		if err := Restore(tx, item.ID, 1, 1, models.MovementItemCancel); err != nil {
			return err
		}
		return Receive(tx, item.ID, 10, 1)
	}); err != nil {
		t.Fatalf("hareket dizisi hata döndü: %v", err)
	}

	var replayed, onHand float64
	if err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		replayed, onHand, err = Reconcile(tx, item.ID)
		return err
	}); err != nil {
		t.Fatalf("Reconcile hata döndü: %v", err)
	}

	if onHand != 27 {
		t.Errorf("onHand = %v, beklenen 27", onHand)
	}
	if replayed != onHand {
		t.Errorf("replayed = %v, onHand = %v; hareket toplamı stoka eşit olmalı", replayed, onHand)
	}
}
