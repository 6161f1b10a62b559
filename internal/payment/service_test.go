package payment

import (
	"errors"
	"testing"
	"time"

	"lokanta-backend/internal/models"
	"lokanta-backend/internal/testutil"

	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, status models.OrderStatus, total float64) *models.Order {
	t.Helper()

	cust := models.Customer{Name: "Fatma"}
	if err := db.Create(&cust).Error; err != nil {
		t.Fatalf("müşteri oluşturulamadı: %v", err)
	}
	o := models.Order{
		CustomerID: cust.ID,
		OrderDate:  time.Now(),
		Total:      total,
		Status:     status,
		Kind:       models.OrderTakeaway,
	}
	if err := db.Create(&o).Error; err != nil {
		t.Fatalf("sipariş oluşturulamadı: %v", err)
	}
	return &o
}

func seedPurchase(t *testing.T, db *gorm.DB, status models.PurchaseStatus, totalCost float64) *models.Purchase {
	t.Helper()

	sup := models.Supplier{Name: "Marmara Et"}
	emp := models.Employee{
		Name: "Kasiyer Zeynep", PositionTitle: "Kasiyer",
		Email: "zeynep@lokanta.test", PasswordHash: "x", Role: models.RoleStaff, IsActive: true,
	}
	for _, m := range []any{&sup, &emp} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("test verisi oluşturulamadı: %v", err)
		}
	}
	p := models.Purchase{
		SupplierID:   sup.ID,
		EmployeeID:   emp.ID,
		PurchaseDate: time.Now(),
		Status:       status,
		TotalCost:    totalCost,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("tedarik siparişi oluşturulamadı: %v", err)
	}
	return &p
}

func orderStatus(t *testing.T, db *gorm.DB, orderID uint) models.OrderStatus {
	t.Helper()

	var o models.Order
	if err := db.First(&o, "id = ?", orderID).Error; err != nil {
		t.Fatalf("sipariş okunamadı: %v", err)
	}
	return o.Status
}

func TestRecordOrderPaymentValidation(t *testing.T) {
	db := testutil.NewDB(t)
	o := seedOrder(t, db, models.OrderServed, 200)

	cases := []struct {
		name   string
		amount float64
		want   error
	}{
		{"sıfır tutar", 0, ErrInvalidAmount},
		{"negatif tutar", -10, ErrInvalidAmount},
		{"kalan borçtan fazla", 250, ErrOverpayment},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := db.Transaction(func(tx *gorm.DB) error {
				_, err := RecordOrderPayment(tx, o.ID, tc.amount, "cash")
				return err
			})
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, beklenen %v", err, tc.want)
			}
		})
	}

	var count int64
	db.Model(&models.Payment{}).Count(&count)
	if count != 0 {
		t.Errorf("reddedilen ödemeler kayıt bırakmış (%d adet)", count)
	}
}

func TestPartialPaymentsSettleOrder(t *testing.T) {
	db := testutil.NewDB(t)
	o := seedOrder(t, db, models.OrderServed, 200)

	pay := func(amount float64) error {
		return db.Transaction(func(tx *gorm.DB) error {
			_, err := RecordOrderPayment(tx, o.ID, amount, "card")
			return err
		})
	}

	if err := pay(120); err != nil {
		t.Fatalf("ilk ödeme hata döndü: %v", err)
	}
	if got := orderStatus(t, db, o.ID); got != models.OrderServed {
		t.Errorf("durum = %s, kısmi ödeme siparişi kapatmamalı", got)
	}

	// Kalan borç 80; fazlası reddedilir
	if err := pay(100); !errors.Is(err, ErrOverpayment) {
		t.Fatalf("err = %v, beklenen ErrOverpayment", err)
	}

	if err := pay(80); err != nil {
		t.Fatalf("kapanış ödemesi hata döndü: %v", err)
	}
	if got := orderStatus(t, db, o.ID); got != models.OrderPaid {
		t.Errorf("durum = %s, toplam tutara ulaşınca paid olmalı", got)
	}

	// Ödenmiş sipariş yeni ödeme kabul etmez
	if err := pay(10); !errors.Is(err, ErrAlreadySettled) {
		t.Errorf("err = %v, beklenen ErrAlreadySettled", err)
	}
}

func TestPaymentRejectedForCancelledTargets(t *testing.T) {
	db := testutil.NewDB(t)
	o := seedOrder(t, db, models.OrderCancelled, 100)
	p := seedPurchase(t, db, models.PurchaseCancelled, 300)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := RecordOrderPayment(tx, o.ID, 50, "cash")
		return err
	})
	if !errors.Is(err, ErrTargetCancelled) {
		t.Errorf("err = %v, beklenen ErrTargetCancelled", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := RecordPurchasePayment(tx, p.ID, 50, "cash")
		return err
	})
	if !errors.Is(err, ErrTargetCancelled) {
		t.Errorf("err = %v, beklenen ErrTargetCancelled", err)
	}
}

// Tedarik ödeme durumu saklanmaz; ödemeler toplamından türetilir.
func TestPurchaseSettlementDerivedFromPayments(t *testing.T) {
	db := testutil.NewDB(t)
	p := seedPurchase(t, db, models.PurchaseDelivered, 300)

	check := func(want models.PurchaseSettlement, wantPaid float64) {
		t.Helper()
		status, paid, err := Settlement(db, p.ID)
		if err != nil {
			t.Fatalf("Settlement hata döndü: %v", err)
		}
		if status != want || paid != wantPaid {
			t.Errorf("durum = %s ödenen = %v, beklenen %s / %v", status, paid, want, wantPaid)
		}
	}

	check(models.SettlementUnpaid, 0)

	if err := db.Transaction(func(tx *gorm.DB) error {
		_, err := RecordPurchasePayment(tx, p.ID, 100, "transfer")
		return err
	}); err != nil {
		t.Fatalf("ilk ödeme hata döndü: %v", err)
	}
	check(models.SettlementPartiallyPaid, 100)

	if err := db.Transaction(func(tx *gorm.DB) error {
		_, err := RecordPurchasePayment(tx, p.ID, 200, "transfer")
		return err
	}); err != nil {
		t.Fatalf("kapanış ödemesi hata döndü: %v", err)
	}
	check(models.SettlementPaid, 300)

	// Tamamen ödenmiş tedarike yeni ödeme kabul edilmez
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := RecordPurchasePayment(tx, p.ID, 1, "transfer")
		return err
	})
	if !errors.Is(err, ErrAlreadySettled) {
		t.Errorf("err = %v, beklenen ErrAlreadySettled", err)
	}
}
