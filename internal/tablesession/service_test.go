package tablesession

import (
	"errors"
	"testing"
	"time"

	"lokanta-backend/internal/models"
	"lokanta-backend/internal/testutil"

	"gorm.io/gorm"
)

func seedTable(t *testing.T, db *gorm.DB, capacity int) *models.Table {
	t.Helper()

	table := models.Table{Capacity: capacity}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("masa oluşturulamadı: %v", err)
	}
	return &table
}

func TestEnsureActiveSessionReusesOpenSession(t *testing.T) {
	db := testutil.NewDB(t)
	table := seedTable(t, db, 4)

	var first, second *models.TableSession
	if err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		first, err = EnsureActiveSession(tx, table.ID)
		return err
	}); err != nil {
		t.Fatalf("ilk oturum açılamadı: %v", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		second, err = EnsureActiveSession(tx, table.ID)
		return err
	}); err != nil {
		t.Fatalf("ikinci çağrı hata döndü: %v", err)
	}

	if !first.SessionStart.Equal(second.SessionStart) {
		t.Errorf("açık oturum varken yeni oturum açıldı: %v / %v", first.SessionStart, second.SessionStart)
	}

	var open int64
	db.Model(&models.TableSession{}).
		Where("table_id = ? AND is_closed = ?", table.ID, false).
		Count(&open)
	if open != 1 {
		t.Errorf("açık oturum sayısı = %d, masa başına en fazla 1 olmalı", open)
	}
}

// Kapasitesi 4 olan masa: 2 kişilik iki grup sığar, üçüncü 1 kişi sığmaz.
// Reddedilen grup sayacı değiştirmemeli.
func TestReserveSeatsEnforcesCapacity(t *testing.T) {
	db := testutil.NewDB(t)
	table := seedTable(t, db, 4)

	reserve := func(partySize int) error {
		return db.Transaction(func(tx *gorm.DB) error {
			sess, err := EnsureActiveSession(tx, table.ID)
			if err != nil {
				return err
			}
			return ReserveSeats(tx, sess, partySize)
		})
	}

	if err := reserve(2); err != nil {
		t.Fatalf("ilk grup oturtulamadı: %v", err)
	}
	if err := reserve(2); err != nil {
		t.Fatalf("ikinci grup oturtulamadı: %v", err)
	}

	err := reserve(1)
	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, beklenen CapacityExceededError", err)
	}
	if capErr.Capacity != 4 || capErr.AlreadySeated != 4 {
		t.Errorf("hata alanları = %+v, beklenen kapasite 4, oturan 4", capErr)
	}

	var sess models.TableSession
	if err := db.Where("table_id = ? AND is_closed = ?", table.ID, false).First(&sess).Error; err != nil {
		t.Fatalf("oturum okunamadı: %v", err)
	}
	if sess.SeatedCount != 4 {
		t.Errorf("seated_count = %d, reddedilen grup sayacı değiştirmemeli", sess.SeatedCount)
	}
}

func TestCloseSessionBlockedByOpenOrder(t *testing.T) {
	db := testutil.NewDB(t)
	table := seedTable(t, db, 4)

	cust := models.Customer{Name: "Ayşe"}
	if err := db.Create(&cust).Error; err != nil {
		t.Fatalf("müşteri oluşturulamadı: %v", err)
	}

	var sess *models.TableSession
	if err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		sess, err = EnsureActiveSession(tx, table.ID)
		if err != nil {
			return err
		}
		o := models.Order{
			CustomerID:   cust.ID,
			TableID:      &table.ID,
			SessionStart: &sess.SessionStart,
			OrderDate:    time.Now(),
			Status:       models.OrderOrdered,
			Kind:         models.OrderDineIn,
		}
		return tx.Create(&o).Error
	}); err != nil {
		t.Fatalf("hazırlık hata döndü: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return CloseSession(tx, table.ID, sess.SessionStart)
	})
	if !errors.Is(err, ErrSessionBlocked) {
		t.Fatalf("err = %v, açık sipariş varken ErrSessionBlocked beklenir", err)
	}

	// Sipariş ödendikten sonra kapanabilmeli
	if err := db.Model(&models.Order{}).
		Where("table_id = ?", table.ID).
		Update("status", models.OrderPaid).Error; err != nil {
		t.Fatalf("sipariş güncellenemedi: %v", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return CloseSession(tx, table.ID, sess.SessionStart)
	}); err != nil {
		t.Fatalf("oturum kapatılamadı: %v", err)
	}

	var closed models.TableSession
	if err := db.Where("table_id = ?", table.ID).First(&closed).Error; err != nil {
		t.Fatalf("oturum okunamadı: %v", err)
	}
	if !closed.IsClosed || closed.SessionEnd == nil {
		t.Errorf("oturum kapanmamış: is_closed=%v session_end=%v", closed.IsClosed, closed.SessionEnd)
	}

	// Kapanıştan sonra aynı masa için yeni oturum açılabilir
	var fresh *models.TableSession
	if err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		fresh, err = EnsureActiveSession(tx, table.ID)
		return err
	}); err != nil {
		t.Fatalf("yeni oturum açılamadı: %v", err)
	}
	if fresh.SessionStart.Equal(sess.SessionStart) {
		t.Error("kapalı oturum yeniden kullanıldı, yeni oturum açılmalıydı")
	}
	if fresh.SeatedCount != 0 {
		t.Errorf("yeni oturum seated_count = %d, 0 olmalı", fresh.SeatedCount)
	}
}

func TestGetActiveSessionNilWhenNone(t *testing.T) {
	db := testutil.NewDB(t)
	table := seedTable(t, db, 2)

	sess, err := GetActiveSession(db, table.ID)
	if err != nil {
		t.Fatalf("GetActiveSession hata döndü: %v", err)
	}
	if sess != nil {
		t.Errorf("oturum yokken nil beklenir, dönen: %+v", sess)
	}
}
