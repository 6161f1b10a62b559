package tablesession

import (
	"errors"
	"fmt"
	"time"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

var ErrSessionBlocked = errors.New("oturumda kapatmayı engelleyen sipariş var")

// CapacityExceededError: Masa kapasitesi aşıldığında döner; kapasite ve
// halihazırda oturan kişi sayısını taşır.
type CapacityExceededError struct {
	Capacity      int
	AlreadySeated int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("masa kapasitesi aşıldı (kapasite: %d, oturan: %d)", e.Capacity, e.AlreadySeated)
}

// GetActiveSession: Masanın açık oturumunu döner, yoksa nil.
func GetActiveSession(tx *gorm.DB, tableID uint) (*models.TableSession, error) {
	var sess models.TableSession
	err := tx.Where("table_id = ? AND is_closed = ?", tableID, false).
		Order("session_start desc").
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// EnsureActiveSession: Açık oturumu döner, yoksa oluşturur. Masa satırı
// kilitlenerek okunur; aynı masa için yarışan iki çağrı aynı anda ikinci
// bir açık oturum yaratamaz.
func EnsureActiveSession(tx *gorm.DB, tableID uint) (*models.TableSession, error) {
	var table models.Table
	if err := database.RowLock(tx).First(&table, "id = ?", tableID).Error; err != nil {
		return nil, fmt.Errorf("masa bulunamadı (id=%d): %w", tableID, err)
	}

	sess, err := GetActiveSession(tx, tableID)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}

	newSess := models.TableSession{
		TableID:      tableID,
		SessionStart: time.Now(),
		IsClosed:     false,
		SeatedCount:  0,
	}
	if err := tx.Create(&newSess).Error; err != nil {
		return nil, err
	}
	return &newSess, nil
}

// ReserveSeats: Oturuma partySize kişilik yer ayırır. Kapasite kontrolü ile
// sayaç artışı aynı iş biriminde yapılır. Oturan sayısı oturum boyunca
// sadece artar; sipariş iptali koltuk bırakmaz (masa hâlâ dolu).
func ReserveSeats(tx *gorm.DB, sess *models.TableSession, partySize int) error {
	var table models.Table
	if err := database.RowLock(tx).First(&table, "id = ?", sess.TableID).Error; err != nil {
		return fmt.Errorf("masa bulunamadı (id=%d): %w", sess.TableID, err)
	}

	if sess.SeatedCount+partySize > table.Capacity {
		return &CapacityExceededError{Capacity: table.Capacity, AlreadySeated: sess.SeatedCount}
	}

	sess.SeatedCount += partySize
	return tx.Model(&models.TableSession{}).
		Where("table_id = ? AND session_start = ?", sess.TableID, sess.SessionStart).
		Update("seated_count", sess.SeatedCount).Error
}

// CloseSession: Oturumu kapatır. Oturumda pending/ordered/served durumda
// sipariş varsa hiçbir değişiklik yapmadan ErrSessionBlocked döner.
// Masa yeni bir oturuma yalnızca bu yolla açılır.
func CloseSession(tx *gorm.DB, tableID uint, sessionStart time.Time) error {
	var sess models.TableSession
	if err := tx.Where("table_id = ? AND session_start = ?", tableID, sessionStart).
		First(&sess).Error; err != nil {
		return fmt.Errorf("oturum bulunamadı: %w", err)
	}

	var blocking int64
	if err := tx.Model(&models.Order{}).
		Where("table_id = ? AND session_start = ? AND status IN ?",
			tableID, sessionStart,
			[]models.OrderStatus{models.OrderPending, models.OrderOrdered, models.OrderServed}).
		Count(&blocking).Error; err != nil {
		return err
	}
	if blocking > 0 {
		return ErrSessionBlocked
	}

	now := time.Now()
	return tx.Model(&models.TableSession{}).
		Where("table_id = ? AND session_start = ?", tableID, sessionStart).
		Updates(map[string]any{
			"is_closed":   true,
			"session_end": &now,
		}).Error
}
