package order

import (
	"errors"
	"fmt"
	"time"

	"lokanta-backend/internal/inventory"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/recipe"
	"lokanta-backend/internal/tablesession"

	"gorm.io/gorm"
)

var (
	ErrOrderNotEditable = errors.New("sipariş bu durumda düzenlenemez")
	ErrLineNotEditable  = errors.New("sipariş kalemi bu durumda düzenlenemez")
)

type StartOrderInput struct {
	CustomerID uint
	Kind       models.OrderKind
	TableID    *uint // dine_in için zorunlu
	PartySize  int   // dine_in için zorunlu
}

// StartOrder: Yeni sipariş açar. Masa siparişinde masanın açık oturumu
// bulunur/oluşturulur ve koltuk ayrılır; kapasite aşılırsa sipariş
// oluşturulmaz ve CapacityExceededError olduğu gibi döner.
func StartOrder(tx *gorm.DB, in StartOrderInput) (*models.Order, error) {
	if err := tx.First(&models.Customer{}, "id = ?", in.CustomerID).Error; err != nil {
		return nil, fmt.Errorf("müşteri bulunamadı (id=%d): %w", in.CustomerID, err)
	}

	o := models.Order{
		CustomerID: in.CustomerID,
		OrderDate:  time.Now(),
		Total:      0,
		Status:     models.OrderPending,
		Kind:       in.Kind,
	}

	if in.Kind == models.OrderDineIn {
		if in.TableID == nil {
			return nil, errors.New("masa siparişi için table_id zorunlu")
		}

		sess, err := tablesession.EnsureActiveSession(tx, *in.TableID)
		if err != nil {
			return nil, err
		}
		if err := tablesession.ReserveSeats(tx, sess, in.PartySize); err != nil {
			return nil, err
		}

		o.TableID = in.TableID
		o.SessionStart = &sess.SessionStart
		o.PartySize = in.PartySize
	}

	if err := tx.Create(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// AddLine: Siparişe kalem ekler. Reçetedeki tüm aktif hammaddeler tek iş
// biriminde tüketilir; herhangi biri yetersizse çağıran transaction'ı
// geri alır ve hiçbir şey kalıcı olmaz.
func AddLine(tx *gorm.DB, orderID, menuItemID uint, quantity int, employeeID uint) error {
	if quantity <= 0 {
		return errors.New("miktar pozitif olmalı")
	}

	o, err := editableOrder(tx, orderID)
	if err != nil {
		return err
	}

	var item models.MenuItem
	if err := tx.First(&item, "id = ?", menuItemID).Error; err != nil {
		return fmt.Errorf("menü ürünü bulunamadı (id=%d): %w", menuItemID, err)
	}

	lines, err := recipe.ActiveLines(tx, menuItemID)
	if err != nil {
		return err
	}
	for _, ing := range lines {
		if err := inventory.Consume(tx, ing.WarehouseItemID, ing.QuantityRequired*float64(quantity), employeeID); err != nil {
			return err
		}
	}

	addSubtotal := item.Price * float64(quantity)

	var line models.OrderLine
	err = tx.Where("order_id = ? AND menu_item_id = ?", orderID, menuItemID).First(&line).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = models.OrderLine{
			OrderID:    orderID,
			MenuItemID: menuItemID,
			Quantity:   quantity,
			Subtotal:   addSubtotal,
			Status:     models.LineOrdered,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	case line.Status == models.LineCancelled:
		// İptal edilmiş kalem yeni miktarla geri alınır
		if err := updateLine(tx, orderID, menuItemID, quantity, addSubtotal, models.LineOrdered); err != nil {
			return err
		}
	default:
		if err := updateLine(tx, orderID, menuItemID, line.Quantity+quantity, line.Subtotal+addSubtotal, models.LineOrdered); err != nil {
			return err
		}
	}

	if o.Status == models.OrderPending || o.Status == models.OrderServed {
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", models.OrderOrdered).Error; err != nil {
			return err
		}
	}

	return recomputeTotal(tx, orderID)
}

// DecrementLine: Kalem miktarını bir azaltır ve bir birimlik hammaddeyi
// iade eder. Miktar sıfıra inerse kalem silinmez, iptal edilir.
func DecrementLine(tx *gorm.DB, orderID, menuItemID uint, employeeID uint) error {
	if _, err := editableOrder(tx, orderID); err != nil {
		return err
	}

	line, err := findLine(tx, orderID, menuItemID)
	if err != nil {
		return err
	}
	if line.Status != models.LineOrdered {
		return ErrLineNotEditable
	}

	if err := restoreUnits(tx, menuItemID, 1, employeeID, models.MovementItemCancel); err != nil {
		return err
	}

	if line.Quantity > 1 {
		perUnit := line.Subtotal / float64(line.Quantity)
		if err := updateLine(tx, orderID, menuItemID, line.Quantity-1, line.Subtotal-perUnit, line.Status); err != nil {
			return err
		}
	} else {
		if err := updateLine(tx, orderID, menuItemID, 0, 0, models.LineCancelled); err != nil {
			return err
		}
	}

	return recomputeTotal(tx, orderID)
}

// CancelLine: Kalemin kalan miktarının tamamını tek adımda iptal eder ve
// hammaddesini iade eder.
func CancelLine(tx *gorm.DB, orderID, menuItemID uint, employeeID uint) error {
	if _, err := editableOrder(tx, orderID); err != nil {
		return err
	}

	line, err := findLine(tx, orderID, menuItemID)
	if err != nil {
		return err
	}
	if line.Status != models.LineOrdered {
		return ErrLineNotEditable
	}

	if err := restoreUnits(tx, menuItemID, line.Quantity, employeeID, models.MovementItemCancel); err != nil {
		return err
	}

	if err := updateLine(tx, orderID, menuItemID, 0, 0, models.LineCancelled); err != nil {
		return err
	}

	return recomputeTotal(tx, orderID)
}

// UncancelLine: İptal edilmiş kalemi 1 adet olarak geri alır; bir birimlik
// hammadde tüketilir, sipariş yeniden ordered durumuna döner.
func UncancelLine(tx *gorm.DB, orderID, menuItemID uint, employeeID uint) error {
	o, err := editableOrder(tx, orderID)
	if err != nil {
		return err
	}

	line, err := findLine(tx, orderID, menuItemID)
	if err != nil {
		return err
	}
	if line.Status != models.LineCancelled {
		return ErrLineNotEditable
	}

	var item models.MenuItem
	if err := tx.First(&item, "id = ?", menuItemID).Error; err != nil {
		return fmt.Errorf("menü ürünü bulunamadı (id=%d): %w", menuItemID, err)
	}

	lines, err := recipe.ActiveLines(tx, menuItemID)
	if err != nil {
		return err
	}
	for _, ing := range lines {
		if err := inventory.Consume(tx, ing.WarehouseItemID, ing.QuantityRequired, employeeID); err != nil {
			return err
		}
	}

	if err := updateLine(tx, orderID, menuItemID, 1, item.Price, models.LineOrdered); err != nil {
		return err
	}

	if o.Status != models.OrderOrdered {
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", models.OrderOrdered).Error; err != nil {
			return err
		}
	}

	return recomputeTotal(tx, orderID)
}

// CancelOrder: Siparişin iptal edilmemiş her kalemini iptal edip
// hammaddesini iade eder; toplam sıfırlanır. Ödenmiş sipariş iptal edilemez.
func CancelOrder(tx *gorm.DB, orderID uint, employeeID uint) error {
	if _, err := editableOrder(tx, orderID); err != nil {
		return err
	}

	var lines []models.OrderLine
	if err := tx.Where("order_id = ? AND status <> ?", orderID, models.LineCancelled).
		Find(&lines).Error; err != nil {
		return err
	}

	for _, line := range lines {
		if err := restoreUnits(tx, line.MenuItemID, line.Quantity, employeeID, models.MovementOrderCancel); err != nil {
			return err
		}
		if err := updateLine(tx, orderID, line.MenuItemID, 0, 0, models.LineCancelled); err != nil {
			return err
		}
	}

	return tx.Model(&models.Order{}).Where("id = ?", orderID).
		Updates(map[string]any{
			"status": models.OrderCancelled,
			"total":  0,
		}).Error
}

// MarkServed: Siparişi ve ordered durumdaki kalemlerini served yapar.
// Stok etkisi yoktur.
func MarkServed(tx *gorm.DB, orderID uint) error {
	if _, err := editableOrder(tx, orderID); err != nil {
		return err
	}

	if err := tx.Model(&models.OrderLine{}).
		Where("order_id = ? AND status = ?", orderID, models.LineOrdered).
		Update("status", models.LineServed).Error; err != nil {
		return err
	}

	return tx.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", models.OrderServed).Error
}

// RecordAssignment: Çalışanı siparişe atar; tekrar eklemek no-op'tur.
func RecordAssignment(tx *gorm.DB, orderID, employeeID uint) error {
	if err := tx.First(&models.Order{}, "id = ?", orderID).Error; err != nil {
		return fmt.Errorf("sipariş bulunamadı (id=%d): %w", orderID, err)
	}

	var emp models.Employee
	if err := tx.First(&emp, "id = ?", employeeID).Error; err != nil {
		return fmt.Errorf("çalışan bulunamadı (id=%d): %w", employeeID, err)
	}

	var count int64
	if err := tx.Model(&models.OrderAssignment{}).
		Where("employee_id = ? AND order_id = ?", employeeID, orderID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	a := models.OrderAssignment{
		EmployeeID:  employeeID,
		OrderID:     orderID,
		RoleInOrder: emp.PositionTitle,
	}
	return tx.Create(&a).Error
}

// RemoveAssignment: Atamayı kaldırır; yoksa no-op.
func RemoveAssignment(tx *gorm.DB, orderID, employeeID uint) error {
	return tx.Where("employee_id = ? AND order_id = ?", employeeID, orderID).
		Delete(&models.OrderAssignment{}).Error
}

// ---- yardımcılar ----

func editableOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var o models.Order
	if err := tx.First(&o, "id = ?", orderID).Error; err != nil {
		return nil, fmt.Errorf("sipariş bulunamadı (id=%d): %w", orderID, err)
	}
	if o.Status == models.OrderPaid || o.Status == models.OrderCancelled {
		return nil, ErrOrderNotEditable
	}
	return &o, nil
}

func findLine(tx *gorm.DB, orderID, menuItemID uint) (*models.OrderLine, error) {
	var line models.OrderLine
	if err := tx.Where("order_id = ? AND menu_item_id = ?", orderID, menuItemID).
		First(&line).Error; err != nil {
		return nil, fmt.Errorf("sipariş kalemi bulunamadı: %w", err)
	}
	return &line, nil
}

func updateLine(tx *gorm.DB, orderID, menuItemID uint, quantity int, subtotal float64, status models.OrderLineStatus) error {
	return tx.Model(&models.OrderLine{}).
		Where("order_id = ? AND menu_item_id = ?", orderID, menuItemID).
		Updates(map[string]any{
			"quantity": quantity,
			"subtotal": subtotal,
			"status":   status,
		}).Error
}

// restoreUnits: Menü ürününün units adedi için reçetedeki aktif
// hammaddeleri iade eder.
func restoreUnits(tx *gorm.DB, menuItemID uint, units int, employeeID uint, movementType models.StockMovementType) error {
	lines, err := recipe.ActiveLines(tx, menuItemID)
	if err != nil {
		return err
	}
	for _, ing := range lines {
		if err := inventory.Restore(tx, ing.WarehouseItemID, ing.QuantityRequired*float64(units), employeeID, movementType); err != nil {
			return err
		}
	}
	return nil
}

// recomputeTotal: Toplamı iptal edilmemiş kalemlerin ara toplamından
// yeniden hesaplar.
func recomputeTotal(tx *gorm.DB, orderID uint) error {
	var sum *float64
	if err := tx.Model(&models.OrderLine{}).
		Where("order_id = ? AND status <> ?", orderID, models.LineCancelled).
		Select("sum(subtotal)").
		Scan(&sum).Error; err != nil {
		return err
	}

	total := 0.0
	if sum != nil {
		total = *sum
	}
	return tx.Model(&models.Order{}).Where("id = ?", orderID).
		Update("total", total).Error
}
