package payment

import (
	"errors"
	"fmt"
	"time"

	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidAmount   = errors.New("ödeme tutarı pozitif olmalı")
	ErrOverpayment     = errors.New("ödeme tutarı kalan borçtan büyük")
	ErrAlreadySettled  = errors.New("hedef zaten tamamen ödenmiş")
	ErrTargetCancelled = errors.New("iptal edilmiş hedefe ödeme yapılamaz")
)

// RecordOrderPayment: Siparişe ödeme kaydeder. Ödemeler toplamı sipariş
// toplamını aşamaz; toplam tutara ulaşıldığında sipariş paid olur (nihai).
func RecordOrderPayment(tx *gorm.DB, orderID uint, amount float64, method string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var o models.Order
	if err := tx.First(&o, "id = ?", orderID).Error; err != nil {
		return nil, fmt.Errorf("sipariş bulunamadı (id=%d): %w", orderID, err)
	}
	if o.Status == models.OrderCancelled {
		return nil, ErrTargetCancelled
	}
	if o.Status == models.OrderPaid {
		return nil, ErrAlreadySettled
	}

	paid, err := sumPayments(tx, "order_id", orderID)
	if err != nil {
		return nil, err
	}
	remaining := o.Total - paid
	if remaining <= 0 {
		return nil, ErrAlreadySettled
	}
	if amount > remaining {
		return nil, ErrOverpayment
	}

	pay := models.Payment{
		PaymentDate: time.Now(),
		Amount:      amount,
		Method:      method,
		TargetType:  models.PaymentForOrder,
		OrderID:     &orderID,
	}
	if err := tx.Create(&pay).Error; err != nil {
		return nil, err
	}

	if paid+amount >= o.Total {
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", models.OrderPaid).Error; err != nil {
			return nil, err
		}
	}

	return &pay, nil
}

// RecordPurchasePayment: Tedarik siparişine ödeme kaydeder. Tedarik ödeme
// durumu saklanmaz, Settlement ile türetilir.
func RecordPurchasePayment(tx *gorm.DB, purchaseID uint, amount float64, method string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var p models.Purchase
	if err := tx.First(&p, "id = ?", purchaseID).Error; err != nil {
		return nil, fmt.Errorf("tedarik siparişi bulunamadı (id=%d): %w", purchaseID, err)
	}
	if p.Status == models.PurchaseCancelled {
		return nil, ErrTargetCancelled
	}

	paid, err := sumPayments(tx, "purchase_id", purchaseID)
	if err != nil {
		return nil, err
	}
	remaining := p.TotalCost - paid
	if remaining <= 0 {
		return nil, ErrAlreadySettled
	}
	if amount > remaining {
		return nil, ErrOverpayment
	}

	pay := models.Payment{
		PaymentDate: time.Now(),
		Amount:      amount,
		Method:      method,
		TargetType:  models.PaymentForPurchase,
		PurchaseID:  &purchaseID,
	}
	if err := tx.Create(&pay).Error; err != nil {
		return nil, err
	}
	return &pay, nil
}

// Settlement: Tedarikin ödenen toplamını ve türetilmiş ödeme durumunu döner.
func Settlement(tx *gorm.DB, purchaseID uint) (models.PurchaseSettlement, float64, error) {
	var p models.Purchase
	if err := tx.First(&p, "id = ?", purchaseID).Error; err != nil {
		return "", 0, fmt.Errorf("tedarik siparişi bulunamadı (id=%d): %w", purchaseID, err)
	}

	paid, err := sumPayments(tx, "purchase_id", purchaseID)
	if err != nil {
		return "", 0, err
	}

	switch {
	case paid <= 0:
		return models.SettlementUnpaid, paid, nil
	case paid < p.TotalCost:
		return models.SettlementPartiallyPaid, paid, nil
	default:
		return models.SettlementPaid, paid, nil
	}
}

func sumPayments(tx *gorm.DB, column string, targetID uint) (float64, error) {
	var sum *float64
	if err := tx.Model(&models.Payment{}).
		Where(column+" = ?", targetID).
		Select("sum(amount)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
