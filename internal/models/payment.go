package models

import "time"

type PaymentTarget string

const (
	PaymentForOrder    PaymentTarget = "order"
	PaymentForPurchase PaymentTarget = "purchase"
)

// PurchaseSettlement: Tedarik ödeme durumu. Saklanmaz, ödemelerden türetilir.
type PurchaseSettlement string

const (
	SettlementUnpaid        PurchaseSettlement = "unpaid"
	SettlementPartiallyPaid PurchaseSettlement = "partially_paid"
	SettlementPaid          PurchaseSettlement = "paid"
)

// Payment: Bir siparişe veya tedarike yapılan ödeme. Bir hedefin
// ödemeler toplamı hedefin toplam tutarını asla aşamaz.
type Payment struct {
	ID          uint          `gorm:"primaryKey"`
	PaymentDate time.Time     `gorm:"not null;index"`
	Amount      float64       `gorm:"not null"`
	Method      string        `gorm:"size:30;not null"` // ör: "cash", "card"
	TargetType  PaymentTarget `gorm:"size:20;not null;index"`
	OrderID     *uint         `gorm:"index"`
	PurchaseID  *uint         `gorm:"index"`
	CreatedAt   time.Time
}
