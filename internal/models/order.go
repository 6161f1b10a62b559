package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderOrdered   OrderStatus = "ordered"
	OrderServed    OrderStatus = "served"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

type OrderKind string

const (
	OrderDineIn   OrderKind = "dine_in"
	OrderTakeaway OrderKind = "takeaway"
)

type OrderLineStatus string

const (
	LineOrdered   OrderLineStatus = "ordered"
	LineServed    OrderLineStatus = "served"
	LineCancelled OrderLineStatus = "cancelled"
)

// Order: Sipariş. Total türetilmiş bir alandır; iptal edilmemiş kalemlerin
// ara toplamlarından her mutasyonda yeniden hesaplanır, elle düzenlenmez.
type Order struct {
	ID           uint     `gorm:"primaryKey"`
	CustomerID   uint     `gorm:"not null;index"`
	Customer     Customer `gorm:"foreignKey:CustomerID"`
	TableID      *uint    `gorm:"index"` // paket siparişte null
	SessionStart *time.Time
	OrderDate    time.Time   `gorm:"not null;index"`
	Total        float64     `gorm:"not null;default:0"`
	Status       OrderStatus `gorm:"size:20;not null;index"`
	Kind         OrderKind   `gorm:"size:20;not null"`
	PartySize    int         `gorm:"not null;default:0"` // sadece masa siparişi
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Lines []OrderLine `gorm:"foreignKey:OrderID"`
}

// OrderLine: Sipariş kalemi, kimlik (order_id, menu_item_id).
// İptal edilen kalem silinmez; quantity/subtotal sıfırlanıp status
// cancelled yapılır, yeniden sipariş edilebilir.
type OrderLine struct {
	OrderID    uint            `gorm:"primaryKey;autoIncrement:false"`
	MenuItemID uint            `gorm:"primaryKey;autoIncrement:false"`
	MenuItem   MenuItem        `gorm:"foreignKey:MenuItemID"`
	Quantity   int             `gorm:"not null"`
	Subtotal   float64         `gorm:"not null"` // quantity x ekleme anındaki fiyat
	Status     OrderLineStatus `gorm:"size:20;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderAssignment: Siparişe atanan çalışanlar (çoka-çok).
type OrderAssignment struct {
	EmployeeID  uint     `gorm:"primaryKey;autoIncrement:false"`
	Employee    Employee `gorm:"foreignKey:EmployeeID"`
	OrderID     uint     `gorm:"primaryKey;autoIncrement:false"`
	RoleInOrder string   `gorm:"size:100;not null"` // atama anındaki pozisyon
	CreatedAt   time.Time
}
