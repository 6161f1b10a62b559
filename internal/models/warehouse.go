package models

import "time"

// WarehouseItem: Depodaki hammadde. StockQuantity hiçbir zaman negatife düşmez;
// her mutasyon noktasında kontrol edilir.
type WarehouseItem struct {
	ID               uint    `gorm:"primaryKey"`
	Name             string  `gorm:"size:100;not null"`
	Unit             string  `gorm:"size:20;not null"` // ör: "kg", "adet", "lt"
	StockQuantity    float64 `gorm:"not null;default:0"`
	ReorderThreshold float64 `gorm:"not null;default:0"` // bu seviyenin altında sipariş uyarısı
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type StockMovementType string

const (
	MovementSale        StockMovementType = "sale"           // sipariş tüketimi
	MovementItemCancel  StockMovementType = "item_cancel"    // kalem iptali/azaltımı iadesi
	MovementOrderCancel StockMovementType = "order_cancel"   // sipariş iptali iadesi
	MovementPurchase    StockMovementType = "purchase"       // tedarik teslimatı girişi
)

// StockMovement: Stok değişim günlüğü (append-only). Bir hammaddenin
// hareketlerinin toplamı her an güncel stok miktarına eşittir.
type StockMovement struct {
	ID              uint              `gorm:"primaryKey"`
	MovementType    StockMovementType `gorm:"size:20;not null;index"`
	QuantityChange  float64           `gorm:"not null"` // işaretli delta (tüketim negatif)
	MovementDate    time.Time         `gorm:"not null;index"`
	WarehouseItemID uint              `gorm:"not null;index"`
	WarehouseItem   WarehouseItem     `gorm:"foreignKey:WarehouseItemID"`
	EmployeeID      uint              `gorm:"not null;index"` // işlemi yapan çalışan
	Employee        Employee          `gorm:"foreignKey:EmployeeID"`
	CreatedAt       time.Time
}
