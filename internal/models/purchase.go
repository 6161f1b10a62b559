package models

import "time"

type Supplier struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Phone     string `gorm:"size:30"`
	Email     string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SupplierItem: Tedarikçinin sağladığı hammadde ve güncel birim fiyatı.
// PurchaseWorkflow bu katalogdan sadece okur.
type SupplierItem struct {
	SupplierID      uint          `gorm:"primaryKey;autoIncrement:false"`
	Supplier        Supplier      `gorm:"foreignKey:SupplierID"`
	WarehouseItemID uint          `gorm:"primaryKey;autoIncrement:false"`
	WarehouseItem   WarehouseItem `gorm:"foreignKey:WarehouseItemID"`
	UnitPrice       float64       `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PurchaseStatus string

const (
	PurchaseDraft     PurchaseStatus = "draft"
	PurchaseConfirmed PurchaseStatus = "confirmed"
	PurchaseDelivered PurchaseStatus = "delivered"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// Purchase: Tedarik siparişi. TotalCost kalemlerden türetilir.
// Stok girişi yalnızca delivered geçişinde, bir kez yapılır.
type Purchase struct {
	ID           uint           `gorm:"primaryKey"`
	SupplierID   uint           `gorm:"not null;index"`
	Supplier     Supplier       `gorm:"foreignKey:SupplierID"`
	EmployeeID   uint           `gorm:"not null"` // sorumlu çalışan
	Employee     Employee       `gorm:"foreignKey:EmployeeID"`
	PurchaseDate time.Time      `gorm:"not null;index"`
	Status       PurchaseStatus `gorm:"size:20;not null;index"`
	TotalCost    float64        `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Lines []PurchaseLine `gorm:"foreignKey:PurchaseID"`
}

// PurchaseLine: Tedarik kalemi. UnitPrice ekleme anında katalogdan
// alınıp sabitlenir, sonradan yeniden okunmaz.
type PurchaseLine struct {
	PurchaseID      uint          `gorm:"primaryKey;autoIncrement:false"`
	WarehouseItemID uint          `gorm:"primaryKey;autoIncrement:false"`
	WarehouseItem   WarehouseItem `gorm:"foreignKey:WarehouseItemID"`
	Quantity        float64       `gorm:"not null"`
	UnitPrice       float64       `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
