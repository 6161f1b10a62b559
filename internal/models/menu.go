package models

import "time"

type MenuItem struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:100;not null"`
	Price       float64 `gorm:"not null"` // birim satış fiyatı
	IsAvailable bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeLine: Bir menü ürününün bir birimi için gereken hammadde miktarı.
// Kimlik (menu_item_id, warehouse_item_id). Pasifleştirilen satırlar
// geçmiş kaybolmasın diye silinmez, is_active=false yapılır.
type RecipeLine struct {
	MenuItemID       uint          `gorm:"primaryKey;autoIncrement:false"`
	MenuItem         MenuItem      `gorm:"foreignKey:MenuItemID"`
	WarehouseItemID  uint          `gorm:"primaryKey;autoIncrement:false"`
	WarehouseItem    WarehouseItem `gorm:"foreignKey:WarehouseItemID"`
	QuantityRequired float64       `gorm:"not null"` // birim ürün başına gereken miktar
	IsActive         bool          `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
