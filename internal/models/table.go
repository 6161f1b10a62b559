package models

import "time"

// Table: Salondaki fiziksel masa (statik referans verisi)
type Table struct {
	ID        uint `gorm:"primaryKey"`
	Capacity  int  `gorm:"not null"` // koltuk sayısı
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableSession: Bir masanın oturum penceresi (oturma -> kapanış).
// Kimlik (table_id, session_start) ikilisidir; masa başına aynı anda
// en fazla bir açık (is_closed=false) oturum olabilir.
type TableSession struct {
	TableID      uint      `gorm:"primaryKey;autoIncrement:false"`
	Table        Table     `gorm:"foreignKey:TableID"`
	SessionStart time.Time `gorm:"primaryKey"`
	SessionEnd   *time.Time
	IsClosed     bool `gorm:"not null;default:false;index"`
	SeatedCount  int  `gorm:"not null;default:0"` // oturan toplam kişi (oturum boyunca sadece artar)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
