package models

import "time"

type EmployeeRole string

const (
	RoleAdmin EmployeeRole = "admin"
	RoleStaff EmployeeRole = "staff"
)

type Employee struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:100;not null"`
	PositionTitle string `gorm:"size:100;not null"` // ör: "Garson", "Şef", "Kasiyer"
	Email         string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash  string `gorm:"size:255;not null"`
	Role          EmployeeRole `gorm:"size:20;not null"`
	IsActive      bool         `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Phone     string `gorm:"size:30"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
