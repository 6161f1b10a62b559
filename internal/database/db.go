package database

import (
	"log"

	"lokanta-backend/internal/config"
	"lokanta-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: Tüm tabloları oluşturur/günceller. Testlerin sqlite üzerinde
// aynı şemayı kurabilmesi için Init'ten ayrı tutuldu.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Employee{},
		&models.Customer{},
		&models.Table{},
		&models.TableSession{},
		&models.MenuItem{},
		&models.RecipeLine{},
		&models.WarehouseItem{},
		&models.StockMovement{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderAssignment{},
		&models.Supplier{},
		&models.SupplierItem{},
		&models.Purchase{},
		&models.PurchaseLine{},
		&models.Payment{},
		&models.AuditLog{},
	)
}

// RowLock: Aynı satır üzerinde yarışan iş birimlerini sıralamak için
// SELECT ... FOR UPDATE uygular. SQLite (test) tek yazarlı olduğundan
// kilit cümlesini desteklemez, orada sorgu olduğu gibi bırakılır.
func RowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
