package order

import (
	"errors"
	"testing"

	"lokanta-backend/internal/inventory"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/tablesession"
	"lokanta-backend/internal/testutil"

	"gorm.io/gorm"
)

// Testler için küçük bir restoran: kapasitesi 4 olan bir masa, birim başına
// 2 kg kıyma isteyen bir Burger ve çok hammaddeli bir Lahmacun.
type fixtures struct {
	table    models.Table
	customer models.Customer
	employee models.Employee
	burger   models.MenuItem
	beef     models.WarehouseItem
	lahmacun models.MenuItem
	dough    models.WarehouseItem
}

func seed(t *testing.T, db *gorm.DB, beefStock, doughStock float64) *fixtures {
	t.Helper()

	f := fixtures{
		table:    models.Table{Capacity: 4},
		customer: models.Customer{Name: "Mehmet"},
		employee: models.Employee{
			Name: "Garson Ali", PositionTitle: "Garson",
			Email: "ali@lokanta.test", PasswordHash: "x", Role: models.RoleStaff, IsActive: true,
		},
		burger:   models.MenuItem{Name: "Burger", Price: 120, IsAvailable: true},
		beef:     models.WarehouseItem{Name: "Kıyma", Unit: "kg"},
		lahmacun: models.MenuItem{Name: "Lahmacun", Price: 60, IsAvailable: true},
		dough:    models.WarehouseItem{Name: "Hamur", Unit: "adet"},
	}
	for _, m := range []any{&f.table, &f.customer, &f.employee, &f.burger, &f.beef, &f.lahmacun, &f.dough} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("test verisi oluşturulamadı: %v", err)
		}
	}

	recipes := []models.RecipeLine{
		{MenuItemID: f.burger.ID, WarehouseItemID: f.beef.ID, QuantityRequired: 2, IsActive: true},
		{MenuItemID: f.lahmacun.ID, WarehouseItemID: f.beef.ID, QuantityRequired: 0.5, IsActive: true},
		{MenuItemID: f.lahmacun.ID, WarehouseItemID: f.dough.ID, QuantityRequired: 1, IsActive: true},
	}
	for i := range recipes {
		if err := db.Create(&recipes[i]).Error; err != nil {
			t.Fatalf("reçete oluşturulamadı: %v", err)
		}
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := inventory.Receive(tx, f.beef.ID, beefStock, f.employee.ID); err != nil {
			return err
		}
		return inventory.Receive(tx, f.dough.ID, doughStock, f.employee.ID)
	}); err != nil {
		t.Fatalf("başlangıç stoğu girilemedi: %v", err)
	}

	return &f
}

func startDineIn(t *testing.T, db *gorm.DB, f *fixtures, partySize int) *models.Order {
	t.Helper()

	var o *models.Order
	if err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		o, err = StartOrder(tx, StartOrderInput{
			CustomerID: f.customer.ID,
			Kind:       models.OrderDineIn,
			TableID:    &f.table.ID,
			PartySize:  partySize,
		})
		return err
	}); err != nil {
		t.Fatalf("sipariş açılamadı: %v", err)
	}
	return o
}

func reloadOrder(t *testing.T, db *gorm.DB, orderID uint) *models.Order {
	t.Helper()

	var o models.Order
	if err := db.Preload("Lines").First(&o, "id = ?", orderID).Error; err != nil {
		t.Fatalf("sipariş okunamadı: %v", err)
	}
	return &o
}

func stockOf(t *testing.T, db *gorm.DB, itemID uint) float64 {
	t.Helper()

	var item models.WarehouseItem
	if err := db.First(&item, "id = ?", itemID).Error; err != nil {
		t.Fatalf("hammadde okunamadı: %v", err)
	}
	return item.StockQuantity
}

func TestStartOrderRejectsPartyBeyondCapacity(t *testing.T) {
	db := testutil.NewDB(t)
	f := seed(t, db, 10, 10)

	startDineIn(t, db, f, 3)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := StartOrder(tx, StartOrderInput{
			CustomerID: f.customer.ID,
			Kind:       models.OrderDineIn,
			TableID:    &f.table.ID,
			PartySize:  2,
		})
		return err
	})
	var capErr *tablesession.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, beklenen CapacityExceededError", err)
	}

	// Reddedilen grup sipariş bırakmamalı
	var count int64
	db.Model(&models.Order{}).Where("table_id = ?", f.table.ID).Count(&count)
	if count != 1 {
		t.Errorf("sipariş sayısı = %d, reddedilen sipariş kalıcı olmamalı", count)
	}
}

func TestAddLineConsumesRecipeAndComputesTotal(t *testing.T) {
	db := testutil.NewDB(t)
	f := seed(t, db, 10, 10)
	o := startDineIn(t, db, f, 2)

	// 3 Burger = 6 kg kıyma
	if err := db.Transaction(func(tx *gorm.DB) error {
		return AddLine(tx, o.ID, f.burger.ID, 3, f.employee.ID)
	}); err != nil {
		t.Fatalf("AddLine hata döndü: %v", err)
	}

	if got := stockOf(t, db, f.beef.ID); got != 4 {
		t.Errorf("kıyma stoğu = %v, beklenen 4", got)
	}

	got := reloadOrder(t, db, o.ID)
	if got.Status != models.OrderOrdered {
		t.Errorf("sipariş durumu = %s, beklenen ordered", got.Status)
	}
	if got.Total != 360 {
		t.Errorf("toplam = %v, beklenen 360", got.Total)
	}

	// Aynı ürünü tekrar eklemek ayrı kalem açmaz, mevcutta birikir
	if err := db.Transaction(func(tx *gorm.DB) error {
		return AddLine(tx, o.ID, f.burger.ID, 1, f.employee.ID)
	}); err != nil {
		t.Fatalf("ikinci ekleme hata döndü: %v", err)
	}

	got = reloadOrder(t, db, o.ID)
	if len(got.Lines) != 1 {
		t.Fatalf("kalem sayısı = %d, beklenen 1", len(got.Lines))
	}
	if got.Lines[0].Quantity != 4 || got.Total != 480 {
		t.Errorf("kalem miktarı = %d toplam = %v, beklenen 4 / 480", got.Lines[0].Quantity, got.Total)
	}
}

// Çok hammaddeli ürünün eklenmesi ya tamamen olur ya hiç olmaz: hamur
// yetersizse daha önce tüketilmiş görünen kıyma da geri gelmeli.
func TestAddLineAllOrNothing(t *testing.T) {
	db := testutil.NewDB(t)
	f := seed(t, db, 10, 1)
	o := startDineIn(t, db, f, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		return AddLine(tx, o.ID, f.lahmacun.ID, 2, f.employee.ID)
	})
	if !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Fatalf("err = %v, beklenen ErrInsufficientStock", err)
	}

	if got := stockOf(t, db, f.beef.ID); got != 10 {
		t.Errorf("kıyma stoğu = %v, başarısız ekleme stoka dokunmamalı", got)
	}
	if got := stockOf(t, db, f.dough.ID); got != 1 {
		t.Errorf("hamur stoğu = %v, başarısız ekleme stoka dokunmamalı", got)
	}

	got := reloadOrder(t, db, o.ID)
	if len(got.Lines) != 0 || got.Total != 0 {
		t.Errorf("başarısız ekleme kalem bırakmış: %+v", got.Lines)
	}
	if got.Status != models.OrderPending {
		t.Errorf("sipariş durumu = %s, pending kalmalı", got.Status)
	}
}

func TestDecrementLineRestoresOneUnit(t *testing.T) {
	db := testutil.NewDB(t)
	f := seed(t, db, 10, 10)
	o := startDineIn(t, db, f, 2)

	if err := db.Transaction(func(tx *gorm.DB) error {
		return AddLine(tx, o.ID, f.burger.ID, 2, f.employee.ID)
	}); err != nil {
		t.Fatalf("AddLine hata döndü: %v", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return DecrementLine(tx, o.ID, f.burger.ID, f.employee.ID)
	}); err != nil {
		t.Fatalf("DecrementLine hata döndü: %v", err)
	}

	if got := stockOf(t, db, f.beef.ID); got != 8 {
		t.Errorf("kıyma stoğu = %v, bir birimlik iade sonrası 8 olmalı", got)
	}
	got := reloadOrder(t, db, o.ID)
	if got.Lines[0].Quantity != 1 || got.Total != 120 {
		t.Errorf("kalem = %+v toplam = %v, beklenen miktar 1 / toplam 120", got.Lines[0], got.Total)
	}

	// Son birimin azaltılması kalemi siler değil, iptal eder
	if err := db.Transaction(func(tx *gorm.DB) error {
		return DecrementLine(tx, o.ID, f.burger.ID, f.employee.ID)
	}); err != nil {
		t.Fatalf("ikinci azaltma hata döndü: %v", err)
	}

	got = reloadOrder(t, db, o.ID)
	if len(got.Lines) != 1 || got.Lines[0].Status != models.LineCancelled {
		t.Fatalf("kalem iptal edilmeli, silinmemeli: %+v", got.Lines)
	}
	if got.Lines[0].Quantity != 0 || got.Total != 0 {
		t.Errorf("iptal sonrası miktar/toplam sıfırlanmalı: %+v / %v", got.Lines[0], got.Total)
	}
	if got := stockOf(t, db, f.beef.ID); got != 10 {
		t.Errorf("kıyma stoğu = %v, tüm iade sonrası 10 olmalı", got)
	}
}

func TestCancelAndUncancelLineRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	f := seed(t, db, 10, 10)
	o := startDineIn(t, db, f, 2)

	if err := db.Transaction(func(tx *gorm.DB) error {
		return AddLine(tx, o.ID, f.burger.ID, 3, f.employee.ID)
	}); err != nil {
		t.Fatalf("AddLine hata döndü: %v", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return CancelLine(tx, o.ID, f.burger.ID, f.employee.ID)
	}); err != nil {
		t.Fatalf("CancelLine hata döndü: %v", err)
	}
	if got := stockOf(t, db, f.beef.ID); got != 10 {
		t.Errorf("kıyma stoğu = %v, kalem iptali tüm birimleri iade etmeli", got)
	}

	// Geri alma 1 adet olarak döner ve bir birimlik hammadde tüketir
	if err := db.Transaction(func(tx *gorm.DB) error {
		return UncancelLine(tx, o.ID, f.burger.ID, f.employee.ID)
	}); err != nil {
		t.Fatalf("UncancelLine hata döndü: %v", err)
	}

	got := reloadOrder(t, db, o.ID)
	if got.Lines[0].Status != models.LineOrdered || got.Lines[0].Quantity != 1 {
		t.Errorf("geri alınan kalem = %+v, beklenen ordered / miktar 1", got.Lines[0])
	}
	if got.Status != models.OrderOrdered || got.Total != 120 {
		t.Errorf("sipariş = %s toplam %v, beklenen ordered / 120", got.Status, got.Total)
	}
	if got := stockOf(t, db, f.beef.ID); got != 8 {
		t.Errorf("kıyma stoğu = %v, beklenen 8", got)
	}
}

func TestCancelOrderRestoresAllAndIsFinal(t *testing.T) {
	db := testutil.NewDB(t)
	f := seed(t, db, 10, 10)
	o := startDineIn(t, db, f, 2)

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := AddLine(tx, o.ID, f.burger.ID, 2, f.employee.ID); err != nil {
			return err
		}
		return AddLine(tx, o.ID, f.lahmacun.ID, 2, f.employee.ID)
	}); err != nil {
		t.Fatalf("kalemler eklenemedi: %v", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return CancelOrder(tx, o.ID, f.employee.ID)
	}); err != nil {
		t.Fatalf("CancelOrder hata döndü: %v", err)
	}

	got := reloadOrder(t, db, o.ID)
	if got.Status != models.OrderCancelled || got.Total != 0 {
		t.Errorf("sipariş = %s toplam %v, beklenen cancelled / 0", got.Status, got.Total)
	}
	if v := stockOf(t, db, f.beef.ID); v != 10 {
		t.Errorf("kıyma stoğu = %v, iptal tüm hammaddeyi iade etmeli", v)
	}
	if v := stockOf(t, db, f.dough.ID); v != 10 {
		t.Errorf("hamur stoğu = %v, iptal tüm hammaddeyi iade etmeli", v)
	}

	// İptal nihaidir
	err := db.Transaction(func(tx *gorm.DB) error {
		return AddLine(tx, o.ID, f.burger.ID, 1, f.employee.ID)
	})
	if !errors.Is(err, ErrOrderNotEditable) {
		t.Errorf("err = %v, iptal edilmiş siparişe ekleme reddedilmeli", err)
	}
}

func TestMarkServedThenAddLineReturnsToOrdered(t *testing.T) {
	db := testutil.NewDB(t)
	f := seed(t, db, 10, 10)
	o := startDineIn(t, db, f, 2)

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := AddLine(tx, o.ID, f.burger.ID, 1, f.employee.ID); err != nil {
			return err
		}
		return MarkServed(tx, o.ID)
	}); err != nil {
		t.Fatalf("hazırlık hata döndü: %v", err)
	}

	got := reloadOrder(t, db, o.ID)
	if got.Status != models.OrderServed || got.Lines[0].Status != models.LineServed {
		t.Fatalf("servis işareti uygulanmamış: %s / %s", got.Status, got.Lines[0].Status)
	}

	// Servis sonrası yeni kalem siparişi tekrar ordered yapar
	if err := db.Transaction(func(tx *gorm.DB) error {
		return AddLine(tx, o.ID, f.lahmacun.ID, 1, f.employee.ID)
	}); err != nil {
		t.Fatalf("servis sonrası ekleme hata döndü: %v", err)
	}

	got = reloadOrder(t, db, o.ID)
	if got.Status != models.OrderOrdered {
		t.Errorf("sipariş durumu = %s, beklenen ordered", got.Status)
	}
}

func TestAssignmentsAreIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	f := seed(t, db, 10, 10)
	o := startDineIn(t, db, f, 2)

	for i := 0; i < 2; i++ {
		if err := db.Transaction(func(tx *gorm.DB) error {
			return RecordAssignment(tx, o.ID, f.employee.ID)
		}); err != nil {
			t.Fatalf("atama hata döndü: %v", err)
		}
	}

	var assignments []models.OrderAssignment
	if err := db.Where("order_id = ?", o.ID).Find(&assignments).Error; err != nil {
		t.Fatalf("atamalar okunamadı: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("atama sayısı = %d, tekrar ekleme no-op olmalı", len(assignments))
	}
	if assignments[0].RoleInOrder != "Garson" {
		t.Errorf("atama rolü = %q, çalışanın pozisyonu olmalı", assignments[0].RoleInOrder)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return RemoveAssignment(tx, o.ID, f.employee.ID)
	}); err != nil {
		t.Fatalf("atama kaldırılamadı: %v", err)
	}
	// Olmayan atamayı kaldırmak da no-op
	if err := db.Transaction(func(tx *gorm.DB) error {
		return RemoveAssignment(tx, o.ID, f.employee.ID)
	}); err != nil {
		t.Fatalf("ikinci kaldırma hata döndü: %v", err)
	}
}

func TestTakeawayOrderSkipsTableSession(t *testing.T) {
	db := testutil.NewDB(t)
	f := seed(t, db, 10, 10)

	var o *models.Order
	if err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		o, err = StartOrder(tx, StartOrderInput{
			CustomerID: f.customer.ID,
			Kind:       models.OrderTakeaway,
		})
		return err
	}); err != nil {
		t.Fatalf("paket sipariş açılamadı: %v", err)
	}

	if o.TableID != nil || o.SessionStart != nil {
		t.Errorf("paket siparişte masa/oturum olmamalı: %+v", o)
	}

	var sessions int64
	db.Model(&models.TableSession{}).Count(&sessions)
	if sessions != 0 {
		t.Errorf("paket sipariş oturum açmış (%d adet)", sessions)
	}
}
