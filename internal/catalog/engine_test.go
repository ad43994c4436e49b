package catalog

import (
	"errors"
	"testing"

	"github.com/HerbHall/fullstock/internal/testutil"
	pkgcatalog "github.com/HerbHall/fullstock/pkg/catalog"
	"github.com/HerbHall/fullstock/pkg/models"
)

func TestEngine_Inventory_FilterByStatus(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())

	items, err := engine.Inventory(InventoryFilter{Status: models.StatusCritical})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("critical items = %d, want 3", len(items))
	}
	for i := range items {
		if items[i].Status != models.StatusCritical {
			t.Errorf("%s has status %q, want critical", items[i].Name, items[i].Status)
		}
	}
}

func TestEngine_Inventory_SortByUrgency(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())

	asc, err := engine.Inventory(InventoryFilter{Sort: SortAsc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(asc); i++ {
		if asc[i].Status.Priority() < asc[i-1].Status.Priority() {
			t.Errorf("asc order broken: %s (%s) after %s (%s)",
				asc[i].Name, asc[i].Status, asc[i-1].Name, asc[i-1].Status)
		}
	}
	if asc[0].Name != "Beef Tenderloin" {
		t.Errorf("first asc item = %s, want Beef Tenderloin (stable)", asc[0].Name)
	}

	desc, err := engine.Inventory(InventoryFilter{Sort: SortDesc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc[0].Status != models.StatusOK || desc[len(desc)-1].Status != models.StatusCritical {
		t.Errorf("desc order = %s..%s, want ok..critical", desc[0].Status, desc[len(desc)-1].Status)
	}
}

func TestSortByUrgency_UnknownLast(t *testing.T) {
	items := []models.InventoryItem{
		testutil.NewInventoryItem(testutil.WithItemID(1), testutil.WithStatus("mystery")),
		testutil.NewInventoryItem(testutil.WithItemID(2), testutil.WithStatus(models.StatusOK)),
		testutil.NewInventoryItem(testutil.WithItemID(3), testutil.WithStatus(models.StatusCritical)),
	}
	SortByUrgency(items, SortAsc)
	if items[0].ID != 3 || items[2].ID != 1 {
		t.Errorf("order = %d,%d,%d, want 3,2,1", items[0].ID, items[1].ID, items[2].ID)
	}
}

func TestSortOrder_Toggle(t *testing.T) {
	if SortNone.Toggle() != SortAsc || SortAsc.Toggle() != SortDesc || SortDesc.Toggle() != SortAsc {
		t.Error("Toggle() did not alternate asc/desc")
	}
	if ParseSortOrder("sideways") != SortNone {
		t.Error("ParseSortOrder accepted an unknown direction")
	}
}

func TestEngine_Item(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())

	item, err := engine.Item(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Name != "Heavy Cream" {
		t.Errorf("Item(5) = %s, want Heavy Cream", item.Name)
	}

	if _, err := engine.Item(99); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Item(99) error = %v, want ErrItemNotFound", err)
	}
}

func TestEngine_Suggestions(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())

	got, err := engine.Suggestions(7) // Salmon Fillet
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Ocean Harvest" {
		t.Errorf("Suggestions(7) = %v, want [Ocean Harvest]", got)
	}
}

func TestEngine_Summary(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())

	s, err := engine.Summary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Summary{Total: 10, Critical: 3, Warning: 4, OK: 3}
	if s != want {
		t.Errorf("Summary() = %+v, want %+v", s, want)
	}
}

type failingSource struct{ err error }

func (f failingSource) Inventory() ([]models.InventoryItem, error) { return nil, f.err }
func (f failingSource) Suppliers() ([]models.Supplier, error)      { return nil, f.err }
func (f failingSource) Datasets() (pkgcatalog.Datasets, error)     { return pkgcatalog.Datasets{}, f.err }

func TestEngine_SourceErrors(t *testing.T) {
	boom := errors.New("boom")
	engine := NewEngine(failingSource{err: boom})

	if _, err := engine.Inventory(InventoryFilter{}); !errors.Is(err, boom) {
		t.Errorf("Inventory() error = %v, want boom", err)
	}
	if _, err := engine.Suppliers(); !errors.Is(err, boom) {
		t.Errorf("Suppliers() error = %v, want boom", err)
	}
	if _, err := engine.Summary(); !errors.Is(err, boom) {
		t.Errorf("Summary() error = %v, want boom", err)
	}
}

func TestEngine_StaticCatalog(t *testing.T) {
	tomatoes := testutil.NewInventoryItem()
	salmon := testutil.NewInventoryItem(
		testutil.WithItemID(2),
		testutil.WithItemName("Salmon Fillet"),
		testutil.WithCategory(models.CategorySeafood),
		testutil.WithStatus(models.StatusCritical),
		testutil.WithStock(1, 5),
		testutil.WithNextDelivery("2025-04-03"),
	)
	produce := testutil.NewSupplier()
	seafood := testutil.NewSupplier(
		testutil.WithSupplierID(2),
		testutil.WithSupplierCategory(models.CategorySeafood),
		testutil.WithItems(),
		testutil.WithScore(95),
		testutil.Sponsored(),
	)
	engine := NewEngine(pkgcatalog.NewStatic(
		[]models.InventoryItem{tomatoes, salmon},
		[]models.Supplier{produce, seafood},
		pkgcatalog.Datasets{},
	))

	summary, err := engine.Summary()
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if want := (Summary{Total: 2, Critical: 1, Warning: 1}); summary != want {
		t.Errorf("Summary() = %+v, want %+v", summary, want)
	}

	item, err := engine.Item(2)
	if err != nil {
		t.Fatalf("Item(2) error: %v", err)
	}
	if item.Deficit() != 4 || item.NextDelivery != "2025-04-03" {
		t.Errorf("Item(2) = %+v", item)
	}

	tests := []struct {
		id   int
		want int
	}{
		{1, 1},
		{2, 2},
	}
	for _, tt := range tests {
		got, err := engine.Suggestions(tt.id)
		if err != nil {
			t.Fatalf("Suggestions(%d) error: %v", tt.id, err)
		}
		if len(got) != 1 || got[0].ID != tt.want {
			t.Errorf("Suggestions(%d) ids = %v, want [%d]", tt.id, ids(got), tt.want)
		}
	}

	// One organic supplier gives spacing 0, so the sponsored one leads.
	suppliers, err := engine.Suppliers()
	if err != nil {
		t.Fatalf("Suppliers() error: %v", err)
	}
	if got := ids(suppliers); len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("Suppliers() ids = %v, want [2 1]", got)
	}
}
