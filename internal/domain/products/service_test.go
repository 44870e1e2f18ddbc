package products

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"petshop-crm/internal/domain/assistant"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/platform/money"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID    map[string]Product
	failAll error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Product{}}
}

func (r *testRepo) Create(_ context.Context, p Product) error {
	for _, cur := range r.byID {
		if cur.SKU == p.SKU {
			return ErrConflict
		}
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Product) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) List(_ context.Context, f ListFilter) ([]Product, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	out := make([]Product, 0)
	for _, p := range r.byID {
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) LowStock(_ context.Context) ([]Product, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	out := make([]Product, 0)
	for _, p := range r.byID {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubGenerator struct {
	got assistant.ProductRequest
}

func (g *stubGenerator) GenerateProductInfo(_ context.Context, in assistant.ProductRequest) assistant.ProductInfo {
	g.got = in
	return assistant.ProductInfo{Name: in.Name, SKU: "PET-TEST-0000", Category: "Outros", Tags: []string{in.Name}}
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, &stubGenerator{}, logger.Nop())
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_Defaults(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), CreateInput{
		Name:  " Ração Premium ",
		SKU:   "rac-001",
		Price: money.Cents(8990),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected generated id")
	}
	if p.Name != "Ração Premium" || p.SKU != "RAC-001" {
		t.Fatalf("expected trimmed name and upper SKU, got %q %q", p.Name, p.SKU)
	}
	if p.MinStock != DefaultMinStock || p.Unit != DefaultUnit || !p.Active {
		t.Fatalf("expected defaults min_stock=5 unit=un active=true, got %d %q %v", p.MinStock, p.Unit, p.Active)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newTestService()
	neg := -1

	cases := []CreateInput{
		{SKU: "A"},
		{Name: "x"},
		{Name: "x", SKU: "A", Price: -1},
		{Name: "x", SKU: "A", CostPrice: -1},
		{Name: "x", SKU: "A", Stock: -1},
		{Name: "x", SKU: "A", MinStock: &neg},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_Create_DuplicateSKU(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), CreateInput{Name: "A", SKU: "dup-1"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(context.Background(), CreateInput{Name: "B", SKU: "DUP-1"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestService_Update_Patch(t *testing.T) {
	svc, _ := newTestService()
	p, _ := svc.Create(context.Background(), CreateInput{Name: "Coleira", SKU: "COL-1", Stock: 10})

	later := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return later }

	stock := 2
	unit := " "
	got, err := svc.Update(context.Background(), p.ID, UpdateInput{Stock: &stock, Unit: &unit})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.Stock != 2 || got.Name != "Coleira" || got.Unit != DefaultUnit {
		t.Fatalf("unexpected patch result: %#v", got)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Fatalf("expected UpdatedAt to change")
	}
	if !got.IsLowStock() {
		t.Fatalf("expected low stock after patch")
	}

	if _, err := svc.Update(context.Background(), "missing", UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_LowStock_BoundaryIsInclusive(t *testing.T) {
	svc, _ := newTestService()
	five := 5

	before := len(svc.LowStock(context.Background()))
	if _, err := svc.Create(context.Background(), CreateInput{Name: "A", SKU: "A", Stock: 5, MinStock: &five}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{Name: "B", SKU: "B", Stock: 6, MinStock: &five}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := len(svc.LowStock(context.Background())); got != before+1 {
		t.Fatalf("expected low stock to grow by exactly 1, got %d -> %d", before, got)
	}
}

func TestService_List_DegradesToEmpty(t *testing.T) {
	svc, repo := newTestService()
	repo.failAll = errors.New("database is locked")

	items := svc.List(context.Background(), ListFilter{})
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
	if low := svc.LowStock(context.Background()); low == nil || len(low) != 0 {
		t.Fatalf("expected empty low stock, got %#v", low)
	}
}

func TestService_GenerateAI(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.GenerateAI(context.Background(), assistant.ProductRequest{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	info, err := svc.GenerateAI(context.Background(), assistant.ProductRequest{Name: "Areia", Category: "Higiene"})
	if err != nil {
		t.Fatalf("GenerateAI returned error: %v", err)
	}
	if info.SKU == "" || len(info.Tags) == 0 {
		t.Fatalf("expected populated info, got %#v", info)
	}
	if svc.gen.(*stubGenerator).got.Category != "Higiene" {
		t.Fatalf("expected category to reach the generator")
	}
}
