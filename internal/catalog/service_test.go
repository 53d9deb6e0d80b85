package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/lcastellanos/shopline-backend/pkg/config"
	"github.com/lcastellanos/shopline-backend/pkg/db"
	"github.com/lcastellanos/shopline-backend/pkg/db/models"
	pkgerrors "github.com/lcastellanos/shopline-backend/pkg/errors"
	"github.com/lcastellanos/shopline-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

func newTestService(t *testing.T) (Service, *db.Client, uint) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{DSN: dsn, MaxOpenConns: 1}, true, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	category := &models.Category{Name: "Peripherals", NormalizedName: "peripherals"}
	if err := client.DB().Create(category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	svc, err := NewService(ServiceParams{DB: client})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, client, category.ID
}

func mustCreate(t *testing.T, svc Service, categoryID uint, name string, stock int) *ProductDTO {
	t.Helper()
	dto, err := svc.Create(context.Background(), CreateProductDTO{
		Name:       name,
		Price:      decimal.NewFromFloat(19.99),
		Stock:      stock,
		CategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("create %q: %v", name, err)
	}
	return dto
}

func stockOf(t *testing.T, svc Service, id uint) int {
	t.Helper()
	dto, err := svc.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return dto.Stock
}

func TestCreateAndGetJoinsCategory(t *testing.T) {
	svc, _, categoryID := newTestService(t)

	created := mustCreate(t, svc, categoryID, "Keyboard", 5)
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if created.CategoryName != "Peripherals" {
		t.Fatalf("expected joined category name, got %q", created.CategoryName)
	}
	if !created.Price.Equal(decimal.NewFromFloat(19.99)) {
		t.Fatalf("unexpected price %s", created.Price)
	}
}

func TestCreateRejectsMissingCategory(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateProductDTO{
		Name:       "Orphan",
		Price:      decimal.NewFromInt(1),
		CategoryID: 9999,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
}

func TestCreateRejectsCaseInsensitiveDuplicateName(t *testing.T) {
	svc, _, categoryID := newTestService(t)

	mustCreate(t, svc, categoryID, "Mouse", 3)
	_, err := svc.Create(context.Background(), CreateProductDTO{
		Name:       " MOUSE ",
		Price:      decimal.NewFromInt(5),
		CategoryID: categoryID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate name, got %v", err)
	}
}

func TestCreateRejectsNegativePriceAndStock(t *testing.T) {
	svc, _, categoryID := newTestService(t)

	_, err := svc.Create(context.Background(), CreateProductDTO{
		Name:       "Bad Price",
		Price:      decimal.NewFromInt(-1),
		CategoryID: categoryID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateProductDTO{
		Name:       "Bad Stock",
		Price:      decimal.NewFromInt(1),
		Stock:      -2,
		CategoryID: categoryID,
	})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative stock, got %v", err)
	}
}

func TestUpdateChecksCategoryAndUniqueness(t *testing.T) {
	svc, _, categoryID := newTestService(t)

	first := mustCreate(t, svc, categoryID, "Webcam", 2)
	mustCreate(t, svc, categoryID, "Headset", 2)

	// renaming onto another product's name is rejected
	_, err := svc.Update(context.Background(), first.ID, UpdateProductDTO{
		Name:       "headset",
		Price:      decimal.NewFromInt(10),
		CategoryID: categoryID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	// keeping your own name is allowed
	updated, err := svc.Update(context.Background(), first.ID, UpdateProductDTO{
		Name:        "WEBCAM",
		Description: "1080p",
		Price:       decimal.NewFromInt(25),
		Stock:       7,
		CategoryID:  categoryID,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "WEBCAM" || updated.Stock != 7 || updated.Description != "1080p" {
		t.Fatalf("unexpected updated product %+v", updated)
	}

	_, err = svc.Update(context.Background(), first.ID, UpdateProductDTO{
		Name:       "WEBCAM",
		Price:      decimal.NewFromInt(25),
		CategoryID: 9999,
	})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
}

func TestDeleteReturnsRemovedProduct(t *testing.T) {
	svc, _, categoryID := newTestService(t)

	created := mustCreate(t, svc, categoryID, "Speaker", 4)
	removed, err := svc.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.Name != "Speaker" {
		t.Fatalf("expected removed product snapshot, got %+v", removed)
	}

	_, err = svc.GetByID(context.Background(), created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected product gone, got %v", err)
	}

	_, err = svc.Delete(context.Background(), created.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}

func TestListByCategoryAndSearch(t *testing.T) {
	ctx := context.Background()
	svc, client, categoryID := newTestService(t)

	other := &models.Category{Name: "Audio", NormalizedName: "audio"}
	if err := client.DB().Create(other).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	mustCreate(t, svc, categoryID, "Mechanical Keyboard", 5)
	if _, err := svc.Create(ctx, CreateProductDTO{
		Name:        "Soundbar",
		Description: "wireless keyboard companion",
		Price:       decimal.NewFromInt(80),
		CategoryID:  other.ID,
	}); err != nil {
		t.Fatalf("create soundbar: %v", err)
	}

	inCategory, err := svc.ListByCategory(ctx, categoryID)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(inCategory) != 1 || inCategory[0].Name != "Mechanical Keyboard" {
		t.Fatalf("unexpected category listing %+v", inCategory)
	}

	_, err = svc.ListByCategory(ctx, 9999)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown category, got %v", err)
	}

	// matches name on one product and description on the other
	results, err := svc.Search(ctx, "KeyBoard")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}

	results, err = svc.Search(ctx, "soundbar")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Soundbar" {
		t.Fatalf("unexpected search results %+v", results)
	}

	_, err = svc.Search(ctx, "   ")
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank term, got %v", err)
	}
}

func TestListPageCoversEveryItemExactlyOnce(t *testing.T) {
	ctx := context.Background()
	svc, _, categoryID := newTestService(t)

	const total = 12
	for i := 0; i < total; i++ {
		mustCreate(t, svc, categoryID, fmt.Sprintf("Product %02d", i), 1)
	}

	seen := map[uint]int{}
	page := 1
	for {
		result, err := svc.ListPage(ctx, pagination.Params{Page: page, PageSize: 5})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if result.TotalItems != total {
			t.Fatalf("expected total %d, got %d", total, result.TotalItems)
		}
		if result.TotalPages != 3 {
			t.Fatalf("expected 3 pages, got %d", result.TotalPages)
		}
		for _, item := range result.Items {
			seen[item.ID]++
		}
		if page >= result.TotalPages {
			break
		}
		page++
	}

	if len(seen) != total {
		t.Fatalf("expected %d distinct items, saw %d", total, len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("product %d appeared %d times", id, count)
		}
	}

	// a page past the total is empty, not an error, at this layer
	beyond, err := svc.ListPage(ctx, pagination.Params{Page: 4, PageSize: 5})
	if err != nil {
		t.Fatalf("page beyond total: %v", err)
	}
	if len(beyond.Items) != 0 {
		t.Fatalf("expected empty page, got %d items", len(beyond.Items))
	}
}

func TestPurchaseDecrementsStock(t *testing.T) {
	ctx := context.Background()
	svc, _, categoryID := newTestService(t)

	created := mustCreate(t, svc, categoryID, "Keyboard", 5)

	if err := svc.Purchase(ctx, "Keyboard", 2); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if got := stockOf(t, svc, created.ID); got != 3 {
		t.Fatalf("expected stock 3, got %d", got)
	}

	// name matching ignores case
	if err := svc.Purchase(ctx, " keyboard ", 3); err != nil {
		t.Fatalf("purchase remaining: %v", err)
	}
	if got := stockOf(t, svc, created.ID); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}
}

func TestPurchaseInsufficientStockLeavesStockUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _, categoryID := newTestService(t)

	created := mustCreate(t, svc, categoryID, "Keyboard", 3)

	err := svc.Purchase(ctx, "Keyboard", 10)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for oversell, got %v", err)
	}
	if got := stockOf(t, svc, created.ID); got != 3 {
		t.Fatalf("failed purchase must not change stock, got %d", got)
	}
}

func TestPurchaseValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, categoryID := newTestService(t)
	mustCreate(t, svc, categoryID, "Keyboard", 3)

	for _, qty := range []int{0, -1} {
		err := svc.Purchase(ctx, "Keyboard", qty)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for qty %d, got %v", qty, err)
		}
	}

	err := svc.Purchase(ctx, "Unknown Thing", 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}

func TestConcurrentPurchasesNeverOversell(t *testing.T) {
	ctx := context.Background()
	svc, _, categoryID := newTestService(t)

	const initialStock = 5
	const buyers = 12
	created := mustCreate(t, svc, categoryID, "Keyboard", initialStock)

	var wg sync.WaitGroup
	results := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Purchase(ctx, "Keyboard", 1)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("unexpected purchase error: %v", err)
		}
	}
	if successes != initialStock {
		t.Fatalf("expected exactly %d successful purchases, got %d", initialStock, successes)
	}
	if got := stockOf(t, svc, created.ID); got != 0 {
		t.Fatalf("expected stock 0 after sellout, got %d", got)
	}
}
