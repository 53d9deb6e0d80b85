package categories

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lcastellanos/shopline-backend/pkg/config"
	"github.com/lcastellanos/shopline-backend/pkg/db"
	"github.com/lcastellanos/shopline-backend/pkg/db/models"
	pkgerrors "github.com/lcastellanos/shopline-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *db.Client) {
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

	svc, err := NewService(ServiceParams{DB: client})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, client
}

func TestCreateListAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.Create(ctx, "  Peripherals ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if created.Name != "Peripherals" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}

	if _, err := svc.Create(ctx, "Audio"); err != nil {
		t.Fatalf("create second: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(list))
	}
	if list[0].Name != "Audio" || list[1].Name != "Peripherals" {
		t.Fatalf("expected name ordering, got %q then %q", list[0].Name, list[1].Name)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Peripherals" {
		t.Fatalf("unexpected category %+v", got)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetByID(context.Background(), 999)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateRejectsCaseInsensitiveDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.Create(ctx, "Keyboards"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, " KEYBOARDS ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestNameLengthValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, name := range []string{"ab", strings.Repeat("x", 51), "   a   "} {
		_, err := svc.Create(ctx, name)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %q, got %v", name, err)
		}
	}

	// boundary lengths are accepted
	if _, err := svc.Create(ctx, "abc"); err != nil {
		t.Fatalf("create 3-char name: %v", err)
	}
	if _, err := svc.Create(ctx, strings.Repeat("y", 50)); err != nil {
		t.Fatalf("create 50-char name: %v", err)
	}
}

func TestUpdateRenamesAndGuardsUniqueness(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.Create(ctx, "Monitors")
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(ctx, "Cables")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	// keeping your own name is allowed
	if _, err := svc.Update(ctx, first.ID, "MONITORS"); err != nil {
		t.Fatalf("self rename: %v", err)
	}

	_, err = svc.Update(ctx, second.ID, "monitors")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict renaming onto taken name, got %v", err)
	}

	updated, err := svc.Update(ctx, second.ID, "Adapters")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if updated.Name != "Adapters" {
		t.Fatalf("expected renamed category, got %q", updated.Name)
	}
}

func TestDeleteBlocksWhenProductsRemain(t *testing.T) {
	ctx := context.Background()
	svc, client := newTestService(t)

	category, err := svc.Create(ctx, "Storage")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	product := &models.Product{
		Name:           "SSD",
		NormalizedName: "ssd",
		CategoryID:     category.ID,
		Stock:          1,
	}
	if err := client.DB().Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	err = svc.Delete(ctx, category.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict deleting referenced category, got %v", err)
	}

	if err := client.DB().Delete(product).Error; err != nil {
		t.Fatalf("remove product: %v", err)
	}
	if err := svc.Delete(ctx, category.ID); err != nil {
		t.Fatalf("delete after products removed: %v", err)
	}

	_, err = svc.GetByID(ctx, category.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected category gone, got %v", err)
	}
}

func TestDeleteMissingCategory(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Delete(context.Background(), 12345)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
