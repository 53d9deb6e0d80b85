package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lcastellanos/shopline-backend/internal/auth"
	"github.com/lcastellanos/shopline-backend/internal/catalog"
	pkgAuth "github.com/lcastellanos/shopline-backend/pkg/auth"
	"github.com/lcastellanos/shopline-backend/pkg/config"
	"github.com/lcastellanos/shopline-backend/pkg/db/models"
	"github.com/lcastellanos/shopline-backend/pkg/logger"
	"github.com/lcastellanos/shopline-backend/pkg/pagination"
)

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "stub"}, nil
}

func (stubAuthService) IsUsernameUnique(ctx context.Context, username string) (bool, error) {
	return true, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return &auth.RegisterResponse{}, nil
}

type stubCategoryService struct{}

func (stubCategoryService) List(ctx context.Context) ([]models.Category, error) {
	return []models.Category{{Name: "Monitors"}}, nil
}

func (stubCategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return &models.Category{Name: "Monitors"}, nil
}

func (stubCategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	return &models.Category{Name: name}, nil
}

func (stubCategoryService) Update(ctx context.Context, id uint, name string) (*models.Category, error) {
	return &models.Category{Name: name}, nil
}

func (stubCategoryService) Delete(ctx context.Context, id uint) error {
	return nil
}

type stubCatalogService struct {
	page *catalog.ProductPage
}

func (stubCatalogService) List(ctx context.Context) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{{Name: "Keyboard"}}, nil
}

func (s stubCatalogService) ListPage(ctx context.Context, params pagination.Params) (*catalog.ProductPage, error) {
	if s.page != nil {
		return s.page, nil
	}
	return &catalog.ProductPage{Page: params.Page, PageSize: params.PageSize, TotalPages: 1}, nil
}

func (stubCatalogService) GetByID(ctx context.Context, id uint) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id, Name: "Keyboard"}, nil
}

func (stubCatalogService) ListByCategory(ctx context.Context, categoryID uint) ([]catalog.ProductDTO, error) {
	return nil, nil
}

func (stubCatalogService) Search(ctx context.Context, term string) ([]catalog.ProductDTO, error) {
	return nil, nil
}

func (stubCatalogService) Create(ctx context.Context, dto catalog.CreateProductDTO) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{Name: dto.Name}, nil
}

func (stubCatalogService) Update(ctx context.Context, id uint, dto catalog.UpdateProductDTO) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id, Name: dto.Name}, nil
}

func (stubCatalogService) Delete(ctx context.Context, id uint) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id}, nil
}

func (stubCatalogService) Purchase(ctx context.Context, name string, quantity int) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, catalogService catalog.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		nil,
		nil,
		nil,
		stubAuthService{},
		stubRegisterService{},
		stubCategoryService{},
		catalogService,
		nil,
	)
}

func buildToken(t *testing.T, cfg *config.Config, role string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "tester",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), stubCatalogService{})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestProductReadsArePublic(t *testing.T) {
	router := newTestRouter(testConfig(), stubCatalogService{})
	for _, path := range []string{
		"/api/v1/products",
		"/api/v1/products/1",
		"/api/v1/products/search/keyboard",
		"/api/v1/categories",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestCategoryMutationsRequireAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubCatalogService{})
	body := `{"name":"Monitors"}`

	anonymous := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(body))
	anonymous.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anonymous)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	nonAdmin := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(body))
	nonAdmin.Header.Set("Content-Type", "application/json")
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "User"))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(body))
	admin.Header.Set("Content-Type", "application/json")
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, AdminRole))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin got %d", resp.Code)
	}
}

func TestPurchaseRequiresAuthentication(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubCatalogService{})

	anonymous := httptest.NewRequest(http.MethodPost, "/api/v1/products/purchase/Keyboard/2", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anonymous)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	buyer := httptest.NewRequest(http.MethodPost, "/api/v1/products/purchase/Keyboard/2", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "User"))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authenticated purchase got %d", resp.Code)
	}
}

func TestProductsPagePastEndRejected(t *testing.T) {
	svc := stubCatalogService{page: &catalog.ProductPage{Page: 5, PageSize: 5, TotalItems: 8, TotalPages: 2}}
	router := newTestRouter(testConfig(), svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/page/5/5", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for page past the end got %d", resp.Code)
	}
}

func TestProductMutationsRequireAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubCatalogService{})
	body := `{"name":"Keyboard","price":"19.99","stock":3,"category_id":1}`

	nonAdmin := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	nonAdmin.Header.Set("Content-Type", "application/json")
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "User"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin product create got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	admin.Header.Set("Content-Type", "application/json")
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, AdminRole))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin product create got %d", resp.Code)
	}
}
