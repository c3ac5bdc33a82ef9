package transport

import (
	"net/http"
	"strings"
	"testing"

	"bakery-api/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func createTestProduct(t *testing.T, env *testEnv, token, sku string) domain.Product {
	t.Helper()
	w := env.do(http.MethodPost, "/api/products", token, map[string]any{
		"name": "Pan", "price": 3.5, "sku": sku, "category": "pan",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create product %s: %d %s", sku, w.Code, w.Body.String())
	}
	var product domain.Product
	decodeEnvelope(t, w, &product)
	return product
}

func TestProductRoutes_ReadsArePublicAndWritesNeedToken(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(http.MethodGet, "/api/products", "", nil); w.Code != http.StatusOK {
		t.Errorf("expected public listing, got %d", w.Code)
	}

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/PAN-1"},
		{http.MethodDelete, "/api/products/PAN-1"},
	} {
		before := env.store.Calls()
		w := env.do(tc.method, tc.path, "", map[string]any{"name": "x"})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, w.Code)
		}
		if env.store.Calls() != before {
			t.Errorf("%s %s: store was accessed without a token", tc.method, tc.path)
		}
	}
}

func TestCreateProduct_AppliesDefaultsAndUppercasesSKU(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)

	product := createTestProduct(t, env, token, "pan-1")
	if product.SKU != "PAN-1" || product.Status != domain.ProductStatusActive ||
		product.Image != domain.DefaultProductImage || product.Stock != 0 {
		t.Errorf("unexpected product %+v", product)
	}

	w := env.do(http.MethodPost, "/api/products", token, map[string]any{
		"name": "Gratis", "price": 0, "sku": "free-1", "category": "galletas",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("a zero price is valid, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateProduct_ReportsEveryViolation(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)

	w := env.do(http.MethodPost, "/api/products", token, map[string]any{
		"price": -2, "category": "bebidas", "stock": -1,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := decodeEnvelope(t, w, nil)
	for _, field := range []string{"name", "price", "category", "stock", "sku"} {
		if !hasField(resp, field) {
			t.Errorf("missing violation for %s in %+v", field, resp.Errors)
		}
	}
}

func TestCreateProduct_DecodeFailuresAreItemized(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)

	w := env.do(http.MethodPost, "/api/products", token, map[string]any{
		"name": "", "price": "abc", "sku": "", "category": "zzz", "stock": "x",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeEnvelope(t, w, nil)
	for _, field := range []string{"name", "price", "sku", "category", "stock"} {
		if !hasField(resp, field) {
			t.Errorf("missing violation for %s in %+v", field, resp.Errors)
		}
	}
}

func TestCreateProduct_EnforcesColumnLimits(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)

	w := env.do(http.MethodPost, "/api/products", token, map[string]any{
		"name":     strings.Repeat("p", 256),
		"price":    1e9,
		"sku":      strings.Repeat("s", 101),
		"image":    strings.Repeat("i", 501),
		"category": "pan",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeEnvelope(t, w, nil)
	for _, field := range []string{"name", "price", "sku", "image"} {
		if !hasField(resp, field) {
			t.Errorf("missing violation for %s in %+v", field, resp.Errors)
		}
	}

	w = env.do(http.MethodPost, "/api/products", token, map[string]any{
		"name": strings.Repeat("p", 255), "price": 99999999.99, "sku": strings.Repeat("s", 100), "category": "pan",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("values at the column limits are valid, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateProduct_PriceMatchesStoredScale(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)

	w := env.do(http.MethodPost, "/api/products", token, map[string]any{
		"name": "Concha", "price": 3.555, "sku": "con-1", "category": "pan",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created domain.Product
	decodeEnvelope(t, w, &created)

	var fetched domain.Product
	decodeEnvelope(t, env.do(http.MethodGet, "/api/products/CON-1", "", nil), &fetched)
	if !created.Price.Equal(decimal.RequireFromString("3.56")) || !fetched.Price.Equal(created.Price) {
		t.Errorf("create returned %s and read returned %s, both should be 3.56", created.Price, fetched.Price)
	}
}

// Feature: bakery-api, Property: Duplicate SKU in any case conflicts
func TestProperty_DuplicateSKUConflictsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)
	properties := gopter.NewProperties(nil)

	properties.Property("creating a product with a taken sku returns 409", prop.ForAll(
		func(sku string) bool {
			first := env.do(http.MethodPost, "/api/products", token, map[string]any{
				"name": "Pan", "price": 1, "sku": strings.ToLower(sku), "category": "pan",
			})
			if first.Code != http.StatusCreated {
				t.Logf("FAIL: first create returned %d", first.Code)
				return false
			}
			second := env.do(http.MethodPost, "/api/products", token, map[string]any{
				"name": "Pan", "price": 1, "sku": strings.ToUpper(sku), "category": "pan",
			})
			return second.Code == http.StatusConflict && decodeEnvelope(t, second, nil).Code == "CONFLICT"
		},
		gen.RegexMatch(`sku-[a-z0-9]{12}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUpdateProduct_PartialMergeWithAliases(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)
	createTestProduct(t, env, token, "pan-1")

	w := env.do(http.MethodPut, "/api/products/pan-1", token, map[string]any{"precio": 4.75, "estado": "inactive"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var product domain.Product
	decodeEnvelope(t, w, &product)
	if !product.Price.Equal(decimal.RequireFromString("4.75")) || product.Status != domain.ProductStatusInactive {
		t.Errorf("aliases not applied: %+v", product)
	}
	if product.Name != "Pan" || product.Category != domain.CategoryPan {
		t.Errorf("omitted fields changed: %+v", product)
	}

	w = env.do(http.MethodPut, "/api/products/pan-1", token, map[string]any{"precio": -1})
	if w.Code != http.StatusBadRequest || !hasField(decodeEnvelope(t, w, nil), "price") {
		t.Errorf("expected a price violation, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)
	createTestProduct(t, env, token, "pan-1")

	if w := env.do(http.MethodDelete, "/api/products/pan-1", token, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := env.do(http.MethodDelete, "/api/products/pan-1", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/products/pan-1", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestListProducts_RejectsUnknownFilter(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/products?category=bebidas", "", nil)
	if w.Code != http.StatusBadRequest || !hasField(decodeEnvelope(t, w, nil), "category") {
		t.Errorf("expected a category violation, got %d: %s", w.Code, w.Body.String())
	}
}
