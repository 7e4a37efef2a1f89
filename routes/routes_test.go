package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/KTZN/ShoppingCartApi/models"
	"github.com/KTZN/ShoppingCartApi/seed"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ShoppingCart{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := seed.Run(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	r := gin.New()
	SetupRoutes(r, db, testSecret)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/login", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in response", username)
	}
	return token
}

func TestRegisterLoginShopCheckoutFlow(t *testing.T) {
	r, db := newTestRouter(t)

	// Register
	w := doJSON(t, r, http.MethodPost, "/auth/register", "",
		`{"username":"dave","password":"pw123456"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}
	if decode(t, w)["username"] != "dave" {
		t.Fatalf("register response: %s", w.Body.String())
	}

	// Duplicate registration conflicts
	w = doJSON(t, r, http.MethodPost, "/auth/register", "",
		`{"username":"dave","password":"other"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status %d", w.Code)
	}

	// Bad credentials are unauthenticated, not a server error
	w = doJSON(t, r, http.MethodPost, "/auth/login", "",
		`{"username":"dave","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d", w.Code)
	}

	token := login(t, r, "dave", "pw123456")

	// No token, no cart
	w = doJSON(t, r, http.MethodGet, "/user/cart/", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated cart access: status %d", w.Code)
	}

	// First cart access lazily creates an open, empty cart
	w = doJSON(t, r, http.MethodGet, "/user/cart/", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get cart: status %d body %s", w.Code, w.Body.String())
	}
	firstCartID := decode(t, w)["id"].(float64)

	// Add 2 units of the seeded Laptop (product 1, stock 10)
	w = doJSON(t, r, http.MethodPost, "/user/cart/items", token,
		`{"product_id":1,"quantity":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: status %d body %s", w.Code, w.Body.String())
	}
	item := decode(t, w)
	if item["quantity"].(float64) != 2 {
		t.Fatalf("add item response: %s", w.Body.String())
	}

	// Overdraw is rejected and names the product
	w = doJSON(t, r, http.MethodPost, "/user/cart/items", token,
		`{"product_id":1,"quantity":100}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("overdraw add: status %d body %s", w.Code, w.Body.String())
	}
	if decode(t, w)["product"] != "Laptop" {
		t.Fatalf("overdraw response must name the product: %s", w.Body.String())
	}

	// Checkout decrements stock and closes the cart
	w = doJSON(t, r, http.MethodPost, "/user/cart/checkout", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("checkout: status %d body %s", w.Code, w.Body.String())
	}

	var laptop models.Product
	if err := db.First(&laptop, 1).Error; err != nil {
		t.Fatal(err)
	}
	if laptop.StockQuantity != 8 {
		t.Fatalf("expected stock 8 after checkout, got %d", laptop.StockQuantity)
	}

	// The next cart access returns a fresh open cart
	w = doJSON(t, r, http.MethodGet, "/user/cart/", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get cart after checkout: status %d", w.Code)
	}
	if decode(t, w)["id"].(float64) == firstCartID {
		t.Fatal("expected a new cart after checkout")
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "",
		`{"username":"erin","password":"pw123456"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d", w.Code)
	}
	customerToken := login(t, r, "erin", "pw123456")

	w = doJSON(t, r, http.MethodGet, "/admin/users", customerToken, "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route: status %d", w.Code)
	}

	adminToken := login(t, r, "admin", "admin123")
	w = doJSON(t, r, http.MethodGet, "/admin/users", adminToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin user list: status %d body %s", w.Code, w.Body.String())
	}

	// Admin can inspect a user's open cart once it exists
	w = doJSON(t, r, http.MethodGet, "/user/cart/", customerToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get cart: status %d", w.Code)
	}
	userID := decode(t, w)["user_id"].(float64)

	w = doJSON(t, r, http.MethodGet, "/admin/carts/"+strconv.Itoa(int(userID)), adminToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin cart view: status %d body %s", w.Code, w.Body.String())
	}
}
