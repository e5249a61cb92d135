//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

type idResponse struct {
	ID int64 `json:"id"`
}

type confirmationResponse struct {
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Total       string `json:"total"`
}

type stockLevel struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type dashboardResponse struct {
	Summary struct {
		TotalSales  string `json:"totalSales"`
		OrderCount  int64  `json:"orderCount"`
		ActiveUsers int64  `json:"activeUsers"`
	} `json:"summary"`
	StockLevels []stockLevel `json:"stockLevels"`
}

// seedFixture registers a category, supplier, user, and a product with the
// given price and stock, returning the user and product ids. Each call uses
// unique identifiers so tests stay independent.
func seedFixture(t *testing.T, tag, price string, stock int) (userID, productID int64) {
	t.Helper()

	resp := doPost(t, "/api/categories", map[string]any{
		"name": "Category " + tag,
		"slug": "category-" + tag,
	})
	requireStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = doPost(t, "/api/users", map[string]any{
		"email":        tag + "@example.com",
		"passwordHash": "$2a$10$hash",
		"isActive":     true,
	})
	requireStatus(t, resp, http.StatusCreated)
	userID = decodeJSON[idResponse](t, resp).ID
	resp.Body.Close()

	resp = doPost(t, "/api/products", map[string]any{
		"sku":          "SKU-" + tag,
		"name":         "Product " + tag,
		"categoryId":   categoryID(t, "category-"+tag),
		"supplierId":   supplierID(t),
		"price":        price,
		"initialStock": stock,
	})
	requireStatus(t, resp, http.StatusCreated)
	productID = decodeJSON[idResponse](t, resp).ID
	resp.Body.Close()

	return userID, productID
}

func categoryID(t *testing.T, slug string) int64 {
	t.Helper()
	resp := doGet(t, "/api/categories")
	requireStatus(t, resp, http.StatusOK)
	defer resp.Body.Close()

	categories := decodeJSON[[]struct {
		ID   int64  `json:"id"`
		Slug string `json:"slug"`
	}](t, resp)
	for _, c := range categories {
		if c.Slug == slug {
			return c.ID
		}
	}
	t.Fatalf("category %s not found", slug)
	return 0
}

// supplierID returns the supplier seeded in TestMain. The API has no
// supplier registration endpoint.
func supplierID(t *testing.T) int64 {
	t.Helper()
	resp := doGet(t, "/api/suppliers")
	requireStatus(t, resp, http.StatusOK)
	defer resp.Body.Close()

	suppliers := decodeJSON[[]struct {
		ID int64 `json:"id"`
	}](t, resp)
	if len(suppliers) == 0 {
		t.Fatal("no suppliers seeded")
	}
	return suppliers[0].ID
}

func productQuantity(t *testing.T, productID int64) int {
	t.Helper()
	resp := doGet(t, "/api/dashboard")
	requireStatus(t, resp, http.StatusOK)
	defer resp.Body.Close()

	dash := decodeJSON[dashboardResponse](t, resp)
	for _, s := range dash.StockLevels {
		if s.ProductID == productID {
			return s.Quantity
		}
	}
	t.Fatalf("product %d has no stock level", productID)
	return 0
}

func TestPlaceOrder_EndToEnd(t *testing.T) {
	userID, productID := seedFixture(t, "e2e", "19.99", 50)

	resp := doPost(t, "/api/orders", map[string]any{
		"userId":    userID,
		"productId": productID,
		"quantity":  3,
	})
	requireStatus(t, resp, http.StatusCreated)
	conf := decodeJSON[confirmationResponse](t, resp)
	resp.Body.Close()

	if conf.Total != "59.97" {
		t.Fatalf("expected total 59.97, got %s", conf.Total)
	}
	if !strings.HasPrefix(conf.OrderNumber, "ORD-") {
		t.Fatalf("unexpected order number %q", conf.OrderNumber)
	}
	if got := productQuantity(t, productID); got != 47 {
		t.Fatalf("expected inventory 47 after placement, got %d", got)
	}
}

func TestPlaceOrder_ZeroQuantityLeavesNothingBehind(t *testing.T) {
	userID, productID := seedFixture(t, "zeroqty", "5.00", 10)

	resp := doPost(t, "/api/orders", map[string]any{
		"userId":    userID,
		"productId": productID,
		"quantity":  0,
	})
	requireStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	if got := productQuantity(t, productID); got != 10 {
		t.Fatalf("inventory changed on rejected order: %d", got)
	}
}

func TestPlaceOrder_UnknownUserRollsBack(t *testing.T) {
	_, productID := seedFixture(t, "nouser", "5.00", 10)

	resp := doPost(t, "/api/orders", map[string]any{
		"userId":    999999,
		"productId": productID,
		"quantity":  2,
	})
	requireStatus(t, resp, http.StatusUnprocessableEntity)
	resp.Body.Close()

	// The rejected transaction must not have decremented inventory.
	if got := productQuantity(t, productID); got != 10 {
		t.Fatalf("inventory changed on rolled back order: %d", got)
	}
}

func TestPlaceOrder_RapidOrdersGetDistinctNumbers(t *testing.T) {
	userID, productID := seedFixture(t, "burst", "1.00", 100)

	numbers := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		resp := doPost(t, "/api/orders", map[string]any{
			"userId":    userID,
			"productId": productID,
			"quantity":  1,
		})
		requireStatus(t, resp, http.StatusCreated)
		conf := decodeJSON[confirmationResponse](t, resp)
		resp.Body.Close()
		numbers[conf.OrderNumber] = struct{}{}
	}

	if len(numbers) != 5 {
		t.Fatalf("expected 5 distinct order numbers, got %d", len(numbers))
	}
}

func TestListTables_ShowsPlacedOrders(t *testing.T) {
	userID, productID := seedFixture(t, "listing", "2.50", 10)

	resp := doPost(t, "/api/orders", map[string]any{
		"userId":    userID,
		"productId": productID,
		"quantity":  1,
	})
	requireStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = doGet(t, "/api/tables/orders")
	requireStatus(t, resp, http.StatusOK)
	body := readBody(t, resp)
	resp.Body.Close()

	if !strings.Contains(body, "order_number") {
		t.Fatalf("orders listing missing order_number column: %s", body)
	}

	resp = doGet(t, fmt.Sprintf("/api/tables/%s", "no_such_table"))
	requireStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}
