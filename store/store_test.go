package store

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"guevara/models"
	"guevara/upstream"
)

// fakeBackend is a minimal upstream serving the resource endpoints and
// counting hits per path, so tests can observe cache behaviour.
type fakeBackend struct {
	mu        sync.Mutex
	hits      map[string]int
	orders    []models.Order
	failPaths map[string]bool

	server *httptest.Server
}

func newFakeBackend(orders []models.Order) *fakeBackend {
	b := &fakeBackend{hits: make(map[string]int), orders: orders, failPaths: make(map[string]bool)}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	return b
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.hits[r.URL.Path]++
	fail := b.failPaths[r.URL.Path]
	orders := b.orders
	b.mu.Unlock()

	if fail {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"backend exploded"}`))
		return
	}

	switch r.URL.Path {
	case "/order/all-orders":
		json.NewEncoder(w).Encode(orders)
	case "/order/status-of-each-order":
		json.NewEncoder(w).Encode([]models.StatusCount{{Status: models.StatusPending, Count: len(orders)}})
	case "/category":
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"categories": []models.Category{{ID: "c1", Name: "Skincare", ProductNum: 2}},
			},
		})
	case "/category/companies":
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []models.CategoryCompany{{CategoryName: "Skincare", Companies: []string{"Guevara"}}},
		})
	case "/product":
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"products": []models.Product{
					{ID: "p1", EnglishName: "Serum", Category: models.CategoryRef{ID: "c1"}},
					{ID: "p2", EnglishName: "Balm", Category: models.CategoryRef{ID: "c2"}},
				},
			},
		})
	default:
		// Order transitions and catalog mutations just succeed.
		w.Write([]byte(`{}`))
	}
}

func (b *fakeBackend) hitCount(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func (b *fakeBackend) failPath(path string) {
	b.mu.Lock()
	b.failPaths[path] = true
	b.mu.Unlock()
}

func (b *fakeBackend) close() { b.server.Close() }

func newTestStore(b *fakeBackend) *Store {
	return New(upstream.New(b.server.URL, time.Second), time.Minute)
}

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: "1", OrderID: "ORD-001", ShippingName: "Lina Khalil", Status: models.StatusPending},
		{ID: "2", OrderID: "ORD-002", ShippingName: "Omar Haddad", Status: models.StatusInProgress},
		{ID: "3", OrderID: "ORD-003", ShippingName: "Sara Aziz", Status: models.StatusDelivered},
		{ID: "4", OrderID: "ORD-004", ShippingName: "Nour Saleh", Status: models.StatusRejected},
		{ID: "5", OrderID: "ORD-005", ShippingName: "Hadi Nasser", Status: models.StatusCanceled},
		{ID: "6", OrderID: "ORD-006", ShippingName: "Maya Fares", Status: models.StatusDeleted},
	}
}

func TestProductCreateInvalidatesProductsAndCategories(t *testing.T) {
	backend := newFakeBackend(nil)
	defer backend.close()
	s := newTestStore(backend)
	ctx := context.Background()

	// Warm both regions.
	if _, err := s.Products(ctx, "tok", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Categories(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, backend.hitCount("/product"))
	assert.Equal(t, 1, backend.hitCount("/category"))

	// Cached reads do not touch the backend.
	if _, err := s.Products(ctx, "tok", ""); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, backend.hitCount("/product"))

	form := emptyForm(t)
	if err := s.CreateProduct(ctx, "tok", form); err != nil {
		t.Fatal(err)
	}

	// Both regions must refetch: the category product counts moved.
	if _, err := s.Products(ctx, "tok", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Categories(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 3, backend.hitCount("/product")) // list, create, list
	assert.Equal(t, 2, backend.hitCount("/category"))
}

func TestFailedMutationLeavesCacheUntouched(t *testing.T) {
	backend := newFakeBackend(nil)
	defer backend.close()
	s := newTestStore(backend)
	ctx := context.Background()

	if _, err := s.Products(ctx, "tok", ""); err != nil {
		t.Fatal(err)
	}

	backend.failPath("/product")
	if err := s.CreateProduct(ctx, "tok", emptyForm(t)); err == nil {
		t.Fatal("expected create to fail")
	}

	// The cached list is still fresh, so the failed write forces no refetch.
	products, err := s.Products(ctx, "tok", "")
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, products, 2)
}

func TestProductsCategoryFilter(t *testing.T) {
	backend := newFakeBackend(nil)
	defer backend.close()
	s := newTestStore(backend)

	products, err := s.Products(context.Background(), "tok", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("filter returned %+v", products)
	}
	// The filter shares the unfiltered fetch.
	assert.Equal(t, 1, backend.hitCount("/product"))
}

func TestActiveAndHistoryPartitionOrders(t *testing.T) {
	backend := newFakeBackend(sampleOrders())
	defer backend.close()
	s := newTestStore(backend)
	ctx := context.Background()

	active, err := s.ActiveOrders(ctx, "tok")
	if err != nil {
		t.Fatal(err)
	}
	history, _, err := s.HistoryOrders(ctx, "tok", "", 0)
	if err != nil {
		t.Fatal(err)
	}

	// Dashboard-active keeps Canceled and Deleted visible; history is the
	// closed set.
	assert.ElementsMatch(t, []string{"1", "2", "5", "6"}, ids(active))
	assert.ElementsMatch(t, []string{"3", "4", "6"}, ids(history))

	// The history predicate itself partitions the collection: every order is
	// history or active, never both.
	for _, order := range sampleOrders() {
		inHistory := order.Status.IsHistory()
		inActive := !order.Status.IsHistory()
		if inHistory == inActive {
			t.Fatalf("order %s is not cleanly partitioned", order.ID)
		}
	}
}

func TestHistorySearchIsCaseInsensitive(t *testing.T) {
	backend := newFakeBackend(sampleOrders())
	defer backend.close()
	s := newTestStore(backend)

	byName, _, err := s.HistoryOrders(context.Background(), "tok", "sara", 0)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []string{"3"}, ids(byName))

	byOrderID, _, err := s.HistoryOrders(context.Background(), "tok", "ord-004", 0)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []string{"4"}, ids(byOrderID))
}

func TestHistoryLimitSlices(t *testing.T) {
	backend := newFakeBackend(sampleOrders())
	defer backend.close()
	s := newTestStore(backend)

	orders, pagination, err := s.HistoryOrders(context.Background(), "tok", "", 2)
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, orders, 2)
	assert.Equal(t, 3, pagination.TotalItems)
}

func TestOrderTransitionInvalidatesStatusSummary(t *testing.T) {
	backend := newFakeBackend(sampleOrders())
	defer backend.close()
	s := newTestStore(backend)
	ctx := context.Background()

	if _, err := s.StatusSummary(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Orders(ctx, "tok"); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkDelivered(ctx, "tok", "2"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.StatusSummary(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Orders(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 2, backend.hitCount("/order/status-of-each-order"))
	assert.Equal(t, 2, backend.hitCount("/order/all-orders"))
	assert.Equal(t, 1, backend.hitCount("/order/confirm-order"))
}

func TestStaleOrdersSurviveFailedRefetch(t *testing.T) {
	backend := newFakeBackend(sampleOrders())
	defer backend.close()
	s := New(upstream.New(backend.server.URL, time.Second), 10*time.Millisecond)
	ctx := context.Background()

	if _, err := s.ActiveOrders(ctx, "tok"); err != nil {
		t.Fatal(err)
	}

	backend.failPath("/order/all-orders")
	time.Sleep(20 * time.Millisecond)

	// The derived views still carry the stale list, with the error alongside
	// so callers can decide whether to fall back.
	active, err := s.ActiveOrders(ctx, "tok")
	if err == nil {
		t.Fatal("expected refetch error")
	}
	assert.ElementsMatch(t, []string{"1", "2", "5", "6"}, ids(active))

	history, _, err := s.HistoryOrders(ctx, "tok", "", 0)
	if err == nil {
		t.Fatal("expected refetch error")
	}
	assert.ElementsMatch(t, []string{"3", "4", "6"}, ids(history))
}

func ids(orders []models.Order) []string {
	out := make([]string, 0, len(orders))
	for _, order := range orders {
		out = append(out, order.ID)
	}
	return out
}

// emptyForm builds a parsed multipart form with one throwaway field, the
// shape fiber hands to a handler.
func emptyForm(t *testing.T) *multipart.Form {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("productEnglishName", "Serum"); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	return form
}
