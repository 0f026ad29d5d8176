package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/watchstore/internal/client/client"
	"github.com/dmitrijs2005/watchstore/internal/client/models"
	"github.com/dmitrijs2005/watchstore/internal/common"
)

type tokens struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func (t *tokens) AccessToken(context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.access, nil
}
func (t *tokens) SetAccessToken(_ context.Context, v string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.access = v
	return nil
}
func (t *tokens) RefreshToken(context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refresh, nil
}
func (t *tokens) SetRefreshToken(_ context.Context, v string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refresh = v
	return nil
}

func serve(t *testing.T, r chi.Router) client.Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return client.New(srv.URL, &tokens{access: "A1"}, nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

/*************
 * auth
 *************/

func TestAuth_LoginTakesRefreshFromCookie(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: common.RefreshCookieName, Value: "R1", HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken": "A9",
			"user":        map[string]string{"id": "u1", "email": req.Email},
		})
	})
	a := NewAuthAPI(serve(t, r))

	resp, err := a.Login(context.Background(), models.LoginRequest{Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "A9", resp.AccessToken)
	assert.Equal(t, "R1", resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "ann@example.com", resp.User.Email)

	_, err = a.Login(context.Background(), models.LoginRequest{Email: "ann@example.com", Password: "nope"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad credentials", apiErr.Message)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestAuth_LogoutSendsCookie(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(common.RefreshCookieName); err == nil {
			got = c.Value
		}
		w.WriteHeader(http.StatusNoContent)
	})
	a := NewAuthAPI(serve(t, r))

	require.NoError(t, a.Logout(context.Background(), "R1"))
	assert.Equal(t, "R1", got)
}

func TestAuth_MeAndRegister(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer A1", r.Header.Get(common.AuthorizationHeaderName))
		writeJSON(w, http.StatusOK, models.User{ID: "u1", Email: "ann@example.com"})
	})
	r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email taken"})
	})
	a := NewAuthAPI(serve(t, r))

	u, err := a.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = a.Register(context.Background(), models.RegisterRequest{Email: "ann@example.com"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "email taken", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "409 Conflict: email taken")
}

/*************
 * cart
 *************/

func TestCart_Endpoints(t *testing.T) {
	var calls []string
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, r.Method+" "+r.URL.Path)
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{{"productId": "p1", "quantity": 2}}})
	})
	r.Post("/cart/items", func(w http.ResponseWriter, r *http.Request) {
		var req models.AddCartItemRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, []models.CartItem{{ProductID: req.ProductID, Quantity: req.Quantity}})
	})
	r.Put("/cart/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateCartItemRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, models.Cart{Items: []models.CartItem{{ProductID: chi.URLParam(r, "id"), Quantity: req.Quantity}}})
	})
	r.Delete("/cart/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Cart{})
	})
	r.Delete("/cart", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	a := NewCartAPI(serve(t, r))
	ctx := context.Background()

	items, err := a.Get(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	items, err = a.AddItem(ctx, "p9", 3)
	require.NoError(t, err)
	assert.Equal(t, "p9", items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)

	items, err = a.UpdateItem(ctx, "p9", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, items[0].Quantity)

	items, err = a.RemoveItem(ctx, "p9")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	require.NoError(t, a.Clear(ctx))

	assert.Equal(t, []string{
		"GET /cart",
		"POST /cart/items",
		"PUT /cart/items/p9",
		"DELETE /cart/items/p9",
		"DELETE /cart",
	}, calls)
}

func TestCart_MutationErrorIsReturned(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/cart/items", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no such product"})
	})
	_, err := NewCartAPI(serve(t, r)).AddItem(context.Background(), "p404", 1)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCart_Merge(t *testing.T) {
	var body []byte
	status := http.StatusOK
	r := chi.NewRouter()
	r.Post("/cart/merge", func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		if status != http.StatusOK {
			writeJSON(w, status, map[string]string{"message": "p2 out of stock"})
			return
		}
		writeJSON(w, status, models.Cart{Items: []models.CartItem{{ProductID: "p1", Quantity: 5}}})
	})
	a := NewCartAPI(serve(t, r))

	res, err := a.Merge(context.Background(), []models.MergeItem{{ProductID: "p1", Quantity: 2}})
	require.NoError(t, err)
	assert.False(t, res.Failed)
	assert.Equal(t, 5, res.Items[0].Quantity)
	assert.JSONEq(t, `{"items":[{"productId":"p1","quantity":2}]}`, string(body))

	status = http.StatusUnprocessableEntity
	res, err = a.Merge(context.Background(), []models.MergeItem{{ProductID: "p2", Quantity: 1}})
	require.NoError(t, err)
	assert.True(t, res.Failed)
	assert.Equal(t, "p2 out of stock", res.Message)
}

/*************
 * catalog, orders, inventory, reviews
 *************/

func TestCatalog_ListProductsQuery(t *testing.T) {
	var query map[string]string
	r := chi.NewRouter()
	r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		writeJSON(w, http.StatusOK, models.Page[models.Product]{
			Content:    []models.Product{{ID: "p1", Name: "Oris Aquis", Price: decimal.NewFromInt(2100)}},
			TotalPages: 1,
		})
	})
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "product not found"})
	})
	r.Get("/brands", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Brand{{ID: "b1", Name: "Oris"}})
	})
	a := NewCatalogAPI(serve(t, r))
	ctx := context.Background()

	page, err := a.ListProducts(ctx, models.ProductFilter{
		Page:     2,
		Size:     10,
		Brand:    "Oris",
		Query:    "diver",
		MinPrice: decimal.NewNullDecimal(decimal.NewFromInt(1000)),
		Sort:     "price,asc",
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, map[string]string{
		"page": "2", "size": "10", "brand": "Oris", "q": "diver", "minPrice": "1000", "sort": "price,asc",
	}, query)

	_, err = a.GetProduct(ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)

	brands, err := a.ListBrands(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Oris", brands[0].Name)
}

func TestOrders_CreateSendsIdempotencyKey(t *testing.T) {
	var key string
	r := chi.NewRouter()
	r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get(common.IdempotencyKeyHeader)
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": "o1", "status": "PENDING", "totalAmount": 99.5, "createdAt": []int{2024, 3, 15, 9, 30},
		})
	})
	r.Get("/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, models.Page[models.Order]{Content: []models.Order{{ID: "o1"}}, Page: 1, TotalPages: 2})
	})
	r.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Order{ID: chi.URLParam(r, "id")})
	})
	a := NewOrderAPI(serve(t, r))
	ctx := context.Background()

	o, err := a.Create(ctx, models.CheckoutRequest{PaymentMethod: "COD"}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "key-1", key)
	assert.Equal(t, "o1", o.ID)
	_, ok := o.CreatedAt.Time()
	assert.True(t, ok)

	page, err := a.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.True(t, page.Last())

	got, err := a.Get(ctx, "o7")
	require.NoError(t, err)
	assert.Equal(t, "o7", got.ID)
}

func TestInventoryAndReviews(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/inventory/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"quantity": 4, "reserved": 1})
	})
	r.Get("/reviews/product/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Page[models.Review]{Content: []models.Review{{ID: "r1", Rating: 5}}})
	})
	r.Post("/reviews", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateReviewRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusCreated, models.Review{ID: "r2", ProductID: req.ProductID, Rating: req.Rating})
	})
	c := serve(t, r)
	ctx := context.Background()

	inv, err := NewInventoryAPI(c).Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", inv.ProductID)
	assert.Equal(t, 3, inv.Available())

	reviews := NewReviewAPI(c)
	page, err := reviews.ListByProduct(ctx, "p1", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Content[0].Rating)

	rv, err := reviews.Create(ctx, models.CreateReviewRequest{ProductID: "p1", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, "r2", rv.ID)
	assert.Equal(t, 4, rv.Rating)
}
