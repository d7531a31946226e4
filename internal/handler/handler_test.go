package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/warung_api/internal/middleware"
	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/service"
	"github.com/GTDGit/warung_api/internal/utils"
)

const (
	storeID     = "6f1c2a4e-9b7d-4c1e-8a2f-3d5e6f7a8b9c"
	testOrderID = "0b8e4c2d-1a3f-4e5d-9c7b-2a1f0e9d8c7b"
)

var owner = models.Session{UserID: "u-1", StoreID: storeID, Email: "owner@example.com", TokenID: "jti-1"}

func init() {
	gin.SetMode(gin.TestMode)
	if err := utils.RegisterValidators(); err != nil {
		panic(err)
	}
}

// withSession stands in for the session middleware.
func withSession(c *gin.Context) {
	middleware.SetSession(c, owner)
	c.Next()
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type stubAuthService struct {
	loginErr  error
	loggedOut []string
}

func (s *stubAuthService) Register(_ context.Context, req service.RegisterRequest) (*service.RegisterResult, error) {
	return &service.RegisterResult{User: &models.User{Email: req.Email}}, nil
}

func (s *stubAuthService) Login(_ context.Context, email, _ string) (*service.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &service.LoginResult{
		Token:     "signed.jwt.token",
		ExpiresAt: time.Now().Add(24 * time.Hour),
		User:      &models.User{ID: "u-1", StoreID: storeID, Email: email},
	}, nil
}

func (s *stubAuthService) Logout(_ context.Context, sess models.Session) error {
	s.loggedOut = append(s.loggedOut, sess.TokenID)
	return nil
}

func (s *stubAuthService) Me(_ context.Context, sess models.Session) (*service.Profile, error) {
	return &service.Profile{User: &models.User{ID: sess.UserID}}, nil
}

func TestLoginSetsCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)
	r := gin.New()
	r.POST("/api/auth/login", h.Login)

	w := do(r, http.MethodPost, "/api/auth/login", gin.H{"email": "owner@example.com", "password": "Secret#123"})
	require.Equal(t, http.StatusOK, w.Code)

	var cookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.CookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, "signed.jwt.token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.InDelta(t, (24 * time.Hour).Seconds(), float64(cookie.MaxAge), 5)
}

func TestLoginFailureIsUniform(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: utils.ErrInvalidCredentials}, false)
	r := gin.New()
	r.POST("/api/auth/login", h.Login)

	w := do(r, http.MethodPost, "/api/auth/login", gin.H{"email": "nobody@example.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Invalid email or password", resp.Error.Message)
	assert.Empty(t, w.Result().Cookies())
}

func TestRegisterValidation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)
	r := gin.New()
	r.POST("/api/auth/register", h.Register)

	base := func() gin.H {
		return gin.H{"email": "owner@example.com", "password": "Secret#123", "shopName": "Warung", "phone": "9876543210"}
	}

	w := do(r, http.MethodPost, "/api/auth/register", base())
	assert.Equal(t, http.StatusCreated, w.Code)

	weak := base()
	weak["password"] = "password"
	w = do(r, http.MethodPost, "/api/auth/register", weak)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "WEAK_PASSWORD", decode(t, w).Error.Code)

	badPhone := base()
	badPhone["phone"] = "12345"
	w = do(r, http.MethodPost, "/api/auth/register", badPhone)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PHONE", decode(t, w).Error.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	auth := &stubAuthService{}
	h := NewAuthHandler(auth, false)
	r := gin.New()
	r.POST("/api/auth/logout", withSession, h.Logout)

	w := do(r, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"jti-1"}, auth.loggedOut)
	require.Len(t, w.Result().Cookies(), 1)
	assert.Less(t, w.Result().Cookies()[0].MaxAge, 0)
}

type stubOrderService struct {
	statusErr error
	gotStatus string
	gotID     string
	placed    int
	listed    service.ListOrdersParams
}

func (s *stubOrderService) List(_ context.Context, _ models.Session, _ string, p service.ListOrdersParams) (*service.OrderList, error) {
	s.listed = p
	return &service.OrderList{
		Orders:     []models.Order{},
		Counts:     map[models.OrderStatus]int{models.OrderStatusPending: 3},
		Pagination: utils.NewPagination(p.Page, 50, 3),
	}, nil
}

func (s *stubOrderService) Get(_ context.Context, _ models.Session, storeID, id string) (*service.OrderDetail, error) {
	s.gotID = id
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &service.OrderDetail{
		Order:        models.Order{ID: id, StoreID: storeID, Status: models.OrderStatusPending},
		Items:        []models.OrderItem{{OrderID: id, ProductName: "Rice", Quantity: 2}},
		NextStatuses: []models.OrderStatus{models.OrderStatusConfirmed, models.OrderStatusCancelled},
	}, nil
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _ models.Session, id, status string) (*models.Order, error) {
	s.gotStatus = status
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &models.Order{ID: id, Status: models.OrderStatus(status)}, nil
}

func (s *stubOrderService) UpdatePayment(_ context.Context, _ models.Session, id, payment string) (*models.Order, error) {
	return &models.Order{ID: id, PaymentStatus: models.PaymentStatus(payment)}, nil
}

func (s *stubOrderService) PlaceOrder(_ context.Context, storeID string, _ service.PlaceOrderRequest) (*service.PlacedOrder, error) {
	s.placed++
	return &service.PlacedOrder{Order: models.Order{StoreID: storeID}}, nil
}

func orderRouter(orders OrderService) *gin.Engine {
	h := NewOrderHandler(orders)
	r := gin.New()
	api := r.Group("/api/owner", withSession)
	api.GET("/orders/:store_id", h.List)
	api.GET("/orders/:store_id/:id", h.Get)
	api.PUT("/orders/:id/status", h.UpdateStatus)
	api.PUT("/orders/:id/payment", h.UpdatePayment)
	r.POST("/api/customer/order/:store_id", h.PlaceOrder)
	return r
}

func TestOrderListPagination(t *testing.T) {
	orders := &stubOrderService{}
	r := orderRouter(orders)

	w := do(r, http.MethodGet, "/api/owner/orders/"+storeID+"?status=pending&page=1&limit=20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ListOrdersParams{Status: "pending", Page: 1, Limit: 20}, orders.listed)

	resp := decode(t, w)
	require.NotNil(t, resp.Meta.Pagination)
	assert.Equal(t, 3, resp.Meta.Pagination.TotalItems)
}

func TestOrderStatusErrors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		err    error
		status int
		code   string
	}{
		{"malformed id", "/api/owner/orders/not-a-uuid/status", nil, http.StatusNotFound, "NOT_FOUND"},
		{"unknown order", "/api/owner/orders/" + testOrderID + "/status", utils.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"bad status", "/api/owner/orders/" + testOrderID + "/status", utils.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
		{"terminal order", "/api/owner/orders/" + testOrderID + "/status", utils.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{"other store", "/api/owner/orders/" + testOrderID + "/status", utils.ErrForbiddenStore, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := orderRouter(&stubOrderService{statusErr: tc.err})
			w := do(r, http.MethodPut, tc.path, gin.H{"status": "shipped"})
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decode(t, w).Error.Code)
		})
	}
}

func TestOrderStatusUpdated(t *testing.T) {
	orders := &stubOrderService{}
	r := orderRouter(orders)

	w := do(r, http.MethodPut, "/api/owner/orders/"+testOrderID+"/status", gin.H{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", orders.gotStatus)

	w = do(r, http.MethodPut, "/api/owner/orders/"+testOrderID+"/status", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderDetail(t *testing.T) {
	orders := &stubOrderService{}
	r := orderRouter(orders)

	w := do(r, http.MethodGet, "/api/owner/orders/"+storeID+"/"+testOrderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testOrderID, orders.gotID)

	var body struct {
		Data service.OrderDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, storeID, body.Data.Order.StoreID)
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "Rice", body.Data.Items[0].ProductName)
	assert.Len(t, body.Data.NextStatuses, 2)

	w = do(r, http.MethodGet, "/api/owner/orders/"+storeID+"/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	r = orderRouter(&stubOrderService{statusErr: utils.ErrForbiddenStore})
	w = do(r, http.MethodGet, "/api/owner/orders/"+storeID+"/"+testOrderID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPlaceOrderRequiresItems(t *testing.T) {
	orders := &stubOrderService{}
	r := orderRouter(orders)

	w := do(r, http.MethodPost, "/api/customer/order/"+storeID, gin.H{
		"customerName": "Asha", "customerPhone": "9876543210", "items": []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/customer/order/"+storeID, gin.H{
		"customerName": "Asha", "customerPhone": "9876543210",
		"items": []gin.H{{"productId": testOrderID, "quantity": 2}},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, orders.placed)
}

func TestPlaceOrderRejectsMalformedProductID(t *testing.T) {
	orders := &stubOrderService{}
	r := orderRouter(orders)

	for _, id := range []string{"p-1", "", "1234"} {
		w := do(r, http.MethodPost, "/api/customer/order/"+storeID, gin.H{
			"customerName": "Asha", "customerPhone": "9876543210",
			"items": []gin.H{{"productId": id, "quantity": 1}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, "INVALID_REQUEST", decode(t, w).Error.Code)
	}
	assert.Zero(t, orders.placed)
}

type stubCustomerService struct {
	chats map[string]string
}

func (s stubCustomerService) List(context.Context, models.Session, string) ([]models.Customer, error) {
	return []models.Customer{}, nil
}

func (s stubCustomerService) TelegramChatID(_ context.Context, _ models.Session, phone string) (*string, error) {
	if id, ok := s.chats[phone]; ok {
		return &id, nil
	}
	return nil, nil
}

func TestCustomerTelegramNullWhenUnknown(t *testing.T) {
	h := NewCustomerHandler(stubCustomerService{chats: map[string]string{"+919876543210": "555"}}, nil)
	r := gin.New()
	r.GET("/api/owner/customer-telegram/:phone", withSession, h.TelegramChatID)

	w := do(r, http.MethodGet, "/api/owner/customer-telegram/+919876543210", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"telegram_chat_id":"555"}`, string(mustData(t, w)))

	w = do(r, http.MethodGet, "/api/owner/customer-telegram/+910000000000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"telegram_chat_id":null}`, string(mustData(t, w)))
}

func mustData(t *testing.T, w *httptest.ResponseRecorder) json.RawMessage {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

type stubInventoryService struct {
	quantity float64
	calls    int
}

func (s *stubInventoryService) List(context.Context, models.Session, string) (*service.InventoryList, error) {
	return &service.InventoryList{Items: []service.InventoryRow{}}, nil
}

func (s *stubInventoryService) ListCategories(context.Context, models.Session, string) ([]models.Category, error) {
	return []models.Category{}, nil
}

func (s *stubInventoryService) CreateCategory(_ context.Context, _ models.Session, storeID, name string) (*models.Category, error) {
	if name == "Grains" {
		return nil, utils.ErrDuplicate
	}
	return &models.Category{StoreID: storeID, Name: name}, nil
}

func (s *stubInventoryService) CreateProduct(context.Context, models.Session, string, service.CreateProductRequest) (*service.InventoryRow, error) {
	return &service.InventoryRow{}, nil
}

func (s *stubInventoryService) UpdateQuantity(_ context.Context, _ models.Session, _, _ string, quantity float64) (*service.InventoryRow, error) {
	s.calls++
	if quantity < 0 {
		return nil, utils.ErrInvalidQuantity
	}
	s.quantity = quantity
	return &service.InventoryRow{}, nil
}

func TestUpdateQuantityAcceptsStrings(t *testing.T) {
	inv := &stubInventoryService{}
	h := NewInventoryHandler(inv)
	r := gin.New()
	r.PUT("/api/owner/inventory/:store_id/items/:id/quantity", withSession, h.UpdateQuantity)
	path := fmt.Sprintf("/api/owner/inventory/%s/items/%s/quantity", storeID, testOrderID)

	w := do(r, http.MethodPut, path, gin.H{"quantity": "12.5"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12.5, inv.quantity)

	w = do(r, http.MethodPut, path, gin.H{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_QUANTITY", decode(t, w).Error.Code)

	w = do(r, http.MethodPut, path, gin.H{"quantity": 0})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, inv.quantity)
}

func TestUpdateQuantityRejectsUnparseable(t *testing.T) {
	inv := &stubInventoryService{quantity: 42}
	h := NewInventoryHandler(inv)
	r := gin.New()
	r.PUT("/api/owner/inventory/:store_id/items/:id/quantity", withSession, h.UpdateQuantity)
	path := fmt.Sprintf("/api/owner/inventory/%s/items/%s/quantity", storeID, testOrderID)

	for _, body := range []gin.H{{"quantity": "abc"}, {"quantity": true}, {"quantity": "12kg"}, {"quantity": ""}, {}} {
		w := do(r, http.MethodPut, path, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
		assert.Equal(t, "INVALID_QUANTITY", decode(t, w).Error.Code)
	}
	assert.Equal(t, 42.0, inv.quantity)
	assert.Zero(t, inv.calls)
}

func TestCreateCategoryDuplicate(t *testing.T) {
	h := NewInventoryHandler(&stubInventoryService{})
	r := gin.New()
	r.POST("/api/owner/categories/:store_id", withSession, h.CreateCategory)

	w := do(r, http.MethodPost, "/api/owner/categories/"+storeID, gin.H{"name": "Pulses"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/api/owner/categories/"+storeID, gin.H{"name": "Grains"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUnknownErrorIsGeneric(t *testing.T) {
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		respondError(c, errors.New("pq: connection refused"))
	})

	w := do(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("down") }

	r := gin.New()
	r.GET("/healthy", NewHealthHandler(ok, ok, nil).GetHealth)
	r.GET("/degraded", NewHealthHandler(ok, down, nil).GetHealth)
	r.GET("/unhealthy", NewHealthHandler(down, ok, nil).GetHealth)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthy", nil).Code)

	w := do(r, http.MethodGet, "/degraded", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disconnected"`)

	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/unhealthy", nil).Code)
}
