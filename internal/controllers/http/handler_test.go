package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/mocks"
	"storefront/internal/services"
)

func newTestRouter(t *testing.T, setupMocks func(*mocks.MockCatalogClient, *mocks.MockOrderRepository, *mocks.MockAuthClient)) (*gin.Engine, *cart.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := new(mocks.MockCatalogClient)
	repo := new(mocks.MockOrderRepository)
	authClient := new(mocks.MockAuthClient)
	publisher := new(mocks.MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	if setupMocks != nil {
		setupMocks(catalog, repo, authClient)
	}

	engine := cart.New(nil, nil)
	orders := services.NewOrderService(repo, publisher, nil)
	auth := services.NewAuthService(authClient, nil)

	r := gin.New()
	NewHandler(engine, orders, auth, catalog, nil).RegisterRoutes(r)
	return r, engine
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CartFlow(t *testing.T) {
	discount := int64(80)
	r, _ := newTestRouter(t, func(catalog *mocks.MockCatalogClient, _ *mocks.MockOrderRepository, _ *mocks.MockAuthClient) {
		catalog.On("GetProduct", mock.Anything, uint64(1)).Return(&domain.Product{
			ID: 1, Name: "Discounted", Price: 100, DiscountPrice: &discount,
		}, nil)
	})

	w := doJSON(r, http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: 1, Quantity: 2})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp CartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(160), resp.Total)
	assert.Equal(t, int64(2), resp.Count)

	q := int64(0)
	w = doJSON(r, http.MethodPatch, "/cart/items/1", UpdateCartItemRequest{Quantity: &q})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.Count)
}

func TestHandler_UpdateUnknownProduct(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	q := int64(3)
	w := doJSON(r, http.MethodPatch, "/cart/items/42", UpdateCartItemRequest{Quantity: &q})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_StatusUpdateConflict(t *testing.T) {
	r, _ := newTestRouter(t, func(_ *mocks.MockCatalogClient, repo *mocks.MockOrderRepository, _ *mocks.MockAuthClient) {
		repo.On("FindByID", mock.Anything, "order-1").Return(&domain.Order{
			ID:     "order-1",
			Status: domain.StatusPicked,
			StatusUpdates: []domain.StatusUpdate{
				{Status: domain.StatusPicked},
			},
		}, nil)
	})

	w := doJSON(r, http.MethodPost, "/orders/order-1/status", StatusUpdateRequest{Status: domain.StatusPending})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_Tracking(t *testing.T) {
	r, _ := newTestRouter(t, func(_ *mocks.MockCatalogClient, repo *mocks.MockOrderRepository, _ *mocks.MockAuthClient) {
		repo.On("FindByID", mock.Anything, "order-1").Return(&domain.Order{
			ID:     "order-1",
			Status: domain.StatusCancelled,
			StatusUpdates: []domain.StatusUpdate{
				{Status: domain.StatusPending},
				{Status: domain.StatusCancelled},
			},
		}, nil)
	})

	w := doJSON(r, http.MethodGet, "/orders/order-1/tracking", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp TrackingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusCancelled, resp.Status)
	assert.Equal(t, "Cancelled", resp.Label)
	assert.Nil(t, resp.Progress, "cancelled orders report no progress")
	assert.Len(t, resp.StatusUpdates, 2)
}

func TestHandler_LoginErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		loginErr     error
		expectedCode int
	}{
		{name: "rejected credentials", loginErr: domain.ErrInvalidCredentials, expectedCode: http.StatusUnauthorized},
		{name: "backend down", loginErr: assert.AnError, expectedCode: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, func(_ *mocks.MockCatalogClient, _ *mocks.MockOrderRepository, authClient *mocks.MockAuthClient) {
				authClient.On("Login", mock.Anything, "buyer@example.com", "secret").Return(nil, tt.loginErr)
			})

			w := doJSON(r, http.MethodPost, "/auth/login", LoginRequest{Email: "buyer@example.com", Password: "secret"})
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestHandler_CheckoutClearsCart(t *testing.T) {
	r, engine := newTestRouter(t, func(catalog *mocks.MockCatalogClient, repo *mocks.MockOrderRepository, _ *mocks.MockAuthClient) {
		catalog.On("GetProduct", mock.Anything, uint64(1)).Return(&domain.Product{ID: 1, Name: "Widget", Price: 100}, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	})

	w := doJSON(r, http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: 1, Quantity: 2})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/checkout", CheckoutRequest{
		UserID:          "user-1",
		DeliveryAddress: "12 Main St",
		PaymentMethod:   domain.PaymentCOD,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, engine.Items(), "a successful checkout empties the cart")

	// Checking out the now-empty cart is a client error.
	w = doJSON(r, http.MethodPost, "/checkout", CheckoutRequest{
		UserID:          "user-1",
		DeliveryAddress: "12 Main St",
		PaymentMethod:   domain.PaymentCOD,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
