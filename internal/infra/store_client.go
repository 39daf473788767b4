package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/domain"
)

// StoreClient talks to the storefront REST backend: cart, catalog and
// auth. Every method maps transport or 5xx failures to plain errors the
// callers wrap into RemoteSyncError; only Login carries a distinguished
// rejection (ErrInvalidCredentials) so the UI can word the failure right.
type StoreClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewStoreClient(baseURL string, timeout time.Duration) *StoreClient {
	return &StoreClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// remoteCartItem is the backend's wire shape: the product document is
// embedded under productId.
type remoteCartItem struct {
	ProductID remoteProduct `json:"productId"`
	Quantity  int64         `json:"quantity"`
}

type remoteProduct struct {
	ID            uint64 `json:"_id,string"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	DiscountPrice *int64 `json:"discountPrice,omitempty"`
	Stock         int64  `json:"stock"`
}

func (p remoteProduct) toDomain() domain.Product {
	return domain.Product{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Stock:         p.Stock,
	}
}

func (c *StoreClient) FetchCart(ctx context.Context) ([]domain.CartItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cart", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cart fetch returned status %d", resp.StatusCode)
	}

	var body struct {
		Items      []remoteCartItem `json:"items"`
		TotalPrice int64            `json:"totalPrice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(body.Items))
	for _, it := range body.Items {
		items = append(items, domain.CartItem{
			Product:  it.ProductID.toDomain(),
			Quantity: it.Quantity,
		})
	}
	return items, nil
}

func (c *StoreClient) AddItem(ctx context.Context, productID uint64, quantity int64) (int64, error) {
	return c.putQuantity(ctx, http.MethodPost, c.baseURL+"/cart/item", productID, quantity)
}

func (c *StoreClient) UpdateItem(ctx context.Context, productID uint64, quantity int64) (int64, error) {
	url := fmt.Sprintf("%s/cart/item/%d", c.baseURL, productID)
	return c.putQuantity(ctx, http.MethodPatch, url, productID, quantity)
}

func (c *StoreClient) putQuantity(ctx context.Context, method, url string, productID uint64, quantity int64) (int64, error) {
	payload, err := json.Marshal(map[string]any{
		"productId": productID,
		"quantity":  quantity,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("cart item %s returned status %d", method, resp.StatusCode)
	}

	var item remoteCartItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return 0, err
	}
	return item.Quantity, nil
}

func (c *StoreClient) RemoveItem(ctx context.Context, productID uint64) error {
	url := fmt.Sprintf("%s/cart/item/%d", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 404 counts as success: the line is gone either way.
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	}
	return fmt.Errorf("cart item delete returned status %d", resp.StatusCode)
}

func (c *StoreClient) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product fetch returned status %d", resp.StatusCode)
	}

	var p remoteProduct
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	prod := p.toDomain()
	return &prod, nil
}

func (c *StoreClient) Login(ctx context.Context, email, password string) (*domain.User, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login returned status %d", resp.StatusCode)
	}

	var body struct {
		User domain.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &body.User, nil
}
