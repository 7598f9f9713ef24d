package merchantservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с MerchantService
type Client struct {
	baseURL    string
	httpClient *http.Client
	fallback   BusinessProfile
	log        Logger
}

// NewClient создает новый экземпляр клиента MerchantService.
// fallback используется, когда профиль бизнеса получить не удалось.
func NewClient(baseURL string, timeout time.Duration, fallback BusinessProfile, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		fallback: fallback,
		log:      log,
	}
}

// GetService получает услугу тенанта по ID
func (c *Client) GetService(ctx context.Context, tenantID, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/tenants/%d/services/%d", c.baseURL, tenantID, serviceID)

	var service Service
	if err := c.get(ctx, url, &service, ErrServiceNotFound); err != nil {
		return nil, err
	}

	if !service.Active {
		return nil, fmt.Errorf("%w: service_id=%d", ErrServiceInactive, serviceID)
	}

	return &service, nil
}

// GetBusinessProfile получает публичные реквизиты тенанта
func (c *Client) GetBusinessProfile(ctx context.Context, tenantID int64) (*BusinessProfile, error) {
	url := fmt.Sprintf("%s/internal/tenants/%d/profile", c.baseURL, tenantID)

	var profile BusinessProfile
	if err := c.get(ctx, url, &profile, ErrInvalidResponse); err != nil {
		return nil, err
	}

	return &profile, nil
}

// GetBusinessProfileWithGracefulDegradation получает реквизиты тенанта.
// При недоступности MerchantService возвращает реквизиты из конфигурации, ошибку не возвращает.
func (c *Client) GetBusinessProfileWithGracefulDegradation(ctx context.Context, tenantID int64) *BusinessProfile {
	profile, err := c.GetBusinessProfile(ctx, tenantID)
	if err != nil {
		c.log.Error("MerchantService unavailable, using configured business profile for tenant_id=%d: %v", tenantID, err)
		fallback := c.fallback
		return &fallback
	}

	// Пустые поля дополняем значениями по умолчанию
	if profile.Name == "" {
		profile.Name = c.fallback.Name
	}
	if profile.Address == "" {
		profile.Address = c.fallback.Address
	}
	if profile.Phone == "" {
		profile.Phone = c.fallback.Phone
	}

	return profile
}

func (c *Client) get(ctx context.Context, url string, out interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
