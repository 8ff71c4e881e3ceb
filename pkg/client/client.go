package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Marcelo-Rosas/container-storage/pkg/models"
)

// Client is a typed HTTP client for the container storage API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ListParams struct {
	Page      int
	PageSize  int
	Search    string
	Status    string
	ClientID  string
	Sort      string
	Direction string
}

func (p ListParams) values() url.Values {
	values := url.Values{}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(p.PageSize))
	}
	setIfPresent(values, "search", p.Search)
	setIfPresent(values, "status", p.Status)
	setIfPresent(values, "client_id", p.ClientID)
	setIfPresent(values, "sort", p.Sort)
	setIfPresent(values, "direction", p.Direction)
	return values
}

func setIfPresent(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}

type ContainerPage struct {
	Data      []models.ContainerOverview `json:"data"`
	Total     int64                      `json:"total"`
	Page      int                        `json:"page"`
	PageSize  int                        `json:"page_size"`
	PageCount int                        `json:"page_count"`
	PageInfo  string                     `json:"page_info"`
}

type ClientInput struct {
	Name      string  `json:"name"`
	TradeName *string `json:"trade_name,omitempty"`
	TaxID     string  `json:"tax_id"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
}

type ContainerInput struct {
	ClientID          string       `json:"client_id,omitempty"`
	NewClient         *ClientInput `json:"new_client,omitempty"`
	ContainerNumber   string       `json:"container_number"`
	ContainerTypeCode string       `json:"container_type_code"`
	Status            string       `json:"status,omitempty"`
	StartDate         string       `json:"start_date"`
	EndDate           *string      `json:"end_date,omitempty"`
	InternalCode      *string      `json:"internal_code,omitempty"`
	BLNumber          *string      `json:"bl_number,omitempty"`
	YardLocation      *string      `json:"yard_location,omitempty"`
	Volume            *float64     `json:"volume,omitempty"`
	BaseCost          *float64     `json:"base_cost,omitempty"`
	MeasurementDay    *int         `json:"measurement_day,omitempty"`
	Notes             *string      `json:"notes,omitempty"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Identity  struct {
		SessionID string `json:"session_id"`
		UserID    string `json:"user_id"`
		Email     string `json:"email"`
		Role      string `json:"role"`
		ClientID  string `json:"client_id,omitempty"`
	} `json:"identity"`
}

// SignIn stores the returned token for the following calls.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/sign-in", nil, body, &session); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = session.Token
	c.mu.Unlock()

	return &session, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/sign-out", nil, nil, nil); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	return nil
}

func (c *Client) ListContainers(ctx context.Context, params ListParams) (*ContainerPage, error) {
	var page ContainerPage
	if err := c.do(ctx, http.MethodGet, "/containers", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetContainer(ctx context.Context, id string) (*models.ContainerDetail, error) {
	var detail models.ContainerDetail
	if err := c.do(ctx, http.MethodGet, "/containers/"+url.PathEscape(id), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) CreateContainer(ctx context.Context, input ContainerInput) (*models.Container, error) {
	var container models.Container
	if err := c.do(ctx, http.MethodPost, "/containers", nil, input, &container); err != nil {
		return nil, err
	}
	return &container, nil
}

func (c *Client) CreateClient(ctx context.Context, input ClientInput) (*models.Client, error) {
	var created models.Client
	if err := c.do(ctx, http.MethodPost, "/clients", nil, input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
