package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"PassVault/internal/cli/model"
)

// ErrNoToken возвращается, если сервер не прислал токен после входа.
var ErrNoToken = errors.New("no auth token in response")

// APIError - ответ сервера с неуспешным статусом.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server status %d", e.Status)
	}
	return fmt.Sprintf("server status %d: %s", e.Status, e.Message)
}

// IsStatus проверяет, что err - APIError с указанным статусом.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

// Client - HTTP-клиент API PassVault. Токен передаётся в заголовке Authorization.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Register(ctx context.Context, in model.RegisterInput) (*model.AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/register", in)
}

func (c *Client) Login(ctx context.Context, in model.LoginInput) (*model.AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", in)
}

// Status возвращает строку статуса сессии: "anonymous" или идентификатор пользователя.
func (c *Client) Status(ctx context.Context) (string, error) {
	var res struct {
		Result string `json:"result"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/auth/status", nil, nil, &res); err != nil {
		return "", err
	}
	return res.Result, nil
}

func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var u model.User
	if _, err := c.do(ctx, http.MethodGet, "/api/user", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateRecord создаёт запись и возвращает её id.
func (c *Client) CreateRecord(ctx context.Context, in model.RecordInput) (string, error) {
	var res struct {
		ID string `json:"id"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/records", nil, in, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

func (c *Client) ListRecords(ctx context.Context) ([]model.Record, error) {
	var recs []model.Record
	if _, err := c.do(ctx, http.MethodGet, "/api/records", nil, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *Client) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	var rec model.Record
	if _, err := c.do(ctx, http.MethodGet, "/api/records/"+url.PathEscape(id), nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) UpdateRecord(ctx context.Context, id string, in model.RecordInput) error {
	_, err := c.do(ctx, http.MethodPatch, "/api/records/"+url.PathEscape(id), nil, in, nil)
	return err
}

func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/records/"+url.PathEscape(id), nil, nil, nil)
	return err
}

func (c *Client) Search(ctx context.Context, p model.SearchParams) ([]model.Record, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("q", p.Query)
	set("service", p.Service)
	set("key", p.Key)
	set("type", p.Type)
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	var recs []model.Record
	if _, err := c.do(ctx, http.MethodGet, "/api/search", q, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (*model.AuthResult, error) {
	var res model.AuthResult
	resp, err := c.do(ctx, http.MethodPost, path, nil, payload, &res)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		// токен мог прийти только в заголовке Authorization
		res.Token = bearerToken(resp.Header.Get("Authorization"))
	}
	if res.Token == "" {
		return nil, ErrNoToken
	}
	return &res, nil
}

// do выполняет запрос. payload кодируется в JSON, ответ 2xx декодируется в out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	}
	return resp, nil
}

func bearerToken(h string) string {
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
