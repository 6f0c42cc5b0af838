package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"geofencing-app/geofencing-service/internal/models"
)

// positionCacheTTL keeps the monitor from hammering the NEF when several
// subscriptions watch the same device. Short enough that a 3 s monitor pass
// still sees fresh movement.
var positionCacheTTL = 2 * time.Second

// NEFClient resolves device positions against the NEF emulator. It owns its
// access token and re-authenticates transparently when the token is rejected.
type NEFClient struct {
	url      string
	username string
	password string
	http     *http.Client
	cache    *redis.Client

	mu    sync.Mutex
	token string
}

// NewNEFClient builds a client for the NEF at baseURL. cache may be nil, in
// which case every lookup goes straight to the NEF.
func NewNEFClient(baseURL, username, password string, cache *redis.Client) *NEFClient {
	return &NEFClient{
		url:      strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		http:     &http.Client{Timeout: 5 * time.Second},
		cache:    cache,
	}
}

// Login acquires a fresh access token. Called lazily from GetPosition but
// exposed so main can fail fast on bad credentials.
func (c *NEFClient) Login(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "")
	form.Set("username", c.username)
	form.Set("password", c.password)
	form.Set("scope", "")
	form.Set("client_id", "")
	form.Set("client_secret", "")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.url+"/api/v1/login/access-token", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call NEF login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("NEF login returned status %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	c.mu.Lock()
	c.token = out.AccessToken
	c.mu.Unlock()
	return nil
}

func (c *NEFClient) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// GetPosition returns the last known location of the UE identified by supi.
// Returns models.ErrDeviceNotFound when the NEF does not know the device or
// has no coordinates for it; any other error is transient.
func (c *NEFClient) GetPosition(ctx context.Context, supi string) (*models.Position, error) {
	if pos := c.cachedPosition(ctx, supi); pos != nil {
		return pos, nil
	}

	pos, err := c.fetchPosition(ctx, supi, false)
	if err != nil {
		return nil, err
	}

	c.storePosition(ctx, supi, pos)
	return pos, nil
}

func (c *NEFClient) fetchPosition(ctx context.Context, supi string, retried bool) (*models.Position, error) {
	token := c.currentToken()
	if token == "" {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		token = c.currentToken()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/api/v1/UEs/"+supi, nil)
	if err != nil {
		return nil, fmt.Errorf("build UE request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call NEF: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, models.ErrDeviceNotFound
	case resp.StatusCode == http.StatusUnauthorized && !retried:
		// Token expired upstream, re-login once and retry.
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		return c.fetchPosition(ctx, supi, true)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("NEF returned status %d for UE %s", resp.StatusCode, supi)
	}

	var ue struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ue); err != nil {
		return nil, fmt.Errorf("decode UE response: %w", err)
	}
	if ue.Latitude == nil || ue.Longitude == nil {
		return nil, models.ErrDeviceNotFound
	}

	return &models.Position{
		Latitude:   *ue.Latitude,
		Longitude:  *ue.Longitude,
		ObservedAt: time.Now().UTC(),
	}, nil
}

func (c *NEFClient) cachedPosition(ctx context.Context, supi string) *models.Position {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, positionCacheKey(supi)).Result()
	if err != nil {
		return nil
	}
	var pos models.Position
	if err := json.Unmarshal([]byte(raw), &pos); err != nil {
		return nil
	}
	return &pos
}

func (c *NEFClient) storePosition(ctx context.Context, supi string, pos *models.Position) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(pos)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, positionCacheKey(supi), raw, positionCacheTTL).Err(); err != nil {
		log.Printf("[NEF] Failed to cache position for %s: %v", supi, err)
	}
}

func positionCacheKey(supi string) string {
	return "ue:position:" + supi
}
