package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNoFix means coordinates could not be established. Callers treat this
// as best-effort: a query proceeds without location grounding.
var ErrNoFix = errors.New("geo: coordinates could not be established")

// Position is a device fix.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	At        time.Time `json:"at"`
}

// Locator acquires a single fix. Implementations bound their own wait.
type Locator interface {
	Locate(ctx context.Context) (*Position, error)
}

// GeoapifyLocator resolves the caller's approximate position from its
// public IP via the Geoapify ipinfo endpoint.
type GeoapifyLocator struct {
	apiKey  string
	timeout time.Duration
}

func NewGeoapifyLocator(apiKey string) *GeoapifyLocator {
	return &GeoapifyLocator{
		apiKey:  apiKey,
		timeout: 10 * time.Second,
	}
}

type geoapifyIPInfo struct {
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

func (l *GeoapifyLocator) Locate(ctx context.Context) (*Position, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	params := url.Values{}
	params.Add("apiKey", l.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.geoapify.com/v1/ipinfo?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFix, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFix, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrNoFix, resp.StatusCode)
	}

	var info geoapifyIPInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFix, err)
	}
	if info.Location.Latitude == 0 && info.Location.Longitude == 0 {
		return nil, ErrNoFix
	}

	return &Position{
		Latitude:  info.Location.Latitude,
		Longitude: info.Location.Longitude,
		At:        time.Now(),
	}, nil
}
