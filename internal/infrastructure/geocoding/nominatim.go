package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultNominatimURL       = "https://nominatim.openstreetmap.org/search"
	DefaultNominatimUserAgent = "DisabilityJobsPlatform/1.0 (contact@example.com)"
)

type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewNominatim paces requests at one per second, the public instance's
// usage policy. A zero interval disables pacing.
func NewNominatim(baseURL, userAgent string, httpClient *http.Client, interval time.Duration) *Nominatim {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultNominatimURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultNominatimUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return &Nominatim{baseURL: baseURL, userAgent: userAgent, httpClient: httpClient, limiter: limiter}
}

func (n *Nominatim) Name() string { return "nominatim" }

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *Nominatim) Geocode(ctx context.Context, address string) (*Result, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", address+", South Korea")
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("countrycodes", "kr")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("nominatim: http %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("nominatim: decode: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: bad lat %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: bad lon %q: %w", places[0].Lon, err)
	}
	return &Result{Latitude: lat, Longitude: lng, FormattedAddress: places[0].DisplayName, Provider: n.Name()}, nil
}
