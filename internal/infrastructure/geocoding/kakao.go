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
)

const DefaultKakaoURL = "https://dapi.kakao.com/v2/local/search/address.json"

type Kakao struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewKakao(apiKey, baseURL string, httpClient *http.Client) *Kakao {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultKakaoURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Kakao{baseURL: baseURL, apiKey: strings.TrimSpace(apiKey), httpClient: httpClient}
}

func (k *Kakao) Name() string { return "kakao" }

func (k *Kakao) Configured() bool { return k != nil && k.apiKey != "" }

type kakaoResponse struct {
	Documents []struct {
		AddressName string `json:"address_name"`
		X           string `json:"x"`
		Y           string `json:"y"`
	} `json:"documents"`
}

func (k *Kakao) Geocode(ctx context.Context, address string) (*Result, error) {
	q := url.Values{}
	q.Set("query", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "KakaoAK "+k.apiKey)

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("kakao: http %d", resp.StatusCode)
	}

	var body kakaoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("kakao: decode: %w", err)
	}
	if len(body.Documents) == 0 {
		return nil, nil
	}

	doc := body.Documents[0]
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return nil, fmt.Errorf("kakao: bad latitude %q: %w", doc.Y, err)
	}
	lng, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return nil, fmt.Errorf("kakao: bad longitude %q: %w", doc.X, err)
	}
	return &Result{Latitude: lat, Longitude: lng, FormattedAddress: doc.AddressName, Provider: k.Name()}, nil
}
