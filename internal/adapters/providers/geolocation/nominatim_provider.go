package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prestataires/backend/internal/domain/providers"
	apperrors "github.com/prestataires/backend/pkg/errors"
	"github.com/prestataires/backend/pkg/geo"
)

const (
	defaultNominatimURL    = "https://nominatim.openstreetmap.org"
	defaultGeocodeCacheTTL = 60 * 60 * 24 * 30
	defaultHTTPTimeout     = 8 * time.Second
)

// NominatimProvider resolves localities through a Nominatim instance,
// with Redis-backed caching of lookups.
type NominatimProvider struct {
	httpClient *http.Client
	cache      providers.CacheProvider
	baseURL    string
}

// NewNominatimProvider creates a new Nominatim geolocation provider.
func NewNominatimProvider(baseURL string, cache providers.CacheProvider) providers.GeolocationProvider {
	return NewNominatimProviderWithOptions(baseURL, cache, nil)
}

// NewNominatimProviderWithOptions allows overriding the HTTP client (used for tests).
func NewNominatimProviderWithOptions(baseURL string, cache providers.CacheProvider, httpClient *http.Client) providers.GeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultNominatimURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &NominatimProvider{
		httpClient: httpClient,
		cache:      cache,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// Geocode converts a locality name to coordinates.
func (p *NominatimProvider) Geocode(ctx context.Context, locality string) (*geo.Coordinates, error) {
	trimmed := strings.TrimSpace(locality)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("locality is required")
	}

	cacheKey := "geo:geocode:" + hashKey(strings.ToLower(trimmed))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var coords geo.Coordinates
			if err := json.Unmarshal(cached, &coords); err == nil {
				return &coords, nil
			}
		}
	}

	params := url.Values{}
	params.Set("q", trimmed)
	params.Set("format", "jsonv2")
	params.Set("countrycodes", "fr")
	params.Set("limit", "1")

	var results []nominatimResult
	if err := p.doRequest(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown locality %q", trimmed))
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil, apperrors.NewExternalError("invalid coordinates in geocode response", nil)
	}

	coords := geo.Coordinates{Latitude: lat, Longitude: lon}
	if p.cache != nil {
		if payload, err := json.Marshal(coords); err == nil {
			_ = p.cache.Set(ctx, cacheKey, payload, defaultGeocodeCacheTTL)
		}
	}
	return &coords, nil
}

// ReverseGeocode converts coordinates to the nearest locality name.
func (p *NominatimProvider) ReverseGeocode(ctx context.Context, position geo.Coordinates) (string, error) {
	cacheKey := "geo:reverse:" + hashKey(fmt.Sprintf("%.5f,%.5f", position.Latitude, position.Longitude))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			return string(cached), nil
		}
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", position.Latitude))
	params.Set("lon", fmt.Sprintf("%f", position.Longitude))
	params.Set("format", "jsonv2")
	params.Set("zoom", "10")

	var result nominatimResult
	if err := p.doRequest(ctx, "/reverse", params, &result); err != nil {
		return "", err
	}

	locality := result.Address.City
	if locality == "" {
		locality = result.Address.Town
	}
	if locality == "" {
		locality = result.Address.Village
	}
	if locality == "" {
		return "", apperrors.NewNotFoundError("no locality for position")
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, cacheKey, []byte(locality), defaultGeocodeCacheTTL)
	}
	return locality, nil
}

func (p *NominatimProvider) doRequest(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", p.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to build geocode request", err)
	}
	req.Header.Set("User-Agent", "prestataires-api")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("geocode request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewExternalError(fmt.Sprintf("geocode request returned status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalError("failed to decode geocode response", err)
	}
	return nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

type nominatimResult struct {
	Lat     string           `json:"lat"`
	Lon     string           `json:"lon"`
	Address nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
}
