package geolocation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/zatekoja/placeviewer/internal/domain/providers"
)

// NominatimURL is the public OpenStreetMap Nominatim search endpoint.
const NominatimURL = "https://nominatim.openstreetmap.org/search"

// NominatimOptions narrows Nominatim results.
type NominatimOptions struct {
	CountryCodes  string
	Language      string
	RatePerSecond float64
}

// NominatimProvider searches OpenStreetMap Nominatim. Requests are throttled
// to the service's usage policy of one per second by default.
type NominatimProvider struct {
	opts    HTTPOptions
	filter  NominatimOptions
	limiter *rate.Limiter
}

type nominatimPlace struct {
	Lon         any    `json:"lon"`
	Lat         any    `json:"lat"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
}

// NewNominatimProvider creates a Nominatim geocoder.
func NewNominatimProvider(opts HTTPOptions, filter NominatimOptions) *NominatimProvider {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = NominatimURL
	}
	perSecond := filter.RatePerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	return &NominatimProvider{
		opts:    opts,
		filter:  filter,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Name implements providers.GeocodingProvider.
func (n *NominatimProvider) Name() string {
	return "Nominatim"
}

// Search implements providers.GeocodingProvider.
func (n *NominatimProvider) Search(ctx context.Context, query string, limit int) ([]providers.Candidate, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nominatim rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(limit))
	if n.filter.CountryCodes != "" {
		params.Set("countrycodes", n.filter.CountryCodes)
	}
	if n.filter.Language != "" {
		params.Set("accept-language", n.filter.Language)
	}
	params.Set("q", query)

	var body json.RawMessage
	if err := getJSON(ctx, n.Name(), n.opts, params, &body); err != nil {
		return nil, err
	}

	// Error objects and other non-array bodies count as no results.
	var payload []nominatimPlace
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", n.Name(), err)
		}
	}

	candidates := make([]providers.Candidate, 0, len(payload))
	for _, p := range payload {
		candidates = append(candidates, providers.Candidate{
			Lon:         p.Lon,
			Lat:         p.Lat,
			DisplayName: p.DisplayName,
			Name:        p.Name,
		})
	}
	return candidates, nil
}
