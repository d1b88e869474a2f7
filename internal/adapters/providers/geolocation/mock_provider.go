package geolocation

import (
	"context"
	"strings"

	"github.com/zatekoja/placeviewer/internal/domain/providers"
)

// MockGeocodingProvider answers from a fixed table of well-known places in
// the Gyeonggi area. It is used for offline runs and tests.
type MockGeocodingProvider struct {
	places []providers.Candidate
}

// NewMockGeocodingProvider creates a new mock geocoding provider
func NewMockGeocodingProvider() *MockGeocodingProvider {
	return &MockGeocodingProvider{
		places: []providers.Candidate{
			{Lon: 127.0688, Lat: 37.2979, DisplayName: "상현역, 수지구, 용인시, 경기도, 대한민국"},
			{Lon: 127.0666, Lat: 37.2840, DisplayName: "광교호수공원, 영통구, 수원시, 경기도, 대한민국"},
			{Lon: 127.0446, Lat: 37.2888, DisplayName: "광교중앙역, 영통구, 수원시, 경기도, 대한민국"},
			{Lon: 127.1086, Lat: 37.3947, DisplayName: "판교역, 분당구, 성남시, 경기도, 대한민국"},
			{Lon: 127.0276, Lat: 37.4979, DisplayName: "강남역, 강남구, 서울특별시, 대한민국"},
		},
	}
}

// Name implements providers.GeocodingProvider.
func (m *MockGeocodingProvider) Name() string {
	return "Mock"
}

// Search returns table entries whose label contains the query.
func (m *MockGeocodingProvider) Search(ctx context.Context, query string, limit int) ([]providers.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	var out []providers.Candidate
	for _, p := range m.places {
		if strings.Contains(strings.ToLower(p.DisplayName), needle) {
			out = append(out, p)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}
