package geolocation

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/zatekoja/placeviewer/internal/domain/providers"
	"github.com/zatekoja/placeviewer/pkg/coerce"
)

// PhotonURL is the public Photon search endpoint.
const PhotonURL = "https://photon.komoot.io/api/"

// PhotonProvider searches the Komoot Photon API.
type PhotonProvider struct {
	opts HTTPOptions
}

type photonResponse struct {
	Features []photonFeature `json:"features"`
}

type photonFeature struct {
	Geometry struct {
		Coordinates []any `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// NewPhotonProvider creates a Photon geocoder.
func NewPhotonProvider(opts HTTPOptions) *PhotonProvider {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = PhotonURL
	}
	return &PhotonProvider{opts: opts}
}

// Name implements providers.GeocodingProvider.
func (p *PhotonProvider) Name() string {
	return "Photon"
}

// Search implements providers.GeocodingProvider.
func (p *PhotonProvider) Search(ctx context.Context, query string, limit int) ([]providers.Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var payload photonResponse
	if err := getJSON(ctx, p.Name(), p.opts, params, &payload); err != nil {
		return nil, err
	}

	candidates := make([]providers.Candidate, 0, len(payload.Features))
	for _, f := range payload.Features {
		var lon, lat any
		if len(f.Geometry.Coordinates) > 0 {
			lon = f.Geometry.Coordinates[0]
		}
		if len(f.Geometry.Coordinates) > 1 {
			lat = f.Geometry.Coordinates[1]
		}
		candidates = append(candidates, providers.Candidate{
			Lon:         lon,
			Lat:         lat,
			DisplayName: photonLabel(f.Properties),
		})
	}
	return candidates, nil
}

func photonLabel(props map[string]any) string {
	var parts []string
	for _, key := range []string{"name", "street", "district", "city", "state", "country"} {
		if text := strings.TrimSpace(coerce.ToText(props[key])); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, ", ")
}
