package providers

import (
	"context"
)

// GeocodingProvider defines the interface for free-text place search services
type GeocodingProvider interface {
	// Name is the label used in status messages, e.g. "Photon"
	Name() string

	// Search returns at most limit candidates for a free-text query
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// Candidate is one geocoder hit before normalization. Lon and Lat keep the
// provider's own representation (number or numeric string).
type Candidate struct {
	Lon         any    `json:"lon"`
	Lat         any    `json:"lat"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name,omitempty"`
}
