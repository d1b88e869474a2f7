package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
	"github.com/zatekoja/placeviewer/internal/domain/providers"
	"github.com/zatekoja/placeviewer/internal/infrastructure/observability"
	"github.com/zatekoja/placeviewer/pkg/coerce"
)

// ErrStaleSearch is returned when a newer search started before this one
// finished. The caller should drop the result.
var ErrStaleSearch = errors.New("center search superseded by a newer request")

// StatusTone classifies a center search status message.
type StatusTone string

const (
	ToneMuted StatusTone = "muted"
	ToneOK    StatusTone = "ok"
	ToneWarn  StatusTone = "warn"
)

// CenterSearchResult is the outcome of one center search.
type CenterSearchResult struct {
	Query      string                     `json:"query" yaml:"query"`
	Candidates []entities.CenterCandidate `json:"candidates" yaml:"candidates"`
	Provider   string                     `json:"provider" yaml:"provider"`
	Message    string                     `json:"message" yaml:"message"`
	Tone       StatusTone                 `json:"tone" yaml:"tone"`
}

// CenterSearchService resolves free-text queries to distance-center
// candidates, trying each geocoder in order until one returns hits.
type CenterSearchService struct {
	providers []providers.GeocodingProvider
	limit     int
	minQuery  int
	seq       atomic.Uint64
}

// NewCenterSearchService creates a center search service.
func NewCenterSearchService(chain []providers.GeocodingProvider, limit, minQuery int) *CenterSearchService {
	if limit <= 0 {
		limit = 8
	}
	if minQuery <= 0 {
		minQuery = 1
	}
	return &CenterSearchService{
		providers: chain,
		limit:     limit,
		minQuery:  minQuery,
	}
}

// Search runs one query through the provider chain. Provider failures end up
// in the status message; the only error returned is ErrStaleSearch.
func (s *CenterSearchService) Search(ctx context.Context, query string) (*CenterSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &CenterSearchResult{
			Candidates: []entities.CenterCandidate{},
			Message:    "검색어를 입력하세요. 예: 상현역, 광교호수공원",
			Tone:       ToneWarn,
		}, nil
	}
	if utf8.RuneCountInString(query) < s.minQuery {
		return &CenterSearchResult{
			Query:      query,
			Candidates: []entities.CenterCandidate{},
			Message:    fmt.Sprintf("%d글자 이상 입력해 주세요.", s.minQuery),
			Tone:       ToneMuted,
		}, nil
	}

	seq := s.seq.Add(1)
	ctx, span := observability.StartSpan(ctx, "CenterSearchService.Search")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	var (
		providerName string
		payload      []providers.Candidate
		lastErr      string
	)
	for _, p := range s.providers {
		providerName = p.Name()
		found, err := p.Search(ctx, query, s.limit)
		if s.seq.Load() != seq {
			logger.Debug().Str("query", query).Uint64("seq", seq).Msg("discarding stale center search")
			return nil, ErrStaleSearch
		}
		if err != nil {
			observability.RecordError(span, err)
			logger.Warn().Err(err).Str("provider", providerName).Str("query", query).Msg("geocoder failed")
			lastErr = fmt.Sprintf("%s: %s", providerName, err.Error())
			continue
		}
		payload = found
		if len(payload) > 0 {
			break
		}
	}

	candidates := NormalizeCandidates(payload)
	result := &CenterSearchResult{
		Query:      query,
		Candidates: candidates,
		Provider:   providerName,
	}
	if len(candidates) == 0 {
		suffix := ""
		if lastErr != "" {
			suffix = " (" + lastErr + ")"
		}
		result.Message = "검색 결과가 없습니다. 다른 키워드로 시도하세요." + suffix
		result.Tone = ToneWarn
		return result, nil
	}

	result.Message = fmt.Sprintf("%d건 검색됨 (%s)", len(candidates), providerName)
	result.Tone = ToneOK
	return result, nil
}

// Latest reports the sequence number of the most recent search.
func (s *CenterSearchService) Latest() uint64 {
	return s.seq.Load()
}

// NormalizeCandidates converts provider hits into center candidates, dropping
// hits without numeric coordinates. Ids combine the hit's position with its
// coordinates so they stay unique across one result list.
func NormalizeCandidates(payload []providers.Candidate) []entities.CenterCandidate {
	out := make([]entities.CenterCandidate, 0, len(payload))
	for i, item := range payload {
		x, okX := coerce.ToNumberOrNull(item.Lon)
		y, okY := coerce.ToNumberOrNull(item.Lat)
		if !okX || !okY {
			continue
		}
		xs := strconv.FormatFloat(x, 'f', 7, 64)
		ys := strconv.FormatFloat(y, 'f', 7, 64)

		label := item.DisplayName
		if label == "" {
			label = item.Name
		}
		label = coerce.CollapseSpace(label)
		if label == "" {
			label = ys + ", " + xs
		}

		out = append(out, entities.CenterCandidate{
			ID:    fmt.Sprintf("%d:%s:%s", i, xs, ys),
			X:     x,
			Y:     y,
			Label: label,
		})
	}
	return out
}

// FindCandidate returns the candidate with the given id.
func FindCandidate(candidates []entities.CenterCandidate, id string) (entities.CenterCandidate, bool) {
	for _, c := range candidates {
		if c.ID == id {
			return c, true
		}
	}
	return entities.CenterCandidate{}, false
}
