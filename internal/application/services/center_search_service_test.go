package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
	"github.com/zatekoja/placeviewer/internal/domain/providers"
)

type MockGeocodingProvider struct {
	mock.Mock
	name string
}

func (m *MockGeocodingProvider) Name() string { return m.name }

func (m *MockGeocodingProvider) Search(ctx context.Context, query string, limit int) ([]providers.Candidate, error) {
	args := m.Called(ctx, query, limit)
	if v := args.Get(0); v != nil {
		return v.([]providers.Candidate), args.Error(1)
	}
	return nil, args.Error(1)
}

type blockingGeocoder struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingGeocoder) Name() string { return "Blocking" }

func (b *blockingGeocoder) Search(ctx context.Context, query string, limit int) ([]providers.Candidate, error) {
	if query == "느린 검색" {
		close(b.entered)
		<-b.release
	}
	return []providers.Candidate{{Lon: 127.0, Lat: 37.0, DisplayName: query}}, nil
}

func TestCenterSearchService_InputValidation(t *testing.T) {
	svc := NewCenterSearchService(nil, 8, 2)

	res, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, ToneWarn, res.Tone)
	assert.Empty(t, res.Candidates)

	res, err = svc.Search(context.Background(), "역")
	require.NoError(t, err)
	assert.Equal(t, ToneMuted, res.Tone)
	assert.Equal(t, "2글자 이상 입력해 주세요.", res.Message)
	assert.Zero(t, svc.Latest())
}

func TestCenterSearchService_FallsBackOnErrorAndEmpty(t *testing.T) {
	photon := &MockGeocodingProvider{name: "Photon"}
	photon.On("Search", mock.Anything, "상현역", 8).Return(nil, errors.New("HTTP 503")).Once()
	nominatim := &MockGeocodingProvider{name: "Nominatim"}
	nominatim.On("Search", mock.Anything, "상현역", 8).Return([]providers.Candidate{
		{Lon: "127.0688", Lat: "37.2979", DisplayName: "상현역,  수지구"},
		{Lon: "bad", Lat: 37.0, DisplayName: "skip me"},
	}, nil).Once()

	svc := NewCenterSearchService([]providers.GeocodingProvider{photon, nominatim}, 8, 2)
	res, err := svc.Search(context.Background(), " 상현역 ")
	require.NoError(t, err)

	assert.Equal(t, "상현역", res.Query)
	assert.Equal(t, "Nominatim", res.Provider)
	assert.Equal(t, ToneOK, res.Tone)
	assert.Equal(t, "1건 검색됨 (Nominatim)", res.Message)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, entities.CenterCandidate{
		ID:    "0:127.0688000:37.2979000",
		X:     127.0688,
		Y:     37.2979,
		Label: "상현역, 수지구",
	}, res.Candidates[0])

	photon.AssertExpectations(t)
	nominatim.AssertExpectations(t)
}

func TestCenterSearchService_StopsAtFirstHit(t *testing.T) {
	photon := &MockGeocodingProvider{name: "Photon"}
	photon.On("Search", mock.Anything, "광교", 5).
		Return([]providers.Candidate{{Lon: 127.05, Lat: 37.28, Name: "광교"}}, nil).Once()
	nominatim := &MockGeocodingProvider{name: "Nominatim"}

	svc := NewCenterSearchService([]providers.GeocodingProvider{photon, nominatim}, 5, 2)
	res, err := svc.Search(context.Background(), "광교")
	require.NoError(t, err)

	assert.Equal(t, "Photon", res.Provider)
	assert.Equal(t, "광교", res.Candidates[0].Label)
	nominatim.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestCenterSearchService_NoResults(t *testing.T) {
	photon := &MockGeocodingProvider{name: "Photon"}
	photon.On("Search", mock.Anything, "없는곳", 8).Return([]providers.Candidate{}, nil).Once()
	nominatim := &MockGeocodingProvider{name: "Nominatim"}
	nominatim.On("Search", mock.Anything, "없는곳", 8).Return(nil, errors.New("HTTP 429")).Once()

	svc := NewCenterSearchService([]providers.GeocodingProvider{photon, nominatim}, 8, 2)
	res, err := svc.Search(context.Background(), "없는곳")
	require.NoError(t, err)

	assert.Equal(t, ToneWarn, res.Tone)
	assert.Empty(t, res.Candidates)
	assert.Equal(t, "검색 결과가 없습니다. 다른 키워드로 시도하세요. (Nominatim: HTTP 429)", res.Message)
}

func TestCenterSearchService_DropsStaleResults(t *testing.T) {
	geocoder := &blockingGeocoder{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewCenterSearchService([]providers.GeocodingProvider{geocoder}, 8, 2)

	type outcome struct {
		res *CenterSearchResult
		err error
	}
	slow := make(chan outcome, 1)
	go func() {
		res, err := svc.Search(context.Background(), "느린 검색")
		slow <- outcome{res, err}
	}()

	<-geocoder.entered
	fast, err := svc.Search(context.Background(), "빠른 검색")
	require.NoError(t, err)
	assert.Equal(t, "빠른 검색", fast.Candidates[0].Label)

	close(geocoder.release)
	got := <-slow
	assert.ErrorIs(t, got.err, ErrStaleSearch)
	assert.Nil(t, got.res)
	assert.Equal(t, uint64(2), svc.Latest())
}

func TestNormalizeCandidates(t *testing.T) {
	got := NormalizeCandidates([]providers.Candidate{
		{Lon: 127.1, Lat: 37.5},
		{Lon: nil, Lat: 37.5},
		{Lon: 126.9, Lat: "37.4", DisplayName: " ", Name: "서울역"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "37.5000000, 127.1000000", got[0].Label)
	assert.Equal(t, "0:127.1000000:37.5000000", got[0].ID)
	assert.Equal(t, "2:126.9000000:37.4000000", got[1].ID)
	assert.Equal(t, "37.4000000, 126.9000000", got[1].Label)

	c, ok := FindCandidate(got, got[1].ID)
	assert.True(t, ok)
	assert.Equal(t, 126.9, c.X)
	_, ok = FindCandidate(got, "missing")
	assert.False(t, ok)
}
