package entities

// RawRecord is one place object exactly as it appeared in the loaded JSON file.
// Values are whatever encoding/json produced: nil, bool, float64, string,
// []any or map[string]any.
type RawRecord map[string]any

// Place represents one normalized place listing
type Place struct {
	Index      int    `json:"_index" yaml:"_index"`
	SearchText string `json:"-" yaml:"-"`

	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`

	ReviewCount float64 `json:"reviewCount" yaml:"reviewCount"`
	AvgRating   float64 `json:"avgRating" yaml:"avgRating"`

	RawDistanceM *int `json:"rawDistanceM" yaml:"rawDistanceM"`
	DistanceM    *int `json:"distanceM" yaml:"distanceM"`

	PetFriendly bool `json:"petFriendly" yaml:"petFriendly"`

	TopKeyword      string  `json:"topKeyword" yaml:"topKeyword"`
	TopKeywordCount float64 `json:"topKeywordCount" yaml:"topKeywordCount"`
	TopKeywordPct   float64 `json:"topKeywordPct" yaml:"topKeywordPct"`

	OpenDesc       string `json:"openDesc" yaml:"openDesc"`
	OpenAtRefLabel string `json:"openAtRefLabel" yaml:"openAtRefLabel"`
	OpenAtRefRank  int    `json:"openAtRefRank" yaml:"openAtRefRank"`
	OpenAtRefCode  string `json:"openAtRefCode" yaml:"openAtRefCode"`

	Address       string `json:"address" yaml:"address"`
	RoadAddress   string `json:"roadAddress" yaml:"roadAddress"`
	CommonAddress string `json:"commonAddress" yaml:"commonAddress"`
	Phone         string `json:"phone" yaml:"phone"`

	Options          string   `json:"options" yaml:"options"`
	Conveniences     []string `json:"conveniences" yaml:"conveniences"`
	ConveniencesText string   `json:"conveniencesText" yaml:"conveniencesText"`
	PriceCategory    string   `json:"priceCategory" yaml:"priceCategory"`
	NewOpening       bool     `json:"newOpening" yaml:"newOpening"`

	BroadcastInfo    string `json:"broadcastInfo" yaml:"broadcastInfo"`
	HasBroadcast     bool   `json:"hasBroadcast" yaml:"hasBroadcast"`
	ParkingDetail    string `json:"parkingDetail" yaml:"parkingDetail"`
	HasParkingDetail bool   `json:"hasParkingDetail" yaml:"hasParkingDetail"`

	HasParkingOption     bool `json:"hasParkingOption" yaml:"hasParkingOption"`
	HasValetOption       bool `json:"hasValetOption" yaml:"hasValetOption"`
	HasReservationOption bool `json:"hasReservationOption" yaml:"hasReservationOption"`
	HasTakeoutOption     bool `json:"hasTakeoutOption" yaml:"hasTakeoutOption"`

	DetailConveniences string `json:"detailConveniences" yaml:"detailConveniences"`
	RegularClosedDays  string `json:"regularClosedDays" yaml:"regularClosedDays"`

	SaveCount           float64 `json:"saveCount" yaml:"saveCount"`
	VisitorReviewCount  float64 `json:"visitorReviewCount" yaml:"visitorReviewCount"`
	VisitorReviewScore  float64 `json:"visitorReviewScore" yaml:"visitorReviewScore"`
	BlogCafeReviewCount float64 `json:"blogCafeReviewCount" yaml:"blogCafeReviewCount"`

	FeedsCount   int  `json:"feedsCount" yaml:"feedsCount"`
	FeedsHasMore bool `json:"feedsHasMore" yaml:"feedsHasMore"`
	HasFeeds     bool `json:"hasFeeds" yaml:"hasFeeds"`

	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	MapURL string  `json:"mapUrl" yaml:"mapUrl"`
}

// PlaceFieldKeys lists the filterable Place attributes in declaration order.
// Index and SearchText are bookkeeping and deliberately absent.
var PlaceFieldKeys = []string{
	"id", "name", "category", "reviewCount", "avgRating", "rawDistanceM", "distanceM",
	"petFriendly", "topKeyword", "topKeywordCount", "topKeywordPct",
	"openDesc", "openAtRefLabel", "openAtRefRank", "openAtRefCode",
	"address", "roadAddress", "commonAddress", "phone",
	"options", "conveniences", "conveniencesText", "priceCategory", "newOpening",
	"broadcastInfo", "hasBroadcast", "parkingDetail", "hasParkingDetail",
	"hasParkingOption", "hasValetOption", "hasReservationOption", "hasTakeoutOption",
	"detailConveniences", "regularClosedDays",
	"saveCount", "visitorReviewCount", "visitorReviewScore", "blogCafeReviewCount",
	"feedsCount", "feedsHasMore", "hasFeeds",
	"x", "y", "mapUrl",
}

// Value returns the attribute stored under a field key, in the same loose
// shape a raw JSON value would have (nil for an unset distance).
func (p *Place) Value(key string) (any, bool) {
	switch key {
	case "id":
		return p.ID, true
	case "name":
		return p.Name, true
	case "category":
		return p.Category, true
	case "reviewCount":
		return p.ReviewCount, true
	case "avgRating":
		return p.AvgRating, true
	case "rawDistanceM":
		return optionalInt(p.RawDistanceM), true
	case "distanceM":
		return optionalInt(p.DistanceM), true
	case "petFriendly":
		return p.PetFriendly, true
	case "topKeyword":
		return p.TopKeyword, true
	case "topKeywordCount":
		return p.TopKeywordCount, true
	case "topKeywordPct":
		return p.TopKeywordPct, true
	case "openDesc":
		return p.OpenDesc, true
	case "openAtRefLabel":
		return p.OpenAtRefLabel, true
	case "openAtRefRank":
		return float64(p.OpenAtRefRank), true
	case "openAtRefCode":
		return p.OpenAtRefCode, true
	case "address":
		return p.Address, true
	case "roadAddress":
		return p.RoadAddress, true
	case "commonAddress":
		return p.CommonAddress, true
	case "phone":
		return p.Phone, true
	case "options":
		return p.Options, true
	case "conveniences":
		items := make([]any, len(p.Conveniences))
		for i, c := range p.Conveniences {
			items[i] = c
		}
		return items, true
	case "conveniencesText":
		return p.ConveniencesText, true
	case "priceCategory":
		return p.PriceCategory, true
	case "newOpening":
		return p.NewOpening, true
	case "broadcastInfo":
		return p.BroadcastInfo, true
	case "hasBroadcast":
		return p.HasBroadcast, true
	case "parkingDetail":
		return p.ParkingDetail, true
	case "hasParkingDetail":
		return p.HasParkingDetail, true
	case "hasParkingOption":
		return p.HasParkingOption, true
	case "hasValetOption":
		return p.HasValetOption, true
	case "hasReservationOption":
		return p.HasReservationOption, true
	case "hasTakeoutOption":
		return p.HasTakeoutOption, true
	case "detailConveniences":
		return p.DetailConveniences, true
	case "regularClosedDays":
		return p.RegularClosedDays, true
	case "saveCount":
		return p.SaveCount, true
	case "visitorReviewCount":
		return p.VisitorReviewCount, true
	case "visitorReviewScore":
		return p.VisitorReviewScore, true
	case "blogCafeReviewCount":
		return p.BlogCafeReviewCount, true
	case "feedsCount":
		return float64(p.FeedsCount), true
	case "feedsHasMore":
		return p.FeedsHasMore, true
	case "hasFeeds":
		return p.HasFeeds, true
	case "x":
		return p.X, true
	case "y":
		return p.Y, true
	case "mapUrl":
		return p.MapURL, true
	}
	return nil, false
}

// WithOpenState returns a copy of the place carrying the given open state.
func (p Place) WithOpenState(state OpenState) Place {
	p.OpenAtRefLabel = state.Label
	p.OpenAtRefRank = state.Rank
	p.OpenAtRefCode = state.Code
	return p
}

func optionalInt(v *int) any {
	if v == nil {
		return nil
	}
	return float64(*v)
}

// Open-state codes.
const (
	OpenCodeUnknown = "unknown"
	OpenCodeClosed  = "closed"
	OpenCodeBreak   = "break"
	OpenCodeOpen    = "open"
)

// Open-state ranks, ordered for sorting and filtering.
const (
	OpenRankUnknown = 0
	OpenRankHoliday = 1
	OpenRankClosed  = 2
	OpenRankBreak   = 4
	OpenRankOpen    = 5
)

// OpenState is the business status of a place at a reference time.
type OpenState struct {
	Label string `json:"label" yaml:"label"`
	Rank  int    `json:"rank" yaml:"rank"`
	Code  string `json:"code" yaml:"code"`
}
