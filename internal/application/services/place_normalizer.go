package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
	"github.com/zatekoja/placeviewer/pkg/coerce"
	apperrors "github.com/zatekoja/placeviewer/pkg/errors"
)

// MapURLBase is the place page prefix used for Place.MapURL.
const MapURLBase = "https://map.naver.com/p/smart-around/place/"

// Price tier symbols, ordered by weight.
const (
	PriceTierUnset = "-"
	PriceTier1     = "💰"
	PriceTier2     = "💰💰"
	PriceTier3     = "💰💰💰"
	PriceTier4     = "💰💰💰💰"
)

// Option labels matched by substring against the options text.
const (
	optionPetFriendly = "반려동물 동반"
	optionParking     = "주차"
	optionValet       = "발렛"
	optionReservation = "예약"
	optionTakeout     = "포장"
)

// FormatErrorMessage is reported when the JSON root is neither an object nor an array.
const FormatErrorMessage = "JSON 루트는 객체 또는 배열이어야 합니다."

var firstIntegerPattern = regexp.MustCompile(`(\d+)`)

// ParsedDataset holds the places of one file and their raw records by index.
type ParsedDataset struct {
	Places []entities.Place
	Raw    map[int]entities.RawRecord
}

type datasetEntry struct {
	id  string
	raw entities.RawRecord
}

// ParseDataset decodes a JSON document whose root is either an array of place
// objects or an object keyed by place id, and normalizes every entry in
// document order.
func ParseDataset(data []byte) (*ParsedDataset, error) {
	entries, err := decodeEntries(data)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedDataset{
		Places: make([]entities.Place, len(entries)),
		Raw:    make(map[int]entities.RawRecord, len(entries)),
	}
	for i, entry := range entries {
		parsed.Raw[i] = entry.raw
		parsed.Places[i] = NormalizeRecord(entry.raw, entry.id, i)
	}
	return parsed, nil
}

func decodeEntries(data []byte) ([]datasetEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, apperrors.NewParseError("invalid JSON", err)
	}

	var entries []datasetEntry
	switch tok {
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			var value any
			if err := dec.Decode(&value); err != nil {
				return nil, apperrors.NewParseError("invalid JSON", err)
			}
			raw := asRecord(value)
			id := strconv.Itoa(i)
			if coerce.Truthy(raw["id"]) {
				id = coerce.ToText(raw["id"])
			}
			entries = append(entries, datasetEntry{id: id, raw: raw})
		}
	case json.Delim('{'):
		positions := make(map[string]int)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, apperrors.NewParseError("invalid JSON", err)
			}
			key, _ := keyTok.(string)
			var value any
			if err := dec.Decode(&value); err != nil {
				return nil, apperrors.NewParseError("invalid JSON", err)
			}
			// A repeated key keeps its first position and its last value.
			if pos, ok := positions[key]; ok {
				entries[pos].raw = asRecord(value)
				continue
			}
			positions[key] = len(entries)
			entries = append(entries, datasetEntry{id: key, raw: asRecord(value)})
		}
	default:
		if err := expectEOF(dec); err != nil {
			return nil, err
		}
		return nil, apperrors.NewFormatError(FormatErrorMessage)
	}

	// closing delimiter
	if _, err := dec.Token(); err != nil {
		return nil, apperrors.NewParseError("invalid JSON", err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []datasetEntry{}
	}
	return entries, nil
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("unexpected data after top-level value")
		}
		return apperrors.NewParseError("invalid JSON", err)
	}
	return nil
}

func asRecord(v any) entities.RawRecord {
	if m, ok := v.(map[string]any); ok {
		return entities.RawRecord(m)
	}
	return entities.RawRecord{}
}

// NormalizeRecord derives a Place from one raw record. It never fails:
// missing or malformed fields fall back to zero values.
func NormalizeRecord(raw entities.RawRecord, fallbackID string, index int) entities.Place {
	if raw == nil {
		raw = entities.RawRecord{}
	}

	reviewCount := coerce.ToNumber(raw["reviewCount"])
	topLabel, topCount, topPct := topKeyword(raw["details"], reviewCount)

	placeID := fallbackID
	if coerce.Truthy(raw["id"]) {
		placeID = coerce.ToText(raw["id"])
	}

	options := coerce.ToText(raw["options"])
	conveniences := ExtractConveniences(raw["options"], raw["detailConveniences"])
	conveniencesText := strings.Join(conveniences, ", ")
	parkingDetail := coerce.ToText(raw["parkingDetail"])
	detailConveniences := coerce.ToText(raw["detailConveniences"])
	broadcastInfo := coerce.ToText(raw["broadcastInfo"])

	feedsCount := 0
	if feeds, ok := raw["feeds"].([]any); ok {
		feedsCount = len(feeds)
	}

	name := coerce.ToText(raw["name"])
	category := coerce.ToText(raw["category"])
	address := coerce.ToText(firstTruthy(raw["roadAddress"], raw["commonAddress"]))
	phone := coerce.ToText(raw["detailPhone"])
	openDesc := coerce.ToText(firstTruthy(
		nestedValue(raw["detailStatus"], "description"),
		nestedValue(raw["newBusinessHours"], "description"),
	))
	priceCategory := NormalizePriceCategory(raw["priceCategory"])

	searchText := strings.ToLower(strings.Join([]string{
		name, category, address, options, phone,
		topLabel, openDesc, priceCategory,
		parkingDetail, detailConveniences, conveniencesText,
		broadcastInfo,
	}, " "))

	var rawDistance *int
	if d, ok := coerce.ParseDistanceMeters(raw["distance"]); ok {
		rawDistance = &d
	}

	mapURL := ""
	if placeID != "" {
		mapURL = MapURLBase + placeID
	}

	return entities.Place{
		Index:                index,
		SearchText:           searchText,
		ID:                   placeID,
		Name:                 name,
		Category:             category,
		ReviewCount:          reviewCount,
		AvgRating:            coerce.ToNumber(raw["avgRating"]),
		RawDistanceM:         rawDistance,
		PetFriendly:          strings.Contains(options, optionPetFriendly),
		TopKeyword:           topLabel,
		TopKeywordCount:      topCount,
		TopKeywordPct:        topPct,
		OpenDesc:             openDesc,
		OpenAtRefCode:        entities.OpenCodeUnknown,
		Address:              address,
		RoadAddress:          coerce.ToText(raw["roadAddress"]),
		CommonAddress:        coerce.ToText(raw["commonAddress"]),
		Phone:                phone,
		Options:              options,
		Conveniences:         conveniences,
		ConveniencesText:     conveniencesText,
		PriceCategory:        priceCategory,
		NewOpening:           coerce.Truthy(raw["newOpening"]),
		BroadcastInfo:        broadcastInfo,
		HasBroadcast:         strings.TrimSpace(broadcastInfo) != "",
		ParkingDetail:        parkingDetail,
		HasParkingDetail:     strings.TrimSpace(parkingDetail) != "",
		HasParkingOption:     strings.Contains(options, optionParking),
		HasValetOption:       strings.Contains(options, optionValet),
		HasReservationOption: strings.Contains(options, optionReservation),
		HasTakeoutOption:     strings.Contains(options, optionTakeout),
		DetailConveniences:   detailConveniences,
		RegularClosedDays:    coerce.ToText(raw["regularClosedDays"]),
		SaveCount:            coerce.ToNumber(raw["saveCount"]),
		VisitorReviewCount:   coerce.ToNumber(raw["visitorReviewCount"]),
		VisitorReviewScore:   coerce.ToNumber(raw["visitorReviewScore"]),
		BlogCafeReviewCount:  coerce.ToNumber(raw["blogCafeReviewCount"]),
		FeedsCount:           feedsCount,
		FeedsHasMore:         coerce.Truthy(raw["feedsHasMore"]),
		HasFeeds:             feedsCount > 0,
		X:                    coerce.ToNumber(raw["x"]),
		Y:                    coerce.ToNumber(raw["y"]),
		MapURL:               mapURL,
	}
}

// topKeyword picks the review keyword with the highest count; the earliest
// entry wins a tie.
func topKeyword(details any, reviewCount float64) (string, float64, float64) {
	items, ok := details.([]any)
	if !ok {
		return "", 0, 0
	}

	var best map[string]any
	bestCount := 0.0
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		count, ok := entry["count"].(float64)
		if !ok {
			continue
		}
		if best == nil || count > bestCount {
			best = entry
			bestCount = count
		}
	}
	if best == nil {
		return "", 0, 0
	}

	label := ""
	if coerce.Truthy(best["displayName"]) {
		label = coerce.ToText(best["displayName"])
	}
	pct := 0.0
	if reviewCount > 0 {
		pct = coerce.RoundHalfUp(bestCount/reviewCount*100*10) / 10
	}
	return label, bestCount, pct
}

// ExtractConveniences merges the options list and the detail conveniences
// list, keeping the first occurrence of each cleaned label.
func ExtractConveniences(options, detailConveniences any) []string {
	items := make([]string, 0)
	seen := make(map[string]struct{})
	push := func(v any) {
		label := normalizeConvenienceLabel(v)
		if label == "" {
			return
		}
		if _, dup := seen[label]; dup {
			return
		}
		seen[label] = struct{}{}
		items = append(items, label)
	}

	for _, source := range []any{options, detailConveniences} {
		switch v := source.(type) {
		case string:
			for _, part := range strings.Split(v, ",") {
				push(part)
			}
		case []any:
			for _, part := range v {
				push(part)
			}
		}
	}
	return items
}

func normalizeConvenienceLabel(v any) string {
	label := coerce.CollapseSpace(coerce.ToText(v))
	if strings.ContainsRune(label, '�') {
		return ""
	}
	return label
}

// NormalizePriceCategory collapses whitespace in the raw price category text.
func NormalizePriceCategory(v any) string {
	return coerce.CollapseSpace(coerce.ToText(v))
}

// PriceTierSymbol maps a price category to its tier by the first integer in
// the text. Text without any integer is left unset.
func PriceTierSymbol(priceCategory string) string {
	normalized := NormalizePriceCategory(priceCategory)
	if normalized == "" {
		return PriceTierUnset
	}
	match := firstIntegerPattern.FindString(normalized)
	if match == "" {
		return PriceTierUnset
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return PriceTierUnset
	}

	switch {
	case value <= 1:
		return PriceTier1
	case value <= 3:
		return PriceTier2
	case value <= 5:
		return PriceTier3
	default:
		return PriceTier4
	}
}

func firstTruthy(values ...any) any {
	for _, v := range values {
		if coerce.Truthy(v) {
			return v
		}
	}
	return ""
}

func nestedValue(v any, key string) any {
	if m, ok := v.(map[string]any); ok {
		return m[key]
	}
	return nil
}
