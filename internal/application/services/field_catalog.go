package services

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
)

type fieldMeta struct {
	label     string
	fieldType entities.FieldType
}

// derivedFieldMeta holds display labels and fixed types for Place attributes.
var derivedFieldMeta = map[string]fieldMeta{
	"id":                   {"아이디", entities.FieldTypeText},
	"name":                 {"장소명", entities.FieldTypeText},
	"category":             {"카테고리", entities.FieldTypeText},
	"reviewCount":          {"리뷰수", entities.FieldTypeNumber},
	"avgRating":            {"평점", entities.FieldTypeNumber},
	"distanceM":            {"거리(m)", entities.FieldTypeNumber},
	"petFriendly":          {"반려동물 동반", entities.FieldTypeBoolean},
	"topKeyword":           {"최상위 키워드", entities.FieldTypeText},
	"topKeywordCount":      {"최상위 키워드 수", entities.FieldTypeNumber},
	"topKeywordPct":        {"최상위 키워드 %", entities.FieldTypeNumber},
	"openDesc":             {"영업 상태", entities.FieldTypeText},
	"openAtRefLabel":       {"기준시점 영업", entities.FieldTypeText},
	"openAtRefRank":        {"기준시점 영업순위", entities.FieldTypeNumber},
	"openAtRefCode":        {"기준시점 영업코드", entities.FieldTypeText},
	"address":              {"주소", entities.FieldTypeText},
	"roadAddress":          {"도로명 주소", entities.FieldTypeText},
	"commonAddress":        {"지번 주소", entities.FieldTypeText},
	"phone":                {"전화", entities.FieldTypeText},
	"options":              {"옵션", entities.FieldTypeText},
	"conveniences":         {"편의시설 목록", entities.FieldTypeText},
	"conveniencesText":     {"편의시설 텍스트", entities.FieldTypeText},
	"priceCategory":        {"가격대", entities.FieldTypeText},
	"newOpening":           {"신규오픈", entities.FieldTypeBoolean},
	"broadcastInfo":        {"방송 정보", entities.FieldTypeText},
	"hasBroadcast":         {"방송 정보 존재", entities.FieldTypeBoolean},
	"parkingDetail":        {"주차 상세", entities.FieldTypeText},
	"hasParkingDetail":     {"주차 상세 존재", entities.FieldTypeBoolean},
	"hasParkingOption":     {"옵션:주차", entities.FieldTypeBoolean},
	"hasValetOption":       {"옵션:발렛", entities.FieldTypeBoolean},
	"hasReservationOption": {"옵션:예약", entities.FieldTypeBoolean},
	"hasTakeoutOption":     {"옵션:포장", entities.FieldTypeBoolean},
	"detailConveniences":   {"편의정보", entities.FieldTypeText},
	"regularClosedDays":    {"정기휴무", entities.FieldTypeText},
	"saveCount":            {"저장수", entities.FieldTypeNumber},
	"visitorReviewCount":   {"방문자 리뷰수", entities.FieldTypeNumber},
	"visitorReviewScore":   {"방문자 리뷰점수", entities.FieldTypeNumber},
	"blogCafeReviewCount":  {"블로그/카페 리뷰수", entities.FieldTypeNumber},
	"feedsCount":           {"소식 수", entities.FieldTypeNumber},
	"feedsHasMore":         {"소식 더보기", entities.FieldTypeBoolean},
	"hasFeeds":             {"소식 존재", entities.FieldTypeBoolean},
	"x":                    {"경도(x)", entities.FieldTypeNumber},
	"y":                    {"위도(y)", entities.FieldTypeNumber},
	"mapUrl":               {"지도 링크", entities.FieldTypeText},
}

// rawToDerivedField maps raw keys to the Place attribute that already exposes
// them. A raw key whose mapped attribute exists gets no raw.* field of its own.
var rawToDerivedField = map[string]string{
	"id":                  "id",
	"name":                "name",
	"category":            "category",
	"reviewCount":         "reviewCount",
	"avgRating":           "avgRating",
	"distance":            "distanceM",
	"roadAddress":         "roadAddress",
	"commonAddress":       "commonAddress",
	"detailPhone":         "phone",
	"options":             "options",
	"priceCategory":       "priceCategory",
	"newOpening":          "newOpening",
	"broadcastInfo":       "broadcastInfo",
	"parkingDetail":       "parkingDetail",
	"detailConveniences":  "detailConveniences",
	"regularClosedDays":   "regularClosedDays",
	"saveCount":           "saveCount",
	"visitorReviewCount":  "visitorReviewCount",
	"visitorReviewScore":  "visitorReviewScore",
	"blogCafeReviewCount": "blogCafeReviewCount",
	"feedsHasMore":        "feedsHasMore",
	"x":                   "x",
	"y":                   "y",
	"mapUrl":              "mapUrl",
}

var rawFieldLabels = map[string]string{
	"detailCid":        "상세 식별자",
	"detailHours":      "영업시간 상세",
	"details":          "세부 정보",
	"detailStatus":     "상태 상세",
	"feeds":            "소식 목록",
	"isNx":             "확장 수집 여부",
	"keywords":         "키워드 목록",
	"microReview":      "마이크로 리뷰",
	"newBusinessHours": "신규 영업시간",
}

var numericTextPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// rawIDField is always text, whatever its values look like.
const rawIDField = entities.RawFieldPrefix + "id"

// FieldValue resolves a field key against a place, reading raw.* keys from
// the place's raw record.
func FieldValue(place *entities.Place, key string, raw map[int]entities.RawRecord) any {
	if rawKey, ok := strings.CutPrefix(key, entities.RawFieldPrefix); ok {
		record := raw[place.Index]
		if record == nil {
			return nil
		}
		return record[rawKey]
	}
	v, _ := place.Value(key)
	return v
}

// InferType scans places in order and returns the type of the first
// non-empty value found for key. Without any such value the field is text.
func InferType(places []entities.Place, key string, raw map[int]entities.RawRecord) entities.FieldType {
	if key == rawIDField {
		return entities.FieldTypeText
	}

	for i := range places {
		value := FieldValue(&places[i], key, raw)
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}

		switch v := value.(type) {
		case bool:
			return entities.FieldTypeBoolean
		case float64, int:
			return entities.FieldTypeNumber
		case string:
			cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
			if numericTextPattern.MatchString(cleaned) {
				return entities.FieldTypeNumber
			}
			return entities.FieldTypeText
		default:
			return entities.FieldTypeText
		}
	}
	return entities.FieldTypeText
}

// BuildFieldCatalog lists every field a rule can target: all Place attributes
// followed by raw keys that no attribute already covers, sorted by label.
func BuildFieldCatalog(places []entities.Place, raw map[int]entities.RawRecord) []entities.FieldDef {
	if len(places) == 0 {
		return []entities.FieldDef{}
	}

	defs := make([]entities.FieldDef, 0, len(entities.PlaceFieldKeys))
	seen := make(map[string]struct{})
	push := func(def entities.FieldDef) {
		if _, dup := seen[def.Key]; dup {
			return
		}
		seen[def.Key] = struct{}{}
		defs = append(defs, def)
	}

	for _, key := range entities.PlaceFieldKeys {
		def := entities.FieldDef{Key: key, Label: key, Source: entities.FieldSourceDerived}
		if meta, ok := derivedFieldMeta[key]; ok {
			def.Label = meta.label
			def.Type = meta.fieldType
		} else {
			def.Type = InferType(places, key, raw)
		}
		push(def)
	}

	rawKeys := make(map[string]struct{})
	for i := range places {
		for key := range raw[places[i].Index] {
			rawKeys[key] = struct{}{}
		}
	}
	for rawKey := range rawKeys {
		mapped := rawKey
		if derived, ok := rawToDerivedField[rawKey]; ok {
			mapped = derived
		}
		if isPlaceField(mapped) {
			continue
		}
		key := entities.RawFieldPrefix + rawKey
		label := rawKey
		if l, ok := rawFieldLabels[rawKey]; ok {
			label = l
		}
		push(entities.FieldDef{
			Key:    key,
			Label:  label,
			Type:   InferType(places, key, raw),
			Source: entities.FieldSourceRaw,
		})
	}

	col := collate.New(language.Korean, collate.Loose, collate.Numeric)
	sort.SliceStable(defs, func(i, j int) bool {
		if c := col.CompareString(defs[i].Label, defs[j].Label); c != 0 {
			return c < 0
		}
		if c := col.CompareString(defs[i].Key, defs[j].Key); c != 0 {
			return c < 0
		}
		return defs[i].Key < defs[j].Key
	})
	return defs
}

func isPlaceField(key string) bool {
	for _, k := range entities.PlaceFieldKeys {
		if k == key {
			return true
		}
	}
	return false
}
