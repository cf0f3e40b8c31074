package countries

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/tidwall/gjson"
)

// ErrUnexpectedShape reports an upstream body that is not the JSON the
// endpoint documents. It matches common.ErrorUpstreamUnavailable.
var ErrUnexpectedShape = fmt.Errorf("%w: unexpected response shape", common.ErrorUpstreamUnavailable)

// NormalizeList normalizes a JSON array of upstream records, keeping the
// upstream order.
func NormalizeList(body []byte) ([]Country, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrUnexpectedShape
	}
	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, ErrUnexpectedShape
	}

	items := res.Array()
	out := make([]Country, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			return nil, ErrUnexpectedShape
		}
		out = append(out, Normalize(item))
	}
	return out, nil
}

// NormalizeOne normalizes a single record. The upstream wraps lookups by
// code in an array, so the first element of an array is used; an empty
// array means the country does not exist.
func NormalizeOne(body []byte) (Country, error) {
	if !gjson.ValidBytes(body) {
		return Country{}, ErrUnexpectedShape
	}
	res := gjson.ParseBytes(body)

	switch {
	case res.IsObject():
		return Normalize(res), nil
	case res.IsArray():
		first := res.Get("0")
		if !first.Exists() {
			return Country{}, common.ErrorNotFound
		}
		if !first.IsObject() {
			return Country{}, ErrUnexpectedShape
		}
		return Normalize(first), nil
	default:
		return Country{}, ErrUnexpectedShape
	}
}

// Normalize maps one upstream record to a Country. It never fails; absent or
// mistyped attributes take their defaults.
func Normalize(r gjson.Result) Country {
	name := r.Get("name.common").String()

	return Country{
		Code:         strings.ToUpper(r.Get("cca3").String()),
		Name:         name,
		Population:   r.Get("population").Int(),
		Region:       r.Get("region").String(),
		Subregion:    r.Get("subregion").String(),
		Capital:      r.Get("capital.0").String(),
		FlagImageURL: flagURL(r.Get("flags")),
		FlagAlt:      r.Get("flags.alt").String(),
		Currencies:   currencies(r.Get("currencies")),
		Languages:    objectValues(r.Get("languages")),
		Borders:      stringList(r.Get("borders")),

		Area:           optNumber(r.Get("area")),
		Timezones:      stringList(r.Get("timezones")),
		CallingCodes:   callingCodes(r.Get("idd")),
		TopLevelDomain: stringList(r.Get("tld")),
		NativeName:     nativeName(r.Get("name.nativeName"), name),
		Maps: Maps{
			GoogleMaps:     optString(r.Get("maps.googleMaps")),
			OpenStreetMaps: optString(r.Get("maps.openStreetMaps")),
		},
		CoatOfArms:  optString(r.Get("coatOfArms.png")),
		Continents:  stringList(r.Get("continents")),
		UNMember:    r.Get("unMember").Bool(),
		Independent: r.Get("independent").Bool(),
		Landlocked:  r.Get("landlocked").Bool(),
		CarSide:     optString(r.Get("car.side")),
		StartOfWeek: optString(r.Get("startOfWeek")),
		CapitalInfo: CapitalInfo{LatLng: numberList(r.Get("capitalInfo.latlng"))},
		Demonyms:    demonyms(r.Get("demonyms.eng")),
	}
}

func flagURL(flags gjson.Result) string {
	if png := flags.Get("png").String(); png != "" {
		return png
	}
	return flags.Get("svg").String()
}

func currencies(v gjson.Result) []Currency {
	out := make([]Currency, 0)
	if !v.IsObject() {
		return out
	}
	v.ForEach(func(_, c gjson.Result) bool {
		out = append(out, Currency{
			Name:   c.Get("name").String(),
			Symbol: c.Get("symbol").String(),
		})
		return true
	})
	return out
}

func objectValues(v gjson.Result) []string {
	out := make([]string, 0)
	if !v.IsObject() {
		return out
	}
	v.ForEach(func(_, s gjson.Result) bool {
		out = append(out, s.String())
		return true
	})
	return out
}

func stringList(v gjson.Result) []string {
	out := make([]string, 0)
	if !v.IsArray() {
		return out
	}
	for _, s := range v.Array() {
		out = append(out, s.String())
	}
	return out
}

// numberList returns nil when v is not an array so that it encodes as null.
func numberList(v gjson.Result) []float64 {
	if !v.IsArray() {
		return nil
	}
	items := v.Array()
	out := make([]float64, 0, len(items))
	for _, n := range items {
		out = append(out, n.Float())
	}
	return out
}

// callingCodes joins the dialing root with each suffix. A lone root or lone
// suffixes are returned as they are.
func callingCodes(idd gjson.Result) []string {
	root := idd.Get("root").String()
	suffixes := stringList(idd.Get("suffixes"))

	if len(suffixes) == 0 {
		if root == "" {
			return []string{}
		}
		return []string{root}
	}

	out := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		out = append(out, root+s)
	}
	return out
}

func nativeName(v gjson.Result, fallback string) string {
	name := ""
	if v.IsObject() {
		v.ForEach(func(_, n gjson.Result) bool {
			name = n.Get("common").String()
			return false
		})
	}
	if name == "" {
		return fallback
	}
	return name
}

func demonyms(eng gjson.Result) *Demonyms {
	if !eng.IsObject() {
		return nil
	}
	return &Demonyms{
		Male:   eng.Get("m").String(),
		Female: eng.Get("f").String(),
	}
}

func optString(v gjson.Result) *string {
	if v.Type != gjson.String || v.Str == "" {
		return nil
	}
	s := v.Str
	return &s
}

func optNumber(v gjson.Result) *float64 {
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Num
	return &f
}
