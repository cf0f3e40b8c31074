// Package countries turns REST Countries v3.1 records into the Country shape
// served to clients.
//
// Every optional attribute has a defined default (empty string, empty list
// or null), so a client never has to check for a missing key. Lists are
// never nil except where null is the documented default.
package countries

// Currency is one entry of a country's currency list.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Maps holds map links; either may be null.
type Maps struct {
	GoogleMaps     *string `json:"googleMaps"`
	OpenStreetMaps *string `json:"openStreetMaps"`
}

// CapitalInfo holds the capital coordinates, null when unknown.
type CapitalInfo struct {
	LatLng []float64 `json:"latlng"`
}

// Demonyms are the English demonyms.
type Demonyms struct {
	Male   string `json:"male"`
	Female string `json:"female"`
}

// Country is the normalized country record.
type Country struct {
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Population   int64      `json:"population"`
	Region       string     `json:"region"`
	Subregion    string     `json:"subregion"`
	Capital      string     `json:"capital"`
	FlagImageURL string     `json:"flagImageUrl"`
	FlagAlt      string     `json:"flagAlt"`
	Currencies   []Currency `json:"currencies"`
	Languages    []string   `json:"languages"`
	Borders      []string   `json:"borders"`

	Area           *float64    `json:"area"`
	Timezones      []string    `json:"timezones"`
	CallingCodes   []string    `json:"callingCodes"`
	TopLevelDomain []string    `json:"topLevelDomain"`
	NativeName     string      `json:"nativeName"`
	Maps           Maps        `json:"maps"`
	CoatOfArms     *string     `json:"coatOfArms"`
	Continents     []string    `json:"continents"`
	UNMember       bool        `json:"unMember"`
	Independent    bool        `json:"independent"`
	Landlocked     bool        `json:"landlocked"`
	CarSide        *string     `json:"carSide"`
	StartOfWeek    *string     `json:"startOfWeek"`
	CapitalInfo    CapitalInfo `json:"capitalInfo"`
	Demonyms       *Demonyms   `json:"demonyms"`
}
