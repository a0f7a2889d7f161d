// Package forecast implements the provider payload normalizer. It parses the
// loosely-typed, field-inconsistent area-coded feed JSON into the stable
// internal Forecast shape, tolerating field-name variants and partial data.
package forecast

// Raw payload DTOs for the area-coded feed. All quantity arrays are
// string-typed in the source JSON; numeric parsing happens once in the
// normalizer, never downstream.

type forecastItem struct {
	PublishingOffice string       `json:"publishingOffice"`
	ReportDatetime   string       `json:"reportDatetime"`
	TimeSeries       []timeSeries `json:"timeSeries"`
}

type timeSeries struct {
	TimeDefines []string     `json:"timeDefines"`
	Areas       []seriesArea `json:"areas"`
}

type seriesArea struct {
	Area areaRef `json:"area"`

	Weathers     []string `json:"weathers"`
	WeatherCodes []string `json:"weatherCodes"`
	Pops         []string `json:"pops"`

	// The feed is inconsistent about this field name. Both spellings are
	// accepted here and collapsed to one canonical series by the normalizer.
	Precipitation  []string `json:"precipitation"`
	Precipitations []string `json:"precipitations"`

	Temps    []string `json:"temps"`
	TempsMin []string `json:"tempsMin"`
	TempsMax []string `json:"tempsMax"`
}

type areaRef struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// precipValues returns whichever precipitation spelling the feed used,
// preferring the singular form when both are present.
func (a *seriesArea) precipValues() []string {
	if a.Precipitation != nil {
		return a.Precipitation
	}
	return a.Precipitations
}

// hasWeather reports whether this area carries weather text or code arrays.
func (a *seriesArea) hasWeather() bool {
	return len(a.Weathers) > 0 || len(a.WeatherCodes) > 0
}
