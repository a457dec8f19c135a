package domain

// County is a single county from the government reference extract. Immutable
// once loaded; the rating engine never writes back to reference data.
type County struct {
	ID               int    `yaml:"id" json:"id"`
	Name             string `yaml:"name" json:"name"`
	State            string `yaml:"state" json:"state"`
	RatingAreaCount  int    `yaml:"rating_area_count" json:"rating_area_count"`
	ServiceAreaCount int    `yaml:"service_area_count" json:"service_area_count"`
}

// ZipCounty maps a 5-digit ZIP code to a county and that county's rating
// area. A ZIP may carry multiple rows when it straddles county lines.
type ZipCounty struct {
	Zip          string `yaml:"zip" json:"zip"`
	CountyID     int    `yaml:"county_id" json:"county_id"`
	RatingAreaID string `yaml:"rating_area_id" json:"rating_area_id"`
}

// CountyResolution is the outcome of resolving a ZIP code. When Ambiguous is
// true, Counties holds every candidate and the caller must pick one before
// pricing; County is only set for a single-county ZIP.
type CountyResolution struct {
	Zip          string   `json:"zip"`
	Ambiguous    bool     `json:"ambiguous"`
	County       *County  `json:"county,omitempty"`
	RatingAreaID string   `json:"rating_area_id,omitempty"`
	Counties     []County `json:"counties,omitempty"`
}
