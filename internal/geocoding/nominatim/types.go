package nominatim

// SearchOptions contains optional parameters for geocoding searches.
type SearchOptions struct {
	// CountryCodes limits results to specific countries (comma-separated ISO 3166-1 alpha-2 codes, e.g. "pl,de")
	CountryCodes string
	// Limit controls the maximum number of results (default: 1, max: 50)
	Limit int
	// Viewbox biases results toward the visible map area
	Viewbox *Viewbox
}

// Viewbox is a bounding box in Nominatim's min/max order.
type Viewbox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// SearchResult is a single result of the search endpoint (format=jsonv2).
// Coordinates are strings in the API response.
type SearchResult struct {
	PlaceID     int64   `json:"place_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Type        string  `json:"type"`
	Class       string  `json:"class"`
	Importance  float64 `json:"importance"`
}

// StatusResult is the response of the status endpoint (format=json). Status 0
// means OK.
type StatusResult struct {
	Status          int    `json:"status"`
	Message         string `json:"message"`
	DataUpdated     string `json:"data_updated,omitempty"`
	SoftwareVersion string `json:"software_version,omitempty"`
}
