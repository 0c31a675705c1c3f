package engine

// Address is the input to Verify: at least one free-text address line,
// optionally accompanied by structured suburb/state/postcode hints.
type Address struct {
	ID           string   `json:"id,omitempty"`
	AddressLines []string `json:"addressLines"`
	Suburb       string   `json:"suburb,omitempty"`
	State        string   `json:"state,omitempty"`
	Postcode     string   `json:"postcode,omitempty"`
}

// Result is the outcome of one verification. The call always returns a
// Result; failure to match is expressed through Status, Accuracy and
// Messages, never through an error.
type Result struct {
	ID              string `json:"id"`
	IsPostalService bool   `json:"isPostalService"`
	IsCommunity     bool   `json:"isCommunity"`

	BuildingName string `json:"buildingName"`
	HouseNo      string `json:"houseNo"`
	Street       string `json:"street"`

	AddressLine1       string `json:"addressLine1"`
	AddressLine2       string `json:"addressLine2"`
	AddressLine1Abbrev string `json:"addressLine1Abbrev,omitempty"`
	AddressLine2Abbrev string `json:"addressLine2Abbrev,omitempty"`

	State    string `json:"state"`
	Suburb   string `json:"suburb"`
	Postcode string `json:"postcode"`

	SA1       string  `json:"SA1"`
	LGA       string  `json:"LGA"`
	MeshBlock string  `json:"meshBlock"`
	GnafID    string  `json:"gnafId"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`

	Score     int      `json:"score"`
	Status    string   `json:"status"`
	Accuracy  string   `json:"accuracy"`
	FuzzLevel int      `json:"fuzzLevel"`
	Messages  []string `json:"messages"`
}

// Status strings. Accuracy is "0" only when Status is StatusNotFound.
const (
	StatusInvalid  = "Invalid address"
	StatusNotFound = "Address not found"
	StatusPostcode = "Postcode found"
	StatusSuburb   = "Suburb found"
	StatusStreet   = "Street found"
	StatusFound    = "Address found"
)

// Accuracy tiers gate which result fields are populated.
const (
	AccuracyNone     = "0"
	AccuracyPostcode = "1"
	AccuracySuburb   = "2"
	AccuracyStreet   = "3"
	AccuracyProperty = "4"
)
