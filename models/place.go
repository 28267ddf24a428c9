package models

// Place search error codes surfaced to the client.
const (
	PlaceErrAreaNotFound  = "AREA_NOT_FOUND"
	PlaceErrPlacesError   = "PLACES_ERROR"
	PlaceErrPlaceNotFound = "PLACE_NOT_FOUND"
	PlaceErrNoPhone       = "NO_PHONE"
)

// PlaceCandidate is one business returned from the place search. The phone
// number arrives later, from the details lookup.
type PlaceCandidate struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	Lat              float64 `json:"lat,omitempty"`
	Lng              float64 `json:"lng,omitempty"`
	Phone            string  `json:"phone,omitempty"`
}

// PlaceSearchRequest queries businesses by free-text name within an area.
// No device location is used, only the area string.
type PlaceSearchRequest struct {
	Query    string `json:"query" form:"query" binding:"required"`
	Area     string `json:"area" form:"area" binding:"required"`
	RadiusKm int    `json:"radius_km" form:"radius_km"`
}

// PlaceSearchResponse lists candidates within the searched radius.
type PlaceSearchResponse struct {
	RadiusKm   int              `json:"radius_km"`
	Candidates []PlaceCandidate `json:"candidates"`
	Error      string           `json:"error,omitempty"`
}

// PlaceDetailsResponse resolves one place to a dialable E.164 number.
type PlaceDetailsResponse struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address,omitempty"`
	PhoneE164        string `json:"phone_e164,omitempty"`
	Error            string `json:"error,omitempty"`
}
