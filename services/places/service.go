package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"calleroo/config"
	"calleroo/models"
	"calleroo/utils"
)

// Service resolves business names to dialable phone numbers. All data comes
// straight from the Google Places API; no model calls are involved.
type Service interface {
	TextSearch(ctx context.Context, req models.PlaceSearchRequest) (*models.PlaceSearchResponse, error)
	PlaceDetails(ctx context.Context, placeID string) (*models.PlaceDetailsResponse, error)
}

var allowedRadii = map[int]bool{25: true, 50: true, 100: true}

// GooglePlacesService implements Service against the Google Maps web APIs.
type GooglePlacesService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGooglePlacesService builds a client for the live Google endpoints.
func NewGooglePlacesService() *GooglePlacesService {
	return &GooglePlacesService{
		apiKey:  config.AppConfig.GoogleAPIKey,
		baseURL: "https://maps.googleapis.com",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewGooglePlacesServiceWithBase is used by tests to point at a stub server.
func NewGooglePlacesServiceWithBase(apiKey, baseURL string, client *http.Client) *GooglePlacesService {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GooglePlacesService{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (s *GooglePlacesService) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GeocodeArea resolves an area name to coordinates for location bias.
func (s *GooglePlacesService) GeocodeArea(ctx context.Context, area, country string) (lat, lng float64, ok bool) {
	logger := utils.GetLogger()
	params := url.Values{}
	params.Set("address", area+" "+country)

	var data geocodeResponse
	if err := s.getJSON(ctx, "/maps/api/geocode/json", params, &data); err != nil {
		logger.Error("geocoding request failed", zap.String("area", area), zap.Error(err))
		return 0, 0, false
	}
	if data.Status != "OK" || len(data.Results) == 0 {
		logger.Warn("geocoding returned no results", zap.String("area", area), zap.String("status", data.Status))
		return 0, 0, false
	}
	loc := data.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, true
}

type textSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// TextSearch finds up to ten candidate businesses near the given area.
// Results are biased by geocoding the area string; device GPS is never used.
func (s *GooglePlacesService) TextSearch(ctx context.Context, req models.PlaceSearchRequest) (*models.PlaceSearchResponse, error) {
	logger := utils.GetLogger()

	radiusKm := req.RadiusKm
	if !allowedRadii[radiusKm] {
		radiusKm = 25
	}

	lat, lng, ok := s.GeocodeArea(ctx, req.Area, config.AppConfig.DefaultRegion)
	if !ok {
		return &models.PlaceSearchResponse{
			RadiusKm:   radiusKm,
			Candidates: []models.PlaceCandidate{},
			Error:      models.PlaceErrAreaNotFound,
		}, nil
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s %s %s", req.Query, req.Area, config.AppConfig.DefaultRegion))
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", radiusKm*1000))

	var data textSearchResponse
	if err := s.getJSON(ctx, "/maps/api/place/textsearch/json", params, &data); err != nil {
		logger.Error("text search request failed", zap.String("query", req.Query), zap.Error(err))
		return &models.PlaceSearchResponse{
			RadiusKm:   radiusKm,
			Candidates: []models.PlaceCandidate{},
			Error:      models.PlaceErrPlacesError,
		}, nil
	}
	if data.Status != "OK" && data.Status != "ZERO_RESULTS" {
		logger.Error("places api error", zap.String("status", data.Status))
		return &models.PlaceSearchResponse{
			RadiusKm:   radiusKm,
			Candidates: []models.PlaceCandidate{},
			Error:      models.PlaceErrPlacesError,
		}, nil
	}

	candidates := make([]models.PlaceCandidate, 0, 10)
	for _, r := range data.Results {
		if len(candidates) == 10 {
			break
		}
		if r.PlaceID == "" || r.Name == "" {
			continue
		}
		candidates = append(candidates, models.PlaceCandidate{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			Lat:              r.Geometry.Location.Lat,
			Lng:              r.Geometry.Location.Lng,
		})
	}

	logger.Info("place search",
		zap.String("query", req.Query),
		zap.String("area", req.Area),
		zap.Int("candidates", len(candidates)),
	)
	return &models.PlaceSearchResponse{RadiusKm: radiusKm, Candidates: candidates}, nil
}

type placeDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		PlaceID                  string `json:"place_id"`
		Name                     string `json:"name"`
		FormattedAddress         string `json:"formatted_address"`
		InternationalPhoneNumber string `json:"international_phone_number"`
		FormattedPhoneNumber     string `json:"formatted_phone_number"`
	} `json:"result"`
}

// PlaceDetails fetches one place's phone number, normalized to E.164.
func (s *GooglePlacesService) PlaceDetails(ctx context.Context, placeID string) (*models.PlaceDetailsResponse, error) {
	logger := utils.GetLogger()

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "place_id,name,formatted_address,international_phone_number,formatted_phone_number")

	var data placeDetailsResponse
	if err := s.getJSON(ctx, "/maps/api/place/details/json", params, &data); err != nil {
		logger.Error("place details request failed", zap.String("placeID", placeID), zap.Error(err))
		return &models.PlaceDetailsResponse{PlaceID: placeID, Error: models.PlaceErrPlacesError}, nil
	}
	if data.Status != "OK" || data.Result.PlaceID == "" {
		logger.Warn("place details not found", zap.String("placeID", placeID), zap.String("status", data.Status))
		return &models.PlaceDetailsResponse{PlaceID: placeID, Error: models.PlaceErrPlaceNotFound}, nil
	}

	rawPhone := data.Result.InternationalPhoneNumber
	if rawPhone == "" {
		rawPhone = data.Result.FormattedPhoneNumber
	}
	phone := utils.NormalizeE164(rawPhone)
	if phone == "" {
		return &models.PlaceDetailsResponse{
			PlaceID:          placeID,
			Name:             data.Result.Name,
			FormattedAddress: data.Result.FormattedAddress,
			Error:            models.PlaceErrNoPhone,
		}, nil
	}

	return &models.PlaceDetailsResponse{
		PlaceID:          placeID,
		Name:             data.Result.Name,
		FormattedAddress: data.Result.FormattedAddress,
		PhoneE164:        phone,
	}, nil
}
