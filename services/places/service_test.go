package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calleroo/models"
)

func stubGoogle(t *testing.T, handler http.HandlerFunc) *GooglePlacesService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGooglePlacesServiceWithBase("test-key", srv.URL, srv.Client())
}

func TestTextSearchReturnsCandidates(t *testing.T) {
	svc := stubGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/geocode/"):
			w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":-33.89,"lng":151.19}}}]}`))
		case strings.Contains(r.URL.Path, "/textsearch/"):
			if q := r.URL.Query().Get("query"); !strings.Contains(q, "JB Hi-Fi") {
				t.Errorf("query missing search term: %q", q)
			}
			w.Write([]byte(`{"status":"OK","results":[
				{"place_id":"ChIJ1","name":"JB Hi-Fi Broadway","formatted_address":"Broadway NSW","geometry":{"location":{"lat":-33.88,"lng":151.19}}},
				{"place_id":"","name":"missing id"},
				{"place_id":"ChIJ2","name":"JB Hi-Fi City","formatted_address":"Sydney NSW","geometry":{"location":{"lat":-33.87,"lng":151.21}}}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	resp, err := svc.TextSearch(context.Background(), models.PlaceSearchRequest{
		Query: "JB Hi-Fi", Area: "Broadway", RadiusKm: 25,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if len(resp.Candidates) != 2 {
		t.Fatalf("expected 2 candidates (one skipped), got %d", len(resp.Candidates))
	}
	if resp.Candidates[0].PlaceID != "ChIJ1" {
		t.Fatalf("unexpected first candidate: %+v", resp.Candidates[0])
	}
}

func TestTextSearchAreaNotFound(t *testing.T) {
	svc := stubGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	resp, err := svc.TextSearch(context.Background(), models.PlaceSearchRequest{
		Query: "BCF", Area: "Nowhereville", RadiusKm: 25,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Error != models.PlaceErrAreaNotFound {
		t.Fatalf("expected AREA_NOT_FOUND, got %q", resp.Error)
	}
}

func TestTextSearchCoercesInvalidRadius(t *testing.T) {
	var sawRadius string
	svc := stubGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/textsearch/") {
			sawRadius = r.URL.Query().Get("radius")
		}
		if strings.Contains(r.URL.Path, "/geocode/") {
			w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":-33.89,"lng":151.19}}}]}`))
			return
		}
		w.Write([]byte(`{"status":"OK","results":[]}`))
	})

	resp, err := svc.TextSearch(context.Background(), models.PlaceSearchRequest{
		Query: "BCF", Area: "Broadway", RadiusKm: 37,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.RadiusKm != 25 || sawRadius != "25000" {
		t.Fatalf("radius not coerced: response=%d sent=%s", resp.RadiusKm, sawRadius)
	}
}

func TestPlaceDetailsNormalizesPhone(t *testing.T) {
	svc := stubGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":{
			"place_id":"ChIJ1","name":"JB Hi-Fi Broadway","formatted_address":"Broadway NSW",
			"formatted_phone_number":"(02) 9219 3000"
		}}`))
	})

	resp, err := svc.PlaceDetails(context.Background(), "ChIJ1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.PhoneE164 != "+61292193000" {
		t.Fatalf("phone = %q", resp.PhoneE164)
	}
}

func TestPlaceDetailsNoPhone(t *testing.T) {
	svc := stubGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":{"place_id":"ChIJ1","name":"Quiet Cafe"}}`))
	})

	resp, err := svc.PlaceDetails(context.Background(), "ChIJ1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Error != models.PlaceErrNoPhone {
		t.Fatalf("expected NO_PHONE, got %q", resp.Error)
	}
}

func TestPlaceDetailsNotFound(t *testing.T) {
	svc := stubGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"NOT_FOUND"}`))
	})

	resp, err := svc.PlaceDetails(context.Background(), "ChIJmissing")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Error != models.PlaceErrPlaceNotFound {
		t.Fatalf("expected PLACE_NOT_FOUND, got %q", resp.Error)
	}
}
