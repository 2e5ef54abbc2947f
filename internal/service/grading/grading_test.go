package grading

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"CardScout/internal/domain/models"
	"CardScout/pkg/config"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func enabled(url string) config.MarketplaceConfig {
	return config.MarketplaceConfig{Enabled: true, BaseURL: url}
}

func TestVerifyPSA(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cert/12345678" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"Grade": 10, "Year": "1986", "Brand": "Fleer", "Variety": "", "CardNumber": "57",
			"Subject": "Michael Jordan", "GradeDate": "2021-03-04",
			"Population": map[string]int{"TotalGraded": 20000, "Higher": 0, "Same": 320, "Lower": 19680},
		})
	})
	c := New(enabled(srv.URL), config.MarketplaceConfig{}, nil)

	v, err := c.Verify(context.Background(), models.GradingPSA, " 12345678 ")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if v.Grade != 10 || v.GradingCompany != models.GradingPSA || v.CertNumber != "12345678" {
		t.Fatalf("verification = %+v", v)
	}
	if v.CardDetails != "1986 Fleer  #57 Michael Jordan" {
		t.Fatalf("card details = %q", v.CardDetails)
	}
	if v.GradedDate == nil || v.GradedDate.Format("2006-01-02") != "2021-03-04" {
		t.Fatalf("graded date = %v", v.GradedDate)
	}
	if v.Population == nil || v.Population.SameGrade != 320 || v.Population.TotalGraded != 20000 {
		t.Fatalf("population = %+v", v.Population)
	}
}

func TestVerifyProxyCompanies(t *testing.T) {
	var paths []string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var req proxyVerifyRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.CertNumber != "0011" {
			t.Errorf("cert = %q", req.CertNumber)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"gradingHistory": map[string]interface{}{
				"grade":       9.5,
				"cardDetails": "2003 Topps Chrome LeBron James #111",
				"subgrades":   map[string]float64{"centering": 9.5, "corners": 9.5, "edges": 10, "surface": 9},
			},
		})
	})
	c := New(config.MarketplaceConfig{}, enabled(srv.URL), nil)

	for _, company := range []models.GradingCompany{models.GradingBGS, models.GradingCGC} {
		v, err := c.Verify(context.Background(), company, "0011")
		if err != nil {
			t.Fatalf("%s: %v", company, err)
		}
		if v.GradingCompany != company || v.CertNumber != "0011" || v.Subgrades == nil || v.Subgrades.Edges != 10 {
			t.Fatalf("%s verification = %+v", company, v)
		}
	}
	if len(paths) != 2 || paths[0] != "/bgs/verify" || paths[1] != "/cgc/verify" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestVerifyErrors(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such cert", http.StatusNotFound)
	})
	c := New(enabled(srv.URL), config.MarketplaceConfig{}, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		company models.GradingCompany
		want    error
		code    string
	}{
		{"unsupported", models.GradingSGC, ErrUnsupportedCompany, "UNSUPPORTED_GRADING_COMPANY"},
		{"upstream 404", models.GradingPSA, ErrNotFound, "PSA_VERIFY_ERROR"},
		{"proxy disabled", models.GradingBGS, ErrNotConfigured, "BGS_VERIFY_ERROR"},
	}
	for _, tt := range tests {
		_, err := c.Verify(ctx, tt.company, "1")
		var ge *Error
		if !errors.Is(err, tt.want) || !errors.As(err, &ge) || ge.Code != tt.code {
			t.Errorf("%s: error = %v; want %v with code %s", tt.name, err, tt.want, tt.code)
		}
	}
}

func TestPopulation(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/population" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req populationRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Company != models.GradingPSA || req.CardDetails != "2018 Topps Shohei Ohtani #US1" {
			t.Errorf("request = %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"population": map[string]int{"totalGraded": 5000, "higherGrades": 0, "sameGrade": 700, "lowerGrades": 4300},
		})
	})
	c := New(config.MarketplaceConfig{}, enabled(srv.URL), nil)

	p, err := c.Population(context.Background(), models.GradingPSA, "2018 Topps Shohei Ohtani #US1")
	if err != nil {
		t.Fatalf("Population: %v", err)
	}
	if p.TotalGraded != 5000 || p.SameGrade != 700 {
		t.Fatalf("population = %+v", p)
	}
}

func TestPopulationNotConfigured(t *testing.T) {
	c := New(config.MarketplaceConfig{}, config.MarketplaceConfig{}, nil)
	if _, err := c.Population(context.Background(), models.GradingPSA, "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v; want ErrNotConfigured", err)
	}
}
