// Package grading verifies certificates and reads population reports from
// card grading companies.
package grading

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/repository"
	"CardScout/internal/service/marketplace"
	"CardScout/pkg/config"
	xhttp "CardScout/pkg/http"
)

var (
	ErrUnsupportedCompany = errors.New("unsupported grading company")
	ErrNotConfigured      = errors.New("grading source not configured")
	ErrNotFound           = errors.New("not found")
)

// Error is a failed grading lookup.
type Error struct {
	Company models.GradingCompany
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type psaPopulation struct {
	TotalGraded int `json:"TotalGraded"`
	Higher      int `json:"Higher"`
	Same        int `json:"Same"`
	Lower       int `json:"Lower"`
}

type psaCert struct {
	Grade      float64        `json:"Grade"`
	Year       string         `json:"Year"`
	Brand      string         `json:"Brand"`
	Variety    string         `json:"Variety"`
	CardNumber string         `json:"CardNumber"`
	Subject    string         `json:"Subject"`
	GradeDate  string         `json:"GradeDate"`
	Population *psaPopulation `json:"Population"`
}

type proxyVerifyRequest struct {
	CertNumber string `json:"certNumber"`
}

type proxyVerifyResponse struct {
	GradingHistory *models.CertVerification `json:"gradingHistory"`
}

type populationRequest struct {
	CardDetails string                `json:"cardDetails"`
	Company     models.GradingCompany `json:"company"`
}

type populationResponse struct {
	Population *models.PopulationReport `json:"population"`
}

// Client talks to PSA directly and to a proxy for the companies without a
// public API. Either side is nil when disabled.
type Client struct {
	psa   *marketplace.BaseClient
	proxy *marketplace.BaseClient
}

func New(psa, proxy config.MarketplaceConfig, m repository.Metrics, opts ...xhttp.ClientOption) *Client {
	c := &Client{}
	if psa.Enabled {
		c.psa = marketplace.NewBaseClient("psa", psa, m, opts...)
	}
	if proxy.Enabled {
		c.proxy = marketplace.NewBaseClient("grading_proxy", proxy, m, opts...)
	}
	return c
}

// Verify dispatches on company. Only PSA, BGS and CGC can be verified.
func (c *Client) Verify(ctx context.Context, company models.GradingCompany, cert string) (models.CertVerification, error) {
	cert = strings.TrimSpace(cert)
	switch company {
	case models.GradingPSA:
		return c.verifyPSA(ctx, cert)
	case models.GradingBGS, models.GradingCGC:
		return c.verifyProxy(ctx, company, cert)
	default:
		return models.CertVerification{}, &Error{
			Company: company,
			Code:    "UNSUPPORTED_GRADING_COMPANY",
			Message: fmt.Sprintf("Grading company %s is not supported", company),
			Err:     ErrUnsupportedCompany,
		}
	}
}

func (c *Client) verifyPSA(ctx context.Context, cert string) (models.CertVerification, error) {
	if c.psa == nil {
		return models.CertVerification{}, notConfigured(models.GradingPSA, "PSA_VERIFY_ERROR")
	}
	var resp psaCert
	h := map[string]string{"Accept": "application/json"}
	if err := c.psa.GetJSON(ctx, "verify", "/cert/"+url.PathEscape(cert), nil, h, &resp); err != nil {
		return models.CertVerification{}, lookupError(models.GradingPSA, "PSA_VERIFY_ERROR", "PSA verification failed", err)
	}

	v := models.CertVerification{
		CertNumber:     cert,
		GradingCompany: models.GradingPSA,
		Grade:          resp.Grade,
		CardDetails:    fmt.Sprintf("%s %s %s #%s %s", resp.Year, resp.Brand, resp.Variety, resp.CardNumber, resp.Subject),
		GradedDate:     parseDate(resp.GradeDate),
	}
	if p := resp.Population; p != nil {
		v.Population = &models.PopulationReport{
			TotalGraded:  p.TotalGraded,
			HigherGrades: p.Higher,
			SameGrade:    p.Same,
			LowerGrades:  p.Lower,
		}
	}
	return v, nil
}

func (c *Client) verifyProxy(ctx context.Context, company models.GradingCompany, cert string) (models.CertVerification, error) {
	code := string(company) + "_VERIFY_ERROR"
	if c.proxy == nil {
		return models.CertVerification{}, notConfigured(company, code)
	}
	path := "/" + strings.ToLower(string(company)) + "/verify"
	var resp proxyVerifyResponse
	if err := c.proxy.PostJSON(ctx, "verify", path, proxyVerifyRequest{CertNumber: cert}, nil, &resp); err != nil {
		return models.CertVerification{}, lookupError(company, code, string(company)+" verification failed", err)
	}
	if resp.GradingHistory == nil {
		return models.CertVerification{}, &Error{Company: company, Code: code, Message: "certificate " + cert + " not found", Err: ErrNotFound}
	}
	v := *resp.GradingHistory
	if v.CertNumber == "" {
		v.CertNumber = cert
	}
	v.GradingCompany = company
	return v, nil
}

// Population looks up how many copies of card the company has graded.
func (c *Client) Population(ctx context.Context, company models.GradingCompany, card string) (models.PopulationReport, error) {
	if c.proxy == nil {
		return models.PopulationReport{}, notConfigured(company, "POPULATION_ERROR")
	}
	var resp populationResponse
	req := populationRequest{CardDetails: card, Company: company}
	if err := c.proxy.PostJSON(ctx, "population", "/population", req, nil, &resp); err != nil {
		return models.PopulationReport{}, lookupError(company, "POPULATION_ERROR", "Population report failed", err)
	}
	if resp.Population == nil {
		return models.PopulationReport{}, &Error{Company: company, Code: "POPULATION_ERROR", Message: "no population data", Err: ErrNotFound}
	}
	return *resp.Population, nil
}

func notConfigured(company models.GradingCompany, code string) *Error {
	return &Error{Company: company, Code: code, Message: string(company) + " lookups are not configured", Err: ErrNotConfigured}
}

// lookupError keeps a 404 from upstream distinguishable from other failures.
func lookupError(company models.GradingCompany, code, msg string, err error) *Error {
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		if se.StatusCode == http.StatusNotFound {
			return &Error{Company: company, Code: code, Message: msg + ": not found", Err: fmt.Errorf("%w: %v", ErrNotFound, err)}
		}
		msg = fmt.Sprintf("%s: status %d", msg, se.StatusCode)
	}
	return &Error{Company: company, Code: code, Message: msg, Err: err}
}

var dateLayouts = []string{time.RFC3339, time.DateOnly, "01/02/2006"}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
