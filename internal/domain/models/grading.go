package models

import (
	"strconv"
	"strings"
	"time"
)

// Subgrades are the per-dimension grades some companies (BGS, CGC) publish.
type Subgrades struct {
	Centering float64 `json:"centering"`
	Corners   float64 `json:"corners"`
	Edges     float64 `json:"edges"`
	Surface   float64 `json:"surface"`
}

// PopulationReport counts the copies of one card a company has graded,
// relative to a given grade.
type PopulationReport struct {
	TotalGraded  int  `json:"totalGraded"`
	HigherGrades int  `json:"higherGrades"`
	SameGrade    int  `json:"sameGrade"`
	LowerGrades  int  `json:"lowerGrades"`
	Grade10Count *int `json:"grade10Count,omitempty"`
	Grade9Count  *int `json:"grade9Count,omitempty"`
}

// CertVerification is the grading company's record for one certificate.
type CertVerification struct {
	CertNumber     string            `json:"certNumber"`
	GradingCompany GradingCompany    `json:"gradingCompany"`
	Grade          float64           `json:"grade"`
	Subgrades      *Subgrades        `json:"subgrades,omitempty"`
	CardDetails    string            `json:"cardDetails"`
	GradedDate     *time.Time        `json:"gradedDate,omitempty"`
	Population     *PopulationReport `json:"population,omitempty"`
}

// PopulationKey is the free text a population lookup is made with.
func PopulationKey(c Card) string {
	parts := make([]string, 0, 4)
	if c.Year > 0 {
		parts = append(parts, strconv.Itoa(c.Year))
	}
	for _, s := range []string{c.Brand, c.Player} {
		if s != "" && s != UnknownBrand {
			parts = append(parts, s)
		}
	}
	if c.CardNumber != "" {
		parts = append(parts, "#"+c.CardNumber)
	}
	return strings.Join(parts, " ")
}

type CertVerifyRequest struct {
	Company    string `query:"company" json:"company" validate:"required,oneof=PSA BGS CGC SGC HGA"`
	CertNumber string `query:"cert" json:"cert" validate:"required,alphanum,max=32"`
}

type PopulationRequest struct {
	Card    string `query:"card" json:"card" validate:"required,max=200"`
	Company string `query:"company" json:"company" default:"PSA" validate:"oneof=PSA BGS CGC SGC HGA"`
}
