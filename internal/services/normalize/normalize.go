// Package normalize turns marketplace-native payloads into canonical card listings.
package normalize

import (
	"CardScout/internal/domain/models"
	"CardScout/internal/services/cardparse"
)

const (
	DefaultCurrency  = "USD"
	DefaultCondition = "Not Specified"
)

var parseCard = cardparse.ParseTitle

// Normalize maps one raw payload to a CardListing. It never fails: missing
// fields keep their defaults and an unknown payload type yields a listing
// marked as MarketplaceOther.
func Normalize(raw models.RawListing) models.CardListing {
	l := models.CardListing{
		Currency:  DefaultCurrency,
		Condition: DefaultCondition,
		ImageURLs: []string{},
	}

	switch r := raw.(type) {
	case models.EbayRawItem:
		EbayFields.Apply(&r, &l)
	case models.PwccRawItem:
		PwccFields.Apply(&r, &l)
	case models.GoldinRawItem:
		GoldinFields.Apply(&r, &l)
	default:
		l.Card = parseCard("")
		l.Marketplace = models.MarketplaceOther
		return l
	}

	l.Marketplace = raw.Marketplace()
	fillGradeFromTitle(&l)
	return l
}

// NormalizeAll normalizes a batch, preserving order.
func NormalizeAll(raws []models.RawListing) []models.CardListing {
	out := make([]models.CardListing, 0, len(raws))
	for _, r := range raws {
		if r == nil {
			continue
		}
		out = append(out, Normalize(r))
	}
	return out
}

func fillGradeFromTitle(l *models.CardListing) {
	if l.Grade != nil && l.GradingCompany != "" {
		return
	}
	company, grade := cardparse.ExtractGrade(l.Card.Title)
	if grade == nil {
		return
	}
	if l.Grade == nil {
		l.Grade = grade
	}
	if l.GradingCompany == "" {
		l.GradingCompany = company
	}
}
