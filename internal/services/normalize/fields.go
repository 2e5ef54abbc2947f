package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"CardScout/internal/domain/models"
	"CardScout/pkg/util"
)

// Field maps one source key of a marketplace payload onto the canonical listing.
type Field[T models.RawListing] struct {
	Source string
	Target string
	apply  func(raw *T, l *models.CardListing)
}

// FieldTable is the ordered mapping for one marketplace. Later fields may
// read values set by earlier ones (URL fallbacks read the id).
type FieldTable[T models.RawListing] []Field[T]

// Apply runs every mapping of the table against raw.
func (t FieldTable[T]) Apply(raw *T, l *models.CardListing) {
	for _, f := range t {
		f.apply(raw, l)
	}
}

// Keys returns source key -> canonical key.
func (t FieldTable[T]) Keys() map[string]string {
	out := make(map[string]string, len(t))
	for _, f := range t {
		out[f.Source] = f.Target
	}
	return out
}

// EbayFields maps the eBay Browse API item shape.
var EbayFields = FieldTable[models.EbayRawItem]{
	{"itemId", "id", func(r *models.EbayRawItem, l *models.CardListing) { l.ID = r.ItemID }},
	{"title", "card", func(r *models.EbayRawItem, l *models.CardListing) { l.Card = parseCard(r.Title) }},
	{"price.value", "price", func(r *models.EbayRawItem, l *models.CardListing) {
		if r.Price != nil {
			l.Price = parsePrice(r.Price.Value)
		}
	}},
	{"price.currency", "currency", func(r *models.EbayRawItem, l *models.CardListing) {
		if r.Price != nil && r.Price.Currency != "" {
			l.Currency = r.Price.Currency
		}
	}},
	{"condition", "condition", func(r *models.EbayRawItem, l *models.CardListing) { setCondition(l, r.Condition) }},
	{"seller.username", "seller", func(r *models.EbayRawItem, l *models.CardListing) {
		if r.Seller != nil {
			l.Seller = r.Seller.Username
		}
	}},
	{"itemWebUrl", "listingUrl", func(r *models.EbayRawItem, l *models.CardListing) {
		l.ListingURL = r.ItemWebURL
		if l.ListingURL == "" && r.ItemID != "" {
			l.ListingURL = "https://www.ebay.com/itm/" + r.ItemID
		}
	}},
	{"image.imageUrl", "imageUrls", func(r *models.EbayRawItem, l *models.CardListing) {
		if r.Image != nil {
			l.ImageURLs = imageList(r.Image.ImageURL)
		}
	}},
	{"itemEndDate", "endDate", func(r *models.EbayRawItem, l *models.CardListing) { l.EndDate = parseTime(r.ItemEndDate) }},
	{"shippingOptions[0].shippingCost.value", "shippingCost", func(r *models.EbayRawItem, l *models.CardListing) {
		if len(r.ShippingOptions) > 0 && r.ShippingOptions[0].ShippingCost != nil {
			v := parsePrice(r.ShippingOptions[0].ShippingCost.Value)
			l.ShippingCost = &v
		}
	}},
	{"buyingOptions", "isBuyNow,isAuction", func(r *models.EbayRawItem, l *models.CardListing) {
		for _, o := range r.BuyingOptions {
			switch strings.ToUpper(o) {
			case string(models.BuyingFixedPrice):
				l.IsBuyNow = true
			case string(models.BuyingAuction):
				l.IsAuction = true
			}
		}
	}},
	{"currentBidPrice.value", "currentBid", func(r *models.EbayRawItem, l *models.CardListing) {
		if r.CurrentBidPrice != nil && r.CurrentBidPrice.Value != "" {
			v := parsePrice(r.CurrentBidPrice.Value)
			l.CurrentBid = &v
		}
	}},
	{"bidCount", "bidCount", func(r *models.EbayRawItem, l *models.CardListing) { l.BidCount = r.BidCount }},
	{"watchCount", "watchers", func(r *models.EbayRawItem, l *models.CardListing) { l.Watchers = r.WatchCount }},
	{"localizedAspects[Grade]", "grade", func(r *models.EbayRawItem, l *models.CardListing) {
		for _, a := range r.LocalizedAspects {
			switch strings.ToLower(a.Name) {
			case "grade":
				if g, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64); err == nil {
					l.Grade = &g
				}
			case "professional grader":
				l.GradingCompany = graderFromText(a.Value)
			}
		}
	}},
}

// PwccFields maps the PWCC marketplace proxy shape.
var PwccFields = FieldTable[models.PwccRawItem]{
	{"id", "id", func(r *models.PwccRawItem, l *models.CardListing) { l.ID = r.ID }},
	{"title", "card", func(r *models.PwccRawItem, l *models.CardListing) { l.Card = parseCard(r.Title) }},
	{"buyNowPrice|currentBid", "price", func(r *models.PwccRawItem, l *models.CardListing) {
		switch {
		case r.BuyNowPrice != nil && *r.BuyNowPrice > 0:
			l.Price = *r.BuyNowPrice
			l.IsBuyNow = true
		case r.CurrentBid != nil:
			l.Price = *r.CurrentBid
		}
	}},
	{"currentBid", "currentBid", func(r *models.PwccRawItem, l *models.CardListing) { l.CurrentBid = r.CurrentBid }},
	{"bids", "bidCount", func(r *models.PwccRawItem, l *models.CardListing) { l.BidCount = r.Bids }},
	{"condition", "condition", func(r *models.PwccRawItem, l *models.CardListing) { setCondition(l, r.Condition) }},
	{"seller", "seller", func(r *models.PwccRawItem, l *models.CardListing) { l.Seller = r.Seller }},
	{"url", "listingUrl", func(r *models.PwccRawItem, l *models.CardListing) {
		l.ListingURL = r.URL
		if l.ListingURL == "" && r.ID != "" {
			l.ListingURL = "https://www.pwccmarketplace.com/lot/" + r.ID
		}
	}},
	{"image", "imageUrls", func(r *models.PwccRawItem, l *models.CardListing) { l.ImageURLs = imageList(r.Image) }},
	{"endDate", "endDate", func(r *models.PwccRawItem, l *models.CardListing) { l.EndDate = parseTime(r.EndDate) }},
	{"grade", "grade", func(r *models.PwccRawItem, l *models.CardListing) { l.Grade = r.Grade }},
	{"gradingCompany", "gradingCompany", func(r *models.PwccRawItem, l *models.CardListing) {
		if r.GradingCompany != "" {
			l.GradingCompany = graderFromText(r.GradingCompany)
		}
	}},
	{"currentBid|bids", "isAuction", func(r *models.PwccRawItem, l *models.CardListing) {
		l.IsAuction = r.CurrentBid != nil || r.Bids != nil
	}},
}

// GoldinFields maps the Goldin auction proxy shape.
var GoldinFields = FieldTable[models.GoldinRawItem]{
	{"id", "id", func(r *models.GoldinRawItem, l *models.CardListing) { l.ID = r.ID }},
	{"title", "card", func(r *models.GoldinRawItem, l *models.CardListing) { l.Card = parseCard(r.Name) }},
	{"currentBid|estimatedValue", "price", func(r *models.GoldinRawItem, l *models.CardListing) {
		switch {
		case r.CurrentBid != nil:
			l.Price = *r.CurrentBid
		case r.EstimatedValue != nil:
			l.Price = *r.EstimatedValue
		}
	}},
	{"currentBid", "currentBid", func(r *models.GoldinRawItem, l *models.CardListing) { l.CurrentBid = r.CurrentBid }},
	{"numberOfBids", "bidCount", func(r *models.GoldinRawItem, l *models.CardListing) { l.BidCount = r.NumberOfBids }},
	{"condition", "condition", func(r *models.GoldinRawItem, l *models.CardListing) { setCondition(l, r.Condition) }},
	{"consignor", "seller", func(r *models.GoldinRawItem, l *models.CardListing) { l.Seller = r.Consignor }},
	{"url", "listingUrl", func(r *models.GoldinRawItem, l *models.CardListing) { l.ListingURL = r.URL }},
	{"imageUrl", "imageUrls", func(r *models.GoldinRawItem, l *models.CardListing) { l.ImageURLs = imageList(r.ImageURL) }},
	{"endTime", "endDate", func(r *models.GoldinRawItem, l *models.CardListing) { l.EndDate = parseTime(r.EndTime) }},
	// Every Goldin lot is an auction, with or without bids yet.
	{"lotNumber", "isAuction", func(r *models.GoldinRawItem, l *models.CardListing) { l.IsAuction = true }},
}

func setCondition(l *models.CardListing, c string) {
	if c = strings.TrimSpace(c); c != "" {
		l.Condition = c
	}
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseTime(s string) *time.Time {
	t, ok := util.ParseTime(s)
	if !ok {
		return nil
	}
	return &t
}

func imageList(u string) []string {
	if u == "" {
		return []string{}
	}
	return []string{u}
}

var graders = []models.GradingCompany{
	models.GradingPSA, models.GradingBGS, models.GradingCGC, models.GradingSGC, models.GradingHGA,
}

// graderFromText accepts "PSA" as well as "Professional Sports Authenticator (PSA)".
func graderFromText(s string) models.GradingCompany {
	upper := strings.ToUpper(s)
	for _, g := range graders {
		if strings.Contains(upper, string(g)) {
			return g
		}
	}
	if strings.Contains(upper, "BECKETT") {
		return models.GradingBGS
	}
	return models.GradingCompany(strings.TrimSpace(s))
}
