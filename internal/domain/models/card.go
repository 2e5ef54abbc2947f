package models

import "time"

type Sport string

const (
	SportBaseball   Sport = "baseball"
	SportBasketball Sport = "basketball"
	SportFootball   Sport = "football"
	SportHockey     Sport = "hockey"
	SportSoccer     Sport = "soccer"
	SportOther      Sport = "other"
)

// IsValid reports whether s is one of the known sports (including "other").
func (s Sport) IsValid() bool {
	switch s {
	case SportBaseball, SportBasketball, SportFootball, SportHockey, SportSoccer, SportOther:
		return true
	default:
		return false
	}
}

type Marketplace string

const (
	MarketplaceEbay     Marketplace = "ebay"
	MarketplacePWCC     Marketplace = "pwcc"
	MarketplaceGoldin   Marketplace = "goldin"
	MarketplaceFanatics Marketplace = "fanatics"
	MarketplaceOther    Marketplace = "other"
)

type GradingCompany string

const (
	GradingPSA  GradingCompany = "PSA"
	GradingBGS  GradingCompany = "BGS"
	GradingCGC  GradingCompany = "CGC"
	GradingSGC  GradingCompany = "SGC"
	GradingHGA  GradingCompany = "HGA"
	GradingNone GradingCompany = "none"
)

// UnknownBrand is the brand of a card whose title matched no known manufacturer.
const UnknownBrand = "Unknown"

// Card is the descriptive identity of a trading card, derived from a listing title.
type Card struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Player            string `json:"player"`
	Year              int    `json:"year"`
	Brand             string `json:"brand"`
	CardNumber        string `json:"cardNumber,omitempty"`
	Sport             Sport  `json:"sport"`
	IsRookie          bool   `json:"isRookie"`
	IsAutograph       bool   `json:"isAutograph"`
	IsMemorabiliaCard bool   `json:"isMemorabiliaCard"`
}

// CardListing is one marketplace record for a card, in canonical form.
type CardListing struct {
	ID             string         `json:"id"`
	Card           Card           `json:"card"`
	Price          float64        `json:"price"`
	Currency       string         `json:"currency"`
	Condition      string         `json:"condition"`
	Grade          *float64       `json:"grade,omitempty"`
	GradingCompany GradingCompany `json:"gradingCompany,omitempty"`
	Seller         string         `json:"seller"`
	Marketplace    Marketplace    `json:"marketplace"`
	ListingURL     string         `json:"listingUrl"`
	ImageURLs      []string       `json:"imageUrls"`
	EndDate        *time.Time     `json:"endDate,omitempty"`
	ShippingCost   *float64       `json:"shippingCost,omitempty"`
	IsBuyNow       bool           `json:"isBuyNow"`
	IsAuction      bool           `json:"isAuction"`
	CurrentBid     *float64       `json:"currentBid,omitempty"`
	BidCount       *int           `json:"bidCount,omitempty"`
	Watchers       *int           `json:"watchers,omitempty"`
}

// IsGraded reports whether the listing carries a third-party grade.
func (l CardListing) IsGraded() bool {
	return l.Grade != nil && l.GradingCompany != "" && l.GradingCompany != GradingNone
}
