package models

// RawListing is a marketplace-native payload before normalization.
// The concrete type tells which field table applies.
type RawListing interface {
	Marketplace() Marketplace
}

// Money is the eBay amount shape: numeric value as a string plus currency.
type Money struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type EbayImage struct {
	ImageURL string `json:"imageUrl"`
}

type EbaySeller struct {
	Username           string `json:"username"`
	FeedbackPercentage string `json:"feedbackPercentage,omitempty"`
	FeedbackScore      int    `json:"feedbackScore,omitempty"`
}

// EbayRawItem mirrors an itemSummary / item from the eBay Browse API.
type EbayRawItem struct {
	ItemID           string           `json:"itemId"`
	Title            string           `json:"title"`
	Price            *Money           `json:"price,omitempty"`
	Condition        string           `json:"condition,omitempty"`
	Seller           *EbaySeller      `json:"seller,omitempty"`
	ItemWebURL       string           `json:"itemWebUrl,omitempty"`
	Image            *EbayImage       `json:"image,omitempty"`
	ItemEndDate      string           `json:"itemEndDate,omitempty"`
	BuyingOptions    []string         `json:"buyingOptions,omitempty"`
	CurrentBidPrice  *Money           `json:"currentBidPrice,omitempty"`
	BidCount         *int             `json:"bidCount,omitempty"`
	WatchCount       *int             `json:"watchCount,omitempty"`
	ShippingOptions  []EbayShipping   `json:"shippingOptions,omitempty"`
	LocalizedAspects []EbayItemAspect `json:"localizedAspects,omitempty"`
}

type EbayShipping struct {
	ShippingCost *Money `json:"shippingCost,omitempty"`
}

type EbayItemAspect struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (EbayRawItem) Marketplace() Marketplace { return MarketplaceEbay }

// PwccRawItem mirrors a PWCC marketplace proxy listing.
type PwccRawItem struct {
	ID             string   `json:"id"`
	LotNumber      string   `json:"lotNumber,omitempty"`
	Title          string   `json:"title"`
	CurrentBid     *float64 `json:"currentBid,omitempty"`
	BuyNowPrice    *float64 `json:"buyNowPrice,omitempty"`
	Image          string   `json:"image,omitempty"`
	URL            string   `json:"url,omitempty"`
	Bids           *int     `json:"bids,omitempty"`
	TimeLeft       string   `json:"timeLeft,omitempty"`
	EndDate        string   `json:"endDate,omitempty"`
	Seller         string   `json:"seller,omitempty"`
	Condition      string   `json:"condition,omitempty"`
	Grade          *float64 `json:"grade,omitempty"`
	GradingCompany string   `json:"gradingCompany,omitempty"`
	VaultEligible  bool     `json:"vaultEligible,omitempty"`
}

func (PwccRawItem) Marketplace() Marketplace { return MarketplacePWCC }

// GoldinRawItem mirrors a Goldin auction proxy listing.
type GoldinRawItem struct {
	ID             string   `json:"id"`
	LotNumber      string   `json:"lotNumber,omitempty"`
	Name           string   `json:"title"`
	CurrentBid     *float64 `json:"currentBid,omitempty"`
	EstimatedValue *float64 `json:"estimatedValue,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	URL            string   `json:"url,omitempty"`
	NumberOfBids   *int     `json:"numberOfBids,omitempty"`
	EndTime        string   `json:"endTime,omitempty"`
	Consignor      string   `json:"consignor,omitempty"`
	Condition      string   `json:"condition,omitempty"`
}

func (GoldinRawItem) Marketplace() Marketplace { return MarketplaceGoldin }
