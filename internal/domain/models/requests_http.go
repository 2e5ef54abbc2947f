package models

// Requests for the HTTP endpoints. Bound by echo, defaulted by creasty/defaults, validated by validator tags.

type DealSearchRequest struct {
	Keywords     string  `query:"keywords" json:"keywords" validate:"required,max=200"`
	Marketplace  string  `query:"marketplace" json:"marketplace" default:"all" validate:"oneof=all ebay pwcc goldin fanatics"`
	Sport        string  `query:"sport" json:"sport" default:"all" validate:"oneof=all baseball basketball football hockey soccer"`
	Sort         string  `query:"sort" json:"sort" default:"best_match" validate:"oneof=best_match price price_desc ending_soonest newly_listed"`
	Limit        int     `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=200"`
	Offset       int     `query:"offset" json:"offset" validate:"gte=0"`
	MinScore     float64 `query:"min_score" json:"min_score" validate:"gte=0,lte=5"`
	MinPrice     float64 `query:"min_price" json:"min_price" validate:"gte=0"`
	MaxPrice     float64 `query:"max_price" json:"max_price" validate:"gte=0"`
	BuyingFormat string  `query:"buying_format" json:"buying_format" validate:"omitempty,oneof=auction fixed_price"`
}

type EvaluateURLRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

type ScoreRequest struct {
	Analysis CardAnalysis    `json:"analysis"`
	Weights  *ScoringWeights `json:"weights,omitempty" validate:"omitempty"`
}

type MarketSummaryRequest struct {
	Query string `query:"q" json:"q" validate:"required"`
	Days  int    `query:"days" json:"days" default:"90" validate:"gte=1,lte=365"`
}

type PortfolioItemRequest struct {
	Player         string   `json:"player" validate:"required"`
	Year           int      `json:"year" validate:"gte=1800,lte=2100"`
	Set            string   `json:"set" validate:"required"`
	CardNumber     string   `json:"cardNumber"`
	Grade          *float64 `json:"grade" validate:"omitempty,gte=1,lte=10"`
	GradingCompany string   `json:"gradingCompany" validate:"omitempty,oneof=PSA BGS CGC SGC HGA"`
	PurchasePrice  *float64 `json:"purchasePrice" validate:"omitempty,gte=0"`
	PurchaseDate   string   `json:"purchaseDate" validate:"omitempty,datetime=2006-01-02"`
	CurrentValue   *float64 `json:"currentValue" validate:"omitempty,gte=0"`
	Quantity       int      `json:"quantity" default:"1" validate:"gte=1"`
	Notes          string   `json:"notes" validate:"max=1000"`
}

type WatchlistItemRequest struct {
	CardName    string   `json:"cardName" validate:"required"`
	CardSet     string   `json:"cardSet"`
	CardNumber  string   `json:"cardNumber"`
	MarketPrice *float64 `json:"marketPrice" validate:"omitempty,gte=0"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	ListingURL  string   `json:"listingUrl" validate:"omitempty,url"`
	Notes       string   `json:"notes" validate:"max=1000"`
}

type PriceAlertRequest struct {
	CardName    string  `json:"cardName" validate:"required"`
	TargetPrice float64 `json:"targetPrice" validate:"gt=0"`
	Marketplace string  `json:"marketplace" default:"all" validate:"oneof=all ebay pwcc goldin"`
	AlertType   string  `json:"alertType" default:"below" validate:"oneof=below above"`
}

type AlertToggleRequest struct {
	IsActive bool `json:"isActive"`
}

type SavedSearchRequest struct {
	SearchQuery string `json:"searchQuery" validate:"required,max=200"`
	Filters     string `json:"filters" validate:"max=2000"`
}
