package models

import "time"

type PortfolioItem struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Player         string     `json:"player"`
	Year           int        `json:"year"`
	Set            string     `json:"set"`
	CardNumber     string     `json:"cardNumber,omitempty"`
	Grade          *float64   `json:"grade,omitempty"`
	GradingCompany string     `json:"gradingCompany,omitempty"`
	PurchasePrice  *float64   `json:"purchasePrice,omitempty"`
	PurchaseDate   *time.Time `json:"purchaseDate,omitempty"`
	CurrentValue   *float64   `json:"currentValue,omitempty"`
	Quantity       int        `json:"quantity"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// PortfolioSummary aggregates a user's holdings.
type PortfolioSummary struct {
	Items      int     `json:"items"`
	Cards      int     `json:"cards"`
	TotalCost  float64 `json:"totalCost"`
	TotalValue float64 `json:"totalValue"`
	Gain       float64 `json:"gain"`
	GainPct    float64 `json:"gainPct"`
}

type WatchlistItem struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CardName    string    `json:"cardName"`
	CardSet     string    `json:"cardSet,omitempty"`
	CardNumber  string    `json:"cardNumber,omitempty"`
	MarketPrice *float64  `json:"marketPrice,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	ListingURL  string    `json:"listingUrl,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AlertType string

const (
	AlertBelow AlertType = "below"
	AlertAbove AlertType = "above"
)

type PriceAlert struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	CardName          string     `json:"cardName"`
	TargetPrice       float64    `json:"targetPrice"`
	Marketplace       string     `json:"marketplace"`
	AlertType         AlertType  `json:"alertType"`
	IsActive          bool       `json:"isActive"`
	LastChecked       *time.Time `json:"lastChecked,omitempty"`
	LastTriggered     *time.Time `json:"lastTriggered,omitempty"`
	NotificationCount int        `json:"notificationCount"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// Matches reports whether price satisfies the alert condition.
func (a PriceAlert) Matches(price float64) bool {
	switch a.AlertType {
	case AlertAbove:
		return price >= a.TargetPrice
	default:
		return price <= a.TargetPrice
	}
}

type SavedSearch struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SearchQuery string    `json:"searchQuery"`
	Filters     string    `json:"filters,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AlertTriggered is emitted when a price alert condition is met.
type AlertTriggered struct {
	AlertID     string      `json:"alertId"`
	UserID      string      `json:"userId"`
	CardName    string      `json:"cardName"`
	AlertType   AlertType   `json:"alertType"`
	TargetPrice float64     `json:"targetPrice"`
	Price       float64     `json:"price"`
	Marketplace Marketplace `json:"marketplace"`
	ListingURL  string      `json:"listingUrl"`
	TriggeredAt time.Time   `json:"triggeredAt"`
}

// AlertCheckResult reports one "check now" pass.
type AlertCheckResult struct {
	AlertsChecked     int               `json:"alertsChecked"`
	NotificationsSent int               `json:"notificationsSent"`
	Triggered         []AlertTriggered  `json:"triggered"`
	Errors            map[string]string `json:"errors,omitempty"`
}

// ImportError describes one rejected CSV row. Row is 1-based and counts the header.
type ImportError struct {
	Row   int    `json:"row,omitempty"`
	Error string `json:"error"`
}

type ImportResult struct {
	Total    int           `json:"total"`
	Imported int           `json:"imported"`
	Errors   []ImportError `json:"errors,omitempty"`
}
