package models

import "time"

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Observation is one price seen for a card on a marketplace, active or sold.
type Observation struct {
	ObservedAt  time.Time
	Marketplace Marketplace
	ListingID   string
	Query       string
	Player      string
	Year        int
	Brand       string
	Sport       Sport
	Price       float64
	Sold        bool
	DealScore   float64
}

// MarketStats summarizes recent observations for one query.
type MarketStats struct {
	Query        string  `json:"query"`
	AveragePrice float64 `json:"averagePrice"`
	MedianPrice  float64 `json:"medianPrice"`
	LowestPrice  float64 `json:"lowestPrice"`
	HighestPrice float64 `json:"highestPrice"`
	Volume       int     `json:"volume"`
	Trend        Trend   `json:"trend"`
	// ChangePct compares the recent half of the window with the older half, in percent.
	ChangePct   float64   `json:"changePct"`
	LastUpdated time.Time `json:"lastUpdated"`
}
