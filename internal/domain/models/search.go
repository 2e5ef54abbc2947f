package models

type SortOrder string

const (
	SortBestMatch     SortOrder = "best_match"
	SortPrice         SortOrder = "price"
	SortPriceDesc     SortOrder = "price_desc"
	SortEndingSoonest SortOrder = "ending_soonest"
	SortNewlyListed   SortOrder = "newly_listed"
)

type BuyingFormat string

const (
	BuyingAuction    BuyingFormat = "AUCTION"
	BuyingFixedPrice BuyingFormat = "FIXED_PRICE"
)

// SearchQuery is the marketplace-neutral search input handed to every adapter.
type SearchQuery struct {
	Keywords      string
	Limit         int
	Offset        int
	Sport         Sport
	Sort          SortOrder
	MinPrice      float64
	MaxPrice      float64
	BuyingFormats []BuyingFormat
	// SoldOnly asks for completed sales where the marketplace supports it,
	// ended within the last SoldWithinDays days.
	SoldOnly       bool
	SoldWithinDays int
}

// SearchResult is the raw output of one marketplace adapter.
type SearchResult struct {
	Marketplace Marketplace
	Total       int
	Items       []RawListing
}

// DealSearchResult is the scored, merged output of a deal search.
type DealSearchResult struct {
	Total  int                    `json:"total"`
	Items  []ScoredListing        `json:"items"`
	Totals map[Marketplace]int    `json:"totals"`
	Errors map[Marketplace]string `json:"errors,omitempty"`
}
