package normalize

import (
	"testing"

	"CardScout/internal/domain/models"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeEbay(t *testing.T) {
	raw := models.EbayRawItem{
		ItemID:          "v1|1234|0",
		Title:           "2003 Topps Chrome LeBron James #111 Rookie PSA 10",
		Price:           &models.Money{Value: "1500.50", Currency: "USD"},
		Condition:       "Graded",
		Seller:          &models.EbaySeller{Username: "cardshop"},
		Image:           &models.EbayImage{ImageURL: "https://i.ebayimg.com/1.jpg"},
		ItemEndDate:     "2026-11-01T10:00:00Z",
		BuyingOptions:   []string{"AUCTION", "FIXED_PRICE"},
		CurrentBidPrice: &models.Money{Value: "900"},
		BidCount:        intPtr(7),
		WatchCount:      intPtr(42),
		ShippingOptions: []models.EbayShipping{{ShippingCost: &models.Money{Value: "4.99"}}},
	}

	l := Normalize(raw)

	if l.ID != "v1|1234|0" || l.Marketplace != models.MarketplaceEbay {
		t.Fatalf("unexpected identity %q %q", l.ID, l.Marketplace)
	}
	if l.Price != 1500.50 || l.Currency != "USD" {
		t.Fatalf("price = %v %s", l.Price, l.Currency)
	}
	if l.Seller != "cardshop" || l.Condition != "Graded" {
		t.Fatalf("seller/condition = %q/%q", l.Seller, l.Condition)
	}
	if l.ListingURL != "https://www.ebay.com/itm/v1|1234|0" {
		t.Fatalf("listing url fallback = %q", l.ListingURL)
	}
	if len(l.ImageURLs) != 1 || l.ImageURLs[0] != "https://i.ebayimg.com/1.jpg" {
		t.Fatalf("images = %v", l.ImageURLs)
	}
	if !l.IsAuction || !l.IsBuyNow {
		t.Fatalf("expected auction and buy-now")
	}
	if l.CurrentBid == nil || *l.CurrentBid != 900 {
		t.Fatalf("current bid = %v", l.CurrentBid)
	}
	if l.BidCount == nil || *l.BidCount != 7 || l.Watchers == nil || *l.Watchers != 42 {
		t.Fatalf("bids/watchers not mapped")
	}
	if l.ShippingCost == nil || *l.ShippingCost != 4.99 {
		t.Fatalf("shipping = %v", l.ShippingCost)
	}
	if l.EndDate == nil || l.EndDate.Year() != 2026 {
		t.Fatalf("end date = %v", l.EndDate)
	}
	if l.Card.Year != 2003 || l.Card.Brand != "Topps" || !l.Card.IsRookie {
		t.Fatalf("card not parsed: %+v", l.Card)
	}
	if l.GradingCompany != models.GradingPSA || l.Grade == nil || *l.Grade != 10 {
		t.Fatalf("grade from title = %v %v", l.GradingCompany, l.Grade)
	}
}

func TestNormalizeEbayMissingFields(t *testing.T) {
	l := Normalize(models.EbayRawItem{ItemID: "1"})

	if l.Price != 0 {
		t.Fatalf("price = %v; want 0", l.Price)
	}
	if l.Condition != DefaultCondition || l.Currency != DefaultCurrency {
		t.Fatalf("defaults not applied: %q %q", l.Condition, l.Currency)
	}
	if l.ImageURLs == nil || len(l.ImageURLs) != 0 {
		t.Fatalf("images = %#v; want empty list", l.ImageURLs)
	}
	if l.Card.Brand != models.UnknownBrand || l.Card.Sport != models.SportOther {
		t.Fatalf("card defaults = %+v", l.Card)
	}
	if l.IsAuction || l.IsBuyNow {
		t.Fatalf("no buying options should leave both flags false")
	}
}

func TestNormalizeEbayBadPrice(t *testing.T) {
	for _, v := range []string{"", "abc", "NaN", "Inf"} {
		l := Normalize(models.EbayRawItem{Price: &models.Money{Value: v}})
		if l.Price != 0 {
			t.Errorf("price(%q) = %v; want 0", v, l.Price)
		}
	}
}

func TestNormalizeEbayAspects(t *testing.T) {
	l := Normalize(models.EbayRawItem{
		Title: "Ken Griffey Jr Upper Deck",
		LocalizedAspects: []models.EbayItemAspect{
			{Name: "Professional Grader", Value: "Beckett Grading Services (BGS)"},
			{Name: "Grade", Value: "9.5"},
		},
	})
	if l.GradingCompany != models.GradingBGS || l.Grade == nil || *l.Grade != 9.5 {
		t.Fatalf("aspects not mapped: %v %v", l.GradingCompany, l.Grade)
	}
	if !l.IsGraded() {
		t.Fatalf("expected graded listing")
	}
}

func TestNormalizePwcc(t *testing.T) {
	l := Normalize(models.PwccRawItem{
		ID:             "555",
		Title:          "1986 Fleer Michael Jordan #57",
		CurrentBid:     floatPtr(12000),
		Bids:           intPtr(31),
		Image:          "https://pwcc/img.jpg",
		Seller:         "PWCC",
		Grade:          floatPtr(8),
		GradingCompany: "PSA",
	})

	if l.Marketplace != models.MarketplacePWCC || l.Price != 12000 {
		t.Fatalf("unexpected %q %v", l.Marketplace, l.Price)
	}
	if !l.IsAuction || l.IsBuyNow {
		t.Fatalf("flags auction=%v buyNow=%v", l.IsAuction, l.IsBuyNow)
	}
	if l.ListingURL != "https://www.pwccmarketplace.com/lot/555" {
		t.Fatalf("url = %q", l.ListingURL)
	}
	if l.GradingCompany != models.GradingPSA || *l.Grade != 8 {
		t.Fatalf("grade = %v %v", l.GradingCompany, *l.Grade)
	}
	if l.Card.CardNumber != "57" {
		t.Fatalf("card number = %q", l.Card.CardNumber)
	}
}

func TestNormalizePwccBuyNow(t *testing.T) {
	l := Normalize(models.PwccRawItem{ID: "9", Title: "x", BuyNowPrice: floatPtr(250)})
	if !l.IsBuyNow || l.IsAuction || l.Price != 250 {
		t.Fatalf("buy now listing mapped wrong: %+v", l)
	}
}

func TestNormalizeGoldin(t *testing.T) {
	l := Normalize(models.GoldinRawItem{
		ID:             "g1",
		Name:           "2018 Panini Prizm Luka Doncic BGS 9.5",
		EstimatedValue: floatPtr(3000),
		NumberOfBids:   intPtr(0),
		ImageURL:       "https://goldin/img.png",
		EndTime:        "not a time",
	})

	if l.Marketplace != models.MarketplaceGoldin || l.Price != 3000 || !l.IsAuction {
		t.Fatalf("unexpected %+v", l)
	}
	if l.EndDate != nil {
		t.Fatalf("unparseable end time should be dropped")
	}
	if l.GradingCompany != models.GradingBGS || *l.Grade != 9.5 {
		t.Fatalf("grade = %v %v", l.GradingCompany, l.Grade)
	}
	if l.Card.Sport != models.SportBasketball {
		t.Fatalf("sport = %q", l.Card.Sport)
	}
}

func TestNormalizeMissingTitle(t *testing.T) {
	for _, raw := range []models.RawListing{models.EbayRawItem{}, models.PwccRawItem{}, models.GoldinRawItem{}} {
		l := Normalize(raw)
		if l.Card.Brand != models.UnknownBrand || l.Card.Player != "" || l.Card.Sport != models.SportOther {
			t.Fatalf("%T: card defaults = %+v", raw, l.Card)
		}
	}
}

func TestFieldTablesCoverCanonicalKeys(t *testing.T) {
	required := []string{"id", "card", "price", "condition", "seller", "listingUrl", "imageUrls", "endDate", "currentBid", "bidCount"}
	tables := map[string]map[string]string{
		"ebay":   EbayFields.Keys(),
		"pwcc":   PwccFields.Keys(),
		"goldin": GoldinFields.Keys(),
	}
	for name, keys := range tables {
		targets := map[string]bool{}
		for _, target := range keys {
			targets[target] = true
		}
		for _, want := range required {
			if !targets[want] {
				t.Errorf("%s table has no mapping to %q", name, want)
			}
		}
	}
	if EbayFields.Keys()["watchCount"] != "watchers" || EbayFields.Keys()["itemWebUrl"] != "listingUrl" {
		t.Fatalf("ebay table lost its documented keys")
	}
}

func TestNormalizeAllSkipsNil(t *testing.T) {
	out := NormalizeAll([]models.RawListing{models.EbayRawItem{ItemID: "a"}, nil, models.PwccRawItem{ID: "b"}})
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Fatalf("unexpected %+v", out)
	}
}
