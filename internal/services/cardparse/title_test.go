package cardparse

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"CardScout/internal/domain/models"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func TestParseTitleLeBronRookie(t *testing.T) {
	c := parseAt("2003 Topps Chrome LeBron James #111 Rookie", fixedNow)

	if c.Year != 2003 {
		t.Fatalf("year = %d; want 2003", c.Year)
	}
	if c.Brand != "Topps" {
		t.Fatalf("brand = %q; want Topps", c.Brand)
	}
	if !c.IsRookie {
		t.Fatalf("expected rookie")
	}
	if c.CardNumber != "111" {
		t.Fatalf("card number = %q; want 111", c.CardNumber)
	}
	// "topps" is a baseball keyword and baseball is tested first.
	if c.Sport != models.SportBaseball {
		t.Fatalf("sport = %q; want baseball", c.Sport)
	}
	if c.Player != "Topps Chrome LeBron" {
		t.Fatalf("player = %q", c.Player)
	}
	if !strings.HasPrefix(c.ID, "card-") {
		t.Fatalf("unexpected id %q", c.ID)
	}
}

func TestParseTitleNoMatches(t *testing.T) {
	c := parseAt("xyz", fixedNow)

	if c.Year != 2026 {
		t.Fatalf("year = %d; want current year", c.Year)
	}
	if c.Brand != models.UnknownBrand {
		t.Fatalf("brand = %q", c.Brand)
	}
	if c.Sport != models.SportOther {
		t.Fatalf("sport = %q", c.Sport)
	}
	if c.IsRookie || c.IsAutograph || c.IsMemorabiliaCard {
		t.Fatalf("unexpected flags %+v", c)
	}
	// three letters survive the short-word filter
	if c.Player != "xyz" {
		t.Fatalf("player = %q", c.Player)
	}
	if c.CardNumber != "" {
		t.Fatalf("card number = %q", c.CardNumber)
	}
}

func TestParseTitleEmpty(t *testing.T) {
	c := parseAt("", fixedNow)
	if c.Year != 2026 || c.Brand != models.UnknownBrand || c.Sport != models.SportOther || c.Player != "" {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestExtractBrandOrder(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"2019 Panini Prizm Zion Williamson", "Panini"},
		{"2018 Donruss Optic Luka Doncic", "Donruss"},
		{"1989 UPPER DECK Ken Griffey Jr", "Upper Deck"},
		{"2020 Select Joe Burrow", "Select"},
		{"Optic Holo Ja Morant", "Optic"},
		{"Bowman Chrome 1st", "Bowman"},
		{"Leaf Metal Draft", models.UnknownBrand},
	}
	for _, tt := range tests {
		c := parseAt(tt.title, fixedNow)
		if c.Brand != tt.want {
			t.Errorf("brand(%q) = %q; want %q", tt.title, c.Brand, tt.want)
		}
	}
}

func TestExtractSportTieBreak(t *testing.T) {
	tests := []struct {
		title string
		want  models.Sport
	}{
		{"2020 Panini Football Patrick Mahomes", models.SportFootball},
		{"Football Club Legends", models.SportFootball},
		{"2021 UEFA Erling Haaland", models.SportSoccer},
		{"NHL Young Guns Connor McDavid", models.SportHockey},
		{"Hoops Michael Jordan", models.SportBasketball},
		{"MLB Shohei Ohtani", models.SportBaseball},
		{"Pokemon Charizard", models.SportOther},
	}
	for _, tt := range tests {
		c := parseAt(tt.title, fixedNow)
		if c.Sport != tt.want {
			t.Errorf("sport(%q) = %q; want %q", tt.title, c.Sport, tt.want)
		}
	}
}

func TestExtractPlayerName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"1986 Fleer Michael Jordan #57 PSA 8", "Fleer Michael Jordan"},
		{"Mike Trout 2011 Topps Update #US175 RC", "Mike Trout Topps"},
		{"Tom Brady Auto Patch 2000", "Tom Brady"},
		{"Ja Morant Prizm Refractor BGS 9.5", "Morant"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := ExtractPlayerName(tt.title); got != tt.want {
			t.Errorf("ExtractPlayerName(%q) = %q; want %q", tt.title, got, tt.want)
		}
	}
}

func TestExtractCardNumber(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Topps #111", "111"},
		{"Topps #175A Update", "175A"},
		{"Topps #175a", "175"},
		{"Topps #US175", ""},
		{"no number", ""},
		{"#12 and #13", "12"},
	}
	for _, tt := range tests {
		if got := ExtractCardNumber(tt.title); got != tt.want {
			t.Errorf("ExtractCardNumber(%q) = %q; want %q", tt.title, got, tt.want)
		}
	}
}

func TestParseTitleFlags(t *testing.T) {
	c := parseAt("2018 Panini National Treasures RPA Auto Jersey", fixedNow)
	if !c.IsAutograph || !c.IsMemorabiliaCard {
		t.Fatalf("expected autograph and memorabilia, got %+v", c)
	}
	if c.IsRookie {
		t.Fatalf("did not expect rookie")
	}
}

func TestExtractGrade(t *testing.T) {
	company, grade := ExtractGrade("2003 Topps Chrome LeBron BGS 9.5")
	if company != models.GradingBGS || grade == nil || *grade != 9.5 {
		t.Fatalf("got %v %v", company, grade)
	}
	company, grade = ExtractGrade("psa 10 gem mint")
	if company != models.GradingPSA || grade == nil || *grade != 10 {
		t.Fatalf("got %v %v", company, grade)
	}
	if company, grade = ExtractGrade("raw card"); company != "" || grade != nil {
		t.Fatalf("expected no grade, got %v %v", company, grade)
	}
}

func TestParseTitleIsTotal(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	alphabet := []rune("abcXYZ 0123456789#-/.,éü日本 PSA RC auto 19 20")
	for i := 0; i < 2000; i++ {
		n := r.Intn(40)
		b := make([]rune, n)
		for j := range b {
			b[j] = alphabet[r.Intn(len(alphabet))]
		}
		c := parseAt(string(b), fixedNow)
		if c.Year < 1000 || c.Year > 9999 {
			t.Fatalf("year %d not 4 digits for %q", c.Year, string(b))
		}
		if !c.Sport.IsValid() {
			t.Fatalf("invalid sport %q for %q", c.Sport, string(b))
		}
	}
}
