package cardparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"CardScout/internal/domain/models"

	"github.com/google/uuid"
)

var (
	yearRegexp       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	gradeTokenRegexp = regexp.MustCompile(`(?i)\b(PSA|BGS|CGC|SGC)\s*\d+`)
	stopwordRegexp   = regexp.MustCompile(`(?i)\b(Rookie|RC|Auto|Autograph|Patch|Jersey|Prizm|Refractor)\b`)
	cardNumberRegexp = regexp.MustCompile(`#(\d+[A-Z]*)`)
	// gradeRegexp also accepts half grades (BGS 9.5) and HGA.
	gradeRegexp = regexp.MustCompile(`(?i)\b(PSA|BGS|CGC|SGC|HGA)\s*(10|[1-9](?:\.5)?)\b`)
)

// Brands in match order; the first substring hit wins.
var Brands = []string{"Topps", "Panini", "Upper Deck", "Bowman", "Fleer", "Donruss", "Prizm", "Select", "Optic"}

type sportKeywords struct {
	sport    models.Sport
	keywords []string
}

// sportTable is tested top to bottom. "football" appears for both football and
// soccer; football is listed first so it always wins that tie.
var sportTable = []sportKeywords{
	{models.SportBaseball, []string{"baseball", "mlb", "topps", "bowman"}},
	{models.SportBasketball, []string{"basketball", "nba", "hoops", "prizm"}},
	{models.SportFootball, []string{"football", "nfl", "score"}},
	{models.SportHockey, []string{"hockey", "nhl", "opc"}},
	{models.SportSoccer, []string{"soccer", "football", "uefa"}},
}

var (
	rookieKeywords     = []string{"rookie", "rc"}
	autographKeywords  = []string{"auto", "autograph"}
	memorabiliaKeyword = []string{"patch", "jersey"}
)

// ParseTitle extracts card attributes from a free-text listing title.
// It never fails: anything it cannot find falls back to a default.
func ParseTitle(title string) models.Card {
	return parseAt(title, time.Now())
}

func parseAt(title string, now time.Time) models.Card {
	lower := strings.ToLower(title)
	return models.Card{
		ID:                "card-" + uuid.NewString(),
		Title:             title,
		Player:            ExtractPlayerName(title),
		Year:              extractYear(title, now),
		Brand:             extractBrand(lower),
		CardNumber:        ExtractCardNumber(title),
		Sport:             extractSport(lower),
		IsRookie:          containsAny(lower, rookieKeywords),
		IsAutograph:       containsAny(lower, autographKeywords),
		IsMemorabiliaCard: containsAny(lower, memorabiliaKeyword),
	}
}

func extractYear(title string, now time.Time) int {
	if m := yearRegexp.FindString(title); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			return y
		}
	}
	return now.Year()
}

func extractBrand(lower string) string {
	for _, b := range Brands {
		if strings.Contains(lower, strings.ToLower(b)) {
			return b
		}
	}
	return models.UnknownBrand
}

func extractSport(lower string) models.Sport {
	for _, s := range sportTable {
		if containsAny(lower, s.keywords) {
			return s.sport
		}
	}
	return models.SportOther
}

// ExtractPlayerName isolates a best-effort player name: the first three
// remaining words once years, grades, stopwords and numbered tokens are gone.
func ExtractPlayerName(title string) string {
	cleaned := yearRegexp.ReplaceAllString(title, " ")
	cleaned = gradeTokenRegexp.ReplaceAllString(cleaned, " ")
	cleaned = stopwordRegexp.ReplaceAllString(cleaned, " ")

	words := make([]string, 0, 3)
	for _, w := range strings.Fields(cleaned) {
		if strings.ContainsRune(w, '#') || strings.IndexFunc(w, unicode.IsDigit) >= 0 {
			continue
		}
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		words = append(words, w)
		if len(words) == 3 {
			break
		}
	}
	return strings.Join(words, " ")
}

// ExtractCardNumber returns the digits (and trailing capitals) after the first '#', or "".
func ExtractCardNumber(title string) string {
	m := cardNumberRegexp.FindStringSubmatch(title)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// ExtractGrade finds a "PSA 10" / "BGS 9.5" style token.
func ExtractGrade(title string) (models.GradingCompany, *float64) {
	m := gradeRegexp.FindStringSubmatch(title)
	if len(m) < 3 {
		return "", nil
	}
	g, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return "", nil
	}
	return models.GradingCompany(strings.ToUpper(m[1])), &g
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
