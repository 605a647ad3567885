// Package compare turns two optional movie records into winner/loser/tie classifications.
//
// Every function here is pure. Missing records and malformed fields read as zero instead of failing,
// so a half-filled comparison still renders: a present movie with a positive value beats an empty slot,
// and two empty slots tie.
package compare

import (
	"math"
	"strconv"
	"strings"

	"github.com/desertthunder/moviefight/internal/models"
)

// Number is the set of metric value types the engine classifies.
type Number interface {
	~int64 | ~float64
}

// ExtractBoxOffice reads the box-office gross of r as a whole number of currency units.
//
// Every non-digit character is discarded before parsing, so "$1,234,567" and "1.234.567 €" both yield 1234567.
// An absent record, an empty or [models.NotAvailable] field, a field with no digits, or one that overflows int64 yields 0.
func ExtractBoxOffice(r *models.MovieRecord) int64 {
	if r == nil || r.BoxOffice == "" || r.BoxOffice == models.NotAvailable {
		return 0
	}

	digits := strings.Map(func(c rune) rune {
		if c >= '0' && c <= '9' {
			return c
		}
		return -1
	}, r.BoxOffice)
	if digits == "" {
		return 0
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ExtractRating reads the audience rating of r as a float.
//
// Only plain decimals with an optional leading sign are accepted. An absent record, an empty or
// [models.NotAvailable] field, or anything else ("NaN", "Inf", "0x1p3", "1_0", "7.5/10") yields 0.
func ExtractRating(r *models.MovieRecord) float64 {
	if r == nil || r.Rating == "" || r.Rating == models.NotAvailable {
		return 0
	}

	v := strings.TrimSpace(r.Rating)
	if !isDecimal(v) {
		return 0
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// isDecimal reports whether v is an optional sign followed by digits with at most one '.'.
func isDecimal(v string) bool {
	if v != "" && (v[0] == '+' || v[0] == '-') {
		v = v[1:]
	}

	digits, dots := 0, 0
	for _, c := range v {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// Classify reports how a fares against b.
func Classify[T Number](a, b T) models.Classification {
	switch {
	case a > b:
		return models.Winner
	case a < b:
		return models.Loser
	default:
		return models.Tie
	}
}

// Side is one comparison panel: its record (nil when empty) and how each metric classifies against the other side.
type Side struct {
	Slot      models.Slot           `json:"slot"`
	Record    *models.MovieRecord   `json:"record"`
	BoxOffice models.Classification `json:"box_office"`
	Rating    models.Classification `json:"rating"`
}

// Empty reports whether no movie occupies the side.
func (s Side) Empty() bool { return s.Record == nil }

// Matchup holds both sides of a comparison.
type Matchup struct {
	First  Side `json:"first"`
	Second Side `json:"second"`
}

// Compare classifies both sides independently.
//
// Each side uses its own ordered pair, so the two classifications mirror each other but share no state.
func Compare(first, second *models.MovieRecord) Matchup {
	return Matchup{
		First:  side(models.First, first, second),
		Second: side(models.Second, second, first),
	}
}

func side(slot models.Slot, own, other *models.MovieRecord) Side {
	return Side{
		Slot:      slot,
		Record:    own,
		BoxOffice: Classify(ExtractBoxOffice(own), ExtractBoxOffice(other)),
		Rating:    Classify(ExtractRating(own), ExtractRating(other)),
	}
}

// Side returns the panel for slot.
func (m Matchup) Side(slot models.Slot) Side {
	if slot == models.Second {
		return m.Second
	}
	return m.First
}

// Complete reports whether both slots hold a movie.
func (m Matchup) Complete() bool {
	return !m.First.Empty() && !m.Second.Empty()
}

// Overall tallies metric wins for the first side and classifies the tally.
//
// Winner means the first movie took more metrics, Loser means the second did.
func (m Matchup) Overall() models.Classification {
	score := func(c models.Classification) int64 {
		switch c {
		case models.Winner:
			return 1
		case models.Loser:
			return -1
		}
		return 0
	}
	return Classify(score(m.First.BoxOffice)+score(m.First.Rating), 0)
}

// Outcome names the overall result: "first", "second", or "tie".
func (m Matchup) Outcome() string {
	switch m.Overall() {
	case models.Winner:
		return models.First.String()
	case models.Loser:
		return models.Second.String()
	default:
		return models.Tie.String()
	}
}

// Record flattens a complete matchup into its history form.
func (m Matchup) Record() models.Matchup {
	flat := models.Matchup{Outcome: m.Outcome()}
	if r := m.First.Record; r != nil {
		flat.FirstTitle, flat.FirstBoxOffice, flat.FirstRating = r.Title, r.BoxOffice, r.Rating
	}
	if r := m.Second.Record; r != nil {
		flat.SecondTitle, flat.SecondBoxOffice, flat.SecondRating = r.Title, r.BoxOffice, r.Rating
	}
	return flat
}
