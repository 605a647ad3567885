// package models defines the data model for the movie comparison service
package models

import (
	"fmt"
	"strings"
	"time"
)

// NotAvailable is the literal the metadata service uses for a missing field.
const NotAvailable = "N/A"

// MovieSummary is a single search-result row.
type MovieSummary struct {
	Title string `json:"title"`
	Year  string `json:"year"`
	ID    string `json:"id"`
}

// MovieRecord is the full detail record for a selected movie.
//
// BoxOffice and Rating keep the service's formatting (e.g. "$100,000", "7.5") and may hold [NotAvailable].
type MovieRecord struct {
	Title     string `json:"title"`
	Year      string `json:"year,omitempty"`
	Poster    string `json:"poster,omitempty"` // empty when the service has no poster
	BoxOffice string `json:"box_office"`
	Rating    string `json:"rating"`
	IMDbID    string `json:"imdb_id,omitempty"`
	Rated     string `json:"rated,omitempty"`
	Runtime   string `json:"runtime,omitempty"`
	Genre     string `json:"genre,omitempty"`
	Director  string `json:"director,omitempty"`
	Plot      string `json:"plot,omitempty"`
	Metascore string `json:"metascore,omitempty"`
}

// HasPoster reports whether the record carries a usable poster URL.
func (r *MovieRecord) HasPoster() bool {
	return r != nil && r.Poster != "" && r.Poster != NotAvailable
}

// Slot identifies which comparison side a selection targets.
type Slot int

const (
	First Slot = iota
	Second
)

// Slots lists both sides in display order.
var Slots = [2]Slot{First, Second}

func (s Slot) String() string {
	switch s {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// MarshalText implements [encoding.TextMarshaler] so slots serialize as "first"/"second".
func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler] using [ParseSlot].
func (s *Slot) UnmarshalText(text []byte) error {
	v, err := ParseSlot(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Label is the human-facing name of the slot.
func (s Slot) Label() string {
	return fmt.Sprintf("Movie %d", int(s)+1)
}

// ParseSlot accepts "first"/"1" and "second"/"2", case-insensitively.
func ParseSlot(v string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "first", "1":
		return First, nil
	case "second", "2":
		return Second, nil
	default:
		return 0, fmt.Errorf("unknown slot %q", v)
	}
}

// Classification is the outcome of one metric for one side.
type Classification int

const (
	Tie Classification = iota
	Winner
	Loser
)

// String returns the visual treatment key ("winner", "loser", "tie").
func (c Classification) String() string {
	switch c {
	case Winner:
		return "winner"
	case Loser:
		return "loser"
	default:
		return "tie"
	}
}

// MarshalText implements [encoding.TextMarshaler] so classifications serialize as their keys.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler] for the keys written by MarshalText.
func (c *Classification) UnmarshalText(text []byte) error {
	switch string(text) {
	case "winner":
		*c = Winner
	case "loser":
		*c = Loser
	case "tie":
		*c = Tie
	default:
		return fmt.Errorf("unknown classification %q", text)
	}
	return nil
}

// Matchup is a completed comparison kept in the history.
type Matchup struct {
	ID              string    `json:"id"`
	Sequence        int       `json:"sequence"`
	FirstTitle      string    `json:"first_title"`
	FirstBoxOffice  string    `json:"first_box_office"`
	FirstRating     string    `json:"first_rating"`
	SecondTitle     string    `json:"second_title"`
	SecondBoxOffice string    `json:"second_box_office"`
	SecondRating    string    `json:"second_rating"`
	Outcome         string    `json:"outcome"`
	CreatedAt       time.Time `json:"created_at"`
}

// Validate checks the fields required for persistence.
func (m *Matchup) Validate() error {
	if m.FirstTitle == "" || m.SecondTitle == "" {
		return fmt.Errorf("matchup requires both titles")
	}
	if m.Outcome == "" {
		return fmt.Errorf("matchup requires an outcome")
	}
	return nil
}
