// package formatter renders comparisons, search results and history as plain text, Markdown and CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/models"
	"github.com/dustin/go-humanize"
)

// Format names an output format accepted by the CLI.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat accepts the names above plus the "md" and "txt" shorthands.
func ParseFormat(v string) (Format, error) {
	switch v {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q", v)
	}
}

// marker decorates a value with its classification for plain text output.
func marker(c models.Classification) string {
	switch c {
	case models.Winner:
		return " ▲"
	case models.Loser:
		return " ▼"
	default:
		return ""
	}
}

func field(r *models.MovieRecord, get func(*models.MovieRecord) string) string {
	if r == nil {
		return "-"
	}
	if v := get(r); v != "" {
		return v
	}
	return models.NotAvailable
}

func title(r *models.MovieRecord) string {
	return field(r, func(r *models.MovieRecord) string {
		if r.Year != "" {
			return fmt.Sprintf("%s (%s)", r.Title, r.Year)
		}
		return r.Title
	})
}

func boxOffice(r *models.MovieRecord) string { return field(r, func(r *models.MovieRecord) string { return r.BoxOffice }) }
func rating(r *models.MovieRecord) string { return field(r, func(r *models.MovieRecord) string { return r.Rating }) }

// verdict describes the overall result in words.
func verdict(m compare.Matchup) string {
	if !m.Complete() {
		return "Pick two movies to compare."
	}
	switch m.Overall() {
	case models.Winner:
		return fmt.Sprintf("%s wins.", m.First.Record.Title)
	case models.Loser:
		return fmt.Sprintf("%s wins.", m.Second.Record.Title)
	default:
		return "It's a tie."
	}
}

// MatchupToText renders m as a side-by-side table. Winning metrics are marked ▲ and losing ones ▼.
func MatchupToText(m compare.Matchup) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)

	fmt.Fprintf(w, "\t%s\t%s\n", models.First.Label(), models.Second.Label())
	fmt.Fprintf(w, "Title\t%s\t%s\n", title(m.First.Record), title(m.Second.Record))
	fmt.Fprintf(w, "Box Office\t%s%s\t%s%s\n",
		boxOffice(m.First.Record), marker(m.First.BoxOffice),
		boxOffice(m.Second.Record), marker(m.Second.BoxOffice),
	)
	fmt.Fprintf(w, "IMDb Rating\t%s%s\t%s%s\n",
		rating(m.First.Record), marker(m.First.Rating),
		rating(m.Second.Record), marker(m.Second.Rating),
	)

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write table: %w", err)
	}

	buf.WriteString("\n" + verdict(m) + "\n")
	return buf.Bytes(), nil
}

// MatchupToMarkdown renders m as a Markdown table.
//
// posters maps a slot to an image path to embed above the table; missing entries are skipped.
func MatchupToMarkdown(m compare.Matchup, posters map[models.Slot]string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s vs %s\n\n", field(m.First.Record, titleOnly), field(m.Second.Record, titleOnly))

	for _, slot := range models.Slots {
		if p, ok := posters[slot]; ok && p != "" {
			fmt.Fprintf(&buf, "![%s](%s) ", slot.Label(), p)
		}
	}
	if len(posters) > 0 {
		buf.WriteString("\n\n")
	}

	fmt.Fprintf(&buf, "| | %s | %s |\n", models.First.Label(), models.Second.Label())
	buf.WriteString("|---|---|---|\n")
	fmt.Fprintf(&buf, "| Title | %s | %s |\n", title(m.First.Record), title(m.Second.Record))
	fmt.Fprintf(&buf, "| Box Office | %s | %s |\n",
		emphasize(boxOffice(m.First.Record), m.First.BoxOffice),
		emphasize(boxOffice(m.Second.Record), m.Second.BoxOffice),
	)
	fmt.Fprintf(&buf, "| IMDb Rating | %s | %s |\n",
		emphasize(rating(m.First.Record), m.First.Rating),
		emphasize(rating(m.Second.Record), m.Second.Rating),
	)

	fmt.Fprintf(&buf, "\n**Result**: %s\n", verdict(m))
	return buf.Bytes(), nil
}

func titleOnly(r *models.MovieRecord) string { return r.Title }

func emphasize(v string, c models.Classification) string {
	if c == models.Winner {
		return "**" + v + "**"
	}
	return v
}

// RecordToText renders one record as aligned label/value lines. Empty optional fields are omitted.
func RecordToText(r *models.MovieRecord) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("nil record")
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Title\t%s\n", title(r))
	fmt.Fprintf(w, "Box Office\t%s\n", boxOffice(r))
	fmt.Fprintf(w, "IMDb Rating\t%s\n", rating(r))
	for _, f := range []struct{ label, value string }{
		{"Rated", r.Rated},
		{"Runtime", r.Runtime},
		{"Genre", r.Genre},
		{"Director", r.Director},
		{"Metascore", r.Metascore},
		{"IMDb ID", r.IMDbID},
		{"Poster", r.Poster},
		{"Plot", r.Plot},
	} {
		if f.value != "" && f.value != models.NotAvailable {
			fmt.Fprintf(w, "%s\t%s\n", f.label, f.value)
		}
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write record: %w", err)
	}
	return buf.Bytes(), nil
}

// ResultsToText lists search rows, numbered from 1, in service order.
func ResultsToText(results []models.MovieSummary) ([]byte, error) {
	var buf bytes.Buffer
	if len(results) == 0 {
		buf.WriteString("No results.\n")
		return buf.Bytes(), nil
	}

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for i, r := range results {
		fmt.Fprintf(w, "%d.\t%s\t%s\t%s\n", i+1, r.Title, r.Year, r.ID)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write results: %w", err)
	}
	return buf.Bytes(), nil
}

// ResultsToMarkdown lists search rows as a Markdown list.
func ResultsToMarkdown(query string, results []models.MovieSummary) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Results for %q\n\n", query)
	for i, r := range results {
		fmt.Fprintf(&buf, "%d. %s (%s) [%s](https://www.imdb.com/title/%s/)\n", i+1, r.Title, r.Year, r.ID, r.ID)
	}
	return buf.Bytes(), nil
}

var historyHeaders = []string{
	"ID", "Sequence", "First Title", "First Box Office", "First Rating",
	"Second Title", "Second Box Office", "Second Rating", "Outcome", "Created At",
}

// HistoryToCSV converts matchups to CSV with one row per comparison.
func HistoryToCSV(matchups []*models.Matchup) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(historyHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range matchups {
		record := []string{
			m.ID,
			strconv.Itoa(m.Sequence),
			m.FirstTitle,
			m.FirstBoxOffice,
			m.FirstRating,
			m.SecondTitle,
			m.SecondBoxOffice,
			m.SecondRating,
			m.Outcome,
			m.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToMarkdown converts matchups to a Markdown table.
func HistoryToMarkdown(matchups []*models.Matchup) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Comparison History\n\n")
	fmt.Fprintf(&buf, "**Matchups**: %d\n\n", len(matchups))

	buf.WriteString("| # | Movie 1 | Movie 2 | Outcome | Date |\n")
	buf.WriteString("|---|---|---|---|---|\n")
	for _, m := range matchups {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s |\n",
			m.Sequence, m.FirstTitle, m.SecondTitle, m.Outcome, m.CreatedAt.Format(time.DateOnly),
		)
	}

	return buf.Bytes(), nil
}

// HistoryToText converts matchups to one line per comparison, with relative timestamps.
func HistoryToText(matchups []*models.Matchup) ([]byte, error) {
	var buf bytes.Buffer
	if len(matchups) == 0 {
		buf.WriteString("No comparisons yet.\n")
		return buf.Bytes(), nil
	}

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, m := range matchups {
		fmt.Fprintf(w, "#%d\t%s\tvs\t%s\t%s\t%s\t%s\n",
			m.Sequence, m.FirstTitle, m.SecondTitle, m.Outcome, humanize.Time(m.CreatedAt), m.ID,
		)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write history: %w", err)
	}
	return buf.Bytes(), nil
}

// HistoryTo renders matchups in format f. JSON is handled by the caller.
func HistoryTo(f Format, matchups []*models.Matchup) ([]byte, error) {
	switch f {
	case FormatCSV:
		return HistoryToCSV(matchups)
	case FormatMarkdown:
		return HistoryToMarkdown(matchups)
	case FormatText:
		return HistoryToText(matchups)
	default:
		return nil, fmt.Errorf("unsupported history format %q", f)
	}
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMatchupMarkdown
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Posters   []string
}

// WriteMatchupMarkdown writes m to {dir}/README.md, downloading each side's poster next to it.
//
// Poster failures are reported through warn and otherwise skipped.
func WriteMatchupMarkdown(m compare.Matchup, outputDir string, warn func(msg string, kv ...any)) (*MarkdownExportResult, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("empty output directory")
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}
	posters := map[models.Slot]string{}

	for _, slot := range models.Slots {
		r := m.Side(slot).Record
		if !r.HasPoster() {
			continue
		}

		data, err := DownloadImage(r.Poster)
		if err != nil {
			warn("failed to download poster", "slot", slot, "err", err)
			continue
		}

		name := slot.String() + ".jpg"
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			warn("failed to save poster", "slot", slot, "err", err)
			continue
		}

		posters[slot] = name
		result.Posters = append(result.Posters, path)
		result.Files = append(result.Files, path)
	}

	mdData, err := MatchupToMarkdown(m, posters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteExport writes data to path, creating parent directories as needed.
func WriteExport(data []byte, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
