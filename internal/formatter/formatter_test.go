package formatter

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/models"
	th "github.com/desertthunder/moviefight/internal/testing"
)

func history() []*models.Matchup {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return []*models.Matchup{
		{
			ID: "m2", Sequence: 2,
			FirstTitle: "Alien", FirstBoxOffice: "$80,931,801", FirstRating: "8.5",
			SecondTitle: "Aliens", SecondBoxOffice: "$85,160,248", SecondRating: "8.4",
			Outcome: "tie", CreatedAt: created,
		},
		{
			ID: "m1", Sequence: 1,
			FirstTitle: "Batman", FirstBoxOffice: "$100,000", FirstRating: "7.5",
			SecondTitle: "Superman", SecondBoxOffice: "$50", SecondRating: "7.4",
			Outcome: "first", CreatedAt: created,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"txt", FormatText},
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"csv", FormatCSV},
		{"json", FormatJSON},
	}
	for _, tt := range tc {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestMatchupRendering(t *testing.T) {
	t.Run("MatchupToText", func(t *testing.T) {
		data, err := MatchupToText(compare.Compare(th.Batman, th.Superman))
		if err != nil {
			t.Fatalf("MatchupToText failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{"Movie 1", "Movie 2", "Batman (1989)", "Superman (1978)", "$100,000 ▲", "$50 ▼", "7.5 ▲", "7.4 ▼", "Batman wins."} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("MatchupToText with an empty slot", func(t *testing.T) {
		data, err := MatchupToText(compare.Compare(nil, th.Superman))
		if err != nil {
			t.Fatalf("MatchupToText failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "Pick two movies") {
			t.Errorf("expected prompt for incomplete matchup, got:\n%s", output)
		}
		if !strings.Contains(output, "$50 ▲") {
			t.Errorf("a present movie should beat an empty slot, got:\n%s", output)
		}
	})

	t.Run("MatchupToText tie", func(t *testing.T) {
		data, _ := MatchupToText(compare.Compare(th.Batman, th.Batman))
		if !strings.Contains(string(data), "It's a tie.") {
			t.Errorf("expected tie verdict, got:\n%s", data)
		}
		if strings.ContainsAny(string(data), "▲▼") {
			t.Errorf("tied metrics should not be marked, got:\n%s", data)
		}
	})

	t.Run("MatchupToMarkdown", func(t *testing.T) {
		t.Run("without posters", func(t *testing.T) {
			data, err := MatchupToMarkdown(compare.Compare(th.Superman, th.Batman), nil)
			if err != nil {
				t.Fatalf("MatchupToMarkdown failed: %v", err)
			}
			output := string(data)

			if !strings.HasPrefix(output, "# Superman vs Batman") {
				t.Errorf("unexpected heading, got:\n%s", output)
			}
			if !strings.Contains(output, "| Box Office | $50 | **$100,000** |") {
				t.Errorf("expected winning value in bold, got:\n%s", output)
			}
			if strings.Contains(output, "![") {
				t.Error("no posters should be embedded")
			}
		})

		t.Run("with posters", func(t *testing.T) {
			data, _ := MatchupToMarkdown(compare.Compare(th.Batman, th.Superman), map[models.Slot]string{models.First: "first.jpg"})
			if !strings.Contains(string(data), "![Movie 1](first.jpg)") {
				t.Errorf("expected poster image, got:\n%s", data)
			}
		})
	})
}

func TestRecordToText(t *testing.T) {
	t.Run("prints metrics and present fields", func(t *testing.T) {
		data, err := RecordToText(th.Batman)
		if err != nil {
			t.Fatalf("RecordToText() error = %v", err)
		}

		out := string(data)
		for _, want := range []string{"Batman (1989)", "$100,000", "7.5", "tt0096895"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "Director") {
			t.Error("empty fields should be omitted")
		}
	})

	t.Run("N/A metrics", func(t *testing.T) {
		data, err := RecordToText(&models.MovieRecord{Title: "Obscure", Rated: models.NotAvailable})
		if err != nil {
			t.Fatalf("RecordToText() error = %v", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "Box Office") && !strings.HasSuffix(line, models.NotAvailable) {
				t.Errorf("missing box office should read N/A, got %q", line)
			}
		}
		if strings.Contains(string(data), "Rated") {
			t.Error("N/A optional fields should be omitted")
		}
	})

	t.Run("nil record", func(t *testing.T) {
		if _, err := RecordToText(nil); err == nil {
			t.Error("expected error for nil record")
		}
	})
}

func TestResultsRendering(t *testing.T) {
	t.Run("ResultsToText", func(t *testing.T) {
		data, err := ResultsToText(th.BatmanResults)
		if err != nil {
			t.Fatalf("ResultsToText failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if !strings.HasPrefix(lines[0], "1.") || !strings.Contains(lines[0], "Batman") {
			t.Errorf("unexpected first line %q", lines[0])
		}
		if !strings.Contains(lines[1], "tt0372784") {
			t.Errorf("expected ID on second line, got %q", lines[1])
		}
	})

	t.Run("ResultsToText empty", func(t *testing.T) {
		data, _ := ResultsToText(nil)
		if string(data) != "No results.\n" {
			t.Errorf("unexpected output %q", data)
		}
	})

	t.Run("ResultsToMarkdown", func(t *testing.T) {
		data, _ := ResultsToMarkdown("batman", th.BatmanResults)
		output := string(data)
		if !strings.Contains(output, `# Results for "batman"`) {
			t.Errorf("missing heading, got:\n%s", output)
		}
		if !strings.Contains(output, "https://www.imdb.com/title/tt0096895/") {
			t.Errorf("missing IMDb link, got:\n%s", output)
		}
	})
}

func TestHistoryRendering(t *testing.T) {
	t.Run("HistoryToCSV", func(t *testing.T) {
		data, err := HistoryToCSV(history())
		if err != nil {
			t.Fatalf("HistoryToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("CSV output does not parse: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(records))
		}
		if records[0][0] != "ID" || records[0][8] != "Outcome" {
			t.Errorf("unexpected headers %v", records[0])
		}
		if records[1][2] != "Alien" || records[1][3] != "$80,931,801" {
			t.Errorf("box office with commas should survive quoting, got %v", records[1])
		}
		if records[2][9] != "2025-03-14T09:30:00Z" {
			t.Errorf("expected RFC3339 timestamp, got %s", records[2][9])
		}
	})

	t.Run("HistoryToMarkdown", func(t *testing.T) {
		data, _ := HistoryToMarkdown(history())
		output := string(data)
		if !strings.Contains(output, "**Matchups**: 2") {
			t.Errorf("missing count, got:\n%s", output)
		}
		if !strings.Contains(output, "| 1 | Batman | Superman | first | 2025-03-14 |") {
			t.Errorf("missing row, got:\n%s", output)
		}
	})

	t.Run("HistoryToText", func(t *testing.T) {
		data, _ := HistoryToText(history())
		if !strings.Contains(string(data), "#2") || !strings.Contains(string(data), "Aliens") {
			t.Errorf("unexpected output:\n%s", data)
		}
		if !strings.Contains(string(data), " ago") {
			t.Errorf("expected a relative timestamp:\n%s", data)
		}

		empty, _ := HistoryToText(nil)
		if string(empty) != "No comparisons yet.\n" {
			t.Errorf("unexpected empty output %q", empty)
		}
	})

	t.Run("HistoryTo", func(t *testing.T) {
		for _, f := range []Format{FormatText, FormatMarkdown, FormatCSV} {
			if _, err := HistoryTo(f, history()); err != nil {
				t.Errorf("HistoryTo(%s) error = %v", f, err)
			}
		}
		if _, err := HistoryTo(FormatJSON, history()); err == nil {
			t.Error("JSON is rendered by the caller and should be rejected here")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpegdata"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "jpegdata" {
			t.Errorf("unexpected body %q", data)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteMatchupMarkdown", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing.jpg" {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte("poster"))
		}))
		defer server.Close()

		first := *th.Batman
		first.Poster = server.URL + "/batman.jpg"
		second := *th.Superman
		second.Poster = server.URL + "/missing.jpg"

		var warnings []string
		warn := func(msg string, kv ...any) { warnings = append(warnings, msg) }

		dir := filepath.Join(t.TempDir(), "batman-vs-superman")
		result, err := WriteMatchupMarkdown(compare.Compare(&first, &second), dir, warn)
		if err != nil {
			t.Fatalf("WriteMatchupMarkdown failed: %v", err)
		}

		if len(result.Posters) != 1 {
			t.Errorf("expected 1 poster, got %v", result.Posters)
		}
		if len(warnings) != 1 {
			t.Errorf("expected 1 warning for the missing poster, got %v", warnings)
		}

		readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
		if err != nil {
			t.Fatalf("README.md not written: %v", err)
		}
		if !strings.Contains(string(readme), "![Movie 1](first.jpg)") {
			t.Errorf("README should embed the downloaded poster, got:\n%s", readme)
		}
		if _, err := os.Stat(filepath.Join(dir, "first.jpg")); err != nil {
			t.Errorf("poster file missing: %v", err)
		}
	})

	t.Run("WriteMatchupMarkdown requires a directory", func(t *testing.T) {
		if _, err := WriteMatchupMarkdown(compare.Matchup{}, "", nil); err == nil {
			t.Error("expected error for empty directory")
		}
	})

	t.Run("WriteExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "history.csv")
		if err := WriteExport([]byte("a,b\n"), path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil || string(data) != "a,b\n" {
			t.Errorf("unexpected file contents %q (%v)", data, err)
		}
	})
}
