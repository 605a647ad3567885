// OMDb [Gateway] implementation
//
// Talks to https://www.omdbapi.com/ using the apikey query parameter.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviefight/internal/models"
	"github.com/desertthunder/moviefight/internal/shared"
	"golang.org/x/time/rate"
)

const defaultOMDbBaseURL string = "https://www.omdbapi.com/"

// omdbMovie is the body of a t= lookup.
type omdbMovie struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	Metascore  string `json:"Metascore"`
	IMDbRating string `json:"imdbRating"`
	IMDbID     string `json:"imdbID"`
	BoxOffice  string `json:"BoxOffice"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// omdbSearchItem is one row of an s= search.
type omdbSearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type omdbSearch struct {
	Search       []omdbSearchItem `json:"Search"`
	TotalResults string           `json:"totalResults"`
	Response     string           `json:"Response"`
	Error        string           `json:"Error"`
}

// OMDbOpts configures an [OMDbService].
type OMDbOpts struct {
	APIKey     string
	BaseURL    string       // defaults to https://www.omdbapi.com/
	RateLimit  float64      // requests per second; zero or less disables limiting
	HTTPClient *http.Client // defaults to [http.DefaultClient]
	Logger     *log.Logger
}

// OMDbService implements the [Gateway] interface against the OMDb API.
type OMDbService struct {
	apiKey     string
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewOMDbService creates a new OMDb gateway. The API key is required.
func NewOMDbService(opts OMDbOpts) (*OMDbService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: omdb api key", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultOMDbBaseURL
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %v", shared.ErrInvalidConfig, err)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &OMDbService{
		apiKey:     opts.APIKey,
		baseURL:    base,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     shared.WithLogger(opts.Logger, "gateway", "omdb"),
	}, nil
}

// Name returns the service name.
func (o *OMDbService) Name() string {
	return "OMDb"
}

// Lookup fetches the full record for title.
//
// Calls GET /?apikey=...&t=<title>.
func (o *OMDbService) Lookup(ctx context.Context, title string) Result[*models.MovieRecord] {
	var body omdbMovie
	if err := o.get(ctx, url.Values{"t": {title}}, &body); err != nil {
		o.logger.Warn("lookup failed", "title", title, "err", err)
		return failed[*models.MovieRecord](TransportFailure, err)
	}

	if body.Response != "True" {
		err := fmt.Errorf("%w: %s", shared.ErrMovieNotFound, responseError(body.Error))
		o.logger.Debug("lookup found nothing", "title", title, "err", err)
		return failed[*models.MovieRecord](NotFound, err)
	}

	return ok(body.record())
}

// Search returns the rows matching query in service order.
//
// Calls GET /?apikey=...&s=<query>.
func (o *OMDbService) Search(ctx context.Context, query string) Result[[]models.MovieSummary] {
	var body omdbSearch
	if err := o.get(ctx, url.Values{"s": {query}}, &body); err != nil {
		o.logger.Warn("search failed", "query", query, "err", err)
		return failed[[]models.MovieSummary](TransportFailure, err)
	}

	if body.Response != "True" || len(body.Search) == 0 {
		err := fmt.Errorf("%w: %s", shared.ErrNoResults, responseError(body.Error))
		o.logger.Debug("search found nothing", "query", query, "err", err)
		return Result[[]models.MovieSummary]{Value: []models.MovieSummary{}, Outcome: NotFound, Err: err}
	}

	summaries := make([]models.MovieSummary, len(body.Search))
	for i, item := range body.Search {
		summaries[i] = models.MovieSummary{Title: item.Title, Year: item.Year, ID: item.IMDbID}
	}

	return ok(summaries)
}

// get issues a rate-limited GET with params plus the API key and decodes the JSON body into result.
// params are merged over any query the base URL already carries.
func (o *OMDbService) get(ctx context.Context, params url.Values, result any) error {
	if err := o.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := *o.baseURL
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	q.Set("apikey", o.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"Error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%w: omdb status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("%w: omdb status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (m omdbMovie) record() *models.MovieRecord {
	poster := m.Poster
	if poster == models.NotAvailable {
		poster = ""
	}

	return &models.MovieRecord{
		Title:     m.Title,
		Year:      m.Year,
		Poster:    poster,
		BoxOffice: orNotAvailable(m.BoxOffice),
		Rating:    orNotAvailable(m.IMDbRating),
		IMDbID:    m.IMDbID,
		Rated:     m.Rated,
		Runtime:   m.Runtime,
		Genre:     m.Genre,
		Director:  m.Director,
		Plot:      m.Plot,
		Metascore: m.Metascore,
	}
}

func orNotAvailable(v string) string {
	if strings.TrimSpace(v) == "" {
		return models.NotAvailable
	}
	return v
}

func responseError(msg string) string {
	if msg == "" {
		return "empty response"
	}
	return msg
}
