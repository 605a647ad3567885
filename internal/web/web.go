// Package web serves the comparison page in a browser.
//
// Every visitor gets a [session.Session] from the shared [session.Store], found again through the
// moviefight_session cookie. Form posts run the matching session action and redirect back to the page,
// so the app works without JavaScript. Requests that accept JSON get the state snapshot instead.
//
// Routes
//
//	GET  /            comparison page
//	POST /query       replace the query text (q)
//	POST /search      search for q, or the current query when q is absent
//	POST /select      load a result (title, year, id) into a slot (first|second)
//	GET  /api/state   JSON snapshot with classifications
//	GET  /static/*    embedded stylesheet
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/models"
	"github.com/desertthunder/moviefight/internal/session"
	"github.com/desertthunder/moviefight/internal/shared"
	"github.com/go-chi/chi/v5"
)

// CookieName is the cookie holding the session ID.
const CookieName = "moviefight_session"

//go:embed templates/*.html static/*
var assets embed.FS

// App is the web front end. It implements server.Handler.
type App struct {
	store  *session.Store
	page   *template.Template
	static http.Handler
	logger *log.Logger
}

// New creates the web front end over store.
func New(store *session.Store, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	page, err := template.ParseFS(assets, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}

	return &App{
		store:  store,
		page:   page,
		static: http.StripPrefix("/static/", http.FileServerFS(static)),
		logger: shared.WithLogger(logger, "component", "web"),
	}, nil
}

// Routes registers the page, form actions, state API and static assets.
func (a *App) Routes(r chi.Router) {
	r.Get("/", a.index)
	r.Post("/query", a.query)
	r.Post("/search", a.search)
	r.Post("/select", a.selectMovie)
	r.Get("/api/state", a.state)
	r.Handle("/static/*", a.static)
}

// session returns the caller's session, issuing a cookie for a new one.
func (a *App) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(CookieName); err == nil {
		id = c.Value
	}

	s, created := a.store.Ensure(id)
	if created {
		a.logger.Debug("new session", "id", s.ID())
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    s.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

func (a *App) index(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.page.Execute(w, newPage(s.Snapshot(), s.Phase())); err != nil {
		a.logger.Error("failed to render page", "err", err)
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
	}
}

func (a *App) query(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	a.respond(w, r, s, s.EditQuery(r.PostForm.Get("q")))
}

func (a *App) search(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	if r.PostForm.Has("q") {
		s.EditQuery(r.PostForm.Get("q"))
	}
	a.respond(w, r, s, s.Search(r.Context()))
}

func (a *App) selectMovie(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	slot, err := models.ParseSlot(r.PostForm.Get("slot"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary := models.MovieSummary{
		Title: strings.TrimSpace(r.PostForm.Get("title")),
		Year:  r.PostForm.Get("year"),
		ID:    r.PostForm.Get("id"),
	}
	if summary.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	a.respond(w, r, s, s.Select(r.Context(), summary, slot))
}

func (a *App) state(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	writeJSON(w, a.logger, newStateView(s.Snapshot(), s.Phase()))
}

// respond sends the new state to JSON clients and redirects browsers back to the page.
func (a *App) respond(w http.ResponseWriter, r *http.Request, s *session.Session, st session.State) {
	if wantsJSON(r) {
		writeJSON(w, a.logger, newStateView(st, s.Phase()))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, logger *log.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode JSON response", "err", err)
	}
}

// StateView is the JSON form of a session's state.
type StateView struct {
	Query     string                `json:"query"`
	Phase     string                `json:"phase"`
	Results   []models.MovieSummary `json:"results"`
	Loading   bool                  `json:"loading"`
	CanSearch bool                  `json:"can_search"`
	Matchup   compare.Matchup       `json:"matchup"`
	Outcome   string                `json:"outcome,omitempty"` // set once both slots are filled
}

func newStateView(st session.State, phase session.Phase) StateView {
	v := StateView{
		Query:     st.Query,
		Phase:     phase.String(),
		Results:   st.Results,
		Loading:   st.Loading,
		CanSearch: st.CanSearch(),
		Matchup:   st.Matchup(),
	}
	if v.Results == nil {
		v.Results = []models.MovieSummary{}
	}
	if v.Matchup.Complete() {
		v.Outcome = v.Matchup.Outcome()
	}
	return v
}

type panelView struct {
	Slot      models.Slot
	Label     string
	Record    *models.MovieRecord
	BoxOffice models.Classification
	Rating    models.Classification
}

type pageView struct {
	StateView
	Panels  []panelView
	Verdict string
}

func newPage(st session.State, phase session.Phase) pageView {
	p := pageView{StateView: newStateView(st, phase)}

	for _, slot := range models.Slots {
		side := p.Matchup.Side(slot)
		p.Panels = append(p.Panels, panelView{
			Slot:      slot,
			Label:     slot.Label(),
			Record:    side.Record,
			BoxOffice: side.BoxOffice,
			Rating:    side.Rating,
		})
	}

	switch p.Outcome {
	case "":
	case models.Tie.String():
		p.Verdict = "It's a tie!"
	default:
		slot, _ := models.ParseSlot(p.Outcome)
		p.Verdict = fmt.Sprintf("%s wins!", p.Matchup.Side(slot).Record.Title)
	}
	return p
}
