package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coin-dashboard-go/internal/dashboard"
	"coin-dashboard-go/internal/highlights"
	"coin-dashboard-go/internal/models"
	"coin-dashboard-go/internal/view"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Dashboard is the part of the store the handlers drive.
type Dashboard interface {
	Snapshot() dashboard.Snapshot
	Params() dashboard.Params
	Refresh() error
	SetPage(page int) error
	SetSortOrder(order models.SortOrder) error
	SetSearch(term string) error
	SubmitSearch(term string)
	SetCurrency(currency string) error
}

// Diagnostics lists journaled fetch failures.
type Diagnostics interface {
	Recent(ctx context.Context, resource string, limit int) ([]models.FetchFailure, error)
	Count(ctx context.Context) (map[string]int64, error)
}

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log           *zap.Logger
	store         Dashboard
	diagnostics   Diagnostics
	favorites     *view.Favorites
	tabs          *view.Tabs
	rowsPerPage   int
	highlightRows int
}

// NewAPIHandler creates a new APIHandler. diagnostics may be nil.
func NewAPIHandler(log *zap.Logger, store Dashboard, diagnostics Diagnostics, rowsPerPage, highlightRows int) *APIHandler {
	if rowsPerPage <= 0 {
		rowsPerPage = 10
	}
	if highlightRows <= 0 {
		highlightRows = 10
	}
	return &APIHandler{
		log:           log,
		store:         store,
		diagnostics:   diagnostics,
		favorites:     view.NewFavorites(),
		tabs:          view.NewTabs(view.DefaultTabs(), view.TabAll),
		rowsPerPage:   rowsPerPage,
		highlightRows: highlightRows,
	}
}

// Routes registers every endpoint on r.
func (h *APIHandler) Routes(r *mux.Router) {
	r.HandleFunc("/", h.IndexHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", h.StatusHandler).Methods(http.MethodGet)
	api.HandleFunc("/coins", h.CoinsHandler).Methods(http.MethodGet)
	api.HandleFunc("/global", h.GlobalHandler).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.CategoriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/highlights", h.HighlightsHandler).Methods(http.MethodGet)
	api.HandleFunc("/highlights/{kind}", h.HighlightHandler).Methods(http.MethodGet)
	api.HandleFunc("/diagnostics", h.DiagnosticsHandler).Methods(http.MethodGet)
	api.HandleFunc("/refresh", h.RefreshHandler).Methods(http.MethodPost)
	api.HandleFunc("/params", h.ParamsHandler).Methods(http.MethodPost)
	api.HandleFunc("/sort/{column}", h.SortHandler).Methods(http.MethodPost)
	api.HandleFunc("/favorites/{id}", h.FavoriteHandler).Methods(http.MethodPost)
	api.HandleFunc("/tabs/{id}", h.TabHandler).Methods(http.MethodPost)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("Failed to encode response", zap.Error(err))
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// StatusResponse summarizes the dashboard state.
type StatusResponse struct {
	Params        dashboard.Params `json:"params"`
	Loading       bool             `json:"loading"`
	BlockingError string           `json:"blocking_error,omitempty"`
	Coins         dashboard.Status `json:"coins"`
	Global        dashboard.Status `json:"global"`
	Categories    dashboard.Status `json:"categories"`
	ActiveTab     string           `json:"active_tab"`
	Favorites     []string         `json:"favorites"`
}

// StatusHandler returns the status of every resource.
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	h.writeJSON(w, http.StatusOK, StatusResponse{
		Params:        snap.Params,
		Loading:       snap.Loading(),
		BlockingError: snap.BlockingError(),
		Coins:         snap.Coins.Status,
		Global:        snap.Global.Status,
		Categories:    snap.Categories.Status,
		ActiveTab:     h.tabs.Active().ID,
		Favorites:     h.favorites.IDs(),
	})
}

// CoinsResponse is one client-side page of the fetched listing.
type CoinsResponse struct {
	Params    dashboard.Params   `json:"params"`
	Status    dashboard.Status   `json:"status"`
	Error     string             `json:"error,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
	Page      view.Page[CoinRow] `json:"page"`
}

func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid page %q", raw)
	}
	return page, nil
}

// CoinsHandler returns a page of the coin table.
func (h *APIHandler) CoinsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	snap := h.store.Snapshot()
	h.writeJSON(w, http.StatusOK, CoinsResponse{
		Params:    snap.Params,
		Status:    snap.Coins.Status,
		Error:     snap.Coins.Err,
		UpdatedAt: snap.Coins.UpdatedAt,
		Page:      view.Paginate(coinRows(snap.Coins.Data, h.favorites), h.rowsPerPage, page),
	})
}

// GlobalHandler returns the market overview. Fetch failures are not
// reported; the summary stays loading.
func (h *APIHandler) GlobalHandler(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	h.writeJSON(w, http.StatusOK, struct {
		Status  dashboard.Status         `json:"status"`
		Summary GlobalSummary            `json:"summary"`
		Data    *models.GlobalMarketData `json:"data,omitempty"`
	}{snap.Global.Status, newGlobalSummary(snap.Global, snap.Params.Currency), snap.Global.Data})
}

// CategoriesHandler returns the categories, largest market cap first.
func (h *APIHandler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	h.writeJSON(w, http.StatusOK, struct {
		Status     dashboard.Status `json:"status"`
		Error      string           `json:"error,omitempty"`
		Categories []CategoryRow    `json:"categories"`
	}{snap.Categories.Status, snap.Categories.Err, categoryRows(snap.TopCategories)})
}

// HighlightsHandler returns every highlight card cut to the preview size.
func (h *APIHandler) HighlightsHandler(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	h.writeJSON(w, http.StatusOK, struct {
		Status dashboard.Status      `json:"status"`
		Cards  []highlights.CardData `json:"cards"`
	}{snap.Coins.Status, snap.Highlights.Cards(h.highlightRows)})
}

// HighlightHandler returns the full list of one highlight kind.
func (h *APIHandler) HighlightHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := highlights.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	coins, err := h.store.Snapshot().Highlights.Get(kind)
	if err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	h.writeJSON(w, http.StatusOK, highlights.NewCard(kind, coins))
}

// DiagnosticsHandler returns the most recent fetch failures.
func (h *APIHandler) DiagnosticsHandler(w http.ResponseWriter, r *http.Request) {
	if h.diagnostics == nil {
		h.writeError(w, http.StatusNotFound, errors.New("diagnostics journal disabled"))
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	failures, err := h.diagnostics.Recent(r.Context(), r.URL.Query().Get("resource"), limit)
	if err != nil {
		h.log.Error("Failed to get fetch failures from database", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, errors.New("failed to get fetch failures"))
		return
	}
	counts, err := h.diagnostics.Count(r.Context())
	if err != nil {
		h.log.Error("Failed to count fetch failures", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, errors.New("failed to count fetch failures"))
		return
	}
	h.writeJSON(w, http.StatusOK, struct {
		Counts   map[string]int64      `json:"counts"`
		Failures []models.FetchFailure `json:"failures"`
	}{counts, failures})
}

// RefreshHandler refetches every resource.
func (h *APIHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Refresh(); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, h.store.Params())
}

// ParamsRequest changes fetch parameters; absent fields are left alone.
// With Debounce set, Search is applied after the typing pause.
type ParamsRequest struct {
	Page     *int    `json:"page"`
	Sort     *string `json:"sort"`
	Search   *string `json:"search"`
	Currency *string `json:"currency"`
	Debounce bool    `json:"debounce"`
}

func (req ParamsRequest) validate() (models.SortOrder, error) {
	var order models.SortOrder
	if req.Sort != nil {
		var err error
		if order, err = models.ParseSortOrder(*req.Sort); err != nil {
			return "", err
		}
	}
	if req.Currency != nil && strings.TrimSpace(*req.Currency) == "" {
		return "", dashboard.ErrInvalidCurrency
	}
	if req.Page != nil && *req.Page < 1 {
		return "", fmt.Errorf("%w: %d", dashboard.ErrInvalidPage, *req.Page)
	}
	return order, nil
}

// ParamsHandler applies a ParamsRequest.
func (h *APIHandler) ParamsHandler(w http.ResponseWriter, r *http.Request) {
	var req ParamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	// every field is checked before any of them is applied
	order, err := req.validate()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.Sort != nil {
		err = h.store.SetSortOrder(order)
	}
	if err == nil && req.Currency != nil {
		err = h.store.SetCurrency(*req.Currency)
	}
	if err == nil && req.Page != nil {
		err = h.store.SetPage(*req.Page)
	}
	if err == nil && req.Search != nil {
		if req.Debounce {
			h.store.SubmitSearch(*req.Search)
		} else {
			err = h.store.SetSearch(*req.Search)
		}
	}
	if err != nil {
		h.writeError(w, statusOf(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.store.Params())
}

// SortHandler toggles the sort order by a column click.
func (h *APIHandler) SortHandler(w http.ResponseWriter, r *http.Request) {
	order, err := view.ToggleSort(h.store.Params().Sort, view.Column(mux.Vars(r)["column"]))
	if err == nil {
		err = h.store.SetSortOrder(order)
	}
	if err != nil {
		h.writeError(w, statusOf(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.store.Params())
}

// FavoriteHandler stars or unstars a coin.
func (h *APIHandler) FavoriteHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.writeJSON(w, http.StatusOK, struct {
		ID       string `json:"id"`
		Favorite bool   `json:"favorite"`
	}{id, h.favorites.Toggle(id)})
}

// TabHandler switches the active tab.
func (h *APIHandler) TabHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.tabs.Select(mux.Vars(r)["id"]); err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.tabs.Active())
}

func statusOf(err error) int {
	if errors.Is(err, dashboard.ErrStopped) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

// pageData feeds templates/index.html.
type pageData struct {
	Params     dashboard.Params
	Loading    bool
	Blocking   string
	Tabs       []view.Tab
	Active     view.Tab
	Global     GlobalSummary
	Columns    []ColumnHeader
	Coins      view.Page[CoinRow]
	PrevPage   int
	NextPage   int
	CoinsError string
	Cards      []CardView
	Categories []CategoryRow
}

// IndexHandler renders the dashboard page. The tab query parameter
// switches tabs, page moves through the table.
func (h *APIHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if tab := r.URL.Query().Get("tab"); tab != "" {
		if err := h.tabs.Select(tab); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}
	page, err := pageParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := h.store.Snapshot()
	data := pageData{
		Params:     snap.Params,
		Loading:    snap.Loading(),
		Blocking:   snap.BlockingError(),
		Tabs:       h.tabs.All(),
		Active:     h.tabs.Active(),
		Global:     newGlobalSummary(snap.Global, snap.Params.Currency),
		Columns:    columnHeaders(snap.Params.Sort),
		Coins:      view.Paginate(coinRows(snap.Coins.Data, h.favorites), h.rowsPerPage, page),
		CoinsError: snap.Coins.Err,
		Cards:      cardViews(snap.Highlights.Cards(h.highlightRows)),
		Categories: categoryRows(snap.TopCategories),
	}

	data.PrevPage, data.NextPage = data.Coins.Number-1, data.Coins.Number+1

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		h.log.Error("Failed to render page", zap.Error(err))
	}
}
