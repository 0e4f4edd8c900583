package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/nguyenvanduocit/rag-cost-calculator/internal/calculator"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/model"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/pricing"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/sampletext"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/share"
	"github.com/nguyenvanduocit/rag-cost-calculator/internal/tokens"
	"github.com/nguyenvanduocit/rag-cost-calculator/server/internal/auth"
	"github.com/nguyenvanduocit/rag-cost-calculator/server/internal/database"
	"github.com/nguyenvanduocit/rag-cost-calculator/server/internal/metrics"
)

// sampleTextLimit caps the word count served by the sample text endpoint.
// The generator itself has no limit; this only guards the HTTP surface.
const sampleTextLimit = 500

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db         *database.DB
	sessionMgr *scs.SessionManager
	templates  *template.Template
	table      map[string]model.PriceEntry
	metrics    *metrics.Metrics
}

// ModelOption is one pricing table entry prepared for the model selector
type ModelOption struct {
	ID          string
	DisplayName string
	Description string
	InputPer1K  float64
	OutputPer1K float64
}

// New creates a new Handler
func New(db *database.DB, sessionMgr *scs.SessionManager, templates *template.Template, table map[string]model.PriceEntry, m *metrics.Metrics) *Handler {
	return &Handler{
		db:         db,
		sessionMgr: sessionMgr,
		templates:  templates,
		table:      table,
		metrics:    m,
	}
}

// defaultConfig is the workload the form starts out with
func defaultConfig() model.UsageConfig {
	return model.UsageConfig{
		Model:                   "gpt-4o",
		DailyUsers:              100,
		ConversationsPerUser:    3,
		MessagesPerConversation: 5,
		WordsPerChunk:           200,
		ChunksPerQuery:          2,
		QueryWords:              18,
		ResponseWords:           60,
	}
}

func (h *Handler) modelOptions() []ModelOption {
	opts := make([]ModelOption, 0, len(h.table))
	for _, id := range pricing.IDs(h.table) {
		entry := h.table[id]
		opts = append(opts, ModelOption{
			ID:          id,
			DisplayName: entry.DisplayName,
			Description: entry.Description,
			InputPer1K:  entry.InputPer1K,
			OutputPer1K: entry.OutputPer1K,
		})
	}
	return opts
}

// pageData assembles the template payload for the index page and the
// fragments that re-render parts of it
func (h *Handler) pageData(r *http.Request, cfg model.UsageConfig, notice string) map[string]interface{} {
	var user *database.User
	if userID := h.sessionMgr.GetString(r.Context(), "userID"); userID != "" {
		user, _ = h.db.GetUserByID(userID)
	}

	var scenarios []database.Scenario
	if user != nil {
		scenarios, _ = h.db.ListScenarios(user.ID)
	}

	result := calculator.CalculateCosts(cfg, h.table)
	h.metrics.ObserveEstimate(cfg.Model, result.Backcheck.IsValid)

	return map[string]interface{}{
		"Config":    cfg,
		"Models":    h.modelOptions(),
		"Result":    result,
		"User":      user,
		"Scenarios": scenarios,
		"Notice":    notice,
	}
}

// Index handles the main page
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.templates.ExecuteTemplate(w, "index.html", h.pageData(r, defaultConfig(), ""))
}

// PartialEstimate recalculates the projection for the submitted form
func (h *Handler) PartialEstimate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, "Invalid form data")
		return
	}

	cfg := configFromForm(r)
	result := calculator.CalculateCosts(cfg, h.table)
	h.metrics.ObserveEstimate(cfg.Model, result.Backcheck.IsValid)

	h.templates.ExecuteTemplate(w, "results.html", map[string]interface{}{
		"Result": result,
	})
}

// PartialConvert returns the token approximation shown next to word inputs
func (h *Handler) PartialConvert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, "Invalid form data")
		return
	}

	field := r.FormValue("field")
	words, _ := strconv.ParseFloat(r.FormValue(field), 64)

	h.templates.ExecuteTemplate(w, "convert.html", map[string]interface{}{
		"Tokens": tokens.WordsToTokens(words),
	})
}

// PartialShare encodes the submitted form into a shareable link
func (h *Handler) PartialShare(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, "Invalid form data")
		return
	}

	code, err := share.Encode(configFromForm(r))
	if err != nil {
		h.renderError(w, "Failed to create share link")
		return
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}

	h.templates.ExecuteTemplate(w, "share.html", map[string]interface{}{
		"ShareURL": scheme + "://" + r.Host + "/share/" + code,
	})
}

// ShareOpen renders the index page prefilled from a share code. Bad codes
// fall back to the default workload with a notice instead of an error page.
func (h *Handler) ShareOpen(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/share/")

	var cfg model.UsageConfig
	if err := share.Decode(code, &cfg); err != nil {
		h.metrics.ObserveShareDecode(false)
		h.templates.ExecuteTemplate(w, "index.html", h.pageData(r, defaultConfig(), "That share link could not be read; showing defaults instead."))
		return
	}

	h.metrics.ObserveShareDecode(true)
	h.templates.ExecuteTemplate(w, "index.html", h.pageData(r, cfg, ""))
}

// Login handles user login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, "Invalid form data")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		h.renderError(w, "Username and password are required")
		return
	}

	user, err := h.db.GetUserByUsername(username)
	if err != nil {
		h.renderError(w, "An error occurred")
		return
	}

	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		h.renderError(w, "Invalid username or password")
		return
	}

	h.sessionMgr.Put(r.Context(), "userID", user.ID)
	h.renderAccount(w, user)
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, "Invalid form data")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		h.renderError(w, "Username and password are required")
		return
	}

	if len(username) < 3 {
		h.renderError(w, "Username must be at least 3 characters")
		return
	}

	if len(password) < 8 {
		h.renderError(w, "Password must be at least 8 characters")
		return
	}

	existing, _ := h.db.GetUserByUsername(username)
	if existing != nil {
		h.renderError(w, "Username already taken")
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		h.renderError(w, "An error occurred")
		return
	}

	userID, err := auth.GenerateID()
	if err != nil {
		h.renderError(w, "An error occurred")
		return
	}

	user := &database.User{
		ID:           userID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	if err := h.db.CreateUser(user); err != nil {
		h.renderError(w, "Failed to create account")
		return
	}

	h.sessionMgr.Put(r.Context(), "userID", user.ID)
	h.renderAccount(w, user)
}

// Logout handles user logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessionMgr.Destroy(r.Context())
	h.templates.ExecuteTemplate(w, "account.html", map[string]interface{}{})
}

// ScenarioSave stores the submitted form under a scenario name
func (h *Handler) ScenarioSave(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, "Invalid form data")
		return
	}

	name := strings.TrimSpace(r.FormValue("scenario_name"))
	if name == "" {
		h.renderError(w, "Scenario name is required")
		return
	}

	if err := h.db.SaveScenario(user.ID, name, configFromForm(r)); err != nil {
		h.renderError(w, "Failed to save scenario")
		return
	}

	h.renderAccount(w, user)
}

// ScenarioLoad returns the workload form prefilled from a saved scenario
func (h *Handler) ScenarioLoad(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		h.renderError(w, "Invalid scenario ID")
		return
	}

	scenario, err := h.db.GetScenario(user.ID, id)
	if err != nil || scenario == nil {
		h.renderError(w, "Scenario not found")
		return
	}

	h.templates.ExecuteTemplate(w, "form.html", map[string]interface{}{
		"Config": scenario.Config,
		"Models": h.modelOptions(),
		"User":   user,
	})
}

// ScenarioDelete removes a saved scenario
func (h *Handler) ScenarioDelete(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		h.renderError(w, "Invalid scenario ID")
		return
	}

	if err := h.db.DeleteScenario(user.ID, id); err != nil {
		h.renderError(w, "Failed to delete scenario")
		return
	}

	h.renderAccount(w, user)
}

// APIEstimate is the JSON entry point to the calculator
func (h *Handler) APIEstimate(w http.ResponseWriter, r *http.Request) {
	var cfg model.UsageConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := calculator.CalculateCosts(cfg, h.table)
	h.metrics.ObserveEstimate(cfg.Model, result.Backcheck.IsValid)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// APIModelEntry is one pricing table entry in the models listing
type APIModelEntry struct {
	ID string `json:"id"`
	model.PriceEntry
}

// APIModels lists the pricing table
func (h *Handler) APIModels(w http.ResponseWriter, r *http.Request) {
	entries := make([]APIModelEntry, 0, len(h.table))
	for _, id := range pricing.IDs(h.table) {
		entries = append(entries, APIModelEntry{ID: id, PriceEntry: h.table[id]})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// ConvertResponse is the JSON body for the conversion endpoint
type ConvertResponse struct {
	Words  float64 `json:"words"`
	Tokens float64 `json:"tokens"`
}

// APIConvert converts between words and tokens. Exactly one of the
// "words" or "tokens" query parameters is expected; words wins when both
// are present.
func (h *Handler) APIConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "application/json")

	if raw := q.Get("words"); raw != "" {
		words, _ := strconv.ParseFloat(raw, 64)
		json.NewEncoder(w).Encode(ConvertResponse{Words: words, Tokens: tokens.WordsToTokens(words)})
		return
	}

	toks, _ := strconv.ParseFloat(q.Get("tokens"), 64)
	json.NewEncoder(w).Encode(ConvertResponse{Words: tokens.TokensToWords(toks), Tokens: toks})
}

// APISampleText returns illustrative filler text of the requested length
func (h *Handler) APISampleText(w http.ResponseWriter, r *http.Request) {
	words := 60
	if raw := r.URL.Query().Get("words"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			words = n
		}
	}
	if words > sampleTextLimit {
		words = sampleTextLimit
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"text": sampletext.Generate(words)})
}

// Health handles the health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": "database unavailable"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// configFromForm builds a UsageConfig from form values. Missing or
// unparseable numbers become 0, matching the calculator's permissive
// input policy.
func configFromForm(r *http.Request) model.UsageConfig {
	return model.UsageConfig{
		Model:                   r.FormValue("model"),
		DailyUsers:              formFloat(r, "daily_users"),
		ConversationsPerUser:    formFloat(r, "conversations_per_user"),
		MessagesPerConversation: formFloat(r, "messages_per_conversation"),
		WordsPerChunk:           formFloat(r, "words_per_chunk"),
		ChunksPerQuery:          formFloat(r, "chunks_per_query"),
		QueryWords:              formFloat(r, "query_words"),
		ResponseWords:           formFloat(r, "response_words"),
	}
}

func formFloat(r *http.Request, key string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(r.FormValue(key)), 64)
	return v
}

// renderAccount re-renders the account panel after a successful auth or
// scenario action. Forms target their local error div by default, so
// retarget the swap at the panel.
func (h *Handler) renderAccount(w http.ResponseWriter, user *database.User) {
	scenarios, _ := h.db.ListScenarios(user.ID)

	w.Header().Set("HX-Retarget", "#account")
	w.Header().Set("HX-Reswap", "innerHTML")

	h.templates.ExecuteTemplate(w, "account.html", map[string]interface{}{
		"User":      user,
		"Scenarios": scenarios,
	})
}

func (h *Handler) renderError(w http.ResponseWriter, message string) {
	h.templates.ExecuteTemplate(w, "error.html", map[string]interface{}{
		"Error": message,
	})
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
