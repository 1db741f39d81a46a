package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bodul/xwedit/grid"
)

const maxUploadSize = 10 << 20 // 10 Mo

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Server is the main HTTP server.
type Server struct {
	mux      *http.ServeMux
	cfg      Config
	store    *Store
	gemini   *GeminiClient
	sse      *Broadcaster
	uploadRL *rateLimiter
	editRL   *rateLimiter
	done     chan struct{}
}

// NewServer creates a configured HTTP server. gemini may be nil, which
// disables photo import.
func NewServer(cfg Config, store *Store, gemini *GeminiClient) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		cfg:      cfg,
		store:    store,
		gemini:   gemini,
		sse:      NewBroadcaster(),
		uploadRL: newRateLimiter("upload", cfg.RateLimit.UploadsPerMinute, time.Minute),
		editRL:   newRateLimiter("edit", cfg.RateLimit.EditsPerSecond, time.Second),
		done:     make(chan struct{}),
	}
	go s.uploadRL.run(s.done)
	go s.editRL.run(s.done)
	s.routes()
	return s
}

// Close stops the background rate limiter sweeps.
func (s *Server) Close() {
	close(s.done)
}

func (s *Server) routes() {
	// Puzzle authoring API
	s.mux.HandleFunc("POST /api/puzzles", s.handleCreatePuzzle)
	s.mux.HandleFunc("POST /api/puzzles/import", s.handleImportPuzzle)
	s.mux.HandleFunc("GET /api/puzzles", s.handleListPuzzles)
	s.mux.HandleFunc("GET /api/puzzles/{id}", s.handleGetPuzzle)
	s.mux.HandleFunc("POST /api/puzzles/{id}/resize", s.handleResize)
	s.mux.HandleFunc("POST /api/puzzles/{id}/toggle", s.handleToggle)
	s.mux.HandleFunc("POST /api/puzzles/{id}/cells", s.handleType)
	s.mux.HandleFunc("PUT /api/puzzles/{id}/clues", s.handleSetClue)
	s.mux.HandleFunc("POST /api/puzzles/{id}/navigate", s.handleNavigate)
	s.mux.HandleFunc("GET /api/puzzles/{id}/events", s.handlePuzzleEvents)

	// Solving API
	s.mux.HandleFunc("POST /api/games", s.handleCreateGame)
	s.mux.HandleFunc("GET /api/games", s.handleListGames)
	s.mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	s.mux.HandleFunc("POST /api/games/{id}/join", s.handleJoinGame)
	s.mux.HandleFunc("POST /api/games/{id}/move", s.handleMove)
	s.mux.HandleFunc("POST /api/games/{id}/autocheck", s.handleAutocheck)
	s.mux.HandleFunc("POST /api/games/{id}/check", s.handleCheck)
	s.mux.HandleFunc("POST /api/games/{id}/reveal", s.handleReveal)
	s.mux.HandleFunc("POST /api/games/{id}/clear", s.handleClear)
	s.mux.HandleFunc("GET /api/games/{id}/events", s.handleGameEvents)

	s.mux.Handle("GET /metrics", promhttp.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	s.mux.ServeHTTP(w, r)
}

// --- Request bodies ---

type sizeRequest struct {
	Size int `json:"size" validate:"gte=0"`
}

type toggleRequest struct {
	Row    int          `json:"row"`
	Col    int          `json:"col"`
	Cursor *grid.Cursor `json:"cursor"`
}

type typeRequest struct {
	Cursor grid.Cursor `json:"cursor"`
	Value  string      `json:"value" validate:"max=1"`
}

type clueRequest struct {
	Direction grid.ClueDirection `json:"direction"`
	Number    int                `json:"number" validate:"gte=1"`
	Value     string             `json:"value" validate:"max=500"`
}

type navigateRequest struct {
	Cursor   grid.Cursor   `json:"cursor"`
	Action   string        `json:"action" validate:"oneof=step jump turn"`
	Movement grid.Movement `json:"movement"`
}

type createGameRequest struct {
	PuzzleID string `json:"puzzle_id" validate:"required"`
}

type joinRequest struct {
	Pseudo string `json:"pseudo" validate:"required"`
}

type moveRequest struct {
	Pseudo string `json:"pseudo"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Value  string `json:"value"`
}

type scopeRequest struct {
	Cursor grid.Cursor `json:"cursor"`
	Scope  grid.Scope  `json:"scope"`
}

type clearRequest struct {
	Incorrect bool `json:"incorrect"`
}

type autocheckRequest struct {
	On bool `json:"on"`
}

// cursorResponse reports where the cursor ended up and what it points at.
// ActiveClue is null when the grid has no word under the cursor.
type cursorResponse struct {
	Cursor     grid.Cursor     `json:"cursor"`
	ActiveClue *grid.ClueEntry `json:"active_clue"`
	Word       *grid.Word      `json:"word,omitempty"`
}

func newCursorResponse(p *grid.Puzzle, c grid.Cursor) cursorResponse {
	resp := cursorResponse{Cursor: c}
	if e, ok := p.ActiveClue(c); ok {
		resp.ActiveClue = &e
	}
	if w, err := p.Word(c); err == nil {
		resp.Word = &w
	}
	return resp
}

// --- Puzzle handlers ---

// POST /api/puzzles: new blank puzzle.
func (s *Server) handleCreatePuzzle(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "Champ 'size' invalide", http.StatusBadRequest)
		return
	}
	size := req.Size
	if size == 0 {
		size = s.cfg.DefaultSize
	}
	if size > s.cfg.MaxSize {
		jsonError(w, "Grille trop grande", http.StatusBadRequest)
		return
	}

	g, err := grid.New(size, size)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	doc := s.store.CreatePuzzle(g)
	slog.Info("puzzle created", "id", doc.ID, "size", size)

	writeJSON(w, http.StatusCreated, doc.View())
}

// POST /api/puzzles/import: upload a photo, read its layout with Gemini.
func (s *Server) handleImportPuzzle(w http.ResponseWriter, r *http.Request) {
	if !s.uploadRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	if s.gemini == nil {
		jsonError(w, "Analyse d'image non configurée", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, "Image trop volumineuse (max 10 Mo)", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, "Champ 'image' requis", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !allowedMIME[mimeType] {
		jsonError(w, "Format accepté : JPEG ou PNG", http.StatusBadRequest)
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "Erreur de lecture de l'image", http.StatusInternalServerError)
		return
	}

	g, err := s.gemini.AnalyzeImage(r.Context(), imageData, mimeType)
	if err != nil {
		slog.Error("gemini analyze failed", "error", err)
		jsonError(w, "Erreur lors de l'analyse de la grille", http.StatusInternalServerError)
		return
	}
	if g.Rows > s.cfg.MaxSize || g.Cols > s.cfg.MaxSize {
		jsonError(w, "Grille trop grande", http.StatusUnprocessableEntity)
		return
	}

	doc := s.store.CreatePuzzle(g)
	editsTotal.WithLabelValues("import").Inc()
	slog.Info("puzzle imported", "id", doc.ID, "rows", g.Rows, "cols", g.Cols)

	writeJSON(w, http.StatusCreated, doc.View())
}

// GET /api/puzzles: list all puzzles.
func (s *Server) handleListPuzzles(w http.ResponseWriter, _ *http.Request) {
	docs := s.store.ListPuzzles()
	views := make([]PuzzleView, 0, len(docs))
	for _, d := range docs {
		views = append(views, d.View())
	}
	writeJSON(w, http.StatusOK, views)
}

// GET /api/puzzles/{id}: get a single puzzle.
func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	doc := s.puzzle(w, r)
	if doc == nil {
		return
	}
	writeJSON(w, http.StatusOK, doc.View())
}

// POST /api/puzzles/{id}/resize: replace the grid with a blank one.
func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	doc := s.puzzle(w, r)
	if doc == nil {
		return
	}
	var req sizeRequest
	if err := decodeJSON(r, &req); err != nil || req.Size == 0 {
		jsonError(w, "Champ 'size' requis", http.StatusBadRequest)
		return
	}
	if req.Size > s.cfg.MaxSize {
		jsonError(w, "Grille trop grande", http.StatusBadRequest)
		return
	}
	if err := doc.Resize(req.Size); err != nil {
		writeEngineError(w, err)
		return
	}
	editsTotal.WithLabelValues("resize").Inc()
	view := doc.View()
	s.publishPuzzle(view)
	writeJSON(w, http.StatusOK, view)
}

// POST /api/puzzles/{id}/toggle: toggle a black square.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if !s.editRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}
	doc := s.puzzle(w, r)
	if doc == nil {
		return
	}
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	cursor := grid.Cursor{Row: req.Row, Col: req.Col}
	if req.Cursor != nil {
		cursor = *req.Cursor
	}

	p, next, _, err := doc.ToggleBlocked(req.Row, req.Col, cursor)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	editsTotal.WithLabelValues("toggle").Inc()

	view := doc.viewOf(p)
	s.publishPuzzle(view)
	writeJSON(w, http.StatusOK, struct {
		Puzzle PuzzleView `json:"puzzle"`
		cursorResponse
	}{view, newCursorResponse(p, next)})
}

// POST /api/puzzles/{id}/cells: type a letter and advance, or erase.
func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	if !s.editRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}
	doc := s.puzzle(w, r)
	if doc == nil {
		return
	}
	var req typeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "Valeur invalide : une lettre A-Z ou vide", http.StatusBadRequest)
		return
	}

	p, next, err := doc.Type(req.Cursor, strings.TrimSpace(req.Value))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	editsTotal.WithLabelValues("type").Inc()

	s.sse.Publish(doc.ID, Event{Type: "cell_update", Data: map[string]any{
		"cells": p.Numbered().NumberedCells(),
	}})
	writeJSON(w, http.StatusOK, newCursorResponse(p, next))
}

// PUT /api/puzzles/{id}/clues: set the text of one clue.
func (s *Server) handleSetClue(w http.ResponseWriter, r *http.Request) {
	doc := s.puzzle(w, r)
	if doc == nil {
		return
	}
	var req clueRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	e, err := doc.SetClue(req.Direction, req.Number, req.Value)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	editsTotal.WithLabelValues("clue").Inc()

	s.sse.Publish(doc.ID, Event{Type: "clue_update", Data: map[string]any{"clue": e}})
	writeJSON(w, http.StatusOK, e)
}

// POST /api/puzzles/{id}/navigate: step, jump or turn the cursor.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	doc := s.puzzle(w, r)
	if doc == nil {
		return
	}
	var req navigateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	p, next, err := doc.Navigate(req.Cursor, req.Action, req.Movement)
	if err != nil {
		jsonError(w, "Action inconnue", http.StatusBadRequest)
		return
	}
	navigationsTotal.WithLabelValues(req.Action).Inc()
	writeJSON(w, http.StatusOK, newCursorResponse(p, next))
}

// GET /api/puzzles/{id}/events: SSE stream of puzzle updates.
func (s *Server) handlePuzzleEvents(w http.ResponseWriter, r *http.Request) {
	doc := s.puzzle(w, r)
	if doc == nil {
		return
	}
	s.sse.ServeSSE(w, r, doc.ID, func(c *client) {
		slog.Debug("puzzle subscriber connected", "id", doc.ID, "clients", s.sse.ClientCount(doc.ID))
		c.send(Event{Type: "puzzle_state", Data: map[string]any{"puzzle": doc.View()}})
	}, nil)
}

func (s *Server) publishPuzzle(view PuzzleView) {
	s.sse.Publish(view.ID, Event{Type: "puzzle_update", Data: map[string]any{"puzzle": view}})
}

// --- Game handlers ---

// POST /api/games: create a game from a puzzle.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "Champ 'puzzle_id' requis", http.StatusBadRequest)
		return
	}

	game, err := s.store.CreateGame(req.PuzzleID)
	if err != nil {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
		return
	}
	slog.Info("game created", "id", game.ID, "puzzle_id", req.PuzzleID)

	writeJSON(w, http.StatusCreated, game.View())
}

// GET /api/games: list all game sessions.
func (s *Server) handleListGames(w http.ResponseWriter, _ *http.Request) {
	games := s.store.ListGames()
	views := make([]GameView, 0, len(games))
	for _, g := range games {
		views = append(views, g.View())
	}
	writeJSON(w, http.StatusOK, views)
}

// GET /api/games/{id}: get current game state.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game := s.game(w, r)
	if game == nil {
		return
	}
	writeJSON(w, http.StatusOK, game.View())
}

// POST /api/games/{id}/join: join a game with a pseudo.
func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	game := s.game(w, r)
	if game == nil {
		return
	}

	var req joinRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "Champ 'pseudo' requis", http.StatusBadRequest)
		return
	}

	pseudo := sanitizePseudo(req.Pseudo)
	if pseudo == "" {
		jsonError(w, "Pseudo invalide", http.StatusBadRequest)
		return
	}

	player := game.AddPlayer(pseudo)

	s.sse.Publish(game.ID, Event{Type: "player_joined", Data: map[string]any{
		"pseudo": player.Pseudo,
		"color":  player.Color,
	}})

	writeJSON(w, http.StatusOK, player)
}

// POST /api/games/{id}/move: place a letter.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if !s.editRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	game := s.game(w, r)
	if game == nil {
		return
	}

	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	value := strings.ToUpper(strings.TrimSpace(req.Value))
	incorrect, err := game.SetCell(req.Row, req.Col, value)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	editsTotal.WithLabelValues("move").Inc()

	s.sse.Publish(game.ID, Event{Type: "cell_update", Data: map[string]any{
		"row":       req.Row,
		"col":       req.Col,
		"value":     value,
		"pseudo":    sanitizePseudo(req.Pseudo),
		"incorrect": incorrect,
	}})

	writeJSON(w, http.StatusOK, map[string]bool{"incorrect": incorrect})
}

// POST /api/games/{id}/autocheck: toggle per-move checking.
func (s *Server) handleAutocheck(w http.ResponseWriter, r *http.Request) {
	game := s.game(w, r)
	if game == nil {
		return
	}
	var req autocheckRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	game.SetAutocheck(req.On)
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/games/{id}/check: list wrong letters in a scope.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	game := s.game(w, r)
	if game == nil {
		return
	}
	var req scopeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	wrong, err := game.Check(req.Cursor, req.Scope)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if wrong == nil {
		wrong = []grid.Cursor{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"incorrect": wrong})
}

// POST /api/games/{id}/reveal: fill in solution letters in a scope.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	game := s.game(w, r)
	if game == nil {
		return
	}
	var req scopeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	if err := game.Reveal(req.Cursor, req.Scope); err != nil {
		writeEngineError(w, err)
		return
	}
	editsTotal.WithLabelValues("reveal").Inc()
	s.publishGame(game)
	writeJSON(w, http.StatusOK, game.View())
}

// POST /api/games/{id}/clear: remove wrong letters, or all of them.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	game := s.game(w, r)
	if game == nil {
		return
	}
	var req clearRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	if err := game.Clear(req.Incorrect); err != nil {
		writeEngineError(w, err)
		return
	}
	editsTotal.WithLabelValues("clear").Inc()
	s.publishGame(game)
	writeJSON(w, http.StatusOK, game.View())
}

// GET /api/games/{id}/events: SSE stream.
func (s *Server) handleGameEvents(w http.ResponseWriter, r *http.Request) {
	game := s.game(w, r)
	if game == nil {
		return
	}

	playerPseudo := sanitizePseudo(r.URL.Query().Get("pseudo"))

	s.sse.ServeSSE(w, r, game.ID, func(c *client) {
		slog.Debug("game subscriber connected", "id", game.ID, "clients", s.sse.ClientCount(game.ID))
		c.send(Event{Type: "game_state", Data: map[string]any{"game": game.View()}})
	}, func() {
		// On disconnect: broadcast player_left if pseudo was provided.
		if playerPseudo != "" {
			game.RemovePlayer(playerPseudo)
			s.sse.Publish(game.ID, Event{Type: "player_left", Data: map[string]any{"pseudo": playerPseudo}})
		}
	})
}

func (s *Server) publishGame(game *GameSession) {
	s.sse.Publish(game.ID, Event{Type: "game_state", Data: map[string]any{"game": game.View()}})
}

// --- Helpers ---

func (s *Server) puzzle(w http.ResponseWriter, r *http.Request) *Document {
	doc := s.store.GetPuzzle(r.PathValue("id"))
	if doc == nil {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
	}
	return doc
}

func (s *Server) game(w http.ResponseWriter, r *http.Request) *GameSession {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Partie introuvable", http.StatusNotFound)
	}
	return game
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeEngineError maps engine sentinel errors to HTTP responses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, grid.ErrOutOfBounds):
		jsonError(w, "Position hors limites", http.StatusBadRequest)
	case errors.Is(err, grid.ErrBlockedCell):
		jsonError(w, "Case noire", http.StatusBadRequest)
	case errors.Is(err, grid.ErrInvalidValue):
		jsonError(w, "Valeur invalide : une lettre A-Z ou vide", http.StatusBadRequest)
	case errors.Is(err, grid.ErrInvalidSize):
		jsonError(w, "Taille invalide", http.StatusBadRequest)
	case errors.Is(err, grid.ErrNoSuchClue):
		jsonError(w, "Définition introuvable", http.StatusNotFound)
	case errors.Is(err, grid.ErrLayoutMismatch):
		jsonError(w, "Grille incohérente", http.StatusConflict)
	default:
		slog.Error("engine error", "error", err)
		jsonError(w, "Erreur interne", http.StatusInternalServerError)
	}
}

func sanitizePseudo(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 20 {
		s = string([]rune(s)[:20])
	}
	return s
}
