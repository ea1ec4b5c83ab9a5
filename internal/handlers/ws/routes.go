package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/KirkDiggler/taskguess/internal/models"
	resultsRepo "github.com/KirkDiggler/taskguess/internal/repositories/results"
	"github.com/KirkDiggler/taskguess/internal/services/session"
	"github.com/julienschmidt/httprouter"
)

const (
	serviceName = "taskguess"

	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

type healthResponse struct {
	Status      string                  `json:"status"`
	Timestamp   string                  `json:"timestamp"`
	Service     string                  `json:"service"`
	Connections int                     `json:"connections"`
	Stats       *session.GetStatsOutput `json:"stats,omitempty"`
}

type publicRoomsResponse struct {
	Success bool                  `json:"success"`
	Rooms   []*models.RoomSummary `json:"rooms"`
	Count   int                   `json:"count"`
}

type resultsResponse struct {
	Success bool                 `json:"success"`
	Results []*models.GameResult `json:"results"`
	Count   int                  `json:"count"`
}

type resultResponse struct {
	Success bool               `json:"success"`
	Result  *models.GameResult `json:"result"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Router builds the HTTP routes of the gateway
func (g *Gateway) Router() *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", g.handleHealth)
	router.GET("/api/public-rooms", g.handlePublicRooms)
	router.GET("/api/results", g.handleResults)
	router.GET("/api/results/:id", g.handleResult)
	router.GET("/api/rooms/:code/results", g.handleRoomResults)
	router.GET("/ws", g.ServeWS)
	return router
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp := &healthResponse{
		Status:      "ok",
		Timestamp:   g.clock.Now().UTC().Format(time.RFC3339),
		Service:     serviceName,
		Connections: g.hub.Count(),
	}

	stats, err := g.sessionService.GetStats(r.Context())
	if err != nil {
		g.logger.Error().Err(err).Msg("failed to collect stats")
		resp.Status = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Stats = stats

	writeJSON(w, http.StatusOK, resp)
}

func (g *Gateway) handlePublicRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	out, err := g.sessionService.ListPublicRooms(r.Context(), &session.ListPublicRoomsInput{})
	if err != nil {
		g.logger.Error().Err(err).Msg("failed to list public rooms")
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "could not list rooms"})
		return
	}

	rooms := out.Rooms
	if rooms == nil {
		rooms = []*models.RoomSummary{}
	}

	writeJSON(w, http.StatusOK, &publicRoomsResponse{
		Success: true,
		Rooms:   rooms,
		Count:   len(rooms),
	})
}

func (g *Gateway) handleResults(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if g.resultsRepo == nil {
		writeJSON(w, http.StatusNotFound, &errorResponse{Error: "results are not recorded"})
		return
	}

	limit := defaultResultsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "limit must be a positive number"})
			return
		}
		limit = min(parsed, maxResultsLimit)
	}

	out, err := g.resultsRepo.GetRecentResults(r.Context(), &resultsRepo.GetRecentResultsInput{Limit: limit})
	if err != nil {
		g.logger.Error().Err(err).Msg("failed to load results")
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "could not load results"})
		return
	}

	results := out.Results
	if results == nil {
		results = []*models.GameResult{}
	}

	writeJSON(w, http.StatusOK, &resultsResponse{
		Success: true,
		Results: results,
		Count:   len(results),
	})
}

func (g *Gateway) handleResult(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if g.resultsRepo == nil {
		writeJSON(w, http.StatusNotFound, &errorResponse{Error: "results are not recorded"})
		return
	}

	result, err := g.resultsRepo.GetResult(r.Context(), &resultsRepo.GetResultInput{ResultID: ps.ByName("id")})
	if err != nil {
		if errors.Is(err, resultsRepo.ErrResultNotFound) {
			writeJSON(w, http.StatusNotFound, &errorResponse{Error: "result not found"})
			return
		}
		g.logger.Error().Err(err).Str("result", ps.ByName("id")).Msg("failed to load result")
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "could not load result"})
		return
	}

	writeJSON(w, http.StatusOK, &resultResponse{
		Success: true,
		Result:  result,
	})
}

func (g *Gateway) handleRoomResults(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if g.resultsRepo == nil {
		writeJSON(w, http.StatusNotFound, &errorResponse{Error: "results are not recorded"})
		return
	}

	code := ps.ByName("code")
	out, err := g.resultsRepo.GetResultsForRoom(r.Context(), &resultsRepo.GetResultsForRoomInput{RoomCode: models.RoomCode(code)})
	if err != nil {
		g.logger.Error().Err(err).Str("room", code).Msg("failed to load room results")
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "could not load results"})
		return
	}

	results := out.Results
	if results == nil {
		results = []*models.GameResult{}
	}

	writeJSON(w, http.StatusOK, &resultsResponse{
		Success: true,
		Results: results,
		Count:   len(results),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
