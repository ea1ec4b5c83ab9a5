package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/KirkDiggler/taskguess/internal/models"
	resultsRepo "github.com/KirkDiggler/taskguess/internal/repositories/results"
	"github.com/KirkDiggler/taskguess/internal/services/session"
	"go.uber.org/mock/gomock"
)

func (s *GatewayTestSuite) get(g *Gateway, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *GatewayTestSuite) TestHealth() {
	s.mockService.EXPECT().GetStats(gomock.Any()).Return(&session.GetStatsOutput{
		TotalRooms:   3,
		PublicRooms:  1,
		TotalPlayers: 7,
	}, nil)

	rec := s.get(s.gateway, "/health")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json", rec.Header().Get("Content-Type"))

	var body healthResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("ok", body.Status)
	s.Equal(serviceName, body.Service)
	s.Equal("2026-03-14T15:09:26Z", body.Timestamp)
	s.Require().NotNil(body.Stats)
	s.Equal(3, body.Stats.TotalRooms)
	s.Equal(1, body.Stats.PublicRooms)
	s.Equal(7, body.Stats.TotalPlayers)
}

func (s *GatewayTestSuite) TestHealthDegraded() {
	s.mockService.EXPECT().GetStats(gomock.Any()).Return(nil, errors.New("boom"))

	rec := s.get(s.gateway, "/health")
	s.Equal(http.StatusServiceUnavailable, rec.Code)

	var body healthResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("degraded", body.Status)
}

func (s *GatewayTestSuite) TestPublicRoomsRoute() {
	s.mockService.EXPECT().ListPublicRooms(gomock.Any(), gomock.Any()).Return(&session.ListPublicRoomsOutput{
		Rooms: []*models.RoomSummary{
			{Code: "AAAAAA", Name: "One", PlayerCount: 1, MaxPlayers: 8, IsPublic: true},
			{Code: "BBBBBB", Name: "Two", PlayerCount: 4, MaxPlayers: 8, IsPublic: true},
		},
	}, nil)

	rec := s.get(s.gateway, "/api/public-rooms")
	s.Equal(http.StatusOK, rec.Code)

	var body publicRoomsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.True(body.Success)
	s.Equal(2, body.Count)
	s.Equal(models.RoomCode("BBBBBB"), body.Rooms[1].Code)
}

func (s *GatewayTestSuite) TestPublicRoomsRouteEmpty() {
	s.mockService.EXPECT().ListPublicRooms(gomock.Any(), gomock.Any()).Return(&session.ListPublicRoomsOutput{}, nil)

	rec := s.get(s.gateway, "/api/public-rooms")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"success":true,"rooms":[],"count":0}`, rec.Body.String())
}

func (s *GatewayTestSuite) TestResultsRoute() {
	s.mockResults.EXPECT().GetRecentResults(gomock.Any(), &resultsRepo.GetRecentResultsInput{Limit: defaultResultsLimit}).
		Return(&resultsRepo.GetRecentResultsOutput{
			Results: []*models.GameResult{{ID: "r-1", RoomCode: "ABCDEF", Rounds: 2}},
		}, nil)

	rec := s.get(s.gateway, "/api/results")
	s.Equal(http.StatusOK, rec.Code)

	var body resultsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.True(body.Success)
	s.Equal(1, body.Count)
	s.Equal("r-1", body.Results[0].ID)
}

func (s *GatewayTestSuite) TestResultsRouteLimit() {
	s.mockResults.EXPECT().GetRecentResults(gomock.Any(), &resultsRepo.GetRecentResultsInput{Limit: 5}).
		Return(&resultsRepo.GetRecentResultsOutput{}, nil)
	s.mockResults.EXPECT().GetRecentResults(gomock.Any(), &resultsRepo.GetRecentResultsInput{Limit: maxResultsLimit}).
		Return(&resultsRepo.GetRecentResultsOutput{}, nil)

	s.Equal(http.StatusOK, s.get(s.gateway, "/api/results?limit=5").Code)
	s.Equal(http.StatusOK, s.get(s.gateway, "/api/results?limit=5000").Code)

	s.Equal(http.StatusBadRequest, s.get(s.gateway, "/api/results?limit=zero").Code)
	s.Equal(http.StatusBadRequest, s.get(s.gateway, "/api/results?limit=-1").Code)
}

func (s *GatewayTestSuite) TestResultsRouteFailure() {
	s.mockResults.EXPECT().GetRecentResults(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	rec := s.get(s.gateway, "/api/results")
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "boom")
}

func (s *GatewayTestSuite) TestResultsRouteWithoutRepository() {
	g, err := New(&Config{
		Hub:            s.hub,
		SessionService: s.mockService,
		UUIDGenerator:  s.mockUUID,
		Clock:          s.mockClock,
	})
	s.Require().NoError(err)

	s.Equal(http.StatusNotFound, s.get(g, "/api/results").Code)
	s.Equal(http.StatusNotFound, s.get(g, "/api/results/r-1").Code)
	s.Equal(http.StatusNotFound, s.get(g, "/api/rooms/ABCDEF/results").Code)
}

func (s *GatewayTestSuite) TestResultByIDRoute() {
	s.mockResults.EXPECT().GetResult(gomock.Any(), &resultsRepo.GetResultInput{ResultID: "r-1"}).
		Return(&models.GameResult{ID: "r-1", RoomCode: "ABCDEF", Rounds: 3}, nil)

	rec := s.get(s.gateway, "/api/results/r-1")
	s.Equal(http.StatusOK, rec.Code)

	var body resultResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.True(body.Success)
	s.Require().NotNil(body.Result)
	s.Equal("r-1", body.Result.ID)
	s.Equal(3, body.Result.Rounds)
}

func (s *GatewayTestSuite) TestResultByIDRouteNotFound() {
	s.mockResults.EXPECT().GetResult(gomock.Any(), gomock.Any()).Return(nil, resultsRepo.ErrResultNotFound)

	rec := s.get(s.gateway, "/api/results/missing")
	s.Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"success":false,"error":"result not found"}`, rec.Body.String())
}

func (s *GatewayTestSuite) TestResultByIDRouteFailure() {
	s.mockResults.EXPECT().GetResult(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	rec := s.get(s.gateway, "/api/results/r-1")
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "boom")
}

func (s *GatewayTestSuite) TestRoomResultsRoute() {
	s.mockResults.EXPECT().GetResultsForRoom(gomock.Any(), &resultsRepo.GetResultsForRoomInput{RoomCode: "ABCDEF"}).
		Return(&resultsRepo.GetResultsForRoomOutput{
			Results: []*models.GameResult{
				{ID: "r-2", RoomCode: "ABCDEF"},
				{ID: "r-1", RoomCode: "ABCDEF"},
			},
		}, nil)

	rec := s.get(s.gateway, "/api/rooms/ABCDEF/results")
	s.Equal(http.StatusOK, rec.Code)

	var body resultsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.True(body.Success)
	s.Equal(2, body.Count)
	s.Equal("r-2", body.Results[0].ID)
}

func (s *GatewayTestSuite) TestRoomResultsRouteEmpty() {
	s.mockResults.EXPECT().GetResultsForRoom(gomock.Any(), gomock.Any()).Return(&resultsRepo.GetResultsForRoomOutput{}, nil)

	rec := s.get(s.gateway, "/api/rooms/ZZZZZZ/results")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"success":true,"results":[],"count":0}`, rec.Body.String())
}

func (s *GatewayTestSuite) TestRoomResultsRouteFailure() {
	s.mockResults.EXPECT().GetResultsForRoom(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	rec := s.get(s.gateway, "/api/rooms/ABCDEF/results")
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "boom")
}
