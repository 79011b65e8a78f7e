package stats

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStatsService 是 StatsProvider 的模拟实现
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetSiteStatistics(ctx context.Context) (*model.SiteStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*model.SiteStats)
	return stats, args.Error(1)
}

var _ StatsProvider = (*MockStatsService)(nil)

func serve(t *testing.T, svc StatsProvider) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/stats", NewStatsHandler(svc).GetStats)

	req, _ := http.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetStats(t *testing.T) {
	mockService := new(MockStatsService)
	mockService.On("GetSiteStatistics", mock.Anything).Return(&model.SiteStats{
		TotalDonations:      1500,
		TotalChildrenHelped: 6,
		QuartiersImpacted:   model.QuartiersFloor,
		FamiliesSupported:   1200000,
	}, nil)

	w := serve(t, mockService)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Success   bool              `json:"success"`
		Stats     model.SiteStats   `json:"stats"`
		Formatted map[string]string `json:"formatted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, int64(1500), response.Stats.TotalDonations)
	assert.Equal(t, 6, response.Stats.TotalChildrenHelped)
	assert.Equal(t, "1 500", response.Formatted["total_donations"])
	assert.Equal(t, "1.2M", response.Formatted["families_supported"])
	assert.Equal(t, "25", response.Formatted["quartiers_impacted"])
	mockService.AssertExpectations(t)
}

func TestGetStatsFailure(t *testing.T) {
	mockService := new(MockStatsService)
	mockService.On("GetSiteStatistics", mock.Anything).
		Return(nil, errors.Wrap(errors.ErrDatabase, "failed to compute total_donations", stderrors.New("connection refused")))

	w := serve(t, mockService)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	assert.Contains(t, response["error"], "connection refused")
	assert.NotContains(t, response, "stats")
}
