package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/planespot/metar-backend/internal/api"
	"github.com/planespot/metar-backend/internal/models"
	"github.com/planespot/metar-backend/internal/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWeatherService implements weather.WeatherService for testing
type mockWeatherService struct {
	resolveFn func(ctx context.Context, icao string) (*models.WeatherReport, error)
}

func (m *mockWeatherService) ResolveWeather(ctx context.Context, icao string) (*models.WeatherReport, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, icao)
	}
	return nil, nil
}

func createTestReport() *models.WeatherReport {
	return models.NewWeatherReport(models.ReportRecord{
		ICAO:    "SBSP",
		RawText: "METAR SBSP 181000Z 09005KT CAVOK 22/18 Q1015",
		Source:  models.SourceStructured,
	})
}

func TestWeatherHandler_HandleRequest(t *testing.T) {
	tests := []struct {
		name           string
		request        events.APIGatewayProxyRequest
		resolveFn      func(ctx context.Context, icao string) (*models.WeatherReport, error)
		expectedStatus int
		checkBody      func(t *testing.T, body string)
	}{
		{
			name: "report found",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"icao": "sbsp"},
			},
			resolveFn: func(_ context.Context, icao string) (*models.WeatherReport, error) {
				assert.Equal(t, "sbsp", icao)
				return createTestReport(), nil
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var report models.WeatherReport
				require.NoError(t, json.Unmarshal([]byte(body), &report))
				assert.Equal(t, "weather", report.ResponseType)
				assert.Equal(t, "SBSP", report.ICAO)
				assert.Equal(t, "10km or more", report.Decoded.Visibility)
				assert.Equal(t, "none", report.Decoded.Ceiling)
				assert.Equal(t, "no significant weather", report.Decoded.Condition)
			},
		},
		{
			name:           "missing icao",
			request:        events.APIGatewayProxyRequest{},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				var resp api.ErrorResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				assert.Equal(t, "Missing required parameter: icao", resp.Error)
			},
		},
		{
			name: "invalid icao",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"icao": "SB1"},
			},
			resolveFn: func(_ context.Context, icao string) (*models.WeatherReport, error) {
				return nil, weather.NewInvalidICAOError(icao)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unavailable",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"icao": "SBXX"},
			},
			expectedStatus: http.StatusNotFound,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "No weather report available")
			},
		},
		{
			name: "service error",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"icao": "SBGL"},
			},
			resolveFn: func(_ context.Context, _ string) (*models.WeatherReport, error) {
				return nil, errors.New("boom")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWeatherHandler(&mockWeatherService{resolveFn: tt.resolveFn})

			resp, err := h.HandleRequest(context.Background(), tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])

			if tt.checkBody != nil {
				tt.checkBody(t, resp.Body)
			}
		})
	}
}

func TestWeatherHandler_WithRealService(t *testing.T) {
	h := NewWeatherHandler(weather.NewService(nil, nil))

	resp, err := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"icao": "SB!L"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"icao": "SBGL"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
