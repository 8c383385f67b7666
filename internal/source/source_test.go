package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/planespot/metar-backend/pkg/http/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return client.New(client.Options{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
}

func TestAviationWeatherSource_FetchStructuredReports(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
		check     func(t *testing.T, srcReports []reportView)
	}{
		{
			name: "current camelCase shape",
			body: `[
				{"icaoId":"SBGL","reportTime":"2024-01-18T10:00:00.000Z","rawOb":"METAR SBGL 181000Z 12005KT 9999 FEW020 25/20 Q1012","metarType":"METAR"},
				{"icaoId":"SBGL","obsTime":1705573800,"rawOb":"SPECI SBGL 181030Z 18015G25KT 5000 TSRA BKN030 24/22 Q1010","metarType":"SPECI"}
			]`,
			wantCount: 2,
			check: func(t *testing.T, reports []reportView) {
				assert.Equal(t, "SBGL", reports[0].icao)
				assert.Equal(t, "METAR", reports[0].category)
				assert.Equal(t, time.Date(2024, time.January, 18, 10, 0, 0, 0, time.UTC), reports[0].reported)
				assert.Equal(t, time.Date(2024, time.January, 18, 10, 30, 0, 0, time.UTC), reports[1].reported)
				assert.Equal(t, "SPECI", reports[1].category)
			},
		},
		{
			name:      "legacy snake_case shape wrapped in data",
			body:      `{"data":[{"station_id":"sbgl","observation_time":"2024-01-18 10:00:00","raw_text":"  METAR SBGL 181000Z 12005KT 9999 FEW020  ","metar_type":"metar"}]}`,
			wantCount: 1,
			check: func(t *testing.T, reports []reportView) {
				assert.Equal(t, "SBGL", reports[0].icao)
				assert.Equal(t, "METAR SBGL 181000Z 12005KT 9999 FEW020", reports[0].raw)
				assert.Equal(t, "METAR", reports[0].category)
				assert.Equal(t, time.Date(2024, time.January, 18, 10, 0, 0, 0, time.UTC), reports[0].reported)
			},
		},
		{
			name:      "missing time",
			body:      `[{"icaoId":"SBGL","rawOb":"METAR SBGL 181000Z 12005KT 9999 FEW020"}]`,
			wantCount: 1,
			check: func(t *testing.T, reports []reportView) {
				assert.True(t, reports[0].reported.IsZero())
			},
		},
		{
			name:      "empty array",
			body:      `[]`,
			wantCount: 0,
		},
		{
			name:      "empty body",
			body:      ``,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/data/metar", r.URL.Path)
				assert.Equal(t, "SBGL", r.URL.Query().Get("ids"))
				assert.Equal(t, "json", r.URL.Query().Get("format"))
				assert.Equal(t, "3", r.URL.Query().Get("hours"))
				_, _ = w.Write([]byte(tt.body))
			})

			src := NewAviationWeatherSource(httpClient, 0)
			reports, err := src.FetchStructuredReports(context.Background(), "SBGL")
			require.NoError(t, err)
			require.Len(t, reports, tt.wantCount)

			if tt.check != nil {
				views := make([]reportView, len(reports))
				for i, r := range reports {
					views[i] = reportView{icao: r.ICAO, raw: r.RawText, category: r.Category}
					if r.ReportedTime != nil {
						views[i].reported = *r.ReportedTime
					}
				}
				tt.check(t, views)
			}
		})
	}
}

type reportView struct {
	icao     string
	raw      string
	category string
	reported time.Time
}

func TestAviationWeatherSource_Errors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		httpClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := NewAviationWeatherSource(httpClient, 2).FetchStructuredReports(context.Background(), "SBGL")
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
		assert.Contains(t, err.Error(), "aviationweather API error (status 503)")
	})

	t.Run("malformed json", func(t *testing.T) {
		httpClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":`))
		})

		_, err := NewAviationWeatherSource(httpClient, 2).FetchStructuredReports(context.Background(), "SBGL")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding response")
	})

	t.Run("transport failure", func(t *testing.T) {
		transportErr := errors.New("connection refused")
		httpClient := &client.Client{
			GetFunc: func(_ context.Context, _ string) (*client.Response, error) {
				return nil, transportErr
			},
		}

		_, err := NewAviationWeatherSource(httpClient, 2).FetchStructuredReports(context.Background(), "SBGL")
		require.Error(t, err)
		assert.ErrorIs(t, err, transportErr)
	})
}

func TestRedemetSource_FetchRawBulletinText(t *testing.T) {
	const payload = "2024011810 - METAR SBGL 181000Z 12005KT 9999 FEW020 25/20 Q1012=\n"

	httpClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/consulta_automatica/index.php", r.URL.Path)
		assert.Equal(t, "SBGL", r.URL.Query().Get("local"))
		assert.Equal(t, "metar", r.URL.Query().Get("msg"))
		assert.Equal(t, "key123", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(payload))
	})

	text, err := NewRedemetSource(httpClient, "key123").FetchRawBulletinText(context.Background(), "SBGL")
	require.NoError(t, err)
	assert.Equal(t, payload, text)
}

func TestRedemetSource_NoAPIKey(t *testing.T) {
	httpClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("api_key"))
		_, _ = w.Write([]byte("Mensagem 'SBXX' não localizada"))
	})

	text, err := NewRedemetSource(httpClient, "").FetchRawBulletinText(context.Background(), "SBXX")
	require.NoError(t, err)
	assert.Equal(t, "Mensagem 'SBXX' não localizada", text)
}

func TestRedemetSource_StatusError(t *testing.T) {
	httpClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := NewRedemetSource(httpClient, "").FetchRawBulletinText(context.Background(), "SBGL")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "redemet", apiErr.Provider)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestAPIError_Message(t *testing.T) {
	t.Parallel()

	err := NewAPIError("redemet", "fetching bulletins", errors.New("timeout"))
	assert.Equal(t, "redemet API error: fetching bulletins: timeout", err.Error())

	err = NewAPIError("redemet", "empty payload", nil)
	assert.Equal(t, "redemet API error: empty payload", err.Error())
}
