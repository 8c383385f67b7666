package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	tests := []struct {
		name     string
		response interface{ GetResponseType() string }
		want     int
	}{
		{
			name:     "typed response",
			response: APIResponse{ResponseType: "weather"},
			want:     http.StatusOK,
		},
		{
			name: "error body",
			response: ErrorResponse{
				APIResponse: APIResponse{ResponseType: "error"},
				Error:       "test error",
			},
			want: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Success(tt.response)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StatusCode)

			var resp APIResponse
			err = json.Unmarshal([]byte(got.Body), &resp)
			require.NoError(t, err)
			assert.Equal(t, tt.response.GetResponseType(), resp.ResponseType)

			assert.Equal(t, "application/json", got.Headers["Content-Type"])
			assert.Equal(t, "*", got.Headers["Access-Control-Allow-Origin"])
		})
	}
}

func TestSuccess_UnmarshalableBody(t *testing.T) {
	got, err := Success(math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, got.StatusCode)
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		statusCode int
	}{
		{name: "basic error", message: "test error", statusCode: http.StatusBadRequest},
		{name: "not found", message: "No weather report available", statusCode: http.StatusNotFound},
		{name: "server error", message: "internal server error", statusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Error(tt.message, tt.statusCode)
			require.NoError(t, err)
			assert.Equal(t, tt.statusCode, got.StatusCode)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(got.Body), &resp))
			assert.Equal(t, "error", resp.ResponseType)
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}

func TestHeadersNotShared(t *testing.T) {
	first, _ := Error("a", http.StatusBadRequest)
	first.Headers["X-Test"] = "1"

	second, _ := Error("b", http.StatusBadRequest)
	_, ok := second.Headers["X-Test"]
	assert.False(t, ok)
}

func TestParseICAO(t *testing.T) {
	icao, err := ParseICAO(map[string]string{"icao": " sbgl "})
	require.NoError(t, err)
	assert.Equal(t, "sbgl", icao)

	_, err = ParseICAO(map[string]string{})
	var missing MissingParameterError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Missing required parameter: icao", err.Error())

	_, err = ParseICAO(nil)
	assert.Error(t, err)
}
