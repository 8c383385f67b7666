package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/planespot/metar-backend/internal/api"
	"github.com/planespot/metar-backend/internal/weather"
	"github.com/rs/zerolog/log"
)

type WeatherHandler struct {
	service weather.WeatherService
}

func NewWeatherHandler(service weather.WeatherService) *WeatherHandler {
	return &WeatherHandler{
		service: service,
	}
}

func (h *WeatherHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	icao, err := api.ParseICAO(request.QueryStringParameters)
	if err != nil {
		return api.Error(err.Error(), http.StatusBadRequest)
	}

	report, err := h.service.ResolveWeather(ctx, icao)
	if err != nil {
		var invalidICAO *weather.InvalidICAOError
		if errors.As(err, &invalidICAO) {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		log.Error().Err(err).Str("icao", icao).Msg("Error resolving weather")
		return api.Error("Error resolving weather", http.StatusInternalServerError)
	}

	if report == nil {
		return api.Error("No weather report available", http.StatusNotFound)
	}

	return api.Success(report)
}
