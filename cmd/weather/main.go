package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/planespot/metar-backend/internal/app"
	"github.com/planespot/metar-backend/internal/config"
	"github.com/planespot/metar-backend/internal/handler"
	"github.com/planespot/metar-backend/internal/observability"
	"github.com/rs/zerolog/log"
)

var (
	lambdaStart    = lambda.Start // Allow mocking of lambda.Start in tests
	weatherHandler *handler.WeatherHandler
	setupOnce      sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		// Lambda has no scrape endpoint; metrics stay unregistered
		service, err := app.NewWeatherService(context.Background(), cfg, config.GetCacheConfig(), observability.NewUnregisteredMetrics())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize weather service")
		}

		weatherHandler = handler.NewWeatherHandler(service)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Info().Str("icao", request.QueryStringParameters["icao"]).Msg("Handling Lambda request")
	return weatherHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
