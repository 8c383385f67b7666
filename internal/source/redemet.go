package source

import (
	"context"
	"fmt"
	"net/url"

	"github.com/planespot/metar-backend/pkg/http/client"
	"github.com/rs/zerolog/log"
)

const redemetProvider = "redemet"

// RedemetSource fetches the concatenated bulletin text served by the
// regional automatic query endpoint, e.g.
// "2024011810 - METAR SBGL 181000Z 12005KT 9999 FEW020 25/20 Q1012=".
type RedemetSource struct {
	httpClient client.Interface
	apiKey     string
}

func NewRedemetSource(httpClient client.Interface, apiKey string) *RedemetSource {
	return &RedemetSource{
		httpClient: httpClient,
		apiKey:     apiKey,
	}
}

// FetchRawBulletinText returns the payload untouched. Empty bodies and the
// provider's "not found" phrases are handed on as text for the splitter.
func (s *RedemetSource) FetchRawBulletinText(ctx context.Context, icao string) (string, error) {
	query := url.Values{}
	query.Set("local", icao)
	query.Set("msg", "metar")
	if s.apiKey != "" {
		query.Set("api_key", s.apiKey)
	}

	resp, err := s.httpClient.Get(ctx, fmt.Sprintf("/api/consulta_automatica/index.php?%s", query.Encode()))
	if err != nil {
		return "", NewAPIError(redemetProvider, "fetching bulletins", err)
	}
	if !resp.OK() {
		return "", NewStatusError(redemetProvider, resp.StatusCode)
	}

	log.Debug().
		Str("icao", icao).
		Int("bytes", len(resp.Body)).
		Msg("Fetched raw bulletin text")

	return string(resp.Body), nil
}
