// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dylan-caulfield/weather-webhook/internal/app"
	"github.com/dylan-caulfield/weather-webhook/internal/domain"
)

type Handlers struct{ P *app.Pipeline }

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/trip-weather", h.tripWeather)
}

// tripWeather always answers 200 with a well-formed report. Malformed JSON is
// just incomplete input: the pipeline's validation turns it into the fallback
// shape, so the notification consumer never sees a transport-level failure.
func (h *Handlers) tripWeather(w http.ResponseWriter, r *http.Request) {
	var req domain.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("trip-weather body did not decode")
		req = domain.TripRequest{}
	}

	rep := h.P.BuildReport(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		log.Error().Err(err).Msg("failed to write trip-weather response")
	}
}
