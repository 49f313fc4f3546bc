// Command serve exposes a minimal HTTP viewport-query endpoint over a
// collection, following the teacher's gorilla/mux + gorilla/handlers
// server wiring (a router, a logging middleware, an explicit
// ListenAndServe with a fixed address flag) rather than net/http alone.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/paulmach/orb"
	"github.com/rotblauer/trackindex/collection"
	"github.com/rotblauer/trackindex/common"
	"github.com/rotblauer/trackindex/geo"
	"github.com/rotblauer/trackindex/params"
	"github.com/rotblauer/trackindex/route"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	c := collection.New(params.DefaultConfig())

	r := mux.NewRouter()
	r.HandleFunc("/query", queryHandler(c)).Methods(http.MethodGet)
	r.HandleFunc("/load", loadHandler(c)).Methods(http.MethodPost)
	r.HandleFunc("/stats", statsHandler(c)).Methods(http.MethodGet)

	slog.Info("serving", "addr", *addr)
	if err := http.ListenAndServe(*addr, handlers.LoggingHandler(logWriter{}, r)); err != nil {
		slog.Error("server exited", "err", err)
	}
}

// logWriter adapts slog to gorilla/handlers' io.Writer-based access log,
// the same seam the teacher's webd daemon uses for request logging.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	slog.Info(string(p))
	return len(p), nil
}

func queryHandler(c *collection.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		minX, _ := strconv.ParseFloat(q.Get("min_x"), 64)
		minY, _ := strconv.ParseFloat(q.Get("min_y"), 64)
		maxX, _ := strconv.ParseFloat(q.Get("max_x"), 64)
		maxY, _ := strconv.ParseFloat(q.Get("max_y"), 64)
		zoom, _ := strconv.Atoi(q.Get("zoom"))
		bias, err := strconv.ParseFloat(q.Get("bias"), 64)
		if err != nil {
			bias = params.DefaultConfig().DefaultBias
		}

		rect := geo.NewRect(orb.Point{minX, minY}, orb.Point{maxX, maxY})
		result := c.Query(rect, common.SlippyZoomLevelT(zoom), bias)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Segments      int   `json:"segments_count"`
			ElapsedMicros int64 `json:"elapsed_micros"`
		}{
			Segments:      result.SegmentsCount,
			ElapsedMicros: result.Elapsed.Microseconds(),
		})
	}
}

func loadHandler(c *collection.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Routes [][]route.LatLon `json:"routes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sources := make([]collection.Source, len(body.Routes))
		for i, samples := range body.Routes {
			sources[i] = collection.Source{Samples: samples}
		}
		outcome := c.Load(r.Context(), sources)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(outcome)
	}
}

func statsHandler(c *collection.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Stats())
	}
}
