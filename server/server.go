package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"go-groove/debug"
	"go-groove/notation"
	"go-groove/pattern"
	"go-groove/sequencer"
)

// Transport is the playback surface the server drives.
type Transport interface {
	Play(p *pattern.Pattern, bpm int) error
	Stop()
	SetTempo(bpm int) error
	SetLoop(enabled bool)
	State() sequencer.Transport
}

type Server struct {
	lib       *pattern.Library
	transport Transport
	router    *mux.Router
}

func New(lib *pattern.Library, transport Transport) *Server {
	s := &Server{lib: lib, transport: transport}

	r := mux.NewRouter().StrictSlash(true)
	r.Use(logRequests)
	r.HandleFunc("/patterns", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/patterns/{id}", s.handlePattern).Methods(http.MethodGet)
	r.HandleFunc("/patterns/{id}/score", s.handleScore).Methods(http.MethodGet)
	r.HandleFunc("/patterns/{id}/grid", s.handleGrid).Methods(http.MethodGet)
	r.HandleFunc("/transport", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/transport/play", s.handlePlay).Methods(http.MethodPost)
	r.HandleFunc("/transport/stop", s.handleStop).Methods(http.MethodPost)
	r.HandleFunc("/transport/tempo", s.handleTempo).Methods(http.MethodPut)
	r.HandleFunc("/transport/loop", s.handleLoop).Methods(http.MethodPut)
	s.router = r
	return s
}

// Handler returns the router with CORS so a browser score renderer can
// fetch MusicXML from another origin.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		debug.Log(debug.Server, "listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fault.Wrap(err, fmsg.With("listen "+addr))
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		debug.Log(debug.Server, "%s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debug.Log(debug.Server, "encode response: %v", err)
	}
}

// statusFor maps an error's fault tag to an HTTP status.
func statusFor(err error) int {
	switch ftag.Get(err) {
	case ftag.InvalidArgument:
		return http.StatusBadRequest
	case ftag.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	debug.Log(debug.Server, "%d: %v", status, err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fault.Wrap(err, fmsg.With("decode request body"), ftag.With(ftag.InvalidArgument))
	}
	return nil
}

func (s *Server) lookup(r *http.Request) (*pattern.Pattern, error) {
	return s.lib.Lookup(mux.Vars(r)["id"])
}

// Summary is the catalogue view of a pattern.
type Summary struct {
	ID            string `json:"id"`
	Group         string `json:"group"`
	Subgroup      string `json:"subgroup"`
	Title         string `json:"title"`
	BPM           int    `json:"bpm"`
	TimeSignature string `json:"time_signature"`
	Length        int    `json:"length_in_measures"`
	Events        int    `json:"events"`
}

func summarize(p *pattern.Pattern) Summary {
	return Summary{
		ID:            p.ID().String(),
		Group:         p.Group,
		Subgroup:      p.Subgroup,
		Title:         p.Title,
		BPM:           p.BPM,
		TimeSignature: p.TimeSignature,
		Length:        p.Length,
		Events:        p.NumEvents(),
	}
}

// Detail is a summary plus the event list.
type Detail struct {
	Summary
	EventList []pattern.Event `json:"event_list"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	all := s.lib.All()
	out := make([]Summary, len(all))
	for i, p := range all {
		out[i] = summarize(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePattern(w http.ResponseWriter, r *http.Request) {
	p, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Detail{Summary: summarize(p), EventList: p.Events()})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	p, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := notation.MarshalMusicXML(p)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", notation.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", p.Title+".musicxml"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	p, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	measures, err := notation.Quantize(p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, measures)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.transport.State())
}

type playRequest struct {
	ID  string `json:"id"`
	BPM int    `json:"bpm"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.lib.Lookup(req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.transport.Play(p, req.BPM); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.transport.State())
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.transport.Stop()
	writeJSON(w, http.StatusOK, s.transport.State())
}

type tempoRequest struct {
	BPM int `json:"bpm"`
}

func (s *Server) handleTempo(w http.ResponseWriter, r *http.Request) {
	var req tempoRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.transport.SetTempo(req.BPM); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.transport.State())
}

type loopRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleLoop(w http.ResponseWriter, r *http.Request) {
	var req loopRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Enabled == nil {
		writeError(w, fault.New("missing enabled", ftag.With(ftag.InvalidArgument)))
		return
	}
	s.transport.SetLoop(*req.Enabled)
	writeJSON(w, http.StatusOK, s.transport.State())
}
