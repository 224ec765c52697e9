// Package devapi is a local stand-in for the listings backend. It serves
// the same REST contract under /api from a sqlite file so the dashboard
// can run without the real service.
package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"vagas-dashboard/internal/domain"
	"vagas-dashboard/internal/httpapi"
	"vagas-dashboard/internal/store"
)

// Collector produces one source's raw listings for a scraper run.
type Collector func(ctx context.Context) ([]domain.Listing, error)

type Server struct {
	DB         *store.DB
	Collectors map[domain.Source]Collector
	Now        func() time.Time
}

func New(db *store.DB) *Server {
	return &Server{DB: db, Collectors: SampleCollectors(time.Now), Now: time.Now}
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Handler returns the routes behind the standard middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	health := httpapi.MethodMux(map[string]http.HandlerFunc{http.MethodGet: s.health})
	mux.HandleFunc("/health", health)
	mux.HandleFunc("/api/health", health)

	mux.HandleFunc("/api/vagas/", s.vagas)
	mux.HandleFunc("/api/vagas", s.vagas)
	mux.HandleFunc("/api/stats/", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: s.stats,
	}))

	for path, src := range scraperRoutes {
		mux.HandleFunc("/api/scraper/"+path, httpapi.MethodMux(map[string]http.HandlerFunc{
			http.MethodPost: s.scrapeOne(src),
		}))
	}
	mux.HandleFunc("/api/scraper/all", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodPost: s.scrapeAll,
	}))

	mux.HandleFunc("/admin/checkpoint", httpapi.MethodMux(map[string]http.HandlerFunc{
		http.MethodPost: s.checkpoint,
	}))

	return httpapi.Chain(mux, httpapi.RequestID, httpapi.AccessLog, httpapi.Recover)
}

// The backend answers errors as {"detail": ...}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	httpapi.WriteJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// vagas dispatches everything under /api/vagas/.
func (s *Server) vagas(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/vagas"), "/"), "/")

	switch {
	case tail == "":
		httpapi.MethodMux(map[string]http.HandlerFunc{
			http.MethodGet:  s.list,
			http.MethodPost: s.create,
		})(w, r)
		return
	case tail == "batch":
		httpapi.MethodMux(map[string]http.HandlerFunc{
			http.MethodPost: s.createBatch,
		})(w, r)
		return
	}

	idStr, rest, _ := strings.Cut(tail, "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "vaga_id must be an integer")
		return
	}
	switch rest {
	case "":
		httpapi.MethodMux(map[string]http.HandlerFunc{
			http.MethodGet:    func(w http.ResponseWriter, r *http.Request) { s.get(w, r, id) },
			http.MethodPatch:  func(w http.ResponseWriter, r *http.Request) { s.update(w, r, id) },
			http.MethodDelete: func(w http.ResponseWriter, r *http.Request) { s.delete(w, r, id) },
		})(w, r)
	case "status":
		httpapi.MethodMux(map[string]http.HandlerFunc{
			http.MethodPatch: func(w http.ResponseWriter, r *http.Request) { s.setStatus(w, r, id) },
		})(w, r)
	default:
		writeDetail(w, http.StatusNotFound, "Not Found")
	}
}

func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || (hi > 0 && n > hi) {
		if hi > 0 {
			return 0, fmt.Errorf("%s must be an integer between %d and %d", name, lo, hi)
		}
		return 0, fmt.Errorf("%s must be an integer >= %d", name, lo)
	}
	return n, nil
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	skip, err := intParam(r, "skip", 0, 0, 0)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	limit, err := intParam(r, "limit", store.DefaultLimit, 1, store.MaxLimit)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	q := r.URL.Query()
	ls, total, err := store.ListListings(r.Context(), s.DB.Pool, store.ListOpts{
		Source:   q.Get("fonte"),
		Status:   q.Get("status"),
		WorkMode: q.Get("modalidade"),
		JobType:  q.Get("tipo_vaga"),
		English:  q.Get("requisito_ingles"),
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		s.internal(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, domain.ListingPage{Total: total, Listings: ls})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request, id int64) {
	l, err := store.GetListing(r.Context(), s.DB.Pool, id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, l)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data")
	}
	return nil
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in domain.Listing
	if err := decode(r, &in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON: "+err.Error())
		return
	}
	in.ID = 0
	l, err := store.CreateListing(r.Context(), s.DB.Pool, in, s.now())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, l)
}

func (s *Server) createBatch(w http.ResponseWriter, r *http.Request) {
	var in []domain.Listing
	if err := decode(r, &in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON: "+err.Error())
		return
	}
	out := []domain.Listing{}
	for _, l := range in {
		l.ID = 0
		added, stored, err := store.InsertListingIgnore(r.Context(), s.DB.Pool, l, s.now())
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		if added {
			out = append(out, stored)
		}
	}
	if len(out) == 0 {
		writeDetail(w, http.StatusBadRequest, "Todas as vagas já existem")
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, out)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, id int64) {
	var upd domain.ListingUpdate
	if err := decode(r, &upd); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON: "+err.Error())
		return
	}
	if err := validateUpdate(upd); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	l, err := store.UpdateListing(r.Context(), s.DB.Pool, id, upd, s.now())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, l)
}

func validateUpdate(u domain.ListingUpdate) error {
	if u.Status != nil {
		if _, err := domain.ParseStatus(string(*u.Status)); err != nil {
			return err
		}
	}
	if u.WorkMode != nil {
		if _, err := domain.ParseWorkMode(string(*u.WorkMode)); err != nil {
			return err
		}
	}
	if u.English != nil {
		if _, err := domain.ParseEnglishLevel(string(*u.English)); err != nil {
			return err
		}
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return errors.New("titulo cannot be empty")
	}
	return nil
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request, id int64) {
	st, err := domain.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	l, err := store.UpdateListing(r.Context(), s.DB.Pool, id, domain.ListingUpdate{Status: &st}, s.now())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, l)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := store.DeleteListing(r.Context(), s.DB.Pool, id); err != nil {
		s.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := store.Stats(r.Context(), s.DB.Pool, s.now())
	if err != nil {
		s.internal(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, st)
}

// checkpoint is for local maintenance only.
func (s *Server) checkpoint(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "127.0.0.1" && host != "::1" && host != "localhost" {
		writeDetail(w, http.StatusForbidden, "forbidden")
		return
	}
	if err := s.DB.Checkpoint(r.Context()); err != nil {
		s.internal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Vaga não encontrada")
	case errors.Is(err, store.ErrDuplicate):
		writeDetail(w, http.StatusBadRequest, "Vaga duplicada já existe")
	case errors.Is(err, store.ErrInvalid):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.internal(w, r, err)
	}
}

func (s *Server) internal(w http.ResponseWriter, r *http.Request, err error) {
	log.WithFields(log.Fields{
		"component":  "devapi",
		"request_id": httpapi.RequestIDFrom(r.Context()),
		"path":       r.URL.Path,
	}).WithError(err).Error("request failed")
	writeDetail(w, http.StatusInternalServerError, err.Error())
}
