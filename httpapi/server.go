// Package httpapi exposes the engine and scenario store over HTTP.
// Handlers decode a request, call the engine or store, and write JSON;
// all domain logic lives below this layer.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/futurewallet/wallet/engine"
	"github.com/futurewallet/wallet/export"
	"github.com/futurewallet/wallet/scenario"
	"github.com/futurewallet/wallet/store"
)

type Server struct {
	log   *logrus.Logger
	store *store.Store
}

func New(log *logrus.Logger, st *store.Store) *Server {
	return &Server{log: log, store: st}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/simulate", s.simulate).Methods(http.MethodPost)
	api.HandleFunc("/simulate/counterfactual", s.simulateCounterfactual).Methods(http.MethodPost)
	api.HandleFunc("/scenarios", s.createScenario).Methods(http.MethodPost)
	api.HandleFunc("/scenarios", s.listScenarios).Methods(http.MethodGet)
	api.HandleFunc("/scenarios/{id}", s.getScenario).Methods(http.MethodGet)
	api.HandleFunc("/scenarios/{id}/branch", s.branchScenario).Methods(http.MethodPost)
	api.HandleFunc("/scenarios/{id}/share", s.shareScenario).Methods(http.MethodPost)
	api.HandleFunc("/scenarios/{id}/export.csv", s.exportCSV).Methods(http.MethodGet)
	api.HandleFunc("/share/{token}", s.resolveShare).Methods(http.MethodGet)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeScenario(r *http.Request) (scenario.Scenario, error) {
	var cfg scenario.Scenario
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		return scenario.Scenario{}, err
	}
	if err := cfg.Validate(); err != nil {
		return scenario.Scenario{}, err
	}
	return cfg, nil
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	cfg, err := decodeScenario(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := engine.Run(cfg, nil, nil)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) simulateCounterfactual(w http.ResponseWriter, r *http.Request) {
	cfg, err := decodeScenario(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := engine.RunCounterfactual(cfg, nil, nil)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// scenarioSummary is the listing shape: no full config payload.
type scenarioSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parentId,omitempty"`
	BranchDay int       `json:"branchDay,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) createScenario(w http.ResponseWriter, r *http.Request) {
	cfg, err := decodeScenario(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := s.store.SaveScenario(cfg)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	// Persist a run alongside so branches and exports have data.
	res, err := engine.Run(cfg, nil, nil)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if _, err := s.store.SaveRun(rec.ID, res); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusCreated, scenarioSummary{
		ID: rec.ID, Name: rec.Name, CreatedAt: rec.CreatedAt,
	})
}

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListScenarios()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]scenarioSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, scenarioSummary{
			ID: rec.ID, Name: rec.Name,
			ParentID: rec.ParentID, BranchDay: rec.BranchDay,
			CreatedAt: rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getScenario(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetScenario(mux.Vars(r)["id"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec.Config)
}

func (s *Server) branchScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day  int    `json:"day"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := s.store.Branch(mux.Vars(r)["id"], req.Day, req.Name)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scenarioSummary{
		ID: rec.ID, Name: rec.Name,
		ParentID: rec.ParentID, BranchDay: rec.BranchDay,
		CreatedAt: rec.CreatedAt,
	})
}

func (s *Server) shareScenario(w http.ResponseWriter, r *http.Request) {
	token, err := s.store.CreateShareToken(mux.Vars(r)["id"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (s *Server) resolveShare(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.ResolveShareToken(mux.Vars(r)["token"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec.Config)
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetScenario(mux.Vars(r)["id"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	res, err := engine.Run(rec.Config, nil, nil)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	if err := export.WriteCSV(w, res, rec.Name); err != nil {
		s.log.WithError(err).Error("csv export failed")
	}
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeError(w, http.StatusInternalServerError, err)
}
