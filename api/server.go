// Package api - Thin HTTP layer over the costing engine
// The API is only responsible for input ingestion, engine orchestration
// and output serialization. It never performs cost logic.
package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recipe-cost/core/costing"
	"recipe-cost/core/types"
	"recipe-cost/db"
	"recipe-cost/internal/config"
	"recipe-cost/internal/errors"
	"recipe-cost/internal/logging"
)

// Server is the API server
type Server struct {
	mux     *http.ServeMux
	store   *db.Store
	version string
}

// NewServer creates a new API server over the given store.
func NewServer(version string, store *db.Store) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		store:   store,
		version: version,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /ingredients", s.handleListIngredients)
	s.mux.HandleFunc("POST /ingredients", s.handleCreateIngredient)
	s.mux.HandleFunc("PUT /ingredients/{id}", s.handleUpdateIngredient)
	s.mux.HandleFunc("DELETE /ingredients/{id}", s.handleDeleteIngredient)

	s.mux.HandleFunc("POST /recipes", s.handleCreateRecipe)
	s.mux.HandleFunc("GET /recipes", s.handleListRecipes)

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListIngredients(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, list, http.StatusOK)
}

func (s *Server) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req IngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	ing, err := req.toIngredient()
	if err != nil {
		s.writeError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.CreateIngredient(r.Context(), ing); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, ing, http.StatusCreated)
}

func (s *Server) handleUpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req IngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	ing, err := req.toIngredient()
	if err != nil {
		s.writeError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}
	ing.ID = types.IngredientID(id)
	if err := s.store.UpdateIngredient(r.Context(), ing); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, ing, http.StatusOK)
}

func (s *Server) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteIngredient(r.Context(), types.IngredientID(id)); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, map[string]int64{"deleted": id}, http.StatusOK)
}

// handleCreateRecipe costs the recipe against a catalog snapshot, then
// persists recipe, result and lines atomically. Costing failures leave
// nothing behind.
func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	recipe := req.toRecipe(config.Get().Costing.DefaultMarginPercent)
	if err := recipe.Validate(); err != nil {
		s.writeError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	snapshot, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	result, err := costing.Cost(recipe, costing.MapResolver(snapshot))
	if err != nil {
		s.writeCostingError(w, requestID, err)
		return
	}

	rounded := result.Rounded()
	if err := s.store.CreateRecipe(r.Context(), recipe, &rounded); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	logging.Info("recipe costed",
		zap.String("request_id", requestID),
		zap.String("recipe", recipe.Name),
		zap.String("total_cost", rounded.TotalCost.String()),
		zap.String("suggested_price", rounded.SuggestedPrice.String()))

	s.writeJSON(w, recipeResponse(recipe, &rounded), http.StatusCreated)
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListRecipes(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	out := make([]*RecipeResponse, 0, len(list))
	for _, sr := range list {
		out = append(out, storedRecipeResponse(sr))
	}
	s.writeJSON(w, out, http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version": s.version,
		"engine":  "recipe-cost",
	}, http.StatusOK)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, "INVALID_ID", "id must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeCostingError maps engine failures: an unknown ingredient is a
// not-found condition, anything conversion-shaped is a bad request.
func (s *Server) writeCostingError(w http.ResponseWriter, requestID string, err error) {
	var cerr *costing.Error
	if stderrors.As(err, &cerr) {
		logging.Warn("costing failed",
			zap.String("request_id", requestID),
			zap.Int64("ingredient_id", int64(cerr.IngredientID)),
			zap.Error(err))
		if stderrors.Is(err, costing.ErrUnknownIngredient) {
			s.writeError(w, "UNKNOWN_INGREDIENT", err.Error(), http.StatusNotFound)
			return
		}
		s.writeError(w, "INCOMPATIBLE_UNITS", err.Error(), http.StatusBadRequest)
		return
	}
	s.writeError(w, "COSTING_ERROR", err.Error(), http.StatusInternalServerError)
}

// writeDomainError maps internal/errors categories onto status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	code := string(errors.TypeOf(err))
	switch errors.TypeOf(err) {
	case errors.TypeNotFound:
		s.writeError(w, code, err.Error(), http.StatusNotFound)
	case errors.TypeInput:
		s.writeError(w, code, err.Error(), http.StatusBadRequest)
	default:
		logging.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.writeError(w, code, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
