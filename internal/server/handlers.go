package server

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/arcisi/pkg/buildinfo"
	"github.com/matzehuels/arcisi/pkg/cache"
	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/genre"
	"github.com/matzehuels/arcisi/pkg/pipeline"
	"github.com/matzehuels/arcisi/pkg/plan"
	"github.com/matzehuels/arcisi/pkg/recipe"
	"github.com/matzehuels/arcisi/pkg/render"
	"github.com/matzehuels/arcisi/pkg/store"
)

// =============================================================================
// Response Types
// =============================================================================

type bakeBody struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Seed       uint64            `json:"seed"`
	RecipeHash string            `json:"recipe_hash"`
	PlanHash   string            `json:"plan_hash"`
	CreatedAt  time.Time         `json:"created_at"`
	Stats      *statsBody        `json:"stats,omitempty"`
	Cached     *cachedBody       `json:"cached,omitempty"`
	Artifacts  map[string]string `json:"artifacts,omitempty"`
	Recipe     string            `json:"recipe,omitempty"`
	Plan       *plan.Plan        `json:"plan,omitempty"`
}

type statsBody struct {
	Floors    int     `json:"floors"`
	Rooms     int     `json:"rooms"`
	Occupants int     `json:"occupants"`
	Area      float64 `json:"area"`
}

type cachedBody struct {
	Bake   bool `json:"bake"`
	Render bool `json:"render"`
}

type genreBody struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func newBakeBody(rec *store.Record) bakeBody {
	b := bakeBody{
		ID:         rec.ID,
		Name:       rec.Name,
		Seed:       rec.Seed,
		RecipeHash: rec.RecipeHash,
		PlanHash:   rec.PlanHash,
		CreatedAt:  rec.CreatedAt,
	}
	if rec.Plan != nil {
		st := rec.Plan.Stats()
		b.Stats = &statsBody{
			Floors:    st.Floors,
			Rooms:     st.Rooms,
			Occupants: rec.Plan.Occupants,
			Area:      st.Area,
		}
	}
	return b
}

func artifactURL(id, format string, query url.Values) string {
	u := fmt.Sprintf("/v1/bakes/%s/artifacts/%s", id, format)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	var out []genreBody
	for _, name := range s.registry.Names() {
		g, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		out = append(out, genreBody{Name: name, Description: genre.Describe(g)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"genres": out})
}

func (s *Server) handleCreateBake(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxRecipeBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeErrorStatus(w, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput),
				fmt.Sprintf("recipe exceeds %d bytes", s.cfg.MaxRecipeBytes))
			return
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read recipe"))
		return
	}

	query := r.URL.Query()
	opts, err := renderOptions(query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if opts.Formats, err = render.ParseFormats(query.Get("format")); err != nil {
		s.fail(w, r, err)
		return
	}
	if opts.Seed, err = parseSeed(query.Get("seed")); err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Recipe = body

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rec := store.NewRecord(res.Recipe.Source(), cache.Hash(res.Recipe.Source()), res.Plan, res.PlanHash)
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.fail(w, r, errors.Annotate(err, "save bake"))
		return
	}

	// Artifact links carry the render options but not the bake-only ones
	linkQuery := url.Values{}
	for k, v := range query {
		if k != "format" && k != "seed" {
			linkQuery[k] = v
		}
	}

	out := newBakeBody(rec)
	out.Cached = &cachedBody{Bake: res.CacheInfo.BakeHit, Render: res.CacheInfo.RenderHit}
	out.Artifacts = make(map[string]string, len(res.Artifacts))
	for format := range res.Artifacts {
		out.Artifacts[format] = artifactURL(rec.ID, format, linkQuery)
	}

	w.Header().Set("Location", "/v1/bakes/"+rec.ID)
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleListBakes(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidRequest, "invalid limit %q", v))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]bakeBody, len(recs))
	for i, rec := range recs {
		out[i] = newBakeBody(rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{"bakes": out})
}

func (s *Server) handleGetBake(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := newBakeBody(rec)
	out.Recipe = rec.Recipe
	out.Plan = rec.Plan
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteBake(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		s.fail(w, r, errors.New(errors.ErrCodeNotFound, "bake %s not found", id))
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.lookup(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if rec.Plan == nil {
		s.fail(w, r, errors.New(errors.ErrCodeInternal, "bake %s has no plan", rec.ID))
		return
	}

	opts, err := renderOptions(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.Seed = rec.Seed

	// The stored recipe supplies render defaults the query leaves open
	if rcp, err := recipe.Parse([]byte(rec.Recipe)); err == nil {
		opts.Resolve(rcp)
	} else {
		opts.Resolve(nil)
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), rec.Plan, rec.PlanHash, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) lookup(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		return nil, errors.New(errors.ErrCodeNotFound, "bake %s not found", id)
	}
	return s.store.Get(r.Context(), id)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeError(w, err)
}

// renderOptions reads the render query parameters shared by bake creation
// and artifact fetches.
func renderOptions(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options

	if v := q.Get("mode"); v != "" {
		if err := pipeline.ValidateMode(v); err != nil {
			return opts, err
		}
		opts.Mode = v
	}
	if v := q.Get("floor"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < pipeline.AllFloors {
			return opts, errors.New(errors.ErrCodeInvalidRequest, "invalid floor %q", v)
		}
		opts.Floor = &n
	}
	if v := q.Get("detailed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidRequest, "invalid detailed %q", v)
		}
		opts.Detailed = b
	}
	if v := q.Get("labels"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidRequest, "invalid labels %q", v)
		}
		opts.Labels = &b
	}
	return opts, nil
}

// parseSeed accepts seeds up to MaxInt64 so stored records stay BSON-safe.
func parseSeed(v string) (uint64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 63)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidRequest, "invalid seed %q", v)
	}
	return n, nil
}
