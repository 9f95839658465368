package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"

	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/publishauth"
	i18nruntime "github.com/triesap/mf2-i18n/internal/runtime"
)

// handlers implements the REST/JSON surface registered on the
// grpc-gateway ServeMux: Format, Manifest, and Publish.
type handlers struct {
	runtime *i18nruntime.Runtime
	tokens  *publishauth.TokenManager
	limiter *publishauth.PublishLimiter
	publish PublishHandler
	logger  core.Logger
}

// register binds every REST route via HandlePath, grpc-gateway's public
// API for registering handlers without a generated service stub.
func (h *handlers) register(mux *gwruntime.ServeMux) error {
	routes := []struct {
		method, pattern string
		handler         gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/v1/format/{locale}/{key}", h.handleFormat},
		{http.MethodGet, "/v1/manifest", h.handleManifest},
		{http.MethodPost, "/v1/publish", h.handlePublish},
	}
	for _, route := range routes {
		if err := mux.HandlePath(route.method, route.pattern, route.handler); err != nil {
			return err
		}
	}
	return nil
}

// formatResponse is the JSON body returned by handleFormat.
type formatResponse struct {
	Text string `json:"text"`
}

// errorResponse is the JSON body returned for any handler failure.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// handleFormat serves GET /v1/format/{locale}/{key}?args={...json...}.
// args, if present, is a flat JSON object of string/number/bool values
// mapped onto core.Value arguments.
func (h *handlers) handleFormat(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	locale := pathParams["locale"]
	key := pathParams["key"]

	args, err := parseArgs(r.URL.Query().Get("args"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	text, err := h.runtime.Format(locale, key, args)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, formatResponse{Text: text})
}

// handleManifest serves GET /v1/manifest, returning the loaded
// manifest's canonical JSON form verbatim.
func (h *handlers) handleManifest(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	raw, err := h.runtime.ManifestBytes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// handlePublish serves POST /v1/publish. The caller must present a
// bearer token scoped for publish:manifest; once authenticated and
// admitted past the per-key rate limiter, the request body is handed
// to the injected PublishHandler verbatim.
func (h *handlers) handlePublish(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, publishauth.ErrInvalidToken)
		return
	}

	claims, err := h.tokens.RequireScope(token, publishauth.ScopePublishManifest)
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	if !h.limiter.Allow(claims.KeyID) {
		writeError(w, http.StatusTooManyRequests, publishauth.ErrRateLimitExceeded)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.publish(r.Context(), claims, body); err != nil {
		h.logger.Error("publish handler failed", "key_id", claims.KeyID, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusAccepted, struct{}{})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func parseArgs(raw string) (core.ArgBag, error) {
	args := core.ArgBag{}
	if raw == "" {
		return args, nil
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}
	for name, v := range decoded {
		switch value := v.(type) {
		case string:
			args[name] = core.Str(value)
		case float64:
			args[name] = core.Num(value)
		case bool:
			args[name] = core.Bool(value)
		default:
			args[name] = core.Value{Kind: core.KindAny, Any: value}
		}
	}
	return args, nil
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrMissing):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrIntegrity):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnsupported):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
