package gateway

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/triesap/mf2-i18n/internal/bytecode"
	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/idmap"
	"github.com/triesap/mf2-i18n/internal/manifest"
	"github.com/triesap/mf2-i18n/internal/mf2"
	"github.com/triesap/mf2-i18n/internal/pack"
	"github.com/triesap/mf2-i18n/internal/publishauth"
	i18nruntime "github.com/triesap/mf2-i18n/internal/runtime"
)

func buildTestRuntime(t *testing.T) *i18nruntime.Runtime {
	t.Helper()
	dir := t.TempDir()
	packsDir := filepath.Join(dir, "packs")
	if err := os.MkdirAll(packsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	ids, err := idmap.Build([]string{"home.title"}, []byte("salt"))
	if err != nil {
		t.Fatalf("Build id map: %v", err)
	}
	idMapHash := ids.Hash()

	msg, err := mf2.ParseMessage("Hi")
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	program := bytecode.Compile(msg)
	id, _ := ids.Get("home.title")

	packBytes := pack.Encode(pack.BuildInput{
		Kind:      pack.KindBase,
		IDMapHash: idMapHash,
		LocaleTag: "en",
		Messages:  map[core.MessageId]*bytecode.Program{id: program},
	})
	packPath := filepath.Join(packsDir, "en.mf2pack")
	if err := os.WriteFile(packPath, packBytes, 0o644); err != nil {
		t.Fatalf("WriteFile pack: %v", err)
	}

	m := &manifest.Manifest{
		Schema:           1,
		ReleaseID:        "r1",
		GeneratedAt:      "2026-02-01T00:00:00Z",
		DefaultLocale:    "en",
		SupportedLocales: []string{"en"},
		IDMapHash:        "sha256:" + hex.EncodeToString(idMapHash[:]),
		MF2Packs: map[string]manifest.PackEntry{
			"en": {
				Kind:            "base",
				URL:             "packs/en.mf2pack",
				Hash:            manifest.SHA256Hex(packBytes),
				Size:            uint64(len(packBytes)),
				ContentEncoding: "identity",
				PackSchema:      0,
			},
		},
	}
	manifestBytes, err := m.ToCanonicalBytes()
	if err != nil {
		t.Fatalf("ToCanonicalBytes: %v", err)
	}
	manifestPath := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(manifestPath, manifestBytes, 0o644); err != nil {
		t.Fatalf("WriteFile manifest: %v", err)
	}

	idMapPath := filepath.Join(dir, "id_map.json")
	idMapJSON := []byte(`{"home.title": ` + id.String() + `}`)
	if err := os.WriteFile(idMapPath, idMapJSON, 0o644); err != nil {
		t.Fatalf("WriteFile id map: %v", err)
	}

	rt, err := i18nruntime.LoadFromPaths(manifestPath, idMapPath, nil)
	if err != nil {
		t.Fatalf("LoadFromPaths: %v", err)
	}
	return rt
}

func testAuthConfig() *publishauth.Config {
	return &publishauth.Config{
		JWTSecret:      "test-secret",
		JWTIssuer:      "mf2i18n-test",
		JWTExpiration:  time.Hour,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}
}

func TestHandleFormatReturnsMessageText(t *testing.T) {
	rt := buildTestRuntime(t)
	h := &handlers{runtime: rt, logger: core.NoopLogger{}}

	req := httptest.NewRequest(http.MethodGet, "/v1/format/en/home.title", nil)
	rr := httptest.NewRecorder()

	h.handleFormat(rr, req, map[string]string{"locale": "en", "key": "home.title"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body = %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if got := rr.Body.String(); got != `{"text":"Hi"}`+"\n" {
		t.Errorf("body = %q, want %q", got, `{"text":"Hi"}`+"\n")
	}
}

func TestHandleFormatRejectsUnknownKey(t *testing.T) {
	rt := buildTestRuntime(t)
	h := &handlers{runtime: rt, logger: core.NoopLogger{}}

	req := httptest.NewRequest(http.MethodGet, "/v1/format/en/missing.key", nil)
	rr := httptest.NewRecorder()

	h.handleFormat(rr, req, map[string]string{"locale": "en", "key": "missing.key"})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestHandleManifestReturnsCanonicalJSON(t *testing.T) {
	rt := buildTestRuntime(t)
	h := &handlers{runtime: rt, logger: core.NoopLogger{}}

	req := httptest.NewRequest(http.MethodGet, "/v1/manifest", nil)
	rr := httptest.NewRecorder()

	h.handleManifest(rr, req, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	want, err := rt.ManifestBytes()
	if err != nil {
		t.Fatalf("ManifestBytes: %v", err)
	}
	if rr.Body.String() != string(want) {
		t.Errorf("body = %q, want %q", rr.Body.String(), string(want))
	}
}

func TestHandlePublishRejectsMissingToken(t *testing.T) {
	rt := buildTestRuntime(t)
	tokens := publishauth.NewTokenManager(testAuthConfig())
	limiter := publishauth.NewPublishLimiter(testAuthConfig())
	h := &handlers{runtime: rt, tokens: tokens, limiter: limiter, logger: core.NoopLogger{}}

	req := httptest.NewRequest(http.MethodPost, "/v1/publish", nil)
	rr := httptest.NewRecorder()

	h.handlePublish(rr, req, nil)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestHandlePublishRejectsMissingScope(t *testing.T) {
	rt := buildTestRuntime(t)
	cfg := testAuthConfig()
	tokens := publishauth.NewTokenManager(cfg)
	limiter := publishauth.NewPublishLimiter(cfg)
	h := &handlers{runtime: rt, tokens: tokens, limiter: limiter, logger: core.NoopLogger{}}

	token, _, err := tokens.Generate("key-a", "salt", []string{string(publishauth.ScopePublishPack)})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/publish", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	h.handlePublish(rr, req, nil)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestHandlePublishInvokesPublishHandler(t *testing.T) {
	rt := buildTestRuntime(t)
	cfg := testAuthConfig()
	tokens := publishauth.NewTokenManager(cfg)
	limiter := publishauth.NewPublishLimiter(cfg)

	var receivedBody string
	var receivedKeyID string
	publish := func(ctx context.Context, claims *publishauth.Claims, body []byte) error {
		receivedBody = string(body)
		receivedKeyID = claims.KeyID
		return nil
	}
	h := &handlers{runtime: rt, tokens: tokens, limiter: limiter, publish: publish, logger: core.NoopLogger{}}

	token, _, err := tokens.Generate("key-a", "salt", []string{string(publishauth.ScopePublishManifest)})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/publish", strings.NewReader(`{"release_id":"r2"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	h.handlePublish(rr, req, nil)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d, body = %s", rr.Code, http.StatusAccepted, rr.Body.String())
	}
	if receivedBody != `{"release_id":"r2"}` {
		t.Errorf("receivedBody = %q", receivedBody)
	}
	if receivedKeyID != "key-a" {
		t.Errorf("receivedKeyID = %q, want key-a", receivedKeyID)
	}
}

func TestHandlePublishRejectsOverBurstLimit(t *testing.T) {
	rt := buildTestRuntime(t)
	cfg := testAuthConfig()
	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 1
	tokens := publishauth.NewTokenManager(cfg)
	limiter := publishauth.NewPublishLimiter(cfg)
	publish := func(ctx context.Context, claims *publishauth.Claims, body []byte) error { return nil }
	h := &handlers{runtime: rt, tokens: tokens, limiter: limiter, publish: publish, logger: core.NoopLogger{}}

	token, _, err := tokens.Generate("key-a", "salt", []string{string(publishauth.ScopePublishManifest)})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/publish", strings.NewReader("{}"))
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		h.handlePublish(rr, req, nil)
		if i == 0 && rr.Code != http.StatusAccepted {
			t.Fatalf("first request status = %d, want %d", rr.Code, http.StatusAccepted)
		}
		if i == 1 && rr.Code != http.StatusTooManyRequests {
			t.Fatalf("second request status = %d, want %d", rr.Code, http.StatusTooManyRequests)
		}
	}
}
