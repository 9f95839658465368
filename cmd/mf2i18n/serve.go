package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/gateway"
	"github.com/triesap/mf2-i18n/internal/manifest"
	"github.com/triesap/mf2-i18n/internal/publishauth"
	"github.com/triesap/mf2-i18n/internal/runtime"
	"github.com/triesap/mf2-i18n/internal/store"
)

// runServe loads a built release and hosts it behind the distribution
// gateway until interrupted. Publish auth config, the gateway's own
// listener config, and (optionally) build-history storage are all read
// from their package-local environment variables; see
// internal/publishauth/config.go, internal/gateway/config.go, and
// internal/store/config.go.
//
// A listen-serve-drain main beyond the build pipeline's six named
// subcommands, added to give internal/gateway, internal/store, and
// internal/publishauth an actual process to run in rather than leaving
// them exercised only by package tests.
func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	manifestPath := fs.String("manifest", "", "local path to manifest.json")
	idMapPath := fs.String("id-map", "", "local path to id_map.json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *manifestPath == "" || *idMapPath == "" {
		return fmt.Errorf("--manifest and --id-map are required")
	}

	logger := newCLILogger()

	rt, err := runtime.LoadFromPaths(*manifestPath, *idMapPath, logger)
	if err != nil {
		return fmt.Errorf("loading runtime: %w", err)
	}

	authCfg, err := publishauth.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading publish auth config: %w", err)
	}
	tokens := publishauth.NewTokenManager(authCfg)
	limiter := publishauth.NewPublishLimiter(authCfg)

	var buildStore store.Store
	storeCfg, err := store.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading build history store config: %w", err)
	}
	buildStore, err = store.Open(context.Background(), *storeCfg)
	if err != nil {
		logger.Warn("build history store unavailable, publishes will not be recorded", "error", err.Error())
		buildStore = nil
	} else {
		defer buildStore.Close()
	}

	publish := newPublishHandler(*manifestPath, buildStore, logger)

	gwCfg, err := gateway.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading gateway config: %w", err)
	}
	gw, err := gateway.NewGateway(gwCfg, rt, tokens, limiter, publish, logger)
	if err != nil {
		return fmt.Errorf("building gateway: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return gw.Start(ctx)
}

// newPublishHandler replaces the served manifest.json on disk with a
// freshly published one and records the release in buildStore when one
// is configured. The gateway re-reads manifestPath only on process
// restart; a publish here does not hot-swap the in-memory Runtime a
// running serve process already loaded.
func newPublishHandler(manifestPath string, buildStore store.Store, logger core.Logger) gateway.PublishHandler {
	return func(ctx context.Context, claims *publishauth.Claims, body []byte) error {
		var m manifest.Manifest
		if err := json.Unmarshal(body, &m); err != nil {
			return fmt.Errorf("parsing published manifest: %w", err)
		}

		if err := os.WriteFile(manifestPath, body, 0o644); err != nil {
			return fmt.Errorf("writing published manifest: %w", err)
		}
		logger.Info("published manifest", "release_id", m.ReleaseID, "key_id", claims.KeyID)

		if buildStore == nil {
			return nil
		}
		now := time.Now()
		run := store.NewBuildRun(claims.KeyID, now).Complete(now, len(m.MF2Packs), 0, m.IDMapHash, m.ReleaseID)
		if err := buildStore.RecordBuildRun(ctx, run); err != nil {
			logger.Warn("recording build run failed", "error", err.Error())
		}
		return nil
	}
}
