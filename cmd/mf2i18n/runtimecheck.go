package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/fetch"
	"github.com/triesap/mf2-i18n/internal/runtime"
)

// runRuntimeCheck loads a built release, local or remote, and formats
// one message as a smoke test, printing the rendered text on success.
//
// Grounded on original_source/crates/mf2-i18n-cli/src/command_build.rs
// (post-build sanity format call).
func runRuntimeCheck(args []string) error {
	fs := flag.NewFlagSet("runtime-check", flag.ContinueOnError)
	manifestPath := fs.String("manifest", "", "local path to manifest.json")
	idMapPath := fs.String("id-map", "", "local path to id_map.json (required with --manifest)")
	manifestURL := fs.String("manifest-url", "", "HTTP(S) URL of manifest.json (alternative to --manifest)")
	locale := fs.String("locale", "", "locale to format the message in")
	key := fs.String("key", "", "message key to format")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *locale == "" || *key == "" {
		return fmt.Errorf("--locale and --key are required")
	}
	if (*manifestPath == "") == (*manifestURL == "") {
		return fmt.Errorf("exactly one of --manifest or --manifest-url is required")
	}

	logger := newCLILogger()
	ctx := context.Background()

	var rt *runtime.Runtime
	var err error
	if *manifestPath != "" {
		if *idMapPath == "" {
			return fmt.Errorf("--id-map is required with --manifest")
		}
		rt, err = runtime.LoadFromPaths(*manifestPath, *idMapPath, logger)
	} else {
		var fetcher *fetch.Fetcher
		fetcher, err = fetch.New(fetch.Config{})
		if err != nil {
			return err
		}
		rt, err = runtime.LoadFromURL(ctx, *manifestURL, fetcher, logger)
	}
	if err != nil {
		return fmt.Errorf("loading runtime: %w", err)
	}

	text, err := rt.Format(*locale, *key, core.ArgBag{})
	if err != nil {
		return fmt.Errorf("formatting %s/%s: %w", *locale, *key, err)
	}
	fmt.Printf("%s/%s => %q\n", *locale, *key, text)
	return nil
}
