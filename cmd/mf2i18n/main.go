// Command mf2i18n drives the extract/compile/pack/manifest/sign/
// runtime-check pipeline for one project's message catalog, and hosts
// the distribution gateway.
package main

import (
	"fmt"
	"os"
)

type command struct {
	name string
	run  func(args []string) error
	help string
}

var commands []command

func init() {
	commands = []command{
		{"extract", runExtract, "scan source roots for t! call sites and write a catalog + id map"},
		{"compile", runCompile, "validate one locale's .mf2 source against a catalog"},
		{"pack", runPack, "compile every locale source directory into .mf2pack artifacts"},
		{"manifest", runManifest, "assemble manifest.json from a packs directory"},
		{"sign", runSign, "attach an Ed25519 signature to a manifest"},
		{"runtime-check", runRuntimeCheck, "load a manifest/id-map and format a test message"},
		{"serve", runServe, "host the distribution gateway over a built release"},
	}
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	name := os.Args[1]
	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		if err := cmd.run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "mf2i18n %s: %v\n", name, err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "mf2i18n: unknown command %q\n\n", name)
	printUsage()
	os.Exit(2)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: mf2i18n <command> [flags]")
	fmt.Fprintln(os.Stderr, "\ncommands:")
	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %-14s %s\n", cmd.name, cmd.help)
	}
}
