package sandbox

import (
	"context"
	"fmt"
	"sync"

	"codecrux/internal/domain/model"

	log "github.com/sirupsen/logrus"
)

// WildcardVersion asks the sandbox for the latest version it has installed.
// It is the fallback when the capability list could not be fetched.
const WildcardVersion = "*"

// pistonLanguageIDs maps our closed language set to the identifiers the
// execution service understands.
var pistonLanguageIDs = map[model.Language]string{
	model.LangPython:     "python",
	model.LangCPP:        "c++",
	model.LangJava:       "java",
	model.LangJavaScript: "javascript",
}

var sourceFileNames = map[model.Language]string{
	model.LangPython:     "main.py",
	model.LangCPP:        "main.cpp",
	model.LangJava:       "Main.java",
	model.LangJavaScript: "main.js",
}

// preludes are fixed per-language snippets injected ahead of user code when
// the driver harness depends on them.
var preludes = map[model.Language]string{
	model.LangPython: "from typing import List, Dict, Optional, Tuple\n\n",
}

// Prelude returns the source prefix for lang, empty when none is needed.
func Prelude(lang model.Language) string {
	return preludes[lang]
}

// SourceFileName returns the file name the sandbox expects for lang.
func SourceFileName(lang model.Language) string {
	return sourceFileNames[lang]
}

// Runtime is a concrete execution environment resolved for a language.
type Runtime struct {
	PistonID string
	Version  string
}

// Registry resolves logical languages to sandbox runtimes. Versions are
// learned once per process from the sandbox capability list; until then (or
// if the fetch fails) every language resolves with the wildcard version.
type Registry struct {
	client *Client

	mu       sync.RWMutex
	versions map[model.Language]string
}

func NewRegistry(client *Client) *Registry {
	return &Registry{
		client:   client,
		versions: make(map[model.Language]string),
	}
}

// Refresh fetches the sandbox capability list and records the concrete
// version for each supported language. Failure leaves the registry usable
// with wildcard versions; callers should log it, not abort.
func (r *Registry) Refresh(ctx context.Context) error {
	runtimes, err := r.client.Runtimes(ctx)
	if err != nil {
		return fmt.Errorf("refreshing runtime registry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for lang, pistonID := range pistonLanguageIDs {
		for _, rt := range runtimes {
			if rt.Language == pistonID || hasAlias(rt.Aliases, pistonID) {
				r.versions[lang] = rt.Version
				break
			}
		}
	}
	log.WithField("languages", len(r.versions)).Info("runtime registry refreshed")
	return nil
}

// Resolve returns the sandbox runtime for lang. An unknown language is a
// configuration error; execution must not proceed.
func (r *Registry) Resolve(lang model.Language) (Runtime, error) {
	pistonID, ok := pistonLanguageIDs[lang]
	if !ok {
		return Runtime{}, fmt.Errorf("no runtime mapping for language %q", lang)
	}

	r.mu.RLock()
	version, ok := r.versions[lang]
	r.mu.RUnlock()
	if !ok {
		version = WildcardVersion
	}
	return Runtime{PistonID: pistonID, Version: version}, nil
}

func hasAlias(aliases []string, name string) bool {
	for _, a := range aliases {
		if a == name {
			return true
		}
	}
	return false
}
