package sandbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codecrux/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runtimesServer(t *testing.T, runtimes []RuntimeInfo) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/runtimes", r.URL.Path)
		json.NewEncoder(w).Encode(runtimes)
	}))
}

func TestRefreshPinsVersions(t *testing.T) {
	srv := runtimesServer(t, []RuntimeInfo{
		{Language: "python", Version: "3.12.0", Aliases: []string{"py", "python3"}},
		{Language: "gcc", Version: "10.2.0", Aliases: []string{"c++", "g++"}},
		{Language: "node", Version: "20.11.1", Aliases: []string{"javascript", "js"}},
	})
	defer srv.Close()

	reg := NewRegistry(NewClient(srv.URL, 5*time.Second))
	require.NoError(t, reg.Refresh(context.Background()))

	rt, err := reg.Resolve(model.LangPython)
	require.NoError(t, err)
	assert.Equal(t, Runtime{PistonID: "python", Version: "3.12.0"}, rt)

	// c++ is matched through the alias list.
	rt, err = reg.Resolve(model.LangCPP)
	require.NoError(t, err)
	assert.Equal(t, Runtime{PistonID: "c++", Version: "10.2.0"}, rt)

	rt, err = reg.Resolve(model.LangJavaScript)
	require.NoError(t, err)
	assert.Equal(t, "20.11.1", rt.Version)

	// java was not in the capability list: wildcard, not an error.
	rt, err = reg.Resolve(model.LangJava)
	require.NoError(t, err)
	assert.Equal(t, Runtime{PistonID: "java", Version: WildcardVersion}, rt)
}

func TestRefreshFailureLeavesWildcard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := NewRegistry(NewClient(srv.URL, 5*time.Second))
	err := reg.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPI)

	// Registry stays usable after a failed refresh.
	rt, err := reg.Resolve(model.LangPython)
	require.NoError(t, err)
	assert.Equal(t, WildcardVersion, rt.Version)
}

func TestResolveUnknownLanguage(t *testing.T) {
	reg := NewRegistry(NewClient("http://localhost:0", time.Second))
	_, err := reg.Resolve(model.Language("cobol"))
	assert.Error(t, err)
}

func TestSourceNamesAndPreludes(t *testing.T) {
	for _, lang := range model.SupportedLanguages() {
		assert.NotEmpty(t, SourceFileName(lang), "source file name for %s", lang)
	}
	assert.Contains(t, Prelude(model.LangPython), "from typing import")
	assert.Empty(t, Prelude(model.LangCPP))
}
