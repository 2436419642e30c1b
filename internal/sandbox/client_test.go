package sandbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteSuccess(t *testing.T) {
	var got ExecRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/execute", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ExecResponse{
			Language: got.Language,
			Version:  "3.12.0",
			Run:      &StageResult{Stdout: "[0,1]\n", Code: 0},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	resp, err := client.Execute(context.Background(), ExecRequest{
		Language: "python",
		Version:  "*",
		Files:    []File{{Name: "main.py", Content: "print('hi')"}},
		Stdin:    "[2,7,11,15]\n9",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Run)
	assert.Equal(t, "[0,1]\n", resp.Run.Stdout)
	assert.Equal(t, "python", got.Language)
	assert.Equal(t, "[2,7,11,15]\n9", got.Stdin)
}

func TestExecuteNon200WrapsErrAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.Execute(context.Background(), ExecRequest{Language: "python", Version: "*"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPI)
}

func TestExecuteMalformedBodyWrapsErrAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.Execute(context.Background(), ExecRequest{Language: "python", Version: "*"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPI)
}

func TestExecuteTransportErrorIsNotErrAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, time.Second)
	_, err := client.Execute(context.Background(), ExecRequest{Language: "python", Version: "*"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAPI)
}
