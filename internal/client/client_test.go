package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/nixdle/internal/api"
	"github.com/joss/nixdle/internal/logging"
)

func TestStart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/nixdle/start", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(logging.RequestIDHeader))
		w.Write([]byte(`{"date":"2026-10-15","attempt_url":"http://x/attempt","clue_attempts":5,"possible_clues":2,"rules":"r","version":"0.1.0","nix_commit":"abc"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/nixdle/", nil)
	msg, err := c.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &api.StartMessage{
		Date:          "2026-10-15",
		AttemptURL:    "http://x/attempt",
		ClueAttempts:  5,
		PossibleClues: 2,
		Rules:         "r",
		Version:       "0.1.0",
		NixCommit:     "abc",
	}, msg)
}

func TestAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.AttemptRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, api.AttemptRequest{Input: "builtins.substring", Attempts: 4}, req)

		w.Write([]byte(`{"success":false,"func":null,"description":null,"clues":["lib"],"args":"too-high","input":false,"output":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	msg, err := c.Attempt(context.Background(), srv.URL+"/attempt", api.AttemptRequest{Input: "builtins.substring", Attempts: 4})
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.False(t, msg.Success)
	assert.Nil(t, msg.Func)
	assert.Equal(t, []string{"lib"}, msg.Clues)
	assert.Equal(t, api.TooHigh, msg.Args)
	assert.True(t, msg.Output)
}

func TestAttemptUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null\n"))
	}))
	defer srv.Close()

	msg, err := New(srv.URL, nil).Attempt(context.Background(), srv.URL+"/attempt", api.AttemptRequest{Input: "nope"})
	assert.NoError(t, err)
	assert.Nil(t, msg)
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid field: Input"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Attempt(context.Background(), srv.URL+"/attempt", api.AttemptRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadRequest, serr.Code)
	assert.Contains(t, serr.Body, "invalid field")
}

func TestMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hai :3"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Start(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrServer)
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, nil).Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
