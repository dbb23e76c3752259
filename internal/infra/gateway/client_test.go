package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	client, err := New(Config{BaseURL: "http://localhost:8000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", client.BaseURL())
	assert.NotNil(t, client.httpClient.Jar)
}

func TestCall_HeadersAndMethod(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/enqueue", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"song_id":7}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":7,"title":"Seven","artist":"A","duration_sec":10,"audio_url":null}]`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	queue, err := client.Enqueue(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, int64(7), queue[0].ID)
}

func TestCall_DefaultsToGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `{"user":null}`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	me, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.False(t, me.Authenticated())
}

func TestCall_RemoteCallErrorCarriesRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail":"song not found"}`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Enqueue(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, `{"detail":"song not found"}`, err.Error())

	rce, ok := AsRemoteCallError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, rce.Status)
	assert.Equal(t, "/enqueue", rce.Path)
	assert.True(t, IsRemoteCallError(err))
}

func TestCall_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Songs(context.Background())
	require.Error(t, err)
	assert.False(t, IsRemoteCallError(err))

	// Commands that ignore the body still reject invalid JSON.
	err = client.Logout(context.Background())
	require.Error(t, err)
	assert.False(t, IsRemoteCallError(err))
}

func TestCall_NullListDecodesEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `null`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	history, err := client.History(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestCall_SessionCookieIsKept(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		http.SetCookie(w, &http.Cookie{Name: "session", Value: req.Username, Path: "/"})
		fmt.Fprint(w, `{"ok":true}`)
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		if err != nil {
			fmt.Fprint(w, `{"user":null}`)
			return
		}
		fmt.Fprintf(w, `{"user":%q}`, c.Value)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)
	ctx := context.Background()

	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.False(t, me.Authenticated())

	require.NoError(t, client.Login(ctx, "alice"))

	me, err = client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username())
}

func TestCall_Paths(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.Path)
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, client.RemoveSong(ctx, 3))
	require.NoError(t, client.RemoveFavorite(ctx, 4))
	require.NoError(t, client.AddFavorite(ctx, 4))
	require.NoError(t, client.SetImpl(ctx, "linked"))
	require.NoError(t, client.SeedFast(ctx))
	_, err = client.Next(ctx)
	require.NoError(t, err)
	_, err = client.Previous(ctx)
	require.NoError(t, err)
	_, err = client.CurrentPlay(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"DELETE /songs/3",
		"DELETE /favorites/4",
		"POST /favorites",
		"POST /impl",
		"POST /seed_fast",
		"POST /next",
		"POST /previous",
		"GET /play",
	}, got)
}
