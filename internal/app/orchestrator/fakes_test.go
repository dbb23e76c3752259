package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osa030/jukeclient/internal/app/playback"
	"github.com/osa030/jukeclient/internal/domain/song"
	"github.com/osa030/jukeclient/internal/infra/audio"
	"github.com/osa030/jukeclient/internal/infra/gateway"
)

const sessionCookie = "session"

// fakeServer is an in-memory jukebox server with cookie sessions.
type fakeServer struct {
	t *testing.T

	mu        sync.Mutex
	sessions  map[string]string
	nextToken int
	songs     map[int64]song.Song
	nextID    int64
	queue     []int64
	history   []int64
	current   *int64
	favorites map[string]map[int64]bool
	impl      string
	failures  map[string]int           // "METHOD /path" -> status
	gates     map[string]chan struct{} // "METHOD /path" -> released by the test
	arrived   chan string
	hits      []string

	srv *httptest.Server
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	f := &fakeServer{
		t:         t,
		sessions:  make(map[string]string),
		songs:     make(map[int64]song.Song),
		nextID:    1,
		favorites: make(map[string]map[int64]bool),
		failures:  make(map[string]int),
		gates:     make(map[string]chan struct{}),
		arrived:   make(chan string, 16),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /me", f.handleMe)
	mux.HandleFunc("POST /login", f.handleLogin)
	mux.HandleFunc("POST /logout", f.handleLogout)
	mux.HandleFunc("GET /songs", f.authed(f.handleSongs))
	mux.HandleFunc("POST /songs", f.authed(f.handleAddSong))
	mux.HandleFunc("DELETE /songs/{id}", f.authed(f.handleRemoveSong))
	mux.HandleFunc("GET /queue", f.authed(f.handleQueue))
	mux.HandleFunc("GET /history", f.authed(f.handleHistory))
	mux.HandleFunc("POST /enqueue", f.authed(f.handleEnqueue))
	mux.HandleFunc("GET /play", f.authed(f.handlePlay))
	mux.HandleFunc("POST /next", f.authed(f.handleNext))
	mux.HandleFunc("POST /previous", f.authed(f.handlePrevious))
	mux.HandleFunc("GET /favorites", f.authed(f.handleFavorites))
	mux.HandleFunc("POST /favorites", f.authed(f.handleAddFavorite))
	mux.HandleFunc("DELETE /favorites/{id}", f.authed(f.handleRemoveFavorite))
	mux.HandleFunc("POST /impl", f.authed(f.handleImpl))
	mux.HandleFunc("POST /seed_fast", f.handleSeed)

	f.srv = httptest.NewServer(f.intercept(mux))
	t.Cleanup(f.srv.Close)
	return f
}

// intercept records hits and applies injected failures and gates.
func (f *fakeServer) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		f.mu.Lock()
		f.hits = append(f.hits, key)
		status, failing := f.failures[key]
		gate, gated := f.gates[key]
		if gated {
			delete(f.gates, key)
		}
		f.mu.Unlock()

		if gated {
			f.arrived <- key
			<-gate
		}
		if failing {
			http.Error(w, `{"detail":"injected failure"}`, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeServer) authed(h func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := f.userOf(r)
		if user == "" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"detail":"Not authenticated"}`)
			return
		}
		h(w, r, user)
	}
}

func (f *fakeServer) userOf(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[c.Value]
}

func (f *fakeServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		f.t.Errorf("encode response: %v", err)
	}
}

func (f *fakeServer) handleMe(w http.ResponseWriter, r *http.Request) {
	user := f.userOf(r)
	if user == "" {
		f.writeJSON(w, map[string]any{"user": nil})
		return
	}
	f.writeJSON(w, map[string]any{"user": user})
}

func (f *fakeServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, `{"detail":"username required"}`, http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.nextToken++
	token := strconv.Itoa(f.nextToken)
	f.sessions[token] = req.Username
	f.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/"})
	f.writeJSON(w, map[string]any{"ok": true})
}

func (f *fakeServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		f.mu.Lock()
		delete(f.sessions, c.Value)
		f.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	f.writeJSON(w, map[string]any{"ok": true})
}

func (f *fakeServer) handleSongs(w http.ResponseWriter, _ *http.Request, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.songs))
	for id := range f.songs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	f.writeJSON(w, f.listLocked(ids))
}

func (f *fakeServer) handleAddSong(w http.ResponseWriter, r *http.Request, _ string) {
	var n song.NewSong
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		http.Error(w, `{"detail":"bad song"}`, http.StatusBadRequest)
		return
	}
	f.writeJSON(w, f.addSong(n.Title, n.Artist, n.AudioURL))
}

func (f *fakeServer) handleRemoveSong(w http.ResponseWriter, r *http.Request, _ string) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	f.mu.Lock()
	delete(f.songs, id)
	f.mu.Unlock()
	f.writeJSON(w, map[string]any{"ok": true})
}

func (f *fakeServer) handleQueue(w http.ResponseWriter, _ *http.Request, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeJSON(w, f.listLocked(f.queue))
}

func (f *fakeServer) handleHistory(w http.ResponseWriter, _ *http.Request, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeJSON(w, f.listLocked(f.history))
}

func (f *fakeServer) handleEnqueue(w http.ResponseWriter, r *http.Request, _ string) {
	var req struct {
		SongID int64 `json:"song_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.songs[req.SongID]; !ok {
		http.Error(w, `{"detail":"Song not found"}`, http.StatusNotFound)
		return
	}
	f.queue = append(f.queue, req.SongID)
	f.writeJSON(w, f.listLocked(f.queue))
}

func (f *fakeServer) handlePlay(w http.ResponseWriter, _ *http.Request, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeJSON(w, f.playLocked())
}

func (f *fakeServer) handleNext(w http.ResponseWriter, _ *http.Request, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current != nil {
		f.history = append(f.history, *f.current)
		f.current = nil
	}
	if len(f.queue) > 0 {
		id := f.queue[0]
		f.queue = f.queue[1:]
		f.current = &id
	}
	f.writeJSON(w, f.playLocked())
}

func (f *fakeServer) handlePrevious(w http.ResponseWriter, _ *http.Request, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.history) > 0 {
		if f.current != nil {
			f.queue = append([]int64{*f.current}, f.queue...)
		}
		id := f.history[len(f.history)-1]
		f.history = f.history[:len(f.history)-1]
		f.current = &id
	}
	f.writeJSON(w, f.playLocked())
}

func (f *fakeServer) handleFavorites(w http.ResponseWriter, _ *http.Request, user string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0)
	for id := range f.favorites[user] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	f.writeJSON(w, f.listLocked(ids))
}

func (f *fakeServer) handleAddFavorite(w http.ResponseWriter, r *http.Request, user string) {
	var req struct {
		SongID int64 `json:"song_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.setFavorite(user, req.SongID, true)
	f.writeJSON(w, map[string]any{"ok": true})
}

func (f *fakeServer) handleRemoveFavorite(w http.ResponseWriter, r *http.Request, user string) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	f.setFavorite(user, id, false)
	f.writeJSON(w, map[string]any{"ok": true})
}

func (f *fakeServer) handleImpl(w http.ResponseWriter, r *http.Request, _ string) {
	var req struct {
		Impl string `json:"impl"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	f.impl = req.Impl
	f.mu.Unlock()
	f.writeJSON(w, map[string]any{"ok": true})
}

func (f *fakeServer) handleSeed(w http.ResponseWriter, _ *http.Request) {
	for i := 0; i < 3; i++ {
		f.addSong(fmt.Sprintf("Seed %d", i+1), "Seeder", nil)
	}
	f.writeJSON(w, map[string]any{"ok": true})
}

func (f *fakeServer) listLocked(ids []int64) song.List {
	out := make(song.List, 0, len(ids))
	for _, id := range ids {
		if s, ok := f.songs[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeServer) playLocked() song.PlayState {
	if f.current == nil {
		return song.PlayState{}
	}
	s, ok := f.songs[*f.current]
	if !ok {
		return song.PlayState{}
	}
	return song.PlayState{Song: &s}
}

func (f *fakeServer) addSong(title, artist string, audioURL *string) song.Song {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := song.Song{ID: f.nextID, Title: title, Artist: artist, DurationSec: 180, AudioURL: audioURL}
	f.songs[s.ID] = s
	f.nextID++
	return s
}

func (f *fakeServer) putSong(s song.Song) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.songs[s.ID] = s
	if s.ID >= f.nextID {
		f.nextID = s.ID + 1
	}
}

func (f *fakeServer) setCurrent(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = &id
}

func (f *fakeServer) setFavorite(user string, id int64, fav bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.favorites[user] == nil {
		f.favorites[user] = make(map[int64]bool)
	}
	if fav {
		f.favorites[user][id] = true
	} else {
		delete(f.favorites[user], id)
	}
}

func (f *fakeServer) fail(key string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = status
}

func (f *fakeServer) heal(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, key)
}

// hold blocks the next request to key until the returned func is called.
func (f *fakeServer) hold(key string) func() {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[key] = ch
	f.mu.Unlock()
	return func() { close(ch) }
}

func (f *fakeServer) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.hits...)
}

func (f *fakeServer) resetRequests() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits = nil
}

// memIdentity is an in-memory remembered-username slot.
type memIdentity struct {
	mu    sync.Mutex
	value string
}

func (m *memIdentity) Get(context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

func (m *memIdentity) Set(_ context.Context, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = username
}

func (m *memIdentity) Clear(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = ""
}

// recordingRenderer keeps the latest state of every view region.
type recordingRenderer struct {
	mu          sync.Mutex
	loginShown  bool
	appShown    bool
	user        string
	button      string
	loginField  string
	focused     int
	nowPlaying  string
	lists       map[Target]song.List
	withFav     map[Target]bool
	renderCount int
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{
		lists:   make(map[Target]song.List),
		withFav: make(map[Target]bool),
	}
}

func (r *recordingRenderer) ShowLogin(p LoginPrompt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loginShown, r.appShown = true, false
	r.button = p.ButtonLabel
	if p.Prefill != "" && r.loginField == "" {
		r.loginField = p.Prefill
	}
}

func (r *recordingRenderer) FocusLogin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focused++
}

func (r *recordingRenderer) ShowApp(user, buttonLabel string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loginShown, r.appShown = false, true
	r.user, r.button = user, buttonLabel
}

func (r *recordingRenderer) RenderList(target Target, songs song.List, withFavorite bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists[target] = songs
	r.withFav[target] = withFavorite
	r.renderCount++
}

func (r *recordingRenderer) SetNowPlaying(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nowPlaying = label
}

func (r *recordingRenderer) list(target Target) song.List {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists[target]
}

func (r *recordingRenderer) renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderCount
}

type testEnv struct {
	server   *fakeServer
	identity *memIdentity
	player   *playback.Adapter
	renderer *recordingRenderer
	orch     *Orchestrator
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	server := newFakeServer(t)
	client, err := gateway.New(gateway.Config{BaseURL: server.srv.URL})
	require.NoError(t, err)

	env := &testEnv{
		server:   server,
		identity: &memIdentity{},
		player:   playback.NewAdapter(audio.NewNullDevice()),
		renderer: newRecordingRenderer(),
	}
	env.orch = New(client, env.identity, env.player, env.renderer, opts)
	return env
}

func strPtr(s string) *string {
	return &s
}

func (f *fakeServer) currentImpl() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.impl
}
