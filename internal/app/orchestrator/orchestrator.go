// Package orchestrator coordinates the session-gated refresh of server state
// and the user actions that trigger it.
package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/jukeclient/internal/app/favorites"
	"github.com/osa030/jukeclient/internal/domain/session"
	"github.com/osa030/jukeclient/internal/domain/song"
)

// ErrStaleRefresh marks a refresh whose results were superseded by a newer one.
var ErrStaleRefresh = errors.New("refresh superseded by a newer one")

// Remote is the server API used by the orchestrator.
type Remote interface {
	Me(ctx context.Context) (session.Session, error)
	Login(ctx context.Context, username string) error
	Logout(ctx context.Context) error
	Songs(ctx context.Context) (song.List, error)
	AddSong(ctx context.Context, n song.NewSong) (song.Song, error)
	RemoveSong(ctx context.Context, id int64) error
	Queue(ctx context.Context) (song.List, error)
	History(ctx context.Context) (song.List, error)
	Enqueue(ctx context.Context, id int64) (song.List, error)
	CurrentPlay(ctx context.Context) (song.PlayState, error)
	Next(ctx context.Context) (song.PlayState, error)
	Previous(ctx context.Context) (song.PlayState, error)
	Favorites(ctx context.Context) (song.List, error)
	AddFavorite(ctx context.Context, id int64) error
	RemoveFavorite(ctx context.Context, id int64) error
	SetImpl(ctx context.Context, impl string) error
	SeedFast(ctx context.Context) error
}

// IdentityStore is the best-effort remembered-username slot.
type IdentityStore interface {
	Get(ctx context.Context) string
	Set(ctx context.Context, username string)
	Clear(ctx context.Context)
}

// Player is the playback device adapter.
type Player interface {
	SetPlayer(ctx context.Context, s *song.Song, autoplay bool)
	Stop()
}

// Options tune orchestrator behaviour.
type Options struct {
	// ForgetOnLogout clears the remembered username on logout.
	ForgetOnLogout bool
}

// Orchestrator is the single owner of the favorites mirror and the last applied snapshot.
type Orchestrator struct {
	remote   Remote
	identity IdentityStore
	player   Player
	renderer Renderer
	opts     Options

	favs      *favorites.Set
	favorites *favorites.Controller

	seq atomic.Uint64

	mu   sync.Mutex // serializes applying results to the view
	last Snapshot

	playerMu sync.Mutex // serializes refresh-driven player updates; never held with mu
}

// New creates a new orchestrator.
func New(remote Remote, identity IdentityStore, player Player, renderer Renderer, opts Options) *Orchestrator {
	o := &Orchestrator{
		remote:   remote,
		identity: identity,
		player:   player,
		renderer: renderer,
		opts:     opts,
		favs:     favorites.NewSet(),
	}
	o.favorites = favorites.NewController(o.favs, remote, o)
	return o
}

// IsFavorite reports whether id is in the favorites mirror.
func (o *Orchestrator) IsFavorite(id int64) bool {
	return o.favorites.IsFavorite(id)
}

// FavoriteIDs returns the mirrored favorite IDs.
func (o *Orchestrator) FavoriteIDs() []int64 {
	return o.favs.IDs()
}

// Snapshot returns the last applied snapshot.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last.clone()
}

// Refresh checks the session and re-synchronizes the whole view with the server.
// While anonymous it shows the login surface, stops playback and fetches nothing else.
// A refresh never starts audio.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	err := o.refresh(ctx)
	if errors.Is(err, ErrStaleRefresh) {
		zlog.Debug().Msg(err.Error())
		return nil
	}
	return err
}

func (o *Orchestrator) refresh(ctx context.Context) error {
	token := o.seq.Add(1)

	me, err := o.remote.Me(ctx)
	if err != nil {
		return errors.Wrap(err, "session check failed")
	}

	if !me.Authenticated() {
		return o.applyLoggedOut(ctx, token, me)
	}

	if err := o.withLatest(token, func() {
		o.renderer.ShowApp(me.Username(), me.ButtonLabel())
	}); err != nil {
		return err
	}

	snap, err := o.fetchAll(ctx)
	if err != nil {
		return err
	}
	snap.Seq = token
	snap.Session = me

	if err := o.withLatest(token, func() {
		o.applyLocked(snap)
	}); err != nil {
		return err
	}

	// Loading a new source can block on the audio host, so it runs
	// after the view lock is released.
	o.syncPlayer(token, func() {
		o.player.SetPlayer(ctx, snap.Play.Song, false)
	})
	return nil
}

// withLatest runs fn under the view lock if token is still the newest refresh.
func (o *Orchestrator) withLatest(token uint64, fn func()) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if latest := o.seq.Load(); token != latest {
		return errors.Wrapf(ErrStaleRefresh, "refresh %d (latest %d)", token, latest)
	}
	fn()
	return nil
}

func (o *Orchestrator) applyLoggedOut(ctx context.Context, token uint64, me session.Session) error {
	prompt := LoginPrompt{
		ButtonLabel: me.ButtonLabel(),
		Prefill:     o.identity.Get(ctx),
	}
	if err := o.withLatest(token, func() {
		o.renderer.ShowLogin(prompt)
		o.last = Snapshot{Seq: token, Session: me}
	}); err != nil {
		return err
	}
	o.syncPlayer(token, o.player.Stop)
	return nil
}

// syncPlayer runs fn unless a newer refresh has been issued since token.
func (o *Orchestrator) syncPlayer(token uint64, fn func()) {
	o.playerMu.Lock()
	defer o.playerMu.Unlock()

	if latest := o.seq.Load(); token != latest {
		zlog.Debug().Msgf("refresh %d: player update skipped (latest %d)", token, latest)
		return
	}
	fn()
}

// fetchAll issues the five collection fetches concurrently and waits for all of them.
// If any fails, the combined error is returned and nothing is applied.
func (o *Orchestrator) fetchAll(ctx context.Context) (Snapshot, error) {
	var (
		snap Snapshot
		wg   sync.WaitGroup
		errs [5]error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		snap.Songs, errs[0] = o.remote.Songs(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Queue, errs[1] = o.remote.Queue(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.History, errs[2] = o.remote.History(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Play, errs[3] = o.remote.CurrentPlay(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Favorites, errs[4] = o.remote.Favorites(ctx)
	}()
	wg.Wait()

	var combined error
	for _, err := range errs {
		combined = errors.CombineErrors(combined, err)
	}
	if combined != nil {
		return Snapshot{}, errors.Wrap(combined, "refresh fetch failed")
	}
	return snap, nil
}

// applyLocked pushes a fetched snapshot to the mirror and the view.
// Must be called with o.mu held.
func (o *Orchestrator) applyLocked(snap Snapshot) {
	o.favs.Replace(snap.Favorites)

	view := snap.clone()
	o.renderer.RenderList(TargetSongs, view.Songs, true)
	o.renderer.RenderList(TargetQueue, view.Queue, true)
	o.renderer.RenderList(TargetHistory, view.History, true)

	o.renderer.SetNowPlaying(snap.Play.NowPlaying())

	o.renderer.RenderList(TargetFavorites, view.Favorites, true)
	o.renderer.RenderList(TargetQueueOnly, view.Queue, false)
	o.renderer.RenderList(TargetHistoryOnly, view.History, false)

	o.last = snap
	zlog.Debug().Msgf("refresh %d applied: songs=%d queue=%d history=%d favorites=%d",
		snap.Seq, len(snap.Songs), len(snap.Queue), len(snap.History), len(snap.Favorites))
}

// RefreshFavorites re-fetches only the favorites, replaces the mirror and
// re-renders the favorites view.
func (o *Orchestrator) RefreshFavorites(ctx context.Context) error {
	favs, err := o.remote.Favorites(ctx)
	if err != nil {
		return errors.Wrap(err, "favorites fetch failed")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.favs.Replace(favs)
	o.renderer.RenderList(TargetFavorites, favs.Clone(), true)
	o.last.Favorites = favs
	return nil
}
