package orchestrator

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/osa030/jukeclient/internal/domain/song"
)

// ErrInvalidInput is returned for user input rejected before any network call.
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New()

func invalidf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidInput)
}

// Login authenticates as username, then remembers or forgets it and refreshes.
func (o *Orchestrator) Login(ctx context.Context, username string, remember bool) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return invalidf("username is required")
	}

	if err := o.remote.Login(ctx, username); err != nil {
		return errors.Wrap(err, "login failed")
	}

	if remember {
		o.identity.Set(ctx, username)
	} else {
		o.identity.Clear(ctx)
	}
	return o.Refresh(ctx)
}

// Logout ends the session if there is one. Without a session it only
// focuses the login input.
func (o *Orchestrator) Logout(ctx context.Context) error {
	me, err := o.remote.Me(ctx)
	if err != nil {
		return errors.Wrap(err, "session check failed")
	}
	if !me.Authenticated() {
		o.renderer.FocusLogin()
		return nil
	}

	if err := o.remote.Logout(ctx); err != nil {
		return errors.Wrap(err, "logout failed")
	}
	if o.opts.ForgetOnLogout {
		o.identity.Clear(ctx)
	}

	o.mu.Lock()
	o.renderer.ShowLogin(LoginPrompt{ButtonLabel: "Login", Prefill: o.identity.Get(ctx)})
	o.renderer.FocusLogin()
	o.mu.Unlock()
	o.player.Stop()

	return o.Refresh(ctx)
}

// AddSong creates a song in the catalogue.
func (o *Orchestrator) AddSong(ctx context.Context, n song.NewSong) (song.Song, error) {
	n = n.Normalize()
	if err := validate.Struct(n); err != nil {
		return song.Song{}, errors.Mark(errors.Wrap(err, "invalid song"), ErrInvalidInput)
	}

	created, err := o.remote.AddSong(ctx, n)
	if err != nil {
		return song.Song{}, errors.Wrap(err, "add song failed")
	}
	return created, o.Refresh(ctx)
}

// RemoveSong deletes a song from the catalogue.
func (o *Orchestrator) RemoveSong(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalidf("invalid song id %d", id)
	}
	if err := o.remote.RemoveSong(ctx, id); err != nil {
		return errors.Wrapf(err, "remove song %d failed", id)
	}
	return o.Refresh(ctx)
}

// Enqueue appends a song to the queue.
func (o *Orchestrator) Enqueue(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalidf("invalid song id %d", id)
	}
	if _, err := o.remote.Enqueue(ctx, id); err != nil {
		return errors.Wrapf(err, "enqueue %d failed", id)
	}
	return o.Refresh(ctx)
}

// Play loads the current song and starts it.
func (o *Orchestrator) Play(ctx context.Context) error {
	return o.transport(ctx, "play", o.remote.CurrentPlay)
}

// Next advances to the next song and starts it.
func (o *Orchestrator) Next(ctx context.Context) error {
	return o.transport(ctx, "next", o.remote.Next)
}

// Previous goes back to the previous song and starts it.
func (o *Orchestrator) Previous(ctx context.Context) error {
	return o.transport(ctx, "previous", o.remote.Previous)
}

// transport is the only path on which audio starts.
func (o *Orchestrator) transport(ctx context.Context, name string, call func(context.Context) (song.PlayState, error)) error {
	state, err := call(ctx)
	if err != nil {
		return errors.Wrapf(err, "%s failed", name)
	}
	if state.HasSong() {
		o.player.SetPlayer(ctx, state.Song, true)
	}
	return o.Refresh(ctx)
}

// SetImpl selects the server-side queue implementation.
func (o *Orchestrator) SetImpl(ctx context.Context, impl string) error {
	impl = strings.TrimSpace(impl)
	if impl == "" {
		return invalidf("impl is required")
	}
	if err := o.remote.SetImpl(ctx, impl); err != nil {
		return errors.Wrapf(err, "set impl %q failed", impl)
	}
	return o.Refresh(ctx)
}

// SeedFast asks the server to populate demo data.
func (o *Orchestrator) SeedFast(ctx context.Context) error {
	if err := o.remote.SeedFast(ctx); err != nil {
		return errors.Wrap(err, "seed failed")
	}
	return o.Refresh(ctx)
}

// ToggleFavorite flips the favorite state of s once the server confirms it.
func (o *Orchestrator) ToggleFavorite(ctx context.Context, s song.Song) error {
	return o.favorites.Toggle(ctx, s)
}
