package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/osa030/jukeclient/internal/domain/session"
	"github.com/osa030/jukeclient/internal/domain/song"
)

type loginRequest struct {
	Username string `json:"username"`
}

type songIDRequest struct {
	SongID int64 `json:"song_id"`
}

type implRequest struct {
	Impl string `json:"impl"`
}

// Me returns the current session.
func (c *Client) Me(ctx context.Context) (session.Session, error) {
	var s session.Session
	err := c.Call(ctx, "/me", Options{}, &s)
	return s, err
}

// Login establishes a session for username.
func (c *Client) Login(ctx context.Context, username string) error {
	return c.Call(ctx, "/login", Options{Method: http.MethodPost, Body: loginRequest{Username: username}}, nil)
}

// Logout clears the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.Call(ctx, "/logout", Options{Method: http.MethodPost}, nil)
}

// Songs returns the song catalogue.
func (c *Client) Songs(ctx context.Context) (song.List, error) {
	return c.list(ctx, "/songs")
}

// AddSong creates a song and returns it.
func (c *Client) AddSong(ctx context.Context, n song.NewSong) (song.Song, error) {
	var s song.Song
	err := c.Call(ctx, "/songs", Options{Method: http.MethodPost, Body: n}, &s)
	return s, err
}

// RemoveSong deletes a song from the catalogue.
func (c *Client) RemoveSong(ctx context.Context, id int64) error {
	return c.Call(ctx, fmt.Sprintf("/songs/%d", id), Options{Method: http.MethodDelete}, nil)
}

// Queue returns the play queue in server order.
func (c *Client) Queue(ctx context.Context) (song.List, error) {
	return c.list(ctx, "/queue")
}

// History returns the played songs in server order.
func (c *Client) History(ctx context.Context) (song.List, error) {
	return c.list(ctx, "/history")
}

// Enqueue appends a song to the queue and returns the updated queue.
func (c *Client) Enqueue(ctx context.Context, id int64) (song.List, error) {
	var q song.List
	err := c.Call(ctx, "/enqueue", Options{Method: http.MethodPost, Body: songIDRequest{SongID: id}}, &q)
	return q, err
}

// CurrentPlay returns the server's current play state.
func (c *Client) CurrentPlay(ctx context.Context) (song.PlayState, error) {
	var p song.PlayState
	err := c.Call(ctx, "/play", Options{}, &p)
	return p, err
}

// Next advances the queue.
func (c *Client) Next(ctx context.Context) (song.PlayState, error) {
	var p song.PlayState
	err := c.Call(ctx, "/next", Options{Method: http.MethodPost}, &p)
	return p, err
}

// Previous steps back through history.
func (c *Client) Previous(ctx context.Context) (song.PlayState, error) {
	var p song.PlayState
	err := c.Call(ctx, "/previous", Options{Method: http.MethodPost}, &p)
	return p, err
}

// Favorites returns the user's favorited songs.
func (c *Client) Favorites(ctx context.Context) (song.List, error) {
	return c.list(ctx, "/favorites")
}

// AddFavorite marks a song as favorite.
func (c *Client) AddFavorite(ctx context.Context, id int64) error {
	return c.Call(ctx, "/favorites", Options{Method: http.MethodPost, Body: songIDRequest{SongID: id}}, nil)
}

// RemoveFavorite unmarks a favorite song.
func (c *Client) RemoveFavorite(ctx context.Context, id int64) error {
	return c.Call(ctx, fmt.Sprintf("/favorites/%d", id), Options{Method: http.MethodDelete}, nil)
}

// SetImpl switches the server's queue implementation (admin hook).
func (c *Client) SetImpl(ctx context.Context, impl string) error {
	return c.Call(ctx, "/impl", Options{Method: http.MethodPost, Body: implRequest{Impl: impl}}, nil)
}

// SeedFast loads the server's seed data (test hook).
func (c *Client) SeedFast(ctx context.Context) error {
	return c.Call(ctx, "/seed_fast", Options{Method: http.MethodPost}, nil)
}

func (c *Client) list(ctx context.Context, path string) (song.List, error) {
	var l song.List
	if err := c.Call(ctx, path, Options{}, &l); err != nil {
		return nil, err
	}
	if l == nil {
		l = song.List{}
	}
	return l, nil
}
