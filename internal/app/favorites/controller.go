package favorites

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/jukeclient/internal/domain/song"
)

// Mirror is the controller's view of the favorites set owned by the orchestrator.
type Mirror interface {
	Has(id int64) bool
	Add(id int64)
	Remove(id int64)
}

// Remote is the subset of the gateway used to mutate favorites.
type Remote interface {
	AddFavorite(ctx context.Context, id int64) error
	RemoveFavorite(ctx context.Context, id int64) error
}

// Reconciler re-fetches and re-renders the favorites after a toggle.
type Reconciler interface {
	RefreshFavorites(ctx context.Context) error
}

// Controller toggles favorites with confirmed-then-applied semantics:
// the mirror changes only after the server accepted the change.
type Controller struct {
	mirror     Mirror
	remote     Remote
	reconciler Reconciler
}

// NewController creates a new favorites controller.
func NewController(mirror Mirror, remote Remote, reconciler Reconciler) *Controller {
	return &Controller{
		mirror:     mirror,
		remote:     remote,
		reconciler: reconciler,
	}
}

// IsFavorite reports whether id is marked favorite in the mirror.
func (c *Controller) IsFavorite(id int64) bool {
	return c.mirror.Has(id)
}

// Toggle flips the favorite mark of s on the server, then in the mirror,
// then reconciles with a favorites-only refresh.
// If the server call fails the mirror is left unchanged.
func (c *Controller) Toggle(ctx context.Context, s song.Song) error {
	if c.mirror.Has(s.ID) {
		if err := c.remote.RemoveFavorite(ctx, s.ID); err != nil {
			return errors.Wrapf(err, "failed to remove favorite %d", s.ID)
		}
		c.mirror.Remove(s.ID)
		zlog.Debug().Msgf("removed favorite: %d", s.ID)
	} else {
		if err := c.remote.AddFavorite(ctx, s.ID); err != nil {
			return errors.Wrapf(err, "failed to add favorite %d", s.ID)
		}
		c.mirror.Add(s.ID)
		zlog.Debug().Msgf("added favorite: %d", s.ID)
	}

	if c.reconciler == nil {
		return nil
	}
	return c.reconciler.RefreshFavorites(ctx)
}
