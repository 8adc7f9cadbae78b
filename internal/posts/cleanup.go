package posts

import (
	"context"

	"github.com/lseverin/mapclash/backend/internal/models"
)

// UserGuessPurger removes guesses both by owner and by target post.
type UserGuessPurger interface {
	GuessPurger
	DeleteByUser(ctx context.Context, userID string) error
}

// Cleaner drives the delete cascade for an account removal: the user's
// guesses, their posts, the guesses targeting those posts, and the stored
// pictures.
type Cleaner struct {
	posts    Store
	pictures PictureStore
	guesses  UserGuessPurger
}

func NewCleaner(posts Store, pictures PictureStore, guesses UserGuessPurger) *Cleaner {
	return &Cleaner{posts: posts, pictures: pictures, guesses: guesses}
}

// PurgeUserData removes everything owned by or depending on the user.
func (c *Cleaner) PurgeUserData(ctx context.Context, userID string) error {
	if err := c.guesses.DeleteByUser(ctx, userID); err != nil {
		return err
	}

	// A user cannot realistically own more posts than this.
	owned, err := c.posts.List(ctx, models.PostFilter{UserID: userID, Limit: 10000})
	if err != nil {
		return err
	}
	for _, post := range owned {
		if err := c.guesses.DeleteByPost(ctx, post.ID.Hex()); err != nil {
			return err
		}
		if post.PictureKey != "" {
			c.pictures.Remove(ctx, post.PictureKey)
		}
		if err := c.posts.Delete(ctx, post.ID.Hex()); err != nil {
			return err
		}
	}
	return nil
}
