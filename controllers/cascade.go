package controllers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/blogforge/blogd/imagehost"
	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
	"github.com/blogforge/blogd/utils"
)

// deletePost removes a post's comments, then its hosted image, then the post
// itself. The steps are ordered but not atomic: the first failure stops the
// sequence and is returned, leaving earlier steps applied.
func deletePost(ctx context.Context, st *store.Store, images imagehost.Host, post *models.Post) (int64, error) {
	removed, err := st.Comments.DeleteByPost(ctx, post.ID)
	if err != nil {
		return 0, fmt.Errorf("delete comments of post %s: %w", post.ID, err)
	}
	if post.Image.IsHosted() {
		if err := images.Delete(ctx, post.Image.PublicID); err != nil {
			return removed, fmt.Errorf("delete image of post %s: %w", post.ID, err)
		}
	}
	if err := st.Posts.Delete(ctx, post.ID); err != nil {
		return removed, fmt.Errorf("delete post %s: %w", post.ID, err)
	}
	utils.Logger.Info("post deleted", zap.String("post_id", post.ID), zap.Int64("comments", removed))
	return removed, nil
}

// deleteUserContent removes everything a user authored: each post through
// deletePost, then the comments left on other users' posts.
func deleteUserContent(ctx context.Context, st *store.Store, images imagehost.Host, userID string) error {
	posts, err := st.Posts.ListByAuthor(ctx, userID)
	if err != nil {
		return fmt.Errorf("list posts of user %s: %w", userID, err)
	}
	for i := range posts {
		if _, err := deletePost(ctx, st, images, &posts[i]); err != nil {
			return err
		}
	}
	if _, err := st.Comments.DeleteByAuthor(ctx, userID); err != nil {
		return fmt.Errorf("delete comments of user %s: %w", userID, err)
	}
	return nil
}

// replaceImage is the tail of every image swap: once the new image is stored
// and referenced, the old one is removed. Failing to remove it only leaks a
// hosted file, so it is logged rather than returned.
func replaceImage(ctx context.Context, images imagehost.Host, old models.Image) {
	if !old.IsHosted() {
		return
	}
	if err := images.Delete(ctx, old.PublicID); err != nil {
		utils.Logger.Warn("remove replaced image failed", zap.String("public_id", old.PublicID), zap.Error(err))
	}
}

// discardUpload undoes an upload whose record could not be written.
func discardUpload(ctx context.Context, images imagehost.Host, img models.Image) {
	if err := images.Delete(ctx, img.PublicID); err != nil {
		utils.Logger.Warn("discard orphan upload failed", zap.String("public_id", img.PublicID), zap.Error(err))
	}
}
