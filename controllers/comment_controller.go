package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/policy"
	"github.com/blogforge/blogd/store"
	"github.com/blogforge/blogd/utils"
	"github.com/blogforge/blogd/validation"
)

const msgCommentNotFound = "404! Comment not found."

// CommentController manages comments on posts.
type CommentController struct {
	store *store.Store
	cache *utils.Cache
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(st *store.Store, cache *utils.Cache) *CommentController {
	return &CommentController{store: st, cache: cache}
}

// CreateComment attaches a comment to an existing post. The author's current
// username is copied onto the comment and not updated later.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req validation.CreateComment
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}

	reqCtx := ctx.Request.Context()
	if _, err := c.store.Posts.FindByID(reqCtx, req.PostID); err != nil {
		utils.Fail(ctx, notFoundAs(err, 40401, msgPostNotFound))
		return
	}
	author, err := c.store.Users.FindByID(reqCtx, principal(ctx).UserID)
	if err != nil {
		utils.Fail(ctx, notFoundAs(err, 40402, msgUserNotFound))
		return
	}

	comment := models.Comment{
		PostID:   req.PostID,
		AuthorID: author.ID,
		Text:     req.Text,
		Username: author.Username,
	}
	if err := c.store.Comments.Create(reqCtx, &comment); err != nil {
		utils.Fail(ctx, err)
		return
	}
	c.cache.InvalidateByPrefix(reqCtx, postsDetailKey+req.PostID)
	utils.Created(ctx, "Comment created successfully.", comment)
}

// ListComments returns every comment with its author, oldest first.
func (c *CommentController) ListComments(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	comments, err := c.store.Comments.List(reqCtx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	ids := make([]string, len(comments))
	for i := range comments {
		ids[i] = comments[i].AuthorID
	}
	authors, err := authorsByID(reqCtx, c.store.Users, ids)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	out := make([]models.CommentDetail, len(comments))
	for i := range comments {
		out[i] = models.CommentDetail{Comment: comments[i], Author: authors[comments[i].AuthorID]}
	}
	utils.Success(ctx, out)
}

func (c *CommentController) loadOwned(ctx *gin.Context, action policy.Action) (*models.Comment, error) {
	comment, err := c.store.Comments.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		return nil, notFoundAs(err, 40403, msgCommentNotFound)
	}
	if err := policy.Authorize(principal(ctx), action, comment.AuthorID); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment lets the author, and only the author, change the text.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	var req validation.UpdateComment
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}
	comment, err := c.loadOwned(ctx, policy.CommentUpdate)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	updated, err := c.store.Comments.Update(ctx.Request.Context(), comment.ID, req.Text)
	if err != nil {
		utils.Fail(ctx, notFoundAs(err, 40403, msgCommentNotFound))
		return
	}
	c.cache.InvalidateByPrefix(ctx.Request.Context(), postsDetailKey+comment.PostID)
	utils.Success(ctx, updated)
}

// DeleteComment removes a comment on behalf of its author or an admin.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	comment, err := c.loadOwned(ctx, policy.CommentDelete)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := c.store.Comments.Delete(ctx.Request.Context(), comment.ID); err != nil {
		utils.Fail(ctx, notFoundAs(err, 40403, msgCommentNotFound))
		return
	}
	c.cache.InvalidateByPrefix(ctx.Request.Context(), postsDetailKey+comment.PostID)
	utils.Message(ctx, "Comment has been deleted successfully.", gin.H{"comment_id": comment.ID})
}
