package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blogforge/blogd/imagehost"
	"github.com/blogforge/blogd/middleware"
	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/policy"
	"github.com/blogforge/blogd/store"
	"github.com/blogforge/blogd/utils"
	"github.com/blogforge/blogd/validation"
)

const (
	msgPostNotFound = "404! Post not found."
	msgPostNoImage  = "You must provide an image for the post."
)

// PostController manages posts, their images and likes.
type PostController struct {
	store   *store.Store
	images  imagehost.Host
	cache   *utils.Cache
	perPage int
}

// NewPostController creates a new PostController instance.
func NewPostController(st *store.Store, images imagehost.Host, cache *utils.Cache, perPage int) *PostController {
	if perPage <= 0 {
		perPage = 3
	}
	return &PostController{store: st, images: images, cache: cache, perPage: perPage}
}

func (p *PostController) invalidate(ctx *gin.Context) {
	p.cache.InvalidateByPrefix(ctx.Request.Context(), postsPrefix)
}

// ListPosts returns posts newest first. page_num selects a page and category
// filters by label; both may be combined and without page_num every post is returned.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page := 0
	if raw := ctx.Query("page_num"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.Error(ctx, http.StatusBadRequest, 40003, `"page_num" must be a positive number`)
			return
		}
		page = n
	}
	filter := models.PostFilter{
		Category: strings.TrimSpace(ctx.Query("category")),
		Page:     page,
		PerPage:  p.perPage,
	}

	key := fmt.Sprintf("%spage=%d:cat=%s", postsListPrefix, filter.Page, filter.Category)
	respondCached(ctx, p.cache, key, func() (interface{}, error) {
		reqCtx := ctx.Request.Context()
		posts, err := p.store.Posts.List(reqCtx, filter)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(posts))
		for i := range posts {
			ids[i] = posts[i].AuthorID
		}
		authors, err := authorsByID(reqCtx, p.store.Users, ids)
		if err != nil {
			return nil, err
		}
		out := make([]models.PostSummary, len(posts))
		for i := range posts {
			out[i] = models.PostSummary{Post: posts[i], Author: authors[posts[i].AuthorID]}
		}
		return out, nil
	})
}

// CountPosts reports how many posts exist.
func (p *PostController) CountPosts(ctx *gin.Context) {
	if b, ok := p.cache.GetBytes(ctx.Request.Context(), postsCountKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}
	n, err := p.store.Posts.Count(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	resp := utils.JSONResponse{Message: postsCountMessage(n), Data: gin.H{"count": n}}
	p.cache.SetJSON(ctx.Request.Context(), postsCountKey, resp)
	ctx.JSON(http.StatusOK, resp)
}

func postsCountMessage(n int64) string {
	switch n {
	case 0:
		return "No posts yet! Create your first post."
	case 1:
		return "1 post in your database."
	default:
		return fmt.Sprintf("%d posts in your database.", n)
	}
}

// GetPost returns a post with its author and comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	id := ctx.Param("id")
	respondCached(ctx, p.cache, postsDetailKey+id, func() (interface{}, error) {
		reqCtx := ctx.Request.Context()
		post, err := p.store.Posts.FindByID(reqCtx, id)
		if err != nil {
			return nil, notFoundAs(err, 40401, msgPostNotFound)
		}
		detail := models.PostDetail{Post: *post}
		// A deleted author leaves the post without one.
		if author, err := p.store.Users.FindByID(reqCtx, post.AuthorID); err == nil {
			detail.Author = author
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if detail.Comments, err = p.store.Comments.ListByPost(reqCtx, id); err != nil {
			return nil, err
		}
		return detail, nil
	})
}

// CreatePost publishes a post from a multipart form with a mandatory image.
func (p *PostController) CreatePost(ctx *gin.Context) {
	path, ok := middleware.UploadedFile(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40030, msgPostNoImage)
		return
	}

	req := validation.CreatePost{
		Title:    ctx.PostForm("title"),
		Body:     ctx.PostForm("body"),
		Category: ctx.PostForm("category"),
	}
	if err := validation.Validate(&req); err != nil {
		utils.Fail(ctx, err)
		return
	}

	reqCtx := ctx.Request.Context()
	img, err := p.images.Upload(reqCtx, path)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	post := models.Post{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		AuthorID: principal(ctx).UserID,
		Image:    img,
	}
	if err := p.store.Posts.Create(reqCtx, &post); err != nil {
		discardUpload(reqCtx, p.images, img)
		utils.Fail(ctx, err)
		return
	}

	p.invalidate(ctx)
	utils.Created(ctx, "Post created successfully.", post)
}

// loadOwned fetches the post named by the path and checks action against its
// stored author.
func (p *PostController) loadOwned(ctx *gin.Context, action policy.Action) (*models.Post, error) {
	post, err := p.store.Posts.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		return nil, notFoundAs(err, 40401, msgPostNotFound)
	}
	if err := policy.Authorize(principal(ctx), action, post.AuthorID); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost edits title, body or category. Author and image never change here.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req validation.UpdatePost
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}
	post, err := p.loadOwned(ctx, policy.PostUpdate)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	upd := models.PostUpdate{Title: req.Title, Body: req.Body, Category: req.Category}

	updated, err := p.store.Posts.Update(ctx.Request.Context(), post.ID, upd)
	if err != nil {
		utils.Fail(ctx, notFoundAs(err, 40401, msgPostNotFound))
		return
	}
	p.invalidate(ctx)
	utils.Success(ctx, updated)
}

// UpdatePostImage uploads the replacement first and removes the previous image
// only after the post references the new one. A failed upload leaves the post
// and its old image untouched.
func (p *PostController) UpdatePostImage(ctx *gin.Context) {
	path, ok := middleware.UploadedFile(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40030, msgPostNoImage)
		return
	}
	post, err := p.loadOwned(ctx, policy.PostUpdateImage)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	reqCtx := ctx.Request.Context()
	img, err := p.images.Upload(reqCtx, path)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	updated, err := p.store.Posts.SetImage(reqCtx, post.ID, img)
	if err != nil {
		discardUpload(reqCtx, p.images, img)
		utils.Fail(ctx, notFoundAs(err, 40401, msgPostNotFound))
		return
	}
	replaceImage(reqCtx, p.images, post.Image)

	p.invalidate(ctx)
	utils.Success(ctx, updated)
}

// DeletePost removes the post's comments, its hosted image and the post.
func (p *PostController) DeletePost(ctx *gin.Context) {
	post, err := p.loadOwned(ctx, policy.PostDelete)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	removed, err := deletePost(ctx.Request.Context(), p.store, p.images, post)
	// Earlier steps may have succeeded even when a later one failed.
	p.invalidate(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Logger.Debug("post removed by", zap.String("user_id", principal(ctx).UserID))
	utils.Message(ctx, "Post has been deleted successfully.", gin.H{"post_id": post.ID, "comments_deleted": removed})
}

// ToggleLike adds the caller to the post's like-set, or removes them if present.
func (p *PostController) ToggleLike(ctx *gin.Context) {
	post, err := p.store.Posts.ToggleLike(ctx.Request.Context(), ctx.Param("id"), principal(ctx).UserID)
	if err != nil {
		utils.Fail(ctx, notFoundAs(err, 40401, msgPostNotFound))
		return
	}
	p.invalidate(ctx)
	utils.Success(ctx, post)
}
