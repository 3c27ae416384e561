package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
	"github.com/blogforge/blogd/utils"
	"github.com/blogforge/blogd/validation"
)

// CategoryController manages the admin-only category list.
type CategoryController struct {
	categories store.CategoryStore
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(categories store.CategoryStore) *CategoryController {
	return &CategoryController{categories: categories}
}

// CreateCategory adds a category owned by the calling admin.
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req validation.CreateCategory
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}
	category := models.Category{
		Name:     req.Name,
		AuthorID: principal(ctx).UserID,
	}
	if err := c.categories.Create(ctx.Request.Context(), &category); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Created(ctx, "Category created successfully.", category)
}

// ListCategories returns every category, oldest first.
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	categories, err := c.categories.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, categories)
}

// DeleteCategory removes a category by id.
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.categories.Delete(ctx.Request.Context(), id); err != nil {
		utils.Fail(ctx, notFoundAs(err, 40404, "Category not found."))
		return
	}
	utils.Message(ctx, "Category has been deleted successfully.", gin.H{"category_id": id})
}
