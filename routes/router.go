package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blogforge/blogd/config"
	"github.com/blogforge/blogd/controllers"
	"github.com/blogforge/blogd/imagehost"
	"github.com/blogforge/blogd/middleware"
	"github.com/blogforge/blogd/policy"
	"github.com/blogforge/blogd/store"
	"github.com/blogforge/blogd/utils"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Config    config.AppConfig
	Store     *store.Store
	Images    imagehost.Host
	Tokens    *utils.TokenIssuer
	Blacklist *utils.TokenBlacklist
	Cache     *utils.Cache
	// AccessLog receives one line per request; nil falls back to utils.Logger.
	AccessLog *zap.Logger
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	accessLog := d.AccessLog
	if accessLog == nil {
		accessLog = utils.Logger
	}
	r := gin.New()
	r.Use(utils.Ginzap(accessLog))
	r.Use(utils.RecoveryWithZap(accessLog, true))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/health", controllers.Health)

	authController := controllers.NewAuthController(d.Store.Users, d.Tokens, d.Blacklist)
	userController := controllers.NewUserController(d.Store, d.Images, d.Cache, cfg.UserDeleteCascade)
	postController := controllers.NewPostController(d.Store, d.Images, d.Cache, cfg.PostsPerPage)
	commentController := controllers.NewCommentController(d.Store, d.Cache)
	categoryController := controllers.NewCategoryController(d.Store.Categories)

	authed := middleware.AuthRequired(d.Tokens, d.Blacklist)
	validID := middleware.ValidateObjectID("id")
	image := middleware.ImageUpload("image", cfg.UploadMaxBytes, cfg.UploadDir)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", authed, middleware.Require(policy.AuthLogout), authController.Logout)

	users := api.Group("/users")
	users.GET("", authed, middleware.Require(policy.UserList), userController.ListUsers)
	users.GET("/count", authed, middleware.Require(policy.UserCount), userController.CountUsers)
	users.POST("/profile/upload-avatar", authed, middleware.Require(policy.UserAvatar), image, userController.UploadAvatar)
	users.GET("/profile/:id", validID, userController.GetProfile)
	users.PUT("/profile/:id", validID, authed, middleware.RequireParamOwner(policy.UserUpdate, "id"), userController.UpdateProfile)
	users.DELETE("/profile/:id", validID, authed, middleware.RequireParamOwner(policy.UserDelete, "id"), userController.DeleteUser)

	// Post ownership is checked inside the handlers against the stored author.
	posts := api.Group("/posts")
	posts.GET("", postController.ListPosts)
	posts.GET("/count", postController.CountPosts)
	posts.POST("/create-post", authed, middleware.Require(policy.PostCreate), image, postController.CreatePost)
	posts.PUT("/update-image/:id", validID, authed, image, postController.UpdatePostImage)
	posts.PUT("/:id/like", validID, authed, middleware.Require(policy.PostLike), postController.ToggleLike)
	posts.GET("/:id", validID, postController.GetPost)
	posts.PUT("/:id", validID, authed, postController.UpdatePost)
	posts.DELETE("/:id", validID, authed, postController.DeletePost)

	comments := api.Group("/comments")
	comments.POST("", authed, middleware.Require(policy.CommentCreate), commentController.CreateComment)
	comments.GET("", authed, middleware.Require(policy.CommentList), commentController.ListComments)
	comments.PUT("/:id", validID, authed, commentController.UpdateComment)
	comments.DELETE("/:id", validID, authed, commentController.DeleteComment)

	categories := api.Group("/categories")
	categories.POST("", authed, middleware.Require(policy.CategoryCreate), categoryController.CreateCategory)
	categories.GET("", authed, middleware.Require(policy.CategoryList), categoryController.ListCategories)
	categories.DELETE("/:id", validID, authed, middleware.Require(policy.CategoryDelete), categoryController.DeleteCategory)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		// Wildcard origins cannot be combined with credentials.
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
