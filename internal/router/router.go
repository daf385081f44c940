package router

import (
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"blogdeck/internal/cache"
	"blogdeck/internal/handlers"
	"blogdeck/internal/middleware"
	"blogdeck/internal/services"
)

const sessionName = "blogdeck_session"

// Deps are the components the routes are wired to.
type Deps struct {
	Users    *services.UserService
	Posts    *services.PostService
	Tags     *services.TagService
	Comments *services.CommentService
	Reviews  *services.ReviewService
	Feed     *cache.Cache
	Logger   *slog.Logger
}

// New returns a gin engine with sessions, request logging and every route
// registered.
func New(sessionSecret string, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 86400 * 30, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.LoadUser(d.Users))

	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	r.Use(middleware.RequestLogger(log))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	authHandler := handlers.NewAuthHandler(d.Users)
	postHandler := handlers.NewPostHandler(d.Posts, d.Tags, d.Feed)
	tagHandler := handlers.NewTagHandler(d.Tags, d.Feed)
	commentHandler := handlers.NewCommentHandler(d.Comments, d.Feed)
	reviewHandler := handlers.NewReviewHandler(d.Reviews, d.Feed)

	// Public
	r.POST("/signup", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	r.GET("/posts", postHandler.List)
	r.GET("/posts/:id", postHandler.Detail)
	r.GET("/posts/:id/comments", commentHandler.List)
	r.GET("/posts/:id/reviews", reviewHandler.List)
	r.GET("/tags", tagHandler.List)

	// Signed in
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/me", authHandler.Me)
		authorized.GET("/me/posts", postHandler.Mine)

		authorized.POST("/posts", postHandler.Create)
		authorized.PUT("/posts/:id", postHandler.Update)
		authorized.DELETE("/posts/:id", postHandler.Delete)
		authorized.PUT("/posts/:id/tags", postHandler.SetTags)

		authorized.POST("/posts/:id/comments", commentHandler.Create)
		authorized.PUT("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)

		authorized.POST("/posts/:id/reviews", reviewHandler.Create)
		authorized.PUT("/reviews/:id", reviewHandler.Update)
		authorized.DELETE("/reviews/:id", reviewHandler.Delete)
	}

	// Admin
	admin := r.Group("/")
	admin.Use(middleware.AdminRequired())
	{
		admin.POST("/tags", tagHandler.Create)
	}
}
