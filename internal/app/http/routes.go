package routes

import (
	"net/http"
	"strings"
	"time"

	authapi "artist-portfolio/internal/api/auth"
	contactsapi "artist-portfolio/internal/api/contacts"
	healthapi "artist-portfolio/internal/api/health"
	"artist-portfolio/internal/api/respond"
	siteapi "artist-portfolio/internal/api/site"
	worksapi "artist-portfolio/internal/api/works"
	"artist-portfolio/internal/app/http/middleware"
	"artist-portfolio/internal/domain/site"
	"artist-portfolio/internal/domain/users"
	"artist-portfolio/internal/domain/works"
	"artist-portfolio/internal/mail"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs. The same pool and logger are shared
// by every handler.
type Deps struct {
	DB       *gorm.DB
	Log      *zap.Logger
	Sender   mail.Sender
	Composer mail.Composer

	JWTSecret  string
	JWTTTL     time.Duration
	CORSOrigin string
}

// NewRouter builds the gin engine with recovery, request logging and CORS,
// and registers the API.
func NewRouter(d Deps) *gin.Engine {
	respond.UseJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(d.CORSOrigin),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "Route not found")
	})

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	health := healthapi.NewHandler(d.DB, d.Log)
	workH := worksapi.NewHandler(works.NewStore(d.DB), d.Log)
	contactH := contactsapi.NewHandler(d.DB, d.Composer, d.Sender, d.Log)
	siteH := siteapi.NewHandler(site.NewStore(d.DB), d.Log)
	authH := authapi.NewHandler(users.NewStore(d.DB), d.JWTSecret, d.JWTTTL, d.Log)

	requireAuth := middleware.AuthMiddleware(d.JWTSecret)

	api := r.Group("/api")
	api.GET("/health", health.Health)
	api.GET("/test-db", health.TestDB)

	api.GET("/works", workH.List)
	api.GET("/works/:id", workH.Get)
	api.GET("/artist", siteH.GetArtist)
	api.GET("/contact-info", siteH.GetContactInfo)
	api.GET("/site-settings", siteH.GetSettings)
	api.POST("/auth/login", authH.Login)

	// Public writes
	api.POST("/contacts", middleware.SanitizeAndCleanInputMiddleware(), contactH.Create)

	// Authenticated
	auth := api.Group("/")
	auth.Use(requireAuth)
	auth.GET("/auth/verify", authH.Verify)

	auth.POST("/works", workH.Create)
	auth.PUT("/works/:id", workH.Update)
	auth.DELETE("/works/:id", workH.Delete)

	auth.GET("/contacts", contactH.List)
	auth.PUT("/contacts/:id/read", contactH.MarkRead)
	auth.POST("/contacts/:id/reply", contactH.Reply)
	auth.DELETE("/contacts/:id", contactH.Delete)

	auth.PUT("/artist", siteH.UpdateArtist)
	auth.PUT("/contact-info", siteH.UpdateContactInfo)
	auth.PUT("/site-settings", siteH.UpdateSettings)
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		out = []string{"http://localhost:5173"}
	}
	return out
}
