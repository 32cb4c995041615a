package router

import (
	"net/http"
	"time"

	"github.com/KanwarHamza/emotion-detection/internal/assessment"
	"github.com/KanwarHamza/emotion-detection/internal/config"
	"github.com/KanwarHamza/emotion-detection/internal/handlers"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
}

// Setup wires the gin engine: recovery, request logging, cookie sessions,
// security headers, and the assessment session routes.
func Setup(log *zap.Logger, manager *assessment.Manager, save handlers.SaveFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // set to true behind TLS
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400,
	})
	router.Use(sessions.Sessions("neuromind", store))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	sessionHandler := handlers.NewSessionHandler(log, manager, save)

	// New-session creation is the only anonymous write, so it gets the
	// rate limit.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 10,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateErrorHandler,
		KeyFunc:      keyFunc,
	})

	session := router.Group("/session")
	{
		session.POST("", limiter, sessionHandler.Start)
		session.POST("/consent", sessionHandler.Consent)
		session.POST("/info", sessionHandler.Info)
		session.POST("/baseline", sessionHandler.Baseline)
		session.GET("/question", sessionHandler.Question)
		session.POST("/response", sessionHandler.Respond)
		session.GET("/results", sessionHandler.Results)
		session.GET("/results/chart", sessionHandler.Chart)
		session.GET("/report", sessionHandler.Report)
		session.POST("/restart", sessionHandler.Restart)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": manager.Count()})
	})

	return router
}
