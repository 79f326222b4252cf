package router

import (
	"net/http"
	"time"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/config"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/handlers"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/services"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Try again later."})
}

// Setup builds the HTTP API around the loaded survey catalogs.
func Setup(log *zap.Logger, catalogs models.CatalogSet, notifier services.Notifier) *gin.Engine {
	conf := config.Conf

	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers and routes
	surveyHandler := handlers.NewSurveyHandler(log, catalogs)
	submissionHandler := handlers.NewSubmissionHandler(log, catalogs, conf.Survey.DefaultVariant, notifier)
	reportHandler := handlers.NewReportHandler(log, catalogs)

	limit := conf.Server.RateLimit
	if limit <= 0 {
		limit = 30
	}
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: uint(limit),
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		surveyRoutes := api.Group("/surveys")
		{
			surveyRoutes.GET("", surveyHandler.List)
			surveyRoutes.GET("/:variant", surveyHandler.Show)
		}

		api.POST("/reports/preview", surveyHandler.Preview)

		submissionRoutes := api.Group("/submissions")
		{
			submissionRoutes.POST("", limiter, submissionHandler.Create)
			submissionRoutes.PUT("/:id/steps", limiter, submissionHandler.SaveStep)
			submissionRoutes.POST("/:id/complete", limiter, submissionHandler.Complete)
			submissionRoutes.GET("/:id/report", reportHandler.Show)
			submissionRoutes.GET("/:id/chart", reportHandler.Chart)
		}
	}

	return router
}
