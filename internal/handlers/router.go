package handlers

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-tracker/internal/auth"
	"github.com/justsurfingit/job-tracker/internal/ratelimit"
)

type RouterConfig struct {
	Jobs   *JobHandler
	Auth   *AuthHandler
	AI     *AIHandler
	Health *HealthHandler

	Sessions       *auth.SessionIssuer
	DevAuth        bool
	Limiter        ratelimit.Limiter
	AllowedOrigins []string
}

func SetupRouter(rc RouterConfig) *gin.Engine {
	registerValidators()

	r := gin.Default()
	r.Use(cors.New(corsConfig(rc.AllowedOrigins)))

	r.GET("/health", rc.Health.Health)

	api := r.Group("/api")
	{
		api.POST("/auth/google", rc.Auth.GoogleLogin)

		jobs := api.Group("/jobs", AuthRequired(rc.Sessions, rc.DevAuth))
		jobs.GET("", rc.Jobs.ListJobs)
		jobs.POST("", rc.Jobs.CreateJob)
		jobs.PUT("/:id", rc.Jobs.UpdateJob)
		jobs.DELETE("/:id", rc.Jobs.DeleteJob)
		jobs.POST("/extension/save", rc.Jobs.SaveFromExtension)
		jobs.POST("/extract", RateLimit(rc.Limiter), rc.Jobs.ParseJob)

		ai := api.Group("/ai", AuthRequired(rc.Sessions, rc.DevAuth), RateLimit(rc.Limiter))
		ai.POST("/resume-suggestions", rc.AI.ResumeSuggestions)
		ai.POST("/cover-letter", rc.AI.CoverLetter)
		ai.POST("/interview-questions", rc.AI.InterviewQuestions)
		ai.POST("/keyword-analysis", rc.AI.KeywordAnalysis)
	}
	return r
}

const extensionScheme = "chrome-extension://"

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.MaxAge = 12 * time.Hour

	var allowed []string
	for _, o := range origins {
		if o == "*" {
			config.AllowAllOrigins = true
			return config
		}
		if o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = allowed
	config.AllowCredentials = true
	config.AllowBrowserExtensions = true
	// The extension's background worker sends its own chrome-extension://<id>
	// origin, which is not known ahead of time.
	config.AllowOriginFunc = func(origin string) bool {
		return strings.HasPrefix(origin, extensionScheme) || slices.Contains(allowed, origin)
	}
	return config
}
