package handlers

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/job-tracker/internal/auth"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/services"
	"github.com/justsurfingit/job-tracker/internal/store"
)

// respondError maps service and store errors to a status and the
// {"message": ...} body clients read.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Job not found"})
	case errors.Is(err, auth.ErrMissingPayload):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid token"})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
}

var registerOnce sync.Once

// registerValidators adds the enum tags used by the job DTOs to gin's
// validator. Binding panics on an unknown tag, so this runs before any route
// is served.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
			return models.Status(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("jobsource", func(fl validator.FieldLevel) bool {
			return models.Source(fl.Field().String()).Valid()
		})
	})
}
