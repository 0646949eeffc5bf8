package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-tracker/internal/dtos"
	"github.com/justsurfingit/job-tracker/internal/services"
)

// AIHandler serves /api/ai/*. Every endpoint answers 200: model failures are
// replaced with sample payloads by the service.
type AIHandler struct {
	LLMService *services.LLMService
}

func NewAIHandler(llm *services.LLMService) *AIHandler {
	return &AIHandler{LLMService: llm}
}

// bind never rejects: a missing or malformed body counts as an empty job
// description, which the service answers with its short-input placeholder.
func bind(c *gin.Context) dtos.AIRequest {
	var req dtos.AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return dtos.AIRequest{}
	}
	return req
}

func (h *AIHandler) ResumeSuggestions(c *gin.Context) {
	req := bind(c)
	c.JSON(http.StatusOK, h.LLMService.ResumeSuggestions(c.Request.Context(), req.JDText, req.ResumeText))
}

func (h *AIHandler) CoverLetter(c *gin.Context) {
	req := bind(c)
	c.JSON(http.StatusOK, h.LLMService.CoverLetter(c.Request.Context(), req.JDText, req.ResumeText))
}

func (h *AIHandler) InterviewQuestions(c *gin.Context) {
	req := bind(c)
	c.JSON(http.StatusOK, h.LLMService.InterviewQuestions(c.Request.Context(), req.JDText))
}

func (h *AIHandler) KeywordAnalysis(c *gin.Context) {
	req := bind(c)
	c.JSON(http.StatusOK, h.LLMService.KeywordAnalysis(c.Request.Context(), req.JDText, req.ResumeText))
}
