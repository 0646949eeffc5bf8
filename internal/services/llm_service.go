package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/job-tracker/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// MinJDLength is the shortest job description worth sending to the model.
	MinJDLength = 50
	maxRawInput = 20000
)

var errNoModel = errors.New("no AI model configured")

type LLMService struct {
	// Nil when no API key is configured; every operation then serves its
	// sample payload.
	Client llms.Model
}

// NewLLMService builds the model client for the configured provider. A
// missing key is not fatal.
func NewLLMService(cfg config.AIConfig) *LLMService {
	ctx := context.Background()

	switch cfg.Provider {
	case "googleai", "gemini":
		if cfg.GeminiKey == "" {
			log.Println("⚠️  GEMINI_API_KEY is empty, AI endpoints will return sample data")
			return &LLMService{}
		}
		llm, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiKey),
			googleai.WithDefaultModel(cfg.GeminiModel),
		)
		if err != nil {
			log.Printf("⚠️  Failed to create Gemini client: %v", err)
			return &LLMService{}
		}
		return &LLMService{Client: llm}
	default:
		if cfg.OpenAIKey == "" {
			log.Println("⚠️  OPENAI_API_KEY is empty, AI endpoints will return sample data")
			return &LLMService{}
		}
		opts := []openai.Option{openai.WithToken(cfg.OpenAIKey), openai.WithModel(cfg.OpenAIModel)}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			log.Printf("⚠️  Failed to create OpenAI client: %v", err)
			return &LLMService{}
		}
		return &LLMService{Client: llm}
	}
}

func (s *LLMService) ResumeSuggestions(ctx context.Context, jdText, resumeText string) ResumeSuggestions {
	if tooShort(jdText) {
		return shortResumeSuggestions()
	}
	var out ResumeSuggestions
	if err := s.generateJSON(ctx, fmt.Sprintf(resumeSuggestionsPrompt, jdText, resumeText), &out); err != nil {
		log.Printf("AI error, using sample suggestions: %v", err)
		return sampleResumeSuggestions()
	}
	if out.RewrittenPoints == nil {
		out.RewrittenPoints = []string{}
	}
	if out.SuggestedPoints == nil {
		out.SuggestedPoints = []string{}
	}
	return out
}

func (s *LLMService) CoverLetter(ctx context.Context, jdText, resumeText string) CoverLetter {
	if tooShort(jdText) {
		return shortCoverLetter()
	}
	text, err := s.generate(ctx, fmt.Sprintf(coverLetterPrompt, jdText, resumeText))
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		log.Printf("AI error, using sample cover letter: %v", err)
		return sampleCoverLetter()
	}
	return CoverLetter{Text: strings.TrimSpace(text)}
}

func (s *LLMService) InterviewQuestions(ctx context.Context, jdText string) InterviewQuestions {
	if tooShort(jdText) {
		return shortInterviewQuestions()
	}
	var out InterviewQuestions
	err := s.generateJSON(ctx, fmt.Sprintf(interviewQuestionsPrompt, jdText), &out)
	if err == nil && len(out.Questions) == 0 {
		err = errors.New("no questions in completion")
	}
	if err != nil {
		log.Printf("AI error, using sample questions: %v", err)
		return sampleInterviewQuestions()
	}
	return out
}

func (s *LLMService) KeywordAnalysis(ctx context.Context, jdText, resumeText string) KeywordAnalysis {
	if tooShort(jdText) {
		return shortKeywordAnalysis()
	}
	var out KeywordAnalysis
	if err := s.generateJSON(ctx, fmt.Sprintf(keywordAnalysisPrompt, jdText, resumeText), &out); err != nil {
		log.Printf("AI error, using sample keywords: %v", err)
		return sampleKeywordAnalysis()
	}
	for _, list := range []*[]string{&out.MissingKeywords, &out.MatchedKeywords, &out.KeyPointers} {
		if *list == nil {
			*list = []string{}
		}
	}
	return out
}

// ExtractJobDetails turns raw page text or HTML into structured job fields.
func (s *LLMService) ExtractJobDetails(ctx context.Context, raw, url string) ExtractionResult {
	if tooShort(raw) {
		return shortExtraction()
	}
	raw = truncateRunes(raw, maxRawInput)

	var job ExtractedJob
	if err := s.generateJSON(ctx, fmt.Sprintf(jobExtractionPrompt, url, raw), &job); err != nil {
		log.Printf("AI extraction failed: %v", err)
		return sampleExtraction()
	}
	if job.TechStack == nil {
		job.TechStack = []string{}
	}
	return ExtractionResult{Success: true, Data: job}
}

func (s *LLMService) generate(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	if s.Client == nil {
		return "", errNoModel
	}
	return llms.GenerateFromSinglePrompt(ctx, s.Client, prompt, opts...)
}

func (s *LLMService) generateJSON(ctx context.Context, prompt string, out any) error {
	resp, err := s.generate(ctx, prompt, llms.WithJSONMode())
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), out); err != nil {
		return fmt.Errorf("malformed model output: %w", err)
	}
	return nil
}

func tooShort(text string) bool {
	return utf8.RuneCountInString(text) < MinJDLength
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// stripCodeFence removes a ```json ... ``` wrapper some models add even in
// JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
