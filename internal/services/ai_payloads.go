package services

// Response shapes of the /api/ai endpoints. Field names are what the
// dashboard reads.
type ResumeSuggestions struct {
	Summary         string   `json:"summary"`
	RewrittenPoints []string `json:"rewrittenPoints"`
	SuggestedPoints []string `json:"suggestedPoints"`
	MatchScore      float64  `json:"matchScore"`
}

type CoverLetter struct {
	Text string `json:"text"`
}

type InterviewQuestions struct {
	Questions []string `json:"questions"`
}

type KeywordAnalysis struct {
	MissingKeywords []string `json:"missingKeywords"`
	MatchedKeywords []string `json:"matchedKeywords"`
	KeyPointers     []string `json:"keyPointers"`
}

// ExtractedJob is what the extension gets back from /api/jobs/extract.
type ExtractedJob struct {
	Company     string   `json:"company_name"`
	Title       string   `json:"role_title"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
	SalaryRange *string  `json:"salary_range"`
}

type ExtractionResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    ExtractedJob `json:"data"`
}

// Canned payloads for input below the minimum length.

func shortResumeSuggestions() ResumeSuggestions {
	return ResumeSuggestions{
		Summary:         "The provided job description is too short for analysis.",
		RewrittenPoints: []string{},
		SuggestedPoints: []string{"Please paste the full job description to get specific suggestions."},
	}
}

func shortCoverLetter() CoverLetter {
	return CoverLetter{Text: "Please provide a longer job description (at least 50 characters) to generate a customized cover letter."}
}

func shortInterviewQuestions() InterviewQuestions {
	return InterviewQuestions{Questions: []string{
		"The job description provided is too short.",
		"Please provide more details to generate specific interview questions.",
		"What specific skills are required for this role?",
		"Can you describe the responsibilities mentioned in the full description?",
		"Why are you interested in this role?",
	}}
}

func shortKeywordAnalysis() KeywordAnalysis {
	return KeywordAnalysis{
		MissingKeywords: []string{"(Job Description too short)"},
		MatchedKeywords: []string{},
		KeyPointers:     []string{"Please paste the full job description (at least 50 characters) to analyze keywords."},
	}
}

func shortExtraction() ExtractionResult {
	return ExtractionResult{Message: "The page text is too short to extract job details.", Data: ExtractedJob{TechStack: []string{}}}
}

// Sample payloads served when the model is missing or its answer is unusable.

func sampleResumeSuggestions() ResumeSuggestions {
	return ResumeSuggestions{
		Summary: "AI analysis unavailable (Check API Key). Showing sample data: Your background is a great match. " +
			"To stand out, emphasize your experience with relevant skills mentioned in the JD.",
		RewrittenPoints: []string{
			"Optimized system performance using relevant technologies, improving processing speed by 40%.",
			"Led a team to deliver a key project that matched business requirements.",
		},
		SuggestedPoints: []string{
			"Collaborated with cross-functional teams to define architecture and requirements.",
			"Implemented automated processes to reduce deployment time.",
		},
	}
}

func sampleCoverLetter() CoverLetter {
	return CoverLetter{Text: "Dear Hiring Manager,\n\n" +
		"I am writing to express my strong interest in the position. With my background and passion for this field, " +
		"I am confident I would be a great addition to your team.\n\n" +
		"(Note: This is a placeholder. Please configure your AI API key to get personalized results based on your " +
		"specific job description and resume.)\n\n" +
		"Thank you for your time and consideration.\n\nBest regards,\nJob Tracker User"}
}

func sampleInterviewQuestions() InterviewQuestions {
	return InterviewQuestions{Questions: []string{
		"Can you walk us through a challenging problem you solved recently?",
		"How do you approach learning a new technology or skill required for this role?",
		"Tell us about a time you had to work with a difficult teammate.",
		"What is your experience with the core technologies listed in this job description?",
		"Why are you interested in this specific role and our company?",
	}}
}

func sampleKeywordAnalysis() KeywordAnalysis {
	return KeywordAnalysis{
		MissingKeywords: []string{"Sample Keyword 1", "Sample Keyword 2"},
		MatchedKeywords: []string{"Sample Match"},
		KeyPointers: []string{
			"This is sample data because the AI service is unavailable.",
			"Please check your AI API key configuration.",
			"Ensure your job description provides enough detail for analysis.",
		},
	}
}

func sampleExtraction() ExtractionResult {
	return ExtractionResult{Message: "AI extraction is unavailable right now.", Data: ExtractedJob{TechStack: []string{}}}
}
