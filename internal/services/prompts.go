package services

const resumeSuggestionsPrompt = `You are a career coach. Analyze the job description and resume.

Job Description: %s

Resume: %s

Provide:
1. A 2-sentence summary.
2. Rewrite 3-6 bullet points from the resume.
3. Suggest 2-4 new bullet points.
4. A match score from 0 to 100.

Return JSON only, with exactly this shape:
{"summary": string, "rewrittenPoints": [string], "suggestedPoints": [string], "matchScore": number}`

const coverLetterPrompt = `You are a professional cover letter writer.

Job Description: %s

Resume: %s

Write a 3-paragraph personalized cover letter. Return plain text.`

const interviewQuestionsPrompt = `You are an interviewer. Generate 5 interview questions based on the job description.

Job Description: %s

Return JSON only: {"questions": [string]}`

const keywordAnalysisPrompt = `You are an ATS expert. Analyze the job description and resume.

Job Description: %s

Resume: %s

Provide:
1. missingKeywords (list of strings)
2. matchedKeywords (top 5 list)
3. keyPointers (3 short actionable tips)

Return JSON only: {"missingKeywords": [string], "matchedKeywords": [string], "keyPointers": [string]}`

const jobExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Extract** the following fields strictly.
4. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "company_name": "Name of the company (e.g., Google, StartupInc)",
    "role_title": "Job title (e.g., Senior Backend Engineer)",
    "location": "Job location or 'Remote'",
    "description": "A clean summary of the job. Focus on Responsibilities and Requirements. Remove HTML tags.",
    "tech_stack": ["Array", "of", "technologies", "mentioned", "e.g., Go, React, AWS"],
    "salary_range": "The salary string if explicitly mentioned (e.g., '$100k - $150k'), otherwise null"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### SOURCE URL:
%s

### RAW CONTENT:
%s
`
