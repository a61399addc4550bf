package llm

import (
	"fmt"
	"strings"
)

// buildKeywordsPrompt asks for a ranked keyword list as strict JSON.
func buildKeywordsPrompt(jobDescription string) (prompt string) {
	var b strings.Builder

	b.WriteString(`You are an expert recruiting analyst and ATS keyword specialist. Extract the most critical technical skills, tools, and qualifications from job descriptions.

Return ONLY valid JSON in this exact format:
{ "keywords_ranked": [ {"term":"python","rank":1}, {"term":"machine learning","rank":2} ] }

REQUIREMENTS:
- Extract exactly 15 keywords
- Focus on: technical skills, software, tools, programming languages, frameworks, methodologies, certifications
- Rank 1 = highest importance, 15 = lowest importance
- Use lowercase only
- Maximum 3 words per term
- No duplicates or variations
- Prioritize hard skills over soft skills

OUTPUT: JSON only, no explanations.

`)

	b.WriteString("Extract and rank the 15 most important keywords for ATS optimization from this job description:\n\n")
	b.WriteString(jobDescription)
	b.WriteString("\n\nFocus on technical requirements, required skills, and specific tools/technologies mentioned.")

	prompt = b.String()
	return prompt
}

// buildTailorPrompt asks the model to rewrite the master resume's
// structured text for one job posting, preserving the marker vocabulary
// and the line shapes the decoder expects.
func buildTailorPrompt(req TailorRequest) (prompt string) {
	var b strings.Builder

	b.WriteString(`You are an expert resume writer. Rewrite the resume content below to target the given job posting.

The resume is provided in a structured text format with ===SECTION=== markers. You MUST return content in the EXACT same structured format:
- Keep every ===SECTION=== marker line exactly as given
- Keep section header lines (the ALL-CAPS line after each marker) unchanged
- Keep entry lines in the form "Name | Organization | Location | Dates" with names, organizations, and dates UNCHANGED
- Rewrite bullet lines as achievement-focused statements: strong action verb, method or tool, quantified result
- Keep each bullet to 1-2 lines; no vague phrasing
- Integrate the ranked keywords naturally throughout
- Do not add markdown, formatting instructions, or commentary

`)

	fmt.Fprintf(&b, "TARGET ROLE: %s\n", req.JobTitle)
	if req.CompanyName != "" {
		fmt.Fprintf(&b, "COMPANY: %s\n", req.CompanyName)
	}

	if len(req.Keywords) > 0 {
		b.WriteString("\nRANKED KEYWORDS:\n")
		for _, kw := range req.Keywords {
			fmt.Fprintf(&b, "%d. %s\n", kw.Rank, kw.Term)
		}
	}

	b.WriteString("\nJOB DESCRIPTION:\n")
	b.WriteString(req.JobDescription)

	b.WriteString("\n\nRESUME (structured text):\n")
	b.WriteString(req.MasterText)

	if req.ExtraInstructions != "" {
		b.WriteString("\n\nADDITIONAL INSTRUCTIONS:\n")
		b.WriteString(req.ExtraInstructions)
	}

	b.WriteString("\n\nReturn ONLY the rewritten structured text with ===SECTION=== markers.")

	prompt = b.String()
	return prompt
}

// buildCoverLetterPrompt asks for a plain-text cover letter.
func buildCoverLetterPrompt(req CoverLetterRequest) (prompt string) {
	var b strings.Builder

	b.WriteString(`You are an expert cover letter writer. Write a concise, specific cover letter (3-4 paragraphs, under 350 words) for the job below.

Requirements:
- Open with genuine interest in the specific role and company
- Connect 2-3 concrete achievements from the resume to the job's requirements
- Weave in the ranked keywords naturally
- Close with a clear call to action
- Plain text only: no markdown, no placeholders, no commentary

`)

	fmt.Fprintf(&b, "CANDIDATE: %s\n", req.Name)
	fmt.Fprintf(&b, "ROLE: %s\n", req.JobTitle)
	if req.CompanyName != "" {
		fmt.Fprintf(&b, "COMPANY: %s\n", req.CompanyName)
	}

	if len(req.Keywords) > 0 {
		b.WriteString("\nRANKED KEYWORDS:\n")
		for _, kw := range req.Keywords {
			fmt.Fprintf(&b, "%d. %s\n", kw.Rank, kw.Term)
		}
	}

	b.WriteString("\nJOB DESCRIPTION:\n")
	b.WriteString(req.JobDescription)

	b.WriteString("\n\nRESUME:\n")
	b.WriteString(req.ResumeText)

	prompt = b.String()
	return prompt
}
