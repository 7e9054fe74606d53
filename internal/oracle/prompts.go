package oracle

import (
	"fmt"
	"strings"

	"github.com/crisphq/crisp-backend/internal/model"
)

const resumePrompt = `
Analyze this resume document and extract the following information. Return ONLY valid JSON without any markdown formatting or code blocks:
{
  "text": "Full text content of the resume",
  "name": "Full name of the candidate",
  "email": "Email address",
  "phone": "Phone number",
  "skills": ["Array of technical skills"],
  "experience": ["Array of work experience entries"],
  "education": ["Array of education entries"],
  "summary": "Brief professional summary"
}
Please be thorough and extract all relevant information. If any field is not found, use null for that field. Return only the JSON object, no additional text or formatting.
`

func questionsPrompt(name, resumeText string) string {
	return fmt.Sprintf(`
Generate 6 technical interview questions EXCLUSIVELY based on the candidate's resume, skills, experience, and projects.

CANDIDATE PROFILE:
- Name: %s
- Resume: %s

CRITICAL REQUIREMENTS:
- Generate questions ONLY from their resume content and mentioned technologies
- Questions MUST be based on their ACTUAL skills, experience, and projects
- Do NOT use generic questions - everything must be personalized
- Match question complexity to their experience level
- NEVER ask about technologies they haven't mentioned in their resume

QUESTION DISTRIBUTION:
- 2 Easy questions (20 seconds each) - Basic concepts from their resume technologies
- 2 Medium questions (60 seconds each) - Practical implementation based on their projects
- 2 Hard questions (120 seconds each) - Advanced topics relevant to their experience

MANDATORY GUIDELINES:
- Keep questions focused and answerable within the given time constraints
- Extract specific technologies, frameworks, and tools from their resume
- If the resume is insufficient, return an error message asking for more details
- NEVER use default or generic questions

Return the questions in this JSON format:
[
  {
    "id": "1",
    "text": "Question text here",
    "difficulty": "easy|medium|hard",
    "timeLimit": 20,
    "category": "Category name"
  }
]
`, name, resumeText)
}

func evaluatePrompt(q model.Question, answer string) string {
	return fmt.Sprintf(`
Evaluate this technical interview answer and provide a score and ONE-LINE feedback only.

Question: %s
Difficulty: %s
Category: %s
Time Limit: %d seconds

Candidate's Answer: %s

Please provide:
1. A score from 0-100 based on:
   - Technical accuracy
   - Completeness of answer
   - Understanding of concepts
   - Practical knowledge
   - Communication clarity

2. ONE-LINE feedback only (maximum 20 words):
   - Brief assessment of the answer
   - No detailed explanations
   - Just a simple, concise comment

Return your response in this JSON format:
{
  "score": 85,
  "feedback": "Brief one-line assessment here..."
}
`, q.Text, q.Difficulty, q.Category, q.TimeLimit, answer)
}

func summaryPrompt(candidate model.Candidate, answers []model.Answer, averageScore int) string {
	var results strings.Builder
	for i, a := range answers {
		fmt.Fprintf(&results, "Question %d: %s\nScore: %d/100\nFeedback: %s\n\n",
			i+1, a.QuestionID, a.Score, a.Feedback)
	}

	return fmt.Sprintf(`
Generate a comprehensive interview summary for this candidate.

Candidate: %s
Email: %s
Phone: %s

Interview Results:
%s
Average Score: %d/100

Please provide:
1. Overall assessment of technical skills
2. Strengths demonstrated
3. Areas for improvement
4. Recommendation for hiring
5. Specific technical competencies observed

Make it professional and detailed, suitable for hiring decisions.
`, candidate.Name, candidate.Email, candidate.Phone, results.String(), averageScore)
}
