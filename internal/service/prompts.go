package service

import (
	"fmt"
	"strings"

	"study-buddy/internal/domain"
)

var (
	flashcardOptions = domain.GenerationOptions{Temperature: 0.7, MaxTokens: 4000}
	quizOptions      = domain.GenerationOptions{Temperature: 0.7, MaxTokens: 6000}
	gradingOptions   = domain.GenerationOptions{Temperature: 0.3, MaxTokens: 8000}
	studyPlanOptions = domain.GenerationOptions{Temperature: 0.7, MaxTokens: 3500}
	chatOptions      = domain.GenerationOptions{Temperature: 0.7, MaxTokens: 800}
)

const studyPlanSystemInstruction = "You respond only with valid JSON. No markdown. No explanations."

const chatSystemPrompt = "You are an AI Study Buddy, friendly, helpful, and educational.\n" +
	"Respond clearly, naturally, and stay on topic using the conversation history."

func flashcardPrompt(count int, request string) string {
	return strings.TrimSpace(fmt.Sprintf(`
You are an expert flashcard creator for active recall and spaced repetition.

Generate exactly %d high-quality flashcards based on the user's request.

Rules:
- Front: clear question, term, cloze prompt or problem that forces recall
- Back: complete, concise, accurate answer (explanation + key facts)
- Use {{c1:: }} for cloze deletions when it makes sense (definitions, lists, formulas)
- Keep front short (5-20 words), back informative but concise (10-80 words)
- Cover core concepts, facts, dates, formulas, processes, causes/effects
- Output ONLY the JSON array. No explanations, no markdown, no code blocks, no extra characters!

Output format (nothing else):
[
  {"front": "Question or term here", "back": "Full answer here"},
  ...
]

User request: %s
`, count, request))
}

func quizPrompt(count int, request string) string {
	return strings.TrimSpace(fmt.Sprintf(`
You are an expert quiz creator for educational assessments.

Generate exactly %d high-quality open-ended questions based on the user's request.

Rules:
- Each question should require a written answer (short answer or essay style)
- Questions should test understanding, critical thinking, and application of knowledge
- Include the correct/model answer for each question
- Vary difficulty levels appropriately
- Make questions clear and specific
- Output ONLY the JSON array. No explanations, no markdown, no code blocks, no extra characters!

Output format (nothing else):
[
  {
    "question": "Clear question text here?",
    "correct_answer": "The model answer or key points that should be in a correct answer"
  },
  ...
]

Notes:
- Questions can be short answer or require longer responses
- correct_answer should contain the ideal answer or key points expected
- Ensure questions are unambiguous and test meaningful understanding

User request: %s
`, count, request))
}

func gradingPrompt(inputs []domain.GradingInput) string {
	blocks := make([]string, 0, len(inputs))
	for i, q := range inputs {
		blocks = append(blocks, fmt.Sprintf("\nQuestion %d (ID: %s):\nQ: %s\nCorrect Answer: %s\nStudent Answer: %s\n",
			i+1, q.QuestionID, q.Question, q.CorrectAnswer, q.UserAnswer))
	}

	return strings.TrimSpace(fmt.Sprintf(`
You are an expert teacher grading quiz answers. You will receive a list of questions with the correct answer and the student's answer.

For each question, you must:
1. Determine if the student's answer is correct, partially correct, or incorrect
2. Consider that answers don't need to be word-for-word identical - focus on whether the key concepts are present
3. Be fair and generous - if the answer demonstrates understanding, mark it correct even if phrased differently
4. Provide brief, constructive feedback explaining why the answer is correct or what was missing

Output ONLY a JSON array with this exact structure:
[
  {
    "questionId": "the question ID provided",
    "isCorrect": true or false,
    "feedback": "Brief explanation of the grading decision"
  },
  ...
]

Questions to grade:
%s

Remember: Output ONLY the JSON array, no markdown, no code blocks, no extra text!
`, strings.Join(blocks, "\n")))
}

func studyPlanPrompt(req domain.StudyPlanRequest, days int, hasExamDate bool) string {
	window := "Duration: 14-day intensive"
	if hasExamDate {
		window = fmt.Sprintf("Days until exam: %d", days)
	}
	topics := req.Topics
	if topics == "" {
		topics = "all essential topics"
	}

	return fmt.Sprintf(`You are the world's best academic coach.

Course: %[1]s
Goal: %[2]s
Daily study time: %[3]s hours
%[4]s
Topics to focus on: %[5]s

Return ONLY a valid JSON object with this exact structure. NO markdown. NO code blocks.

{
  "title": "%[6]d-Day Plan: %[1]s",
  "duration": "%[6]d days",
  "dailyHours": "%[3]s",
  "totalSessions": %[6]d,
  "schedule": [
    {
      "day": 1,
      "date": "2025-12-01",
      "focus": "Foundations",
      "tasks": ["Watch intro lecture", "Read chapter 1", "Make notes", "Solve 15 questions"],
      "timeEstimate": "%[3]s hours",
      "motivation": "Day 1 sets the tone - you're already ahead!"
    }
    // ... one object per day, up to day %[6]d
  ]
}

Rules:
- Return ONLY the JSON
- No explanations
- No code blocks
- No extra text`, req.Course, req.Goal, req.HoursPerDay, window, topics, days)
}
