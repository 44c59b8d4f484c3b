package scoring

import "fmt"

func scorePrompt(subject, requirement string) string {
	return fmt.Sprintf(`You are an expert HR professional evaluating how well a candidate matches a job opening.

Candidate skills and experience:
%s

Job requirements:
%s

Assign a match score from 0 to 100, where 100 means the candidate fully satisfies the requirements.
Base the score only on the provided text; do not assume experience that is not mentioned.

Respond with a single JSON object and nothing else:
{"score": <number>}`, subject, requirement)
}

func feedbackPrompt(subject, requirement string, score int) string {
	return fmt.Sprintf(`You are an expert HR professional summarizing a candidate evaluation for a recruiter.

Candidate skills and experience:
%s

Job requirements:
%s

The candidate's match score is %d out of 100.

Write a one-sentence summary and a short paragraph of detail explaining the score:
which requirements the candidate covers, and where the gaps are.

Respond with a single JSON object and nothing else:
{"text": "<one sentence>", "details": "<one paragraph>"}`, subject, requirement, score)
}

func questionsPrompt(subject, requirement string, score int) string {
	return fmt.Sprintf(`You are a hiring manager preparing to interview a candidate.

Candidate skills and experience:
%s

Job requirements:
%s

The candidate's match score is %d out of 100. Write exactly 3 interview questions
tailored to this candidate: probe claimed strengths at a high score, probe gaps at a low one.

Respond with a JSON array and nothing else:
[{"question": "<question>", "rationale": "<why this question>"}, ...]`, subject, requirement, score)
}
