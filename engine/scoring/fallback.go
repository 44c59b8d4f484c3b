package scoring

// Deterministic fallbacks used whenever the model call fails, times out, or
// returns unparseable output. Fallback results are structurally identical to
// model-derived ones; only logs and metrics record the difference.

// FallbackScore remaps the vector similarity when one is available,
// otherwise lands on the neutral midpoint.
func FallbackScore(cos float32, hasVector bool) int {
	if !hasVector {
		return 50
	}
	return NormalizeVectorScore(cos)
}

var fallbackFeedbackByCategory = map[Category]Feedback{
	CategoryExceptional: {
		Text: "Exceptional match! Candidate is highly aligned with job requirements.",
		Details: "This candidate demonstrates an exceptional match to the position requirements. " +
			"Their skills and experience closely align with what you're looking for, suggesting they could be a top performer.",
	},
	CategoryHigh: {
		Text: "Strong match! Candidate has relevant skills for this position.",
		Details: "This candidate shows strong alignment with the job requirements. " +
			"Their background suggests they have most of the key skills needed for success in this role.",
	},
	CategoryMedium: {
		Text: "Potential match. Further screening recommended.",
		Details: "While this candidate shows potential, there may be some skills gaps that should be explored further. " +
			"Consider focusing interview questions on these potential gaps.",
	},
	CategoryLow: {
		Text: "Limited alignment with job requirements.",
		Details: "This candidate's experience appears to have limited alignment with the job requirements. " +
			"There may be significant skills gaps that would require substantial training.",
	},
}

// FallbackFeedback selects the templated feedback for the score's bucket.
func FallbackFeedback(score int) Feedback {
	cat := CategoryOf(score)
	fb := fallbackFeedbackByCategory[cat]
	fb.Category = cat
	return fb
}

// FallbackQuestions returns three generic interview questions, independent
// of score.
func FallbackQuestions() []Question {
	return []Question{
		{
			Question:  "Can you describe your experience with the technologies mentioned in your profile?",
			Rationale: "Understanding the candidate's practical experience.",
		},
		{
			Question:  "How do you approach learning new technologies or skills?",
			Rationale: "Assessing adaptability and learning capacity.",
		},
		{
			Question:  "What do you consider your strongest technical skill and why?",
			Rationale: "Evaluating self-awareness and technical strengths.",
		},
	}
}
