package survey

// Reconcile merges a sparse set of previously stored answers into a complete
// ResponseState aligned to the current canonical questionnaire.
//
// Every question id present in the questionnaire is seeded with the empty
// string, then overlaid with the stored value when one exists. Stored keys
// with no matching question are dropped silently — they represent answers to
// questions a later questionnaire revision removed, not an error.
//
// Pure and deterministic: one pass over each input, stored is never mutated,
// and the returned map is freshly allocated.
func Reconcile(q *Questionnaire, stored map[string]string) ResponseState {
	state := make(ResponseState, q.QuestionCount())
	for _, s := range q.Sections {
		for _, question := range s.Questions {
			state[question.ID] = ""
		}
	}
	for id, value := range stored {
		if _, ok := state[id]; ok {
			state[id] = value
		}
	}
	return state
}
