package assistant

// GuidanceAnswer is returned when no question was asked.
const GuidanceAnswer = `Please ask a question about the graph. For example:
- "How many airports are in the graph?"
- "Which airports can I fly to directly from AUS?"
- "What are the ten longest routes out of LHR?"
- "Which countries have more than 50 airports?"`

// Response is the only externally observable result of the assistant. Query
// and Data are nil unless a traversal was attempted or returned data.
type Response struct {
	Answer string  `json:"answer"`
	Query  *string `json:"query"`
	Data   *string `json:"data"`
}

// Guidance builds the fixed response for an absent question.
func Guidance() Response {
	return Response{Answer: GuidanceAnswer}
}

// DirectAnswer builds a response that carries only an answer.
func DirectAnswer(answer string) Response {
	return Response{Answer: answer}
}

// QueryAnswer builds a response for an executed traversal.
func QueryAnswer(answer, query, data string) Response {
	return Response{Answer: answer, Query: &query, Data: &data}
}

// QueryFailure builds a response for a traversal that could not be executed.
func QueryFailure(answer, query string) Response {
	return Response{Answer: answer, Query: &query}
}
