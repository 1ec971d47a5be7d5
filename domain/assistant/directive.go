package assistant

import (
	"encoding/json"
	"strings"
)

// DirectiveKind tags the variant held by a Directive.
type DirectiveKind int

const (
	// NoQueryNeeded means the model answered directly.
	NoQueryNeeded DirectiveKind = iota
	// QueryNeeded means the model wants a traversal executed first.
	QueryNeeded
)

func (k DirectiveKind) String() string {
	if k == QueryNeeded {
		return "query_needed"
	}
	return "no_query_needed"
}

// Directive is the decoded decision of the language model. Exactly one
// variant is populated: Answer for NoQueryNeeded, TraversalExpression and
// Explanation for QueryNeeded.
type Directive struct {
	Kind                DirectiveKind
	Answer              string
	TraversalExpression string
	Explanation         string
}

// directiveWire is the JSON contract described to the model.
type directiveWire struct {
	NeedsQuery   bool   `json:"needsQuery"`
	GremlinQuery string `json:"gremlinQuery"`
	Explanation  string `json:"explanation"`
	Answer       string `json:"answer"`
}

// DecodeDirective interprets raw model output. It first tries the span from
// the first '{' to the last '}', then the whole text. Output that decodes as
// neither is a direct answer carrying the raw text; decoding never fails.
func DecodeDirective(raw string) Directive {
	wire, ok := decodeEmbeddedObject(raw)
	if !ok {
		wire, ok = decodeObject(raw)
	}
	if !ok {
		return Directive{Kind: NoQueryNeeded, Answer: raw}
	}

	expression := strings.TrimSpace(wire.GremlinQuery)
	if wire.NeedsQuery && expression != "" {
		return Directive{
			Kind:                QueryNeeded,
			TraversalExpression: expression,
			Explanation:         wire.Explanation,
		}
	}

	answer := wire.Answer
	if strings.TrimSpace(answer) == "" {
		answer = raw
	}
	return Directive{Kind: NoQueryNeeded, Answer: answer}
}

func decodeEmbeddedObject(raw string) (directiveWire, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return directiveWire{}, false
	}
	return decodeObject(raw[start : end+1])
}

func decodeObject(text string) (directiveWire, bool) {
	var wire directiveWire
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &wire); err != nil {
		return directiveWire{}, false
	}
	return wire, true
}
