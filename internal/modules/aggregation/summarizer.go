package aggregation

import "context"

// Narrative is the summarizer's output. Nil fields mean the model chose to
// leave the stored text unchanged; only non-nil fields are written back.
type Narrative struct {
	Summary *string `json:"summary,omitempty"`
	Pros    *string `json:"pros,omitempty"`
	Cons    *string `json:"cons,omitempty"`
}

// IsEmpty reports whether the narrative would change nothing.
func (n *Narrative) IsEmpty() bool {
	return n == nil || (n.Summary == nil && n.Pros == nil && n.Cons == nil)
}

// SummarizeInput is everything the summarizer needs to resynthesize one
// school's profile text.
type SummarizeInput struct {
	SchoolName      string
	BaselineSummary string
	BaselinePros    string
	BaselineCons    string
	Transcript      string
}

// Summarizer produces updated profile text from a school's editorial
// baseline and its approved review transcript. Implementations own prompt
// rendering, transport, and response parsing; a parse failure is an error,
// never a partial narrative.
type Summarizer interface {
	Summarize(ctx context.Context, in SummarizeInput) (*Narrative, error)
}
