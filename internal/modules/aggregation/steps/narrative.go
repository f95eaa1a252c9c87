package steps

import (
	"fmt"
	"strings"
)

// NarrativeInput carries everything the summarizer prompt needs: the
// school's current editorial text and the rendered review transcript.
type NarrativeInput struct {
	SchoolName      string
	BaselineSummary string
	BaselinePros    string
	BaselineCons    string
	Transcript      string
}

// NarrativeSystemPrompt instructs the model to return a strict JSON object
// and nothing else. Fields the model cannot improve should be omitted.
const NarrativeSystemPrompt = `You are an editor for a directory of international schools.
You rewrite a school's profile text by blending its existing profile with new community reviews.
Respond with ONLY a JSON object of the shape {"summary": string, "pros": string, "cons": string}.
Omit any field you would leave unchanged. Do not include markdown, code fences, or commentary.
Weight reviews by their stated priority, giving the most recent voices the most influence.
Preserve existing profile content the reviews do not address; only change what the reviews give you reason to change.
Write each field as the school's single current profile. Never mention, cite, or hint at a prior profile, baseline, legacy text, or any editorial source.
Keep the tone factual and balanced. Never quote reviewers verbatim or identify them.`

// BuildNarrativeUserPrompt renders the user message for a resynthesis call.
func BuildNarrativeUserPrompt(in NarrativeInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "School: %s\n\n", in.SchoolName)
	b.WriteString("Current profile text:\n")
	fmt.Fprintf(&b, "Summary: %s\n", orNone(in.BaselineSummary))
	fmt.Fprintf(&b, "Pros: %s\n", orNone(in.BaselinePros))
	fmt.Fprintf(&b, "Cons: %s\n\n", orNone(in.BaselineCons))
	b.WriteString("Approved community reviews, newest first:\n")
	b.WriteString(in.Transcript)
	b.WriteString("\n\nRewrite the summary, pros, and cons to reflect both the current profile and the reviews.")
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
