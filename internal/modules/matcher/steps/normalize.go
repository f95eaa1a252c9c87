package steps

import "strings"

// Stop words removed from school names before comparison. These carry no
// distinguishing signal ("The International School of Bangkok" vs
// "International School Bangkok").
var nameStopWords = map[string]struct{}{
	"the": {},
	"of":  {},
	"in":  {},
	"and": {},
	"for": {},
	"a":   {},
	"an":  {},
}

var namePunctuation = strings.NewReplacer(
	",", " ",
	"-", " ",
	"–", " ", // en-dash
	"—", " ", // em-dash
	"(", " ",
	")", " ",
	".", " ",
)

// NormalizeName converts a school name into its canonical comparison key:
// lowercase, punctuation replaced by spaces, stop words removed as whole
// words, whitespace collapsed. Idempotent and side-effect-free.
func NormalizeName(name string) string {
	s := strings.ToLower(name)
	s = namePunctuation.Replace(s)

	fields := strings.Fields(s)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := nameStopWords[f]; stop {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
