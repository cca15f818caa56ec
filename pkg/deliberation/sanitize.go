package deliberation

import (
	"regexp"
	"sort"
)

// Scope guard. Reasoning and rewrite outputs must never contain definitive
// diagnoses or treatment directives. Policy is sanitize-and-continue: the
// offending phrasing is rewritten to hypothesis framing and the violation
// is reported to the caller for logging, never escalated.

// definitivePhrases map disallowed phrasing to hedged replacements.
// Matching is case-insensitive on the key.
var definitivePhrases = map[string]string{
	"you have":             "the findings could be consistent with",
	"you definitely have":  "the findings could be consistent with",
	"confirmed diagnosis":  "working hypothesis",
	"definitive diagnosis": "working hypothesis",
	"is definitely":        "may be",
	"you must take":        "a clinician may discuss",
	"start taking":         "ask your doctor about",
	"i prescribe":          "a clinician may consider",
	"we prescribe":         "a clinician may consider",
}

type definitiveRule struct {
	re          *regexp.Regexp
	replacement string
}

// Rules are precompiled in sorted key order so sanitizing is deterministic.
// Matching is done by the regexp engine; byte offsets from a lowercased
// copy must never be applied to the original, since case mapping can change
// a rune's UTF-8 width.
var definitiveRules = func() []definitiveRule {
	keys := make([]string, 0, len(definitivePhrases))
	for k := range definitivePhrases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rules := make([]definitiveRule, 0, len(keys))
	for _, k := range keys {
		rules = append(rules, definitiveRule{
			re:          regexp.MustCompile(`(?i)` + regexp.QuoteMeta(k)),
			replacement: definitivePhrases[k],
		})
	}
	return rules
}()

// SanitizeClaim rewrites disallowed definitive phrasing in a single text.
// Returns the sanitized text and whether anything was rewritten.
func SanitizeClaim(text string) (string, bool) {
	violated := false
	out := text
	for _, rule := range definitiveRules {
		if !rule.re.MatchString(out) {
			continue
		}
		out = rule.re.ReplaceAllLiteralString(out, rule.replacement)
		violated = true
	}
	return out, violated
}

// SanitizeOpinion applies the scope guard to every text field of an opinion.
func SanitizeOpinion(op DoctorOpinion) (DoctorOpinion, bool) {
	violated := false
	sanitizeAll := func(items []string) []string {
		out := make([]string, len(items))
		for i, item := range items {
			s, v := SanitizeClaim(item)
			out[i] = s
			violated = violated || v
		}
		return out
	}
	op.Hypotheses = sanitizeAll(op.Hypotheses)
	op.DiagnosticTests = sanitizeAll(op.DiagnosticTests)

	var v bool
	op.Reasoning, v = SanitizeClaim(op.Reasoning)
	violated = violated || v
	op.CritiqueOfPeers, v = SanitizeClaim(op.CritiqueOfPeers)
	violated = violated || v

	return op, violated
}
