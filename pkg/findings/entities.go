package findings

import "strings"

// conceptTable maps caption keywords to UMLS concept identifiers. Matching
// is deliberately shallow: this is a hint layer for the reasoning units, not
// a medical NER system.
var conceptTable = []struct {
	keyword string
	cui     string
}{
	{"pneumonia", "C0032285"},
	{"pleural effusion", "C0032227"},
	{"cardiomegaly", "C0018800"},
	{"consolidation", "C0521530"},
	{"atelectasis", "C0004144"},
	{"pneumothorax", "C0032326"},
	{"pulmonary edema", "C0034063"},
	{"emphysema", "C0034067"},
	{"fracture", "C0016658"},
	{"nodule", "C0028259"},
}

// negationCues upstream of a keyword suppress the match ("no evidence of
// pneumonia" must not yield a pneumonia entity).
var negationCues = []string{"no ", "no evidence of ", "without ", "free of ", "negative for "}

// defaultEntityConfidence is assigned to keyword matches, which carry no
// model score of their own.
const defaultEntityConfidence = 0.5

// ExtractEntities scans a caption for known clinical concepts, skipping
// negated mentions.
func ExtractEntities(caption string) []Entity {
	lower := strings.ToLower(caption)
	entities := []Entity{}
	for _, concept := range conceptTable {
		idx := strings.Index(lower, concept.keyword)
		if idx < 0 {
			continue
		}
		if negated(lower, idx) {
			continue
		}
		entities = append(entities, Entity{
			Label:      concept.keyword,
			CUI:        concept.cui,
			Confidence: defaultEntityConfidence,
		})
	}
	return entities
}

func negated(lower string, idx int) bool {
	prefix := lower[:idx]
	for _, cue := range negationCues {
		if strings.HasSuffix(prefix, cue) {
			return true
		}
	}
	return false
}
