package model

// Sentence is a single segmented sentence from the input document
type Sentence struct {
	Text  string `json:"text"`  // The sentence text
	Index int    `json:"index"` // Position in the document (0-based)
}

// Claim represents a verifiable, decontextualized factual assertion
type Claim struct {
	Text     string `json:"text"`     // Self-contained claim text
	Sentence int    `json:"sentence"` // Index of the source sentence (0-based)
}

// ClaimTexts extracts the claim strings in order
func ClaimTexts(claims []Claim) []string {
	texts := make([]string, len(claims))
	for i, c := range claims {
		texts[i] = c.Text
	}
	return texts
}

// VerdictKind is the outcome category of a single pipeline stage
type VerdictKind int

const (
	// VerdictProceed means the stage succeeded and the sentence moves on
	VerdictProceed VerdictKind = iota

	// VerdictReject means the stage decided the sentence yields no claim
	VerdictReject

	// VerdictUnparseable means the model response matched no expected shape.
	// Never coerced to Proceed or Reject - callers must be able to tell
	// "no claim" apart from "could not parse".
	VerdictUnparseable
)

// String returns a human-readable verdict kind
func (k VerdictKind) String() string {
	switch k {
	case VerdictProceed:
		return "proceed"
	case VerdictReject:
		return "reject"
	case VerdictUnparseable:
		return "unparseable"
	default:
		return "unknown"
	}
}

// StageVerdict is the parsed outcome of one stage for one sentence.
// Exactly one payload field is meaningful, determined by the stage:
// Selection carries no payload (Proceed means selected), Disambiguation
// fills Rewritten, Decomposition fills Claims.
type StageVerdict struct {
	Kind      VerdictKind
	Rewritten string   // Disambiguation: the decontextualized sentence
	Claims    []string // Decomposition: atomic claim texts, in order
	Reason    string   // Reject: why the stage stopped the sentence
	Raw       string   // Unparseable: the raw model response, for diagnostics
}

// Proceed constructs a successful verdict
func Proceed() StageVerdict {
	return StageVerdict{Kind: VerdictProceed}
}

// ProceedWith constructs a successful disambiguation verdict
func ProceedWith(rewritten string) StageVerdict {
	return StageVerdict{Kind: VerdictProceed, Rewritten: rewritten}
}

// ProceedClaims constructs a successful decomposition verdict
func ProceedClaims(claims []string) StageVerdict {
	return StageVerdict{Kind: VerdictProceed, Claims: claims}
}

// Reject constructs a rejection verdict
func Reject(reason string) StageVerdict {
	return StageVerdict{Kind: VerdictReject, Reason: reason}
}

// Unparseable constructs a verdict for a malformed model response
func Unparseable(raw string) StageVerdict {
	return StageVerdict{Kind: VerdictUnparseable, Raw: raw}
}
