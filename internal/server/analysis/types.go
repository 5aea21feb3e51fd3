package analysis

import (
	"encoding/json"
	"strconv"
)

// PageRef is a page reference that arrives as either a JSON string or a
// number, depending on how the model formatted it.
type PageRef string

func (p *PageRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PageRef(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PageRef(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

type ExtractedField struct {
	Name    string  `json:"name"`
	Value   string  `json:"value"`
	Unit    string  `json:"unit,omitempty"`
	PageRef PageRef `json:"page_ref,omitempty"`
}

type Ambiguity struct {
	TextSnippet string  `json:"text_snippet"`
	Reason      string  `json:"reason"`
	PageRef     PageRef `json:"page_ref,omitempty"`
}

type DraftMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type ScoringCategory struct {
	Category  string  `json:"category"`
	Score     int     `json:"score"`
	Weight    float64 `json:"weight"`
	Reasoning string  `json:"reasoning"`
}

type VendorCheckInputs struct {
	Website        string `json:"website,omitempty"`
	RegisteredName string `json:"registered_name,omitempty"`
	LinkedIn       string `json:"linkedin,omitempty"`
}

type Evidence struct {
	TextSnippet string  `json:"text_snippet"`
	PageRef     PageRef `json:"page_ref"`
}

type VendorIdentification struct {
	VendorName      string     `json:"vendor_name"`
	ConfidenceLevel string     `json:"confidence_level"`
	Evidence        []Evidence `json:"evidence"`
}

// Result is the full analysis payload for one proposal document. The vendor
// credibility summary is kept raw: older model outputs return it as a plain
// string, newer ones as a structured object.
type Result struct {
	Summary           string                `json:"summary"`
	ExtractedFields   []ExtractedField      `json:"extracted_fields"`
	Gaps              []string              `json:"gaps"`
	Ambiguities       []Ambiguity           `json:"ambiguities"`
	DraftEmail        DraftMessage          `json:"draft_email"`
	DraftRfq          DraftMessage          `json:"draft_rfq"`
	Score             int                   `json:"score"`
	ScoringBreakdown  []ScoringCategory     `json:"scoring_breakdown,omitempty"`
	ScoreExplanation  []string              `json:"score_explanation"`
	VendorCheckInputs VendorCheckInputs     `json:"vendor_check_inputs"`
	VendorCredibility json.RawMessage       `json:"vendor_credibility_summary,omitempty"`
	VendorIdent       *VendorIdentification `json:"vendor_identification,omitempty"`
	HistoryLog        string                `json:"history_log,omitempty"`
}

// VendorName returns the identified vendor name, or empty when the model
// could not identify one.
func (r *Result) VendorName() string {
	if r.VendorIdent == nil {
		return ""
	}
	return r.VendorIdent.VendorName
}
