package settings

// Settings is the flat application settings blob: the model name and the
// prompt texts driving every analysis section. Stored values overlay the
// defaults field by field, so a partially saved blob still yields a
// complete settings object.
type Settings struct {
	AIModel           string `json:"aiModel"`
	GlobalRole        string `json:"globalRole"`
	ScoringWeights    string `json:"scoringWeights"`
	PromptSummary     string `json:"promptSummary"`
	PromptGaps        string `json:"promptGaps"`
	PromptAmbiguities string `json:"promptAmbiguities"`
	PromptEmail       string `json:"promptEmail"`
	PromptRfq         string `json:"promptRfq"`
	PromptCredibility string `json:"promptCredibility"`
	PromptHistory     string `json:"promptHistory"`
}
