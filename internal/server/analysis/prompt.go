package analysis

import (
	"fmt"

	"github.com/dmitrijs2005/proposalkeeper/internal/server/settings"
)

const jsonStructureInstruction = `
You must strictly output ONLY valid JSON.
Required top-level keys:
- summary: (string) matches Executive Summary instructions.
- extracted_fields: array of objects { name, value, unit, page_ref }.
- gaps: array of strings matches Gap Analysis instructions.
- ambiguities: array of objects {text_snippet, reason, page_ref}.
- draft_email: {subject, body}.
- draft_rfq: {subject, body}.
- score: integer 0-100 (The weighted total).
- scoring_breakdown: array of objects { category, score, weight, reasoning }.
- score_explanation: array of strings (Summary of the scoring logic).
- vendor_check_inputs: { website, registered_name, linkedin }.
- vendor_identification: object { vendor_name, confidence_level, evidence }.
- vendor_credibility_summary: object matches Vendor Credibility instructions.
- history_log: (string) matches History Log instructions.

If you cannot find a required field, include it in gaps. Always include page_ref where data was found.
`

const fieldInstructions = `--- FIELD SPECIFIC INSTRUCTIONS ---

STEP 1: VENDOR IDENTIFICATION
TASK: Identify the supplier or vendor from the uploaded proposal document.
INSTRUCTIONS:
- Extract the most likely company name
- Look for logos, headers, footers, legal entity names, or contact sections
- If multiple company names appear, choose the primary issuer of the proposal
- If the vendor cannot be confidently identified, state "Unclear"

STEP 2: CREDIBILITY CHECK (USE GOOGLE SEARCH)
TASK: Analyze the document AND use Google Search tools to verify vendor credibility.
INSTRUCTIONS:
- Search for the Vendor Name online.
- WEBSITE: Find their official website URL.
- LINKEDIN: Find their LinkedIn company page.
- PHONE: Find a phone number (search internet if not in doc).
- ADDRESS: Verify the address found in the document using Google.
- If Google Search is used, you MUST ALWAYS extract the URLs from groundingChunks and list them in the 'notes' or 'value' fields of the JSON.

SCORING BREAKDOWN:
Based on the "scoringWeights" provided in the settings, you must populate the "scoring_breakdown" array.
For EACH category defined in the global weights (Price, Technical, Delivery, Warranty, Credibility):
1. Assign a raw score (0-100) based on the document content.
2. Include the weight used (e.g. 0.3 for 30%).
3. Provide a short reasoning string.
The top level "score" must be the calculated weighted average of these items.`

const analysisPrompt = `Analyze the uploaded supplier proposal document.
1. Identify the vendor.
2. Perform Credibility Check using Google Search (Find website, linkedin, phone, verify address).
3. Perform the standard procurement analysis (gaps, scoring, drafts).
Ensure strict adherence to the JSON schema.`

// systemInstruction assembles the full system prompt from the structural
// contract, the stored role and weights, and the per-section prompt texts.
func systemInstruction(s settings.Settings) string {
	return fmt.Sprintf(`%s

%s

%s

%s

EXECUTIVE SUMMARY:
%s

GAPS ANALYSIS:
%s

AMBIGUITIES:
%s

EMAIL DRAFT:
%s

RFQ DRAFT:
%s

VENDOR CREDIBILITY CHECK:
%s

HISTORY LOG / AUDIT:
%s
`,
		jsonStructureInstruction,
		s.GlobalRole,
		s.ScoringWeights,
		fieldInstructions,
		s.PromptSummary,
		s.PromptGaps,
		s.PromptAmbiguities,
		s.PromptEmail,
		s.PromptRfq,
		s.PromptCredibility,
		s.PromptHistory,
	)
}
