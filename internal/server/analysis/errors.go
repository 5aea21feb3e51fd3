package analysis

import "errors"

var (
	ErrMissingAPIKey     = errors.New("api key is missing")
	ErrBadCredential     = errors.New("api key rejected")
	ErrSafetyBlocked     = errors.New("blocked by safety filters")
	ErrRecitationBlocked = errors.New("blocked for recitation")
	ErrEmptyResponse     = errors.New("empty model response")
	ErrMalformedOutput   = errors.New("malformed model output")
	ErrRateLimited       = errors.New("rate limited")
	ErrUnavailable       = errors.New("service unavailable")
	ErrNetwork           = errors.New("network failure")
	ErrBadRequest        = errors.New("bad request")
)

// UserMessage maps a gateway error onto the stable message shown to the
// person who triggered the analysis.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return "Configuration Error: API Key is missing. Please contact the administrator."
	case errors.Is(err, ErrBadCredential):
		return "Configuration Error: Invalid API Key. Please contact your administrator."
	case errors.Is(err, ErrSafetyBlocked):
		return "Analysis Blocked: The document contains content flagged by safety filters (e.g., sensitive info, hate speech, or harassment)."
	case errors.Is(err, ErrRecitationBlocked):
		return "Analysis Stopped: The model output was flagged for recitation of copyrighted material."
	case errors.Is(err, ErrEmptyResponse):
		return "Empty Response: The AI returned no text. This usually means the document text could not be extracted or the file is empty."
	case errors.Is(err, ErrMalformedOutput):
		return "Data Parsing Error: The AI analysis completed, but the output format was invalid. This often happens with very long or complex documents that cause the AI to cut off the response mid-stream. Please try uploading a smaller section or a simpler document."
	case errors.Is(err, ErrRateLimited):
		return "Traffic Limit Exceeded: The system is currently busy. Please wait 30 seconds before retrying."
	case errors.Is(err, ErrUnavailable):
		return "Service Unavailable: The AI service is temporarily down. Please check your internet connection and try again later."
	case errors.Is(err, ErrNetwork):
		return "Network Error: Could not connect to the AI service. Please check your internet connection."
	case errors.Is(err, ErrBadRequest):
		return "Bad Request: The file might be corrupted, unsupported, or too large. Please ensure it is a valid PDF or Image file."
	default:
		return "An unexpected error occurred."
	}
}
