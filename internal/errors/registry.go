package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "fragment fetch failed",
		Detail:   "The fragment source returned an error. The container keeps its previous state; no retry is attempted.",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "fragment contains no element",
		Detail:   "A fetched fragment must contain at least one element carrying the data-layer attribute.",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "layer missing name attribute",
		Detail:   "A layer element without data-layer is still usable but will never match a named layer during reconciliation.",
	},

	// ============================================
	// Protocol Errors (E101-E199)
	// ============================================

	"E101": {
		Category: CategoryProtocol,
		Message:  "malformed frame",
		Detail:   "The client sent a frame that could not be decoded.",
	},
	"E102": {
		Category: CategoryProtocol,
		Message:  "malformed event",
		Detail:   "The client sent an event payload that could not be decoded.",
	},
	"E103": {
		Category: CategoryProtocol,
		Message:  "unknown node id",
		Detail:   "The client referenced a node id that does not exist in the session tree. The client may be out of sync.",
	},

	// ============================================
	// Config Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryConfig,
		Message:  "config file not readable",
	},
	"E202": {
		Category: CategoryConfig,
		Message:  "config file invalid",
		Detail:   "stratum.json could not be parsed as JSON.",
	},
	"E203": {
		Category: CategoryConfig,
		Message:  "config validation failed",
	},
}
