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
	// Lifecycle Errors (E101-E119)
	// ============================================

	"E101": {
		Category: CategoryLifecycle,
		Message:  "Scope disposed twice",
		Detail:   "A scope may be disposed exactly once. A second Dispose indicates that two owners believe they own the same scope.",
	},
	"E102": {
		Category: CategoryLifecycle,
		Message:  "Scope used after dispose",
		Detail:   "A handle to a disposed scope was resolved. The row that owned it has already been removed.",
	},
	"E103": {
		Category: CategoryLifecycle,
		Message:  "Effect created on disposed scope",
		Detail:   "Effects must be created while their owning scope is alive.",
	},

	// ============================================
	// Node Reference Errors (E201-E219)
	// ============================================

	"E201": {
		Category: CategoryRef,
		Message:  "Node reference is not set",
		Detail:   "The referenced node has not been mounted yet. Use TryGet to check without panicking.",
	},
	"E202": {
		Category: CategoryRef,
		Message:  "Node reference set twice",
		Detail:   "A node reference is written once per mount. Recreated rows must allocate a new reference.",
	},

	// ============================================
	// Config Errors (E301-E319)
	// ============================================

	"E301": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file failed validation.",
	},
	"E302": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No keyed.json or keyed.yaml was found at the given path.",
	},
	"E303": {
		Category: CategoryConfig,
		Message:  "Configuration parse error",
		Detail:   "The configuration file could not be decoded.",
	},

	// ============================================
	// Server Errors (E401-E419)
	// ============================================

	"E401": {
		Category: CategoryServer,
		Message:  "Board closed",
		Detail:   "The board's task loop has stopped and no longer accepts mutations.",
	},
	"E402": {
		Category: CategoryServer,
		Message:  "Row not found",
		Detail:   "No row with the given id is rendered on the board.",
	},
	"E403": {
		Category: CategoryServer,
		Message:  "Duplicate row id",
		Detail:   "A row with the given id is already rendered on the board.",
	},
	"E404": {
		Category: CategoryServer,
		Message:  "Board full",
		Detail:   "The board already holds its configured maximum number of rows.",
	},
	"E405": {
		Category: CategoryServer,
		Message:  "Invalid request",
		Detail:   "The request body or parameters could not be used.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
