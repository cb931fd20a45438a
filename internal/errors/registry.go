package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Engine Errors (F001-F099)
	// ============================================

	"F001": {
		Category:   CategorySyntax,
		Message:    "Malformed expression",
		Detail:     "An attribute value or a {...} interpolation does not match the expression grammar.",
		Suggestion: "Call arguments may only be literals: numbers, `backtick strings` or empty slots.",
	},
	"F002": {
		Category:   CategoryLookup,
		Message:    "Name is not defined",
		Detail:     "A converter, predicate, model, handler or template is referenced but was never registered.",
		Suggestion: "Register the name in the matching registry (as, if, is, on) or declare the template.",
	},
	"F003": {
		Category:   CategoryReactivity,
		Message:    "Property is not observable",
		Detail:     "A live path reaches a property that does not exist or a value that is not an object.",
		Suggestion: "Declare every property of a live path in the initial data.",
	},
	"F004": {
		Category: CategoryTemplate,
		Message:  "Duplicated template id",
		Detail:   "Two template declarations use the same id.",
	},
	"F005": {
		Category:   CategoryBinding,
		Message:    "Unsupported two-way binding",
		Detail:     "Two-way bindings write back to a single property of the current data node.",
		Suggestion: "Move the element under a data source (:path) so the binding names one property.",
	},

	// ============================================
	// Configuration Errors (F100-F109)
	// ============================================

	"F100": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "funa.yaml or funa.json could not be parsed.",
	},
	"F101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// Source Errors (F110-F119)
	// ============================================

	"F110": {
		Category: CategorySource,
		Message:  "Source not found",
		Detail:   "The template, data or script source could not be read.",
	},
	"F111": {
		Category:   CategorySource,
		Message:    "Remote source failed",
		Detail:     "The object could not be fetched from S3.",
		Suggestion: "Check the bucket, key, region and AWS credentials.",
	},
	"F112": {
		Category: CategorySource,
		Message:  "Invalid data file",
		Detail:   "Data files must hold one JSON or YAML object.",
	},

	// ============================================
	// Script Errors (F120-F129)
	// ============================================

	"F120": {
		Category: CategoryScript,
		Message:  "Script failed",
		Detail:   "The registry script threw while loading or while a registered function ran.",
	},
	"F121": {
		Category:   CategoryScript,
		Message:    "Invalid script registry",
		Detail:     "Registry entries must be functions, or for converters objects with convert/revert functions.",
		Suggestion: "Add entries to funa.as, funa.if, funa.is and funa.on.",
	},

	// ============================================
	// CLI Errors (F130-F139)
	// ============================================

	"F130": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
	},
	"F131": {
		Category: CategoryCLI,
		Message:  "Preview server failed",
	},
	"F132": {
		Category:   CategoryCLI,
		Message:    "Template check failed",
		Suggestion: "Fix the errors listed above and run funa check again.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
