// Package template provides variable expansion for configuration values.
//
// Document providers can expand ${VAR} placeholders in string scalars before
// their tree joins the merge, so a YAML file may refer to the environment:
//
//	database:
//	  url: postgres://${DB_HOST:-localhost}:5432/app
//
// # Supported Patterns
//
//   - ${VAR}: always supported
//   - ${VAR:-fallback}: uses fallback when VAR is not defined
//   - $VAR: opt-in with WithDollarStyle(true)
//
// Variable names must start with a letter or underscore, followed by
// letters, digits, or underscores.
//
// # Missing Variables
//
//   - MissingKeep (default): keep the placeholder as-is
//   - MissingEmpty: replace with empty string
//   - MissingError: return an UndefinedVariableError
//
// # Trees
//
// ExpandValue walks a value.Value and expands every string scalar, leaving
// keys, numbers and booleans untouched:
//
//	exp := template.NewExpander(template.WithMissingAction(template.MissingError))
//	tree, err := exp.ExpandValue(tree, template.EnvLookup)
//
// # Thread Safety
//
// Expander is safe for concurrent use after construction.
package template
