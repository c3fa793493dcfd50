// Package schemas holds the JSON Schemas for structured inference output.
// The schemas are embedded so runtime validation never depends on the
// process working directory.
package schemas

import _ "embed"

// Requirements is the schema for requirements-extraction output.
//
//go:embed requirements.schema.json
var Requirements string
