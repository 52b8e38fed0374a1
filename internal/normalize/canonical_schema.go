package normalize

import (
	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed canonical_schema.json
var canonicalSchemaJSON []byte

var canonicalSchemaLoader = gojsonschema.NewBytesLoader(canonicalSchemaJSON)
