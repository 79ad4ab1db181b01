package config

import (
	"github.com/invopop/jsonschema"
)

// GenerateSchema generates JSON schema for the configuration file
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
