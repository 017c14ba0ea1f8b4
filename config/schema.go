package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// SchemaID is the resource name the schema is compiled under.
const SchemaID = "tmuxession.json"

// GenerateSchema reflects the JSON Schema of tmuxession.yml from Config.
// Top-level keys other than the known fields are allowed so that extension
// sections such as "logging" validate; nested sections are strict.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	// Mirrors Config without the inline Extensions map.
	type fileConfig struct {
		Shell   string        `yaml:"shell,omitempty" jsonschema:"description=Program that runs restore scripts as '<shell> -c <script>',default=sh"`
		Editor  string        `yaml:"editor,omitempty" jsonschema:"description=Editor for the edit command (defaults to $EDITOR then vi)"`
		Theme   string        `yaml:"theme,omitempty" jsonschema:"description=Color palette (kanagawa or terminal)"`
		Tmux    TmuxConfig    `yaml:"tmux,omitempty" jsonschema:"description=tmux server selection"`
		Capture CaptureConfig `yaml:"capture,omitempty" jsonschema:"description=Capture tuning"`
	}

	schema := r.Reflect(&fileConfig{})
	schema.ID = SchemaID
	schema.Title = "tmuxession configuration"
	schema.Description = "Schema for tmuxession.yml and tmuxession.toml."
	schema.Version = "http://json-schema.org/draft-07/schema#"
	schema.AdditionalProperties = jsonschema.TrueSchema

	return json.MarshalIndent(schema, "", "  ")
}
