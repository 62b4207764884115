// CUE schema validation code
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// ValidateWithCue validates a YAML configuration file against the #Config
// definition of a CUE schema file.
func ValidateWithCue(configFile, cueFile string) error {
	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML config: %w", err)
	}
	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	return validateBytes(configFile, yamlBytes, cueFile, schemaBytes, "#Config")
}

func validateBytes(configName string, yamlBytes []byte, schemaName string, schemaBytes []byte, def string) error {
	ctx := cuecontext.New()

	file, err := cueyaml.Extract(configName, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(file)
	if configVal.Err() != nil {
		return fmt.Errorf("cannot build YAML config: %w", configVal.Err())
	}

	schemaVal := ctx.CompileBytes(schemaBytes, cue.Filename(schemaName))
	if schemaVal.Err() != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", schemaVal.Err())
	}
	defVal := schemaVal.LookupPath(cue.ParsePath(def))
	if !defVal.Exists() {
		return fmt.Errorf("schema %s has no %s definition", schemaName, def)
	}

	final := defVal.Unify(configVal)
	if err := final.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
