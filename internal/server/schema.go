package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/critiqhq/critiq/internal/criteria"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// analyzeSchema is the compiled JSON Schema for analyze requests.
var analyzeSchema *jsonschema.Schema

func init() {
	analyzeSchema = mustCompileSchema(analyzeSchemaDoc(), "analyze.schema.json")
}

// analyzeSchemaDoc builds the analyze request schema. The criteria property
// accepts only the fixed criterion keys, each mapped to a boolean.
func analyzeSchemaDoc() map[string]any {
	criteriaProps := make(map[string]any, criteria.Count())
	for _, key := range criteria.All() {
		criteriaProps[string(key)] = map[string]any{"type": "boolean"}
	}
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"code": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"criteria": map[string]any{
				"type":                 "object",
				"properties":           criteriaProps,
				"additionalProperties": false,
			},
		},
		"required":             []any{"code"},
		"additionalProperties": false,
	}
}

func mustCompileSchema(doc any, name string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// validateAnalyzeBytes validates a raw analyze request body. It returns a
// list of human-readable errors, or nil when the body conforms.
func validateAnalyzeBytes(data []byte) []string {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}
	return validateAgainstSchema(analyzeSchema, doc)
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
