package telemetry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.trai.ch/zerr"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidEvent is returned when an event does not match the usage schema.
var ErrInvalidEvent = zerr.New("invalid usage event")

//go:embed usage_event.schema.json
var schemaJSON string

const schemaName = "usage_event.schema.json"

// printer formats schema violation messages
var printer = message.NewPrinter(language.English)

// eventSchema is the compiled usage event schema
var eventSchema *jsonschema.Schema

func init() {
	var doc any
	if err := json.Unmarshal([]byte(schemaJSON), &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", schemaName, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", schemaName, err))
	}

	sch, err := compiler.Compile(schemaName)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", schemaName, err))
	}
	eventSchema = sch
}

// Validate checks a marshalled event against the usage schema. All violations
// are reported in the error's "violations" metadata.
func Validate(payload []byte) error {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(payload))
	if err != nil {
		return zerr.Wrap(ErrInvalidEvent, err.Error())
	}

	err = eventSchema.Validate(instance)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return zerr.Wrap(ErrInvalidEvent, err.Error())
	}
	var violations []string
	collectViolations(ve, &violations)
	return zerr.With(zerr.Wrap(ErrInvalidEvent, violations[0]), "violations", violations)
}

func collectViolations(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		*out = append(*out, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, c := range ve.Causes {
		collectViolations(c, out)
	}
}
