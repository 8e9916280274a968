package linter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "embed"

	"github.com/cstlint/cstlint/errors"
	jsValidator "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchemaJSON string

var defaultPrinter = message.NewPrinter(language.English)

var (
	configSchemaOnce sync.Once
	configSchema     *jsValidator.Schema
)

// ConfigSchema returns the JSON Schema lint configuration files are checked against.
func ConfigSchema() string {
	return configSchemaJSON
}

func compiledConfigSchema() *jsValidator.Schema {
	configSchemaOnce.Do(func() {
		doc, err := jsValidator.UnmarshalJSON(strings.NewReader(configSchemaJSON))
		if err != nil {
			panic(err)
		}
		c := jsValidator.NewCompiler()
		if err := c.AddResource("config.schema.json", doc); err != nil {
			panic(err)
		}
		configSchema = c.MustCompile("config.schema.json")
	})
	return configSchema
}

// ValidateConfigData checks raw YAML lint configuration against the schema.
func ValidateConfigData(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.ErrConfiguration.Wrapf("failed to parse config: %w", err)
	}
	if doc == nil {
		return nil
	}
	if err := validateAgainst(compiledConfigSchema(), doc); err != nil {
		return errors.ErrConfiguration.Wrap(err)
	}
	return nil
}

// validateRuleOptions checks options against the schema a configurable rule publishes.
func validateRuleOptions(ruleID string, schema, options map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("rule %s: invalid options schema: %w", ruleID, err)
	}
	doc, err := jsValidator.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("rule %s: invalid options schema: %w", ruleID, err)
	}
	c := jsValidator.NewCompiler()
	url := ruleID + ".options.json"
	if err := c.AddResource(url, doc); err != nil {
		return fmt.Errorf("rule %s: invalid options schema: %w", ruleID, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return fmt.Errorf("rule %s: invalid options schema: %w", ruleID, err)
	}
	if options == nil {
		options = map[string]any{}
	}
	if err := validateAgainst(sch, options); err != nil {
		return fmt.Errorf("rule %s options: %w", ruleID, err)
	}
	return nil
}

// validateAgainst normalizes v through JSON so YAML and Go values validate alike.
func validateAgainst(sch *jsValidator.Schema, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	inst, err := jsValidator.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	err = sch.Validate(inst)
	if err == nil {
		return nil
	}
	var validationErr *jsValidator.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}
	var msgs []string
	collectRootCauses(validationErr, &msgs)
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func collectRootCauses(err *jsValidator.ValidationError, msgs *[]string) {
	if len(err.Causes) == 0 {
		loc := strings.Join(err.InstanceLocation, ".")
		if loc == "" {
			loc = "<root>"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, err.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, cause := range err.Causes {
		collectRootCauses(cause, msgs)
	}
}
