package manifest

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/capsresources/resource-organizer/internal/common"
)

// recordSchema only checks that the fields catalog import reads are present.
const recordSchema = `{
  "type": "object",
  "required": ["new_filename", "grade", "subject", "type", "year"]
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.json", strings.NewReader(recordSchema)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("record.json")
	})
	return compiled, compileErr
}

// ValidateRecord checks one raw manifest element for required fields.
func ValidateRecord(raw json.RawMessage) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return common.NewAppError("INVALID_RECORD", "unmarshal record", err)
	}
	if err := s.Validate(v); err != nil {
		return common.NewAppError("INVALID_RECORD", "record does not match schema", fmt.Errorf("%w: %v", common.ErrValidation, err))
	}
	return nil
}
