package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todo/internal/service"
)

const schemaURL = "todo://task-list.schema.json"

// taskListSchema describes the persisted layout accepted by Import.
const taskListSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text"],
    "properties": {
      "id": {"type": "integer", "minimum": 1},
      "text": {"type": "string", "pattern": "\\S"},
      "dueDate": {"type": ["string", "null"]},
      "category": {"type": ["string", "null"]},
      "completed": {"type": "boolean"}
    }
  }
}`

// ImportError lists every schema violation found in an import.
type ImportError struct {
	Problems []string
}

func (e *ImportError) Error() string {
	return "invalid task list: " + strings.Join(e.Problems, "; ")
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(taskListSchema)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return compiler.Compile(schemaURL)
}

// Import reads a JSON task list from r and validates it.
func Import(r io.Reader) ([]service.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read task list: %w", err)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse task list: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		ie := &ImportError{}
		collect(ie, err)
		return nil, ie
	}

	var tasks []service.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse task list: %w", err)
	}
	return tasks, nil
}

func collect(ie *ImportError, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		ie.Problems = append(ie.Problems, err.Error())
		return
	}
	if len(ve.Causes) == 0 {
		ie.Problems = append(ie.Problems, problem(ve.InstanceLocation, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collect(ie, cause)
	}
}

// problem renders a JSON pointer such as "/2/text" as "entry 3: text: msg".
func problem(ptr, msg string) string {
	parts := strings.Split(strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/"), "/")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		if n, err := strconv.Atoi(p); err == nil && b.Len() == 0 {
			fmt.Fprintf(&b, "entry %d", n+1)
			continue
		}
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(p, "~1", "/"), "~0", "~"))
	}
	if b.Len() == 0 {
		return msg
	}
	return b.String() + ": " + msg
}
