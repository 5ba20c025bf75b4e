package client

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

const schemaBaseURL = "https://gerrit-client.fivetwenty.io/schemas/"

//go:embed schemas/*.json
var schemaFiles embed.FS

// entitySchemas maps an entity name to its embedded schema file.
var entitySchemas = map[string]string{
	"BranchInfo": "branch_info.json",
	"FileInfo":   "file_info.json",
}

var (
	compileOnce     sync.Once
	compiledSchemas map[string]*jsonschema.Schema
	errCompile      error
)

func loadSchemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		for _, file := range entitySchemas {
			raw, err := schemaFiles.ReadFile("schemas/" + file)
			if err != nil {
				errCompile = fmt.Errorf("reading schema %s: %w", file, err)

				return
			}

			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				errCompile = fmt.Errorf("parsing schema %s: %w", file, err)

				return
			}

			err = compiler.AddResource(schemaBaseURL+file, doc)
			if err != nil {
				errCompile = fmt.Errorf("adding schema %s: %w", file, err)

				return
			}
		}

		schemas := make(map[string]*jsonschema.Schema, len(entitySchemas))

		for name, file := range entitySchemas {
			schema, err := compiler.Compile(schemaBaseURL + file)
			if err != nil {
				errCompile = fmt.Errorf("compiling schema %s: %w", file, err)

				return
			}

			schemas[name] = schema
		}

		compiledSchemas = schemas
	})

	return compiledSchemas, errCompile
}

func validateEntity(name string, data json.RawMessage) error {
	schemas, err := loadSchemas()
	if err != nil {
		return err
	}

	schema, ok := schemas[name]
	if !ok {
		return fmt.Errorf("%w: %s", gerrit.ErrUnknownEntity, name)
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing object: %w", err)
	}

	return schema.Validate(instance)
}

// DecodeOne checks data against the schema of T and decodes it. Fields
// unknown to T are ignored; a missing required field is an *gerrit.EntityError.
func DecodeOne[T gerrit.Entity](data json.RawMessage) (*T, error) {
	var entity T

	name := entity.EntityName()

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &gerrit.EntityError{Entity: name, Err: gerrit.ErrEmptyValue}
	}

	err := validateEntity(name, data)
	if err != nil {
		return nil, &gerrit.EntityError{Entity: name, Err: err}
	}

	err = json.Unmarshal(data, &entity)
	if err != nil {
		return nil, &gerrit.EntityError{Entity: name, Err: err}
	}

	return &entity, nil
}

// DecodeList decodes a JSON object of objects into entities keyed by the
// outer keys, in the order the server sent them. Empty data yields an empty
// map.
func DecodeList[T gerrit.Entity](data json.RawMessage) (*gerrit.OrderedMap[*T], error) {
	var zero T

	name := zero.EntityName()
	result := gerrit.NewOrderedMap[*T]()

	if len(bytes.TrimSpace(data)) == 0 {
		return result, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return nil, &gerrit.EntityError{Entity: name, Err: err}
	}

	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, &gerrit.EntityError{Entity: name, Err: gerrit.ErrNotAnObject}
	}

	for decoder.More() {
		token, err = decoder.Token()
		if err != nil {
			return nil, &gerrit.EntityError{Entity: name, Err: err}
		}

		key, _ := token.(string)

		var raw json.RawMessage

		err = decoder.Decode(&raw)
		if err != nil {
			return nil, &gerrit.EntityError{Entity: name, Key: key, Err: err}
		}

		entity, err := DecodeOne[T](raw)
		if err != nil {
			entityErr := &gerrit.EntityError{}
			if errors.As(err, &entityErr) {
				entityErr.Key = key
			}

			return nil, err
		}

		result.Set(key, entity)
	}

	return result, nil
}

// DecodeSlice decodes a JSON array of objects into entities. A failing
// element's index is reported as the EntityError key.
func DecodeSlice[T gerrit.Entity](data json.RawMessage) ([]*T, error) {
	var zero T

	name := zero.EntityName()

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var elements []json.RawMessage

	err := json.Unmarshal(data, &elements)
	if err != nil {
		return nil, &gerrit.EntityError{Entity: name, Err: err}
	}

	result := make([]*T, 0, len(elements))

	for i, raw := range elements {
		entity, err := DecodeOne[T](raw)
		if err != nil {
			entityErr := &gerrit.EntityError{}
			if errors.As(err, &entityErr) {
				entityErr.Key = strconv.Itoa(i)
			}

			return nil, err
		}

		result = append(result, entity)
	}

	return result, nil
}

// isJSONArray reports whether data holds a JSON array.
func isJSONArray(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)

	return len(trimmed) > 0 && trimmed[0] == '['
}
