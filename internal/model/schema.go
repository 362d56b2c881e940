package model

import jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

const documentSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["entries"],
  "properties": {
    "entries": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "body"],
        "properties": {
          "id": {"type": "integer", "minimum": 0},
          "title": {"type": "string"},
          "body": {"type": "string"}
        }
      }
    },
    "next_id": {"type": "integer", "minimum": 0}
  }
}`

var documentSchema = jsonschema.MustCompileString("todo.schema.json", documentSchemaJSON)
