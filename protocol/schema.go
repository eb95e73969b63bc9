package protocol

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidationError reports a request that does not match the request schema
type SchemaValidationError struct {
	Type    string `json:"type"`
	Details string `json:"details"`
	Context string `json:"context,omitempty"`
}

func (e *SchemaValidationError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("Schema validation failed for %s: %s", e.Context, e.Details)
	}
	return fmt.Sprintf("Schema validation failed: %s", e.Details)
}

const requestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["configuration", "composeDetails"],
  "anyOf": [
    {"required": ["sessionId"]},
    {"required": ["tab"]}
  ],
  "properties": {
    "configuration": {
      "type": "object",
      "required": ["version"],
      "properties": {
        "version": {"type": "string"},
        "sequence": {"type": "integer", "minimum": 0},
        "total": {"type": "integer", "minimum": 0},
        "shell": {"type": "string"},
        "template": {"type": "string"},
        "temporaryDirectory": {"type": "string"},
        "sendOnExit": {"type": "boolean"},
        "suppressHelpHeaders": {"type": "boolean"},
        "allowCustomHeaders": {"type": "boolean"},
        "bypassVersionCheck": {"type": "boolean"},
        "metaHeaders": {"type": "boolean"},
        "editor": {"type": "string"},
        "terminal": {"type": "string"}
      }
    },
    "tab": {
      "type": "object",
      "required": ["id"],
      "properties": {"id": {"type": "integer"}}
    },
    "composeDetails": {
      "type": "object",
      "properties": {
        "from": {"oneOf": [{"type": "null"}, {"$ref": "#/definitions/recipient"}]},
        "to": {"$ref": "#/definitions/recipients"},
        "cc": {"$ref": "#/definitions/recipients"},
        "bcc": {"$ref": "#/definitions/recipients"},
        "replyTo": {"$ref": "#/definitions/recipients"},
        "subject": {"type": ["string", "null"]},
        "isPlainText": {"type": "boolean"},
        "body": {"type": ["string", "null"]},
        "plainTextBody": {"type": ["string", "null"]},
        "priority": {"enum": ["lowest", "low", "normal", "high", "highest", null]},
        "deliveryFormat": {"enum": ["auto", "plaintext", "html", "both", null]},
        "attachVCard": {"type": ["boolean", "null"]},
        "deliveryStatusNotification": {"type": ["boolean", "null"]},
        "returnReceipt": {"type": ["boolean", "null"]},
        "customHeaders": {
          "type": ["array", "null"],
          "items": {
            "type": "object",
            "required": ["name", "value"],
            "properties": {
              "name": {"type": "string", "pattern": "^[Xx]-."},
              "value": {"type": "string"}
            }
          }
        },
        "attachments": {"type": ["array", "null"]}
      }
    }
  },
  "definitions": {
    "recipient": {
      "oneOf": [
        {"type": "string"},
        {
          "type": "object",
          "required": ["id", "type"],
          "properties": {
            "id": {"type": "string"},
            "type": {"enum": ["contact", "mailingList"]}
          }
        }
      ]
    },
    "recipients": {
      "oneOf": [
        {"type": "null"},
        {"$ref": "#/definitions/recipient"},
        {"type": "array", "items": {"$ref": "#/definitions/recipient"}}
      ]
    }
  }
}`

// SchemaValidator validates compose requests against the request schema
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

// NewSchemaValidator compiles the request schema
func NewSchemaValidator() (*SchemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(requestSchema))
	if err != nil {
		return nil, &SchemaValidationError{
			Type:    "SchemaCompilationError",
			Details: fmt.Sprintf("Failed to compile request schema: %v", err),
		}
	}
	return &SchemaValidator{schema: schema}, nil
}

// ValidateRequest validates a JSON request document
func (sv *SchemaValidator) ValidateRequest(doc []byte) error {
	result, err := sv.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &SchemaValidationError{
			Type:    "SchemaValidationFailed",
			Details: fmt.Sprintf("Schema validation error: %v", err),
		}
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return &SchemaValidationError{
			Type:    "RequestValidationFailed",
			Details: strings.Join(errors, "; "),
			Context: "compose request",
		}
	}

	return nil
}
