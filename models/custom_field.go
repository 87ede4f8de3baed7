package models

import (
	"encoding/json"
	"fmt"
)

// Custom field types understood by the force-verification flags.
const (
	FieldTypeEmail     = "email"
	FieldTypeTelegram  = "telegram"
	FieldTypeTwitter   = "twitter"
	FieldTypeTelephone = "telephone"
	FieldTypeDiscord   = "discord"
)

// CustomField describes a piece of data collected from the wallet owner during
// a verification. Type is the only required attribute; anything else (label,
// required, placeholder, ...) goes in Attributes and is sent alongside it in
// the same JSON object.
type CustomField struct {
	Type       string
	Attributes map[string]any
}

// NewCustomField returns a CustomField of the given type with optional attributes.
func NewCustomField(fieldType string, attributes map[string]any) CustomField {
	return CustomField{Type: fieldType, Attributes: attributes}
}

func (f CustomField) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(f.Attributes)+1)
	for k, v := range f.Attributes {
		obj[k] = v
	}
	obj["type"] = f.Type
	return json.Marshal(obj)
}

func (f *CustomField) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	rawType, ok := obj["type"]
	if !ok {
		return fmt.Errorf("custom field is missing the type attribute")
	}
	fieldType, ok := rawType.(string)
	if !ok {
		return fmt.Errorf("custom field type must be a string, got %T", rawType)
	}
	delete(obj, "type")

	f.Type = fieldType
	f.Attributes = nil
	if len(obj) > 0 {
		f.Attributes = obj
	}
	return nil
}

// HasFieldType reports whether fields contains an entry of the given type.
func HasFieldType(fields []CustomField, fieldType string) bool {
	for _, f := range fields {
		if f.Type == fieldType {
			return true
		}
	}
	return false
}
