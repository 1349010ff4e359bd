package notion

import (
	"encoding/json"
	"fmt"
)

// Property is the raw JSON of one page property: a "type" key plus a payload
// keyed by that type.
type Property map[string]json.RawMessage

func (p Property) Type() string {
	var t string
	_ = json.Unmarshal(p["type"], &t)
	return t
}

type named struct {
	Name string `json:"name"`
}

type text struct {
	PlainText string `json:"plain_text"`
}

// Value flattens the property to a plain Go value: bool, float64, string,
// []string or nil. Empty payloads become nil or "" depending on the type.
func (p Property) Value() (any, error) {
	typ := p.Type()
	payload, ok := p[typ]
	if !ok || isNull(payload) {
		return zeroFor(typ), nil
	}

	switch typ {
	case "checkbox":
		var b bool
		if err := decode(typ, payload, &b); err != nil {
			return nil, err
		}
		return b, nil
	case "number":
		var f float64
		if err := decode(typ, payload, &f); err != nil {
			return nil, err
		}
		return f, nil
	case "date":
		var d struct {
			Start string `json:"start"`
		}
		if err := decode(typ, payload, &d); err != nil {
			return nil, err
		}
		if d.Start == "" {
			return nil, nil
		}
		return d.Start, nil
	case "title", "rich_text":
		var parts []text
		if err := decode(typ, payload, &parts); err != nil {
			return nil, err
		}
		if len(parts) == 0 {
			return "", nil
		}
		return parts[0].PlainText, nil
	case "select", "status":
		var n named
		if err := decode(typ, payload, &n); err != nil {
			return nil, err
		}
		return n.Name, nil
	case "multi_select", "people":
		var items []named
		if err := decode(typ, payload, &items); err != nil {
			return nil, err
		}
		names := make([]string, 0, len(items))
		for _, it := range items {
			names = append(names, it.Name)
		}
		return names, nil
	case "email", "phone_number", "url":
		var str string
		if err := decode(typ, payload, &str); err != nil {
			return nil, err
		}
		return str, nil
	case "files":
		var files []named
		if err := decode(typ, payload, &files); err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return "", nil
		}
		return files[0].Name, nil
	case "formula":
		var inner map[string]json.RawMessage
		if err := decode(typ, payload, &inner); err != nil {
			return nil, err
		}
		return Property(inner).formulaValue()
	}
	return nil, nil
}

// formulaValue reads the result of a formula property: string, number,
// boolean or date.
func (p Property) formulaValue() (any, error) {
	typ := p.Type()
	payload := p[typ]
	if isNull(payload) {
		return nil, nil
	}

	switch typ {
	case "string":
		var str string
		if err := decode(typ, payload, &str); err != nil {
			return nil, err
		}
		return str, nil
	case "boolean":
		var b bool
		if err := decode(typ, payload, &b); err != nil {
			return nil, err
		}
		return b, nil
	case "number", "date":
		return p.Value()
	}
	return nil, nil
}

// Text returns the property as a string; non-string values are formatted.
func (p Property) Text() string {
	v, err := p.Value()
	if err != nil || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func decode(typ string, raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("property type %s: %w", typ, err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func zeroFor(typ string) any {
	switch typ {
	case "title", "rich_text", "select", "status", "email", "phone_number", "url", "files":
		return ""
	}
	return nil
}
