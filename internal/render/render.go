// Package render turns a model-produced guide into a Markdown document.
// The guide contract says every value is a plain string, but real model
// output violates that with nested arrays and objects, so values decode into
// a small variant and the renderer dispatches on shape. It never fails:
// unexpected shapes degrade to their raw JSON text instead of erroring.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind discriminates the decoded shape of a guide value.
type Kind int

const (
	// KindText covers strings and all other scalars (numbers, booleans, null).
	KindText Kind = iota
	KindList
	KindObject
)

// Member is one entry of an object value, in document order.
type Member struct {
	Key   string
	Value Value
}

// Value is a decoded JSON value: text, a list of values, or an ordered
// object. The raw bytes are kept for degraded rendering.
type Value struct {
	Kind    Kind
	Text    string
	List    []Value
	Members []Member

	raw json.RawMessage
}

// Raw returns the compact JSON the value decoded from. For values built in
// code rather than decoded, it falls back to the text field.
func (v Value) Raw() string {
	if len(v.raw) == 0 {
		return v.Text
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v.raw); err != nil {
		return strings.TrimSpace(string(v.raw))
	}
	return buf.String()
}

func (v *Value) UnmarshalJSON(b []byte) error {
	v.raw = append(v.raw[:0], b...)
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" {
		v.Kind = KindText
		v.Text = ""
		return nil
	}
	switch trimmed[0] {
	case '[':
		v.Kind = KindList
		return json.Unmarshal(b, &v.List)
	case '{':
		v.Kind = KindObject
		return v.unmarshalObject(b)
	case '"':
		v.Kind = KindText
		return json.Unmarshal(b, &v.Text)
	default:
		// Numbers, booleans, null: keep the token text verbatim.
		v.Kind = KindText
		if trimmed == "null" {
			v.Text = ""
		} else {
			v.Text = trimmed
		}
		return nil
	}
}

// unmarshalObject decodes with a token stream so member order survives;
// map decoding would shuffle it.
func (v *Value) unmarshalObject(b []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(b)))
	if _, err := dec.Token(); err != nil { // consume '{'
		return err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var member Value
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &member); err != nil {
			return err
		}
		v.Members = append(v.Members, Member{Key: key, Value: member})
	}
	_, err := dec.Token() // consume '}'
	return err
}

// member returns the value for a key, if present.
func (v Value) member(key string) (Value, bool) {
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// sections defines the fixed output order and headers. A key absent from
// the guide is silently omitted.
var sections = []struct {
	Key    string
	Header string
}{
	{"overview", "Overview"},
	{"attractions", "Must-See Attractions"},
	{"transportation", "Getting Around"},
	{"food_and_dining", "Food & Dining"},
	{"tips", "Practical Tips"},
}

var titleCaser = cases.Title(language.English)

// Document renders the guide sections as one Markdown document. It accepts
// any well-formed JSON value in any key and always produces output.
func Document(guide map[string]Value, destination string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s Travel Guide\n", titleCaser.String(strings.TrimSpace(destination)))
	for _, sec := range sections {
		v, ok := guide[sec.Key]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", sec.Header)
		writeValue(&sb, v)
	}
	return sb.String()
}

func writeValue(sb *strings.Builder, v Value) {
	switch v.Kind {
	case KindList:
		for _, item := range v.List {
			writeListItem(sb, item)
		}
	case KindObject:
		for _, m := range v.Members {
			fmt.Fprintf(sb, "### %s\n\n", m.Key)
			writeBody(sb, m.Value)
		}
	default:
		writeBody(sb, v)
	}
}

// writeListItem renders one list element. Objects shaped like
// {name, description} become a labeled block; anything else becomes a
// bullet, falling back to raw JSON when the shape is unrecognized.
func writeListItem(sb *strings.Builder, item Value) {
	if item.Kind == KindObject {
		if name, ok := firstText(item, "name", "title"); ok {
			fmt.Fprintf(sb, "### %s\n\n", name)
			if desc, ok := firstText(item, "description", "details", "text"); ok && desc != "" {
				sb.WriteString(desc)
				sb.WriteString("\n\n")
			}
			return
		}
		// No name-like field: emit the raw object rather than dropping it.
		fmt.Fprintf(sb, "- %s\n", item.Raw())
		return
	}
	if item.Kind == KindList {
		fmt.Fprintf(sb, "- %s\n", item.Raw())
		return
	}
	fmt.Fprintf(sb, "- %s\n", item.Text)
}

// writeBody renders a value as paragraph text, degrading nested shapes to
// their raw JSON representation.
func writeBody(sb *strings.Builder, v Value) {
	if v.Kind == KindText {
		sb.WriteString(v.Text)
		sb.WriteString("\n")
		return
	}
	sb.WriteString(v.Raw())
	sb.WriteString("\n")
}

func firstText(v Value, keys ...string) (string, bool) {
	for _, k := range keys {
		if m, ok := v.member(k); ok && m.Kind == KindText && strings.TrimSpace(m.Text) != "" {
			return m.Text, true
		}
	}
	return "", false
}
