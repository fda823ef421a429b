package render

import (
	"encoding/json"
	"strings"
	"testing"
)

func decode(t *testing.T, raw string) map[string]Value {
	t.Helper()
	out := map[string]Value{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestDocument_OrderedSections(t *testing.T) {
	g := decode(t, `{
		"overview": "X is great.",
		"attractions": "1. Tower",
		"transportation": "Metro",
		"food_and_dining": "Cafes",
		"tips": "Be safe"
	}`)
	doc := Document(g, "X")

	headers := []string{"## Overview", "## Must-See Attractions", "## Getting Around", "## Food & Dining", "## Practical Tips"}
	pos := -1
	for _, h := range headers {
		i := strings.Index(doc, h)
		if i < 0 {
			t.Fatalf("missing header %q in:\n%s", h, doc)
		}
		if i < pos {
			t.Fatalf("header %q out of order in:\n%s", h, doc)
		}
		pos = i
	}
	for _, body := range []string{"X is great.", "1. Tower", "Metro", "Cafes", "Be safe"} {
		if !strings.Contains(doc, body) {
			t.Fatalf("missing body %q in:\n%s", body, doc)
		}
	}
	if !strings.HasPrefix(doc, "# X Travel Guide") {
		t.Fatalf("missing title line:\n%s", doc)
	}
}

func TestDocument_TitleCasesDestination(t *testing.T) {
	doc := Document(map[string]Value{}, "new york city")
	if !strings.HasPrefix(doc, "# New York City Travel Guide") {
		t.Fatalf("title not cased:\n%s", doc)
	}
}

func TestDocument_OmitsAbsentKeys(t *testing.T) {
	g := decode(t, `{"overview": "Only this."}`)
	doc := Document(g, "X")
	if !strings.Contains(doc, "## Overview") {
		t.Fatalf("overview missing:\n%s", doc)
	}
	for _, h := range []string{"Must-See Attractions", "Getting Around", "Food & Dining", "Practical Tips"} {
		if strings.Contains(doc, h) {
			t.Fatalf("unexpected header %q:\n%s", h, doc)
		}
	}
}

func TestDocument_ListOfNamedObjects(t *testing.T) {
	g := decode(t, `{"attractions": [{"name": "Tower", "description": "Tall"}]}`)
	doc := Document(g, "X")
	i := strings.Index(doc, "### Tower")
	j := strings.Index(doc, "Tall")
	if i < 0 || j < 0 || j < i {
		t.Fatalf("expected '### Tower' then 'Tall':\n%s", doc)
	}
}

func TestDocument_ListObjectWithoutNameFallsBackToRaw(t *testing.T) {
	g := decode(t, `{"transportation": [{"mode": "Bus", "details": "Cheap"}]}`)
	doc := Document(g, "X")
	if !strings.Contains(doc, `- {"mode":"Bus","details":"Cheap"}`) {
		t.Fatalf("expected raw object bullet:\n%s", doc)
	}
}

func TestDocument_ListOfStrings(t *testing.T) {
	g := decode(t, `{"tips": ["Carry cash", "Learn hello"]}`)
	doc := Document(g, "X")
	if !strings.Contains(doc, "- Carry cash\n- Learn hello\n") {
		t.Fatalf("expected bullets:\n%s", doc)
	}
}

func TestDocument_ObjectValueRendersSubBlocks(t *testing.T) {
	g := decode(t, `{"food_and_dining": {"Breakfast": "Bakeries", "Dinner": "Bistros"}}`)
	doc := Document(g, "X")
	i := strings.Index(doc, "### Breakfast")
	j := strings.Index(doc, "Bakeries")
	k := strings.Index(doc, "### Dinner")
	l := strings.Index(doc, "Bistros")
	if i < 0 || j < i || k < j || l < k {
		t.Fatalf("sub-blocks wrong or out of order:\n%s", doc)
	}
}

func TestDocument_NestedObjectBodyDegradesToRaw(t *testing.T) {
	g := decode(t, `{"overview": {"summary": {"deep": true}}}`)
	doc := Document(g, "X")
	if !strings.Contains(doc, "### summary") {
		t.Fatalf("expected key heading:\n%s", doc)
	}
	if !strings.Contains(doc, `{"deep":true}`) {
		t.Fatalf("expected raw nested body:\n%s", doc)
	}
}

// Any well-formed JSON value in any key must render without panicking and
// with the section header present.
func TestDocument_NeverFails(t *testing.T) {
	cases := []string{
		`"plain"`,
		`42`,
		`3.14`,
		`true`,
		`null`,
		`[]`,
		`{}`,
		`[[1,2],["a"]]`,
		`[{"name":"N","description":"D"},{"x":1},"s",7]`,
		`{"a":{"b":{"c":[1,2,3]}}}`,
	}
	for _, raw := range cases {
		g := decode(t, `{"overview": `+raw+`}`)
		doc := Document(g, "Anywhere")
		if !strings.Contains(doc, "## Overview") {
			t.Fatalf("value %s lost its section:\n%s", raw, doc)
		}
	}
}

func TestValue_ScalarTokens(t *testing.T) {
	g := decode(t, `{"overview": 42, "tips": true}`)
	doc := Document(g, "X")
	if !strings.Contains(doc, "42") {
		t.Fatalf("number not rendered:\n%s", doc)
	}
	if !strings.Contains(doc, "true") {
		t.Fatalf("bool not rendered:\n%s", doc)
	}
}

func TestValue_ObjectPreservesMemberOrder(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"z":"1","a":"2","m":"3"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Kind != KindObject || len(v.Members) != 3 {
		t.Fatalf("unexpected decode: %+v", v)
	}
	order := []string{"z", "a", "m"}
	for i, m := range v.Members {
		if m.Key != order[i] {
			t.Fatalf("member %d = %q, want %q", i, m.Key, order[i])
		}
	}
}
