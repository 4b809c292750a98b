package views

import (
	"bytes"
	"strings"
	"testing"
)

type row struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
	Age       string
	Gender    string
}

func TestEngine_LoadsAllTemplates(t *testing.T) {
	engine := Engine()
	if err := engine.Load(); err != nil {
		t.Fatalf("load templates: %v", err)
	}

	for _, name := range []string{"templates/home", "templates/create_user", "templates/all_users", "templates/search_user"} {
		var buf bytes.Buffer
		if err := engine.Render(&buf, name, map[string]any{}, "layouts/main"); err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		if !strings.Contains(buf.String(), "<nav>") {
			t.Fatalf("%s was not wrapped in the layout", name)
		}
	}
}

func TestSearchTemplate_EmptyVersusNotSearched(t *testing.T) {
	engine := Engine()
	if err := engine.Load(); err != nil {
		t.Fatalf("load templates: %v", err)
	}

	var initial bytes.Buffer
	if err := engine.Render(&initial, "templates/search_user", map[string]any{"Searched": false, "Query": ""}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(initial.String(), "No users found") {
		t.Fatalf("initial form should not report empty results")
	}

	var empty bytes.Buffer
	if err := engine.Render(&empty, "templates/search_user", map[string]any{"Searched": true, "Query": "zzz", "Users": []row{}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(empty.String(), "No users found") {
		t.Fatalf("expected empty result message, got %s", empty.String())
	}

	var found bytes.Buffer
	users := []row{{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", Age: "30", Gender: "F"}}
	if err := engine.Render(&found, "templates/search_user", map[string]any{"Searched": true, "Query": "lov", "Users": users}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(found.String(), "Lovelace") || !strings.Contains(found.String(), `value="lov"`) {
		t.Fatalf("expected result row and echoed query, got %s", found.String())
	}
}
