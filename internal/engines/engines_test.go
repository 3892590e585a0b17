package engines

import "testing"

func TestRegistryIntegrity(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("no engines registered")
	}

	seen := make(map[string]bool)
	for _, e := range all {
		if e.ID == "" || e.Name == "" {
			t.Errorf("engine %+v has empty id or name", e)
		}
		if seen[e.ID] {
			t.Errorf("duplicate engine id %q", e.ID)
		}
		seen[e.ID] = true
		if len(e.Objectives) == 0 {
			t.Errorf("engine %q has no objectives", e.ID)
		}
	}
}

func TestByID(t *testing.T) {
	e, ok := ByID("meta-facebook")
	if !ok {
		t.Fatal("meta-facebook not found")
	}
	if e.Name != "Meta (Facebook)" {
		t.Errorf("Name = %q", e.Name)
	}

	if _, ok := ByID("friendster"); ok {
		t.Error("ByID returned an engine for an unknown id")
	}
}

func TestDefaultObjective(t *testing.T) {
	tests := []struct {
		engine string
		want   string
	}{
		{"meta-facebook", "CONVERSIONS"},
		{"google-ads", "SALES"},
		{"linkedin", "LEAD_GENERATION"},
	}

	for _, tt := range tests {
		got, err := DefaultObjective(tt.engine)
		if err != nil {
			t.Errorf("DefaultObjective(%q): %v", tt.engine, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DefaultObjective(%q) = %q, want %q", tt.engine, got, tt.want)
		}
	}

	if _, err := DefaultObjective("friendster"); err == nil {
		t.Error("DefaultObjective accepted an unknown engine")
	}
}

func TestObjectivesReturnsCopy(t *testing.T) {
	first, err := Objectives("tiktok")
	if err != nil {
		t.Fatal(err)
	}
	first[0] = "MUTATED"

	second, err := Objectives("tiktok")
	if err != nil {
		t.Fatal(err)
	}
	if second[0] == "MUTATED" {
		t.Error("Objectives exposes the registry's backing slice")
	}
}

func TestBuiltinSchema(t *testing.T) {
	schema, err := BuiltinSchema("reddit")
	if err != nil {
		t.Fatal(err)
	}
	if schema.Kind != SchemaBuiltin {
		t.Errorf("Kind = %q, want %q", schema.Kind, SchemaBuiltin)
	}
	if schema.Engine != "reddit" {
		t.Errorf("Engine = %q", schema.Engine)
	}

	var objectiveField *Field
	for i := range schema.Fields {
		if schema.Fields[i].Name == "objective" {
			objectiveField = &schema.Fields[i]
		}
	}
	if objectiveField == nil {
		t.Fatal("schema has no objective field")
	}
	if len(objectiveField.Options) == 0 {
		t.Error("objective field has no options")
	}

	if _, err := BuiltinSchema("friendster"); err == nil {
		t.Error("BuiltinSchema accepted an unknown engine")
	}
}
