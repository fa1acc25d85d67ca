package template

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeData(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestParseDataRef(t *testing.T) {
	tests := []struct {
		path    string
		format  Format
		wantErr bool
	}{
		{"vars.json", FormatJSON, false},
		{"vars.toml", FormatTOML, false},
		{"VARS.JSON", FormatJSON, false},
		{"data.TOML", FormatTOML, false},
		{"vars.yaml", "", true},
		{"plain", "", true},
	}

	for _, tt := range tests {
		ref, err := ParseDataRef(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDataRef(%q) should fail", tt.path)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDataRef(%q) failed: %v", tt.path, err)
			continue
		}
		if ref.Format != tt.format {
			t.Errorf("ParseDataRef(%q) format = %s, want %s", tt.path, ref.Format, tt.format)
		}
	}
}

func TestDataRef_LoadJSON(t *testing.T) {
	path := writeData(t, "vars.json", `{"name": "World", "count": 2}`)

	ref := DataRef{Format: FormatJSON, Path: path}
	got, err := ref.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got["name"] != "World" {
		t.Errorf("name = %v", got["name"])
	}
}

func TestDataRef_LoadTOML(t *testing.T) {
	path := writeData(t, "vars.toml", "role = \"admin\"\n")

	ref := DataRef{Format: FormatTOML, Path: path}
	got, err := ref.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got["role"] != "admin" {
		t.Errorf("role = %v", got["role"])
	}
}

func TestDataRef_NonMappingRootWraps(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"array root", `[1, 2, 3]`},
		{"string root", `"lonely"`},
		{"number root", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeData(t, "root.json", tt.content)
			ref := DataRef{Format: FormatJSON, Path: path}

			got, err := ref.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if _, ok := got["value"]; !ok {
				t.Errorf("non-mapping root should wrap under \"value\", got %v", got)
			}
			if len(got) != 1 {
				t.Errorf("wrapped context should have exactly one key, got %v", got)
			}
		})
	}
}

func TestDataRef_ParseFailure(t *testing.T) {
	path := writeData(t, "broken.json", `{"name": `)

	ref := DataRef{Format: FormatJSON, Path: path}
	if _, err := ref.Load(); err == nil {
		t.Fatal("malformed JSON should fail")
	}
}

func TestDataRef_MissingFile(t *testing.T) {
	ref := DataRef{Format: FormatJSON, Path: filepath.Join(t.TempDir(), "missing.json")}
	if _, err := ref.Load(); err == nil {
		t.Fatal("missing data file should fail")
	}
}

func TestBuildContext_InjectsArgs(t *testing.T) {
	path := writeData(t, "vars.json", `{"name": "World"}`)
	ref := DataRef{Format: FormatJSON, Path: path}

	context, err := BuildContext(ref, []string{"first", "second"})
	if err != nil {
		t.Fatalf("BuildContext failed: %v", err)
	}
	if !reflect.DeepEqual(context["_args"], []string{"first", "second"}) {
		t.Errorf("_args = %v", context["_args"])
	}

	// Without args the reserved key stays absent.
	context, err = BuildContext(ref, nil)
	if err != nil {
		t.Fatalf("BuildContext failed: %v", err)
	}
	if _, ok := context["_args"]; ok {
		t.Error("_args should not be injected when no arguments were supplied")
	}
}
