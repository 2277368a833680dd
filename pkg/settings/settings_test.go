package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSettings_Defaults(t *testing.T) {
	s := &Settings{}

	if got := s.GetDataModel(); got != DefaultDataModel {
		t.Errorf("GetDataModel() default = %q, want %q", got, DefaultDataModel)
	}
	if got := s.GetTemplatesDir(); got != DefaultTemplatesDir {
		t.Errorf("GetTemplatesDir() default = %q, want %q", got, DefaultTemplatesDir)
	}
	if s.OutputDir != "" {
		t.Errorf("OutputDir should be empty, got %q", s.OutputDir)
	}
}

func TestSettings_GetSet(t *testing.T) {
	s := &Settings{}

	tests := []struct {
		key   string
		value string
		field *string
	}{
		{"data_model", "/srv/fabric.yml", &s.DataModel},
		{"templates_dir", "/srv/templates", &s.TemplatesDir},
		{"output_dir", "/srv/out", &s.OutputDir},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := s.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if *tt.field != tt.value {
				t.Errorf("field = %q, want %q", *tt.field, tt.value)
			}
			got, err := s.Get(tt.key)
			if err != nil || got != tt.value {
				t.Errorf("Get() = %q, %v", got, err)
			}
		})
	}

	if s.GetDataModel() != "/srv/fabric.yml" || s.GetTemplatesDir() != "/srv/templates" {
		t.Error("getters ignore stored values")
	}
}

func TestSettings_UnknownKey(t *testing.T) {
	s := &Settings{}
	if err := s.Set("spec_dir", "x"); err == nil {
		t.Error("Set(unknown) succeeded")
	}
	if _, err := s.Get("spec_dir"); err == nil {
		t.Error("Get(unknown) succeeded")
	}
}

func TestKeys(t *testing.T) {
	want := []string{"data_model", "output_dir", "templates_dir"}
	if got := Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestSettings_Clear(t *testing.T) {
	s := &Settings{DataModel: "a", TemplatesDir: "b", OutputDir: "c"}

	s.Clear()

	if s.DataModel != "" || s.TemplatesDir != "" || s.OutputDir != "" {
		t.Error("Clear() should reset all fields to empty")
	}
}

func TestSettings_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	original := &Settings{DataModel: "fabric.yml", TemplatesDir: "tmpl", OutputDir: "out"}
	if err := original.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if *loaded != *original {
		t.Errorf("LoadFrom() = %+v, want %+v", loaded, original)
	}
}

func TestSettings_LoadNonExistent(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadFrom() should not error for missing file: %v", err)
	}
	if *s != (Settings{}) {
		t.Errorf("LoadFrom() = %+v, want empty settings", s)
	}
}

func TestSettings_LoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should error for invalid JSON")
	}
}
