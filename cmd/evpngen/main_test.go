package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newtron-network/evpngen/internal/testutil"
	"github.com/newtron-network/evpngen/pkg/render"
	"github.com/newtron-network/evpngen/pkg/util"
)

// execute runs the command with an isolated home directory so persistent
// settings never leak between tests.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func setup(t *testing.T) (model, templates string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return testutil.WriteDataModel(t), testutil.TemplatesDir()
}

func TestListTemplates(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, _, err := execute(t, "--list-templates")
	testutil.AssertNoError(t, err, "list templates")

	for _, name := range render.Available() {
		if !strings.Contains(out, name) {
			t.Errorf("template %s not listed", name)
		}
	}
	if !strings.Contains(out, "definition") || !strings.Contains(out, "fabric") {
		t.Errorf("template kinds missing:\n%s", out)
	}
}

func TestListDevices(t *testing.T) {
	model, templates := setup(t)

	out, _, err := execute(t, "-d", model, "-t", templates, "--list-devices")
	testutil.AssertNoError(t, err, "list devices")

	for _, want := range []string{"border01  border", "leaf01    leaf", "spine01   spine"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSingleTemplate(t *testing.T) {
	model, templates := setup(t)

	t.Run("stdout", func(t *testing.T) {
		out, _, err := execute(t, "-d", model, "-t", templates, "--device", "leaf01", "--template", "FABRIC-VRF")
		testutil.AssertNoError(t, err, "generate")
		if !strings.Contains(out, "vrf context VRF_A") {
			t.Errorf("unexpected config:\n%s", out)
		}
		if strings.Contains(out, "! Configuration generated from") {
			t.Error("stdout output should not carry the file header")
		}
	})

	t.Run("file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "configs")
		out, _, err := execute(t, "-d", model, "-t", templates, "--device", "leaf01", "--template", "FABRIC-VRF", "-o", dir)
		testutil.AssertNoError(t, err, "generate")

		path := filepath.Join(dir, "leaf01_FABRIC-VRF.cfg")
		if want := "Configuration saved to: " + path + "\n"; out != want {
			t.Errorf("output = %q, want %q", out, want)
		}
		data, err := os.ReadFile(path)
		testutil.AssertNoError(t, err, "read config")
		if !strings.HasPrefix(string(data), "! Configuration generated from FABRIC-VRF template\n! Device: leaf01\n") {
			t.Errorf("missing header:\n%s", data)
		}
	})

	t.Run("unknown template", func(t *testing.T) {
		_, _, err := execute(t, "-d", model, "-t", templates, "--device", "leaf01", "--template", "FABRIC-BOGUS")
		if !errors.Is(err, util.ErrTemplateNotFound) {
			t.Errorf("error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("render failure is fatal", func(t *testing.T) {
		broken := testutil.CopyTemplates(t, map[string]string{
			"DEFN-VRF.tmpl": "{{ .NO_SUCH_VARIABLE }}",
		})
		_, _, err := execute(t, "-d", model, "-t", broken, "--device", "leaf01", "--template", "DEFN-VRF")
		if !errors.Is(err, util.ErrRender) {
			t.Errorf("error = %v, want ErrRender", err)
		}
	})
}

func TestAllTemplates(t *testing.T) {
	model, templates := setup(t)

	t.Run("files", func(t *testing.T) {
		dir := t.TempDir()
		out, _, err := execute(t, "-d", model, "-t", templates, "--device", "leaf01", "--all-templates", "-o", dir)
		testutil.AssertNoError(t, err, "generate")

		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 16 {
			t.Errorf("saved %d files, want 16:\n%s", len(lines), out)
		}
		for _, l := range lines {
			if !strings.HasPrefix(l, "Saved: ") {
				t.Errorf("unexpected line %q", l)
			}
		}
		if _, err := os.Stat(filepath.Join(dir, "leaf01_FABRIC-NAC-IOT.cfg")); err != nil {
			t.Errorf("FABRIC-NAC-IOT not written: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "leaf01_FABRIC-IPSEC.cfg")); err == nil {
			t.Error("FABRIC-IPSEC written for a leaf")
		}
	})

	t.Run("stdout", func(t *testing.T) {
		out, _, err := execute(t, "-d", model, "-t", templates, "--device", "spine01", "--all-templates")
		testutil.AssertNoError(t, err, "generate")
		if got := strings.Count(out, "Template: "); got != 14 {
			t.Errorf("printed %d banners, want 14", got)
		}
		if strings.Contains(out, "Template: FABRIC-OVERLAY") {
			t.Error("spine output includes FABRIC-OVERLAY")
		}
	})

	t.Run("inline failures", func(t *testing.T) {
		broken := testutil.CopyTemplates(t, map[string]string{"FABRIC-NVE.tmpl": ""})
		out, errOut, err := execute(t, "-d", model, "-t", broken, "--device", "leaf01", "--all-templates")
		testutil.AssertNoError(t, err, "bulk generation with a missing template")
		if !strings.Contains(out, "Error generating FABRIC-NVE:") {
			t.Errorf("inline error missing:\n%s", out)
		}
		if !strings.Contains(errOut, "1 of 16 templates failed for leaf01") {
			t.Errorf("failure summary missing:\n%s", errOut)
		}
	})
}

func TestArgumentErrors(t *testing.T) {
	model, templates := setup(t)

	tests := []struct {
		name    string
		args    []string
		want    error
		message string
	}{
		{"no device", []string{"--all-templates"}, nil, "--device is required"},
		{"unknown device", []string{"--device", "leaf99", "--all-templates"}, util.ErrUnknownDevice, "--list-devices"},
		{"no mode", []string{"--device", "leaf01"}, nil, "must specify either --template or --all-templates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-d", model, "-t", templates}, tt.args...)
			_, _, err := execute(t, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not mention %q", err, tt.message)
			}
		})
	}
}

func TestMissingDataModel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, _, err := execute(t, "-d", filepath.Join(t.TempDir(), "absent.yml"), "--list-devices")
	if !errors.Is(err, util.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSettingsDefaults(t *testing.T) {
	model, templates := setup(t)
	dir := t.TempDir()

	for _, kv := range [][2]string{{"data_model", model}, {"templates_dir", templates}, {"output_dir", dir}} {
		_, _, err := execute(t, "settings", "set", kv[0], kv[1])
		testutil.AssertNoError(t, err, "settings set "+kv[0])
	}

	out, _, err := execute(t, "settings", "get", "output_dir")
	testutil.AssertNoError(t, err, "settings get")
	if strings.TrimSpace(out) != dir {
		t.Errorf("settings get = %q, want %q", out, dir)
	}

	out, _, err = execute(t, "--device", "border01", "--template", "FABRIC-IPSEC")
	testutil.AssertNoError(t, err, "generate from settings")
	if want := "Configuration saved to: " + filepath.Join(dir, "border01_FABRIC-IPSEC.cfg"); !strings.Contains(out, want) {
		t.Errorf("output = %q, want %q", out, want)
	}

	out, _, err = execute(t, "--device", "border01", "--template", "FABRIC-IPSEC", "-o", "-")
	testutil.AssertNoError(t, err, "generate to stdout over output_dir")
	if strings.Contains(out, "Configuration saved to:") || !strings.Contains(out, "interface tunnel0\n") {
		t.Errorf("-o - output = %q", out)
	}

	out, _, err = execute(t, "--device", "spine01", "--all-templates", "--output-dir", "-")
	testutil.AssertNoError(t, err, "all templates to stdout over output_dir")
	if strings.Contains(out, "Saved:") {
		t.Errorf("--output-dir - wrote files:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "spine01_FABRIC-EVPN.cfg")); err == nil {
		t.Error("--output-dir - still wrote into the output_dir setting")
	}

	out, _, err = execute(t, "settings", "show")
	testutil.AssertNoError(t, err, "settings show")
	if !strings.Contains(out, "templates_dir") || !strings.Contains(out, templates) {
		t.Errorf("settings show:\n%s", out)
	}

	_, _, err = execute(t, "settings", "clear")
	testutil.AssertNoError(t, err, "settings clear")
	out, _, _ = execute(t, "settings", "get", "data_model")
	if strings.TrimSpace(out) != "(not set)" {
		t.Errorf("after clear data_model = %q", out)
	}

	if _, _, err := execute(t, "settings", "set", "bogus", "x"); err == nil {
		t.Error("unknown setting accepted")
	}
}
