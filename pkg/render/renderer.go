package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/newtron-network/evpngen/pkg/tmplvars"
	"github.com/newtron-network/evpngen/pkg/util"
)

// Mode records how a template was rendered.
type Mode string

const (
	// ModeDefinition is a definition template rendered on its own.
	ModeDefinition Mode = "definition"
	// ModeComposed is a fabric template rendered after the definitions and
	// macro fragment, plus its macro output where one applies.
	ModeComposed Mode = "composed"
	// ModeIsolated is a fabric template rendered on its own after the
	// composed render failed.
	ModeIsolated Mode = "isolated"
)

// Result is the outcome of one render.
type Result struct {
	Template string
	Text     string
	Mode     Mode
	// ComposeErr is why the composed render failed when Mode is
	// ModeIsolated.
	ComposeErr error
}

// Renderer renders catalog templates from one directory.
type Renderer struct {
	dir   string
	funcs template.FuncMap
}

// NewRenderer creates a renderer reading templates from dir.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir, funcs: FuncMap()}
}

// Dir returns the templates directory.
func (r *Renderer) Dir() string {
	return r.dir
}

// Render renders the named template against vars.
//
// Definition templates are rendered on their own. Fabric templates are first
// rendered composed: the nine definitions and the macro fragment, in catalog
// order, followed by the fabric body, then the template's macro if it has
// one. If any step of that fails the fabric body is rendered on its own and
// the first failure is kept in Result.ComposeErr. A failure of the final
// attempt is returned as a *util.RenderError.
func (r *Renderer) Render(name string, vars tmplvars.Vars) (*Result, error) {
	if !Known(name) {
		return nil, util.NewTemplateNotFoundError(name, Available()...)
	}
	body, err := r.source(name)
	if err != nil {
		return nil, err
	}
	log := util.WithTemplate(name).WithField("device", vars.Hostname())

	if IsDefinition(name) {
		text, err := r.execute(name, body, vars)
		if err != nil {
			return nil, util.NewRenderError(name, err)
		}
		log.Debug("rendered definition template")
		return &Result{Template: name, Text: text, Mode: ModeDefinition}, nil
	}

	text, composeErr := r.compose(name, body, vars)
	if composeErr == nil {
		log.Debug("rendered composed fabric template")
		return &Result{Template: name, Text: text, Mode: ModeComposed}, nil
	}

	log.WithError(composeErr).Warn("composed render failed, rendering template on its own")
	text, err = r.execute(name, body, vars)
	if err != nil {
		return nil, &util.RenderError{Template: name, Err: err, Prior: composeErr}
	}
	return &Result{Template: name, Text: text, Mode: ModeIsolated, ComposeErr: composeErr}, nil
}

// compose renders the definitions, macro fragment and body as one document
// and appends the template's macro output.
func (r *Renderer) compose(name, body string, vars tmplvars.Vars) (string, error) {
	var src strings.Builder
	for _, part := range append(append([]string{}, Definitions...), MacroFragment) {
		text, err := r.source(part)
		if err != nil {
			return "", err
		}
		src.WriteString(text)
		src.WriteString("\n")
	}
	src.WriteString(body)

	tmpl, err := r.parse(name, src.String())
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, vars); err != nil {
		return "", err
	}

	macro, ok := macroFor[name]
	if !ok {
		return out.String(), nil
	}
	if tmpl.Lookup(macro) == nil {
		return "", fmt.Errorf("macro %s is not defined in %s", macro, FileName(MacroFragment))
	}
	if err := tmpl.ExecuteTemplate(&out, macro, macroArgs(macro, vars)); err != nil {
		return "", err
	}
	return out.String(), nil
}

// macroArgs builds the argument map a macro is invoked with. The hostname is
// passed as a plain string.
func macroArgs(macro string, vars tmplvars.Vars) map[string]any {
	args := map[string]any{
		tmplvars.DefnVRF:       vars[tmplvars.DefnVRF],
		tmplvars.DefnVRFToNode: vars[tmplvars.DefnVRFToNode],
		"hostname":             vars.Hostname(),
		tmplvars.FabricBGPASN:  vars[tmplvars.FabricBGPASN],
	}
	switch macro {
	case MacroVRFDefinitionBuild:
		args[tmplvars.DefnLoopUnderlay] = vars[tmplvars.DefnLoopUnderlay]
	case MacroOverlayBuild:
		args[tmplvars.DefnOverlay] = vars[tmplvars.DefnOverlay]
		args[tmplvars.DefnNodeRoles] = vars[tmplvars.DefnNodeRoles]
		args[tmplvars.L2VNIOffset] = vars[tmplvars.L2VNIOffset]
	}
	return args
}

func (r *Renderer) execute(name, src string, vars tmplvars.Vars) (string, error) {
	tmpl, err := r.parse(name, src)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, vars); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (r *Renderer) parse(name, src string) (*template.Template, error) {
	return template.New(name).
		Option("missingkey=error").
		Funcs(r.funcs).
		Parse(src)
}

// source reads a template file. A missing file is a TemplateNotFoundError.
func (r *Renderer) source(name string) (string, error) {
	path := filepath.Join(r.dir, FileName(name))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", util.NewTemplateNotFoundError(name, Available()...)
		}
		return "", fmt.Errorf("reading template %s: %w", path, err)
	}
	return string(data), nil
}
