// Package generator produces per-device configuration text from a loaded
// data model and a template directory.
package generator

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/newtron-network/evpngen/pkg/datamodel"
	"github.com/newtron-network/evpngen/pkg/render"
	"github.com/newtron-network/evpngen/pkg/tmplvars"
	"github.com/newtron-network/evpngen/pkg/util"
)

// Config is one rendered template for one device. When rendering failed, Err
// is set and Text carries an inline error line in place of configuration.
type Config struct {
	Template string
	Text     string
	Err      error
}

// Generator renders templates for the devices of one data model.
type Generator struct {
	doc      *datamodel.Document
	renderer *render.Renderer
}

// New creates a generator for doc reading templates from templatesDir.
func New(doc *datamodel.Document, templatesDir string) *Generator {
	return &Generator{
		doc:      doc,
		renderer: render.NewRenderer(templatesDir),
	}
}

// Devices returns every hostname in the data model, sorted.
func (g *Generator) Devices() []string {
	return datamodel.DeviceList(g.doc)
}

// Role returns the primary role of hostname.
func (g *Generator) Role(hostname string) datamodel.Role {
	return datamodel.ResolveRole(g.doc, hostname)
}

// CheckDevice returns a *util.UnknownDeviceError if hostname is not listed
// under any role.
func (g *Generator) CheckDevice(hostname string) error {
	if !datamodel.HasDevice(g.doc, hostname) {
		return util.NewUnknownDeviceError(hostname)
	}
	return nil
}

// Templates returns the templates generated for hostname, by role.
func (g *Generator) Templates(hostname string) []string {
	return render.TemplatesFor(g.Role(hostname))
}

// GenerateConfig renders one template for hostname.
func (g *Generator) GenerateConfig(hostname, template string) (string, error) {
	res, err := g.Render(hostname, template)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Render is GenerateConfig with the render outcome, including whether the
// composed render fell back.
func (g *Generator) Render(hostname, template string) (*render.Result, error) {
	if !render.Known(template) {
		return nil, util.NewTemplateNotFoundError(template, render.Available()...)
	}
	vars, err := tmplvars.Convert(g.doc, hostname)
	if err != nil {
		return nil, fmt.Errorf("building template variables for %s: %w", hostname, err)
	}
	return g.renderer.Render(template, vars)
}

// GenerateAll renders every template that applies to hostname. A template
// that fails does not stop the others: its Config carries the error and an
// inline "Error generating" line.
func (g *Generator) GenerateAll(hostname string) []Config {
	templates := g.Templates(hostname)
	log := util.WithDevice(hostname)
	log.Debugf("generating %d templates (role %s)", len(templates), g.Role(hostname))

	configs := make([]Config, 0, len(templates))
	for _, name := range templates {
		text, err := g.GenerateConfig(hostname, name)
		if err != nil {
			log.WithField("template", name).WithError(err).Warn("template failed")
			text = fmt.Sprintf("Error generating %s: %v", name, err)
		}
		configs = append(configs, Config{Template: name, Text: text, Err: err})
	}
	return configs
}

// Failed returns the configs that carry an error.
func Failed(configs []Config) []Config {
	return lo.Filter(configs, func(c Config, _ int) bool {
		return c.Err != nil
	})
}
