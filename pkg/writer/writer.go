// Package writer persists rendered configuration to files or prints it.
package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/newtron-network/evpngen/pkg/generator"
	"github.com/newtron-network/evpngen/pkg/util"
	"github.com/newtron-network/evpngen/pkg/version"
)

const bannerWidth = 60

// Header returns the comment block written ahead of every saved config.
func Header(template, hostname string) string {
	return fmt.Sprintf("! Configuration generated from %s template\n! Device: %s\n! Generated by %s\n!\n",
		template, hostname, version.GeneratorIdentity())
}

// FileName returns the output file name for one device and template.
func FileName(hostname, template string) string {
	return fmt.Sprintf("%s_%s.cfg", hostname, template)
}

// WriteConfig writes header and text to dir, creating dir if needed and
// replacing any previous file for the same device and template. It returns
// the path written.
func WriteConfig(dir, hostname, template, text string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(hostname, template))
	if err := os.WriteFile(path, []byte(Header(template, hostname)+text), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	util.WithFields(map[string]interface{}{
		"device":   hostname,
		"template": template,
		"path":     path,
	}).Debug("saved configuration")
	return path, nil
}

// WriteAll writes every config, including inline error placeholders, and
// returns the paths in order. It stops at the first write failure.
func WriteAll(dir, hostname string, configs []generator.Config) ([]string, error) {
	paths := make([]string, 0, len(configs))
	for _, c := range configs {
		path, err := WriteConfig(dir, hostname, c.Template, c.Text)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// PrintBanner writes the separator printed ahead of each config when several
// are shown on one stream.
func PrintBanner(w io.Writer, hostname, template string) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(w, "\n%s\nTemplate: %s\nDevice: %s\n%s\n", rule, template, hostname, rule)
}

// PrintAll writes every config to w, each preceded by a banner.
func PrintAll(w io.Writer, hostname string, configs []generator.Config) {
	for _, c := range configs {
		PrintBanner(w, hostname, c.Template)
		fmt.Fprintln(w, c.Text)
	}
}
