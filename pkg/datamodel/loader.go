package datamodel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/evpngen/pkg/util"
)

// Load reads and parses the data model at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("data model file not found: %s: %w", path, util.ErrNotFound)
		}
		return nil, fmt.Errorf("reading data model %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	util.Debugf("loaded data model %s (%d devices)", path, len(DeviceList(doc)))
	return doc, nil
}

// Parse decodes a data model document. Both the typed view and the raw tree
// are populated; a document that is not well-formed YAML, or whose shape does
// not fit the record types, is rejected as a whole.
func Parse(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %v: %w", err, util.ErrParse)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding data model: %v: %w", err, util.ErrParse)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	doc.raw = raw

	return &doc, nil
}
