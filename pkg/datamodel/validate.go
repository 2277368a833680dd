package datamodel

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/newtron-network/evpngen/pkg/util"
)

// Validate checks the document for consistency and returns one message per
// violation; an empty result means the document is valid. Every check runs
// regardless of earlier failures. Absent sections count as empty.
func Validate(doc *Document) []string {
	return validate(doc).Messages()
}

// ValidateErr is Validate as an error: nil when valid, otherwise a
// *util.ValidationError carrying every message.
func ValidateErr(doc *Document) error {
	return validate(doc).Build()
}

func validate(doc *Document) *util.ValidationBuilder {
	v := &util.ValidationBuilder{}

	checkRequiredFields(doc, v)
	checkVRFIDs(doc, v)
	checkUnderlayLoopbacks(doc, v)
	checkVRFMappings(doc, v)

	return v
}

func checkRequiredFields(doc *Document, v *util.ValidationBuilder) {
	if doc.Validation == nil {
		return
	}
	for _, path := range doc.Validation.RequiredFields {
		v.Add(FieldExists(doc.Raw(), path), "Required field missing: "+path)
	}
}

func checkVRFIDs(doc *Document, v *util.ValidationBuilder) {
	v.Add(len(lo.FindDuplicates(vrfIDs(doc))) == 0, "VRF IDs must be unique")
}

func checkUnderlayLoopbacks(doc *Document, v *util.ValidationBuilder) {
	var underlay map[string]string
	if doc.Devices != nil && doc.Devices.Loopbacks != nil {
		underlay = doc.Devices.Loopbacks.Underlay
	}

	missing := lo.Filter(DeviceList(doc), func(host string, _ int) bool {
		_, ok := underlay[host]
		return !ok
	})
	if len(missing) > 0 {
		v.AddErrorf("Devices missing underlay loopbacks: %v", missing)
	}
}

func checkVRFMappings(doc *Document, v *util.ValidationBuilder) {
	if doc.VRFs == nil {
		return
	}
	valid := lo.Uniq(vrfIDs(doc))

	hosts := lo.Keys(doc.VRFs.DeviceMappings)
	sort.Strings(hosts)
	for _, host := range hosts {
		invalid := lo.Uniq(lo.Without(doc.VRFs.DeviceMappings[host], valid...))
		if len(invalid) == 0 {
			continue
		}
		sort.Ints(invalid)
		v.AddErrorf("Device %s references invalid VRF IDs: %v", host, invalid)
	}
}

// vrfIDs returns the ids of all VRF definitions that carry one.
func vrfIDs(doc *Document) []int {
	if doc.VRFs == nil {
		return nil
	}
	return lo.FilterMap(doc.VRFs.Definitions, func(vrf VRF, _ int) (int, bool) {
		if vrf.ID == nil {
			return 0, false
		}
		return *vrf.ID, true
	})
}

// FieldExists reports whether a dotted path resolves in tree by mapping-key
// traversal. A missing key or a non-mapping intermediate counts as absent.
func FieldExists(tree map[string]any, path string) bool {
	var current any = tree
	for _, part := range strings.Split(path, ".") {
		switch m := current.(type) {
		case map[string]any:
			next, ok := m[part]
			if !ok {
				return false
			}
			current = next
		case map[any]any:
			next, ok := m[part]
			if !ok {
				return false
			}
			current = next
		default:
			return false
		}
	}
	return true
}
