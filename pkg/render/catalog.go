// Package render selects and renders the configuration templates.
//
// Templates live in a single directory as Go text/template files named
// <NAME>.tmpl. Definition templates (DEFN-*) carry shared reference data;
// fabric templates (FABRIC-*) produce device configuration and are rendered
// on top of the definitions and the macro fragment.
package render

import (
	"strings"

	"github.com/samber/lo"

	"github.com/newtron-network/evpngen/pkg/datamodel"
)

// FileExt is the extension of every template file.
const FileExt = ".tmpl"

// MacroFragment holds the named macros the fabric templates build on. It is
// not a renderable template.
const MacroFragment = "FUNC-OBJECT-MACROS"

// Macro names defined by MacroFragment.
const (
	MacroVRFDefinitionBuild = "vrfDefinitionBuild"
	MacroOverlayBuild       = "overlayBuild"
)

// Definitions are rendered for every device and composed, in this order,
// ahead of each fabric template.
var Definitions = []string{
	"DEFN-VRF",
	"DEFN-ROLES",
	"DEFN-LOOPBACKS",
	"DEFN-OVERLAY",
	"DEFN-L3OUT",
	"DEFN-MCAST",
	"DEFN-VNIOFFSETS",
	"DEFN-NAC-IOT",
	"DEFN-IPSEC",
}

// Fabric templates in catalog order.
const (
	FabricVRF       = "FABRIC-VRF"
	FabricLoopbacks = "FABRIC-LOOPBACKS"
	FabricNVE       = "FABRIC-NVE"
	FabricMcast     = "FABRIC-MCAST"
	FabricEVPN      = "FABRIC-EVPN"
	FabricOverlay   = "FABRIC-OVERLAY"
	FabricNACIoT    = "FABRIC-NAC-IOT"
	FabricIPSec     = "FABRIC-IPSEC"
)

var fabricTemplates = []string{
	FabricVRF, FabricLoopbacks, FabricNVE, FabricMcast,
	FabricEVPN, FabricOverlay, FabricNACIoT, FabricIPSec,
}

// roleTemplates lists the fabric templates each role receives.
var roleTemplates = map[datamodel.Role][]string{
	datamodel.RoleSpine: {
		FabricVRF, FabricLoopbacks, FabricNVE, FabricMcast, FabricEVPN,
	},
	datamodel.RoleLeaf: {
		FabricVRF, FabricLoopbacks, FabricNVE, FabricMcast, FabricEVPN,
		FabricOverlay, FabricNACIoT,
	},
	datamodel.RoleBorder: {
		FabricVRF, FabricLoopbacks, FabricNVE, FabricMcast, FabricEVPN,
		FabricOverlay, FabricIPSec,
	},
}

// macroFor names the macro whose output is appended to a composed render.
var macroFor = map[string]string{
	FabricVRF:     MacroVRFDefinitionBuild,
	FabricOverlay: MacroOverlayBuild,
}

// Available returns every renderable template name: definitions first, then
// fabric templates.
func Available() []string {
	return append(append([]string{}, Definitions...), fabricTemplates...)
}

// Known reports whether name is a renderable template.
func Known(name string) bool {
	return lo.Contains(Available(), name)
}

// IsDefinition reports whether name is a definition template.
func IsDefinition(name string) bool {
	return strings.HasPrefix(name, "DEFN-")
}

// FileName returns the file a template is read from.
func FileName(name string) string {
	return name + FileExt
}

// FabricTemplates returns the fabric templates for role. Unknown roles get
// none.
func FabricTemplates(role datamodel.Role) []string {
	return append([]string{}, roleTemplates[role]...)
}

// TemplatesFor returns the ordered template list generated for a device of
// the given role: all definitions followed by the role's fabric templates.
func TemplatesFor(role datamodel.Role) []string {
	return append(append([]string{}, Definitions...), roleTemplates[role]...)
}
