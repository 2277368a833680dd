package datamodel

import (
	"sort"

	"github.com/samber/lo"
)

// Role is the primary role a device is configured for.
type Role string

const (
	RoleSpine   Role = "spine"
	RoleBorder  Role = "border"
	RoleLeaf    Role = "leaf"
	RoleUnknown Role = "unknown"
)

// Role list keys as they appear under devices.roles.
const (
	RoleKeySpine          = "spine"
	RoleKeyBorder         = "border"
	RoleKeyLeaf           = "leaf"
	RoleKeyRouteReflector = "route_reflector"
	RoleKeyClient         = "client"
)

// rolePrecedence is checked in order; the first list containing the host wins.
// route_reflector and client are informational and never resolve a role.
var rolePrecedence = []Role{RoleSpine, RoleBorder, RoleLeaf}

// ResolveRole returns the primary role of hostname. A host that appears in
// none of the spine, border or leaf lists is RoleUnknown.
func ResolveRole(doc *Document, hostname string) Role {
	if doc == nil || doc.Devices == nil {
		return RoleUnknown
	}
	for _, role := range rolePrecedence {
		if lo.Contains(doc.Devices.Roles.Hosts(string(role)), hostname) {
			return role
		}
	}
	return RoleUnknown
}

// DeviceList returns every hostname listed under any role, sorted and unique.
func DeviceList(doc *Document) []string {
	if doc == nil || doc.Devices == nil {
		return nil
	}
	var all []string
	for _, role := range doc.Devices.Roles.Names() {
		all = append(all, doc.Devices.Roles.Hosts(role)...)
	}
	devices := lo.Uniq(all)
	sort.Strings(devices)
	return devices
}

// HasDevice reports whether hostname is listed under any role.
func HasDevice(doc *Document, hostname string) bool {
	return lo.Contains(DeviceList(doc), hostname)
}
