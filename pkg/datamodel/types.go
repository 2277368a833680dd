// Package datamodel loads and validates the BGP EVPN fabric data model.
//
// The document is decoded into explicit record types. Fields the variable
// mapping depends on are pointers or nil-able containers so that an absent
// key can be told apart from a zero value.
package datamodel

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the whole fabric data model.
type Document struct {
	Fabric               *Fabric               `yaml:"fabric"`
	VNIOffsets           *VNIOffsets           `yaml:"vni_offsets"`
	Multicast            *Multicast            `yaml:"multicast"`
	Devices              *Devices              `yaml:"devices"`
	VRFs                 *VRFs                 `yaml:"vrfs"`
	OverlayNetworks      []OverlayNetwork      `yaml:"overlay_networks"`
	L3External           *L3External           `yaml:"l3_external"`
	NetworkAccessControl *NetworkAccessControl `yaml:"network_access_control"`
	IPSec                *IPSec                `yaml:"ipsec"`
	Validation           *Validation           `yaml:"validation"`

	raw map[string]any
}

// Raw returns the undecoded document tree, used for dotted-path lookups.
func (d *Document) Raw() map[string]any {
	return d.raw
}

// Fabric holds fabric-wide scalar settings.
type Fabric struct {
	BGPASN        *int    `yaml:"bgp_asn"`
	Underlay      *string `yaml:"underlay"`
	IPSecUnderlay *bool   `yaml:"ipsec_underlay"`
}

// VNIOffsets are added to VLAN / VRF ids by templates to number VNIs.
type VNIOffsets struct {
	L2 *int `yaml:"l2_vni_offset"`
	L3 *int `yaml:"l3_vni_offset"`
}

// Multicast holds the two rendezvous points.
type Multicast struct {
	FabricRP     *RendezvousPoint `yaml:"fabric_rp"`
	EnterpriseRP *RendezvousPoint `yaml:"enterprise_rp"`
}

// RendezvousPoint is a PIM RP address and the group ranges it serves.
type RendezvousPoint struct {
	Address *string  `yaml:"address"`
	Scopes  []string `yaml:"scopes"`
}

// Devices groups role membership and per-device loopbacks.
type Devices struct {
	Roles     RoleMap    `yaml:"roles"`
	Loopbacks *Loopbacks `yaml:"loopbacks"`
}

// Loopbacks are keyed by hostname.
type Loopbacks struct {
	Underlay        map[string]string `yaml:"underlay"`
	IPSec           map[string]string `yaml:"ipsec"`
	MultiCluster    map[string]string `yaml:"multi_cluster"`
	OverlayPrefixes map[string]string `yaml:"overlay_prefixes"`
	InterfaceNames  map[string]string `yaml:"interface_names"`
}

// VRFs holds VRF definitions and which devices carry them.
type VRFs struct {
	Definitions    []VRF            `yaml:"definitions"`
	DeviceMappings map[string][]int `yaml:"device_mappings"`
}

// VRF is one VRF definition. Keys other than id and name are passed through
// to templates untouched.
type VRF struct {
	ID    *int           `yaml:"id"`
	Name  *string        `yaml:"name"`
	Extra map[string]any `yaml:",inline"`
}

// OverlayNetwork is the set of VLANs attached to one VRF.
type OverlayNetwork struct {
	VRF   *string      `yaml:"vrf"`
	VLANs map[int]VLAN `yaml:"vlans"`
}

// VLAN is one overlay subnet, keyed by VLAN id in OverlayNetwork.
type VLAN struct {
	Name       *string `yaml:"name"`
	IPAddress  *string `yaml:"ip_address"`
	MACAddress *string `yaml:"mac_address"`
	DHCPHelper *string `yaml:"dhcp_helper"`
	BUMAddress *string `yaml:"bum_address"`
}

// L3External describes external BGP peering per VRF.
type L3External struct {
	Connections     []L3Connection `yaml:"connections"`
	AggregateRoutes []any          `yaml:"aggregate_routes"`
}

// L3Connection is one VRF's external peering on one device.
type L3Connection struct {
	VRF         *string                `yaml:"vrf"`
	Device      *string                `yaml:"device"`
	NeighborASN *int                   `yaml:"neighbor_asn"`
	Interfaces  map[string]L3Interface `yaml:"interfaces"`
}

// L3Interface is a routed sub-interface towards an external neighbor.
type L3Interface struct {
	Name       *string `yaml:"name"`
	VLAN       *int    `yaml:"vlan"`
	IPAddress  *string `yaml:"ip_address"`
	NeighborIP *string `yaml:"neighbor_ip"`
}

// NetworkAccessControl lists the NAC (RADIUS) servers for IoT onboarding.
type NetworkAccessControl struct {
	Servers []NACServer `yaml:"servers"`
}

// NACServer is one NAC server reachable in a VRF.
type NACServer struct {
	VRF       *string `yaml:"vrf"`
	ServerIP  *string `yaml:"server_ip"`
	SharedKey *string `yaml:"shared_key"`
}

// IPSec holds tunnels keyed by the hostname that terminates them.
type IPSec struct {
	Tunnels map[string][]Tunnel `yaml:"tunnels"`
}

// Tunnel is one IPSec tunnel with its BGP peer.
type Tunnel struct {
	TunnelIP          *string `yaml:"tunnel_ip"`
	PeerIP            *string `yaml:"peer_ip"`
	TunnelDestination *string `yaml:"tunnel_destination"`
	TunnelMode        *string `yaml:"tunnel_mode"`
	PeerBGPASN        *int    `yaml:"peer_bgp_asn"`
}

// Validation carries inputs used only by the validator.
type Validation struct {
	RequiredFields []string `yaml:"required_fields"`
}

// RoleMap maps a role name to its hostnames and keeps the roles in the order
// the document lists them.
type RoleMap struct {
	order []string
	lists map[string][]string
}

// NewRoleMap builds a RoleMap from role/hostname pairs in the given order.
func NewRoleMap(order []string, lists map[string][]string) RoleMap {
	return RoleMap{order: order, lists: lists}
}

// UnmarshalYAML decodes a mapping of role -> hostname sequence.
func (r *RoleMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: devices.roles must be a mapping", node.Line)
	}
	r.order = nil
	r.lists = make(map[string][]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		role := node.Content[i].Value
		var hosts []string
		if err := node.Content[i+1].Decode(&hosts); err != nil {
			return fmt.Errorf("devices.roles.%s: %w", role, err)
		}
		if _, dup := r.lists[role]; !dup {
			r.order = append(r.order, role)
		}
		r.lists[role] = hosts
	}
	return nil
}

// MarshalYAML emits the roles as a plain mapping.
func (r RoleMap) MarshalYAML() (interface{}, error) {
	return r.lists, nil
}

// Names returns role names in document order.
func (r RoleMap) Names() []string {
	return r.order
}

// Hosts returns the hostnames listed under role; nil if the role is absent.
func (r RoleMap) Hosts(role string) []string {
	return r.lists[role]
}

// Has reports whether role is present as a key.
func (r RoleMap) Has(role string) bool {
	_, ok := r.lists[role]
	return ok
}
