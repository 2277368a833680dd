package tmplvars

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/mitchellh/copystructure"
	"github.com/samber/lo"

	"github.com/newtron-network/evpngen/pkg/datamodel"
	"github.com/newtron-network/evpngen/pkg/util"
)

// Convert maps doc onto the template variable set. When hostname is not
// empty the set is scoped to that device: __device is added, and vrf_list
// when the device has VRF mappings.
//
// Every section the mapping reads is required. The first absent field, in
// mapping order, is returned as a *util.MissingFieldError. The result shares
// no mutable state with doc.
func Convert(doc *datamodel.Document, hostname string) (Vars, error) {
	m := &mapper{vars: Vars{}}

	m.fabric(doc.Fabric)
	m.vniOffsets(doc.VNIOffsets)
	m.multicast(doc.Multicast)
	m.devices(doc.Devices)
	m.vrfs(doc.VRFs)
	m.overlay(doc.OverlayNetworks)
	m.l3External(doc.L3External)
	m.nac(doc.NetworkAccessControl)
	m.ipsec(doc.IPSec)
	if m.err != nil {
		return nil, m.err
	}

	if hostname != "" {
		m.vars[Device] = map[string]any{"hostname": hostname}
		m.vrfList(doc.VRFs, hostname)
		if m.err != nil {
			return nil, m.err
		}
	}

	util.WithDevice(hostname).Debugf("mapped %d template variables", len(m.vars))
	return m.vars, nil
}

// mapper accumulates variables and keeps the first missing field.
type mapper struct {
	vars Vars
	err  error
}

func (m *mapper) missing(path string) {
	if m.err == nil {
		m.err = util.NewMissingFieldError(path)
	}
}

// need dereferences p, recording path as missing when p is nil.
func need[T any](m *mapper, path string, p *T) T {
	var zero T
	if p == nil {
		m.missing(path)
		return zero
	}
	return *p
}

func (m *mapper) fabric(f *datamodel.Fabric) {
	if f == nil {
		m.missing("fabric")
		return
	}
	m.vars[FabricBGPASN] = need(m, "fabric.bgp_asn", f.BGPASN)
	m.vars[FabricUnderlay] = need(m, "fabric.underlay", f.Underlay)
	m.vars[FabricIPSecUnderlay] = need(m, "fabric.ipsec_underlay", f.IPSecUnderlay)
}

func (m *mapper) vniOffsets(o *datamodel.VNIOffsets) {
	if o == nil {
		m.missing("vni_offsets")
		return
	}
	m.vars[L2VNIOffset] = need(m, "vni_offsets.l2_vni_offset", o.L2)
	m.vars[L3VNIOffset] = need(m, "vni_offsets.l3_vni_offset", o.L3)
}

func (m *mapper) multicast(mc *datamodel.Multicast) {
	if mc == nil {
		m.missing("multicast")
		return
	}
	m.vars[FabricRPAddr], m.vars[FabricRPScopes] = m.rp("multicast.fabric_rp", mc.FabricRP)
	m.vars[EnterpriseRPAddr], m.vars[EnterpriseRPScopes] = m.rp("multicast.enterprise_rp", mc.EnterpriseRP)
}

func (m *mapper) rp(path string, rp *datamodel.RendezvousPoint) (any, any) {
	if rp == nil {
		m.missing(path)
		return nil, nil
	}
	addr := need(m, path+".address", rp.Address)
	if rp.Scopes == nil {
		m.missing(path + ".scopes")
		return addr, nil
	}
	return addr, cloneStrings(rp.Scopes)
}

func (m *mapper) devices(d *datamodel.Devices) {
	if d == nil {
		m.missing("devices")
		return
	}

	roles := map[string]any{}
	for _, r := range []struct{ key, name string }{
		{datamodel.RoleKeySpine, "SPINE"},
		{datamodel.RoleKeyRouteReflector, "RR"},
		{datamodel.RoleKeyClient, "CLIENT"},
		{datamodel.RoleKeyBorder, "BORDER"},
	} {
		if !d.Roles.Has(r.key) {
			m.missing("devices.roles." + r.key)
			continue
		}
		roles[r.name] = cloneStrings(d.Roles.Hosts(r.key))
	}
	m.vars[DefnNodeRoles] = roles

	lb := d.Loopbacks
	if lb == nil {
		m.missing("devices.loopbacks")
		return
	}
	for _, l := range []struct {
		name, path string
		src        map[string]string
	}{
		{DefnLoopUnderlay, "devices.loopbacks.underlay", lb.Underlay},
		{DefnLoopIPSec, "devices.loopbacks.ipsec", lb.IPSec},
		{DefnLoopMCluster, "devices.loopbacks.multi_cluster", lb.MultiCluster},
		{DefnLoopOverlay, "devices.loopbacks.overlay_prefixes", lb.OverlayPrefixes},
		{DefnLoopName, "devices.loopbacks.interface_names", lb.InterfaceNames},
	} {
		if l.src == nil {
			m.missing(l.path)
			continue
		}
		m.vars[l.name] = lo.Assign(l.src)
	}
}

func (m *mapper) vrfs(v *datamodel.VRFs) {
	if v == nil {
		m.missing("vrfs")
		return
	}

	if v.Definitions == nil {
		m.missing("vrfs.definitions")
	} else {
		defs := make([]any, 0, len(v.Definitions))
		for _, vrf := range v.Definitions {
			def := m.extras(vrf.Extra)
			if vrf.ID != nil {
				def["id"] = *vrf.ID
			}
			if vrf.Name != nil {
				def["name"] = *vrf.Name
			}
			defs = append(defs, def)
		}
		m.vars[DefnVRF] = defs
	}

	if v.DeviceMappings == nil {
		m.missing("vrfs.device_mappings")
		return
	}
	mappings := make(map[string][]int, len(v.DeviceMappings))
	for host, ids := range v.DeviceMappings {
		mappings[host] = append([]int{}, ids...)
	}
	m.vars[DefnVRFToNode] = mappings
}

func (m *mapper) overlay(networks []datamodel.OverlayNetwork) {
	if networks == nil {
		m.missing("overlay_networks")
		return
	}

	out := make([]any, 0, len(networks))
	for i, n := range networks {
		path := fmt.Sprintf("overlay_networks[%d]", i)
		def := map[string]any{"vrf": need(m, path+".vrf", n.VRF)}
		if n.VLANs == nil {
			m.missing(path + ".vlans")
			continue
		}
		vlans := make(map[int]any, len(n.VLANs))
		for _, id := range sortedKeys(n.VLANs) {
			vlan := n.VLANs[id]
			vp := path + ".vlans." + strconv.Itoa(id)
			vlans[id] = map[string]any{
				"name":        need(m, vp+".name", vlan.Name),
				"ipaddr":      need(m, vp+".ip_address", vlan.IPAddress),
				"mac":         need(m, vp+".mac_address", vlan.MACAddress),
				"dhcp_helper": need(m, vp+".dhcp_helper", vlan.DHCPHelper),
				"bum_addr":    need(m, vp+".bum_address", vlan.BUMAddress),
			}
		}
		def["vlans"] = vlans
		out = append(out, def)
	}
	m.vars[DefnOverlay] = out
}

func (m *mapper) l3External(l3 *datamodel.L3External) {
	if l3 == nil {
		m.missing("l3_external")
		return
	}

	if l3.Connections == nil {
		m.missing("l3_external.connections")
	} else {
		out := make([]any, 0, len(l3.Connections))
		for i, c := range l3.Connections {
			path := fmt.Sprintf("l3_external.connections[%d]", i)
			def := map[string]any{
				"vrf":           need(m, path+".vrf", c.VRF),
				"node":          need(m, path+".device", c.Device),
				"neighbour_asn": need(m, path+".neighbor_asn", c.NeighborASN),
			}
			if c.Interfaces == nil {
				m.missing(path + ".interfaces")
				continue
			}
			ifaces := make(map[string]any, len(c.Interfaces))
			for _, name := range sortedKeys(c.Interfaces) {
				iface := c.Interfaces[name]
				ip := path + ".interfaces." + name
				ifaces[name] = map[string]any{
					"name":      need(m, ip+".name", iface.Name),
					"vlan":      need(m, ip+".vlan", iface.VLAN),
					"ipaddr":    need(m, ip+".ip_address", iface.IPAddress),
					"neighbour": need(m, ip+".neighbor_ip", iface.NeighborIP),
				}
			}
			def["interfaces"] = ifaces
			out = append(out, def)
		}
		m.vars[DefnL3Out] = out
	}

	if l3.AggregateRoutes == nil {
		m.missing("l3_external.aggregate_routes")
		return
	}
	m.vars[DefnL3OutAggregates] = m.deepCopy(l3.AggregateRoutes)
}

func (m *mapper) nac(nac *datamodel.NetworkAccessControl) {
	if nac == nil {
		m.missing("network_access_control")
		return
	}
	if nac.Servers == nil {
		m.missing("network_access_control.servers")
		return
	}

	out := make([]any, 0, len(nac.Servers))
	for i, s := range nac.Servers {
		path := fmt.Sprintf("network_access_control.servers[%d]", i)
		out = append(out, map[string]any{
			"vrf":     need(m, path+".vrf", s.VRF),
			"nac_ip":  need(m, path+".server_ip", s.ServerIP),
			"nac_key": need(m, path+".shared_key", s.SharedKey),
		})
	}
	m.vars[DefnNACIoT] = out
}

func (m *mapper) ipsec(ipsec *datamodel.IPSec) {
	if ipsec == nil {
		m.missing("ipsec")
		return
	}
	if ipsec.Tunnels == nil {
		m.missing("ipsec.tunnels")
		return
	}

	out := make(map[string]any, len(ipsec.Tunnels))
	for _, host := range sortedKeys(ipsec.Tunnels) {
		tunnels := ipsec.Tunnels[host]
		list := make([]any, 0, len(tunnels))
		for i, t := range tunnels {
			path := fmt.Sprintf("ipsec.tunnels.%s[%d]", host, i)
			list = append(list, map[string]any{
				"tun_ip":       need(m, path+".tunnel_ip", t.TunnelIP),
				"peer_ip":      need(m, path+".peer_ip", t.PeerIP),
				"tun_dst":      need(m, path+".tunnel_destination", t.TunnelDestination),
				"tun_mode":     need(m, path+".tunnel_mode", t.TunnelMode),
				"peer_bgp_asn": need(m, path+".peer_bgp_asn", t.PeerBGPASN),
			})
		}
		out[host] = list
	}
	m.vars[DefnIPSec] = out
}

// vrfList adds the names of the VRFs mapped to hostname, in definition
// order. Mapped ids without a definition are skipped.
func (m *mapper) vrfList(v *datamodel.VRFs, hostname string) {
	ids, ok := v.DeviceMappings[hostname]
	if !ok {
		return
	}

	names := []string{}
	for i, vrf := range v.Definitions {
		path := fmt.Sprintf("vrfs.definitions[%d]", i)
		id := need(m, path+".id", vrf.ID)
		if !lo.Contains(ids, id) {
			continue
		}
		names = append(names, need(m, path+".name", vrf.Name))
	}
	m.vars[VRFList] = names
}

// extras copies the pass-through keys of a VRF definition.
func (m *mapper) extras(extra map[string]any) map[string]any {
	out := make(map[string]any, len(extra)+2)
	for k, v := range extra {
		out[k] = m.deepCopy(v)
	}
	return out
}

func (m *mapper) deepCopy(v any) any {
	c, err := copystructure.Copy(v)
	if err != nil && m.err == nil {
		m.err = fmt.Errorf("copying template value: %w", err)
	}
	return c
}

// sortedKeys fixes the visiting order of keyed records so the reported
// missing field does not depend on map iteration.
func sortedKeys[K int | string, V any](m map[K]V) []K {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}
