package testutil

// FabricYAML is a small but complete fabric: one spine that is also the route
// reflector, one leaf and one border. VRF_A (id 1) is mapped to the leaf;
// the border carries one IPSec tunnel and one external connection.
const FabricYAML = `
fabric:
  bgp_asn: 65001
  underlay: ospf
  ipsec_underlay: true

vni_offsets:
  l2_vni_offset: 10000
  l3_vni_offset: 50000

multicast:
  fabric_rp:
    address: 10.254.254.1
    scopes: [239.1.0.0/16]
  enterprise_rp:
    address: 10.100.0.1
    scopes: [239.10.0.0/16]

devices:
  roles:
    spine: [spine01]
    route_reflector: [spine01]
    client: [leaf01, border01]
    leaf: [leaf01]
    border: [border01]
  loopbacks:
    underlay:
      spine01: 10.0.0.1/32
      leaf01: 10.0.0.11/32
      border01: 10.0.0.21/32
    ipsec:
      border01: 10.0.1.21/32
    multi_cluster: {}
    overlay_prefixes:
      leaf01: 10.10.0.11/32
    interface_names: {}

vrfs:
  definitions:
    - id: 1
      name: VRF_A
      description: tenant A
  device_mappings:
    leaf01: [1]

overlay_networks:
  - vrf: VRF_A
    vlans:
      100:
        name: USERS
        ip_address: 10.1.100.1/24
        mac_address: 0000.2222.3333
        dhcp_helper: 10.100.0.50
        bum_address: 239.1.1.100

l3_external:
  connections:
    - vrf: VRF_A
      device: border01
      neighbor_asn: 65100
      interfaces:
        uplink1:
          name: Ethernet1/49.101
          vlan: 101
          ip_address: 172.16.1.0/31
          neighbor_ip: 172.16.1.1
  aggregate_routes:
    - 10.1.0.0/16

network_access_control:
  servers:
    - vrf: VRF_A
      server_ip: 10.100.0.80
      shared_key: secret

ipsec:
  tunnels:
    border01:
      - tunnel_ip: 192.168.255.1/30
        peer_ip: 192.168.255.2
        tunnel_destination: 203.0.113.10
        tunnel_mode: ipsec ipv4
        peer_bgp_asn: 65200

validation:
  required_fields:
    - fabric.bgp_asn
    - devices.loopbacks.underlay
`
