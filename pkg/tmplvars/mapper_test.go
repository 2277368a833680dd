package tmplvars

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/newtron-network/evpngen/internal/testutil"
	"github.com/newtron-network/evpngen/pkg/datamodel"
	"github.com/newtron-network/evpngen/pkg/util"
)

func fixture(t *testing.T) *datamodel.Document {
	t.Helper()
	doc, err := datamodel.Parse([]byte(testutil.FabricYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestConvertGlobal(t *testing.T) {
	vars, err := Convert(fixture(t), "")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	scalars := map[string]any{
		FabricBGPASN:        65001,
		FabricUnderlay:      "ospf",
		FabricIPSecUnderlay: true,
		L2VNIOffset:         10000,
		L3VNIOffset:         50000,
		FabricRPAddr:        "10.254.254.1",
		EnterpriseRPAddr:    "10.100.0.1",
	}
	for name, want := range scalars {
		if got := vars[name]; got != want {
			t.Errorf("%s = %v (%T), want %v", name, got, got, want)
		}
	}

	if _, ok := vars[Device]; ok {
		t.Error("__device present without a hostname")
	}
	if _, ok := vars[VRFList]; ok {
		t.Error("vrf_list present without a hostname")
	}

	roles := vars[DefnNodeRoles].(map[string]any)
	wantRoles := map[string]any{
		"SPINE":  []string{"spine01"},
		"RR":     []string{"spine01"},
		"CLIENT": []string{"leaf01", "border01"},
		"BORDER": []string{"border01"},
	}
	if !reflect.DeepEqual(roles, wantRoles) {
		t.Errorf("DEFN_NODE_ROLES = %v, want %v", roles, wantRoles)
	}
}

func TestConvertReshapes(t *testing.T) {
	vars, err := Convert(fixture(t), "")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	overlay := vars[DefnOverlay].([]any)[0].(map[string]any)
	vlan := overlay["vlans"].(map[int]any)[100]
	wantVLAN := map[string]any{
		"name":        "USERS",
		"ipaddr":      "10.1.100.1/24",
		"mac":         "0000.2222.3333",
		"dhcp_helper": "10.100.0.50",
		"bum_addr":    "239.1.1.100",
	}
	if !reflect.DeepEqual(vlan, wantVLAN) {
		t.Errorf("overlay vlan 100 = %v, want %v", vlan, wantVLAN)
	}

	l3 := vars[DefnL3Out].([]any)[0].(map[string]any)
	if l3["node"] != "border01" || l3["neighbour_asn"] != 65100 || l3["vrf"] != "VRF_A" {
		t.Errorf("DEFN_L3OUT[0] = %v", l3)
	}
	iface := l3["interfaces"].(map[string]any)["uplink1"]
	wantIface := map[string]any{
		"name":      "Ethernet1/49.101",
		"vlan":      101,
		"ipaddr":    "172.16.1.0/31",
		"neighbour": "172.16.1.1",
	}
	if !reflect.DeepEqual(iface, wantIface) {
		t.Errorf("l3 interface = %v, want %v", iface, wantIface)
	}

	nac := vars[DefnNACIoT].([]any)
	wantNAC := []any{map[string]any{"vrf": "VRF_A", "nac_ip": "10.100.0.80", "nac_key": "secret"}}
	if !reflect.DeepEqual(nac, wantNAC) {
		t.Errorf("DEFN_NAC_IOT = %v, want %v", nac, wantNAC)
	}

	tunnel := vars[DefnIPSec].(map[string]any)["border01"].([]any)[0]
	wantTunnel := map[string]any{
		"tun_ip":       "192.168.255.1/30",
		"peer_ip":      "192.168.255.2",
		"tun_dst":      "203.0.113.10",
		"tun_mode":     "ipsec ipv4",
		"peer_bgp_asn": 65200,
	}
	if !reflect.DeepEqual(tunnel, wantTunnel) {
		t.Errorf("DEFN_IPSEC tunnel = %v, want %v", tunnel, wantTunnel)
	}

	vrf := vars[DefnVRF].([]any)[0].(map[string]any)
	if vrf["id"] != 1 || vrf["name"] != "VRF_A" || vrf["description"] != "tenant A" {
		t.Errorf("DEFN_VRF[0] = %v", vrf)
	}

	if got := vars[DefnL3OutAggregates]; !reflect.DeepEqual(got, []any{"10.1.0.0/16"}) {
		t.Errorf("DEFN_L3OUT_AGGREGATES = %v", got)
	}
}

func TestConvertDevice(t *testing.T) {
	doc := fixture(t)

	tests := []struct {
		host      string
		wantList  []string
		wantNoVRF bool
	}{
		{host: "leaf01", wantList: []string{"VRF_A"}},
		{host: "spine01", wantNoVRF: true},
		{host: "not-in-model", wantNoVRF: true},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			vars, err := Convert(doc, tt.host)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if got := vars.Hostname(); got != tt.host {
				t.Errorf("Hostname() = %q, want %q", got, tt.host)
			}
			names, ok := vars.VRFNames()
			if tt.wantNoVRF {
				if ok {
					t.Errorf("vrf_list = %v, want absent", names)
				}
				return
			}
			if !reflect.DeepEqual(names, tt.wantList) {
				t.Errorf("vrf_list = %v, want %v", names, tt.wantList)
			}
		})
	}
}

func TestConvertVRFListSkipsUndefined(t *testing.T) {
	src := strings.Replace(testutil.FabricYAML, "leaf01: [1]", "leaf01: [10, 99]", 1)
	src = strings.Replace(src, "- id: 1\n      name: VRF_A", "- id: 10\n      name: VRF_TEN", 1)
	doc, err := datamodel.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	vars, err := Convert(doc, "leaf01")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	names, ok := vars.VRFNames()
	if !ok || len(names) != 1 || names[0] != "VRF_TEN" {
		t.Errorf("vrf_list = %v, want [VRF_TEN]", names)
	}
}

func TestConvertVRFListDefinitionOrder(t *testing.T) {
	src := strings.Replace(testutil.FabricYAML, "leaf01: [1]", "leaf01: [2, 1]", 1)
	src = strings.Replace(src, "      description: tenant A\n",
		"      description: tenant A\n    - id: 2\n      name: VRF_B\n", 1)
	doc, err := datamodel.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	vars, err := Convert(doc, "leaf01")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	names, _ := vars.VRFNames()
	if want := []string{"VRF_A", "VRF_B"}; !reflect.DeepEqual(names, want) {
		t.Errorf("vrf_list = %v, want %v", names, want)
	}
}

func TestConvertMissingField(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr string
	}{
		{"fabric section", "fabric:\n  bgp_asn: 65001\n  underlay: ospf\n  ipsec_underlay: true\n", "", "fabric"},
		{"bgp asn", "  bgp_asn: 65001\n", "", "fabric.bgp_asn"},
		{"rp scopes", "    scopes: [239.10.0.0/16]\n", "", "multicast.enterprise_rp.scopes"},
		{"client role", "    client: [leaf01, border01]\n", "", "devices.roles.client"},
		{"interface names", "    interface_names: {}\n", "", "devices.loopbacks.interface_names"},
		{"vlan bum address", "        bum_address: 239.1.1.100\n", "", "overlay_networks[0].vlans.100.bum_address"},
		{"aggregates", "  aggregate_routes:\n    - 10.1.0.0/16\n", "", "l3_external.aggregate_routes"},
		{"tunnel asn", "        peer_bgp_asn: 65200\n", "", "ipsec.tunnels.border01[0].peer_bgp_asn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.Replace(testutil.FabricYAML, tt.from, tt.to, 1)
			if src == testutil.FabricYAML {
				t.Fatalf("fixture does not contain %q", tt.from)
			}
			doc, err := datamodel.Parse([]byte(src))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			_, err = Convert(doc, "leaf01")
			if !errors.Is(err, util.ErrMissingField) {
				t.Fatalf("Convert() error = %v, want ErrMissingField", err)
			}
			var mf *util.MissingFieldError
			if !errors.As(err, &mf) || mf.Path != tt.wantErr {
				t.Errorf("missing path = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestConvertMissingFieldOrderIsStable(t *testing.T) {
	tests := []struct {
		name     string
		replace  []string
		wantPath string
	}{
		{
			name:     "vlans",
			replace:  []string{"      100:\n        name: USERS\n", "      300: {}\n      100:\n"},
			wantPath: "overlay_networks[0].vlans.100.name",
		},
		{
			name:     "interfaces",
			replace:  []string{"        uplink1:\n          name: Ethernet1/49.101\n", "        uplink2: {}\n        uplink1:\n"},
			wantPath: "l3_external.connections[0].interfaces.uplink1.name",
		},
		{
			name: "tunnels",
			replace: []string{
				"        peer_bgp_asn: 65200\n", "",
				"  tunnels:\n", "  tunnels:\n    border02: [{}]\n",
			},
			wantPath: "ipsec.tunnels.border01[0].peer_bgp_asn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.NewReplacer(tt.replace...).Replace(testutil.FabricYAML)
			doc, err := datamodel.Parse([]byte(src))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			for i := 0; i < 50; i++ {
				_, err := Convert(doc, "")
				var mf *util.MissingFieldError
				if !errors.As(err, &mf) {
					t.Fatalf("Convert() error = %v, want MissingFieldError", err)
				}
				if mf.Path != tt.wantPath {
					t.Fatalf("run %d: missing path = %q, want %q", i, mf.Path, tt.wantPath)
				}
			}
		})
	}
}

func TestConvertValidDocumentHasNoMissingField(t *testing.T) {
	doc, err := datamodel.Load(testutil.ExampleDataModel())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if msgs := datamodel.Validate(doc); len(msgs) != 0 {
		t.Fatalf("example data model invalid: %v", msgs)
	}
	for _, host := range append(datamodel.DeviceList(doc), "") {
		if _, err := Convert(doc, host); err != nil {
			t.Errorf("Convert(%q) error = %v", host, err)
		}
	}
}

func TestConvertIndependentOfDocument(t *testing.T) {
	doc := fixture(t)
	vars, err := Convert(doc, "leaf01")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	vars[DefnLoopUnderlay].(map[string]string)["leaf01"] = "changed"
	vars[DefnVRFToNode].(map[string][]int)["leaf01"][0] = 42
	vars[DefnNodeRoles].(map[string]any)["SPINE"].([]string)[0] = "changed"

	if got := doc.Devices.Loopbacks.Underlay["leaf01"]; got != "10.0.0.11/32" {
		t.Errorf("document loopback mutated: %q", got)
	}
	if got := doc.VRFs.DeviceMappings["leaf01"][0]; got != 1 {
		t.Errorf("document mapping mutated: %d", got)
	}
	if got := doc.Devices.Roles.Hosts("spine")[0]; got != "spine01" {
		t.Errorf("document roles mutated: %q", got)
	}
}

func TestConvertDeterministic(t *testing.T) {
	doc := fixture(t)
	a, err := Convert(doc, "border01")
	testutil.AssertNoError(t, err, "first Convert")
	b, err := Convert(doc, "border01")
	testutil.AssertNoError(t, err, "second Convert")
	if !reflect.DeepEqual(a, b) {
		t.Error("Convert() differs between calls")
	}
}
