// Package tmplvars maps the fabric data model onto the flat set of named
// variables the configuration templates consume.
package tmplvars

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Variable names. These are the contract with the template authors and must
// not change.
const (
	FabricBGPASN        = "FABRIC_BGP_ASN"
	FabricUnderlay      = "FABRIC_UNDERLAY"
	FabricIPSecUnderlay = "FABRIC_IPSEC_UNDERLAY"

	L2VNIOffset = "L2VNIOFFSET"
	L3VNIOffset = "L3VNIOFFSET"

	FabricRPAddr       = "FABRIC_RP_ADDR"
	FabricRPScopes     = "FABRIC_RP_SCOPES"
	EnterpriseRPAddr   = "ENTERPRISE_RP_ADDR"
	EnterpriseRPScopes = "ENTERPRISE_RP_SCOPES"

	DefnNodeRoles = "DEFN_NODE_ROLES"

	DefnLoopUnderlay = "DEFN_LOOP_UNDERLAY"
	DefnLoopIPSec    = "DEFN_LOOP_IPSEC"
	DefnLoopMCluster = "DEFN_LOOP_MCLUSTER"
	DefnLoopOverlay  = "DEFN_LOOP_OVERLAY"
	DefnLoopName     = "DEFN_LOOP_NAME"

	DefnVRF       = "DEFN_VRF"
	DefnVRFToNode = "DEFN_VRF_TO_NODE"

	DefnOverlay = "DEFN_OVERLAY"

	DefnL3Out           = "DEFN_L3OUT"
	DefnL3OutAggregates = "DEFN_L3OUT_AGGREGATES"

	DefnNACIoT = "DEFN_NAC_IOT"
	DefnIPSec  = "DEFN_IPSEC"

	// Device is present only when variables are scoped to a hostname.
	Device = "__device"
	// VRFList is present only when the scoped hostname has VRF mappings.
	VRFList = "vrf_list"
)

// Vars is a template variable set.
type Vars map[string]any

// Hostname returns the hostname the set is scoped to, or "".
func (v Vars) Hostname() string {
	dev, ok := v[Device].(map[string]any)
	if !ok {
		return ""
	}
	host, _ := dev["hostname"].(string)
	return host
}

// VRFNames returns the scoped device's VRF names and whether the device has
// VRF mappings at all.
func (v Vars) VRFNames() ([]string, bool) {
	names, ok := v[VRFList].([]string)
	return names, ok
}

// Marshal renders the variable set as YAML with two-space indentation.
// Mapping keys are emitted sorted, so output is stable across runs.
func Marshal(v Vars) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(v)); err != nil {
		return nil, fmt.Errorf("encoding template variables: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding template variables: %w", err)
	}
	return buf.Bytes(), nil
}
