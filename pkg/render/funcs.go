package render

import (
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/newtron-network/evpngen/pkg/util"
)

// FuncMap returns the functions available to every template: the sprig
// text functions plus network helpers. Functions that read the process
// environment are removed so that output depends only on the variables.
func FuncMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	delete(funcs, "env")
	delete(funcs, "expandenv")

	funcs["ipAddr"] = func(cidr string) string {
		addr, _ := util.SplitIPMask(cidr)
		return addr
	}
	funcs["prefixLen"] = func(cidr string) int {
		_, n := util.SplitIPMask(cidr)
		return n
	}
	funcs["networkAddr"] = util.NetworkAddr
	funcs["broadcastAddr"] = util.BroadcastAddr
	funcs["neighborIP"] = util.NeighborIP
	funcs["cidrToMask"] = util.CIDRToMask
	funcs["maskToPrefix"] = util.MaskToPrefix
	funcs["routeTarget"] = util.FormatRouteTarget
	funcs["routeDistinguisher"] = util.FormatRouteDistinguisher
	funcs["expandRange"] = util.ExpandRange
	funcs["vlanRange"] = util.ExpandVLANRange
	funcs["compactRange"] = compactRange
	funcs["vni"] = func(offset, id int) int {
		return offset + id
	}

	return funcs
}

// compactRange accepts the []any built by sprig's list/append.
func compactRange(values []any) (string, error) {
	ints := make([]int, 0, len(values))
	for _, v := range values {
		n, ok := v.(int)
		if !ok {
			return "", fmt.Errorf("compactRange: %v is not an integer", v)
		}
		ints = append(ints, n)
	}
	return util.CompactRange(ints), nil
}
