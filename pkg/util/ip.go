package util

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// SplitIPMask splits "10.1.1.1/30" into "10.1.1.1" and 30.
// Input without a mask is returned as-is with length 0.
func SplitIPMask(cidr string) (string, int) {
	addr, bits, found := strings.Cut(cidr, "/")
	if !found {
		return cidr, 0
	}
	n, err := strconv.Atoi(bits)
	if err != nil {
		return addr, 0
	}
	return addr, n
}

// NetworkAddr returns the network address of an IPv4 CIDR, e.g.
// "10.1.1.9/24" -> "10.1.1.0". Invalid input yields "".
func NetworkAddr(cidr string) string {
	_, ipNet, err := net.ParseCIDR(cidr)
	if err != nil || ipNet.IP.To4() == nil {
		return ""
	}
	return ipNet.IP.String()
}

// BroadcastAddr returns the broadcast address of an IPv4 CIDR.
func BroadcastAddr(cidr string) string {
	_, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return ""
	}
	network := ipNet.IP.To4()
	if network == nil {
		return ""
	}
	broadcast := make(net.IP, 4)
	for i := 0; i < 4; i++ {
		broadcast[i] = network[i] | ^ipNet.Mask[i]
	}
	return broadcast.String()
}

// NeighborIP returns the peer address on a point-to-point subnet (/30 or /31)
// given the local address with mask, e.g. "10.0.0.0/31" -> "10.0.0.1".
func NeighborIP(localIPWithMask string) (string, error) {
	addr, maskLen := SplitIPMask(localIPWithMask)
	if maskLen == 0 {
		return "", fmt.Errorf("IP address must include CIDR mask (e.g., 10.1.1.1/30)")
	}
	ip := net.ParseIP(addr).To4()
	if ip == nil {
		return "", fmt.Errorf("invalid IPv4 address: %s", addr)
	}

	switch maskLen {
	case 31:
		ip[3] ^= 1
	case 30:
		switch ip[3] & 0x03 {
		case 1:
			ip[3]++
		case 2:
			ip[3]--
		default:
			return "", fmt.Errorf("%s is the network or broadcast address of its /30", addr)
		}
	default:
		return "", fmt.Errorf("cannot derive neighbor IP: /%d is not a point-to-point subnet (use /30 or /31)", maskLen)
	}
	return ip.String(), nil
}

// CIDRToMask converts the prefix of a CIDR into a dotted mask:
// "192.168.1.0/24" -> "255.255.255.0".
func CIDRToMask(cidr string) string {
	_, maskLen := SplitIPMask(cidr)
	if maskLen <= 0 || maskLen > 32 {
		return ""
	}
	return net.IP(net.CIDRMask(maskLen, 32)).String()
}

// MaskToPrefix converts a dotted mask into a prefix length:
// "255.255.255.0" -> 24. Non-contiguous or invalid masks yield -1.
func MaskToPrefix(mask string) int {
	ip := net.ParseIP(mask).To4()
	if ip == nil {
		return -1
	}
	ones, bits := net.IPMask(ip).Size()
	if bits == 0 {
		return -1
	}
	return ones
}

// FormatRouteDistinguisher generates an RD from router ID and index
func FormatRouteDistinguisher(routerID string, index int) string {
	return fmt.Sprintf("%s:%d", routerID, index)
}

// FormatRouteTarget generates an RT from ASN and value
func FormatRouteTarget(asn, value int) string {
	return fmt.Sprintf("%d:%d", asn, value)
}
