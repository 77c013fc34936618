// Package privacy reduces client identifiers to a form that is safe to log.
package privacy

import "net/netip"

// AnonymizeIP truncates an address to its network prefix: /24 for IPv4 and
// /48 for IPv6. Unparseable input is reported as "invalid" rather than echoed.
//
// Example:
//
//	AnonymizeIP("203.0.113.77") // "203.0.113.0/24"
func AnonymizeIP(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()
	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.String()
}
