// Package privacy masks personal data before it reaches logs. Citizen IDs,
// folder emails and client addresses are personal data under Ley 1581 de 2012.
package privacy

import (
	"net/netip"
	"strings"
)

// MaskCitizenID keeps the last four characters of a citizen ID
// ("1020304050" -> "******4050"). IDs of four characters or fewer are fully masked.
func MaskCitizenID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 4 {
		return strings.Repeat("*", len(id))
	}
	return strings.Repeat("*", len(id)-4) + id[len(id)-4:]
}

// MaskFolderEmail masks the citizen ID embedded in a folder email
// ("ana.gomez.1020304050@carpetacolombia.co" -> "ana.gomez.******4050@carpetacolombia.co").
func MaskFolderEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return MaskCitizenID(email)
	}
	dot := strings.LastIndexByte(local, '.')
	return local[:dot+1] + MaskCitizenID(local[dot+1:]) + "@" + domain
}

// AnonymizeIP keeps the network part of an address: /24 for IPv4 (and
// IPv4-mapped IPv6), /48 for IPv6. Empty input yields "unknown" and
// unparseable input "invalid".
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.WithZone("").Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}
