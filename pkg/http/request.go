package http

import (
	"net/http"
	"net/netip"
	"strings"
)

// IPConfig names the proxy networks whose forwarding headers are
// believable. Anything else claiming X-Forwarded-For is lying.
type IPConfig struct {
	TrustedProxies []string // CIDR ranges
}

// ExtractClientIP resolves the originating client address. Forwarding
// headers count only when the direct peer is a trusted proxy; otherwise
// the socket address wins, so clients cannot spoof their way past
// per-IP rate buckets or audit logs.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	peer := peerAddr(r)

	if config == nil || !addrInAny(peer, config.TrustedProxies) {
		return peer
	}

	for _, candidate := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		candidate = strings.TrimSpace(candidate)
		if _, err := netip.ParseAddr(candidate); err == nil {
			return candidate
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}

	return peer
}

// peerAddr strips the port from RemoteAddr.
func peerAddr(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if addrPort, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return addrPort.Addr().String()
	}
	return r.RemoteAddr
}

func addrInAny(ip string, cidrs []string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	for _, cidr := range cidrs {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			// Misconfigured ranges never widen trust
			continue
		}
		if prefix.Contains(addr) {
			return true
		}
	}

	return false
}
