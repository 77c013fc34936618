package metadata

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"rotunda/pkg/requestcontext"
)

// ClientMetadata extracts client IP address and User-Agent from the request
// and adds them to the context for use by handlers, rate limiting and logging.
// No proxy is trusted, so the client IP is always the connection's peer.
// This middleware should be applied early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return NewClientMetadata(nil)(next)
}

// NewClientMetadata is ClientMetadata that honours X-Forwarded-For and
// X-Real-IP when the connection comes from one of the trusted prefixes.
func NewClientMetadata(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r, trusted), r.Header.Get("User-Agent"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParsePrefixes converts CIDR strings into prefixes.
func ParsePrefixes(cidrs []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(cidrs))
	for _, v := range cidrs {
		p, err := netip.ParsePrefix(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		out = append(out, p.Masked())
	}
	return out, nil
}

// ClientIPFromRequest resolves the client IP. Forwarding headers are read
// only when RemoteAddr is a trusted proxy; the X-Forwarded-For chain is then
// walked right to left and the first hop outside the trusted set wins.
func ClientIPFromRequest(r *http.Request, trusted []netip.Prefix) string {
	remote := remoteHost(r.RemoteAddr)
	if remote == "" {
		return "unknown"
	}
	peer, err := netip.ParseAddr(remote)
	if err != nil || !isTrusted(peer, trusted) {
		return remote
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		client := ""
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			client = hop.Unmap().String()
			if !isTrusted(hop, trusted) {
				return client
			}
		}
		if client != "" {
			return client
		}
	}

	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}
	return remote
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// remoteHost strips the port from "ip:port" or "[::1]:port".
func remoteHost(addr string) string {
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}
