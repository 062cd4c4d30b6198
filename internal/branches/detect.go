package branches

import (
	"net"
	"strings"
)

// DetectionStatus is the outcome of resolving a request host to a branch.
type DetectionStatus string

const (
	// DetectionNone means the host does not address a branch.
	DetectionNone DetectionStatus = "none"
	// DetectionFound means the host named an active branch.
	DetectionFound DetectionStatus = "found"
	// DetectionNotFound means the host is subdomain shaped but no active
	// branch carries that subdomain.
	DetectionNotFound DetectionStatus = "not_found"
)

// ParseSubdomain extracts the branch subdomain from a host name. Hosts with
// fewer than three labels, whose first label is "www" or "localhost", or
// that are IP literals do not carry one. A trailing port is ignored.
func ParseSubdomain(host string) (string, bool) {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	if host == "" || net.ParseIP(host) != nil {
		return "", false
	}

	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return "", false
	}
	first := labels[0]
	if first == "" || first == "www" || first == "localhost" {
		return "", false
	}
	return first, true
}
