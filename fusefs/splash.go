package fusefs

import "net"

// firstNonLoopbackIPv4 returns the first non-loopback IPv4 address
// found among the host's network interfaces, or "" if none is
// configured.
func firstNonLoopbackIPv4() string {
	var (
		addrs []net.Addr
		addr  net.Addr
		ipnet *net.IPNet
		ip    net.IP
		ok    bool
		err   error
	)

	addrs, err = net.InterfaceAddrs()
	if err != nil {
		return ""
	}

	for _, addr = range addrs {
		ipnet, ok = addr.(*net.IPNet)
		if !ok {
			continue
		}

		ip = ipnet.IP.To4()
		if ip == nil || ip.IsLoopback() {
			continue
		}

		return ip.String()
	}

	return ""
}
