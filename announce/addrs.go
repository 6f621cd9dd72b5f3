package announce

import (
	"net"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LocalAddrs are the IPv4 addresses of the up, non-loopback interfaces.
func LocalAddrs() ([]net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, errors.Wrap(err, "interfaces")
	}
	var ips []net.IP
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		ips = append(ips, ipv4s(addrs)...)
	}
	return ips, nil
}

func ipv4s(addrs []net.Addr) []net.IP {
	var ips []net.IP
	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
			ips = append(ips, ip4)
		}
	}
	return ips
}

// LogAddrs logs the addresses found, warning if there are none.
func LogAddrs() {
	ips, err := LocalAddrs()
	if err != nil || len(ips) == 0 {
		log.Warn().Err(err).Msg("this machine has no IPv4 address, the speaker will not reach it")
		return
	}
	strs := make([]string, len(ips))
	for i, ip := range ips {
		strs[i] = ip.String()
	}
	log.Info().Int("count", len(ips)).Msg("found IP addresses")
	log.Debug().Strs("addrs", strs).Msg("IP addresses")
}
