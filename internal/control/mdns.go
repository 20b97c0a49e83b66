// ABOUTME: LAN advertisement of the control endpoint
// ABOUTME: Publishes _glint._tcp over mDNS so senders can find the session
package control

import (
	"fmt"
	"net"

	"github.com/hashicorp/mdns"
)

type mdnsServer = mdns.Server

// advertise publishes the control endpoint as _glint._tcp.
func advertise(name string, port int) (*mdns.Server, error) {
	ips, err := localIPs()
	if err != nil {
		return nil, fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		name,
		"_glint._tcp",
		"",
		"",
		port,
		ips,
		[]string{"path=/glint"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	return mdns.NewServer(&mdns.Config{Zone: service})
}

// localIPs returns the addresses of the up, non-loopback interfaces.
func localIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsLoopback() {
				continue
			}
			ips = append(ips, ip)
		}
	}

	if len(ips) == 0 {
		return nil, fmt.Errorf("no usable network interfaces")
	}
	return ips, nil
}
