package transport

import (
	"net"
	"strconv"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/gojoyn/alljoyn/internal/wire"
	"github.com/gojoyn/alljoyn/message"
	"github.com/gojoyn/alljoyn/nameservice"
)

// MulticastGroupIPv4 is AllJoyn's well-known IPv4 Name Service
// discovery group.
var MulticastGroupIPv4 = net.IPv4(224, 0, 0, 113)

// MulticastGroupIPv6 is AllJoyn's well-known IPv6 Name Service
// discovery group.
var MulticastGroupIPv6 = net.ParseIP("ff03::113")

// NameServiceListener reads WHO-HAS/IS-AT datagrams on
// nameservice.AllJoynPort over UDP unicast and, unless disabled, IPv4
// and IPv6 multicast.
type NameServiceListener struct {
	cfg   Config
	udp   net.PacketConn
	pconn *ipv4.PacketConn
	p6    *ipv6.PacketConn
}

// ListenNameService opens the UDP socket for the Name Service Protocol
// and, unless WithoutMulticast was given, joins AllJoyn's well-known
// multicast groups on every multicast-capable interface (or the one
// named by WithInterface).
func ListenNameService(opts ...Option) (*NameServiceListener, error) {
	cfg := newConfig(opts)

	addr := net.JoinHostPort("", strconv.Itoa(nameservice.AllJoynPort))
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, err
	}

	l := &NameServiceListener{cfg: cfg, udp: conn}
	if !cfg.joinMulticast {
		return l, nil
	}

	ifaces, err := multicastInterfaces(cfg.ifaceName)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	l.pconn = ipv4.NewPacketConn(conn)
	l.p6 = ipv6.NewPacketConn(conn)
	for _, ifi := range ifaces {
		ifi := ifi
		if err := l.pconn.JoinGroup(&ifi, &net.UDPAddr{IP: MulticastGroupIPv4}); err != nil {
			cfg.logger.Printf("transport: join IPv4 group on %s: %v", ifi.Name, err)
		}
		if err := l.p6.JoinGroup(&ifi, &net.UDPAddr{IP: MulticastGroupIPv6}); err != nil {
			cfg.logger.Printf("transport: join IPv6 group on %s: %v", ifi.Name, err)
		}
	}

	return l, nil
}

func multicastInterfaces(name string) ([]net.Interface, error) {
	if name != "" {
		ifi, err := net.InterfaceByName(name)
		if err != nil {
			return nil, err
		}
		return []net.Interface{*ifi}, nil
	}

	all, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var usable []net.Interface
	for _, ifi := range all {
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagMulticast == 0 {
			continue
		}
		usable = append(usable, ifi)
	}
	return usable, nil
}

// Close shuts down the underlying socket.
func (l *NameServiceListener) Close() error {
	return l.udp.Close()
}

// Serve reads datagrams until the socket is closed, decoding each with
// nameservice.Decode and logging its info text.
func (l *NameServiceListener) Serve() {
	buf := make([]byte, l.cfg.datagramSize)
	for {
		n, _, err := l.udp.ReadFrom(buf)
		if err != nil {
			if isClosed(err) {
				return
			}
			l.cfg.logger.Printf("transport: ns read: %v", err)
			continue
		}

		res := nameservice.Decode(wire.NewBuffer(buf[:n]), 0, &message.TreeEmitter{})
		switch res.Kind {
		case message.Consumed, message.Drained:
			l.cfg.logger.Print(res.Info)
		}
	}
}
