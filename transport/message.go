package transport

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strconv"

	"github.com/gojoyn/alljoyn/internal/wire"
	"github.com/gojoyn/alljoyn/message"
)

// MessageListener accepts AllJoyn Message Protocol connections on TCP
// and reads datagrams on UDP, both on message.AllJoynPort, decoding
// each with a message.Decoder and reporting results through its
// Config's logger.
type MessageListener struct {
	cfg Config
	tcp net.Listener
	udp net.PacketConn
	dec *message.Decoder
}

// ListenMessage opens the TCP and UDP listeners for the Message
// Protocol on message.AllJoynPort and returns a MessageListener ready
// for Serve.
func ListenMessage(opts ...Option) (*MessageListener, error) {
	cfg := newConfig(opts)

	addr := net.JoinHostPort("", strconv.Itoa(message.AllJoynPort))
	tcp, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	udp, err := net.ListenPacket("udp", addr)
	if err != nil {
		_ = tcp.Close()
		return nil, err
	}

	return &MessageListener{
		cfg: cfg,
		tcp: tcp,
		udp: udp,
		dec: message.NewDecoder(),
	}, nil
}

// Close shuts down both the TCP and UDP sockets.
func (l *MessageListener) Close() error {
	tcpErr := l.tcp.Close()
	udpErr := l.udp.Close()
	if tcpErr != nil {
		return tcpErr
	}
	return udpErr
}

// Serve runs the TCP accept loop and the UDP datagram loop. It blocks
// until the TCP listener is closed; the UDP loop ends on its own when
// the UDP socket is closed.
func (l *MessageListener) Serve() {
	go l.serveUDP()
	l.serveTCP()
}

func (l *MessageListener) serveTCP() {
	for {
		conn, err := l.tcp.Accept()
		if err != nil {
			if isClosed(err) {
				return
			}
			l.cfg.logger.Printf("transport: accept: %v", err)
			continue
		}
		go l.serveConn(conn)
	}
}

// serveConn reads one TCP connection's worth of bytes, growing a
// pass-scoped buffer on NeedMore, decoding one message at a time, and
// discarding consumed bytes once no sub-decoder needs to rewind behind
// them.
func (l *MessageListener) serveConn(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReaderSize(conn, l.cfg.connReadSize)
	var data []byte
	offset := 0

	for {
		for offset < len(data) {
			res := l.dec.Dispatch(wire.NewBuffer(data), offset, &message.TreeEmitter{}, true)
			if res.Kind == message.Consumed || res.Kind == message.Drained {
				if res.Info != "" {
					l.cfg.logger.Print(res.Info)
				}
				offset += res.N
				continue
			}
			if res.Kind == message.NotOurs {
				return
			}
			break // NeedMore: read more bytes below.
		}

		if offset > 0 {
			data = append(data[:0], data[offset:]...)
			offset = 0
		}

		buf := make([]byte, l.cfg.connReadSize)
		n, err := r.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
		}
		if err != nil {
			if err != io.EOF {
				l.cfg.logger.Printf("transport: read: %v", err)
			}
			return
		}
	}
}

func (l *MessageListener) serveUDP() {
	buf := make([]byte, l.cfg.datagramSize)
	for {
		n, _, err := l.udp.ReadFrom(buf)
		if err != nil {
			if isClosed(err) {
				return
			}
			l.cfg.logger.Printf("transport: udp read: %v", err)
			continue
		}

		res := l.dec.Dispatch(wire.NewBuffer(buf[:n]), 0, &message.TreeEmitter{}, false)
		switch res.Kind {
		case message.Consumed, message.Drained:
			l.cfg.logger.Print(res.Info)
		}
	}
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
