package transport

import "log"

const (
	// DefaultConnectionReadSize is the default buffer size (in bytes)
	// used for one read from a TCP connection.
	DefaultConnectionReadSize = 4096
	// DefaultDatagramReadSize is the default buffer size used for one
	// UDP or multicast datagram read; 64 KiB holds the largest possible
	// UDP payload. It is smaller than message.MaxPacketLen.
	DefaultDatagramReadSize = 1 << 16
)

// Config configures a listener.
type Config struct {
	logger        *log.Logger
	connReadSize  int
	datagramSize  int
	ifaceName     string
	joinMulticast bool
}

// Option sets up a Config.
type Option func(*Config)

// WithLogger sets the logger a listener reports connection and decode
// errors to. The default discards nothing; it uses log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

// WithConnectionReadSize sets the buffer size used for one read from a
// TCP connection. Bigger buffers mean fewer read syscalls at the cost
// of more memory per connection.
func WithConnectionReadSize(size int) Option {
	return func(c *Config) {
		c.connReadSize = size
	}
}

// WithDatagramReadSize sets the buffer size used for one UDP or
// multicast datagram read.
func WithDatagramReadSize(size int) Option {
	return func(c *Config) {
		c.datagramSize = size
	}
}

// WithInterface restricts multicast group membership to the named
// network interface instead of joining on every multicast-capable
// interface.
func WithInterface(name string) Option {
	return func(c *Config) {
		c.ifaceName = name
	}
}

// WithoutMulticast disables multicast group membership, leaving only
// the unicast TCP/UDP listeners. Useful for a test environment where
// joining a multicast group isn't possible.
func WithoutMulticast() Option {
	return func(c *Config) {
		c.joinMulticast = false
	}
}

func newConfig(opts []Option) Config {
	c := Config{
		logger:        log.Default(),
		connReadSize:  DefaultConnectionReadSize,
		datagramSize:  DefaultDatagramReadSize,
		joinMulticast: true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
