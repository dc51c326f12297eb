package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

const (
	DefaultReconnectInterval = 100 * time.Millisecond
	DefaultDialTimeout       = time.Second
	DefaultWriteTimeout      = 500 * time.Millisecond

	readBufferSize = 4096
)

// ErrNotConnected is returned by Send when there is no peer and no
// fallback sink.
var ErrNotConnected = errors.New("transport: not connected")

type Mode int

const (
	Client Mode = iota
	Server
)

func (m Mode) String() string {
	if m == Server {
		return "server"
	}
	return "client"
}

// Link carries infrared packets over TCP to another emulator. In client
// mode it dials the peer, in server mode it accepts one peer at a time.
// Either way it reconnects until its context is cancelled.
type Link struct {
	mode    Mode
	address string
	receive func([]byte)

	dialTimeout       time.Duration
	writeTimeout      time.Duration
	reconnectInterval time.Duration
	listener          net.Listener
	fallback          Sink

	mu   sync.Mutex
	conn net.Conn
}

type Option func(*Link)

// WithDialTimeout bounds each connection attempt in client mode.
func WithDialTimeout(d time.Duration) Option { return func(l *Link) { l.dialTimeout = d } }

// WithWriteTimeout bounds each Send.
func WithWriteTimeout(d time.Duration) Option { return func(l *Link) { l.writeTimeout = d } }

// WithReconnectInterval sets the wait between connection attempts.
func WithReconnectInterval(d time.Duration) Option {
	return func(l *Link) { l.reconnectInterval = d }
}

// WithListener makes a server accept on ln instead of listening on its
// address.
func WithListener(ln net.Listener) Option { return func(l *Link) { l.listener = ln } }

// WithFallback sets the sink used while no peer is connected.
func WithFallback(s Sink) Option { return func(l *Link) { l.fallback = s } }

// New creates a link. receive is called from the link goroutine with every
// chunk of bytes read from the peer.
func New(mode Mode, address string, receive func([]byte), opts ...Option) *Link {
	l := &Link{
		mode:              mode,
		address:           address,
		receive:           receive,
		dialTimeout:       DefaultDialTimeout,
		writeTimeout:      DefaultWriteTimeout,
		reconnectInterval: DefaultReconnectInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Connected reports whether a peer is attached.
func (l *Link) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn != nil
}

// Send writes packet to the peer, or to the fallback sink when there is
// none. A failed write drops the connection.
func (l *Link) Send(packet []byte) error {
	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()

	if conn == nil {
		if l.fallback != nil {
			return l.fallback.Send(packet)
		}
		return ErrNotConnected
	}

	if err := conn.SetWriteDeadline(time.Now().Add(l.writeTimeout)); err != nil {
		return fmt.Errorf("transport: set deadline: %w", err)
	}
	if _, err := conn.Write(packet); err != nil {
		conn.Close()
		return fmt.Errorf("transport: send: %w", err)
	}
	return nil
}

// Run keeps the link connected until ctx is cancelled.
func (l *Link) Run(ctx context.Context) error {
	if l.mode == Server && l.listener == nil {
		var lc net.ListenConfig
		ln, err := lc.Listen(ctx, "tcp", l.address)
		if err != nil {
			return fmt.Errorf("transport: listen %s: %w", l.address, err)
		}
		l.listener = ln
	}
	if l.listener != nil {
		stop := context.AfterFunc(ctx, func() { l.listener.Close() })
		defer stop()
		defer l.listener.Close()
		slog.Info("Waiting for peer", "address", l.listener.Addr().String())
	} else {
		slog.Info("Connecting to peer", "address", l.address)
	}

	for {
		conn, err := l.connect(ctx)
		if err == nil {
			l.serve(ctx, conn)
		} else if ctx.Err() == nil {
			slog.Debug("Connection attempt failed", "mode", l.mode, "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.reconnectInterval):
		}
	}
}

func (l *Link) connect(ctx context.Context) (net.Conn, error) {
	if l.mode == Server {
		return l.listener.Accept()
	}
	d := net.Dialer{Timeout: l.dialTimeout}
	return d.DialContext(ctx, "tcp", l.address)
}

// serve reads from conn until it fails or ctx is cancelled.
func (l *Link) serve(ctx context.Context, conn net.Conn) {
	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
	slog.Info("Peer connected", "mode", l.mode, "remote", conn.RemoteAddr().String())

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 && l.receive != nil {
			data := make([]byte, n)
			copy(data, buf[:n])
			l.receive(data)
		}
		if err != nil {
			break
		}
	}

	conn.Close()
	l.mu.Lock()
	l.conn = nil
	l.mu.Unlock()
	slog.Info("Peer disconnected", "mode", l.mode)
}
