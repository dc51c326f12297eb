package sci3

import (
	"context"
	"log/slog"
	"time"

	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/memory"
)

// SCR3 bits.
const (
	ControlTransmitInterrupt uint8 = 1 << 7
	ControlReceiveInterrupt  uint8 = 1 << 6
	ControlTransmitEnable    uint8 = 1 << 5
	ControlReceiveEnable     uint8 = 1 << 4
)

// SSR bits.
const (
	StatusTransmitEmpty uint8 = 1 << 7
	StatusReceiveFull   uint8 = 1 << 6
	StatusTransmitEnd   uint8 = 1 << 2
)

const (
	DefaultPacketTimeout = 5 * time.Millisecond
	DefaultPollInterval  = 2 * time.Millisecond

	defaultQueueSize = 4096
)

// sent is a transmitted byte stamped with the time Tick shifted it out.
type sent struct {
	value uint8
	at    time.Time
}

// SCI3 is the asynchronous serial interface behind the infrared port.
//
// Transmitted bytes are handed to an accumulator goroutine (Run) that groups
// them into packets: a packet ends when no byte has been sent for the packet
// timeout. Received bytes are queued by Receive and moved into RDR one per
// Tick.
type SCI3 struct {
	mem *memory.Memory
	now func() time.Time

	transmit chan sent
	receive  chan byte

	packetTimeout time.Duration
	pollInterval  time.Duration
	queueSize     int

	onPacket func([]byte)
}

type Option func(*SCI3)

// WithPacketTimeout sets the idle time that ends a packet.
func WithPacketTimeout(d time.Duration) Option {
	return func(s *SCI3) { s.packetTimeout = d }
}

// WithPollInterval sets how often the accumulator checks for an idle line.
func WithPollInterval(d time.Duration) Option {
	return func(s *SCI3) { s.pollInterval = d }
}

// WithQueueSize bounds the transmit and receive queues.
func WithQueueSize(n int) Option {
	return func(s *SCI3) { s.queueSize = n }
}

// New creates the interface and installs its register hooks in mem.
func New(mem *memory.Memory, opts ...Option) *SCI3 {
	s := &SCI3{
		mem:           mem,
		now:           time.Now,
		packetTimeout: DefaultPacketTimeout,
		pollInterval:  DefaultPollInterval,
		queueSize:     defaultQueueSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.transmit = make(chan sent, s.queueSize)
	s.receive = make(chan byte, s.queueSize)

	mem.OnRead(addr.RDR, func(uint32) {
		mem.ClearBits(addr.SSR, StatusReceiveFull)
	})
	mem.OnWrite(addr.TDR, func(uint32) {
		mem.ClearBits(addr.SSR, StatusTransmitEmpty|StatusTransmitEnd)
	})
	mem.AddReadOnlyAddress(addr.SSR)

	return s
}

// OnTransmitPacket sets the packet consumer. It must be set before Run
// starts and is called from the accumulator goroutine.
func (s *SCI3) OnTransmitPacket(fn func(packet []byte)) {
	s.onPacket = fn
}

// PacketTimeout returns the idle time that ends a packet.
func (s *SCI3) PacketTimeout() time.Duration {
	return s.packetTimeout
}

// Receive queues bytes from the link. Bytes that do not fit are dropped.
func (s *SCI3) Receive(data []byte) {
	for i, b := range data {
		select {
		case s.receive <- b:
		default:
			slog.Warn("SCI3 receive queue full, dropping bytes", "dropped", len(data)-i)
			return
		}
	}
}

// Tick moves one byte in each direction.
func (s *SCI3) Tick() {
	control := s.mem.PeekByte(addr.SCR3)

	if control&ControlTransmitEnable == 0 {
		s.mem.SetBits(addr.SSR, StatusTransmitEmpty)
	} else if s.mem.PeekByte(addr.SSR)&StatusTransmitEmpty == 0 {
		value := s.mem.PeekByte(addr.TDR)
		select {
		case s.transmit <- sent{value: value, at: s.now()}:
		default:
			slog.Warn("SCI3 transmit queue full, dropping byte")
		}
		s.mem.SetBits(addr.SSR, StatusTransmitEmpty|StatusTransmitEnd)
	}

	if control&ControlReceiveEnable != 0 && s.mem.PeekByte(addr.SSR)&StatusReceiveFull == 0 {
		select {
		case value := <-s.receive:
			s.mem.HardwareWriteByte(addr.RDR, value)
			s.mem.SetBits(addr.SSR, StatusReceiveFull)
		default:
		}
	}
}

// Run accumulates transmitted bytes into packets until ctx is cancelled.
// Bytes still buffered at that point are flushed as a final packet.
//
// Gaps are measured between the times Tick sent the bytes, so a slow packet
// consumer delays delivery but never merges packets.
func (s *SCI3) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var buffer []byte
	var last time.Time

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		packet := buffer
		buffer = nil
		slog.Info("Packet flushed", "size", len(packet))
		if s.onPacket != nil {
			s.onPacket(packet)
		}
	}

	add := func(b sent) {
		if len(buffer) > 0 && b.at.Sub(last) >= s.packetTimeout {
			flush()
		}
		buffer = append(buffer, b.value)
		last = b.at
	}

	// drain takes every byte already queued, so an idle check never runs
	// ahead of bytes sent in time.
	drain := func() {
		for {
			select {
			case b := <-s.transmit:
				add(b)
			default:
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			flush()
			return nil
		case b := <-s.transmit:
			add(b)
		case <-ticker.C:
			drain()
			if len(buffer) > 0 && s.now().Sub(last) >= s.packetTimeout {
				flush()
			}
		}
	}
}
