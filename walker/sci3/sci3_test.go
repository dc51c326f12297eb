package sci3

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/memory"
)

// send writes a byte to TDR the way the firmware does and ticks it out.
func send(s *SCI3, mem *memory.Memory, value uint8) {
	mem.WriteByte(addr.TDR, value)
	s.Tick()
}

func startAccumulator(t *testing.T, s *SCI3) <-chan []byte {
	t.Helper()
	packets := make(chan []byte, 8)
	s.OnTransmitPacket(func(p []byte) { packets <- p })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, s.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return packets
}

func waitPacket(t *testing.T, packets <-chan []byte) []byte {
	t.Helper()
	select {
	case p := <-packets:
		return p
	case <-time.After(time.Second):
		t.Fatal("no packet flushed")
		return nil
	}
}

func TestTransmit(t *testing.T) {
	mem := memory.New("ram")
	s := New(mem)
	mem.WriteByte(addr.SCR3, ControlTransmitEnable)

	mem.WriteByte(addr.TDR, 0xAA)
	assert.Zero(t, mem.PeekByte(addr.SSR)&StatusTransmitEmpty)

	s.Tick()
	assert.NotZero(t, mem.PeekByte(addr.SSR)&StatusTransmitEmpty)
	assert.NotZero(t, mem.PeekByte(addr.SSR)&StatusTransmitEnd)
	b := <-s.transmit
	assert.Equal(t, byte(0xAA), b.value)
	assert.False(t, b.at.IsZero())

	s.Tick()
	assert.Empty(t, s.transmit, "an empty TDR is not sent twice")
}

func TestTransmitDisabledSetsEmpty(t *testing.T) {
	mem := memory.New("ram")
	s := New(mem)
	s.Tick()
	assert.NotZero(t, mem.PeekByte(addr.SSR)&StatusTransmitEmpty)
}

func TestStatusIsReadOnly(t *testing.T) {
	mem := memory.New("ram")
	New(mem)
	mem.WriteByte(addr.SSR, 0xFF)
	assert.Zero(t, mem.PeekByte(addr.SSR))
}

func TestReceive(t *testing.T) {
	mem := memory.New("ram")
	s := New(mem)
	mem.WriteByte(addr.SCR3, ControlReceiveEnable)

	s.Receive([]byte{0x01, 0x02})

	s.Tick()
	assert.NotZero(t, mem.PeekByte(addr.SSR)&StatusReceiveFull)
	assert.Equal(t, uint8(0x01), mem.PeekByte(addr.RDR))

	s.Tick()
	assert.Equal(t, uint8(0x01), mem.PeekByte(addr.RDR), "held until RDR is read")

	assert.Equal(t, uint8(0x01), mem.ReadByte(addr.RDR))
	assert.Zero(t, mem.PeekByte(addr.SSR)&StatusReceiveFull)

	s.Tick()
	assert.Equal(t, uint8(0x02), mem.ReadByte(addr.RDR))

	s.Tick()
	assert.Zero(t, mem.PeekByte(addr.SSR)&StatusReceiveFull, "queue drained")
}

func TestReceiveDropsWhenFull(t *testing.T) {
	mem := memory.New("ram")
	s := New(mem, WithQueueSize(2))
	s.Receive([]byte{1, 2, 3, 4})
	assert.Len(t, s.receive, 2)
}

func TestAccumulator(t *testing.T) {
	const timeout = 20 * time.Millisecond

	t.Run("close bytes form one packet", func(t *testing.T) {
		mem := memory.New("ram")
		s := New(mem, WithPacketTimeout(timeout), WithPollInterval(time.Millisecond))
		mem.WriteByte(addr.SCR3, ControlTransmitEnable)
		packets := startAccumulator(t, s)

		for _, b := range []uint8{0x10, 0x20, 0x30} {
			send(s, mem, b)
		}

		assert.Equal(t, []byte{0x10, 0x20, 0x30}, waitPacket(t, packets))
	})

	t.Run("a gap splits packets", func(t *testing.T) {
		mem := memory.New("ram")
		s := New(mem, WithPacketTimeout(timeout), WithPollInterval(time.Millisecond))
		mem.WriteByte(addr.SCR3, ControlTransmitEnable)
		packets := startAccumulator(t, s)

		send(s, mem, 0x01)
		send(s, mem, 0x02)
		time.Sleep(3 * timeout)
		send(s, mem, 0x03)

		assert.Equal(t, []byte{0x01, 0x02}, waitPacket(t, packets))
		assert.Equal(t, []byte{0x03}, waitPacket(t, packets))
	})

	t.Run("cancel flushes what is buffered", func(t *testing.T) {
		mem := memory.New("ram")
		s := New(mem, WithPacketTimeout(time.Hour))
		mem.WriteByte(addr.SCR3, ControlTransmitEnable)

		var got []byte
		s.OnTransmitPacket(func(p []byte) { got = p })
		send(s, mem, 0x7F)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- s.Run(ctx) }()

		require.Eventually(t, func() bool { return len(s.transmit) == 0 }, time.Second, time.Millisecond)
		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, []byte{0x7F}, got)
	})

	t.Run("gaps are measured when bytes are sent", func(t *testing.T) {
		mem := memory.New("ram")
		s := New(mem, WithPacketTimeout(timeout), WithPollInterval(time.Millisecond))
		mem.WriteByte(addr.SCR3, ControlTransmitEnable)

		// the first packet's consumer stalls while the firmware keeps sending
		blocked := make(chan struct{})
		release := make(chan struct{})
		packets := make(chan []byte, 8)
		s.OnTransmitPacket(func(p []byte) {
			if len(packets) == 0 && p[0] == 0x01 {
				close(blocked)
				<-release
			}
			packets <- p
		})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- s.Run(ctx) }()
		defer func() {
			cancel()
			require.NoError(t, <-done)
		}()

		send(s, mem, 0x01)
		<-blocked
		send(s, mem, 0x02)
		time.Sleep(3 * timeout)
		send(s, mem, 0x03)
		close(release)

		assert.Equal(t, []byte{0x01}, waitPacket(t, packets))
		assert.Equal(t, []byte{0x02}, waitPacket(t, packets))
		assert.Equal(t, []byte{0x03}, waitPacket(t, packets))
	})

	t.Run("queued bytes are taken before an idle check", func(t *testing.T) {
		mem := memory.New("ram")
		s := New(mem, WithPacketTimeout(timeout), WithPollInterval(time.Millisecond))
		mem.WriteByte(addr.SCR3, ControlTransmitEnable)

		// both bytes are queued before the accumulator starts, with their
		// send times close together
		send(s, mem, 0x0A)
		send(s, mem, 0x0B)
		time.Sleep(3 * timeout)

		packets := startAccumulator(t, s)
		assert.Equal(t, []byte{0x0A, 0x0B}, waitPacket(t, packets))
	})

	assert.Equal(t, DefaultPacketTimeout, New(memory.New("ram")).PacketTimeout())
}
