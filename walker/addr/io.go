package addr

// interrupt controller registers
const (
	// Interrupt enable register 1 (IRQ0, IRQ1, RTC).
	IENR1 uint16 = 0xFFF3
	// Interrupt enable register 2 (Timer B1).
	IENR2 uint16 = 0xFFF4
	// Interrupt flag register 1.
	IRR1 uint16 = 0xFFF6
	// Interrupt flag register 2.
	IRR2 uint16 = 0xFFF7
)

// clock stop (standby control) registers
const (
	CKSTPR1 uint16 = 0xFFFA
	CKSTPR2 uint16 = 0xFFFB
)

// RTC registers, values are BCD.
const (
	RTCFlag   uint16 = 0xF067
	RTCSecond uint16 = 0xF068
	RTCMinute uint16 = 0xF069
	RTCHour   uint16 = 0xF06A
	RTCDay    uint16 = 0xF06B
)

// Timer B1 registers
const (
	TMB1 uint16 = 0xF0D0 // mode
	TCB1 uint16 = 0xF0D1 // counter, writes set the reload value
)

// SSU (synchronous serial unit) registers
const (
	SSMR  uint16 = 0xF0E2 // mode, bits 2-0 select the clock
	SSER  uint16 = 0xF0E3 // enable
	SSSR  uint16 = 0xF0E4 // status
	SSRDR uint16 = 0xF0E9 // receive data
	SSTDR uint16 = 0xF0EB // transmit data
)

// Timer W registers
const (
	TMRW  uint16 = 0xF0F0 // mode
	TCRW  uint16 = 0xF0F1 // control
	TIERW uint16 = 0xF0F2 // interrupt enable
	TSRW  uint16 = 0xF0F3 // status
	TCNT  uint16 = 0xF0F6 // counter (16 bit)
	GRA   uint16 = 0xF0F8
	GRB   uint16 = 0xF0FA
	GRC   uint16 = 0xF0FC
	GRD   uint16 = 0xF0FE
)

// SCI3 (asynchronous serial) registers
const (
	SCR3 uint16 = 0xFF9A // control
	TDR  uint16 = 0xFF9B // transmit data
	SSR  uint16 = 0xFF9C // status, read-only to the CPU
	RDR  uint16 = 0xFF9D // receive data
)

// A/D converter registers
const (
	ADRR uint16 = 0xFFBC // result (16 bit, left aligned)
	AMR  uint16 = 0xFFBE // mode, bits 3-0 select the channel
	ADSR uint16 = 0xFFBF // start/status
)

// I/O port data registers
const (
	PDR1 uint16 = 0xFFD4
	PDR3 uint16 = 0xFFD6
	PDR8 uint16 = 0xFFDB
	PDR9 uint16 = 0xFFDC
	PDRB uint16 = 0xFFDE
)

// firmware data
const (
	// ROMSignature holds the "nintendo" marker in the PokeWalker ROM.
	ROMSignature uint16 = 0xBF98
	// Watts is the 16 bit watt counter in RAM.
	Watts uint16 = 0xF78E
)
