package cpu

// Action tells Step what to do after an interceptor ran.
type Action int

const (
	// Continue decodes and executes the instruction at PC as usual.
	Continue Action = iota
	// SkipInstruction means the interceptor handled this step, usually by
	// moving PC past a firmware routine.
	SkipInstruction
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case SkipInstruction:
		return "skip"
	default:
		return "unknown"
	}
}

// Interceptor is called when PC reaches the address it was registered at,
// before the instruction there is decoded.
type Interceptor func(c *CPU) Action
