package audio

// The interfaces in this file describe the subset of the Web Audio API the
// engine drives. Two implementations exist: audio/webaudio wraps a browser
// AudioContext, audio/software renders the same graph in pure Go.

// ContextState mirrors AudioContext.state.
type ContextState int

const (
	StateSuspended ContextState = iota
	StateRunning
	StateClosed
)

func (s ContextState) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ParseContextState maps an AudioContext.state string to a ContextState.
func ParseContextState(s string) ContextState {
	switch s {
	case "running":
		return StateRunning
	case "closed":
		return StateClosed
	default:
		return StateSuspended
	}
}

// OscillatorType is an OscillatorNode waveform.
type OscillatorType string

const (
	WaveSine     OscillatorType = "sine"
	WaveSquare   OscillatorType = "square"
	WaveSawtooth OscillatorType = "sawtooth"
	WaveTriangle OscillatorType = "triangle"
)

// FilterType is a BiquadFilterNode response.
type FilterType string

const (
	FilterLowpass  FilterType = "lowpass"
	FilterHighpass FilterType = "highpass"
	FilterBandpass FilterType = "bandpass"
	FilterAllpass  FilterType = "allpass"
)

// Param is an automatable node parameter (AudioParam).
// Times are in context seconds.
type Param interface {
	Value() float64
	SetValue(v float64)
	SetValueAtTime(v, t float64)
	LinearRampToValueAtTime(v, t float64)
	SetTargetAtTime(target, start, timeConstant float64)
	CancelScheduledValues(t float64)
}

// Node is a vertex of the processing graph.
// Disconnect removes every outgoing connection and is safe to repeat.
type Node interface {
	Connect(dst Node)
	ConnectParam(dst Param)
	Disconnect()
}

// SourceNode is a node that produces sound once started.
// Stop is safe to call more than once and before Start.
type SourceNode interface {
	Node
	Start()
	Stop()
}

type GainNode interface {
	Node
	Gain() Param
}

type OscillatorNode interface {
	SourceNode
	SetType(t OscillatorType)
	Frequency() Param
	Detune() Param
}

type FilterNode interface {
	Node
	SetType(t FilterType)
	Frequency() Param
	Q() Param
}

type BufferSourceNode interface {
	SourceNode
	SetBuffer(b Buffer)
	SetLoop(loop bool)
	PlaybackRate() Param
}

type ConvolverNode interface {
	Node
	SetBuffer(b Buffer)
}

// Buffer holds decoded or synthesized PCM frames.
type Buffer interface {
	SampleRate() float64
	Length() int
	NumberOfChannels() int
	CopyToChannel(src []float32, channel int)
}

// Decoder turns an encoded audio file into a Buffer.
type Decoder interface {
	DecodeAudioData(data []byte) (Buffer, error)
}

// Context is a processing context (AudioContext).
type Context interface {
	Decoder

	SampleRate() float64
	CurrentTime() float64
	State() ContextState
	Resume() error
	Suspend() error
	Close() error

	Destination() Node
	CreateGain() GainNode
	CreateOscillator() OscillatorNode
	CreateBiquadFilter() FilterNode
	CreateBufferSource() BufferSourceNode
	CreateConvolver() ConvolverNode
	CreateChannelMerger(inputs int) Node
	CreateBuffer(channels, length int, sampleRate float64) Buffer

	// Atomically applies every graph mutation made inside fn in the same
	// render quantum, so listeners never observe a partial change.
	Atomically(fn func())
}
