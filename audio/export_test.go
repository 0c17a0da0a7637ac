package audio

func (e *Engine) TrackGain(id string) GainNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tr, ok := e.tracks[id]; ok {
		return tr.gain
	}
	return nil
}

func (e *Engine) TrackVoice(id string) *Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tr, ok := e.tracks[id]; ok {
		return tr.voice
	}
	return nil
}

func (e *Engine) BusNodes() (master, tonal, atmosphere, reverbSend GainNode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bus.master, e.bus.tonal, e.bus.atmosphere, e.bus.reverbSend
}

func (b *Bus) Reverb() ConvolverNode { return b.reverb }

func (b *Bus) Gains() (master, tonal, atmosphere, reverbSend GainNode) {
	return b.master, b.tonal, b.atmosphere, b.reverbSend
}

func (v *Voice) Sources() []SourceNode { return v.sources }
func (v *Voice) Nodes() []Node         { return v.nodes }
