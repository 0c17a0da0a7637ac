package audio

// voiceKey captures the inputs a voice was built from. A track whose key
// differs from the current one needs a new voice.
type voiceKey struct {
	sample bool
	mods   Modifiers
}

// Track is the engine's live state for one playing sound.
type Track struct {
	sound     *Sound
	intensity float64
	gain      GainNode

	voice    *Voice
	builtFor voiceKey

	// generation increases with every build request and on removal; a build
	// only attaches if it still carries the current generation.
	generation uint64
	// pending is the generation of an in-flight sample build, 0 if none.
	pending    uint64
	pendingKey voiceKey

	teardown Timer
	stopSeq  uint64
	// teardownAt is the context time the fade-out completes. While the
	// context is suspended the timer is held and teardownAt is kept.
	teardownAt   float64
	teardownHeld bool
}

func (t *Track) cancelTeardown() {
	if t.teardown != nil {
		t.teardown.Stop()
		t.teardown = nil
	}
	t.teardownHeld = false
}

// holdTeardown stops the timer but keeps the track stopping.
func (t *Track) holdTeardown() {
	if t.teardown != nil {
		t.teardown.Stop()
		t.teardown = nil
		t.teardownHeld = true
	}
}

// stopping reports whether the track is fading out toward teardown.
func (t *Track) stopping() bool {
	return t.intensity == 0 && (t.teardown != nil || t.teardownHeld)
}
