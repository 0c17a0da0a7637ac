package audio

// TrackInfo is the observable state of one track.
type TrackInfo struct {
	ID        string
	Category  Category
	Intensity float64
	Recipe    string // Recipe of the live voice, empty while loading
	Loading   bool
	Stopping  bool
}

// Snapshot is a consistent view of the engine for display.
type Snapshot struct {
	Started    bool
	State      ContextState
	Time       float64
	Preset     PresetID
	Movement   float64
	Brightness float64
	Levels     BusLevels
	Tracks     []TrackInfo // Sorted by id
}

// Track returns the info for id, if it is playing.
func (s Snapshot) Track(id string) (TrackInfo, bool) {
	for _, t := range s.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return TrackInfo{}, false
}

// Snapshot returns the current engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Snapshot{
		Preset:     e.mods.Preset,
		Movement:   e.mods.Movement,
		Brightness: e.mods.Brightness,
		Levels:     e.levels,
	}
	if e.ctx != nil {
		s.Started = true
		s.State = e.ctx.State()
		s.Time = e.ctx.CurrentTime()
	}
	for _, id := range e.trackIDsLocked() {
		tr := e.tracks[id]
		info := TrackInfo{
			ID:        id,
			Category:  tr.sound.Category,
			Intensity: tr.intensity,
			Loading:   tr.pending != 0,
			Stopping:  tr.stopping(),
		}
		if tr.voice != nil {
			info.Recipe = tr.voice.Recipe
		}
		s.Tracks = append(s.Tracks, info)
	}
	return s
}
