package audio

import "errors"

var (
	// ErrLoadFailed is returned when a sample could not be fetched.
	ErrLoadFailed = errors.New("audio: sample load failed")
	// ErrDecodeFailed is returned when fetched bytes are not decodable audio.
	ErrDecodeFailed = errors.New("audio: sample decode failed")
	// ErrNoAudioContext is returned when no processing context can be created.
	ErrNoAudioContext = errors.New("audio: no audio context available")
	// ErrUnknownSound is returned for an id that is not in the catalog.
	ErrUnknownSound = errors.New("audio: unknown sound")
	// ErrInvalidCatalog is returned for a malformed sound catalog.
	ErrInvalidCatalog = errors.New("audio: invalid catalog")
)
