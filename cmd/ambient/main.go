//go:build !js

// Command ambient mixes drones and atmospheres on the local audio device or
// renders a mix to a WAV file.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/simukka/ambience/audio"
	"github.com/simukka/ambience/audio/software"
)

var version = "0.1.0"

// Globals are the flags shared by every command.
type Globals struct {
	LogLevel   string `help:"Log level (debug, info, warn, error)" default:"info" enum:"debug,info,warn,error"`
	SampleRate int    `help:"Output sample rate in Hz" default:"44100"`
	Samples    string `help:"Sample root: a directory or an http(s) base URL. Without it every sound is synthesized."`
	Catalog    string `help:"JSON sound catalog to use instead of the built-in library" type:"existingfile"`
	Seed       uint32 `help:"Seed for noise and reverb; 0 picks one from the clock"`
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version information"`

	Play   PlayCmd   `cmd:"" default:"1" help:"Open the terminal mixer"`
	Render RenderCmd `cmd:"" help:"Render a mix to a WAV file"`
	Sounds SoundsCmd `cmd:"" help:"List the sound catalog"`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("ambient"),
		kong.Description("Ambient drone and atmosphere mixer"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "ambient: %v\n", err)
		os.Exit(1)
	}
}

// library returns the catalog to play from. Sample references are dropped
// when no sample root is configured.
func (g *Globals) library() ([]*audio.Sound, error) {
	sounds := audio.SoundLibrary
	if g.Catalog != "" {
		f, err := os.Open(g.Catalog)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if sounds, err = audio.LoadCatalog(f); err != nil {
			return nil, fmt.Errorf("%s: %w", g.Catalog, err)
		}
	}
	if g.Samples == "" {
		sounds = audio.StripSamples(sounds)
	}
	return sounds, nil
}

func (g *Globals) remoteSamples() bool {
	return strings.HasPrefix(g.Samples, "http://") || strings.HasPrefix(g.Samples, "https://")
}

// options builds engine options around a software context.
func (g *Globals) options(sc *software.Context, logger *slog.Logger, sched audio.Scheduler) audio.Options {
	opts := audio.Options{
		NewContext: func() (audio.Context, error) { return sc, nil },
		Scheduler:  sched,
		Seed:       g.Seed,
	}
	if logger != nil {
		opts.Logger = logger
	}
	switch {
	case g.Samples == "":
	case g.remoteSamples():
		opts.Fetcher = audio.NewNativeFetcher("")
		opts.BaseURL = strings.TrimSuffix(g.Samples, "/") + "/"
	default:
		opts.Fetcher = audio.NewNativeFetcher(g.Samples)
	}
	return opts
}
