package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zim-audio/zim/internal/config"
	"github.com/zim-audio/zim/internal/decode"
	"github.com/zim-audio/zim/internal/mix"
	"github.com/zim-audio/zim/internal/output"
	"github.com/zim-audio/zim/internal/player"
	"github.com/zim-audio/zim/internal/tap"
	"github.com/zim-audio/zim/internal/ui"
)

// runPlayer implements `zim player [file]`: Player modal when a file
// is given, Browser modal rooted at cwd otherwise.
func runPlayer(ctx context.Context, file string) error {
	cfg, _, err := config.Load()
	if err != nil {
		return fatal(fmt.Errorf("loading config: %w", err))
	}

	root, err := os.Getwd()
	if err != nil {
		return fatal(err)
	}

	state := player.New()
	state.SetVolume(cfg.Volume)

	opener := newTrackOpener(ctx)

	var m *ui.Model
	if file == "" {
		state.OpenBrowser()
		m = ui.New(state, nil, nil, tap.New(8192), nil, "", root, &cfg, opener)
	} else {
		built, err := buildSingleTrackModel(ctx, state, file, root, &cfg, opener)
		if err != nil {
			return err
		}
		m = built
	}

	return runProgram(m)
}

// runPlay implements `zim play FILE1 [FILE2 [FILE3]]`.
func runPlay(ctx context.Context, files []string, gainsFlag, pansFlag string) error {
	cfg, _, err := config.Load()
	if err != nil {
		return fatal(fmt.Errorf("loading config: %w", err))
	}

	gains, err := mix.ParseGains(gainsFlag, len(files))
	if err != nil {
		return badArgs(err)
	}
	pans, err := mix.ParsePans(pansFlag, len(files))
	if err != nil {
		return badArgs(err)
	}

	decoders := make([]decode.Decoder, 0, len(files))
	tracks := make([]*mix.Track, 0, len(files))
	for i, f := range files {
		d, err := decode.Open(f)
		if err != nil {
			closeAll(decoders)
			return fatal(fmt.Errorf("opening %s: %w", f, err))
		}
		decoders = append(decoders, d)
		tracks = append(tracks, mix.NewTrack(d, gains[i], pans[i]))
	}

	mixer, err := mix.NewMixer(tracks...)
	if err != nil {
		closeAll(decoders)
		return fatal(err)
	}

	state := player.New()
	state.SetVolume(cfg.Volume)
	state.MultiTrack = mixer.TrackCount() > 1
	state.DurationSeconds = probeDurationFor(decoders[0])

	root, err := os.Getwd()
	if err != nil {
		closeAll(decoders)
		return fatal(err)
	}

	sampleTap := tap.New(8192)
	sink, err := output.New(ctx, mixer, sampleTap)
	if err != nil {
		closeAll(decoders)
		return fatal(fmt.Errorf("opening audio device: %w", err))
	}
	defer sink.Close()

	m := ui.New(state, mixer, sink, sampleTap, decoders, files[0], root, &cfg, nil) // fixed multi-track session: nothing to browse into
	return runProgram(m)
}

// buildSingleTrackModel opens one decoder/track/mixer/sink chain for
// the Player-modal single-file launch path.
func buildSingleTrackModel(ctx context.Context, state *player.State, file, root string, cfg *config.Config, opener ui.TrackOpener) (*ui.Model, error) {
	d, err := decode.Open(file)
	if err != nil {
		return nil, fatal(fmt.Errorf("opening %s: %w", file, err))
	}

	track := mix.NewTrack(d, mix.DefaultGain, mix.DefaultPan)
	mixer, err := mix.NewMixer(track)
	if err != nil {
		d.Close()
		return nil, fatal(err)
	}
	state.DurationSeconds = probeDurationFor(d)

	sampleTap := tap.New(8192)
	sink, err := output.New(ctx, mixer, sampleTap)
	if err != nil {
		d.Close()
		return nil, fatal(fmt.Errorf("opening audio device: %w", err))
	}

	return ui.New(state, mixer, sink, sampleTap, []decode.Decoder{d}, file, root, cfg, opener), nil
}

// newTrackOpener builds the single-track open chain the Browser modal
// invokes when the user picks a file: decode, wrap in a one-track
// Mixer, and start an output.Sink against a fresh tap, mirroring
// buildSingleTrackModel's own sequence.
func newTrackOpener(ctx context.Context) ui.TrackOpener {
	return func(path string) (*mix.Mixer, *output.Sink, []decode.Decoder, *tap.Tap, float32, error) {
		d, err := decode.Open(path)
		if err != nil {
			return nil, nil, nil, nil, 0, fmt.Errorf("opening %s: %w", path, err)
		}
		track := mix.NewTrack(d, mix.DefaultGain, mix.DefaultPan)
		mixer, err := mix.NewMixer(track)
		if err != nil {
			d.Close()
			return nil, nil, nil, nil, 0, err
		}
		duration := probeDurationFor(d)

		sampleTap := tap.New(8192)
		sink, err := output.New(ctx, mixer, sampleTap)
		if err != nil {
			d.Close()
			return nil, nil, nil, nil, 0, fmt.Errorf("opening audio device: %w", err)
		}
		return mixer, sink, []decode.Decoder{d}, sampleTap, duration, nil
	}
}

func probeDurationFor(d decode.Decoder) float32 {
	info := d.Info()
	if info.SampleRate == 0 {
		return 0
	}
	return float32(info.TotalFrames) / float32(info.SampleRate)
}

func closeAll(decoders []decode.Decoder) {
	for _, d := range decoders {
		d.Close()
	}
}

func runProgram(m *ui.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fatal(err)
	}
	return nil
}
