package engine

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process; handles share it and each owns a player.
var (
	otoMu   sync.Mutex
	otoCtx  *oto.Context
	otoRate int
	otoErr  error
)

func sharedOtoContext(sampleRate int, bufferSize time.Duration) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()
	if otoErr != nil {
		return nil, otoErr
	}
	if otoCtx != nil {
		if otoRate != sampleRate {
			return nil, fmt.Errorf("device already running at %d Hz, requested %d Hz", otoRate, sampleRate)
		}
		return otoCtx, nil
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		otoErr = err
		return nil, err
	}
	<-ready
	otoCtx = ctx
	otoRate = sampleRate
	return ctx, nil
}

// OtoBackend plays the pipeline on the default output device.
type OtoBackend struct {
	BufferSize time.Duration

	mu     sync.Mutex
	player *oto.Player
}

// NewOtoBackend creates a device backend with the given output latency.
func NewOtoBackend(bufferSize time.Duration) *OtoBackend {
	return &OtoBackend{BufferSize: bufferSize}
}

func (b *OtoBackend) Start(src io.Reader, sampleRate int) error {
	ctx, err := sharedOtoContext(sampleRate, b.BufferSize)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.player != nil {
		return fmt.Errorf("oto backend already started")
	}
	b.player = ctx.NewPlayer(src)
	b.player.Play()
	return nil
}

func (b *OtoBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.player == nil {
		return nil
	}
	p := b.player
	b.player = nil
	p.Pause()
	return p.Close()
}
