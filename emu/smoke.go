package emu

import (
	"context"
	"hash/fnv"

	"golang.org/x/sync/errgroup"

	"nescore/emu/log"
	"nescore/ines"
)

// SmokeResult reports how far a rom ran.
type SmokeResult struct {
	Rom    string
	Frames int    // frames completed
	Hash   uint64 // FNV-1a hash of the last frame pixels
	Err    error  // load failure or CPU fault
}

// Smoke runs frames frames of each rom, with up to parallel consoles running
// at once. Consoles share nothing. A rom failing doesn't stop the others; the
// returned error is only set if ctx is canceled.
func Smoke(ctx context.Context, roms []string, frames, parallel int) ([]SmokeResult, error) {
	results := make([]SmokeResult, len(roms))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, path := range roms {
		i, path := i, path
		g.Go(func() error {
			results[i] = smokeOne(ctx, path, frames)
			return ctx.Err()
		})
	}
	err := g.Wait()
	return results, err
}

func smokeOne(ctx context.Context, path string, frames int) SmokeResult {
	res := SmokeResult{Rom: path}

	rom, err := ines.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	nes, err := PowerUp(rom)
	if err != nil {
		res.Err = err
		return res
	}

	for res.Frames < frames {
		if ctx.Err() != nil {
			break
		}
		if err := nes.RunOneFrame(); err != nil {
			res.Err = err
			break
		}
		res.Frames++
	}

	h := fnv.New64a()
	h.Write(nes.PPU.Output().Pix)
	res.Hash = h.Sum64()

	log.ModEmu.InfoZ("smoke run done").
		String("rom", path).
		Int("frames", res.Frames).
		Hex32("hash", uint32(res.Hash)).
		End()
	return res
}
