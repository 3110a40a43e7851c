// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package decode

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rapidaai/audio-engine/engine/audio"
	"github.com/rapidaai/audio-engine/pkg/commons"
)

// Loader decodes several files concurrently. Decoding happens before
// rendering starts; the returned sources are handed to regions under
// exclusive ownership, never shared with an active render pass.
type Loader struct {
	logger commons.Logger
	limit  int
}

// NewLoader creates a loader running at most limit decodes at once.
func NewLoader(logger commons.Logger, limit int) *Loader {
	if limit <= 0 {
		limit = 4
	}
	return &Loader{logger: logger, limit: limit}
}

// Load decodes every path and returns the sources keyed by path. The
// first failure cancels the remaining work and is returned.
func (l *Loader) Load(ctx context.Context, paths []string) (map[string]*audio.Source, error) {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(l.limit)

	var mu sync.Mutex
	sources := make(map[string]*audio.Source, len(paths))

	for _, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := Decode(path, 0)
			if err != nil {
				l.logger.Errorw("Decode failed", "path", path, "error", err)
				return err
			}
			l.logger.Debugw("Decoded source",
				"path", path, "sampleRate", source.SampleRate,
				"channels", source.Channels, "samples", source.Samples())

			mu.Lock()
			sources[path] = source
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}
