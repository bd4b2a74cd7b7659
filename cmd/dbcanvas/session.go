package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tordrt/dbcanvas/internal/canvas"
	"github.com/tordrt/dbcanvas/internal/config"
	"github.com/tordrt/dbcanvas/internal/designer"
	"github.com/tordrt/dbcanvas/internal/persist"
	"github.com/tordrt/dbcanvas/internal/schema"
	"github.com/tordrt/dbcanvas/internal/store"
)

// session is one designer bound to the configured storage slot
type session struct {
	designer *designer.Designer
	slot     store.Slot
}

// blockingScheduler waits out the delay before running fn, so a staged
// deletion has completed by the time the command returns.
var blockingScheduler = designer.SchedulerFunc(func(d time.Duration, fn func()) {
	time.Sleep(d)
	fn()
})

func openSession(ctx context.Context, c *config.Config) (*session, error) {
	_, logger, err := newLogger(os.Stderr, c.LogFormat)
	if err != nil {
		return nil, err
	}

	slot, err := store.Open(ctx, c.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	d := designer.New(ctx, canvas.NewMemory(schema.Diagram{}),
		designer.WithAutosaver(persist.NewAutosaver(slot, c.Key, logger)),
		designer.WithLogger(logger),
		designer.WithScheduler(blockingScheduler),
		designer.WithDeletionDelay(c.DeletionDelay),
	)
	return &session{designer: d, slot: slot}, nil
}

func (s *session) Close() error {
	return s.slot.Close()
}
