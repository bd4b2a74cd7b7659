package persist

import (
	"context"
	"fmt"

	"github.com/tordrt/dbcanvas/internal/logging"
	"github.com/tordrt/dbcanvas/internal/schema"
	"github.com/tordrt/dbcanvas/internal/store"
)

// Autosaver mirrors the current diagram into a storage slot
type Autosaver struct {
	slot   store.Slot
	key    string
	logger logging.Logger
}

// NewAutosaver returns an autosaver for key; an empty key uses DefaultKey.
// logger may be nil.
func NewAutosaver(slot store.Slot, key string, logger logging.Logger) *Autosaver {
	if key == "" {
		key = DefaultKey
	}
	return &Autosaver{slot: slot, key: key, logger: logger}
}

// Key returns the slot key
func (a *Autosaver) Key() string {
	return a.key
}

// Save overwrites the slot with the serialized diagram
func (a *Autosaver) Save(ctx context.Context, d schema.Diagram) error {
	data, err := Serialize(d)
	if err != nil {
		return err
	}
	if err := a.slot.Put(ctx, a.key, data); err != nil {
		return fmt.Errorf("failed to autosave %s: %w", a.key, err)
	}
	logging.Log(ctx, a.logger, logging.LevelDebug, "autosaved diagram",
		logging.Field{Key: "key", Value: a.key},
		logging.Field{Key: "bytes", Value: len(data)},
	)
	return nil
}

// Restore returns the saved diagram. An empty, unreadable or malformed slot
// yields the default diagram; the failure is logged, never returned.
func (a *Autosaver) Restore(ctx context.Context) schema.Diagram {
	data, ok, err := a.slot.Get(ctx, a.key)
	if err != nil {
		logging.Log(ctx, a.logger, logging.LevelWarning, "failed to read saved diagram, starting fresh",
			logging.Field{Key: "key", Value: a.key},
			logging.Field{Key: "error", Value: err},
		)
		return schema.DefaultDiagram()
	}
	if !ok {
		logging.Log(ctx, a.logger, logging.LevelInfo, "no saved diagram, starting fresh",
			logging.Field{Key: "key", Value: a.key},
		)
		return schema.DefaultDiagram()
	}

	d, err := Deserialize(data)
	if err != nil {
		logging.Log(ctx, a.logger, logging.LevelWarning, "saved diagram is malformed, starting fresh",
			logging.Field{Key: "key", Value: a.key},
			logging.Field{Key: "error", Value: err},
		)
		return schema.DefaultDiagram()
	}
	return d
}
