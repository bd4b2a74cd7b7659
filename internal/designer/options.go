package designer

import (
	"math/rand"
	"time"

	"github.com/tordrt/dbcanvas/internal/logging"
	"github.com/tordrt/dbcanvas/internal/persist"
	"github.com/tordrt/dbcanvas/internal/reorder"
	"github.com/tordrt/dbcanvas/internal/schema"
)

// DeletionDelay is how long a table stays marked for removal before it is
// taken off the canvas. It matches the fade-out animation.
const DeletionDelay = 250 * time.Millisecond

// Scheduler runs fn once after d
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// SchedulerFunc adapts a function to a Scheduler
type SchedulerFunc func(d time.Duration, fn func())

// AfterFunc implements Scheduler
func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) {
	f(d, fn)
}

// TimerScheduler runs callbacks on the runtime timer
var TimerScheduler = SchedulerFunc(func(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
})

// Placer picks the position of a newly added table
type Placer func() schema.Position

// RandomPlacer scatters new tables within a 400x400 square
func RandomPlacer() schema.Position {
	return schema.Position{X: rand.Float64() * 400, Y: rand.Float64() * 400}
}

// GeometryFunc returns the row geometry of the table rendered for a node
type GeometryFunc func(nodeID string) reorder.Geometry

// Option configures a Designer
type Option func(*Designer)

// WithAutosaver restores from and saves every change to a
func WithAutosaver(a *persist.Autosaver) Option {
	return func(d *Designer) { d.saver = a }
}

// WithLogger sets the logger; nil disables logging
func WithLogger(l logging.Logger) Option {
	return func(d *Designer) { d.logger = l }
}

// WithScheduler replaces the timer used for staged deletion
func WithScheduler(s Scheduler) Option {
	return func(d *Designer) { d.scheduler = s }
}

// WithDeletionDelay overrides DeletionDelay
func WithDeletionDelay(delay time.Duration) Option {
	return func(d *Designer) { d.delay = delay }
}

// WithPlacer overrides RandomPlacer
func WithPlacer(p Placer) Option {
	return func(d *Designer) { d.placer = p }
}

// WithGeometry supplies row geometry for drag reordering
func WithGeometry(g GeometryFunc) Option {
	return func(d *Designer) { d.geometry = g }
}
