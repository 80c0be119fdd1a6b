// Package hal holds motion controller implementations that run without vehicle hardware.
package hal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/autopeer-io/rover/internal/rover/core"
	"github.com/autopeer-io/rover/pkg/log"
)

// ErrNotConnected is returned by every motion or ping call made outside Connect/Disconnect.
var ErrNotConnected = errors.New("simulator not connected")

// Room describes the rectangular area the simulated vehicle drives in.
// The origin is the lower-left corner; heading 0 points along +Y and grows clockwise.
type Room struct {
	Width float64
	Depth float64
}

// Pose is a position inside the room plus a heading in degrees.
type Pose struct {
	X       float64
	Y       float64
	Heading float64
}

// Simulator is a core.Controller that moves a point through an empty rectangular room.
// Moves stop at the walls; pings return the ray distance to the wall on that side.
type Simulator struct {
	room  Room
	start Pose
	// latency is added to every call to mimic the serial link of a real controller.
	latency time.Duration

	mu        sync.Mutex
	pose      Pose
	connected bool
	observers []core.Observer
}

var _ core.Controller = (*Simulator)(nil)

// NewSimulator validates the room and start pose and returns a disconnected simulator.
func NewSimulator(room Room, start Pose, latency time.Duration) (*Simulator, error) {
	if room.Width <= 0 || room.Depth <= 0 {
		return nil, fmt.Errorf("room must have a positive size, got %vx%v", room.Width, room.Depth)
	}
	if start.X < 0 || start.X > room.Width || start.Y < 0 || start.Y > room.Depth {
		return nil, fmt.Errorf("start position (%v,%v) is outside the room", start.X, start.Y)
	}
	start.Heading = normalize(start.Heading)
	return &Simulator{
		room:    room,
		start:   start,
		latency: latency,
		pose:    start,
	}, nil
}

func (s *Simulator) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = true
	s.pose = s.start
	log.Info("Simulator connected", "width", s.room.Width, "depth", s.room.Depth, "x", s.pose.X, "y", s.pose.Y, "heading", s.pose.Heading)
	return nil
}

func (s *Simulator) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = false
	log.Info("Simulator disconnected")
	return nil
}

// Pose returns the current position and heading.
func (s *Simulator) Pose() Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pose
}

func (s *Simulator) Forward(ctx context.Context, cm int64) error {
	return s.call(ctx, core.EventMoveForward, cm, func() { s.move(float64(cm)) })
}

func (s *Simulator) Back(ctx context.Context, cm int64) error {
	return s.call(ctx, core.EventMoveBack, cm, func() { s.move(-float64(cm)) })
}

func (s *Simulator) Left(ctx context.Context, deg int64) error {
	return s.call(ctx, core.EventTurnLeft, deg, func() { s.pose.Heading = normalize(s.pose.Heading - float64(deg)) })
}

func (s *Simulator) Right(ctx context.Context, deg int64) error {
	return s.call(ctx, core.EventTurnRight, deg, func() { s.pose.Heading = normalize(s.pose.Heading + float64(deg)) })
}

func (s *Simulator) Stop(ctx context.Context, ms int64) error {
	return s.call(ctx, core.EventStop, ms, func() {})
}

func (s *Simulator) PingLeft(ctx context.Context) (int64, error) {
	return s.ping(ctx, core.EventPingLeft, -90)
}

func (s *Simulator) PingRight(ctx context.Context) (int64, error) {
	return s.ping(ctx, core.EventPingRight, 90)
}

func (s *Simulator) PingForward(ctx context.Context) (int64, error) {
	return s.ping(ctx, core.EventPingForward, 0)
}

func (s *Simulator) AddObserver(o core.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Simulator) DeleteObservers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = nil
}

// Observers returns the number of registered observers.
func (s *Simulator) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

func (s *Simulator) call(ctx context.Context, typ core.EventType, value int64, apply func()) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return ErrNotConnected
	}
	apply()
	observers := s.snapshot()
	s.mu.Unlock()

	notify(observers, core.Event{Type: typ, Value: value, Timestamp: time.Now()})
	return nil
}

func (s *Simulator) ping(ctx context.Context, typ core.EventType, offset float64) (int64, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return 0, ErrNotConnected
	}
	d := int64(s.distance(normalize(s.pose.Heading + offset)))
	observers := s.snapshot()
	s.mu.Unlock()

	notify(observers, core.Event{Type: typ, Value: d, Timestamp: time.Now()})
	return d, nil
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// move travels d cm along the heading (negative d reverses) and stops at the first wall.
// Callers hold s.mu.
func (s *Simulator) move(d float64) {
	heading := s.pose.Heading
	if d < 0 {
		heading = normalize(heading + 180)
		d = -d
	}
	d = math.Min(d, s.distance(heading))
	rad := heading * math.Pi / 180
	s.pose.X = clamp(s.pose.X+d*round(math.Sin(rad)), 0, s.room.Width)
	s.pose.Y = clamp(s.pose.Y+d*round(math.Cos(rad)), 0, s.room.Depth)
}

// distance is the length of the ray from the current position to the wall along heading.
// Callers hold s.mu.
func (s *Simulator) distance(heading float64) float64 {
	rad := heading * math.Pi / 180
	dx, dy := round(math.Sin(rad)), round(math.Cos(rad))

	best := math.Inf(1)
	if dx > 0 {
		best = math.Min(best, (s.room.Width-s.pose.X)/dx)
	} else if dx < 0 {
		best = math.Min(best, -s.pose.X/dx)
	}
	if dy > 0 {
		best = math.Min(best, (s.room.Depth-s.pose.Y)/dy)
	} else if dy < 0 {
		best = math.Min(best, -s.pose.Y/dy)
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

func (s *Simulator) snapshot() []core.Observer {
	return append([]core.Observer(nil), s.observers...)
}

func notify(observers []core.Observer, e core.Event) {
	for _, o := range observers {
		o.Observe(e)
	}
}

func normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round drops the floating point noise sin/cos leave on axis-aligned headings.
func round(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
