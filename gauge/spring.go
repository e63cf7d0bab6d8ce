package gauge

import (
	"math"
	"sync"
	"time"
)

// Spring constants for the needle. With these the needle overshoots a
// little and comes to rest in about a second.
const (
	DefaultStiffness = 50.0
	DefaultDamping   = 15.0
	DefaultMass      = 1.5

	maxSubstep = time.Second / 120
	restDelta  = 0.01
	restSpeed  = 0.05
)

// Spring is a damped harmonic oscillator that eases an angle towards a
// target. It is not safe for concurrent use; see Animator.
type Spring struct {
	Stiffness float64
	Damping   float64
	Mass      float64

	pos    float64
	vel    float64
	target float64
}

func NewSpring(pos float64) *Spring {
	return &Spring{
		Stiffness: DefaultStiffness,
		Damping:   DefaultDamping,
		Mass:      DefaultMass,
		pos:       pos,
		target:    pos,
	}
}

func (s *Spring) SetTarget(t float64) {
	s.target = t
}

func (s *Spring) Target() float64 {
	return s.target
}

func (s *Spring) Angle() float64 {
	return s.pos
}

func (s *Spring) Velocity() float64 {
	return s.vel
}

// Jump moves the spring to p and stops it there.
func (s *Spring) Jump(p float64) {
	s.pos, s.target, s.vel = p, p, 0
}

func (s *Spring) Settled() bool {
	return math.Abs(s.pos-s.target) < restDelta && math.Abs(s.vel) < restSpeed
}

// Step advances the simulation by dt using semi-implicit Euler. Long steps
// are split so a stalled render clock cannot make the spring blow up.
func (s *Spring) Step(dt time.Duration) {
	for dt > 0 && !s.Settled() {
		h := dt
		if h > maxSubstep {
			h = maxSubstep
		}
		dt -= h
		sec := h.Seconds()
		force := -s.Stiffness*(s.pos-s.target) - s.Damping*s.vel
		s.vel += force / s.Mass * sec
		s.pos += s.vel * sec
	}
	if s.Settled() {
		s.pos, s.vel = s.target, 0
	}
}

// Animator drives a Spring from a render clock. The first target snaps into
// place; later targets are eased.
type Animator struct {
	mu     sync.Mutex
	spring *Spring
	last   time.Time
	primed bool
}

func NewAnimator() *Animator {
	return &Animator{spring: NewSpring(0)}
}

// Retarget points the needle at angle.
func (a *Animator) Retarget(angle float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.primed {
		a.spring.Jump(angle)
		a.primed = true
		return
	}
	a.spring.SetTarget(angle)
}

// Advance steps the spring to now and returns the current angle.
func (a *Animator) Advance(now time.Time) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.last.IsZero() && now.After(a.last) {
		a.spring.Step(now.Sub(a.last))
	}
	a.last = now
	return a.spring.Angle()
}

func (a *Animator) Settled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.spring.Settled()
}
