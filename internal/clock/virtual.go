package clock

import (
	"sync"
	"time"
)

// VirtualClock é um relógio controlável para testes de janela e TTL.
// Avançar o tempo é instantâneo. Seguro para uso concorrente.
type VirtualClock struct {
	mu      sync.RWMutex
	current time.Time
}

func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{current: start}
}

func (c *VirtualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Advance move o relógio para frente. Panic se d for negativo.
func (c *VirtualClock) Advance(d time.Duration) {
	if d < 0 {
		panic("clock: cannot advance by negative duration")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set posiciona o relógio num instante exato. Panic se t estiver no passado.
func (c *VirtualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Before(c.current) {
		panic("clock: cannot set time to the past")
	}
	c.current = t
}
