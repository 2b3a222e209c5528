// Package clock abstrai o tempo para que limiter e cache funcionem tanto com
// relógio real quanto com relógio virtual nos testes.
package clock

import "time"

// Clock é o mínimo que os componentes de governança precisam do tempo.
type Clock interface {
	Now() time.Time
}

// RealClock delega para o pacote time.
type RealClock struct{}

func NewRealClock() RealClock { return RealClock{} }

func (RealClock) Now() time.Time { return time.Now() }
