package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import "time"

// Key identifica a classe de operação (ex: "init", "data-load") ou a chave de cache.
// Não é validada; quem chama define o vocabulário.
type Key string

// Limiter decide se uma operação pode ser admitida agora.
//
// Uma admissão negada não é enfileirada nem registrada: quem chama decide
// se aborta ou avisa o usuário.
type Limiter interface {
	TryAcquire(op Key) bool
}

// RetryAdvisor é opcional. Limiters que sabem quando a próxima admissão será
// possível implementam esta interface.
type RetryAdvisor interface {
	RetryAfter(op Key) time.Duration
}

type Decision struct {
	Allowed   bool
	Operation Key
	// RetryAfter é a recomendação de espera quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}

// Clock é o mínimo necessário de uma fonte de tempo.
type Clock interface {
	Now() time.Time
}
