// Package application contém os casos de uso da governança de requisições:
// decisão de rate limit, agendamento no throttle e o pipeline completo
// cache -> rate limit -> throttle -> execução -> cache.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Decide(ctx, op) retorna uma Decision (allow/deny + retry-after).
package application
