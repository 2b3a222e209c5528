// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - WindowLog: janela deslizante compartilhada (ou por operação)
//   - Store: token bucket por operação usando golang.org/x/time/rate
//   - TTLCache: cache de respostas com expiração preguiçosa
//   - Queue: fila FIFO com limite de concorrência
//   - MemoryStatsStore / RedisStatsStore: estatísticas da governança
package infra
