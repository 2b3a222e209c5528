// Package governance fornece a governança de requisições de saída: rate limit,
// cache de respostas e limite de concorrência, montados a partir de Options.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny, schedule, fetch com cache) sem net/http
//   - infra: implementações concretas (janela deslizante, token bucket, TTL cache, fila FIFO)
//   - governance (este pacote): wiring (New/Governor) + adapter http.RoundTripper
//
// Fluxo de uma busca com cache:
//
//  1. Consulta o cache; hit encerra
//  2. Chama o rate limiter; negado retorna *domain.RateLimitError
//  3. Agenda a busca no throttle (no máximo MaxConcurrency simultâneas, fila FIFO)
//  4. Sucesso grava no cache; falha é repassada sem cache
package governance
