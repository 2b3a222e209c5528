// Package dashboard carrega e mantém os dados do painel usando a governança
// de requisições: cache com TTL, rate limit compartilhado e limite de
// concorrência. Também cuida da checagem de status dos serviços linkados,
// do envio de relatórios de erro e do debounce de recargas.
package dashboard
