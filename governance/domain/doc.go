// Package domain define contratos e tipos de domínio para governança de
// requisições de saída: rate limit, cache de respostas e limite de concorrência.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar regras de negócio
// de detalhes de infraestrutura.
package domain
