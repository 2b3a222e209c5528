package governance

import (
	"net/http"
	"strings"

	"request-governor/governance/domain"
)

// OperationFunc extrai da requisição a classe de operação usada no rate limit.
type OperationFunc func(r *http.Request) domain.Key

// DefaultOperationFunc usa o header informado quando presente; senão "<METHOD> <host>".
func DefaultOperationFunc(header string) OperationFunc {
	return func(r *http.Request) domain.Key {
		if header != "" {
			if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
				return domain.Key(v)
			}
		}

		host := ""
		if r.URL != nil {
			host = r.URL.Hostname()
		}
		if host == "" {
			host = r.Host
		}
		if host == "" {
			return "unknown"
		}
		return domain.Key(r.Method + " " + strings.ToLower(host))
	}
}

// StaticOperation sempre devolve op.
func StaticOperation(op domain.Key) OperationFunc {
	return func(*http.Request) domain.Key { return op }
}
