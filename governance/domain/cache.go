package domain

// Cache guarda respostas por chave lógica com expiração.
//
// Get devolve ok=false quando a chave não existe ou já expirou (cache miss).
// Falhas nunca devem ser cacheadas.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Clear()
}
