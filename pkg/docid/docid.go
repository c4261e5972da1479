// Package docid genera identificadores de documentos con prefijo, por ejemplo
// notas crédito "CR-NOTE-<sufijo>".
package docid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Generator devuelve un identificador único a partir de los prefijos dados.
// Se inyecta en los casos de uso para poder reemplazarlo en tests.
type Generator func(prefixes ...string) string

// New genera "<P1>-<P2>-<SUFIJO>" con un sufijo aleatorio de 10 caracteres hex en mayúscula.
func New(prefixes ...string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return join(prefixes, suffix)
}

func join(prefixes []string, suffix string) string {
	parts := make([]string, 0, len(prefixes)+1)
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, strings.ToUpper(p))
		}
	}
	parts = append(parts, suffix)
	return strings.Join(parts, "-")
}

// RedisSequence numera documentos con INCR en Redis ("CR-NOTE-000042").
// Si Redis no responde cae en New para no bloquear la operación.
type RedisSequence struct {
	client    *redis.Client
	keyPrefix string
	timeout   time.Duration
}

// NewRedisSequence construye el secuenciador sobre un cliente existente.
func NewRedisSequence(client *redis.Client, keyPrefix string) *RedisSequence {
	if keyPrefix == "" {
		keyPrefix = "docid:seq"
	}
	return &RedisSequence{client: client, keyPrefix: keyPrefix, timeout: 2 * time.Second}
}

// NewRedisClient construye el cliente go-redis.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Next devuelve el siguiente número de la secuencia para los prefijos dados.
// Tiene la firma de Generator.
func (s *RedisSequence) Next(prefixes ...string) string {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.keyPrefix + ":" + join(prefixes, "")
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return New(prefixes...)
	}
	return join(prefixes, fmt.Sprintf("%06d", n))
}

// Generator adapta la secuencia a docid.Generator.
func (s *RedisSequence) Generator() Generator {
	return s.Next
}
