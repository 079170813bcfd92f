package testutil

import (
	"github.com/alicebob/miniredis/v2"
)

// RedisServer is an in-memory Redis for unit tests.
type RedisServer struct {
	server *miniredis.Miniredis
}

func NewRedisServer() *RedisServer {
	server, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	return &RedisServer{
		server: server,
	}
}

func (s *RedisServer) Addr() string {
	return s.server.Addr()
}

// Flush removes all keys, so each test starts clean.
func (s *RedisServer) Flush() {
	s.server.FlushAll()
}

// HGet reads a hash field directly, bypassing the client under test.
func (s *RedisServer) HGet(key, field string) string {
	return s.server.HGet(key, field)
}

func (s *RedisServer) Close() {
	s.server.Close()
}
