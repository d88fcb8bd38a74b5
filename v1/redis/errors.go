package redis

import (
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Nil is returned when a key does not exist.
var Nil = redis.Nil

// IsNilError checks if the error is a "key does not exist" error.
func IsNilError(err error) bool {
	return errors.Is(err, redis.Nil)
}

// IsUnknownIndexError reports whether err is RediSearch's answer for a
// missing index. Redis Stack says "Unknown index name", Redis 8 says
// "<name>: no such index".
func IsUnknownIndexError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unknown index name") || strings.Contains(msg, "no such index")
}

// IsIndexExistsError reports whether FT.CREATE failed because the index exists.
func IsIndexExistsError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "index already exists")
}
