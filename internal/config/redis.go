package config

import "fmt"

const DBTypeRedis string = "redis"
const DBTypeRedisMock string = "redis-mock"

// RedisConfig points the session store at a redis server. It is only read
// when the session store is "redis", which lets several machines share one login.
type RedisConfig struct {
	// Type is "redis" or "redis-mock", the mock keeps the session in memory.
	Type string
	// Addresses lists the sentinels when IsSentinel is set, otherwise only the
	// first address is used.
	Addresses  []string
	IsSentinel bool
	Password   RedactedString
	MasterName string
	DBIndex    int
}

func (c RedisConfig) Validate(e RunningEnvironment) error {
	switch c.Type {
	case DBTypeRedisMock:
		if e != Development {
			return fmt.Errorf("redis type cannot be %q in production, the session would not survive the process", DBTypeRedisMock)
		}
		return nil
	case DBTypeRedis:
	default:
		return fmt.Errorf("unknown redis type %q (must be one of %s, %s)", c.Type, DBTypeRedis, DBTypeRedisMock)
	}
	if len(c.Addresses) == 0 {
		return fmt.Errorf("the redis session store needs at least one address")
	}
	if c.IsSentinel && c.MasterName == "" {
		return fmt.Errorf("the redis master name is required when the addresses are sentinels")
	}
	return nil
}
