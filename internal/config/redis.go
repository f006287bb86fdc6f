package config

// Redis нужен только фоновой очереди asynq. AsynqEnabled=false переводит
// пересчёт периодов в синхронный режим без Redis.
type Redis struct {
	Address        string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	Username       string `env:"REDIS_USERNAME"`
	Password       string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber int    `env:"REDIS_DB" envDefault:"0"`

	AsynqEnabled bool `env:"ASYNQ_ENABLED" envDefault:"false"`
}
