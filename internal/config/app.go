package config

import "time"

type App struct {
	Name            string        `env:"APP_NAME" envDefault:"students-erp"`
	Version         string        `env:"APP_VERSION" envDefault:"dev"`
	ProbeAddress    string        `env:"PROBE_ADDRESS" envDefault:":8091"`
	MetricsAddress  string        `env:"METRICS_ADDRESS" envDefault:":8092"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}
