package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	// DatabaseURL selects MySQL when set; otherwise the app falls back
	// to a local sqlite file at SQLitePath.
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/billing.db"`

	Catalog Catalog `envPrefix:"CATALOG_"`
}

type Catalog struct {
	// Stock level applied to every tracked item by restock-all.
	RestockQuantity int `env:"RESTOCK_QUANTITY" envDefault:"9999"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
