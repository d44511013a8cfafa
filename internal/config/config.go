package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type Config struct {
	LogLevel   string     `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	LogFile    string     `yaml:"log-file" env:"TICTACTOE_LOG_FILE" env-default:"tictactoe.log"`
	Game       Game       `yaml:"game"`
	Scoreboard Scoreboard `yaml:"scoreboard"`
	Redis      Redis      `yaml:"redis"`
}

type Game struct {
	// MoveDelay is the pause after each move while a computer is seated.
	MoveDelay time.Duration `yaml:"move-delay" env:"TICTACTOE_MOVE_DELAY" env-default:"1s"`
	// Seed makes the random policies reproducible; zero seeds from the clock.
	Seed            uint64   `yaml:"seed" env:"TICTACTOE_SEED" env-default:"0"`
	CPUDifficulties []string `yaml:"cpu-difficulties" env:"TICTACTOE_CPU_DIFFICULTIES" env-default:"easy,hard"`
	ColoredBoard    bool     `yaml:"colored-board" env:"TICTACTOE_COLORED_BOARD" env-default:"true"`
}

type Scoreboard struct {
	Backend string        `yaml:"backend" env:"TICTACTOE_SCOREBOARD_BACKEND" env-default:"memory"`
	TTL     time.Duration `yaml:"ttl" env:"TICTACTOE_SCOREBOARD_TTL" env-default:"1h"`
}

type Redis struct {
	Host string `yaml:"host" env:"TICTACTOE_REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"TICTACTOE_REDIS_PORT" env-default:"6379"`
}

var (
	ErrUnknownBackend  = errors.New("unknown scoreboard backend")
	ErrUnknownLogLevel = errors.New("unknown log level")
	ErrCPUDifficulties = errors.New("cpu-difficulties needs exactly two entries")
)

// MustLoad - load all configurations in config.yml file, or from the environment when the file does not exist.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		err = cleanenv.ReadConfig(path, config)
	case errors.Is(err, fs.ErrNotExist):
		err = cleanenv.ReadEnv(config)
	}
	if err != nil {
		return nil, err
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, that.LogLevel)
	}

	switch that.Scoreboard.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, that.Scoreboard.Backend)
	}

	if len(that.Game.CPUDifficulties) != 2 {
		return fmt.Errorf("%w: got %d", ErrCPUDifficulties, len(that.Game.CPUDifficulties))
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
