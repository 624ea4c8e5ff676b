package config

import "time"

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Defaults.
const (
	DefaultFileName      = ".feignbridge.yaml"
	DefaultAgentHost     = "localhost"
	DefaultAgentPort     = -1
	DefaultDialTimeout   = 2 * time.Second
	DefaultHeaderTimeout = 3 * time.Second
	DefaultTimeout       = 5 * time.Second
	DefaultMaxAttempts   = 200
	DefaultInterval      = 1500 * time.Millisecond
	DefaultReloadEvery   = 5
	DefaultListen        = "127.0.0.1:7420"
	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisKey      = "feignbridge:mocks"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultMaxDepth      = 3
	MaxDepthLimit        = 10
)

// Config is the complete bridge configuration.
type Config struct {
	Agent   AgentConfig   `yaml:"agent"`
	Monitor MonitorConfig `yaml:"monitor"`
	Control ControlConfig `yaml:"control"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Synth   SynthConfig   `yaml:"synth"`

	// Descriptors lists type descriptor documents to load.
	Descriptors []string `yaml:"descriptors,omitempty" env:"FEIGNBRIDGE_DESCRIPTORS,strict"`

	// Mocks seeds the store at startup: signature -> JSON text.
	Mocks map[string]string `yaml:"mocks,omitempty"`
}

// AgentConfig locates the agent inside the target application.
type AgentConfig struct {
	Host string `yaml:"host" env:"FEIGNBRIDGE_AGENT_HOST,strict"`

	// Port is the agent's HTTP port; -1 means the target has not started.
	Port int `yaml:"port" env:"FEIGNBRIDGE_AGENT_PORT,strict"`

	DialTimeout   time.Duration `yaml:"dialTimeout" env:"FEIGNBRIDGE_AGENT_DIAL_TIMEOUT,strict"`
	HeaderTimeout time.Duration `yaml:"headerTimeout" env:"FEIGNBRIDGE_AGENT_HEADER_TIMEOUT,strict"`
	Timeout       time.Duration `yaml:"timeout" env:"FEIGNBRIDGE_AGENT_TIMEOUT,strict"`
}

// MonitorConfig tunes the startup polling loop.
type MonitorConfig struct {
	MaxAttempts int           `yaml:"maxAttempts" env:"FEIGNBRIDGE_MONITOR_MAX_ATTEMPTS,strict"`
	Interval    time.Duration `yaml:"interval" env:"FEIGNBRIDGE_MONITOR_INTERVAL,strict"`
	ReloadEvery int           `yaml:"reloadEvery" env:"FEIGNBRIDGE_MONITOR_RELOAD_EVERY,strict"`
}

// ControlConfig configures the control API.
type ControlConfig struct {
	Listen string `yaml:"listen" env:"FEIGNBRIDGE_LISTEN,strict"`
}

// StoreConfig selects the mock store backend.
type StoreConfig struct {
	Backend   string `yaml:"backend" env:"FEIGNBRIDGE_STORE,strict"`
	RedisAddr string `yaml:"redisAddr" env:"FEIGNBRIDGE_REDIS_ADDR,strict"`
	RedisKey  string `yaml:"redisKey" env:"FEIGNBRIDGE_REDIS_KEY,strict"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"FEIGNBRIDGE_LOG_LEVEL,strict"`
	Format string `yaml:"format" env:"FEIGNBRIDGE_LOG_FORMAT,strict"`
}

// SynthConfig tunes example value generation.
type SynthConfig struct {
	MaxDepth int `yaml:"maxDepth" env:"FEIGNBRIDGE_SYNTH_MAX_DEPTH,strict"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			Host:          DefaultAgentHost,
			Port:          DefaultAgentPort,
			DialTimeout:   DefaultDialTimeout,
			HeaderTimeout: DefaultHeaderTimeout,
			Timeout:       DefaultTimeout,
		},
		Monitor: MonitorConfig{
			MaxAttempts: DefaultMaxAttempts,
			Interval:    DefaultInterval,
			ReloadEvery: DefaultReloadEvery,
		},
		Control: ControlConfig{Listen: DefaultListen},
		Store: StoreConfig{
			Backend:   BackendMemory,
			RedisAddr: DefaultRedisAddr,
			RedisKey:  DefaultRedisKey,
		},
		Log:   LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Synth: SynthConfig{MaxDepth: DefaultMaxDepth},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Descriptors = append([]string(nil), c.Descriptors...)
	if c.Mocks != nil {
		out.Mocks = make(map[string]string, len(c.Mocks))
		for k, v := range c.Mocks {
			out.Mocks[k] = v
		}
	}
	return &out
}
