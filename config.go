package mlogger

import (
	"sync"

	"github.com/Furry-Monster/MLogger/internal/sink"
	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

// configValidator is shared by every Config; validator caches the parsed
// tags per struct type.
var configValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// Config is the set of parameters Initialize needs to build a sink.
type Config struct {
	// Path of the active log file. Missing parent directories are created.
	Path string `koanf:"path" validate:"required"`
	// MaxFileSize is the rotation threshold in bytes; 0 means unbounded.
	MaxFileSize uint64 `koanf:"max_file_size"`
	// MaxFiles is the number of rotated files retained.
	MaxFiles  int  `koanf:"max_files" validate:"gt=0"`
	AsyncMode bool `koanf:"async_mode"`
	// ThreadPoolSize is the worker count for async mode. The pool is built by
	// the first async Initialize and reused afterwards.
	ThreadPoolSize int      `koanf:"thread_pool_size" validate:"gt=0"`
	MinSeverity    Severity `koanf:"min_severity" validate:"min=0,max=5"`
	// QueueCapacity bounds the async queue; 0 selects the default of 8192.
	QueueCapacity int  `koanf:"queue_capacity" validate:"gte=0"`
	ExclusiveLock bool `koanf:"exclusive_lock"`
}

// DefaultConfig returns the configuration used by InitializePath: 10 MiB
// files, 5 retained, async writes on one worker, Info threshold.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		MaxFileSize:    10 * 1024 * 1024,
		MaxFiles:       5,
		AsyncMode:      true,
		ThreadPoolSize: defaultThreadCount,
		MinSeverity:    SeverityInfo,
	}
}

// Validate returns a descriptive error when c cannot be used. The cause is
// the validator's field errors.
func (c Config) Validate() error {
	const op errors.Op = "mlogger.Config.Validate"
	if err := configValidator().Struct(c); err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}
	return nil
}

func (c Config) IsValid() bool {
	return c.Validate() == nil
}

func (c Config) queueCapacity() int {
	if c.QueueCapacity == 0 {
		return sink.DefaultQueueCapacity
	}
	return c.QueueCapacity
}
