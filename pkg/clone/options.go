package clone

import (
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/domclone/pkg/dom"
	"github.com/matzehuels/domclone/pkg/errors"
	"github.com/matzehuels/domclone/pkg/observability"
)

// Default option values.
const (
	DefaultBatchSize = 100
	DefaultRootClass = "DataModel"
)

// Options configures a clone run. The zero value is usable; see WithDefaults.
type Options struct {
	BatchSize     int                      // Top-level children per worker (default: 100)
	Workers       int                      // Concurrent batches (default: GOMAXPROCS)
	RootClass     string                   // Class of the destination root (default: DataModel)
	PreserveOrder bool                     // Attach batches in source order instead of completion order
	Generator     dom.IDGenerator          // UniqueId source (default: dom.NewSystemGenerator())
	Logger        *log.Logger              // Progress logger (default: log.Default())
	Hooks         observability.CloneHooks // Metrics hooks (default: the registered global hooks)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.RootClass == "" {
		opts.RootClass = DefaultRootClass
	}
	if opts.Generator == nil {
		opts.Generator = dom.NewSystemGenerator()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Hooks == nil {
		opts.Hooks = observability.Clone()
	}
	return opts
}

// Validate checks option values after defaults have been applied.
func (o Options) Validate() error {
	if err := errors.ValidateBatchSize(o.BatchSize); err != nil {
		return err
	}
	if err := errors.ValidateWorkers(o.Workers); err != nil {
		return err
	}
	return errors.ValidateClassName(o.RootClass)
}
