package rollcall

import "go.uber.org/zap"

type options struct {
	schemaPath string
	format     string
	delimiter  string
	onError    string
	metrics    string
	logger     *zap.Logger
}

// Option configures a Rollcall instance.
type Option func(*options)

// WithSchemaFile loads a YAML schema from path instead of the built-in
// schools schema.
func WithSchemaFile(path string) Option {
	return func(o *options) {
		o.schemaPath = path
	}
}

// WithFormat sets the source format: "csv" or "jsonl". Default: "csv".
func WithFormat(name string) Option {
	return func(o *options) {
		o.format = name
	}
}

// WithDelimiter sets the CSV field delimiter: "comma", "tab", "semicolon"
// or "pipe". Default: "comma".
func WithDelimiter(name string) Option {
	return func(o *options) {
		o.delimiter = name
	}
}

// WithOnError sets how malformed records are handled: "skip" drops them
// and counts the rest, "abort" fails the run. Default: "skip".
func WithOnError(policy string) Option {
	return func(o *options) {
		o.onError = policy
	}
}

// WithMetrics declares the metrics to compute as a comma-separated
// "name:kind:group[:value]" list, e.g. "by_state:count:state".
// Default: the built-in school counts.
func WithMetrics(spec string) Option {
	return func(o *options) {
		o.metrics = spec
	}
}

// WithLogger routes run logging to the given logger. Default: no logging.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

func defaultOptions() options {
	return options{
		format:  "csv",
		onError: "skip",
	}
}
