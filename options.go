package conform

// Defaults applied when no override is configured.
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.2
	DefaultMaxAttempts = 3
)

// Options is the read-only configuration snapshot for one invocation.
type Options struct {
	Model           string
	Temperature     float64
	MaxAttempts     int
	DefaultResponse string              // substituted for out-of-vocabulary choice values; "" disables substitution
	DetailedLogging bool                // log each attempt's prompts and raw/normalized text at Info
	Instructions    InstructionProvider // nil → built-in directives
	Runner          Runner              // nil → DefaultRunner (batch only)
}

// Option mutates the Options snapshot before an invocation starts. Options
// passed to New become the Coercer's defaults; options passed to a Generate
// call override them for that call only.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// WithModel sets the model identifier.
func WithModel(name string) Option {
	return func(o *Options) { o.Model = name }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

// WithMaxAttempts bounds the retry loop.
func WithMaxAttempts(n int) Option {
	return func(o *Options) { o.MaxAttempts = n }
}

// WithDefaultResponse sets the value substituted when a choice field holds a
// value outside its vocabulary. An empty string disables substitution.
func WithDefaultResponse(s string) Option {
	return func(o *Options) { o.DefaultResponse = s }
}

// WithDetailedLogging emits every attempt's system prompt, built
// instruction, user input and raw/normalized model text at Info level.
func WithDetailedLogging() Option {
	return func(o *Options) { o.DetailedLogging = true }
}

// WithInstructions swaps the built-in directive scaffold for a custom
// instruction provider.
func WithInstructions(p InstructionProvider) Option {
	return func(o *Options) { o.Instructions = p }
}

// WithRunner lets batch invocations schedule work on a caller-supplied
// runner.
func WithRunner(r Runner) Option {
	return func(o *Options) { o.Runner = r }
}
