package conform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Coercer drives the format-contract enforcement loop: it prompts the model
// with the expected shape, validates each response against it, and retries
// with error feedback until the output conforms or attempts run out.
//
// The completion client is an injected dependency scoped to the Coercer;
// there is no package-level client state. A Coercer is safe for concurrent
// use, since each invocation owns its own attempt loop and options snapshot.
type Coercer struct {
	invoker Invoker
	log     *slog.Logger
	opts    Options
}

// New returns a Coercer that logs with slog.Default().
func New(invoker Invoker, opts ...Option) *Coercer {
	return NewWithLogger(invoker, slog.Default(), opts...)
}

// NewWithLogger lets the caller supply their own logger.
func NewWithLogger(invoker Invoker, log *slog.Logger, opts ...Option) *Coercer {
	if log == nil {
		log = slog.Default()
	}
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Coercer{invoker: invoker, log: log, opts: o}
}

// attempt is one build-request-normalize-validate cycle. Attempts are
// ephemeral: only the error description survives into the next cycle.
type attempt struct {
	number      int
	instruction string
	raw         string
	normalized  string
	errDesc     string // feedback from the previous failed cycle
}

// Generate coerces the model's answer for a single input into f's shape.
// It returns a nil Item and nil error when every attempt failed validation
// (the soft-failure contract); errors from the Invoker terminate the
// invocation immediately and are returned as-is wrapped.
func (c *Coercer) Generate(ctx context.Context, system, input string, f Format, opts ...Option) (Item, error) {
	items, err := c.run(ctx, system, input, false, f, opts)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

// GenerateList coerces one output record per element of inputs, all produced
// by a single completion per attempt. The result is ordered parallel to
// inputs. An empty slice means attempts were exhausted.
func (c *Coercer) GenerateList(ctx context.Context, system string, inputs []string, f Format, opts ...Option) ([]Item, error) {
	user, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("encode input list: %w", err)
	}
	return c.run(ctx, system, string(user), true, f, opts)
}

// GenerateValues is Generate with the keys discarded: the validated item is
// projected to its values ordered by field name. Projection happens after
// validation, so it never affects which attempts succeed.
func (c *Coercer) GenerateValues(ctx context.Context, system, input string, f Format, opts ...Option) ([]any, error) {
	item, err := c.Generate(ctx, system, input, f, opts...)
	if err != nil || item == nil {
		return nil, err
	}
	return item.Values(), nil
}

// GenerateListValues is GenerateList with each item projected to its values
// ordered by field name.
func (c *Coercer) GenerateListValues(ctx context.Context, system string, inputs []string, f Format, opts ...Option) ([][]any, error) {
	items, err := c.GenerateList(ctx, system, inputs, f, opts...)
	if err != nil {
		return nil, err
	}
	vals := make([][]any, 0, len(items))
	for _, it := range items {
		vals = append(vals, it.Values())
	}
	return vals, nil
}

// run is the bounded retry loop shared by all entry points.
func (c *Coercer) run(ctx context.Context, system, userInput string, inputIsList bool, f Format, opts []Option) ([]Item, error) {
	o := c.opts
	for _, fn := range opts {
		fn(&o)
	}
	if len(f) == 0 {
		return nil, ErrEmptyFormat
	}

	hints := AnalyzeFormat(f)
	provider := o.Instructions
	if provider == nil {
		provider = directiveProvider{}
	}

	c.log.Debug("starting coercion",
		"model", o.Model,
		"max_attempts", o.MaxAttempts,
		"input_is_list", inputIsList,
		"has_list_field", hints.HasListField,
		"has_dynamic_field", hints.HasDynamicField)

	var errDesc string
	for n := 1; n <= o.MaxAttempts; n++ {
		att := attempt{number: n, errDesc: errDesc}

		instruction, err := provider.Instruction(system, f, hints, inputIsList, att.errDesc)
		if err != nil {
			return nil, fmt.Errorf("build instruction: %w", err)
		}
		att.instruction = instruction

		if o.DetailedLogging {
			c.log.Info("attempt started",
				"attempt", att.number,
				"system_prompt", system,
				"instruction", att.instruction,
				"user_input", userInput)
		}

		raw, err := c.invoker.Complete(ctx, CompletionRequest{
			Model:       o.Model,
			Temperature: o.Temperature,
			Messages: []Message{
				{Role: RoleSystem, Content: att.instruction},
				{Role: RoleUser, Content: userInput},
			},
		})
		if err != nil {
			// transport, auth and quota failures are not something the model
			// can self-correct; they don't count against MaxAttempts
			return nil, fmt.Errorf("completion request: %w", err)
		}
		att.raw = raw
		att.normalized = normalizeResponse(raw)

		if o.DetailedLogging {
			c.log.Info("attempt response",
				"attempt", att.number,
				"raw", att.raw,
				"normalized", att.normalized)
		}

		items, err := validateOutput(att.normalized, inputIsList, f, o.DefaultResponse)
		if err == nil {
			c.log.Debug("attempt succeeded", "attempt", att.number, "items", len(items))
			return items, nil
		}
		if !isFormatFailure(err) {
			return nil, err
		}

		c.log.Debug("attempt failed validation",
			"attempt", att.number,
			"error", err,
			"raw", att.raw,
			"normalized", att.normalized)
		errDesc = fmt.Sprintf("Your previous response could not be used.\nInvalid output: %s\nProblem: %v", att.raw, err)
	}

	c.log.Debug("attempts exhausted", "max_attempts", o.MaxAttempts)
	return []Item{}, nil
}
