// Package conform coerces free-form LLM completions into a caller-declared
// structured shape, retrying with error feedback until the output conforms
// or attempts are exhausted.
//
// # Problem Statement
//
// Chat models answer in prose even when asked for data. Getting dependable
// structured output out of them means fighting the same battles everywhere:
//
//   - Prompting: communicating the exact shape, choice vocabularies and
//     list conventions the caller expects
//   - Repair: models wrap JSON in code fences and quote with apostrophes
//   - Validation: required keys go missing, enum fields come back with
//     invented values or trailing commentary
//   - Retry: a malformed answer is usually fixable if the model is told
//     what was wrong with the last one
//
// The conform package owns that whole loop:
//
//   - Declarative shapes: a Format maps field names to free-text slots,
//     choice vocabularies, or nested structures
//   - Directive prompts: format hints (list fields, <placeholder> slots)
//     are detected and turned into instructions automatically
//   - Response normalization: code fences stripped, quoting repaired while
//     in-word apostrophes survive
//   - Per-field validation: required keys checked, choice values resolved,
//     out-of-vocabulary answers replaced by a configured default
//   - Bounded retries: each validation failure is described to the model in
//     the next attempt's prompt; exhaustion returns an empty result rather
//     than an error
//
// # Basic Usage
//
// Declare the expected shape and generate against it:
//
//	inv := conform.NewOpenAIInvoker(option.WithAPIKey(apiKey))
//	c := conform.New(inv, conform.WithModel("gpt-4o-mini"))
//
//	item, err := c.Generate(ctx,
//	    "You are a sentiment classifier.",
//	    "What a wonderful day!",
//	    conform.Format{"mood": []string{"happy", "sad", "neutral"}},
//	    conform.WithDefaultResponse("neutral"),
//	)
//	// item: conform.Item{"mood": "happy"}
//
// A nil item with a nil error means every attempt failed validation; callers
// decide their own fallback.
//
// # List Inputs
//
// GenerateList produces one record per input element from a single
// completion, with input and output list-ness coupled and checked:
//
//	items, err := c.GenerateList(ctx, system,
//	    []string{"first review", "second review"}, format)
//
// # Providers
//
// The model client sits behind the Invoker interface. OpenAIInvoker (chat
// completions) and GenAIInvoker (Gemini) ship with the package; transport
// and authentication failures propagate immediately and are never retried.
// ScriptedInvoker in testing.go replays canned responses for tests.
//
// # Concurrency
//
// One invocation is strictly sequential: build prompt, request completion,
// normalize, validate, loop. Separate invocations share no mutable state;
// GenerateBatch fans independent invocations out over a Runner backed by
// errgroup.
package conform
