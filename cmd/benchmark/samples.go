package main

// Sample is a benchmark prompt.
type Sample struct {
	Name string
	Text string
}

// Samples are prompts of increasing length used by the timing mode.
var Samples = []Sample{
	{
		Name: "tiny",
		Text: "What is the capital of Portugal?",
	},
	{
		Name: "short",
		Text: "Explain in two sentences why the sky is blue.",
	},
	{
		Name: "code",
		Text: "Write a Go function that reverses a slice of strings in place.",
	},
	{
		Name: "medium",
		Text: `I run a small web service that reads from Postgres and writes audit events to a queue.
Lately p99 latency jumped from 80ms to 400ms after a deploy that only added an index.
List the most likely causes in order and what I should measure first for each.`,
	},
	{
		Name: "long",
		Text: `Summarize the following paragraph in three bullet points.

Our team moved the nightly batch job from a single large VM to a set of short-lived containers.
Each container processes one shard of the customer table and writes its output to object storage.
The move cut the wall-clock time from four hours to forty minutes, but the total compute cost went up
by about fifteen percent because every container pays a start-up cost to load reference data.
We are now considering caching the reference data in a shared volume, pre-warming a pool of
containers before the job starts, or merging small shards so fewer containers are needed.
Each option has trade-offs in operational complexity and failure isolation that we have not yet measured.`,
	},
}

// QualitySamples cover the kinds of requests the form is used for.
// Used by --quality mode to eyeball replies.
var QualitySamples = []Sample{
	{Name: "fact", Text: "Who wrote the novel Dune?"},
	{Name: "math", Text: "What is 17 multiplied by 23? Reply with the number only."},
	{Name: "definition", Text: "Define idempotence in one sentence."},
	{Name: "code", Text: "Write a shell one-liner that counts lines in all .go files under the current directory."},
	{Name: "translate", Text: "Translate to Spanish: The meeting is moved to Thursday at ten."},
	{Name: "list", Text: "Give me three names for a command-line tool that relays prompts to a language model."},
	{Name: "rewrite", Text: "Rewrite more politely: send me the report now."},
	{Name: "explain", Text: "Explain what a reverse proxy does to someone who knows what a web browser is."},
	{Name: "compare", Text: "Compare TCP and UDP in a short table."},
	{Name: "summary", Text: "Summarize the plot of Romeo and Juliet in one sentence."},
}
