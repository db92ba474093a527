package catalog

// Built-in tables. Figures track published benchmark results and provider
// pricing pages; deployments can replace them with a YAML override file.

var modelTable = []ModelCandidate{
	// Groq (free tier, rate limited)
	{Provider: "groq", Model: "llama-3.1-8b-instant", Tier: TierFast},
	{Provider: "groq", Model: "mixtral-8x7b-32768", Tier: TierFast},
	{Provider: "groq", Model: "gemma-7b-it", Tier: TierFast},
	{Provider: "groq", Model: "llama-3.3-70b-versatile", Tier: TierPowerful},
	{Provider: "groq", Model: "llama-3.1-70b-versatile", Tier: TierPowerful},
	{Provider: "groq", Model: "llama-3.1-405b-reasoning", Tier: TierPowerful},

	// GitHub Models API (free with GitHub Pro)
	{Provider: "github-copilot", Model: "openai/gpt-3.5-turbo", Tier: TierFast},
	{Provider: "github-copilot", Model: "openai/gpt-4-turbo", Tier: TierPowerful},
	{Provider: "github-copilot", Model: "openai/gpt-4o", Tier: TierPowerful},
	{Provider: "github-copilot", Model: "anthropic/claude-3-haiku", Tier: TierFast},
	{Provider: "github-copilot", Model: "anthropic/claude-3-sonnet", Tier: TierPowerful},
	{Provider: "github-copilot", Model: "anthropic/claude-3-opus", Tier: TierPowerful},

	// DeepSeek (pay as you go)
	{Provider: "deepseek", Model: "deepseek-chat", Tier: TierFast},
	{Provider: "deepseek", Model: "deepseek-coder", Tier: TierFast},

	// OpenRouter (free models only; account must hold credits)
	{Provider: "openrouter", Model: "meta-llama/llama-3.1-8b-instruct", Tier: TierFast},
	{Provider: "openrouter", Model: "microsoft/phi-3-mini-4k-instruct", Tier: TierFast},
	{Provider: "openrouter", Model: "google/gemini-flash-1.5", Tier: TierFast},
	{Provider: "openrouter", Model: "deepseek/deepseek-chat:free", Tier: TierFast},

	// Google Gemini (free tier, rate limited)
	{Provider: "gemini", Model: "gemini-2.0-flash-exp", Tier: TierFast},
	{Provider: "gemini", Model: "gemini-1.5-flash", Tier: TierFast},
	{Provider: "gemini", Model: "gemini-1.5-pro", Tier: TierPowerful},
	{Provider: "gemini", Model: "gemini-1.5-pro-latest", Tier: TierPowerful},

	// Mistral
	{Provider: "mistral", Model: "mistral-tiny", Tier: TierFast},
	{Provider: "mistral", Model: "mistral-7b-instruct", Tier: TierFast},
	{Provider: "mistral", Model: "mistral-small", Tier: TierPowerful},
	{Provider: "mistral", Model: "mistral-medium", Tier: TierPowerful},
	{Provider: "mistral", Model: "mistral-large-latest", Tier: TierPowerful},

	// Codestral
	{Provider: "codestral", Model: "codestral-latest", Tier: TierFast},
	{Provider: "codestral", Model: "codestral-mamba-latest", Tier: TierFast},
}

var benchmarkTable = []BenchmarkEntry{
	// Fast models, ranked by speed and cost efficiency
	{Provider: "groq", Model: "llama-3.1-8b-instant", MMLU: 68, HellaSwag: 82, GSM8K: 75, HumanEval: 65, Latency: 120, Tier: TierFast, Ranking: 1},
	{Provider: "groq", Model: "mixtral-8x7b-32768", MMLU: 70, HellaSwag: 86, GSM8K: 82, HumanEval: 70, Latency: 100, Tier: TierFast, Ranking: 2},
	{Provider: "github-copilot", Model: "anthropic/claude-3-haiku", MMLU: 75, HellaSwag: 88, GSM8K: 85, HumanEval: 73, Latency: 80, Tier: TierFast, Ranking: 3},
	{Provider: "github-copilot", Model: "openai/gpt-3.5-turbo", MMLU: 70, HellaSwag: 85, GSM8K: 80, HumanEval: 75, Latency: 70, Tier: TierFast, Ranking: 4},
	{Provider: "gemini", Model: "gemini-2.0-flash-exp", MMLU: 72, HellaSwag: 88, GSM8K: 84, HumanEval: 74, Latency: 75, Tier: TierFast, Ranking: 5},
	{Provider: "gemini", Model: "gemini-1.5-flash", MMLU: 74, HellaSwag: 89, GSM8K: 86, HumanEval: 75, Latency: 70, Tier: TierFast, Ranking: 6},
	{Provider: "mistral", Model: "mistral-tiny", MMLU: 65, HellaSwag: 80, GSM8K: 70, HumanEval: 60, Latency: 90, Tier: TierFast, Ranking: 7},
	{Provider: "mistral", Model: "mistral-7b-instruct", MMLU: 68, HellaSwag: 83, GSM8K: 78, HumanEval: 68, Latency: 85, Tier: TierFast, Ranking: 8},
	{Provider: "deepseek", Model: "deepseek-chat", MMLU: 73, HellaSwag: 87, GSM8K: 83, HumanEval: 72, Latency: 60, Tier: TierFast, Ranking: 9},
	{Provider: "codestral", Model: "codestral-latest", MMLU: 70, HellaSwag: 85, GSM8K: 78, HumanEval: 76, Latency: 65, Tier: TierFast, Ranking: 10},

	// Powerful models, ranked by reasoning capability
	{Provider: "github-copilot", Model: "anthropic/claude-3-opus", MMLU: 87, HellaSwag: 95, GSM8K: 96, HumanEval: 84, Latency: 30, Tier: TierPowerful, Ranking: 1},
	{Provider: "groq", Model: "llama-3.1-405b-reasoning", MMLU: 85, HellaSwag: 94, GSM8K: 95, HumanEval: 82, Latency: 20, Tier: TierPowerful, Ranking: 2},
	{Provider: "github-copilot", Model: "openai/gpt-4o", MMLU: 88, HellaSwag: 95, GSM8K: 95, HumanEval: 90, Latency: 35, Tier: TierPowerful, Ranking: 3},
	{Provider: "deepseek", Model: "deepseek-reasoner", MMLU: 83, HellaSwag: 93, GSM8K: 94, HumanEval: 80, Latency: 25, Tier: TierPowerful, Ranking: 4},
	{Provider: "gemini", Model: "gemini-1.5-pro", MMLU: 84, HellaSwag: 93, GSM8K: 93, HumanEval: 79, Latency: 30, Tier: TierPowerful, Ranking: 5},
	{Provider: "github-copilot", Model: "openai/gpt-4-turbo", MMLU: 87, HellaSwag: 94, GSM8K: 94, HumanEval: 88, Latency: 32, Tier: TierPowerful, Ranking: 6},
	{Provider: "github-copilot", Model: "anthropic/claude-3-sonnet", MMLU: 82, HellaSwag: 93, GSM8K: 92, HumanEval: 81, Latency: 28, Tier: TierPowerful, Ranking: 7},
	{Provider: "groq", Model: "llama-3.3-70b-versatile", MMLU: 82, HellaSwag: 92, GSM8K: 90, HumanEval: 78, Latency: 40, Tier: TierPowerful, Ranking: 8},
	{Provider: "groq", Model: "llama-3.1-70b-versatile", MMLU: 80, HellaSwag: 91, GSM8K: 88, HumanEval: 76, Latency: 38, Tier: TierPowerful, Ranking: 9},
	{Provider: "mistral", Model: "mistral-large-latest", MMLU: 83, HellaSwag: 93, GSM8K: 91, HumanEval: 78, Latency: 35, Tier: TierPowerful, Ranking: 10},
}

var priceTable = []PriceEntry{
	// GitHub Models API
	{Provider: "github-copilot", Model: "openai/gpt-4o", Notes: "Free with GitHub Pro account"},
	{Provider: "github-copilot", Model: "openai/gpt-4-turbo", Notes: "Free with GitHub Pro account"},
	{Provider: "github-copilot", Model: "openai/gpt-3.5-turbo", Notes: "Free with GitHub Pro account"},
	{Provider: "github-copilot", Model: "anthropic/claude-3-haiku", Notes: "Free with GitHub Pro account"},
	{Provider: "github-copilot", Model: "anthropic/claude-3-sonnet", Notes: "Free with GitHub Pro account"},
	{Provider: "github-copilot", Model: "anthropic/claude-3-opus", Notes: "Free with GitHub Pro account"},

	// Groq
	{Provider: "groq", Model: "llama-3.1-8b-instant", Notes: "Free tier available"},
	{Provider: "groq", Model: "mixtral-8x7b-32768", Notes: "Free tier available"},
	{Provider: "groq", Model: "llama-3.3-70b-versatile", Notes: "Free tier available"},
	{Provider: "groq", Model: "llama-3.1-405b-reasoning", Notes: "Free tier available"},

	// DeepSeek
	{Provider: "deepseek", Model: "deepseek-chat", InputCostPerMillion: 0.27, OutputCostPerMillion: 1.10, Notes: "V3 model, off-peak discount available"},
	{Provider: "deepseek", Model: "deepseek-coder", InputCostPerMillion: 0.27, OutputCostPerMillion: 1.10, Notes: "Code-optimized"},
	{Provider: "deepseek", Model: "deepseek-reasoner", InputCostPerMillion: 0.55, OutputCostPerMillion: 2.19, Notes: "R1 reasoning model"},

	// OpenRouter
	{Provider: "openrouter", Model: "meta-llama/llama-3.1-8b-instruct", InputCostPerMillion: 0.05, OutputCostPerMillion: 0.15},
	{Provider: "openrouter", Model: "microsoft/phi-3-mini-4k-instruct", InputCostPerMillion: 0.10, OutputCostPerMillion: 0.10},
	{Provider: "openrouter", Model: "google/gemini-flash-1.5", InputCostPerMillion: 0.10, OutputCostPerMillion: 0.40},
	{Provider: "openrouter", Model: "deepseek/deepseek-chat:free", InputCostPerMillion: 0, OutputCostPerMillion: 0},

	// Google Gemini
	{Provider: "gemini", Model: "gemini-2.0-flash-exp", InputCostPerMillion: 0.10, OutputCostPerMillion: 0.40, Notes: "Experimental model"},
	{Provider: "gemini", Model: "gemini-1.5-flash", InputCostPerMillion: 0.07, OutputCostPerMillion: 0.30},
	{Provider: "gemini", Model: "gemini-1.5-pro", InputCostPerMillion: 1.25, OutputCostPerMillion: 5.00},
	{Provider: "gemini", Model: "gemini-1.5-pro-latest", InputCostPerMillion: 1.25, OutputCostPerMillion: 5.00},

	// Mistral
	{Provider: "mistral", Model: "mistral-tiny", InputCostPerMillion: 0.20, OutputCostPerMillion: 0.60},
	{Provider: "mistral", Model: "mistral-7b-instruct", InputCostPerMillion: 0.20, OutputCostPerMillion: 0.60},
	{Provider: "mistral", Model: "mistral-small", InputCostPerMillion: 2.00, OutputCostPerMillion: 6.00},
	{Provider: "mistral", Model: "mistral-medium", InputCostPerMillion: 2.00, OutputCostPerMillion: 6.00},
	{Provider: "mistral", Model: "mistral-large-latest", InputCostPerMillion: 2.00, OutputCostPerMillion: 6.00},

	// Codestral
	{Provider: "codestral", Model: "codestral-latest", InputCostPerMillion: 0.20, OutputCostPerMillion: 0.60, Notes: "Code generation model"},
	{Provider: "codestral", Model: "codestral-mamba-latest", InputCostPerMillion: 0.20, OutputCostPerMillion: 0.60, Notes: "Mamba architecture variant"},
}

var rateLimitTable = []RateLimitEntry{
	{Provider: "github-copilot", RequestsPerMinute: 60, RequestsPerDay: 5000},

	{Provider: "groq", RequestsPerMinute: 30, RequestsPerDay: 1000},
	{Provider: "groq", Model: "llama-3.1-8b-instant", RequestsPerMinute: 30, RequestsPerDay: 1000},
	{Provider: "groq", Model: "llama-3.1-405b-reasoning", RequestsPerMinute: 10, RequestsPerDay: 500},

	// DeepSeek publishes no hard limits; throttling may occur under load.
	{Provider: "deepseek", RequestsPerMinute: 999999, RequestsPerDay: 999999},

	{Provider: "openrouter", RequestsPerMinute: 100, RequestsPerDay: 5000},

	{Provider: "gemini", Model: "gemini-2.0-flash-exp", RequestsPerMinute: 2000, RequestsPerDay: 999999, TokensPerMinute: 4000000},
	{Provider: "gemini", Model: "gemini-1.5-flash", RequestsPerMinute: 2000, RequestsPerDay: 999999, TokensPerMinute: 4000000},
	{Provider: "gemini", Model: "gemini-1.5-pro", RequestsPerMinute: 1000, RequestsPerDay: 999999, TokensPerMinute: 4000000},

	{Provider: "mistral", RequestsPerMinute: 50, RequestsPerDay: 2000},
	{Provider: "mistral", Model: "mistral-tiny", RequestsPerMinute: 100, RequestsPerDay: 5000},

	{Provider: "codestral", RequestsPerMinute: 30, RequestsPerDay: 2000},
}
