package registry

// Builtins returns a copy of the compiled entity table in declaration order.
func Builtins() []Entity {
	out := make([]Entity, len(builtinEntities))
	copy(out, builtinEntities)
	return out
}

var builtinEntities = []Entity{
	// platforms
	{Slug: "youtube", Name: "YouTube", Domain: "youtube.com", URL: "https://www.youtube.com", Category: "platform", Type: TypePlatform},
	{Slug: "github", Name: "GitHub", Domain: "github.com", URL: "https://github.com", Category: "platform", Type: TypePlatform, Twitter: "github", GitHub: "github"},
	{Slug: "x", Name: "X", Domain: "x.com", URL: "https://x.com", Category: "platform", Type: TypePlatform},
	{Slug: "twitter", Name: "Twitter", Domain: "twitter.com", URL: "https://twitter.com", Category: "platform", Type: TypePlatform},
	{Slug: "linkedin", Name: "LinkedIn", Domain: "linkedin.com", URL: "https://www.linkedin.com", Category: "platform", Type: TypePlatform},
	{Slug: "reddit", Name: "Reddit", Domain: "reddit.com", URL: "https://www.reddit.com", Category: "platform", Type: TypePlatform},
	{Slug: "hackernews", Name: "Hacker News", Domain: "news.ycombinator.com", URL: "https://news.ycombinator.com", Category: "platform", Type: TypePlatform},
	{Slug: "stackoverflow", Name: "Stack Overflow", Domain: "stackoverflow.com", URL: "https://stackoverflow.com", Category: "platform", Type: TypePlatform},

	// payments
	{Slug: "stripe", Name: "Stripe", Domain: "stripe.com", URL: "https://stripe.com", Category: "payments", Type: TypeCompany, Twitter: "stripe", GitHub: "stripe"},
	{Slug: "paypal", Name: "PayPal", Domain: "paypal.com", URL: "https://www.paypal.com", Category: "payments", Type: TypeCompany, Twitter: "PayPal"},
	{Slug: "square", Name: "Square", Domain: "squareup.com", URL: "https://squareup.com", Category: "payments", Type: TypeCompany},

	// cloud
	{Slug: "aws", Name: "Amazon Web Services", Domain: "aws.amazon.com", URL: "https://aws.amazon.com", Category: "cloud", Type: TypeCompany, Twitter: "awscloud"},
	{Slug: "vercel", Name: "Vercel", Domain: "vercel.com", URL: "https://vercel.com", Category: "cloud", Type: TypeCompany, Twitter: "vercel", GitHub: "vercel"},
	{Slug: "netlify", Name: "Netlify", Domain: "netlify.com", URL: "https://www.netlify.com", Category: "cloud", Type: TypeCompany, GitHub: "netlify"},
	{Slug: "cloudflare", Name: "Cloudflare", Domain: "cloudflare.com", URL: "https://www.cloudflare.com", Category: "cloud", Type: TypeCompany, Twitter: "Cloudflare", GitHub: "cloudflare"},
	{Slug: "fly", Name: "Fly.io", Domain: "fly.io", URL: "https://fly.io", Category: "cloud", Type: TypeCompany, GitHub: "superfly"},

	// ai
	{Slug: "openai", Name: "OpenAI", Domain: "openai.com", URL: "https://openai.com", Category: "ai", Type: TypeCompany, Twitter: "OpenAI", GitHub: "openai"},
	{Slug: "anthropic", Name: "Anthropic", Domain: "anthropic.com", URL: "https://www.anthropic.com", Category: "ai", Type: TypeCompany, Twitter: "AnthropicAI", GitHub: "anthropics"},
	{Slug: "huggingface", Name: "Hugging Face", Domain: "huggingface.co", URL: "https://huggingface.co", Category: "ai", Type: TypeCompany, GitHub: "huggingface"},

	// tools
	{Slug: "figma", Name: "Figma", Domain: "figma.com", URL: "https://www.figma.com", Category: "design", Type: TypeCompany, Twitter: "figma"},
	{Slug: "notion", Name: "Notion", Domain: "notion.so", URL: "https://www.notion.so", Category: "productivity", Type: TypeCompany, Twitter: "NotionHQ"},
	{Slug: "linear", Name: "Linear", Domain: "linear.app", URL: "https://linear.app", Category: "productivity", Type: TypeCompany, Twitter: "linear"},
	{Slug: "slack", Name: "Slack", Domain: "slack.com", URL: "https://slack.com", Category: "productivity", Type: TypeCompany},

	// projects
	{Slug: "go", Name: "Go", Domain: "go.dev", URL: "https://go.dev", Category: "language", Type: TypeProject, GitHub: "golang"},
	{Slug: "rust", Name: "Rust", Domain: "rust-lang.org", URL: "https://www.rust-lang.org", Category: "language", Type: TypeProject, GitHub: "rust-lang"},
	{Slug: "react", Name: "React", Domain: "react.dev", URL: "https://react.dev", Category: "framework", Type: TypeProject, GitHub: "facebook"},
	{Slug: "astro", Name: "Astro", Domain: "astro.build", URL: "https://astro.build", Category: "framework", Type: TypeProject, GitHub: "withastro"},
	{Slug: "kubernetes", Name: "Kubernetes", Domain: "kubernetes.io", URL: "https://kubernetes.io", Category: "infrastructure", Type: TypeProject, GitHub: "kubernetes"},
	{Slug: "postgres", Name: "PostgreSQL", Domain: "postgresql.org", URL: "https://www.postgresql.org", Category: "database", Type: TypeProject},
	{Slug: "sqlite", Name: "SQLite", Domain: "sqlite.org", URL: "https://sqlite.org", Category: "database", Type: TypeProject},

	// people
	{Slug: "linus-torvalds", Name: "Linus Torvalds", URL: "https://github.com/torvalds", Category: "people", Type: TypePerson, GitHub: "torvalds"},
	{Slug: "rob-pike", Name: "Rob Pike", URL: "https://commandcenter.blogspot.com", Category: "people", Type: TypePerson, GitHub: "robpike"},
	{Slug: "paul-graham", Name: "Paul Graham", Domain: "paulgraham.com", URL: "https://paulgraham.com", Category: "people", Type: TypePerson, Twitter: "paulg"},
}
