package topics

// Ruleset bundles the fixed classification and scoring tables. It is built
// once at startup and shared read-only across runs; all tables are ordered
// slices so scoring stays deterministic.
type Ruleset struct {
	// ContentPatterns maps each content type to its signal words.
	ContentPatterns []ContentPattern

	// AngleTemplates holds the ordered phrasing templates per content type.
	// The %s verb slot receives the topic title.
	AngleTemplates map[ContentType][]string

	// EngagementMultipliers apply to both content types and text keywords.
	// Only the first keyword match multiplies; matches never compound.
	EngagementMultipliers []Multiplier

	// SourceMultipliers match by substring against the topic's source tag.
	SourceMultipliers []Multiplier

	// ComplexKeywords and SimpleKeywords drive difficulty classification.
	ComplexKeywords []string
	SimpleKeywords  []string

	// StopWords are dropped during keyword extraction.
	StopWords map[string]bool

	// EngagingWords make a video angle eligible as the display title.
	EngagingWords []string

	MaxKeywords        int
	DisplayTitleLimit  int
	ShortTitleBoundary int
	TitlePrefix        string
}

// ContentPattern pairs a content type with the words that vote for it.
// Order in the slice is the tie-break order.
type ContentPattern struct {
	Type     ContentType
	Patterns []string
}

// Multiplier is one named engagement factor.
type Multiplier struct {
	Key    string
	Factor float64
}

// DefaultRuleset returns the production tables.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		ContentPatterns: []ContentPattern{
			{ContentEducational, []string{"learn", "how to", "tutorial", "guide", "explain", "science", "study", "research"}},
			{ContentEntertainment, []string{"funny", "amazing", "incredible", "shocking", "viral", "meme", "celebrity"}},
			{ContentNews, []string{"breaking", "news", "update", "announcement", "report", "today", "latest"}},
			{ContentLifestyle, []string{"health", "fitness", "food", "travel", "home", "style", "beauty", "wellness"}},
		},
		AngleTemplates: map[ContentType][]string{
			ContentEducational: {
				"The Science Behind %s",
				"5 Facts You Didn't Know About %s",
				"Why %s Matters",
				"The Truth About %s",
				"How %s Works",
			},
			ContentEntertainment: {
				"The Shocking Truth About %s",
				"You Won't Believe What Happened with %s",
				"The Craziest Facts About %s",
				"This Will Change How You See %s",
				"The Mind-Blowing Story of %s",
			},
			ContentNews: {
				"Breaking: What's Happening with %s",
				"The Latest on %s",
				"Everything You Need to Know About %s",
				"The Real Story Behind %s",
				"What %s Means for You",
			},
			ContentLifestyle: {
				"How %s Can Change Your Life",
				"The Benefits of %s",
				"Why Everyone's Talking About %s",
				"The Secret to %s",
				"Transform Your Life with %s",
			},
		},
		EngagementMultipliers: []Multiplier{
			{"science", 1.2},
			{"technology", 1.1},
			{"health", 1.3},
			{"animals", 1.4},
			{"space", 1.2},
			{"food", 1.3},
			{"travel", 1.1},
			{"diy", 1.2},
			{"facts", 1.5},
			{"trivia", 1.4},
			{"history", 1.1},
			{"mystery", 1.3},
			{"nature", 1.2},
		},
		SourceMultipliers: []Multiplier{
			{"google_trends", 1.2},
			{"reddit", 1.1},
			{"youtube", 1.1},
			{"twitter", 1.0},
		},
		ComplexKeywords: []string{
			"science", "research", "study", "technology", "medical", "quantum",
			"economics", "finance", "politics", "law", "academic", "technical",
		},
		SimpleKeywords: []string{
			"food", "animals", "travel", "celebrity", "sports", "weather",
			"entertainment", "music", "art", "fashion", "lifestyle",
		},
		StopWords: map[string]bool{
			"the": true, "a": true, "an": true, "and": true, "or": true,
			"but": true, "in": true, "on": true, "at": true, "to": true,
			"for": true, "of": true, "with": true, "by": true, "is": true,
			"are": true, "was": true, "were": true, "be": true, "been": true,
			"have": true, "has": true, "had": true, "this": true, "that": true,
			"these": true, "those": true, "will": true, "would": true,
		},
		EngagingWords:      []string{"shocking", "amazing", "secret", "truth", "facts"},
		MaxKeywords:        10,
		DisplayTitleLimit:  60,
		ShortTitleBoundary: 30,
		TitlePrefix:        "The Truth About",
	}
}
