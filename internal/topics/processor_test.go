package topics

import (
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
)

func testTopicsConfig() config.TopicsConfig {
	return config.TopicsConfig{
		Blacklist:      []string{"murder", "nsfw", "political"},
		MinTitleLength: 10,
		MaxTitleLength: 100,
		MinScore:       10.0,
	}
}

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	return NewProcessor(testTopicsConfig(), nil)
}

func TestProcessDropsBlacklistedTopics(t *testing.T) {
	p := newTestProcessor(t)

	raw := []RawTopic{
		{Title: "A murder case in the city center", Score: 50},
		{Title: "Ocean currents and their hidden patterns", Score: 50},
		{Title: "Harmless cooking tips", Description: "totally nsfw content", Score: 50},
	}

	ranked := p.Process(raw)
	if len(ranked) != 1 {
		t.Fatalf("got %d topics, want 1", len(ranked))
	}
	if ranked[0].Origin.Title != "Ocean currents and their hidden patterns" {
		t.Errorf("wrong survivor: %q", ranked[0].Origin.Title)
	}
}

func TestProcessEnforcesTitleBoundsAndMinScore(t *testing.T) {
	p := newTestProcessor(t)

	raw := []RawTopic{
		{Title: "Too short", Score: 50},
		{Title: strings.Repeat("x", 101), Score: 50},
		{Title: "A perfectly reasonable topic title", Score: 5},
		{Title: "A perfectly reasonable topic title", Score: 10},
	}

	ranked := p.Process(raw)
	if len(ranked) != 1 {
		t.Fatalf("got %d topics, want 1", len(ranked))
	}
	if ranked[0].Origin.Score != 10 {
		t.Errorf("wrong survivor score: %v", ranked[0].Origin.Score)
	}
}

func TestProcessSortsByEngagementDescending(t *testing.T) {
	p := newTestProcessor(t)

	raw := []RawTopic{
		{Title: "Ocean currents and their patterns", Score: 20},
		{Title: "Mountain ranges around the world", Score: 80},
		{Title: "Desert climates and their extremes", Score: 40},
	}

	ranked := p.Process(raw)
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Engagement > ranked[i-1].Engagement {
			t.Fatalf("not sorted at %d: %v > %v", i, ranked[i].Engagement, ranked[i-1].Engagement)
		}
	}
}

func TestProcessKeepsInputOrderForEqualEngagement(t *testing.T) {
	p := newTestProcessor(t)

	// None of these titles hit a content-type, keyword, or source
	// multiplier, so all three land at exactly the same engagement.
	raw := []RawTopic{
		{Title: "Quiet mountain village morning", Score: 50, Source: "manual"},
		{Title: "Calm lakeside evening walk", Score: 50, Source: "manual"},
		{Title: "Gentle rolling hills at dusk", Score: 50, Source: "manual"},
	}

	ranked := p.Process(raw)
	if len(ranked) != 3 {
		t.Fatalf("got %d topics, want 3", len(ranked))
	}
	for i, rt := range ranked {
		if rt.Engagement != 50 {
			t.Fatalf("topic %d engagement = %v, want 50", i, rt.Engagement)
		}
		if rt.Origin.Title != raw[i].Title {
			t.Errorf("position %d: got %q, want %q", i, rt.Origin.Title, raw[i].Title)
		}
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	p := newTestProcessor(t)

	raw := []RawTopic{
		{Title: "Mountain ranges around the world", Score: 80, Keywords: []string{"geology"}},
		{Title: "Desert climates and their extremes", Score: 40},
	}

	first := p.Process(raw)
	second := p.Process(raw)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated processing of the same batch diverged")
	}
}

func TestClassify(t *testing.T) {
	p := newTestProcessor(t)

	cases := []struct {
		title string
		want  ContentType
	}{
		{"Learn how to guide a science study", ContentEducational},
		{"Funny viral celebrity meme compilation", ContentEntertainment},
		{"Breaking news update announcement today", ContentNews},
		{"Health fitness food and wellness habits", ContentLifestyle},
		{"Ocean currents near coastal zones", ContentEducational}, // no signal words
	}

	for _, tc := range cases {
		got := p.classify(RawTopic{Title: tc.title})
		if got != tc.want {
			t.Errorf("classify(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestClassifyTieFavorsTableOrder(t *testing.T) {
	p := newTestProcessor(t)

	// one educational signal, one entertainment signal
	got := p.classify(RawTopic{Title: "A funny science moment"})
	if got != ContentEducational {
		t.Errorf("tie broke to %v, want educational", got)
	}
}

func TestEngagementAppliesOnlyFirstKeywordMatch(t *testing.T) {
	p := newTestProcessor(t)

	// "science" (1.2) precedes "facts" (1.5) in the table; only it applies.
	got := p.engagement(RawTopic{Title: "science facts", Score: 50, Source: "manual"}, ContentEducational)
	want := 50 * 1.2
	if got != want {
		t.Errorf("engagement = %v, want %v", got, want)
	}
}

func TestEngagementSourceMultiplier(t *testing.T) {
	p := newTestProcessor(t)

	got := p.engagement(RawTopic{Title: "plain neutral words", Score: 50, Source: "reddit_r_science"}, ContentEducational)
	want := 50 * 1.1
	if got != want {
		t.Errorf("engagement = %v, want %v", got, want)
	}
}

func TestEngagementRecencyBonus(t *testing.T) {
	p := newTestProcessor(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return base }

	fresh := base.Add(-1 * time.Hour)
	recent := base.Add(-12 * time.Hour)
	stale := base.Add(-48 * time.Hour)

	cases := []struct {
		at   time.Time
		want float64
	}{
		{fresh, 50 * 1.3},
		{recent, 50 * 1.1},
		{stale, 50},
	}
	for _, tc := range cases {
		at := tc.at
		got := p.engagement(RawTopic{Title: "plain neutral words", Score: 50, Source: "manual", DiscoveredAt: &at}, ContentEducational)
		if got != tc.want {
			t.Errorf("engagement at %v = %v, want %v", tc.at, got, tc.want)
		}
	}
}

func TestDifficulty(t *testing.T) {
	p := newTestProcessor(t)

	cases := []struct {
		title string
		want  Difficulty
	}{
		{"quantum economics research study", DifficultyHard},
		{"food travel music and sports", DifficultyEasy},
		{"science food balanced words", DifficultyMedium}, // one of each
		{"nothing signals either way", DifficultyMedium},
	}
	for _, tc := range cases {
		if got := p.difficulty(RawTopic{Title: tc.title}); got != tc.want {
			t.Errorf("difficulty(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestBestTopicPrefersEasyOrMedium(t *testing.T) {
	p := newTestProcessor(t)

	ranked := []RankedTopic{
		{DisplayTitle: "hardest", Engagement: 100, Difficulty: DifficultyHard},
		{DisplayTitle: "easier", Engagement: 50, Difficulty: DifficultyMedium},
	}

	best, ok := p.BestTopic(ranked)
	if !ok {
		t.Fatal("expected a best topic")
	}
	if best.DisplayTitle != "easier" {
		t.Errorf("best = %q, want the medium topic", best.DisplayTitle)
	}
}

func TestBestTopicFallsBackToHard(t *testing.T) {
	p := newTestProcessor(t)

	ranked := []RankedTopic{
		{DisplayTitle: "top hard", Engagement: 100, Difficulty: DifficultyHard},
		{DisplayTitle: "lesser hard", Engagement: 50, Difficulty: DifficultyHard},
	}

	best, ok := p.BestTopic(ranked)
	if !ok || best.DisplayTitle != "top hard" {
		t.Errorf("best = %q ok=%v, want top hard", best.DisplayTitle, ok)
	}
}

func TestBestTopicEmpty(t *testing.T) {
	p := newTestProcessor(t)
	if _, ok := p.BestTopic(nil); ok {
		t.Error("expected no best topic from an empty batch")
	}
}

func TestDisplayTitleTruncation(t *testing.T) {
	p := newTestProcessor(t)

	long := strings.Repeat("neutral words here ", 5) // 95 runes, no hook words
	got := p.displayTitle(long, "An angle longer than the display limit "+long)

	if utf8.RuneCountInString(got) != 60 {
		t.Errorf("display title is %d runes, want 60", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("display title %q lacks ellipsis", got)
	}
}

func TestDisplayTitlePrefixesShortTitles(t *testing.T) {
	p := newTestProcessor(t)

	got := p.displayTitle("Ocean currents", "The Longest Possible Angle Without Any Hook Words In It At All Whatsoever")
	if got != "The Truth About Ocean currents" {
		t.Errorf("display title = %q", got)
	}
}

func TestDisplayTitleUsesEngagingAngle(t *testing.T) {
	p := newTestProcessor(t)

	angle := "The Shocking Truth About Bees"
	if got := p.displayTitle("Bees and their hives explained", angle); got != angle {
		t.Errorf("display title = %q, want the angle", got)
	}
}

func TestExtractKeywords(t *testing.T) {
	p := newTestProcessor(t)

	got := p.extractKeywords(RawTopic{
		Title:       "The volcano and the volcano again",
		Description: "How magma flows",
		Keywords:    []string{"Geology"},
	})

	want := []string{"geology", "volcano", "again", "how", "magma", "flows"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keywords = %v, want %v", got, want)
	}
}

func TestExtractKeywordsCapped(t *testing.T) {
	p := newTestProcessor(t)

	got := p.extractKeywords(RawTopic{
		Title: "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda omega",
	})
	if len(got) != p.rules.MaxKeywords {
		t.Errorf("got %d keywords, want %d", len(got), p.rules.MaxKeywords)
	}
}

func TestFilterByContentType(t *testing.T) {
	ranked := []RankedTopic{
		{DisplayTitle: "a", ContentType: ContentNews},
		{DisplayTitle: "b", ContentType: ContentEducational},
		{DisplayTitle: "c", ContentType: ContentNews},
	}

	got := FilterByContentType(ranked, ContentNews)
	if len(got) != 2 || got[0].DisplayTitle != "a" || got[1].DisplayTitle != "c" {
		t.Errorf("filter result = %+v", got)
	}
}

func TestScienceDiscoveryTopic(t *testing.T) {
	p := newTestProcessor(t)

	ranked := p.Process([]RawTopic{{
		Title:       "Amazing Science Discovery",
		Description: "Scientists find new deep sea creature",
		Source:      "reddit_r_science",
		Score:       85.5,
	}})
	if len(ranked) != 1 {
		t.Fatalf("got %d topics, want 1", len(ranked))
	}

	rt := ranked[0]
	if rt.ContentType != ContentEducational {
		t.Errorf("content type = %v, want educational", rt.ContentType)
	}
	// "science" reads as a complex signal; this topic must never rank easy
	if rt.Difficulty == DifficultyEasy {
		t.Errorf("difficulty = %v, must not be easy", rt.Difficulty)
	}
	if rt.Engagement <= 0 {
		t.Errorf("engagement = %v", rt.Engagement)
	}
}

func TestPoliticalTopicExcluded(t *testing.T) {
	p := newTestProcessor(t)

	ranked := p.Process([]RawTopic{{
		Title:  "Political Controversy Update Today",
		Source: "google_trends",
		Score:  95,
	}})
	if len(ranked) != 0 {
		t.Errorf("political topic survived the filter: %+v", ranked)
	}
}

func TestProcessEmptyBatch(t *testing.T) {
	p := newTestProcessor(t)
	if got := p.Process(nil); len(got) != 0 {
		t.Errorf("empty batch produced %d topics", len(got))
	}
}

func TestStats(t *testing.T) {
	ranked := []RankedTopic{
		{ContentType: ContentNews, Difficulty: DifficultyEasy, Engagement: 10, Keywords: []string{"x", "y"}},
		{ContentType: ContentNews, Difficulty: DifficultyHard, Engagement: 30, Keywords: []string{"y"}},
	}

	stats := Stats(ranked)
	if stats.Total != 2 || stats.AverageEngagement != 20 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByContentType[ContentNews] != 2 {
		t.Errorf("news count = %d", stats.ByContentType[ContentNews])
	}
	if len(stats.TopKeywords) == 0 || stats.TopKeywords[0] != "y" {
		t.Errorf("top keywords = %v", stats.TopKeywords)
	}
}
