package agent

// Structured output shapes requested from the model facade. Field tags feed
// the reflection schema generator; descriptions double as inline instructions
// the model sees alongside the prompt.

// EntityExtraction is the entity extraction node's structured output.
type EntityExtraction struct {
	Entities []string `json:"entities" jsonschema:"description=1 to 3 short phrases naming the main entities or topics of the article,required"`
}

// webSearchArgs is the argument payload of one web_search tool call.
type webSearchArgs struct {
	Query string `json:"query" jsonschema:"description=The web search query to run,required"`
}

// routeVerdict is the router node's structured output when the quality of the
// accumulated results must be judged by a model.
type routeVerdict struct {
	Route     string `json:"route" jsonschema:"description=Next step for the research loop,enum=query_generator,enum=competitor_analysis,required"`
	Reasoning string `json:"reasoning,omitempty" jsonschema:"description=One sentence explaining the verdict"`
}

// competitorAnalysisResult is the competitor analysis node's structured output.
type competitorAnalysisResult struct {
	TopQueries  []string           `json:"top_queries" jsonschema:"description=The 1 to 2 search queries that produced the most relevant competitor content,required"`
	Competitors []CompetitorRecord `json:"competitors" jsonschema:"description=Top 5 deduplicated competitor pages ranked 1 to 5 by relevance and authority; every url title published_date and highlight must be copied verbatim from the supplied search results,required"`
	Analysis    string             `json:"analysis" jsonschema:"description=Markdown competitive analysis with weaknesses strengths and recommended actions sections,required"`
}

// masterlistResult is the masterlist node's structured output.
type masterlistResult struct {
	Masterlist        []RankedKeyword     `json:"masterlist" jsonschema:"description=Exactly 10 keywords copied verbatim from the merged metrics and ranked 1 to 10 by descending average monthly volume; only the rank field is new,required"`
	PrimaryKeywords   []KeywordSuggestion `json:"primary_keywords" jsonschema:"description=2 to 3 primary keywords drawn from the masterlist by exact term match,required"`
	SecondaryKeywords []KeywordSuggestion `json:"secondary_keywords" jsonschema:"description=3 to 5 secondary keywords drawn from the masterlist by exact term match,required"`
}

// suggestionsResult is the terminal suggestions node's structured output.
type suggestionsResult struct {
	URLSlug          string   `json:"url_slug" jsonschema:"description=One URL slug built from the primary keywords in kebab-case,required"`
	Headlines        []string `json:"headlines" jsonschema:"description=2 to 3 headline candidates using the primary keywords,required"`
	RevisedSentences string   `json:"revised_sentences" jsonschema:"description=Markdown block of original to revised sentence pairs with each inserted keyword bolded; order high-impact revisions first; cap at 5 to 7 insertions total,required"`
}

// fullArticleResult is the full-article generator's structured output.
type fullArticleResult struct {
	RevisedArticle string `json:"revised_article" jsonschema:"description=The complete revised article with every accepted keyword insertion applied,required"`
}
