// Package answer implements the retrieval pipeline: a fixed, linear
// sequence of stages that turns a resident's question into a grounded
// answer with citations. Each stage reads fields written by its
// predecessors on one State and writes its own; independent requests run
// concurrently with no shared mutable state.
package answer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/civsearch/civsearch"
)

// DefaultTopK is the number of chunks retrieved per query.
const DefaultTopK = 5

// DefaultRespondRetries is how many times the Respond stage retries after
// its first failed attempt.
const DefaultRespondRetries = 2

// DefaultWorkingLanguage is the language the index and prompts use.
const DefaultWorkingLanguage = "English"

// Apology is the terminal fallback answer when the Respond stage exhausts
// its retries. It is the pipeline's only hard-coded answer besides
// NoIndexesAnswer.
const Apology = "I'm sorry, I could not produce an answer to your question right now. " +
	"Please try again later or contact the municipality directly."

// NoIndexesAnswer is returned when no search indexes are registered.
const NoIndexesAnswer = "No search indexes available."

// State carries one request through the pipeline. It is owned exclusively
// by the pipeline for the request's lifetime.
type State struct {
	Query           string
	SourceLang      string
	TranslatedQuery string
	IndexName       string
	Section         string
	SearchQuery     string
	Chunks          []civsearch.SearchMatch
	Evaluation      string
	Contacts        []civsearch.Contact
	Answer          string
	Citations       []string

	// Notes records fallback decisions made along the way, such as an
	// explicitly skipped section filter.
	Notes []string

	done bool
}

func (s *State) note(format string, args ...any) {
	s.Notes = append(s.Notes, fmt.Sprintf(format, args...))
}

// Result is the terminal output of the pipeline.
type Result struct {
	Answer    string
	Citations []string
	State     *State
}

// StageEvent reports one completed stage during a streaming answer.
type StageEvent struct {
	Stage   string
	Message string
}

// Pipeline answers questions against the vector store. All collaborator
// fields except Contacts are required.
type Pipeline struct {
	Generator civsearch.Generator
	Embedder  civsearch.Embedder
	Store     civsearch.VectorStore
	Registry  civsearch.RegistryService
	Contacts  []civsearch.Contact

	TopK            int
	RespondRetries  int
	WorkingLanguage string
}

type stage struct {
	name string
	run  func(ctx context.Context, s *State) string
}

// stages returns the pipeline's fixed topology in execution order. Each
// stage returns a short human-readable completion message.
func (p *Pipeline) stages() []stage {
	return []stage{
		{"translation", p.translate},
		{"index_selection", p.selectIndex},
		{"section_prediction", p.predictSection},
		{"query", p.retrieve},
		{"evaluation", p.evaluate},
		{"contacts", p.enrich},
		{"response", p.respond},
		{"translation_back", p.translateBack},
	}
}

// Answer runs the full pipeline for one query.
func (p *Pipeline) Answer(ctx context.Context, query string) (*Result, error) {
	return p.run(ctx, query, nil)
}

// AnswerStream is like Answer but sends one StageEvent per completed stage
// on events before returning. The caller owns the channel; AnswerStream
// does not close it.
func (p *Pipeline) AnswerStream(ctx context.Context, query string, events chan<- StageEvent) (*Result, error) {
	return p.run(ctx, query, events)
}

func (p *Pipeline) run(ctx context.Context, query string, events chan<- StageEvent) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, civsearch.Errorf(civsearch.EINVALID, "query must not be empty")
	}

	state := &State{Query: query}
	for _, st := range p.stages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg := st.run(ctx, state)
		if events != nil {
			select {
			case events <- StageEvent{Stage: st.name, Message: msg}:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if state.done {
			break
		}
	}

	return &Result{Answer: state.Answer, Citations: state.Citations, State: state}, nil
}

// translate detects the query language and translates it to the working
// language. Detection failure defaults to "already in the working
// language".
func (p *Pipeline) translate(ctx context.Context, s *State) string {
	working := p.workingLanguage()
	s.SourceLang = working
	s.TranslatedQuery = s.Query

	lang, ok := p.generate(ctx, fmt.Sprintf(
		"What language is the following text written in? Respond with the language name only.\n\n%s",
		s.Query))
	if !ok {
		s.note("language detection failed, assuming %s", working)
		return "language detection unavailable"
	}
	lang = strings.TrimSpace(lang)
	if strings.EqualFold(lang, working) || strings.Contains(strings.ToLower(lang), strings.ToLower(working)) {
		return fmt.Sprintf("query already in %s", working)
	}

	translated, ok := p.generate(ctx, fmt.Sprintf(
		"Translate the following to %s for a government search tool. Respond with the translation only.\n\n%s",
		working, s.Query))
	if !ok {
		s.note("translation failed, keeping original query")
		return "translation unavailable, using original query"
	}

	s.SourceLang = lang
	s.TranslatedQuery = strings.TrimSpace(translated)
	return fmt.Sprintf("translated query from %s", lang)
}

// selectIndex picks the index to search. An empty registry short-circuits
// the pipeline with a terminal answer and no citations.
func (p *Pipeline) selectIndex(ctx context.Context, s *State) string {
	indexes, err := p.Registry.List(ctx)
	if err != nil || len(indexes) == 0 {
		s.Answer = NoIndexesAnswer
		s.Citations = []string{}
		s.done = true
		if err != nil {
			s.note("registry unavailable: %v", err)
		}
		return "no indexes available"
	}

	var sb strings.Builder
	for _, info := range indexes {
		fmt.Fprintf(&sb, "%s: %s\n", info.Name, info.Description)
	}
	response, ok := p.generate(ctx, fmt.Sprintf(
		"A resident asked: %q\n\nWhich of these search indexes is most relevant? Respond with the index name only.\n\n%s",
		s.TranslatedQuery, sb.String()))

	if ok {
		lower := strings.ToLower(response)
		for _, info := range indexes {
			if strings.Contains(lower, strings.ToLower(info.Name)) {
				s.IndexName = info.Name
				return fmt.Sprintf("selected index %s", info.Name)
			}
		}
	}

	// Deterministic fallback: first index by registration order.
	s.IndexName = indexes[0].Name
	s.note("index selection fell back to %s", s.IndexName)
	return fmt.Sprintf("selected index %s (fallback)", s.IndexName)
}

// predictSection narrows the search to one site section. No sections, or a
// failed scan, means the search runs unfiltered; that decision is recorded
// in state rather than applied silently.
func (p *Pipeline) predictSection(ctx context.Context, s *State) string {
	sections, err := p.Store.Sections(ctx, s.IndexName)
	if err != nil || len(sections) == 0 {
		s.note("section filter skipped: no sections available")
		return "no section filter"
	}
	sort.Strings(sections)

	response, ok := p.generate(ctx, fmt.Sprintf(
		"A resident asked: %q\n\nWhich of these website sections is most relevant? Respond with the section path only.\n\n%s",
		s.TranslatedQuery, strings.Join(sections, "\n")))

	if ok {
		lower := strings.ToLower(response)
		for _, section := range sections {
			if strings.Contains(lower, strings.ToLower(section)) {
				s.Section = section
				return fmt.Sprintf("predicted section %s", section)
			}
		}
	}

	// Deterministic fallback: first section in sorted order.
	s.Section = sections[0]
	s.note("section prediction fell back to %s", s.Section)
	return fmt.Sprintf("predicted section %s (fallback)", s.Section)
}

// retrieve rewrites the query into search form, embeds it, and runs the
// similarity search.
func (p *Pipeline) retrieve(ctx context.Context, s *State) string {
	s.SearchQuery = s.TranslatedQuery
	rewritten, ok := p.generate(ctx, fmt.Sprintf(
		"Rewrite the following resident question to be as concise and search-friendly as possible "+
			"for a government document search. Respond with the rewritten query only.\n\n%s",
		s.TranslatedQuery))
	if ok {
		s.SearchQuery = strings.TrimSpace(rewritten)
	} else {
		s.note("query rewrite failed, searching with the question as-is")
	}

	vector, err := p.Embedder.Embed(ctx, s.SearchQuery)
	if err != nil || len(vector) == 0 {
		s.note("embedding failed, no context retrieved")
		s.Citations = []string{}
		return "retrieval skipped: embedding unavailable"
	}

	topK := p.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	matches, err := p.Store.Search(ctx, s.IndexName, vector, topK, s.Section)
	if err != nil {
		s.note("search failed: %v", err)
		s.Citations = []string{}
		return "retrieval failed"
	}

	s.Chunks = matches
	s.Citations = make([]string, len(matches))
	for i, m := range matches {
		s.Citations[i] = m.URL
	}
	return fmt.Sprintf("retrieved %d chunks", len(matches))
}

// evaluate asks the model whether the context answers the question. The
// verdict is stored as free text for the final prompt, not parsed.
func (p *Pipeline) evaluate(ctx context.Context, s *State) string {
	if len(s.Chunks) == 0 {
		s.note("evaluation skipped: no context")
		return "evaluation skipped"
	}

	verdict, ok := p.generate(ctx, fmt.Sprintf(
		"Question: %s\n\nContext:\n%s\n\nDoes the context fully answer the question? "+
			"Respond 'yes' or 'no' and explain briefly.",
		s.SearchQuery, s.contextText()))
	if !ok {
		s.note("evaluation unavailable")
		return "evaluation unavailable"
	}
	s.Evaluation = strings.TrimSpace(verdict)
	return "evaluated context"
}

// enrich attaches the fallback human contacts to state.
func (p *Pipeline) enrich(ctx context.Context, s *State) string {
	s.Contacts = p.Contacts
	if len(s.Contacts) == 0 {
		return "no contacts configured"
	}
	return fmt.Sprintf("attached %d contacts", len(s.Contacts))
}

// respond composes the grounded-answer prompt and generates the final
// answer, retrying on empty or failed responses. Exhausted retries yield
// the fixed apology; citations keep the retrieved chunk URLs either way.
func (p *Pipeline) respond(ctx context.Context, s *State) string {
	prompt := p.respondPrompt(s)

	retries := p.RespondRetries
	if retries <= 0 {
		retries = DefaultRespondRetries
	}
	for attempt := 0; attempt <= retries; attempt++ {
		response, ok := p.generate(ctx, prompt)
		if ok {
			s.Answer = strings.TrimSpace(response)
			return "generated answer"
		}
	}

	s.Answer = Apology
	s.note("respond stage exhausted retries")
	return "generated fallback answer"
}

func (p *Pipeline) respondPrompt(s *State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a helpful assistant for a municipal website. "+
		"Answer the resident's question using only the provided context. "+
		"Quote the context verbatim where possible and cite sources inline.\n\n")
	fmt.Fprintf(&sb, "Question: %s\n\n", s.SearchQuery)

	if len(s.Chunks) > 0 {
		sb.WriteString("Context:\n")
		for _, chunk := range s.Chunks {
			fmt.Fprintf(&sb, "%s\nSource: %s (Indexed: %s)\n\n", chunk.Text, chunk.URL, chunk.Date)
		}
	} else {
		sb.WriteString("Context: none was found.\n\n")
	}

	if s.Evaluation != "" {
		fmt.Fprintf(&sb, "Assessment of the context: %s\n\n", s.Evaluation)
	}
	if s.Section != "" {
		fmt.Fprintf(&sb, "The answer likely concerns the %s section of the website.\n\n", s.Section)
	}
	if len(s.Contacts) > 0 {
		fmt.Fprintf(&sb, "If the context does not answer the question, refer the resident to:\n%s\n",
			civsearch.FormatContacts(s.Contacts))
	}
	return sb.String()
}

// translateBack restores the resident's language. A failed back-translation
// keeps the working-language answer; a successful answer is never discarded.
func (p *Pipeline) translateBack(ctx context.Context, s *State) string {
	working := p.workingLanguage()
	if strings.EqualFold(s.SourceLang, working) {
		return "no back-translation needed"
	}

	translated, ok := p.generate(ctx, fmt.Sprintf(
		"Translate the following from %s to %s. Preserve any URLs exactly. Respond with the translation only.\n\n%s",
		working, s.SourceLang, s.Answer))
	if !ok {
		s.note("back-translation failed, keeping %s answer", working)
		return "back-translation unavailable"
	}

	s.Answer = strings.TrimSpace(translated)
	return fmt.Sprintf("translated answer to %s", s.SourceLang)
}

func (s *State) contextText() string {
	texts := make([]string, len(s.Chunks))
	for i, chunk := range s.Chunks {
		texts[i] = chunk.Text
	}
	return strings.Join(texts, "\n\n")
}

// generate wraps the Generator, collapsing transport errors and empty
// responses into a single "not usable" signal so stages fall back
// deterministically.
func (p *Pipeline) generate(ctx context.Context, prompt string) (string, bool) {
	response, err := p.Generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(response) == "" {
		return "", false
	}
	return response, true
}

func (p *Pipeline) workingLanguage() string {
	if p.WorkingLanguage != "" {
		return p.WorkingLanguage
	}
	return DefaultWorkingLanguage
}
