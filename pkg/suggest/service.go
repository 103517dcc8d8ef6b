package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"bzr-portal-be/internal/entity"
	"bzr-portal-be/internal/repository/unitofwork"
	"bzr-portal-be/pkg/catalog"
	"bzr-portal-be/pkg/llm"
	"bzr-portal-be/pkg/semcache"

	"github.com/google/uuid"
)

// Source tells where a suggestion set came from.
type Source string

const (
	SourceAI       Source = "AI"
	SourceCache    Source = "CACHE"
	SourceFallback Source = "FALLBACK"
)

// Fallback reasons recorded for diagnostics.
const (
	ReasonAIError            = "AI_ERROR"
	ReasonAITimeout          = "AI_TIMEOUT"
	ReasonAIUnparsable       = "AI_UNPARSABLE"
	ReasonAINoValidCodes     = "AI_NO_VALID_SUGGESTIONS"
	ReasonSuggestionDisabled = "SUGGESTIONS_DISABLED"
)

// suggestTimeout caps one LLM round trip. A user waiting in a chat does
// not tolerate more than this.
const suggestTimeout = 20 * time.Second

// Result is a suggestion set with provenance and token usage. The usage
// fields are filled whenever an LLM call was made, including fallbacks
// whose output was discarded; the orchestrator bills those too.
type Result struct {
	Suggestions  []entity.HazardSuggestion
	Source       Source
	Reason       string // set when Source == FALLBACK
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// Service produces hazard suggestions for a work position: semantic cache
// first, then the LLM, constrained to the closed hazard catalog.
type Service struct {
	llmProvider llm.Provider
	cache       *semcache.Cache
	maxResults  int
	logger      *log.Logger
}

func NewService(llmProvider llm.Provider, cache *semcache.Cache, maxResults int, logger *log.Logger) *Service {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Service{
		llmProvider: llmProvider,
		cache:       cache,
		maxResults:  maxResults,
		logger:      logger,
	}
}

// Suggest returns hazard suggestions for the described position. Never
// returns an error: every failure degrades to a FALLBACK result with a
// reason, and the conversation continues with manual entry.
func (s *Service) Suggest(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	companyId uuid.UUID,
	positionName string,
	description string,
) *Result {

	profile := semcache.JobProfile{PositionName: positionName, Description: description}

	// 1. Semantic cache
	if hit := s.cache.FindSimilar(ctx, uow, companyId, profile); hit != nil {
		return &Result{
			Suggestions: hit.Suggestions,
			Source:      SourceCache,
		}
	}

	// 2. LLM, bounded
	llmCtx, cancel := context.WithTimeout(ctx, suggestTimeout)
	defer cancel()

	completion, err := s.llmProvider.Generate(llmCtx, s.buildPrompt(positionName, description), llm.WithTemperature(0.2))
	if err != nil {
		reason := ReasonAIError
		if llmCtx.Err() == context.DeadlineExceeded {
			reason = ReasonAITimeout
		}
		s.logger.Printf("[WARN] Suggestion call failed (%s): %v", reason, err)
		return &Result{Source: SourceFallback, Reason: reason}
	}

	raw, err := parseSuggestions(completion.Text)
	if err != nil {
		s.logger.Printf("[WARN] Unparsable suggestion payload: %v", err)
		return s.withUsage(&Result{Source: SourceFallback, Reason: ReasonAIUnparsable}, completion)
	}

	// 3. Constrain to the catalog. The model occasionally invents codes;
	// those never reach the user.
	valid := s.filterToCatalog(raw)
	if len(valid) == 0 {
		return s.withUsage(&Result{Source: SourceFallback, Reason: ReasonAINoValidCodes}, completion)
	}

	// 4. Write through. Best effort, the result does not wait on it.
	s.cache.Save(ctx, uow, companyId, profile, valid)

	return s.withUsage(&Result{Suggestions: valid, Source: SourceAI}, completion)
}

// withUsage stamps token usage and the metered cost onto a result that
// came out of an LLM call.
func (s *Service) withUsage(res *Result, completion *llm.Completion) *Result {
	res.Provider = completion.Provider
	res.Model = completion.Model
	res.InputTokens = completion.InputTokens
	res.OutputTokens = completion.OutputTokens
	res.CostUSD = llm.Cost(completion)
	return res
}

func (s *Service) buildPrompt(positionName, description string) string {
	var b strings.Builder

	b.WriteString("Ti si stručnjak za bezbednost i zdravlje na radu u Srbiji.\n")
	b.WriteString("Za dato radno mesto predloži opasnosti i štetnosti ISKLJUČIVO iz sledećeg kataloga.\n\n")
	b.WriteString("KATALOG (šifra | kategorija | opis):\n")
	for _, e := range catalog.All() {
		fmt.Fprintf(&b, "%s | %s | %s\n", e.Code, e.Category, e.Description)
	}

	fmt.Fprintf(&b, "\nRADNO MESTO: %s\n", positionName)
	fmt.Fprintf(&b, "OPIS POSLOVA: %s\n\n", description)

	fmt.Fprintf(&b, "Vrati najviše %d predloga kao JSON niz, bez ikakvog dodatnog teksta:\n", s.maxResults)
	b.WriteString(`[{"code": "03", "confidence": 0.9}]` + "\n")
	b.WriteString("Polje confidence je broj između 0 i 1.\n")

	return b.String()
}

type rawSuggestion struct {
	Code       string  `json:"code"`
	Confidence float64 `json:"confidence"`
}

// parseSuggestions tolerates the markdown code fences models like to wrap
// JSON in.
func parseSuggestions(response string) ([]rawSuggestion, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	// Some models prepend prose despite instructions. Find the array.
	if i := strings.Index(response, "["); i > 0 {
		response = response[i:]
	}
	if i := strings.LastIndex(response, "]"); i >= 0 {
		response = response[:i+1]
	}

	var out []rawSuggestion
	if err := json.Unmarshal([]byte(response), &out); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion JSON: %w", err)
	}
	return out, nil
}

func (s *Service) filterToCatalog(raw []rawSuggestion) []entity.HazardSuggestion {
	var valid []entity.HazardSuggestion
	seen := make(map[string]bool)

	for _, r := range raw {
		code := strings.TrimSpace(r.Code)
		if seen[code] {
			continue
		}
		catEntry, ok := catalog.Lookup(code)
		if !ok {
			s.logger.Printf("[DEBUG] Dropping invented hazard code %q", code)
			continue
		}
		confidence := r.Confidence
		if confidence < 0 || confidence > 1 {
			confidence = 0
		}
		valid = append(valid, entity.HazardSuggestion{
			Code:       catEntry.Code,
			Name:       catEntry.Description,
			Category:   string(catEntry.Category),
			Confidence: confidence,
		})
		seen[code] = true

		if len(valid) == s.maxResults {
			break
		}
	}
	return valid
}
