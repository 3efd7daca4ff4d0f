package matcher

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"jobpulse/internal/domain/job"
)

const semanticTitleBoost = 10

// Embedder turns text into a dense vector. The production
// implementation talks to an OpenAI-compatible endpoint; tests plug in
// a deterministic fake.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedderConfig holds the embedding endpoint settings.
type EmbedderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	cfg    EmbedderConfig
	once   sync.Once
	client *openai.Client
}

func NewOpenAIEmbedder(cfg EmbedderConfig) *OpenAIEmbedder {
	return &OpenAIEmbedder{cfg: cfg}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e == nil {
		return nil, fmt.Errorf("nil embedder")
	}
	if strings.TrimSpace(e.cfg.APIKey) == "" {
		return nil, fmt.Errorf("embedding api key not configured")
	}
	// The client is cheap but immutable; build it exactly once and
	// share it across goroutines.
	e.once.Do(func() {
		clientCfg := openai.DefaultConfig(e.cfg.APIKey)
		if e.cfg.BaseURL != "" {
			clientCfg.BaseURL = e.cfg.BaseURL
		}
		e.client = openai.NewClientWithConfig(clientCfg)
	})

	model := e.cfg.Model
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}

// SemanticMatcher scores by cosine similarity between the profile
// corpus and the posting text. Any embedding failure degrades to a
// zero score with the error recorded in the details; the caller
// decides whether to fall back to another strategy.
type SemanticMatcher struct {
	embedder Embedder
	logger   *log.Logger

	mu           sync.Mutex
	profileText  string
	profileVec   []float32
	profileReady bool
}

func NewSemanticMatcher(embedder Embedder, logger *log.Logger) *SemanticMatcher {
	return &SemanticMatcher{embedder: embedder, logger: logger}
}

func (m *SemanticMatcher) Name() string { return "semantic" }

func (m *SemanticMatcher) Match(ctx context.Context, j job.Job, p job.Profile) (MatchResult, error) {
	if m == nil || m.embedder == nil {
		return degraded("semantic matcher not configured"), nil
	}

	corpus := p.Corpus()
	if strings.TrimSpace(corpus) == "" {
		return degraded("profile has no resume text or skills"), nil
	}

	profileVec, err := m.profileVector(ctx, corpus)
	if err != nil {
		if m.logger != nil {
			m.logger.Printf("[Matcher] Profile embedding failed | err=%v", err)
		}
		return degraded(err.Error()), nil
	}

	jobText := j.Title + ". " + j.Description
	jobVec, err := m.embedder.Embed(ctx, jobText)
	if err != nil {
		if m.logger != nil {
			m.logger.Printf("[Matcher] Job embedding failed | url=%s err=%v", j.URL, err)
		}
		return degraded(err.Error()), nil
	}

	score := cosine(profileVec, jobVec) * 100
	boosted := false
	title := strings.ToLower(j.Title)
	for _, s := range trimmedSkills(p.Skills) {
		if strings.Contains(title, strings.ToLower(s)) {
			score += semanticTitleBoost
			boosted = true
			break
		}
	}
	score = round2(clampScore(score))

	return MatchResult{
		Score: score,
		Details: map[string]any{
			"strategy":    "semantic",
			"title_boost": boosted,
		},
	}, nil
}

// profileVector caches the profile embedding per corpus text, so a
// batch of N jobs costs N+1 embedding calls instead of 2N.
func (m *SemanticMatcher) profileVector(ctx context.Context, corpus string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profileReady && m.profileText == corpus {
		return m.profileVec, nil
	}
	vec, err := m.embedder.Embed(ctx, corpus)
	if err != nil {
		return nil, err
	}
	m.profileText = corpus
	m.profileVec = vec
	m.profileReady = true
	return vec, nil
}

func degraded(reason string) MatchResult {
	return MatchResult{
		Score:   0,
		Details: map[string]any{"strategy": "semantic", "error": reason},
	}
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
