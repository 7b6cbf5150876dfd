package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/critiqhq/critiq/internal/cache"
	"github.com/critiqhq/critiq/internal/config"
	"github.com/critiqhq/critiq/internal/criteria"
	"github.com/critiqhq/critiq/internal/diffparse"
	"github.com/critiqhq/critiq/internal/extract"
	"github.com/critiqhq/critiq/internal/providers"
	"github.com/critiqhq/critiq/internal/redact"
)

// ErrEmptyInput is returned when there is no code to analyze.
var ErrEmptyInput = errors.New("no code provided")

// Options overrides collaborators for a run. Zero value uses the
// configured provider and cache.
type Options struct {
	Generator providers.Generator
	Cache     *cache.Cache
}

// Run executes an analysis using the configured provider and cache.
func Run(ctx context.Context, code string, sel criteria.Selection, cfg config.Config) (*AnalysisResult, error) {
	return RunWithOptions(ctx, code, sel, cfg, Options{})
}

// RunWithOptions executes a full analysis: redact, build prompt, call the
// provider (or cache), extract, normalize. Provider failures and timeouts
// are returned as errors; they never reach the extractor as partial text.
// Malformed model output is not an error: it degrades to sentinel values
// in the result.
func RunWithOptions(ctx context.Context, code string, sel criteria.Selection, cfg config.Config, opts Options) (*AnalysisResult, error) {
	start := time.Now()

	if strings.TrimSpace(code) == "" {
		return nil, ErrEmptyInput
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	submitted := code
	if cfg.Privacy.RedactSecrets {
		submitted = redact.Secrets(submitted)
	}

	parsed := diffparse.Parse(submitted)
	pctx := PromptContext{IsGitDiff: parsed.IsGitDiff()}
	if parsed.IsGitDiff() {
		pctx.FileCount = parsed.TotalFiles
		pctx.LinesAdded = parsed.TotalLinesAdded
		pctx.LinesDel = parsed.TotalLinesRemoved
	} else {
		pctx.Language = diffparse.DetectLanguage(submitted)
	}

	userPrompt := BuildUserPrompt(submitted, sel, pctx)

	gen := opts.Generator
	if gen == nil {
		var err error
		gen, err = providers.New(cfg.Provider, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("creating provider: %w", err)
		}
	}

	store := opts.Cache
	if store == nil {
		var err error
		store, err = cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
	}

	cacheKey := cache.BuildKey(gen.Name(), cfg.Model, userPrompt)
	var raw string
	if entry, hit := store.Get(cacheKey); hit {
		raw = entry.Response
	} else {
		callCtx := ctx
		if cfg.TimeoutSeconds > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
			defer cancel()
		}
		resp, err := gen.Generate(callCtx, providers.GenerateRequest{
			SystemPrompt: SystemPrompt(),
			UserPrompt:   userPrompt,
			MaxTokens:    cfg.MaxTokens,
			Temperature:  cfg.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", gen.Name(), err)
		}
		raw = resp.Content
		// A failed cache write must not fail the analysis.
		_ = store.Put(cacheKey, cache.Entry{
			Provider:   gen.Name(),
			Model:      cfg.Model,
			Response:   raw,
			TokensUsed: resp.TokensUsed,
		})
	}

	extracted, _ := extract.Object(raw)

	meta := Meta{
		ElapsedMS:   time.Since(start).Milliseconds(),
		Timestamp:   time.Now(),
		InputLength: utf8.RuneCountInString(code),
	}
	return Normalize(extracted, raw, sel, meta)
}
