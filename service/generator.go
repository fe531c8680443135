package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"baby-namer/config"
	"baby-namer/model"
	"baby-namer/pkg/astro"
	"baby-namer/pkg/deepseek"
	"baby-namer/pkg/logger"
	"baby-namer/pkg/metrics"
	"baby-namer/pkg/prompt"

	"golang.org/x/sync/errgroup"
)

const (
	purposeNames     = "names"
	purposeNarrative = "narrative"
)

// Generator 取名流程：校验 → 推算生辰 → 拼装提示词 → 调用模型 → 解析清洗
type Generator struct {
	completer Completer
	cfg       config.GenerationConfig
	metrics   *metrics.Metrics
}

func NewGenerator(completer Completer, cfg config.GenerationConfig) *Generator {
	return &Generator{
		completer: completer,
		cfg:       cfg,
		metrics:   metrics.GetMetrics(),
	}
}

// Generate 生成名字。名字调用失败则整体失败，命理分析失败只留空对应字段
func (g *Generator) Generate(ctx context.Context, req *model.NameRequest) (*model.GenerationResult, error) {
	v, err := validateRequest(req, g.cfg)
	if err != nil {
		return nil, err
	}

	var meta model.Metadata
	if v.hasBirth {
		p := astro.Derive(v.birth)
		meta.Zodiac = p.Zodiac
		meta.ZodiacYear = p.ZodiacYear
		meta.Element = p.Element
		meta.WesternZodiac = p.WesternZodiac
		meta.BirthDate = model.FormatBirthDate(v.birth)
	}

	// 命理分析与取名并行，取名失败时随 defer 取消
	narrativeCtx, cancelNarrative := context.WithCancel(ctx)
	defer cancelNarrative()

	var narrativeCh chan Narrative
	if v.hasBirth {
		narrativeCh = make(chan Narrative, 1)
		go func() {
			narrativeCh <- g.narrative(narrativeCtx, meta, req.BirthTime)
		}()
	}

	lists, err := g.names(ctx, req, meta, v)
	if err != nil {
		return nil, err
	}

	if narrativeCh != nil {
		(<-narrativeCh).Apply(&meta)
	}

	lists.BoyNames = CleanNames(lists.BoyNames, g.cfg.MaxExplanationRunes)
	lists.GirlNames = CleanNames(lists.GirlNames, g.cfg.MaxExplanationRunes)
	lists.Normalize()

	g.metrics.GeneratedNames.WithLabelValues(string(model.GenderBoy)).Add(float64(len(lists.BoyNames)))
	g.metrics.GeneratedNames.WithLabelValues(string(model.GenderGirl)).Add(float64(len(lists.GirlNames)))

	return &model.GenerationResult{Names: lists, Metadata: meta}, nil
}

func (g *Generator) shouldSplit(v validatedRequest) bool {
	return v.scope == model.GenderBoth && v.count >= g.cfg.SplitMinCount
}

func (g *Generator) names(ctx context.Context, req *model.NameRequest, meta model.Metadata, v validatedRequest) (model.NameLists, error) {
	if !g.shouldSplit(v) {
		return g.callNames(ctx, req, meta, v.scope, v.count)
	}

	// 男女分两次并行调用，任一失败整体失败
	eg, egCtx := errgroup.WithContext(ctx)
	var boys, girls model.NameLists
	eg.Go(func() error {
		var err error
		boys, err = g.callNames(egCtx, req, meta, model.GenderBoy, v.count)
		return err
	})
	eg.Go(func() error {
		var err error
		girls, err = g.callNames(egCtx, req, meta, model.GenderGirl, v.count)
		return err
	})
	if err := eg.Wait(); err != nil {
		return model.NameLists{}, err
	}
	return model.NameLists{BoyNames: boys.BoyNames, GirlNames: girls.GirlNames}, nil
}

func (g *Generator) callNames(ctx context.Context, req *model.NameRequest, meta model.Metadata, scope model.Gender, count int) (model.NameLists, error) {
	text := prompt.BuildNamePrompt(prompt.NameInput{
		Request:  req,
		Metadata: meta,
		Scope:    scope,
		Count:    count,
	})

	content, err := g.complete(ctx, purposeNames, deepseek.ChatRequest{
		Messages: []deepseek.Message{
			{Role: "system", Content: prompt.NameSystemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.8,
		MaxTokens:   4000,
	})
	if err != nil {
		return model.NameLists{}, fmt.Errorf("generate %s names: %w", scope, err)
	}

	lists, err := ParseNames(content, scope)
	if err != nil {
		logger.Errorf("Failed to parse %s names from completion: %v, content: %.200s", scope, err, content)
		return model.NameLists{}, err
	}
	return lists, nil
}

func (g *Generator) narrative(ctx context.Context, meta model.Metadata, birthTime string) Narrative {
	content, err := g.complete(ctx, purposeNarrative, deepseek.ChatRequest{
		Messages: []deepseek.Message{
			{Role: "system", Content: prompt.NarrativeSystemPrompt},
			{Role: "user", Content: prompt.BuildNarrativePrompt(meta, birthTime)},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Errorf("Narrative generation failed: %v", err)
		}
		return Narrative{}
	}

	n := ParseNarrative(content)
	if !n.Parsed {
		logger.Infof("Narrative completion has no delimiter, using whole text as analysis")
	}
	return n
}

func (g *Generator) complete(ctx context.Context, purpose string, req deepseek.ChatRequest) (string, error) {
	start := time.Now()
	content, err := g.completer.Complete(ctx, req)
	g.metrics.ObserveUpstream(purpose, outcome(err), time.Since(start))
	return content, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, deepseek.ErrMissingAPIKey):
		return "missing_key"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	return "error"
}
