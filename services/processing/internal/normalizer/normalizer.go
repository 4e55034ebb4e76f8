// Package normalizer runs the per-batch normalization pipelines. A pipeline
// is an ordered list of stages; each stage names the columns it depends on
// and is skipped, not failed, when the batch lacks them. Input tables are
// never mutated: every run works on a deep copy.
package normalizer

import (
	"fmt"

	"go.uber.org/zap"

	apperrors "recnorm/services/processing/internal/errors"
	"recnorm/services/processing/internal/models"
	"recnorm/services/processing/internal/parser"
)

// Stage is one step of a pipeline.
type Stage interface {
	Name() string
	// Missing lists the columns the stage needs that t does not have.
	Missing(t *models.Table) []string
	Apply(t *models.Table, rep *Report)
}

type stage struct {
	name     string
	requires []string
	missing  func(t *models.Table) []string
	apply    func(t *models.Table, rep *Report)
}

func (s stage) Name() string { return s.name }

func (s stage) Missing(t *models.Table) []string {
	if s.missing != nil {
		return s.missing(t)
	}
	var out []string
	for _, c := range s.requires {
		if !t.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s stage) Apply(t *models.Table, rep *Report) { s.apply(t, rep) }

// Pipeline is an ordered list of stages.
type Pipeline []Stage

type Normalizer struct {
	logger     *zap.Logger
	strategies parser.Strategies
}

func New(logger *zap.Logger, strategies parser.Strategies) *Normalizer {
	if strategies.Price == nil || strategies.Salary == nil || strategies.DateTime == nil {
		def := parser.DefaultStrategies()
		if strategies.Price == nil {
			strategies.Price = def.Price
		}
		if strategies.Salary == nil {
			strategies.Salary = def.Salary
		}
		if strategies.DateTime == nil {
			strategies.DateTime = def.DateTime
		}
	}
	return &Normalizer{logger: logger, strategies: strategies}
}

// Normalize dispatches on domain.
func (n *Normalizer) Normalize(domain models.Domain, in *models.Table) (*models.Table, *Report, error) {
	switch domain {
	case models.DomainProducts:
		out, rep := n.NormalizeProducts(in)
		return out, rep, nil
	case models.DomainJobPostings:
		out, rep := n.NormalizeJobPostings(in)
		return out, rep, nil
	default:
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("unknown domain %q", domain), nil)
	}
}

func (n *Normalizer) NormalizeProducts(in *models.Table) (*models.Table, *Report) {
	return n.run(models.DomainProducts, n.productPipeline(), in)
}

func (n *Normalizer) NormalizeJobPostings(in *models.Table) (*models.Table, *Report) {
	return n.run(models.DomainJobPostings, n.jobPipeline(), in)
}

func (n *Normalizer) run(domain models.Domain, p Pipeline, in *models.Table) (*models.Table, *Report) {
	t := in.Clone()
	rep := newReport(domain, t.Len())

	for _, s := range p {
		if missing := s.Missing(t); len(missing) > 0 {
			rep.skipMissing(s.Name(), missing)
			n.logger.Debug("stage skipped",
				zap.String("domain", string(domain)),
				zap.String("stage", s.Name()),
				zap.Strings("missing", missing))
			continue
		}
		s.Apply(t, rep)
		if !rep.wasSkipped(s.Name()) {
			rep.Applied = append(rep.Applied, s.Name())
			n.logger.Info("stage applied",
				zap.String("domain", string(domain)),
				zap.String("stage", s.Name()))
		}
	}

	rep.OutputRows = t.Len()
	rep.OutputColumns = len(t.Columns)
	n.logger.Info("transform complete",
		zap.String("domain", string(domain)),
		zap.Int("input_rows", rep.InputRows),
		zap.Int("output_rows", rep.OutputRows),
		zap.Int("columns", rep.OutputColumns),
		zap.Int("duplicates_removed", rep.DuplicatesRemoved))
	return t, rep
}
