// Package adapt runs the adaptation pipeline: analyze a score, validate it
// against the instruments, repair what can be repaired and validate again.
// It also converts scores into the flat ensemble format for renderers and
// cross-checks scores against instrument simulators.
package adapt

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/analyzer"
	"github.com/vsariola/mensura/constraint"
	"github.com/vsariola/mensura/metrics"
	"github.com/vsariola/mensura/patterns"
)

type (
	// Pipeline holds the collaborators of an adaptation run. It is safe to
	// reuse across runs but not to run concurrently with a constraint table
	// being changed.
	Pipeline struct {
		validator *constraint.Validator
		analyzer  *analyzer.Analyzer
		logger    *slog.Logger
		metrics   *metrics.Metrics
	}

	Option func(*Pipeline)
)

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithMetrics makes the pipeline record every run in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithValidator(v *constraint.Validator) Option {
	return func(p *Pipeline) { p.validator = v }
}

func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(p *Pipeline) { p.analyzer = a }
}

// New returns a pipeline with the built-in constraint table, an analyzer
// over the built-in pattern library and slog.Default(), unless overridden by
// the options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, o := range opts {
		o(p)
	}
	if p.validator == nil {
		p.validator = constraint.New()
	}
	if p.analyzer == nil {
		p.analyzer = analyzer.New(patterns.New())
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Validator returns the validator of the pipeline.
func (p *Pipeline) Validator() *constraint.Validator {
	return p.validator
}

// Adapt runs the pipeline on a copy of score. assignments maps voice names to
// the instruments that should play them and may be nil. The original score
// is never modified.
func (p *Pipeline) Adapt(score *mensura.Score, assignments map[string]mensura.InstrumentType) *Result {
	started := time.Now()
	res := &Result{
		ID:            uuid.NewString(),
		Original:      score,
		Substitutions: map[string]string{},
		State:         Unvalidated,
	}
	logger := p.logger.With(slog.String("run", res.ID))
	logf := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		res.Log = append(res.Log, msg)
		logger.Info(msg)
	}

	res.Analysis = p.analyzer.Analyze(score)
	logf("analysis: mode %s (found %v), form %s (found %v), %d melodic figures",
		res.Analysis.Mode, res.Analysis.ModeFound, res.Analysis.Form, res.Analysis.FormFound, len(res.Analysis.Patterns))

	adapted := score.Copy()
	table := p.validator.Table()
	for i := range adapted.Voices {
		v := &adapted.Voices[i]
		instr, ok := assignments[v.Name]
		if !ok || instr == v.Instrument {
			continue
		}
		res.Substitutions[v.Name] = string(instr)
		logf("voice %s: %s replaced by %s", v.Name, v.Instrument, instr)
		v.Instrument = instr
		if c, ok := table[instr]; ok {
			v.RangeLow, v.RangeHigh = c.PitchLow, c.PitchHigh
		}
	}
	res.Adapted = adapted

	report := p.validator.ValidateScore(adapted, nil)
	res.InitialViolations = report.Violations
	res.State = res.State.next(!report.Success())
	logf("validation: %d violations", len(report.Violations))
	if p.metrics != nil {
		p.metrics.RecordViolations("initial", countByCategory(report.Violations))
	}
	if res.State == ValidatedOK {
		p.finish(res, report, started, logf)
		return res
	}

	for _, r := range repairs {
		if !report.Has(r.category) {
			continue
		}
		rev := r.fn(adapted, report, table)
		res.Revisions = append(res.Revisions, rev)
		if rev.Note != "" {
			logf("repair %s: %s", r.category, rev.Note)
		} else {
			logf("repair %s: %d changes", r.category, len(rev.Changes))
		}
		if p.metrics != nil {
			p.metrics.RecordChanges(string(r.category), len(rev.Changes))
		}
	}
	res.State = res.State.next(true)

	report = p.validator.ValidateScore(adapted, nil)
	res.State = res.State.next(!report.Success())
	logf("revalidation: %d violations remaining", len(report.Violations))
	if p.metrics != nil {
		p.metrics.RecordViolations("remaining", countByCategory(report.Violations))
	}
	p.finish(res, report, started, logf)
	return res
}

func (p *Pipeline) finish(res *Result, report *constraint.Report, started time.Time, logf func(string, ...any)) {
	res.Violations = report.Violations
	res.Feasibility = report.Feasibility
	res.Success = report.Success()
	if !res.Success {
		res.Suggestions = p.validator.SuggestAdaptations(report)
	}
	logf("finished in state %s, success %v", res.State, res.Success)
	if p.metrics != nil {
		p.metrics.RecordRun(res.Success, time.Since(started).Seconds())
		f := make(map[string]float64, len(res.Feasibility))
		for k, v := range res.Feasibility {
			f[string(k)] = v
		}
		p.metrics.SetFeasibility(f)
	}
}

func countByCategory(vs []constraint.Violation) map[string]int {
	ret := map[string]int{}
	for _, v := range vs {
		ret[string(v.Category)]++
	}
	return ret
}
