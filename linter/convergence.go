package linter

import (
	"context"
	"slices"

	"github.com/cstlint/cstlint/errors"
	"github.com/cstlint/cstlint/hashing"
	"github.com/cstlint/cstlint/validation"
	"go.uber.org/zap"
)

// converge repeats full rule passes until a round leaves the tree untouched,
// the round limit is hit, or the text comes back to a state already seen.
func (r *fileRun) converge(ctx context.Context, res *FileResult) error {
	seen := map[string]int{hashing.String(r.tree.Text()): 0}

	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		mutated, err := r.runRound(ctx)
		res.Rounds = round
		if err != nil {
			return err
		}
		r.tree.Compact()

		if !mutated {
			res.Converged = true
			return nil
		}

		h := hashing.String(r.tree.Text())
		if _, ok := seen[h]; ok {
			res.Warnings = append(res.Warnings, &ConvergenceWarning{Path: r.doc.Path, Rounds: round, Cycle: true})
			return nil
		}
		seen[h] = round

		if round >= r.l.maxRounds {
			res.Warnings = append(res.Warnings, &ConvergenceWarning{Path: r.doc.Path, Rounds: round})
			return nil
		}
	}
}

// lintFile runs the rounds for one document and assembles its result.
func (l *Linter) lintFile(ctx context.Context, doc *DocumentInfo) *FileResult {
	res := &FileResult{Path: doc.Path}
	if doc.Tree == nil {
		res.Err = errors.New("document has no syntax tree")
		return res
	}
	original := doc.Tree.Text()
	res.Text = original

	if l.fileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.fileTimeout)
		defer cancel()
	}

	cfg := doc.Config
	if cfg == nil {
		cfg = defaultEffectiveConfig(doc.Path, l.config)
	}
	if err := cfg.Validate(); err != nil {
		res.Err = err
		return res
	}

	fixer := l.newFixer()
	// Rules run on a copy so that the caller's tree never changes.
	tree := doc.Tree.Clone()

	r := &fileRun{
		l:      l,
		doc:    doc,
		tree:   tree,
		cfg:    cfg,
		fixer:  fixer,
		active: l.activeRules(cfg),
		logger: l.logger.With(zap.String("file", doc.Path)),
		failed: map[string]bool{},
	}
	r.tree.Reindex()

	err := r.converge(ctx, res)
	res.RuleErrors = r.ruleErrors
	res.Fixes = fixer.Result()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.ErrTimeout.Wrap(err)
		}
		res.Err = err
		res.Text = original
		res.Changed = false
		res.Violations = nil
		r.logger.Warn("file failed", zap.Error(err))
		return res
	}

	// Offsets of corrected violations refer to the text of their own pass,
	// so the merged report is ordered by line and column.
	violations := slices.Concat(r.corrected, r.unfixed)
	validation.SortViolationsByPosition(violations)
	res.Violations = violations
	res.Text = r.tree.Text()
	res.Changed = res.Text != original

	for _, w := range res.Warnings {
		r.logger.Warn("autocorrect did not converge", zap.Error(w))
	}
	r.logger.Debug("file linted",
		zap.Int("rounds", res.Rounds),
		zap.Int("violations", len(res.Violations)),
		zap.Bool("changed", res.Changed))
	return res
}
