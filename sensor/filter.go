package sensor

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/qbitwatch/qbittorrent"
)

// Filter is a compiled expr predicate over a torrent. A nil *Filter matches
// everything.
type Filter struct {
	expression string
	program    *vm.Program
}

// CompileFilter compiles an expression into an executable torrent filter.
//
// The expression sees the torrent's Name, State, Category, Tags, Size,
// Progress and Ratio, plus the helpers hasTag("x"), isDownloading(),
// isSeeding() and isPaused().
func CompileFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	// Compile against a representative environment for validation
	program, err := expr.Compile(expression,
		expr.Env(buildEnv(qbittorrent.TorrentInfo{})),
		expr.AllowUndefinedVariables(),
		expr.AsBool(), // Ensure boolean result
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Expression returns the original filter expression.
func (f *Filter) Expression() string {
	if f == nil {
		return ""
	}
	return f.expression
}

// Match evaluates the filter against a single torrent.
func (f *Filter) Match(t qbittorrent.TorrentInfo) (bool, error) {
	if f == nil {
		return true, nil
	}

	result, err := expr.Run(f.program, buildEnv(t))
	if err != nil {
		return false, &EvaluationError{
			Expression:  f.expression,
			TorrentName: t.Name,
			Err:         err,
		}
	}

	matched, ok := result.(bool)
	if !ok {
		// AsBool guarantees this at compile time; guard anyway.
		return false, nil
	}
	return matched, nil
}

// Apply returns the torrents matching the filter. The input slice is not
// modified.
func (f *Filter) Apply(torrents []qbittorrent.TorrentInfo) ([]qbittorrent.TorrentInfo, error) {
	if f == nil {
		return torrents, nil
	}

	matched := make([]qbittorrent.TorrentInfo, 0, len(torrents))
	for _, t := range torrents {
		ok, err := f.Match(t)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// buildEnv creates the evaluation environment for one torrent.
func buildEnv(t qbittorrent.TorrentInfo) map[string]any {
	return map[string]any{
		"Name":     t.Name,
		"State":    t.State,
		"Category": t.Category,
		"Tags":     t.Tags,
		"Size":     t.Size,
		"Progress": t.Progress,
		"Ratio":    t.Ratio,

		"hasTag": func(tag string) bool {
			for _, candidate := range t.Tags {
				if strings.EqualFold(candidate, tag) {
					return true
				}
			}
			return false
		},
		"isDownloading": func() bool { return IsDownloadingState(t.State) },
		"isSeeding":     func() bool { return IsSeedingState(t.State) },
		"isPaused":      func() bool { return IsPausedState(t.State) },
	}
}
