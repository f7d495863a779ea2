package search

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultThreshold is the similarity above which a name counts as a match.
const DefaultThreshold = 0.3

// ErrMissingTarget is returned when a relation search has no target resource.
var ErrMissingTarget = errors.New("search: relation search without target resource")

// ExternalFilter vetoes candidates for reasons unrelated to the query. The
// result must be a subsequence of candidates.
type ExternalFilter interface {
	FilterCandidates(ctx context.Context, candidates []Entity, actor uuid.UUID, target string) []Entity
}

// Request is one filtering pass over the directory.
type Request struct {
	Directory []Entity
	Actor     uuid.UUID
	Related   IDSet
	Query     string
	Mode      Mode
	// Target is the resource id; required for ModeRelationSearch.
	Target string
}

// Pipeline turns a directory into an ordered candidate list.
type Pipeline struct {
	Threshold float64
	External  ExternalFilter
	Logger    *zap.Logger
}

// NewPipeline returns a pipeline with the given threshold and external filter.
// A nil filter keeps every candidate.
func NewPipeline(threshold float64, external ExternalFilter, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{Threshold: threshold, External: external, Logger: log}
}

// Run filters the directory and, for relation searches, applies the external filter.
func (p *Pipeline) Run(ctx context.Context, req Request) ([]Entity, error) {
	if req.Mode == ModeRelationSearch && req.Target == "" {
		return nil, ErrMissingTarget
	}
	out := p.Filter(req.Directory, req.Actor, req.Related, req.Query)
	if req.Mode != ModeRelationSearch || p.External == nil {
		return out, nil
	}
	filtered := p.External.FilterCandidates(ctx, out, req.Actor, req.Target)
	kept := subsequence(out, filtered)
	if len(kept) != len(filtered) {
		p.logger().Warn("external filter returned entries outside its input",
			zap.Int("returned", len(filtered)),
			zap.Int("kept", len(kept)))
	}
	return kept, nil
}

// Filter keeps, in directory order, named entities that are neither the
// actor nor already related and whose name is similar to or contains query.
func (p *Pipeline) Filter(directory []Entity, actor uuid.UUID, related IDSet, query string) []Entity {
	threshold := p.Threshold
	lowerQuery := strings.ToLower(query)
	var out []Entity
	for _, e := range directory {
		name, ok := e.DisplayName()
		if !ok || IsSelf(e, actor) || IsAlreadyRelated(e, related) {
			continue
		}
		if Similarity(name, query) > threshold || strings.Contains(strings.ToLower(name), lowerQuery) {
			out = append(out, e)
		}
	}
	return out
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// subsequence returns the entries of got that can be matched, in order,
// against entries of src. Anything inserted or reordered is dropped.
func subsequence(src, got []Entity) []Entity {
	out := make([]Entity, 0, len(got))
	i := 0
	for _, g := range got {
		j := i
		for j < len(src) && src[j].ID != g.ID {
			j++
		}
		if j == len(src) {
			continue
		}
		out = append(out, src[j])
		i = j + 1
	}
	return out
}
