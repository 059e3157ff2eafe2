// Package pipeline runs a full analysis: transcript in, flattened match out.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifematch-ai/matchd/internal/events"
	"github.com/lifematch-ai/matchd/internal/history"
	"github.com/lifematch-ai/matchd/internal/matcher"
	"github.com/lifematch-ai/matchd/internal/record"
	"github.com/lifematch-ai/matchd/internal/results"
	"github.com/lifematch-ai/matchd/internal/transcript"
)

// Pipeline wires the analysis stages together. history and events may be nil;
// their failures are logged but never fail a request.
type Pipeline struct {
	matcher *matcher.Matcher
	results *results.Store
	history *history.Store
	events  *events.Publisher
	logger  *slog.Logger
}

func New(m *matcher.Matcher, res *results.Store, hist *history.Store, ev *events.Publisher, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		matcher: m,
		results: res,
		history: hist,
		events:  ev,
		logger:  logger,
	}
}

// Run executes the pipeline synchronously. The returned record has already
// been stored as the latest result and exported to CSV. On any error, no record
// is stored: an analysis either fully succeeds or leaves no trace.
func (p *Pipeline) Run(ctx context.Context, conversationPath, outputPath string) (record.FlatRecord, error) {
	conv, err := transcript.Load(conversationPath)
	if err != nil {
		return record.FlatRecord{}, err
	}

	content := transcript.RelevantContent(conv)
	p.logger.Info("transcript loaded",
		"path", conversationPath,
		"messages", len(conv.Messages),
		"content_len", len(content),
	)

	analysis, err := p.matcher.Analyze(ctx, content)
	if err != nil {
		return record.FlatRecord{}, err
	}

	rec := record.Flatten(analysis, time.Now())

	exported, err := results.ExportCSV(rec, outputPath)
	if err != nil {
		return record.FlatRecord{}, err
	}
	p.logger.Info("analysis exported", "path", exported)

	p.results.Set(rec)

	analysisID := uuid.New()
	if p.history != nil {
		if id, err := p.history.WriteMatch(ctx, rec); err != nil {
			p.logger.Error("failed to persist analysis history", "error", err)
		} else {
			analysisID = id
		}
	}

	if p.events != nil {
		if err := p.events.Publish(events.SubjectAnalysisCompleted, events.AnalysisCompleted{
			AnalysisID:         analysisID.String(),
			PatientID:          rec.PatientID,
			DonorID:            rec.DonorID,
			MatchPriority:      rec.MatchPriority,
			CompatibilityScore: rec.CompatibilityScore,
			Timestamp:          rec.AnalysisTimestamp,
		}); err != nil {
			p.logger.Error("failed to publish analysis event", "error", err)
		}
	}

	return rec, nil
}
