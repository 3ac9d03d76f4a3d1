// Package agent routes questions about the loaded nota fiscal data:
// predefined questions run as local analyses, everything else goes to
// the chat completion API with a data sample, and quota exhaustion falls
// back to canned responses.
package agent

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"nfagent/internal/analysis"
	"nfagent/internal/dataset"
	"nfagent/internal/history"
	"nfagent/internal/llm"
	"nfagent/internal/models"
)

// Agent answers questions over the loaded data.
type Agent struct {
	store      *dataset.Store
	client     llm.Client
	canned     *CannedTable
	history    *history.Store // optional; nil disables persistence
	sampleRows int
}

// New creates an Agent. history may be nil.
func New(store *dataset.Store, client llm.Client, canned *CannedTable, hist *history.Store, sampleRows int) *Agent {
	if sampleRows <= 0 {
		sampleRows = 1000
	}
	if canned == nil {
		canned = builtinCanned()
	}
	return &Agent{
		store:      store,
		client:     client,
		canned:     canned,
		history:    hist,
		sampleRows: sampleRows,
	}
}

// Store exposes the dataset store the agent answers from.
func (a *Agent) Store() *dataset.Store {
	return a.store
}

// Ask answers one question. Predefined questions are answered locally;
// custom questions go to the API. A quota error switches to the canned
// table; any other error surfaces to the caller.
func (a *Agent) Ask(ctx context.Context, question string) (models.Answer, error) {
	if a.store.Empty() {
		return models.Answer{}, dataset.ErrNoData
	}

	if p, ok := analysis.Match(question); ok {
		if answer, err := a.askLocal(p); err == nil {
			return answer, nil
		}
		// A failed local analysis falls through to the API.
	}

	return a.askAPI(ctx, question)
}

func (a *Agent) askLocal(p analysis.Predefined) (models.Answer, error) {
	merged, err := a.store.Consolidated()
	if err != nil {
		return models.Answer{}, err
	}
	text, err := p.Run(merged)
	if err != nil {
		logrus.Errorf("Local analysis '%s' failed: %v", p.Key, err)
		return models.Answer{}, err
	}
	answer := models.Answer{
		Question:  p.Question,
		Text:      text,
		Source:    models.SourceLocal,
		CreatedAt: time.Now(),
	}
	a.record(answer)
	return answer, nil
}

func (a *Agent) askAPI(ctx context.Context, question string) (models.Answer, error) {
	sample, err := a.store.Sample(a.sampleRows)
	if err != nil {
		return models.Answer{}, err
	}

	answer := models.Answer{Question: question, CreatedAt: time.Now()}

	text, err := a.client.Request(ctx, SystemPrompt, BuildPrompt(sample, question))
	switch {
	case err == nil:
		answer.Text = text
		answer.Source = models.SourceAPI
		answer.Model = a.client.Model()
	case llm.IsQuotaError(err):
		logrus.Warnf("API quota exceeded, using canned response: %v", err)
		answer.Text = a.canned.Match(question)
		answer.Source = models.SourceFallback
	default:
		return models.Answer{}, err
	}

	a.record(answer)
	return answer, nil
}

// record persists the exchange; history failures only log, they never
// break an answer.
func (a *Agent) record(answer models.Answer) {
	if a.history == nil {
		return
	}
	if _, err := a.history.Append("user", answer.Question, ""); err != nil {
		logrus.Warnf("Could not record question: %v", err)
		return
	}
	if _, err := a.history.Append("assistant", answer.Text, string(answer.Source)); err != nil {
		logrus.Warnf("Could not record answer: %v", err)
	}
}
