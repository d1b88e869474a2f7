package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
	"github.com/zatekoja/placeviewer/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/placeviewer/pkg/errors"
)

// LoadError wraps a failed dataset load with the message shown to the user.
type LoadError struct {
	UserMessage string
	Err         error
}

func (e *LoadError) Error() string {
	return e.UserMessage
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Workspace owns the currently loaded dataset and the session's query
// selections. A successful load replaces the dataset wholesale; a failed
// load leaves everything as it was.
type Workspace struct {
	mu       sync.RWMutex
	dataset  *entities.Dataset
	state    entities.QueryState
	rules    *RuleBuilder
	metrics  *observability.Metrics
	clock    func() time.Time
	location *time.Location
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithMetrics records load metrics.
func WithMetrics(m *observability.Metrics) WorkspaceOption {
	return func(w *Workspace) { w.metrics = m }
}

// WithClock overrides the wall clock used for timestamps and the default
// reference time.
func WithClock(clock func() time.Time) WorkspaceOption {
	return func(w *Workspace) { w.clock = clock }
}

// WithLocation sets the zone reference times are evaluated in.
func WithLocation(loc *time.Location) WorkspaceOption {
	return func(w *Workspace) { w.location = loc }
}

// NewWorkspace creates an empty workspace whose minimum review filter starts
// at minReviewCount.
func NewWorkspace(minReviewCount float64, opts ...WorkspaceOption) *Workspace {
	w := &Workspace{
		clock:    time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.state = entities.DefaultQueryState(minReviewCount, w.clock().In(w.location))
	w.rules = NewRuleBuilder(nil)
	return w
}

// Load parses data and, on success, makes it the current dataset. Sorting,
// convenience selections, rules, the distance center and the single-choice
// keyword and price filters are reset; search text, review and open-state
// filters carry over.
func (w *Workspace) Load(ctx context.Context, name string, data []byte) (*entities.Dataset, error) {
	ctx, span := observability.StartSpan(ctx, "Workspace.Load")
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("dataset.name", name),
		attribute.Int("dataset.bytes", len(data)),
	)
	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	parsed, err := ParseDataset(data)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordDatasetLoad(ctx, w.metrics, "error", 0, time.Since(start))
		loadErr := &LoadError{UserMessage: loadFailureMessage(err), Err: err}
		logger.Warn().Err(err).Str("dataset", name).Msg("dataset load failed, keeping previous dataset")
		return nil, loadErr
	}

	dataset := &entities.Dataset{
		ID:           uuid.NewString(),
		Name:         name,
		Places:       parsed.Places,
		Raw:          parsed.Raw,
		Fields:       BuildFieldCatalog(parsed.Places, parsed.Raw),
		Conveniences: BuildConvenienceCatalog(parsed.Places),
		TopKeywords:  BuildTopKeywordCatalog(parsed.Places),
		PriceTiers:   BuildPriceTierCatalog(parsed.Places),
		LoadedAt:     w.clock(),
	}

	w.mu.Lock()
	w.dataset = dataset
	w.state.Sort = nil
	w.state.Conveniences = nil
	w.state.Center = nil
	w.state.TopKeyword = entities.FilterAll
	w.state.PriceTier = entities.FilterAll
	w.rules.SetFields(dataset.Fields)
	w.rules.Reset()
	w.mu.Unlock()

	observability.SetSpanAttributes(span,
		attribute.String("dataset.id", dataset.ID),
		attribute.Int("dataset.places", len(dataset.Places)),
	)
	observability.RecordDatasetLoad(ctx, w.metrics, "ok", len(dataset.Places), time.Since(start))
	logger.Info().
		Str("dataset", name).
		Str("dataset_id", dataset.ID).
		Int("places", len(dataset.Places)).
		Int("fields", len(dataset.Fields)).
		Dur("duration", time.Since(start)).
		Msg("dataset loaded")

	return dataset, nil
}

func loadFailureMessage(err error) string {
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeParse), apperrors.IsType(err, apperrors.ErrorTypeFormat):
		return "JSON 파싱 실패: " + causeText(err)
	default:
		return "데이터 변환 실패: " + causeText(err)
	}
}

func causeText(err error) string {
	if appErr, ok := err.(*apperrors.AppError); ok {
		if appErr.Err != nil {
			return appErr.Err.Error()
		}
		return appErr.Message
	}
	return err.Error()
}

// Dataset returns the current dataset, or nil before the first load.
func (w *Workspace) Dataset() *entities.Dataset {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dataset
}

// State returns a copy of the current query selections with the builder's rules.
func (w *Workspace) State() entities.QueryState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	state := w.state
	state.Rules = w.rules.Rules()
	return state
}

// UpdateState applies fn to the query selections.
func (w *Workspace) UpdateState(fn func(*entities.QueryState)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.state)
}

// SetReferenceTime parses a date and clock in the workspace zone and uses
// the result for open-state evaluation.
func (w *Workspace) SetReferenceTime(date, clock string) time.Time {
	ref := ParseReferenceTime(date, clock, w.clock(), w.location)
	w.UpdateState(func(s *entities.QueryState) { s.ReferenceTime = ref })
	return ref
}

// SetCenter selects a distance center; nil clears it.
func (w *Workspace) SetCenter(center *entities.Coordinates) {
	w.UpdateState(func(s *entities.QueryState) { s.Center = center })
}

// ResetFilters restores every selection to its default: no search, no
// center, reference time now, no rules. Rule ids keep counting.
func (w *Workspace) ResetFilters(minReviewCount float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = entities.DefaultQueryState(minReviewCount, w.clock().In(w.location))
	w.rules.Clear()
}

// WithRules runs fn against the rule builder under the workspace lock.
func (w *Workspace) WithRules(fn func(*RuleBuilder) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.rules)
}

// Query applies the current selections to the current dataset.
func (w *Workspace) Query() ([]entities.Place, error) {
	dataset := w.Dataset()
	if dataset == nil {
		return nil, apperrors.NewNotFoundError("no dataset loaded")
	}
	return ApplyQuery(dataset, w.State()), nil
}

// Place finds a place of the current dataset by id.
func (w *Workspace) Place(id string) (*entities.Place, entities.RawRecord, error) {
	dataset := w.Dataset()
	if dataset == nil {
		return nil, nil, apperrors.NewNotFoundError("no dataset loaded")
	}
	for i := range dataset.Places {
		if dataset.Places[i].ID == id {
			p := dataset.Places[i]
			return &p, dataset.Raw[p.Index], nil
		}
	}
	return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("place %q", id))
}
