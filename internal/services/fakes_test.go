package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/jobqueue"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/repos"
	"github.com/annomania/annomania-api/internal/strategy"
	"github.com/annomania/annomania-api/internal/types"
)

func testLogger() *logger.Logger {
	log, err := logger.New("test")
	if err != nil {
		panic(err)
	}
	return log
}

type fakeTextRepo struct {
	texts   map[uuid.UUID]*types.Text
	rows    []*repos.TextExportRow
	fetched []*types.Text
}

func newFakeTextRepo() *fakeTextRepo {
	return &fakeTextRepo{texts: map[uuid.UUID]*types.Text{}}
}

func (f *fakeTextRepo) add(text *types.Text) {
	f.texts[text.ID] = text
}

func (f *fakeTextRepo) Create(_ context.Context, _ *gorm.DB, texts []*types.Text) ([]*types.Text, error) {
	for _, t := range texts {
		f.texts[t.ID] = t
	}
	return texts, nil
}

func (f *fakeTextRepo) GetByID(_ context.Context, _ *gorm.DB, textID uuid.UUID) (*types.Text, error) {
	t, ok := f.texts[textID]
	if !ok {
		return nil, apperrors.NotFoundf("text %s", textID)
	}
	return t, nil
}

func (f *fakeTextRepo) Exists(_ context.Context, _ *gorm.DB, textID uuid.UUID) (bool, error) {
	_, ok := f.texts[textID]
	return ok, nil
}

func (f *fakeTextRepo) UpdateFields(_ context.Context, _ *gorm.DB, textID uuid.UUID, fields map[string]any) error {
	t, ok := f.texts[textID]
	if !ok {
		return apperrors.NotFoundf("text %s", textID)
	}
	if v, ok := fields["text"]; ok {
		t.Text = v.(string)
	}
	return nil
}

func (f *fakeTextRepo) Delete(_ context.Context, _ *gorm.DB, textID uuid.UUID) error {
	if _, ok := f.texts[textID]; !ok {
		return apperrors.NotFoundf("text %s", textID)
	}
	delete(f.texts, textID)
	return nil
}

func (f *fakeTextRepo) FetchByPlan(_ context.Context, _ *gorm.DB, _ strategy.Plan) ([]*types.Text, error) {
	return f.fetched, nil
}

func (f *fakeTextRepo) CursorBySet(_ context.Context, _ *gorm.DB, _, _ uuid.UUID, offset, limit int) (repos.TextCursor, error) {
	if offset > len(f.rows) {
		offset = len(f.rows)
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return &fakeCursor{rows: f.rows[offset:end]}, nil
}

type fakeCursor struct {
	rows    []*repos.TextExportRow
	pos     int
	current *repos.TextExportRow
	closed  bool
}

func (c *fakeCursor) Next() bool {
	if c.pos >= len(c.rows) {
		return false
	}
	c.current = c.rows[c.pos]
	c.pos++
	return true
}

func (c *fakeCursor) Row() *repos.TextExportRow { return c.current }
func (c *fakeCursor) Err() error                { return nil }
func (c *fakeCursor) Close() error {
	c.closed = true
	return nil
}

type fakeAnnotationRepo struct {
	annotations []*types.Annotation
	counts      map[string][]types.OptionCount
}

func newFakeAnnotationRepo() *fakeAnnotationRepo {
	return &fakeAnnotationRepo{counts: map[string][]types.OptionCount{}}
}

func pairKey(textID, typeID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", textID, typeID)
}

func (f *fakeAnnotationRepo) setCounts(textID, typeID uuid.UUID, counts []types.OptionCount) {
	f.counts[pairKey(textID, typeID)] = counts
}

func (f *fakeAnnotationRepo) Create(_ context.Context, _ *gorm.DB, annotation *types.Annotation) error {
	f.annotations = append(f.annotations, annotation)
	return nil
}

func (f *fakeAnnotationRepo) CountByOption(_ context.Context, _ *gorm.DB, textID, typeID uuid.UUID) ([]types.OptionCount, error) {
	return f.counts[pairKey(textID, typeID)], nil
}

type fakeStatusRepo struct {
	upserts  []*types.TextAnnotationStatus
	statuses map[string]*types.TextAnnotationStatus
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{statuses: map[string]*types.TextAnnotationStatus{}}
}

func (f *fakeStatusRepo) Upsert(_ context.Context, _ *gorm.DB, status *types.TextAnnotationStatus) error {
	f.upserts = append(f.upserts, status)
	f.statuses[pairKey(status.TextID, status.AnnotationTypeID)] = status
	return nil
}

func (f *fakeStatusRepo) GetByTextID(_ context.Context, _ *gorm.DB, textID uuid.UUID) ([]*types.TextAnnotationStatus, error) {
	var out []*types.TextAnnotationStatus
	for _, s := range f.statuses {
		if s.TextID == textID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeDispatcher struct {
	jobs []jobqueue.StatusJob
	err  error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, job jobqueue.StatusJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}
