package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
)

// restorable is implemented by fakes that take part in fakeTx rollbacks.
type restorable interface {
	snapshot() func()
}

type fakeTx struct {
	participants []restorable
	calls        int
}

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	var restores []func()
	for _, p := range f.participants {
		restores = append(restores, p.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// fakeEntityRepo stores records in memory. Updates are applied by
// overlaying the changed columns on the record's JSON form, which matches
// the column names used by the inputs.
type fakeEntityRepo[R models.Record] struct {
	newRecord func() R
	rows      map[string]R
	created   map[string]time.Time
	seq       int
	base      time.Time
	calls     int
}

func newFakeEntityRepo[R models.Record](newRecord func() R) *fakeEntityRepo[R] {
	return &fakeEntityRepo[R]{
		newRecord: newRecord,
		rows:      map[string]R{},
		created:   map[string]time.Time{},
		base:      time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeEntityRepo[R]) snapshot() func() {
	saved := make(map[string]R, len(f.rows))
	for k, v := range f.rows {
		saved[k] = v
	}
	return func() { f.rows = saved }
}

func (f *fakeEntityRepo[R]) overlay(record R, changes map[string]any) (R, error) {
	var zero R
	raw, err := json.Marshal(record)
	if err != nil {
		return zero, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, err
	}
	for k, v := range changes {
		fields[k] = v
	}
	raw, err = json.Marshal(fields)
	if err != nil {
		return zero, err
	}
	out := f.newRecord()
	if err := json.Unmarshal(raw, out); err != nil {
		return zero, err
	}
	return out, nil
}

func (f *fakeEntityRepo[R]) Create(ctx context.Context, record R) error {
	f.calls++
	f.seq++
	createdAt := f.base.Add(time.Duration(f.seq) * time.Minute)
	stored, err := f.overlay(record, map[string]any{
		"id":         fmt.Sprintf("rec-%d", f.seq),
		"created_at": createdAt,
	})
	if err != nil {
		return err
	}
	// Hand the generated id and timestamp back like the database would.
	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, record); err != nil {
		return err
	}
	f.rows[stored.GetID()] = stored
	f.created[stored.GetID()] = createdAt
	return nil
}

func (f *fakeEntityRepo[R]) FindByID(ctx context.Context, id string) (R, error) {
	f.calls++
	record, ok := f.rows[id]
	if !ok {
		var zero R
		return zero, repository.ErrNotFound
	}
	return record, nil
}

func (f *fakeEntityRepo[R]) List(ctx context.Context, query *repository.ListQuery) ([]R, int64, error) {
	f.calls++
	out := make([]R, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := f.created[out[i].GetID()], f.created[out[j].GetID()]
		if !a.Equal(b) {
			return a.After(b)
		}
		return out[i].GetID() < out[j].GetID()
	})
	return out, int64(len(out)), nil
}

func (f *fakeEntityRepo[R]) Update(ctx context.Context, id string, changes map[string]any) error {
	f.calls++
	record, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if len(changes) == 0 {
		return nil
	}
	updated, err := f.overlay(record, changes)
	if err != nil {
		return err
	}
	f.rows[id] = updated
	return nil
}

func (f *fakeEntityRepo[R]) Delete(ctx context.Context, id string) error {
	f.calls++
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

// fakeRefs answers existence checks from a fixed set of "table/id" keys.
type fakeRefs map[string]bool

func (f fakeRefs) Exists(ctx context.Context, ref models.Reference) (bool, error) {
	return f[ref.Table+"/"+ref.ID], nil
}

type fakeAuditRepo struct {
	entries []models.AuditLog
	err     error
}

func (f *fakeAuditRepo) snapshot() func() {
	saved := append([]models.AuditLog(nil), f.entries...)
	return func() { f.entries = saved }
}

func (f *fakeAuditRepo) Append(ctx context.Context, entry *models.AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, query repository.AuditLogQuery) ([]models.AuditLog, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

type assignment struct {
	kind     string
	recordID string
	assignee string
}

type fakeNotifier struct {
	calls []assignment
}

func (f *fakeNotifier) NotifyAssignment(ctx context.Context, caller models.CallerIdentity, kind EntityKind, record models.Record, assigneeID string) {
	f.calls = append(f.calls, assignment{kind: kind.Name, recordID: record.GetID(), assignee: assigneeID})
}
