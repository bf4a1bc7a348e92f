package services

import (
	"context"
	"fmt"

	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/pkg/logger"
)

// Payload is the create/update body of one entity kind. Every field is
// optional at the type level; Validate enforces what create requires.
type Payload[R models.Record] interface {
	Validate() error
	Build(createdByID string) R
	// Changes returns the columns explicitly present in the payload.
	Changes() (map[string]any, error)
	References() ([]models.Reference, error)
	Summary() string
}

// EntityKind names an entity for audit actions and response envelopes.
type EntityKind struct {
	Name   string // singular, used in audit actions: create_<Name>
	Plural string // envelope key
}

var (
	KindProject   = EntityKind{Name: "project", Plural: "projects"}
	KindInventory = EntityKind{Name: "inventory", Plural: "inventory"}
	KindLead      = EntityKind{Name: "lead", Plural: "leads"}
	KindMeeting   = EntityKind{Name: "meeting", Plural: "meetings"}
	KindVisit     = EntityKind{Name: "visit", Plural: "visits"}
)

// AssignmentNotifier is told, after commit, that a record was assigned to
// a user other than the caller.
type AssignmentNotifier interface {
	NotifyAssignment(ctx context.Context, caller models.CallerIdentity, kind EntityKind, record models.Record, assigneeID string)
}

type assignable interface {
	Assignee() *string
}

// assignedRecord is implemented by records that carry an assignee.
type assignedRecord interface {
	AssigneeID() *string
}

func currentAssignee(record models.Record) string {
	if r, ok := record.(assignedRecord); ok && r.AssigneeID() != nil {
		return *r.AssigneeID()
	}
	return ""
}

// EntityService implements create, list, update and delete for one entity
// kind. Each mutation and its audit entry commit in one transaction.
type EntityService[R models.Record, P Payload[R]] struct {
	kind     EntityKind
	repo     repository.EntityRepository[R]
	refs     repository.ReferenceChecker
	tx       repository.Transactor
	audit    *AuditService
	notifier AssignmentNotifier
}

func NewEntityService[R models.Record, P Payload[R]](
	kind EntityKind,
	repo repository.EntityRepository[R],
	refs repository.ReferenceChecker,
	tx repository.Transactor,
	audit *AuditService,
) *EntityService[R, P] {
	return &EntityService[R, P]{
		kind:  kind,
		repo:  repo,
		refs:  refs,
		tx:    tx,
		audit: audit,
	}
}

// WithNotifier enables assignment notifications for payloads that carry an
// assignee.
func (s *EntityService[R, P]) WithNotifier(n AssignmentNotifier) *EntityService[R, P] {
	s.notifier = n
	return s
}

func (s *EntityService[R, P]) Kind() EntityKind {
	return s.kind
}

// Create persists a new record created by caller and returns it with its
// relations expanded.
func (s *EntityService[R, P]) Create(ctx context.Context, caller models.CallerIdentity, payload P) (R, error) {
	var created R
	if err := payload.Validate(); err != nil {
		return created, classify(err)
	}
	refs, err := payload.References()
	if err != nil {
		return created, classify(err)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, refs); err != nil {
			return err
		}
		record := payload.Build(caller.UserID)
		if err := s.repo.Create(ctx, record); err != nil {
			return classify(err)
		}
		entry := NewAuditEntry(models.ActionCreate, caller, s.target(record), payload.Summary())
		if err := s.audit.Record(ctx, entry); err != nil {
			return err
		}
		created, err = s.repo.FindByID(ctx, record.GetID())
		return classify(err)
	})
	if err != nil {
		return created, err
	}

	s.afterCommit(ctx, caller, created, payload, "")
	return created, nil
}

// Get returns a single record with its relations expanded.
func (s *EntityService[R, P]) Get(ctx context.Context, id string) (R, error) {
	record, err := s.repo.FindByID(ctx, id)
	return record, classify(err)
}

// List returns records newest first. A nil query lists everything.
func (s *EntityService[R, P]) List(ctx context.Context, query *repository.ListQuery) ([]R, int64, error) {
	if query == nil {
		query = repository.NewListQuery()
	}
	records, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, classify(err)
	}
	return records, total, nil
}

// Update applies the fields present in payload. An empty payload changes
// nothing but is still audited.
func (s *EntityService[R, P]) Update(ctx context.Context, caller models.CallerIdentity, id string, payload P) (R, error) {
	var updated R
	changes, err := payload.Changes()
	if err != nil {
		return updated, classify(err)
	}
	refs, err := payload.References()
	if err != nil {
		return updated, classify(err)
	}

	var previous string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return classify(err)
		}
		previous = currentAssignee(existing)
		if err := s.checkReferences(ctx, refs); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, id, changes); err != nil {
			return classify(err)
		}
		updated, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return classify(err)
		}
		entry := NewAuditEntry(models.ActionUpdate, caller, s.target(updated), payload.Summary())
		return s.audit.Record(ctx, entry)
	})
	if err != nil {
		return updated, err
	}

	s.afterCommit(ctx, caller, updated, payload, previous)
	return updated, nil
}

// Delete removes the record permanently. A missing record is ErrNotFound
// and leaves no audit entry.
func (s *EntityService[R, P]) Delete(ctx context.Context, caller models.CallerIdentity, id string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return classify(err)
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return classify(err)
		}
		target := s.target(existing)
		// The lead row is gone; keep its id in the description only.
		if target.LeadID != nil && *target.LeadID == existing.GetID() {
			target.LeadID = nil
		}
		entry := NewAuditEntry(models.ActionDelete, caller, target, "deleted")
		return s.audit.Record(ctx, entry)
	})
}

func (s *EntityService[R, P]) target(record R) AuditTarget {
	return AuditTarget{
		Kind:   s.kind.Name,
		ID:     record.GetID(),
		LeadID: record.RelatedLeadID(),
	}
}

func (s *EntityService[R, P]) checkReferences(ctx context.Context, refs []models.Reference) error {
	for _, ref := range refs {
		ok, err := s.refs.Exists(ctx, ref)
		if err != nil {
			return classify(err)
		}
		if !ok {
			return fmt.Errorf("%w: %s %s", ErrForeignKeyNotFound, ref.Field, ref.ID)
		}
	}
	return nil
}

// afterCommit notifies a newly set assignee. previous is the assignee
// before the mutation.
func (s *EntityService[R, P]) afterCommit(ctx context.Context, caller models.CallerIdentity, record R, payload P, previous string) {
	if s.notifier == nil {
		return
	}
	a, ok := any(payload).(assignable)
	if !ok {
		return
	}
	assignee := a.Assignee()
	if assignee == nil || *assignee == caller.UserID || *assignee == previous {
		return
	}
	logger.WithContext(ctx).Debug("record assigned", "kind", s.kind.Name, "id", record.GetID(), "assignee", *assignee)
	s.notifier.NotifyAssignment(ctx, caller, s.kind, record, *assignee)
}
