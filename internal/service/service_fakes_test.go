package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// memStore backs every repository interface with in-memory maps. A memTx
// holds the store mutex for the whole transaction and restores a snapshot
// when the transaction function fails, mirroring commit/rollback semantics.
type memStore struct {
	mu  sync.Mutex
	seq int

	clients     map[string]domain.Client
	projects    map[string]domain.Project
	members     map[string]domain.ProjectMember
	users       map[string]domain.User
	statuses    map[string]domain.TicketStatus
	priorities  map[string]domain.TicketPriority
	streams     map[string]domain.Stream
	subjects    map[string]domain.Subject
	tickets     map[string]domain.Ticket
	events      []domain.TicketEvent
	comments    []domain.Comment
	attachments []domain.AttachmentReference
	counters    map[string]int64
	outbox      []domain.OutboxEntry

	enqueueErr error
}

func newMemStore() *memStore {
	return &memStore{
		clients:    make(map[string]domain.Client),
		projects:   make(map[string]domain.Project),
		members:    make(map[string]domain.ProjectMember),
		users:      make(map[string]domain.User),
		statuses:   make(map[string]domain.TicketStatus),
		priorities: make(map[string]domain.TicketPriority),
		streams:    make(map[string]domain.Stream),
		subjects:   make(map[string]domain.Subject),
		tickets:    make(map[string]domain.Ticket),
		counters:   make(map[string]int64),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) now() time.Time {
	s.seq++
	return time.Unix(1700000000, int64(s.seq))
}

type memSnapshot struct {
	seq         int
	tickets     map[string]domain.Ticket
	events      []domain.TicketEvent
	comments    []domain.Comment
	attachments []domain.AttachmentReference
	counters    map[string]int64
	outbox      []domain.OutboxEntry
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		seq:         s.seq,
		tickets:     make(map[string]domain.Ticket, len(s.tickets)),
		events:      append([]domain.TicketEvent(nil), s.events...),
		comments:    append([]domain.Comment(nil), s.comments...),
		attachments: append([]domain.AttachmentReference(nil), s.attachments...),
		counters:    make(map[string]int64, len(s.counters)),
		outbox:      append([]domain.OutboxEntry(nil), s.outbox...),
	}
	for k, v := range s.tickets {
		snap.tickets[k] = v
	}
	for k, v := range s.counters {
		snap.counters[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.seq = snap.seq
	s.tickets = snap.tickets
	s.events = snap.events
	s.comments = snap.comments
	s.attachments = snap.attachments
	s.counters = snap.counters
	s.outbox = snap.outbox
}

// memTx serializes transactions the way row locks do in the real store.
type memTx struct {
	store *memStore
}

func (t *memTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// --- TicketRepository ---

func (s *memStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	ticket.ID = s.nextID("ticket")
	ticket.CreatedAt = s.now()
	ticket.UpdatedAt = ticket.CreatedAt
	s.tickets[ticket.ID] = *ticket
	return nil
}

func (s *memStore) Update(ctx context.Context, ticket *domain.Ticket) error {
	existing, ok := s.tickets[ticket.ID]
	if !ok || existing.IsDeleted {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = s.now()
	s.tickets[ticket.ID] = *ticket
	return nil
}

func (s *memStore) SoftDelete(ctx context.Context, id string) error {
	ticket, ok := s.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.IsDeleted = true
	ticket.UpdatedAt = s.now()
	s.tickets[id] = ticket
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (s *memStore) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range s.tickets {
		if !filter.IncludeDeleted && ticket.IsDeleted {
			continue
		}
		if !s.scopeAllows(filter.Scope, ticket) {
			continue
		}
		if filter.ProjectID != nil && ticket.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.AssignedToID != nil && (ticket.AssignedToID == nil || *ticket.AssignedToID != *filter.AssignedToID) {
			continue
		}
		if len(filter.StatusIDs) > 0 && !contains(filter.StatusIDs, ticket.StatusID) {
			continue
		}
		if len(filter.PriorityIDs) > 0 && !contains(filter.PriorityIDs, ticket.PriorityID) {
			continue
		}
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (s *memStore) scopeAllows(scope domain.AccessScope, ticket domain.Ticket) bool {
	project := s.projects[ticket.ProjectID]
	return scope.AllowsTicket(&ticket, project.ClientID)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// --- TicketEventRepository ---

func (s *memStore) Append(ctx context.Context, event *domain.TicketEvent) error {
	event.CreatedAt = s.now()
	s.events = append(s.events, *event)
	return nil
}

func (s *memStore) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketEvent, error) {
	var result []domain.TicketEvent
	for _, event := range s.events {
		if event.TicketID == ticketID {
			result = append(result, event)
		}
	}
	return result, nil
}

// --- SequenceRepository ---

func (s *memStore) NextNumber(ctx context.Context, clientID string) (int64, error) {
	s.counters[clientID]++
	return s.counters[clientID], nil
}

// --- OutboxRepository ---

func (s *memStore) Enqueue(ctx context.Context, entry *domain.OutboxEntry) error {
	if s.enqueueErr != nil {
		return s.enqueueErr
	}
	entry.ID = s.nextID("outbox")
	entry.CreatedAt = s.now()
	s.outbox = append(s.outbox, *entry)
	return nil
}

func (s *memStore) ListPending(ctx context.Context, limit int) ([]domain.OutboxEntry, error) {
	var result []domain.OutboxEntry
	for _, entry := range s.outbox {
		if entry.DeliveredAt == nil {
			result = append(result, entry)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (s *memStore) ClaimPending(ctx context.Context, limit int) ([]domain.OutboxEntry, error) {
	return s.ListPending(ctx, limit)
}

func (s *memStore) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	for i := range s.outbox {
		if s.outbox[i].ID == id && s.outbox[i].DeliveredAt == nil {
			s.outbox[i].DeliveredAt = &at
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (s *memStore) IncrementAttempts(ctx context.Context, id string) error {
	for i := range s.outbox {
		if s.outbox[i].ID == id {
			s.outbox[i].Attempts++
			return nil
		}
	}
	return pgx.ErrNoRows
}

// --- ClientRepository ---

func (s *memStore) addClient(name string) domain.Client {
	client := domain.Client{ID: s.nextID("client"), OrganizationID: "org-1", Name: name, CreatedAt: s.now()}
	s.clients[client.ID] = client
	return client
}

type memClientRepo struct{ store *memStore }

func (r memClientRepo) Create(ctx context.Context, client *domain.Client) error {
	client.ID = r.store.nextID("client")
	client.CreatedAt = r.store.now()
	client.UpdatedAt = client.CreatedAt
	r.store.clients[client.ID] = *client
	return nil
}

func (r memClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	client, ok := r.store.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := client
	return &copied, nil
}

func (r memClientRepo) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Client, error) {
	var result []domain.Client
	for _, client := range r.store.clients {
		if client.OrganizationID == organizationID {
			result = append(result, client)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// --- ProjectRepository ---

type memProjectRepo struct{ store *memStore }

func memberKey(projectID, userID string) string { return projectID + "|" + userID }

func (r memProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	project.ID = r.store.nextID("project")
	project.CreatedAt = r.store.now()
	project.UpdatedAt = project.CreatedAt
	r.store.projects[project.ID] = *project
	return nil
}

func (r memProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	project, ok := r.store.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := project
	return &copied, nil
}

func (r memProjectRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]domain.Project, error) {
	var result []domain.Project
	for _, project := range r.store.projects {
		if project.ClientID == clientID {
			result = append(result, project)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r memProjectRepo) UpsertMember(ctx context.Context, member *domain.ProjectMember) error {
	member.CreatedAt = r.store.now()
	r.store.members[memberKey(member.ProjectID, member.UserID)] = *member
	return nil
}

func (r memProjectRepo) GetMember(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	member, ok := r.store.members[memberKey(projectID, userID)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := member
	return &copied, nil
}

// --- TaxonomyRepository ---

type memTaxonomyRepo struct{ store *memStore }

func (r memTaxonomyRepo) GetStatus(ctx context.Context, id string) (*domain.TicketStatus, error) {
	status, ok := r.store.statuses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := status
	return &copied, nil
}

func (r memTaxonomyRepo) GetPriority(ctx context.Context, id string) (*domain.TicketPriority, error) {
	priority, ok := r.store.priorities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := priority
	return &copied, nil
}

func (r memTaxonomyRepo) GetStream(ctx context.Context, id string) (*domain.Stream, error) {
	stream, ok := r.store.streams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := stream
	return &copied, nil
}

func (r memTaxonomyRepo) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	subject, ok := r.store.subjects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := subject
	return &copied, nil
}

func (r memTaxonomyRepo) ListStatuses(ctx context.Context, organizationID string) ([]domain.TicketStatus, error) {
	var result []domain.TicketStatus
	for _, status := range r.store.statuses {
		if status.OrganizationID == organizationID {
			result = append(result, status)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r memTaxonomyRepo) ListPriorities(ctx context.Context, organizationID string) ([]domain.TicketPriority, error) {
	var result []domain.TicketPriority
	for _, priority := range r.store.priorities {
		if priority.OrganizationID == organizationID {
			result = append(result, priority)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Rank < result[j].Rank })
	return result, nil
}

// --- CommentRepository / AttachmentRepository ---

type memCommentRepo struct{ store *memStore }

func (r memCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	comment.ID = r.store.nextID("comment")
	comment.CreatedAt = r.store.now()
	stored := *comment
	stored.Attachments = nil
	r.store.comments = append(r.store.comments, stored)
	return nil
}

func (r memCommentRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, comment := range r.store.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	return result, nil
}

type memAttachmentRepo struct{ store *memStore }

func (r memAttachmentRepo) Create(ctx context.Context, attachment *domain.AttachmentReference) error {
	attachment.ID = r.store.nextID("attachment")
	attachment.CreatedAt = r.store.now()
	r.store.attachments = append(r.store.attachments, *attachment)
	return nil
}

func (r memAttachmentRepo) ListByComment(ctx context.Context, commentID string) ([]domain.AttachmentReference, error) {
	var result []domain.AttachmentReference
	for _, attachment := range r.store.attachments {
		if attachment.CommentID == commentID {
			result = append(result, attachment)
		}
	}
	return result, nil
}

// --- Notifier fakes ---

// recordNotifier records deliveries and fails the entry IDs listed in failOn.
type recordNotifier struct {
	mu        sync.Mutex
	failOn    map[string]bool
	delivered []notify.Notification
}

func (n *recordNotifier) Deliver(ctx context.Context, notification notify.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failOn[notification.EntryID] {
		return fmt.Errorf("delivery refused for %s", notification.EntryID)
	}
	n.delivered = append(n.delivered, notification)
	return nil
}

// recordPublisher captures immediate delivery requests.
type recordPublisher struct {
	mu        sync.Mutex
	published []notify.Notification
}

func (p *recordPublisher) Publish(ctx context.Context, n notify.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, n)
	return nil
}

// --- World setup ---

type testWorld struct {
	store    *memStore
	tx       *memTx
	client   domain.Client
	project  domain.Project
	raiser   string
	assignee string
	open     domain.TicketStatus
	closed   domain.TicketStatus
	normal   domain.TicketPriority
	urgent   domain.TicketPriority
	stream   domain.Stream
	subject  domain.Subject
}

// newTestWorld builds a client with one project, two permissioned users and
// a minimal taxonomy.
func newTestWorld() *testWorld {
	store := newMemStore()
	w := &testWorld{store: store, tx: &memTx{store: store}}

	w.client = store.addClient("Acme Corp")
	w.project = domain.Project{ID: store.nextID("project"), ClientID: w.client.ID, Name: "Website"}
	store.projects[w.project.ID] = w.project

	w.raiser = "user-raiser"
	w.assignee = "user-assignee"
	store.members[memberKey(w.project.ID, w.raiser)] = domain.ProjectMember{
		ProjectID: w.project.ID, UserID: w.raiser, CanRaise: true,
	}
	store.members[memberKey(w.project.ID, w.assignee)] = domain.ProjectMember{
		ProjectID: w.project.ID, UserID: w.assignee, CanRaise: true, CanBeAssigned: true,
	}

	w.open = domain.TicketStatus{ID: "status-open", OrganizationID: "org-1", Name: "Open"}
	w.closed = domain.TicketStatus{ID: "status-closed", OrganizationID: "org-1", Name: "Closed", IsClosed: true}
	store.statuses[w.open.ID] = w.open
	store.statuses[w.closed.ID] = w.closed

	w.normal = domain.TicketPriority{ID: "prio-normal", OrganizationID: "org-1", Name: "Normal", Rank: 1}
	w.urgent = domain.TicketPriority{ID: "prio-urgent", OrganizationID: "org-1", Name: "Urgent", Rank: 2}
	store.priorities[w.normal.ID] = w.normal
	store.priorities[w.urgent.ID] = w.urgent

	w.stream = domain.Stream{ID: "stream-1", ProjectID: w.project.ID, Name: "Support"}
	w.subject = domain.Subject{ID: "subject-1", StreamID: w.stream.ID, Name: "General"}
	store.streams[w.stream.ID] = w.stream
	store.subjects[w.subject.ID] = w.subject

	return w
}

func (w *testWorld) ticketService(alerts notify.Publisher) *TicketService {
	return NewTicketService(TicketDependencies{
		Tx:           w.tx,
		TicketRepo:   w.store,
		EventRepo:    w.store,
		SequenceRepo: w.store,
		OutboxRepo:   w.store,
		ClientRepo:   memClientRepo{store: w.store},
		ProjectRepo:  memProjectRepo{store: w.store},
		TaxonomyRepo: memTaxonomyRepo{store: w.store},
		Alerts:       alerts,
	})
}

func (w *testWorld) commentService() *CommentService {
	return NewCommentService(CommentDependencies{
		Tx:             w.tx,
		TicketRepo:     w.store,
		CommentRepo:    memCommentRepo{store: w.store},
		AttachmentRepo: memAttachmentRepo{store: w.store},
		EventRepo:      w.store,
		ProjectRepo:    memProjectRepo{store: w.store},
		OutboxRepo:     w.store,
	})
}

func (w *testWorld) createInput() TicketCreateInput {
	return TicketCreateInput{
		ProjectID:  w.project.ID,
		RaisedByID: w.raiser,
		StreamID:   w.stream.ID,
		SubjectID:  w.subject.ID,
		PriorityID: w.normal.ID,
		StatusID:   w.open.ID,
		Title:      "Checkout page broken",
	}
}
