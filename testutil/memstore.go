// Package testutil provides an in-memory store implementing the service
// store interfaces, so the core packages can be tested without a database.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/fault"
)

type MemStore struct {
	mu        sync.Mutex
	users     map[uint]model.User
	polls     map[uint]model.Poll
	responses map[uint]model.Response
	edges     map[string]model.Edge
	requests  map[uint]model.FollowRequest
	sessions  map[uint][]model.Session
	nextID    uint
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:     make(map[uint]model.User),
		polls:     make(map[uint]model.Poll),
		responses: make(map[uint]model.Response),
		edges:     make(map[string]model.Edge),
		requests:  make(map[uint]model.FollowRequest),
		sessions:  make(map[uint][]model.Session),
	}
}

func edgeKey(kind model.EdgeKind, fromID, toID uint) string {
	return fmt.Sprintf("%s:%d:%d", kind, fromID, toID)
}

func (m *MemStore) id() uint {
	m.nextID++
	return m.nextID
}

// Fixture helpers. Each assigns an id when the record has none.

func (m *MemStore) AddUser(u model.User) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = m.id()
	}
	m.users[u.ID] = u
	return u
}

func (m *MemStore) AddPoll(p model.Poll) model.Poll {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.id()
	}
	m.polls[p.ID] = p
	return p
}

func (m *MemStore) AddResponse(r model.Response) model.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		r.ID = m.id()
	}
	m.responses[r.ID] = r
	return r
}

func (m *MemStore) SetEdge(kind model.EdgeKind, fromID, toID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[edgeKey(kind, fromID, toID)] = model.Edge{Kind: kind, FromID: fromID, ToID: toID}
}

func (m *MemStore) AddSession(s model.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = append(m.sessions[s.UserID], s)
}

// Request returns the stored follow request by id, for assertions.
func (m *MemStore) Request(id uint) (model.FollowRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	return req, ok
}

// graph.Store / relationship.Store

func (m *MemStore) HasEdge(ctx context.Context, kind model.EdgeKind, fromID, toID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[edgeKey(kind, fromID, toID)]
	return ok, nil
}

func (m *MemStore) CreateEdge(ctx context.Context, e *model.Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := edgeKey(e.Kind, e.FromID, e.ToID)
	if _, ok := m.edges[key]; ok {
		return fault.Conflict("already exists")
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.edges[key] = *e
	return nil
}

func (m *MemStore) UpsertEdge(ctx context.Context, e *model.Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := edgeKey(e.Kind, e.FromID, e.ToID)
	if existing, ok := m.edges[key]; ok {
		existing.UpdatedAt = time.Now()
		m.edges[key] = existing
		return nil
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.edges[key] = *e
	return nil
}

func (m *MemStore) DeleteEdge(ctx context.Context, kind model.EdgeKind, fromID, toID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := edgeKey(kind, fromID, toID)
	_, ok := m.edges[key]
	delete(m.edges, key)
	return ok, nil
}

// visibility.TargetStore

func (m *MemStore) GetUser(ctx context.Context, id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fault.ErrNotFound
	}
	return &u, nil
}

func (m *MemStore) GetPoll(ctx context.Context, id uint) (*model.Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.polls[id]
	if !ok {
		return nil, fault.ErrNotFound
	}
	return &p, nil
}

func (m *MemStore) GetResponse(ctx context.Context, id uint) (*model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.responses[id]
	if !ok {
		return nil, fault.ErrNotFound
	}
	return &r, nil
}

// response.Store

func (m *MemStore) GetResponseByPollAuthor(ctx context.Context, pollID, authorID uint) (*model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.responses {
		if r.PollID == pollID && r.AuthorID == authorID {
			r := r
			return &r, nil
		}
	}
	return nil, fault.ErrNotFound
}

func (m *MemStore) CreateResponse(ctx context.Context, resp *model.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.responses {
		if r.PollID == resp.PollID && r.AuthorID == resp.AuthorID {
			return fault.Conflict("already exists")
		}
	}
	if resp.ID == 0 {
		resp.ID = m.id()
	}
	m.responses[resp.ID] = *resp
	return nil
}

func (m *MemStore) SaveResponse(ctx context.Context, resp *model.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[resp.ID] = *resp
	return nil
}

// relationship.Store follow requests

func (m *MemStore) PendingRequest(ctx context.Context, followerID, followeeID uint) (*model.FollowRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, req := range m.requests {
		if req.FollowerID == followerID && req.FolloweeID == followeeID && req.Status == model.RequestPending {
			req := req
			return &req, nil
		}
	}
	return nil, fault.ErrNotFound
}

func (m *MemStore) CreateRequest(ctx context.Context, req *model.FollowRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.ID == 0 {
		req.ID = m.id()
	}
	req.CreatedAt = time.Now()
	m.requests[req.ID] = *req
	return nil
}

func (m *MemStore) SaveRequest(ctx context.Context, req *model.FollowRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = *req
	return nil
}

func (m *MemStore) ListIncomingRequests(ctx context.Context, followeeID uint, status model.RequestStatus) ([]model.FollowRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := make([]model.FollowRequest, 0)
	for _, req := range m.requests {
		if req.FolloweeID == followeeID && req.Status == status {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

func (m *MemStore) SessionsForUser(ctx context.Context, userID uint) ([]model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID], nil
}
