package session

import (
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mcoot/numbermaster/internal/dependencies/clock"
	"github.com/mcoot/numbermaster/internal/dependencies/ident"
	"github.com/mcoot/numbermaster/internal/model"
)

// MaxDisplayNameLength is the longest accepted display name, in runes
const MaxDisplayNameLength = 32

// Registry maps sessions to participants and their current connection, and
// reserves display names. It is not safe for concurrent use; the coordinator
// serialises access.
type Registry struct {
	ids    ident.Generator
	clock  clock.Clock
	logger *slog.Logger

	sessions map[model.SessionID]*model.Session
	byConn   map[model.ConnID]model.SessionID
	names    map[string]model.SessionID // normalised name -> owner
	records  map[model.SessionID]*model.DisconnectionRecord
}

// NewRegistry creates an empty Registry
func NewRegistry(ids ident.Generator, clock clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		ids:      ids,
		clock:    clock,
		logger:   logger,
		sessions: make(map[model.SessionID]*model.Session),
		byConn:   make(map[model.ConnID]model.SessionID),
		names:    make(map[string]model.SessionID),
		records:  make(map[model.SessionID]*model.DisconnectionRecord),
	}
}

// Register creates a session bound to conn and reserves its display name. An
// empty sessionID gets a generated one. Registering an id that already exists
// replaces the old session. No state changes on error.
func (r *Registry) Register(conn model.ConnID, sessionID model.SessionID, displayName string) (*model.Session, error) {
	var owners []model.SessionID
	if sessionID != "" {
		owners = append(owners, sessionID)
	}
	if err := r.Available(displayName, owners...); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(displayName)

	if sessionID == "" {
		sessionID = model.SessionID(r.ids.NewID("s"))
	}
	if _, exists := r.sessions[sessionID]; exists {
		r.Delete(sessionID)
	}

	sess := &model.Session{
		ID:            sessionID,
		ParticipantID: model.ParticipantID(r.ids.NewID("p")),
		DisplayName:   name,
		CreatedAt:     r.clock.Now(),
	}
	r.sessions[sessionID] = sess
	r.names[model.NormalizeName(name)] = sessionID
	r.Bind(sess, conn)

	r.logger.Debug("session registered",
		slog.String("session_id", string(sessionID)),
		slog.String("participant_id", string(sess.ParticipantID)),
		slog.String("name", name),
	)
	return sess, nil
}

// Available reports whether displayName could be registered. A name held by
// one of the given sessions counts as free, since the caller is about to
// release or replace it.
func (r *Registry) Available(displayName string, releasing ...model.SessionID) error {
	name := strings.TrimSpace(displayName)
	if name == "" || utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return model.ErrInvalidDisplayName
	}
	owner, ok := r.names[model.NormalizeName(name)]
	if !ok {
		return nil
	}
	for _, id := range releasing {
		if id == owner {
			return nil
		}
	}
	return model.ErrNameTaken
}

// Lookup returns the session with the given id, or nil
func (r *Registry) Lookup(sessionID model.SessionID) *model.Session {
	return r.sessions[sessionID]
}

// ByConn returns the session currently bound to conn, or nil
func (r *Registry) ByConn(conn model.ConnID) *model.Session {
	id, ok := r.byConn[conn]
	if !ok {
		return nil
	}
	return r.sessions[id]
}

// Bind attaches conn to the session, detaching it from whatever it was bound
// to before. Game state is not touched.
func (r *Registry) Bind(sess *model.Session, conn model.ConnID) {
	if sess.ConnID != "" {
		delete(r.byConn, sess.ConnID)
	}
	if prev := r.ByConn(conn); prev != nil && prev.ID != sess.ID {
		prev.ConnID = ""
	}
	sess.ConnID = conn
	if conn != "" {
		r.byConn[conn] = sess.ID
	}
}

// Unbind detaches conn from its session and returns that session, or nil if
// the connection was not bound
func (r *Registry) Unbind(conn model.ConnID) *model.Session {
	sess := r.ByConn(conn)
	delete(r.byConn, conn)
	if sess != nil {
		sess.ConnID = ""
	}
	return sess
}

// Delete removes a session, releasing its display name, connection binding and
// any disconnection record
func (r *Registry) Delete(sessionID model.SessionID) {
	sess, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	if sess.ConnID != "" {
		delete(r.byConn, sess.ConnID)
	}
	norm := model.NormalizeName(sess.DisplayName)
	if r.names[norm] == sessionID {
		delete(r.names, norm)
	}
	delete(r.records, sessionID)
	delete(r.sessions, sessionID)

	r.logger.Debug("session deleted", slog.String("session_id", string(sessionID)))
}

// NameTaken returns true if the name is reserved by any session
func (r *Registry) NameTaken(displayName string) bool {
	_, ok := r.names[model.NormalizeName(displayName)]
	return ok
}

// MarkDisconnected records that a session dropped out of an unended game
func (r *Registry) MarkDisconnected(sess *model.Session, snapshot *model.Participant, now time.Time) *model.DisconnectionRecord {
	rec := &model.DisconnectionRecord{
		SessionID:      sess.ID,
		DisconnectedAt: now,
		GameID:         sess.GameID,
		Snapshot:       snapshot,
	}
	r.records[sess.ID] = rec
	return rec
}

// ClearDisconnected removes the disconnection record for a session, returning
// it if one existed
func (r *Registry) ClearDisconnected(sessionID model.SessionID) *model.DisconnectionRecord {
	rec, ok := r.records[sessionID]
	if !ok {
		return nil
	}
	delete(r.records, sessionID)
	return rec
}

// Disconnected returns the disconnection record for a session, or nil
func (r *Registry) Disconnected(sessionID model.SessionID) *model.DisconnectionRecord {
	return r.records[sessionID]
}

// Expired returns records older than grace at now, oldest first
func (r *Registry) Expired(now time.Time, grace time.Duration) []*model.DisconnectionRecord {
	var expired []*model.DisconnectionRecord
	for _, rec := range r.records {
		if now.Sub(rec.DisconnectedAt) > grace {
			expired = append(expired, rec)
		}
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].DisconnectedAt.Before(expired[j].DisconnectedAt)
	})
	return expired
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	return len(r.sessions)
}

// PendingReconnections returns the number of disconnection records
func (r *Registry) PendingReconnections() int {
	return len(r.records)
}
