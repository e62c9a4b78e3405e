package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"steamx-api/internal/domain"
	"steamx-api/internal/repository"
)

type mockUserRepo struct {
	usersByID     map[string]domain.User
	usersByEmail  map[string]string
	usersByGoogle map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:     make(map[string]domain.User),
		usersByEmail:  make(map[string]string),
		usersByGoogle: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, ok := m.usersByEmail[user.Email]; ok {
		return repository.ErrDuplicate
	}
	if user.GoogleID != "" {
		if _, ok := m.usersByGoogle[user.GoogleID]; ok {
			return repository.ErrDuplicate
		}
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	if user.GoogleID != "" {
		m.usersByGoogle[user.GoogleID] = user.ID
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) GetByGoogleID(_ context.Context, googleID string) (domain.User, error) {
	id, ok := m.usersByGoogle[googleID]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id, fullName, email string, updatedAt time.Time) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if otherID, taken := m.usersByEmail[email]; taken && otherID != id {
		return repository.ErrDuplicate
	}
	delete(m.usersByEmail, user.Email)
	user.FullName = fullName
	user.Email = email
	user.UpdatedAt = updatedAt
	m.usersByID[id] = user
	m.usersByEmail[email] = id
	return nil
}

func (m *mockUserRepo) LinkGoogle(_ context.Context, id, googleID, picture string, updatedAt time.Time) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.GoogleID = googleID
	user.ProfilePicture = picture
	user.AuthProvider = domain.ProviderGoogle
	user.IsVerified = true
	user.UpdatedAt = updatedAt
	m.usersByID[id] = user
	m.usersByGoogle[googleID] = id
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.usersByID, id)
	delete(m.usersByEmail, user.Email)
	if user.GoogleID != "" {
		delete(m.usersByGoogle, user.GoogleID)
	}
	return nil
}

type mockSessionRepo struct {
	sessions map[string]domain.ChatSession
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]domain.ChatSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, session domain.ChatSession) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id, userID string) (domain.ChatSession, error) {
	session, ok := m.sessions[id]
	if !ok || session.UserID != userID {
		return domain.ChatSession{}, pgx.ErrNoRows
	}
	return session, nil
}

func (m *mockSessionRepo) ListByUser(_ context.Context, userID string) ([]domain.ChatSession, error) {
	var out []domain.ChatSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) Touch(_ context.Context, id, title string, updatedAt time.Time) error {
	session, ok := m.sessions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if title != "" {
		session.Title = title
	}
	session.UpdatedAt = updatedAt
	m.sessions[id] = session
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id, userID string) error {
	session, ok := m.sessions[id]
	if !ok || session.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, s := range m.sessions {
		if s.UserID == userID {
			count++
		}
	}
	return count, nil
}

type mockMessageRepo struct {
	messages []domain.ChatMessage
	sessions *mockSessionRepo
}

func newMockMessageRepo(sessions *mockSessionRepo) *mockMessageRepo {
	return &mockMessageRepo{sessions: sessions}
}

func (m *mockMessageRepo) Create(_ context.Context, message domain.ChatMessage) error {
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockMessageRepo) ListBySession(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if s, ok := m.sessions.sessions[msg.SessionID]; ok && s.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeGoogleVerifier struct {
	claims GoogleClaims
	err    error
}

func (f *fakeGoogleVerifier) Verify(_ context.Context, _ string) (GoogleClaims, error) {
	if f.err != nil {
		return GoogleClaims{}, f.err
	}
	return f.claims, nil
}
