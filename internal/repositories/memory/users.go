package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
)

func (s *Store) CreateUser(ctx context.Context, user domain.User, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrDuplicate, user.Email)
		}
	}
	s.users[user.ID] = user
	s.passwordHashes[user.ID] = passwordHash
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user with email %s", apperrors.ErrNotFound, email)
}

func (s *Store) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.passwordHashes[userID]
	if !ok {
		return "", fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return hash, nil
}

func (s *Store) SetPasswordHash(ctx context.Context, userID string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	s.passwordHashes[userID] = passwordHash
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, user.ID)
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (s *Store) SaveRefreshToken(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens[tokenHash] = refreshRecord{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *Store) GetUserIDByRefreshTokenHash(ctx context.Context, tokenHash string) (string, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.refreshTokens[tokenHash]
	if !ok {
		return "", time.Time{}, fmt.Errorf("%w: refresh token not recognized", apperrors.ErrUnauthorized)
	}
	return rec.userID, rec.expiresAt, nil
}

func (s *Store) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refreshTokens, tokenHash)
	return nil
}

func (s *Store) DeleteRefreshTokensForUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for hash, rec := range s.refreshTokens {
		if rec.userID == userID {
			delete(s.refreshTokens, hash)
		}
	}
	return nil
}
