package app

import (
	"context"

	"argus-bot/internal/domain/entity"
	"argus-bot/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// AwaitPhoto переводит пользователя в ожидание снимка для /analyze
func (s *UserService) AwaitPhoto(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// UpdateState меняет состояние уже известного пользователя
func (s *UserService) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	return s.repo.UpdateState(ctx, userID, state)
}

// Count возвращает число пользователей для /stats
func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
