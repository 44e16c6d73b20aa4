package inmemory

import (
	"context"

	"github.com/zakoken/zkkd/internal/core/domain"
)

type messageRepositoryImpl struct {
	db *repoManager
}

func (r messageRepositoryImpl) AddMessage(
	ctx context.Context, message domain.Message,
) error {
	return r.db.write(ctx, func(s *state) error {
		key := message.Key()
		if _, ok := s.messages[key]; ok {
			return domain.ErrMessageReplayed
		}
		s.messages[key] = message
		s.msgOrder = append(s.msgOrder, key)
		return nil
	})
}

func (r messageRepositoryImpl) GetMessage(
	ctx context.Context, direction domain.MessageDirection, id string,
) (*domain.Message, error) {
	var message *domain.Message
	err := r.db.read(ctx, func(s *state) error {
		m, ok := s.messages[domain.MessageKey(direction, id)]
		if !ok {
			return domain.ErrMessageNotFound
		}
		message = &m
		return nil
	})
	return message, err
}

func (r messageRepositoryImpl) UpdateMessage(
	ctx context.Context, direction domain.MessageDirection, id string,
	updateFn func(m *domain.Message) (*domain.Message, error),
) error {
	return r.db.write(ctx, func(s *state) error {
		key := domain.MessageKey(direction, id)
		m, ok := s.messages[key]
		if !ok {
			return domain.ErrMessageNotFound
		}
		updated, err := updateFn(&m)
		if err != nil {
			return err
		}
		s.messages[key] = *updated
		return nil
	})
}

func (r messageRepositoryImpl) GetPendingMessages(
	ctx context.Context, limit int,
) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.read(ctx, func(s *state) error {
		messages = make([]domain.Message, 0)
		for _, key := range s.msgOrder {
			if limit > 0 && len(messages) >= limit {
				break
			}
			if m := s.messages[key]; m.IsPending() {
				messages = append(messages, m)
			}
		}
		return nil
	})
	return messages, err
}

func (r messageRepositoryImpl) ListMessages(
	ctx context.Context, direction domain.MessageDirection, page *domain.Page,
) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.read(ctx, func(s *state) error {
		filtered := make([]domain.Message, 0)
		for _, key := range s.msgOrder {
			if m := s.messages[key]; m.Direction == direction {
				filtered = append(filtered, m)
			}
		}
		start, end := paginate(len(filtered), page)
		messages = filtered[start:end]
		return nil
	})
	return messages, err
}
