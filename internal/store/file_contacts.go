package store

import (
	"context"
	"time"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/models"
)

// FileContactStore keeps contact messages in their own JSON file.
type FileContactStore struct {
	col *jsonCollection[models.ContactMessage]
	now func() time.Time
}

func NewFileContactStore(path string) (*FileContactStore, error) {
	col, err := newJSONCollection[models.ContactMessage](path)
	if err != nil {
		return nil, apperrors.Persistence("open contact store", err)
	}
	return &FileContactStore{col: col, now: time.Now}, nil
}

func (s *FileContactStore) Create(ctx context.Context, in models.ContactInput) (models.ContactMessage, error) {
	msg, err := newContact(in, s.now())
	if err != nil {
		return models.ContactMessage{}, err
	}

	stored, err := s.col.append(func([]models.ContactMessage) (models.ContactMessage, error) {
		return msg, nil
	})
	if err != nil {
		return models.ContactMessage{}, apperrors.Persistence("create contact", err)
	}
	return stored, nil
}

func (s *FileContactStore) List(ctx context.Context) ([]models.ContactMessage, error) {
	msgs, err := s.col.all()
	if err != nil {
		return nil, apperrors.Persistence("list contacts", err)
	}
	return msgs, nil
}
