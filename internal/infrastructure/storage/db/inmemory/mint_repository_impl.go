package inmemory

import (
	"context"

	"github.com/zakoken/zkkd/internal/core/domain"
)

type mintRepositoryImpl struct {
	db *repoManager
}

func (r mintRepositoryImpl) AddMintRecord(
	ctx context.Context, record domain.MintRecord,
) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.mints[record.ExternalRef]; ok {
			return domain.ErrReplayRejected
		}
		s.mints[record.ExternalRef] = record
		s.mintOrder = append(s.mintOrder, record.ExternalRef)
		return nil
	})
}

func (r mintRepositoryImpl) GetMintRecord(
	ctx context.Context, externalRef string,
) (*domain.MintRecord, error) {
	var record *domain.MintRecord
	err := r.db.read(ctx, func(s *state) error {
		rec, ok := s.mints[externalRef]
		if !ok {
			return domain.ErrMintRecordNotFound
		}
		record = &rec
		return nil
	})
	return record, err
}

func (r mintRepositoryImpl) ListMintRecords(
	ctx context.Context, tag string, page *domain.Page,
) ([]domain.MintRecord, error) {
	var records []domain.MintRecord
	err := r.db.read(ctx, func(s *state) error {
		filtered := make([]domain.MintRecord, 0, len(s.mintOrder))
		for _, ref := range s.mintOrder {
			rec := s.mints[ref]
			if len(tag) > 0 && rec.Tag != tag {
				continue
			}
			filtered = append(filtered, rec)
		}
		start, end := paginate(len(filtered), page)
		records = filtered[start:end]
		return nil
	})
	return records, err
}
