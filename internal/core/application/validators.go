package application

import "github.com/zakoken/zkkd/internal/core/domain"

func validateTransfer(from, to string, amount uint64) error {
	if err := domain.ValidateAccount(from); err != nil {
		return err
	}
	if err := domain.ValidateAccount(to); err != nil {
		return err
	}
	if amount == 0 {
		return domain.ErrInvalidAmount
	}
	return nil
}
