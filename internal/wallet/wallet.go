// internal/wallet/wallet.go
package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/ludoworld/ludo-service/internal/database"
	"github.com/ludoworld/ludo-service/internal/game"
)

// Ledger mutates player wallet balances in Postgres. Each call is one
// transaction; the balance check and the debit are a single conditional
// update, so two concurrent debits can never overdraw a wallet.
type Ledger struct {
	log *logrus.Logger
}

func NewLedger(log *logrus.Logger) *Ledger {
	if log == nil {
		log = logrus.New()
	}
	return &Ledger{log: log}
}

func (l *Ledger) Debit(ctx context.Context, playerID string, amount int64) error {
	id, err := uuid.Parse(playerID)
	if err != nil {
		return fmt.Errorf("%w: bad player id %q", game.ErrServer, playerID)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: debit amount must be positive", game.ErrServer)
	}

	q := `UPDATE players SET wallet = wallet - $2 WHERE id = $1 AND wallet >= $2`

	err = pgx.BeginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, execErr := tx.Exec(ctx, q, id, amount)
		if execErr != nil {
			return execErr
		}
		if tag.RowsAffected() == 0 {
			return game.ErrInsufficientBalance
		}
		return nil
	})
	if err == nil {
		l.log.WithFields(logrus.Fields{"player": playerID, "amount": amount}).Debug("wallet debit")
	}
	return err
}

func (l *Ledger) Credit(ctx context.Context, playerID string, amount int64) error {
	id, err := uuid.Parse(playerID)
	if err != nil {
		return fmt.Errorf("%w: bad player id %q", game.ErrServer, playerID)
	}
	if amount < 0 {
		return fmt.Errorf("%w: credit amount must not be negative", game.ErrServer)
	}

	if _, err := database.DB.Exec(ctx, `UPDATE players SET wallet = wallet + $2 WHERE id = $1`, id, amount); err != nil {
		return fmt.Errorf("wallet credit: %w", err)
	}
	l.log.WithFields(logrus.Fields{"player": playerID, "amount": amount}).Debug("wallet credit")
	return nil
}

// RecordWin credits the payout and updates the winner's lifetime stats in the
// same transaction.
func (l *Ledger) RecordWin(ctx context.Context, playerID string, amount int64) error {
	id, err := uuid.Parse(playerID)
	if err != nil {
		return fmt.Errorf("%w: bad player id %q", game.ErrServer, playerID)
	}

	q := `UPDATE players SET wallet = wallet + $2, win_coin = win_coin + $2 WHERE id = $1`

	err = pgx.BeginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, execErr := tx.Exec(ctx, q, id, amount)
		if execErr != nil {
			return execErr
		}
		if tag.RowsAffected() == 0 {
			return database.ErrPlayerNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record win: %w", err)
	}
	l.log.WithFields(logrus.Fields{"player": playerID, "payout": amount}).Info("win recorded")
	return nil
}
