package position

import (
	"context"
	"errors"
	"strings"

	"synth/core"
	"synth/pkg/synth"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()
		if err := tx.AutoMigrate(core.Collateral{}).Error; err != nil {
			return err
		}

		if err := tx.AutoMigrate(core.Debt{}).Error; err != nil {
			return err
		}

		if err := tx.AutoMigrate(core.Transaction{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Tx(ctx context.Context, fn func(store core.IPositionStore) error) error {
	return s.db.Tx(func(tx *db.DB) error {
		return fn(&positionStore{db: tx})
	})
}

func (s *positionStore) FindCollateral(ctx context.Context, userID, assetID string) (decimal.Decimal, error) {
	var collateral core.Collateral
	if err := s.db.View().Where("user_id=? and asset_id=?", userID, assetID).First(&collateral).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, nil
		}

		return decimal.Zero, err
	}

	return collateral.Amount, nil
}

func (s *positionStore) FindCollaterals(ctx context.Context, userID string) ([]*core.Collateral, error) {
	var collaterals []*core.Collateral
	if err := s.db.View().Where("user_id=?", userID).Order("asset_id").Find(&collaterals).Error; err != nil {
		return nil, err
	}

	return collaterals, nil
}

func (s *positionStore) AdjustCollateral(ctx context.Context, userID, assetID string, delta decimal.Decimal) error {
	tx := s.db.Update().Model(core.Collateral{}).
		Where("user_id=? and asset_id=? and amount + ? >= 0", userID, assetID, delta).
		UpdateColumns(map[string]interface{}{
			"amount":     gorm.Expr("amount + ?", delta),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 0 {
		return nil
	}

	if err := synth.Require(delta.IsPositive(), core.ErrInsufficientCollateral, userID, "/", assetID); err != nil {
		return err
	}

	collateral := core.Collateral{
		UserID:  userID,
		AssetID: assetID,
		Amount:  delta,
	}
	return s.db.Update().Create(&collateral).Error
}

func (s *positionStore) FindDebt(ctx context.Context, userID string) (decimal.Decimal, error) {
	var debt core.Debt
	if err := s.db.View().Where("user_id=?", userID).First(&debt).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, nil
		}

		return decimal.Zero, err
	}

	return debt.Amount, nil
}

func (s *positionStore) AdjustDebt(ctx context.Context, userID string, delta decimal.Decimal) error {
	tx := s.db.Update().Model(core.Debt{}).
		Where("user_id=? and amount + ? >= 0", userID, delta).
		UpdateColumns(map[string]interface{}{
			"amount":     gorm.Expr("amount + ?", delta),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 0 {
		return nil
	}

	if err := synth.Require(delta.IsPositive(), core.ErrInsufficientDebt, userID); err != nil {
		return err
	}

	debt := core.Debt{
		UserID: userID,
		Amount: delta,
	}
	return s.db.Update().Create(&debt).Error
}

func (s *positionStore) Debtors(ctx context.Context) ([]string, error) {
	var users []string
	if err := s.db.View().Model(core.Debt{}).Where("amount > 0").Order("user_id").Pluck("user_id", &users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (s *positionStore) CreateTransaction(ctx context.Context, transaction *core.Transaction) error {
	if err := s.db.Update().Create(transaction).Error; err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateTrace
		}

		return err
	}

	return nil
}

func (s *positionStore) ListTransactions(ctx context.Context, userID string, fromID int64, limit int) ([]*core.Transaction, error) {
	var transactions []*core.Transaction
	if limit <= 0 {
		limit = 500
	}

	tx := s.db.View().Where("id > ?", fromID)
	if userID != "" {
		tx = tx.Where("user_id=?", userID)
	}

	if err := tx.Order("id ASC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
