package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
	"github.com/yiplee/structs"
)

const (
	// TransactionKeyCollateral collateral balance after the operation
	TransactionKeyCollateral = "collateral"
	// TransactionKeyDebt debt balance after the operation
	TransactionKeyDebt = "debt"
	// TransactionKeyMintAmount minted synthetic
	TransactionKeyMintAmount = "mint_amount"
	// TransactionKeyBurnAmount burned synthetic
	TransactionKeyBurnAmount = "burn_amount"
	// TransactionKeyHealthFactor health factor after the operation
	TransactionKeyHealthFactor = "health_factor"
	// TransactionKeyLiquidation liquidation result
	TransactionKeyLiquidation = "liquidation"
)

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	return make(TransactionExtraData)
}

// Put put data
func (t TransactionExtraData) Put(key string, value interface{}) {
	t[key] = value
}

// PutStruct put the exported fields of v under key, named by json tags
func (t TransactionExtraData) PutStruct(key string, v interface{}) {
	s := structs.New(v)
	s.TagName = "json"
	t[key] = s.Map()
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// Transaction committed engine operation
type Transaction struct {
	ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Action    ActionType      `sql:"size:32" json:"action,omitempty"`
	TraceID   string          `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	UserID    string          `sql:"size:36;index:idx_transactions_user_id" json:"user_id,omitempty"`
	AssetID   string          `sql:"size:64" json:"asset_id,omitempty"`
	Amount    decimal.Decimal `sql:"type:numeric(78,0)" json:"amount,omitempty"`
	Data      types.JSONText  `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
}

// SetExtraData set extra data
func (t *Transaction) SetExtraData(extra TransactionExtraData) {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	t.Data = data
}

// UnmarshalExtraData decode data into v
func (t *Transaction) UnmarshalExtraData(v interface{}) error {
	return json.Unmarshal(t.Data, v)
}

type traceKey struct{}

// WithTraceID attach the caller supplied trace id to ctx
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceIDFrom trace id attached to ctx, if any
func TraceIDFrom(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(traceKey{}).(string)
	return traceID, ok && traceID != ""
}
