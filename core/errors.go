package core

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000

	// ErrAssetsAndFeedsLengthMismatch asset list and price feed list have different lengths
	ErrAssetsAndFeedsLengthMismatch ErrorCode = 100100
	// ErrInvalidConfig invalid config
	ErrInvalidConfig ErrorCode = 100101

	// ErrNeedsMoreThanZero amount must be positive
	ErrNeedsMoreThanZero ErrorCode = 100200
	// ErrUnsupportedAsset asset not allowed as collateral
	ErrUnsupportedAsset ErrorCode = 100201
	// ErrInsufficientCollateral collateral balance lower than requested
	ErrInsufficientCollateral ErrorCode = 100202
	// ErrInsufficientDebt debt balance lower than requested
	ErrInsufficientDebt ErrorCode = 100203
	// ErrInvalidAmount amount is not an integer of smallest units
	ErrInvalidAmount ErrorCode = 100204
	// ErrInvalidUser empty user id
	ErrInvalidUser ErrorCode = 100205

	// ErrBreaksHealthFactor health factor below minimum after operation
	ErrBreaksHealthFactor ErrorCode = 100300
	// ErrHealthFactorNotImproved liquidation did not improve the target
	ErrHealthFactorNotImproved ErrorCode = 100301
	// ErrReentrantCall mutating call on an account whose operation is in flight
	ErrReentrantCall ErrorCode = 100302

	// ErrHealthFactorOk target is healthy and can not be liquidated
	ErrHealthFactorOk ErrorCode = 100400

	// ErrStalePrice oracle data older than the timeout
	ErrStalePrice ErrorCode = 100500
	// ErrInvalidPrice oracle answer not positive
	ErrInvalidPrice ErrorCode = 100501

	// ErrTransferFailed asset ledger reported transfer failure
	ErrTransferFailed ErrorCode = 100600
	// ErrMintFailed synthetic token refused to mint
	ErrMintFailed ErrorCode = 100601
	// ErrNotOwner caller is not the token owner
	ErrNotOwner ErrorCode = 100602
	// ErrBurnAmountExceedsBalance burn more than owned
	ErrBurnAmountExceedsBalance ErrorCode = 100603
	// ErrInsufficientBalance token balance too low
	ErrInsufficientBalance ErrorCode = 100604
	// ErrInsufficientAllowance allowance too low
	ErrInsufficientAllowance ErrorCode = 100605

	// ErrDuplicateTrace trace id already committed
	ErrDuplicateTrace ErrorCode = 100700
)

// ErrorCategory groups error codes by how the caller should react
type ErrorCategory string

const (
	ConfigurationError  ErrorCategory = "configuration"
	ValidationError     ErrorCategory = "validation"
	SafetyViolation     ErrorCategory = "safety_violation"
	IneligibleAction    ErrorCategory = "ineligible_action"
	StalePriceError     ErrorCategory = "stale_price"
	CollaboratorFailure ErrorCategory = "collaborator_failure"
	StorageError        ErrorCategory = "storage"
	UnknownError        ErrorCategory = "unknown"
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return e.String()
}

// Category error category
func (e ErrorCode) Category() ErrorCategory {
	switch int(e) / 100 {
	case 1001:
		return ConfigurationError
	case 1002:
		return ValidationError
	case 1003:
		return SafetyViolation
	case 1004:
		return IneligibleAction
	case 1005:
		return StalePriceError
	case 1006:
		return CollaboratorFailure
	case 1007:
		return StorageError
	default:
		return UnknownError
	}
}

var errorMessages = map[ErrorCode]string{
	ErrUnknown:                      "unknown error",
	ErrAssetsAndFeedsLengthMismatch: "token addresses and price feed addresses must be the same length",
	ErrInvalidConfig:                "invalid config",
	ErrNeedsMoreThanZero:            "needs more than zero",
	ErrUnsupportedAsset:             "unsupported asset",
	ErrInsufficientCollateral:       "insufficient collateral",
	ErrInsufficientDebt:             "insufficient debt",
	ErrInvalidAmount:                "invalid amount",
	ErrInvalidUser:                  "invalid user",
	ErrBreaksHealthFactor:           "breaks health factor",
	ErrHealthFactorNotImproved:      "health factor not improved",
	ErrReentrantCall:                "reentrant call",
	ErrHealthFactorOk:               "health factor ok",
	ErrStalePrice:                   "stale price",
	ErrInvalidPrice:                 "invalid price",
	ErrTransferFailed:               "transfer failed",
	ErrMintFailed:                   "mint failed",
	ErrNotOwner:                     "caller is not the owner",
	ErrBurnAmountExceedsBalance:     "burn amount exceeds balance",
	ErrInsufficientBalance:          "insufficient balance",
	ErrInsufficientAllowance:        "insufficient allowance",
	ErrDuplicateTrace:               "duplicate trace id",
}

// HealthFactorError reports the factor an operation would have left behind
type HealthFactorError struct {
	UserID       string
	HealthFactor decimal.Decimal
}

func (e *HealthFactorError) Error() string {
	return fmt.Sprintf("%s: user %s health factor %s", ErrBreaksHealthFactor.Error(), e.UserID, e.HealthFactor)
}

func (e *HealthFactorError) Unwrap() error {
	return ErrBreaksHealthFactor
}

// CodeOf returns the ErrorCode carried by err, or ErrUnknown
func CodeOf(err error) ErrorCode {
	if err == nil {
		return 0
	}

	for err != nil {
		if code, ok := err.(ErrorCode); ok {
			return code
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}

	return ErrUnknown
}
