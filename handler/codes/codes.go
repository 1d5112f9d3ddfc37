package codes

import (
	"errors"
	"strconv"

	"synth/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"

	// InvalidArguments invalid arguments
	InvalidArguments = 100001
)

// Get get error code
func Get(code twirp.ErrorCode) int {
	switch code {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(code)
	}
}

// From convert err into a twirp error, engine error codes are kept as custom code
func From(err error) twirp.Error {
	var twerr twirp.Error
	if errors.As(err, &twerr) {
		return twerr
	}

	code := core.CodeOf(err)
	if code == core.ErrUnknown {
		return twirp.InternalErrorWith(err)
	}

	var tc twirp.ErrorCode
	switch code.Category() {
	case core.ValidationError:
		tc = twirp.InvalidArgument
	case core.SafetyViolation, core.IneligibleAction:
		tc = twirp.FailedPrecondition
	case core.StalePriceError:
		tc = twirp.Unavailable
	case core.CollaboratorFailure:
		tc = twirp.Aborted
	case core.StorageError:
		tc = twirp.AlreadyExists
	default:
		tc = twirp.Internal
	}

	return twirp.NewError(tc, err.Error()).
		WithMeta(CustomCodeKey, code.String()).
		WithMeta("category", string(code.Category()))
}

// Custom custom code of twerr, falls back to Get
func Custom(twerr twirp.Error) int {
	if v := twerr.Meta(CustomCodeKey); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			return code
		}
	}

	return Get(twerr.Code())
}
