package render

import (
	"encoding/json"
	"net/http"

	"synth/handler/codes"

	"github.com/sirupsen/logrus"
	"github.com/twitchtv/twirp"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		logrus.Errorln(err)
	}
}

// Error write error, status is derived from the twirp code of err
func Error(w http.ResponseWriter, err error) {
	twerr := codes.From(err)
	status := twirp.ServerHTTPStatusFromErrorCode(twerr.Code())

	resp := errorResponse{
		Code: codes.Custom(twerr),
		Msg:  twerr.Msg(),
	}

	if twerr.Code() == twirp.Internal {
		resp.Msg = http.StatusText(status)
		if ResponseErrorMessageAsHint {
			resp.Hint = twerr.Msg()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	if err := enc.Encode(resp); err != nil {
		logrus.Errorln(err)
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, twirp.NewError(twirp.InvalidArgument, err.Error()))
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, twirp.NotFoundError(err.Error()))
}
