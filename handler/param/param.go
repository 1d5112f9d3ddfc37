package param

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.SetAliasTag("json")
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return reflect.Value{}
		}

		return reflect.ValueOf(d)
	})
}

// Binding decode the query string, and the json body if there is one, into v then validate it
func Binding(r *http.Request, v interface{}) error {
	if err := decoder.Decode(v, r.URL.Query()); err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	if r.Body != nil && r.ContentLength != 0 && isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return fmt.Errorf("invalid body: %w", err)
		}
	}

	if _, err := govalidator.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// String url param, falls back to the query string
func String(r *http.Request, key string) string {
	if v := chi.URLParam(r, key); v != "" {
		return v
	}

	return r.URL.Query().Get(key)
}

func isJSON(r *http.Request) bool {
	typ := r.Header.Get("Content-Type")
	return typ == "" || strings.HasPrefix(typ, "application/json")
}
