package server

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/fabrikdev/econdag/pkg/errors"
)

// apiError is the JSON error body returned by all endpoints.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps structured error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeEmptyName, errors.ErrCodeBadInputID, errors.ErrCodeBadInputAmount,
		errors.ErrCodeInvalidProduct, errors.ErrCodeSelfLoop, errors.ErrCodeCycle,
		errors.ErrCodeUnknownInput, errors.ErrCodeMalformed, errors.ErrCodeInvalidOptions,
		errors.ErrCodeUnsupportedVersion:
		return http.StatusBadRequest
	case errors.ErrCodeUnknownNode, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeHasDependents:
		return http.StatusConflict
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), apiError{Code: string(code), Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readAllLimited(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// rngFromSeed builds a PCG source from an explicit seed, or from the clock
// when the seed is 0.
func rngFromSeed(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
