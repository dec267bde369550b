package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxBodySize = 1 << 20

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a success envelope around data.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Response{Success: true, Data: data})
}

// WriteMessage writes a success envelope with only a message.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{Success: true, Message: message})
}

// WriteError writes a failure envelope.
func WriteError(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{Success: false, Message: message})
}

func write(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errBadRequest marks failures caused by the request body.
var errBadRequest = errors.New("bad request")

// decode reads a JSON body into dst and validates it when it can.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", errBadRequest)
		}
		return fmt.Errorf("%w: malformed JSON", errBadRequest)
	}

	if v, ok := dst.(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %s", errBadRequest, err.Error())
		}
	}

	return nil
}
