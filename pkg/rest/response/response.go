package response

import (
	"encoding/json"
	"net/http"

	"github.com/vitistack/dnsmasq-hosts/pkg/rest"
)

// Message is the body of a successful mutation
type Message struct {
	Message string `json:"message"`
}

// Data wraps a successful read
type Data[T any] struct {
	Data T `json:"data"`
}

func JSON(w http.ResponseWriter, responseCode int, data any) error {
	w.Header().Set("Content-Type", rest.ContentTypeJSON)
	w.WriteHeader(responseCode)
	return json.NewEncoder(w).Encode(data)
}

func Msg(w http.ResponseWriter, responseCode int, msg string) error {
	return JSON(w, responseCode, Message{Message: msg})
}
