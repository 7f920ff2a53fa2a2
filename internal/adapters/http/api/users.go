package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/devdash/internal/domain/model"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 100 << 10

type usersResponse struct {
	Users []model.User `json:"users"`
}

// UsersHandler handles the simulated user endpoints.
type UsersHandler struct {
	deps Dependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps Dependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

// HandleListUsers handles GET /api/users requests.
func (h *UsersHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.deps.ListUsers(r.Context())
	if err != nil {
		w.WriteHeader(statusClientClosed)
		return
	}
	writeJSON(w, http.StatusOK, usersResponse{Users: users})
}

// HandleCreateUser handles POST /api/users requests.
func (h *UsersHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(http.MaxBytesReader(w, r.Body, maxBodyBytes), r.Header.Get("Content-Type"))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.deps.CreateUser(r.Context(), fields)
	if err != nil {
		w.WriteHeader(statusClientClosed)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// readFields returns the body fields of a JSON request. Bodies of any other
// media type are not read and carry no fields.
func readFields(body io.Reader, contentType string) (map[string]any, error) {
	if !isJSON(contentType) {
		return map[string]any{}, nil
	}
	return decodeObject(body)
}

// isJSON reports whether contentType is application/json or a +json type.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// decodeObject reads a JSON object or array; an empty body is an empty
// object. Array elements are keyed by their index.
func decodeObject(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: unexpected data after JSON value", ErrBadRequest)
	}

	switch t := v.(type) {
	case map[string]any:
		return t, nil
	case []any:
		fields := make(map[string]any, len(t))
		for i, el := range t {
			fields[strconv.Itoa(i)] = el
		}
		return fields, nil
	default:
		return nil, fmt.Errorf("%w: body must be a JSON object or array", ErrBadRequest)
	}
}
