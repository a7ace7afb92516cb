package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ParseID parses a positive numeric path identifier.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
