package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultPort      = "8081"
	defaultAPIKey    = "registry-api-secret-key"
	defaultLatencyMs = "50"
)

// Citizen IDs with these prefixes let e2e tests drive failure paths.
const (
	outagePrefix = "9999" // always 503
	slowPrefix   = "8888" // sleeps past the client call timeout
)

// alreadyRegistered is the status the national registry answers when the
// citizen belongs to another operator.
const alreadyRegistered = http.StatusNotImplemented

type RegisterRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	Email        string `json:"email"`
	OperatorID   string `json:"operatorId"`
	OperatorName string `json:"operatorName"`
}

type DeregisterRequest struct {
	ID           string `json:"id"`
	OperatorID   string `json:"operatorId"`
	OperatorName string `json:"operatorName"`
}

type registry struct {
	mu        sync.Mutex
	operators map[string]string // citizen -> operator
}

var (
	apiKey    = getEnv("API_KEY", defaultAPIKey)
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
	slowDelay = time.Duration(getEnvInt("SLOW_DELAY_MS", "15000")) * time.Millisecond
)

func main() {
	port := getEnv("PORT", defaultPort)
	reg := &registry{operators: make(map[string]string)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /apis/validateCitizen/{id}", reg.guard(reg.handleValidate))
	mux.HandleFunc("POST /apis/registerCitizen", reg.guard(reg.handleRegister))
	mux.HandleFunc("DELETE /apis/unregisterCitizen", reg.guard(reg.handleDeregister))

	log.Printf("mock registry API starting on port %s (latency %dms)", port, latencyMs)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "healthy")
}

// guard applies latency, the API key check and the magic failure IDs.
func (reg *registry) guard(next func(w http.ResponseWriter, r *http.Request, citizenID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(latencyMs) * time.Millisecond)
		log.Printf("%s %s", r.Method, r.URL.Path)

		if r.Header.Get("X-API-Key") != apiKey {
			writeText(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		citizenID := r.PathValue("id")
		if citizenID == "" {
			var body struct {
				ID string `json:"id"`
			}
			raw, err := readBody(r)
			if err != nil || json.Unmarshal(raw, &body) != nil || body.ID == "" {
				writeText(w, http.StatusBadRequest, "id is required")
				return
			}
			citizenID = body.ID
			r.Body = newBody(raw)
		}

		switch {
		case strings.HasPrefix(citizenID, outagePrefix):
			writeText(w, http.StatusServiceUnavailable, "registry under maintenance")
			return
		case strings.HasPrefix(citizenID, slowPrefix):
			select {
			case <-time.After(slowDelay):
			case <-r.Context().Done():
				return
			}
		}
		next(w, r, citizenID)
	}
}

func (reg *registry) handleValidate(w http.ResponseWriter, _ *http.Request, citizenID string) {
	reg.mu.Lock()
	operator, taken := reg.operators[citizenID]
	reg.mu.Unlock()

	if taken {
		writeText(w, alreadyRegistered, "citizen already registered with operator "+operator)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (reg *registry) handleRegister(w http.ResponseWriter, r *http.Request, citizenID string) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeText(w, http.StatusBadRequest, "name is required")
		return
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if operator, taken := reg.operators[citizenID]; taken {
		writeText(w, alreadyRegistered, "citizen already registered with operator "+operator)
		return
	}
	reg.operators[citizenID] = req.OperatorID
	writeText(w, http.StatusCreated, "citizen "+citizenID+" registered")
}

func (reg *registry) handleDeregister(w http.ResponseWriter, r *http.Request, citizenID string) {
	var req DeregisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "invalid body")
		return
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	operator, ok := reg.operators[citizenID]
	switch {
	case !ok:
		writeText(w, http.StatusNotFound, "citizen not registered")
	case operator != req.OperatorID:
		writeText(w, http.StatusForbidden, "citizen belongs to operator "+operator)
	default:
		delete(reg.operators, citizenID)
		writeText(w, http.StatusNoContent, "")
	}
}

func writeText(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if message != "" {
		_, _ = w.Write([]byte(message))
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}
