package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// MockChzzkServer creates a test server that mocks the Chzzk REST API endpoints the bot uses.
type MockChzzkServer struct {
	*httptest.Server
	Handlers map[string]http.HandlerFunc
}

// NewMockChzzkServer creates a new mock Chzzk API server.
func NewMockChzzkServer(t *testing.T) *MockChzzkServer {
	t.Helper()
	m := &MockChzzkServer{
		Handlers: make(map[string]http.HandlerFunc),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if handler, ok := m.Handlers[key]; ok {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(m.Close)
	return m
}

// MockLiveDetail adds a handler for the live-detail endpoint of a channel.
func (m *MockChzzkServer) MockLiveDetail(channelID, title, openDate string, viewers int) {
	m.Handlers["/service/v2/channels/"+channelID+"/live-detail"] = func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"code": 200,
			"content": map[string]interface{}{
				"liveTitle":           title,
				"status":              "OPEN",
				"concurrentUserCount": viewers,
				"openDate":            openDate,
				"chatChannelId":       "chat-" + channelID,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // test mock response
	}
}

// MockUserProfile adds a handler for the profile-card endpoint of a chat user.
// followDate may be empty to model a non-following user.
func (m *MockChzzkServer) MockUserProfile(chatChannelID, userIDHash, nickname, followDate string) {
	path := fmt.Sprintf("/nng_main/v1/chats/%s/users/%s/profile-card", chatChannelID, userIDHash)
	m.Handlers[path] = func(w http.ResponseWriter, r *http.Request) {
		content := map[string]interface{}{
			"userIdHash": userIDHash,
			"nickname":   nickname,
		}
		if followDate != "" {
			content["streamingProperty"] = map[string]interface{}{
				"following": map[string]interface{}{"followDate": followDate},
			}
		} else {
			content["streamingProperty"] = map[string]interface{}{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": 200, "content": content}) //nolint:errcheck // test mock response
	}
}

// MockAccessToken adds a handler for the chat access-token endpoint.
func (m *MockChzzkServer) MockAccessToken(token string) {
	m.Handlers["/nng_main/v1/chats/access-token"] = func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"code":    200,
			"content": map[string]interface{}{"accessToken": token},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // test mock response
	}
}

// MockStockServer creates a test server that mocks the data.go.kr stock price API.
type MockStockServer struct {
	*httptest.Server
	// Items returned for any query; empty means "no match".
	Items []map[string]string
	// LastQuery captures the query params of the most recent request.
	LastQuery map[string]string
	// Status overrides the HTTP status (default 200).
	Status int
}

// NewMockStockServer creates a new mock stock price API server.
func NewMockStockServer(t *testing.T) *MockStockServer {
	t.Helper()
	m := &MockStockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.LastQuery = map[string]string{}
		for k, v := range r.URL.Query() {
			if len(v) > 0 {
				m.LastQuery[k] = v[0]
			}
		}
		if m.Status != 0 && m.Status != http.StatusOK {
			w.WriteHeader(m.Status)
			return
		}
		items := make([]interface{}, 0, len(m.Items))
		for _, it := range m.Items {
			items = append(items, it)
		}
		response := map[string]interface{}{
			"response": map[string]interface{}{
				"body": map[string]interface{}{
					"items": map[string]interface{}{"item": items},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // test mock response
	}))
	t.Cleanup(m.Close)
	return m
}
