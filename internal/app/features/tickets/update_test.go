package tickets

import (
	"encoding/json"
	"testing"
)

func decodeUpdate(t *testing.T, body string) updateTicketRequest {
	t.Helper()
	var req updateTicketRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
	return req
}

func TestUpdateRequest_StatusOnly(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"only status", `{"status":"CLOSED"}`, true},
		{"status plus title", `{"status":"CLOSED","title":"New"}`, false},
		{"status plus empty developers", `{"status":"CLOSED","developers":[]}`, false},
		{"status plus description", `{"status":"OPEN","description":"d"}`, false},
		{"full update", `{"title":"T","priority":"LOW","type":"BUG","status":"OPEN"}`, false},
		{"empty body", `{}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := decodeUpdate(t, tc.body)
			if got := req.statusOnly(); got != tc.want {
				t.Errorf("statusOnly(%s) = %v, want %v", tc.body, got, tc.want)
			}
		})
	}
}

func TestUpdateRequest_NullStatusIsNotStatusOnly(t *testing.T) {
	// JSON null decodes to a nil pointer, same as an absent field.
	req := decodeUpdate(t, `{"status":null}`)
	if req.statusOnly() {
		t.Error("explicit null status must not select the status-only path")
	}
}
