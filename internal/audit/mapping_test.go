package audit

import "testing"

func TestParseRoute(t *testing.T) {
	tests := []struct {
		method string
		route  string
		want   ActionResource
	}{
		{"GET", "/v1/projects", ActionResource{Action: "list", Resource: "project"}},
		{"GET", "/v1/projects/:projectID", ActionResource{Action: "get", Resource: "project"}},
		{"POST", "/v1/projects", ActionResource{Action: "create", Resource: "project"}},
		{"PATCH", "/v1/projects/:projectID", ActionResource{Action: "update", Resource: "project"}},
		{"GET", "/v1/projects/:projectID/packages", ActionResource{Action: "list", Resource: "project"}},
		{"POST", "/v1/packages", ActionResource{Action: "create", Resource: "package"}},
		{"DELETE", "/v1/assets/:assetID", ActionResource{Action: "delete", Resource: "asset"}},
		{"GET", "/v1/audit-logs", ActionResource{Action: "list", Resource: "audit_log"}},
		{"GET", "/v1/unknown-things", ActionResource{Action: "list", Resource: "unknown"}},

		// overrides
		{"POST", "/v1/projects/:projectID/members", ActionResource{Action: "member_added", Resource: "project"}},
		{"DELETE", "/v1/packages/:packageID/members/:memberID", ActionResource{Action: "member_removed", Resource: "package"}},
		{"PATCH", "/v1/organizations/:orgID/members/:userID", ActionResource{Action: "role_changed", Resource: "organization"}},
		{"POST", "/v1/rounds/:roundID/close", ActionResource{Action: "round_closed", Resource: "evaluation_round"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.route, func(t *testing.T) {
			if got := ParseRoute(tt.method, tt.route); got != tt.want {
				t.Errorf("ParseRoute(%q, %q) = %+v, want %+v", tt.method, tt.route, got, tt.want)
			}
		})
	}
}
