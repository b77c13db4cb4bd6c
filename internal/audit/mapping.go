package audit

import "strings"

// ActionResource holds action and resource derived from an HTTP method and
// registered route pattern.
type ActionResource struct {
	Action   string
	Resource string
}

// Membership and round route overrides: audited with domain verbs instead of
// the generic create/delete.
var routeOverrides = map[string]ActionResource{
	"POST /v1/projects/:projectID/members":             {Action: "member_added", Resource: "project"},
	"DELETE /v1/projects/:projectID/members/:memberID": {Action: "member_removed", Resource: "project"},
	"POST /v1/packages/:packageID/members":             {Action: "member_added", Resource: "package"},
	"DELETE /v1/packages/:packageID/members/:memberID": {Action: "member_removed", Resource: "package"},
	"POST /v1/organizations/:orgID/members":            {Action: "member_added", Resource: "organization"},
	"DELETE /v1/organizations/:orgID/members/:userID":  {Action: "member_removed", Resource: "organization"},
	"PATCH /v1/organizations/:orgID/members/:userID":   {Action: "role_changed", Resource: "organization"},
	"POST /v1/rounds/:roundID/close":                   {Action: "round_closed", Resource: "evaluation_round"},
	"POST /v1/invites/reconcile":                       {Action: "invites_reconciled", Resource: "project"},
}

// resourceSegments maps the first path segment under /v1 to a resource name.
var resourceSegments = map[string]string{
	"organizations": "organization",
	"projects":      "project",
	"packages":      "package",
	"assets":        "asset",
	"rounds":        "evaluation_round",
	"audit-logs":    "audit_log",
}

// ParseRoute returns action and resource for an HTTP method plus the
// registered route pattern (e.g. PATCH /v1/projects/:projectID).
// Action is get, list, create, update, or delete; overrides above map
// membership and round mutations to domain verbs.
func ParseRoute(method, route string) ActionResource {
	if ar, ok := routeOverrides[method+" "+route]; ok {
		return ar
	}

	resource := "unknown"
	trimmed := strings.TrimPrefix(route, "/v1/")
	if seg, _, _ := strings.Cut(trimmed, "/"); seg != "" {
		if r, ok := resourceSegments[seg]; ok {
			resource = r
		}
	}

	var action string
	switch method {
	case "GET":
		// GET on a collection is a list; GET on a parameterised leaf is a get.
		if strings.HasSuffix(route, "s") || !strings.Contains(route, ":") {
			action = "list"
		} else {
			action = "get"
		}
	case "POST":
		action = "create"
	case "PATCH", "PUT":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = strings.ToLower(method)
	}
	return ActionResource{Action: action, Resource: resource}
}
