package hypr

import "fmt"

// Queries answered with a JSON document.
const (
	activeWindowQuery = "j/activewindow"
	monitorsQuery     = "j/monitors"
	clientsQuery      = "j/clients"
)

// Window rules applied to overlay surfaces, keyed by title so only surfaces
// the tool spawned are affected.
const (
	ruleNoFocus    = "nofocus"
	ruleFloat      = "float"
	ruleNoBorder   = "noborder"
	ruleNoRounding = "rounding 0"
)

func windowRuleCommand(rule, appID string) string {
	return fmt.Sprintf("/keyword windowrulev2 %s,title:%s", rule, appID)
}

func moveToWorkspaceCommand(workspaceID int, appID string) string {
	return fmt.Sprintf("/dispatch movetoworkspacesilent %d,title:%s", workspaceID, appID)
}

func moveWindowCommand(x, y int, appID string) string {
	return fmt.Sprintf("/dispatch movewindowpixel exact %d %d,title:%s", x, y, appID)
}
