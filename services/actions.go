package services

import "github.com/polldesk/survey-server/models"

// SurveyAction is one operation a client may offer for a survey in its
// current lifecycle status.
type SurveyAction struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

var (
	actionActivate = SurveyAction{Name: "active", Label: "Activate survey"}
	actionClose    = SurveyAction{Name: "close", Label: "Close survey"}
	actionDelete   = SurveyAction{Name: "delete", Label: "Delete survey"}
	actionGetStat  = SurveyAction{Name: "get_stat", Label: "View statistics"}
)

var statusActions = map[string][]SurveyAction{
	models.SurveyStatusDraft:    {actionActivate, actionDelete},
	models.SurveyStatusActive:   {actionClose, actionGetStat, actionDelete},
	models.SurveyStatusClosed:   {actionDelete, actionGetStat},
	models.SurveyStatusArchived: {actionGetStat},
}

// ActionsForStatus maps a survey status to its permitted actions. The
// mapping depends on nothing but the status.
func ActionsForStatus(status string) []SurveyAction {
	actions, ok := statusActions[status]
	if !ok {
		return []SurveyAction{}
	}
	return actions
}
