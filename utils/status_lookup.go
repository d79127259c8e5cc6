package utils

import (
	"strings"

	"procurify-api/models"
)

// Accepted spellings for each submission status. The admin UI has sent both
// the canonical values and the older review labels.
var submissionStatusSynonyms = map[models.SubmissionStatus][]string{
	models.SubmissionStatusPending: {
		"pending",
		"in_review",
		"under_review",
	},
	models.SubmissionStatusAccepted: {
		"accepted",
		"accept",
		"approved",
		"selected",
	},
	models.SubmissionStatusRejected: {
		"rejected",
		"reject",
		"declined",
		"not_selected",
	},
}

var submissionStatusAliases = buildStatusAliasMap()

func buildStatusAliasMap() map[string]models.SubmissionStatus {
	aliasMap := make(map[string]models.SubmissionStatus)
	for canonical, synonyms := range submissionStatusSynonyms {
		aliasMap[normalizeStatusCode(string(canonical))] = canonical
		for _, alias := range synonyms {
			if normalized := normalizeStatusCode(alias); normalized != "" {
				aliasMap[normalized] = canonical
			}
		}
	}
	return aliasMap
}

func normalizeStatusCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, "-", "_")
	return strings.ReplaceAll(code, " ", "_")
}

// ParseSubmissionStatus maps a user-supplied status onto its canonical value.
func ParseSubmissionStatus(raw string) (models.SubmissionStatus, bool) {
	status, ok := submissionStatusAliases[normalizeStatusCode(raw)]
	return status, ok
}
