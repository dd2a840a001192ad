package service

import (
	"rollcall-backend/internal/model"
)

// Danger thresholds for the survey classification.
const (
	dangerThreshold  = 2
	cautionThreshold = 1
)

// ComputeResult walks the active questions in catalog order, counts
// matched danger options and freezes a snapshot of every given answer.
// Pure: the same answers against the same catalog always produce the
// same classification and the same snapshot, which re-survey relies on.
//
// Classification counts instead of short-circuiting on the first danger
// answer, so a single flagged answer yields CAUTION rather than DANGER.
func ComputeResult(answers map[uint]string, questions []model.Question) (string, model.AnswerEntries) {
	dangerCount := 0
	snapshot := make(model.AnswerEntries, 0, len(questions))

	for _, q := range questions {
		value, ok := answers[q.ID]
		if !ok || value == "" {
			continue
		}

		entry := model.AnswerEntry{
			QuestionID:   q.ID,
			QuestionText: q.QuestionText,
			AnswerValue:  value,
			AnswerLabel:  value,
		}
		// Unmatched raw values are snapshotted as-is and never count as
		// dangerous.
		if opt, found := q.OptionForValue(value); found {
			entry.AnswerLabel = opt.Label
			entry.IsDanger = opt.IsDanger
			if opt.IsDanger {
				dangerCount++
			}
		}
		snapshot = append(snapshot, entry)
	}

	switch {
	case dangerCount >= dangerThreshold:
		return model.ResultDanger, snapshot
	case dangerCount >= cautionThreshold:
		return model.ResultCaution, snapshot
	default:
		return model.ResultNormal, snapshot
	}
}
