package consult

import (
	"github.com/medlane/prediag-backend/internal/entity"
)

// toQuestionMessage renders a structured question as the wire frame, with
// options in the fixed A..D order.
func toQuestionMessage(q *entity.StructuredQuestion) *entity.QuestionMessage {
	opts := q.Options()

	msg := &entity.QuestionMessage{
		Question: q.Question,
		Options:  make([]entity.QuestionOption, 0, len(opts)),
		Status:   entity.StatusWaitingForAnswer,
	}
	for _, key := range entity.OptionKeys {
		if value, ok := opts[key]; ok {
			msg.Options = append(msg.Options, entity.QuestionOption{Key: key, Value: value})
		}
	}
	return msg
}

func readyNotice(forced bool) *entity.NoticeMessage {
	message := "Diagnosis is ready"
	if forced {
		message = "Reached max questions, moving to diagnosis."
	}
	return &entity.NoticeMessage{
		Message: message,
		Status:  entity.StatusReadyForDiagnosis,
	}
}
