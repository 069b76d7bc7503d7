package entity

// SubmitSymptomsRequest is the body of POST /symptom.
type SubmitSymptomsRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Symptoms string `json:"symptoms"`
}

// SubmitSymptomsResponse acknowledges session creation.
type SubmitSymptomsResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

// QuestionOption is one labeled option of a follow-up question as sent to
// the client.
type QuestionOption struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// QuestionMessage is a follow-up question frame on the duplex channel.
type QuestionMessage struct {
	Question string           `json:"question"`
	Options  []QuestionOption `json:"options"`
	Status   string           `json:"status"`
}

// NoticeMessage carries a terminal status notice on the duplex channel.
type NoticeMessage struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ErrorMessage is an inline error frame on the duplex channel.
type ErrorMessage struct {
	Error string `json:"error"`
}

// Wire status values.
const (
	StatusSymptomSubmitted  = "symptom_submitted"
	StatusWaitingForAnswer  = "waiting_for_answer"
	StatusReadyForDiagnosis = "ready_for_diagnosis"
)

// ResultFormat selects the rendered report format.
type ResultFormat string

const (
	FormatPDF      ResultFormat = "pdf"
	FormatMarkdown ResultFormat = "md"
	FormatDOCX     ResultFormat = "docx"
)
