package diagnosis

import (
	"fmt"
	"strings"

	"github.com/medlane/prediag-backend/internal/entity"
)

// Prompt templates are kept as data here so the generation backend can be
// swapped or mocked without touching the consultation flow.

const followupPromptTemplate = `You are a top medical diagnosis expert. Your primary goal is to efficiently gather just enough information from the patient to form a likely diagnosis or differential diagnoses. Avoid asking unnecessary or repetitive questions.

Patient is a %d-year-old %s with initial symptoms: %s.
Here is the complete conversation history so far, showing the progression of information gathering:
%s

Evaluate the conversation history above. Have you gathered sufficient *essential and differentiating* information to reasonably proceed towards a diagnosis? Consider the initial symptoms and the depth of detail provided in the answers.

IF you have gathered sufficient essential information to proceed towards a diagnosis:
    Reply ONLY with the exact string: "Ready for diagnosis"
ELSE (you still need ONE more piece of critical information):
    Ask ONE next follow-up question that is:
    - An MCQ (multiple choice) style
    - Highly relevant to the *most recent turn* and the overall goal of diagnosis.
    - Dives deeper medically to gather crucial differentiating information not yet covered.
    - Avoid repeating questions or asking about obvious information.

Your follow-up question answer format MUST be valid JSON like this, starting immediately with the JSON object:
{
"Question":"",
"A":"option a",
"B":"option b",
"C":"option c",
"D":"option d"
}

Do NOT include any extra words, markdown formatting (like ` + "```json" + `), or explanations before or after your response, UNLESS you are returning "Ready for diagnosis".`

const extractionPromptTemplate = `You are a medical expert. Extract only medical symptoms from this sentence:
"%s".
Return ONLY a JSON array of symptom strings, like ["headache", "fever"].`

const mappingPromptTemplate = `You are a highly experienced medical diagnosis doctor.

Patient:
- Age: %d
- Gender: %s

Symptoms: %s

Chat History:
%s

Based on all the above, list the top 3 most likely medical conditions or diseases this patient may have. For each, provide:
- Condition name
- One-line reasoning (based on symptoms + answers)
- Urgency level: (Low / Moderate / High)

Make sure your answer is formatted clearly.`

const reportPromptTemplate = `You are a senior medical AI assistant generating patient reports from consultations.

### Sample Output Format:
Age: 35 Years
Gender: Woman
Recommendation:
Consult a physician soon. If symptoms worsen, seek emergency care.
Urgency: Moderate

Relevant findings:
- Hours since the onset of symptoms: 48
- Headache and sore throat

Reason for consultation:
Feeling unwell with headache, sore throat and mild fever

Main symptoms:
- Headache
- Sore throat
- Mild fever
- No nausea
- Occasional coughing

Diseases (Match Levels):
- Strep throat: Moderate match
- Flu: Low match
- Sinus infection: Very low match

Relevant diseases advice:
**Strep throat (Moderate match)**
- Pre-hospital care recommendations:
  - Take acetaminophen for fever
  - Gargle with warm salt water
- Symptoms to watch out for:
  - Severe throat pain
  - High fever
  - Difficulty swallowing
- Self-care:
  - Rest well
  - Avoid sharing utensils

**Flu (Low match)**
- Self-care:
  - Stay hydrated
  - Use nasal decongestants

**Medication Suggestions:**
- Acetaminophen (500mg every 6 hrs for fever)
- Cetirizine (for runny nose/allergies)
- Warm saline gargle

***This is just a sample***
---

### Now Generate a Report for This Case:

Age: %d Years
Gender: %s
Symptoms: %s

Chat History:
%s

Diseases (Match Levels):
%s

For each disease, give:
- Pre-hospital care
- Symptoms to watch out for
- Self-care tips
- Medication suggestions (OTC preferred if possible; educational only, not a prescription)

Keep language medically sound but easy to understand. End with a clear urgency level and recommendation.
The output will be converted to a document, so use plain text formatting only.`

func followupPrompt(c *entity.Consultation) string {
	return fmt.Sprintf(followupPromptTemplate,
		c.Age, strings.ToLower(c.Gender), strings.Join(c.Symptoms, ", "), renderHistory(c.ChatHistory))
}

func extractionPrompt(text string) string {
	return fmt.Sprintf(extractionPromptTemplate, text)
}

func mappingPrompt(c *entity.Consultation) string {
	return fmt.Sprintf(mappingPromptTemplate,
		c.Age, c.Gender, strings.Join(c.Symptoms, ", "), renderHistory(c.ChatHistory))
}

func reportPrompt(c *entity.Consultation, mappedDiseases string) string {
	return fmt.Sprintf(reportPromptTemplate,
		c.Age, c.Gender, strings.Join(c.Symptoms, ", "), renderHistory(c.ChatHistory), mappedDiseases)
}

// renderHistory formats the transcript as numbered Q/A pairs. Unanswered
// questions and free-standing answers render on their own line.
func renderHistory(history []entity.ChatTurn) string {
	if len(history) == 0 {
		return "(no conversation yet)"
	}

	var b strings.Builder
	n := 0
	for _, turn := range history {
		switch turn.Role {
		case entity.RoleBot:
			n++
			fmt.Fprintf(&b, "%d. Q: %s\n", n, turn.Text)
		case entity.RoleUser:
			fmt.Fprintf(&b, "   A: %s\n", turn.Text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
