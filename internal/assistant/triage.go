package assistant

import "strings"

// Symptom is a recognized complaint together with the specialization that
// usually handles it.
type Symptom struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// symptomRules maps complaint keywords to a canonical symptom and the
// matching specialization. Matching is case-insensitive substring search,
// deliberately loose: this heuristic only proposes doctors, the completion
// text carries the actual guidance.
var symptomRules = []struct {
	keywords       []string
	name           string
	specialization string
}{
	{[]string{"chest pain", "palpitation", "heart", "shortness of breath"}, "chest pain", "Cardiology"},
	{[]string{"rash", "itch", "acne", "eczema", "skin"}, "skin irritation", "Dermatology"},
	{[]string{"headache", "migraine", "dizzy", "dizziness", "numbness", "seizure"}, "headache or dizziness", "Neurology"},
	{[]string{"cough", "wheez", "asthma", "breathing"}, "respiratory trouble", "Pulmonology"},
	{[]string{"stomach", "nausea", "vomit", "diarrhea", "abdominal", "heartburn"}, "digestive discomfort", "Gastroenterology"},
	{[]string{"joint", "back pain", "knee", "shoulder", "muscle", "sprain"}, "joint or muscle pain", "Orthopedics"},
	{[]string{"anxiety", "depress", "panic", "insomnia", "stress"}, "mental wellbeing", "Psychiatry"},
	{[]string{"eye", "vision", "blurry"}, "vision problem", "Ophthalmology"},
	{[]string{"ear", "hearing", "sinus", "sore throat"}, "ear, nose or throat issue", "Otolaryngology"},
	{[]string{"urin", "kidney", "bladder"}, "urinary issue", "Urology"},
	{[]string{"pregnan", "period", "menstrual"}, "reproductive health", "Gynecology"},
	{[]string{"fever", "cold", "flu", "fatigue", "chills"}, "general illness", "General Medicine"},
}

// ExtractSymptoms scans a patient message for known complaints. Results are
// deduplicated and keep rule order, so the most specific specializations
// come first.
func ExtractSymptoms(text string) []Symptom {
	lower := strings.ToLower(text)
	var out []Symptom
	for _, rule := range symptomRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				out = append(out, Symptom{Name: rule.name, Specialization: rule.specialization})
				break
			}
		}
	}
	return out
}

// Specializations returns the distinct specializations of the given
// symptoms, preserving order.
func Specializations(symptoms []Symptom) []string {
	seen := make(map[string]bool, len(symptoms))
	var out []string
	for _, s := range symptoms {
		if !seen[s.Specialization] {
			seen[s.Specialization] = true
			out = append(out, s.Specialization)
		}
	}
	return out
}

const systemPrompt = `You are a telehealth triage assistant. A patient will
describe symptoms in plain language. Respond with short, calm guidance:
possible common causes, sensible self-care, and when to seek urgent care.
You are not a doctor and must say so when giving anything close to medical
advice. Never prescribe medication. Keep answers under 150 words.`

// BuildPrompt assembles the completion request: the triage system prompt,
// the recent transcript (oldest first) and the new patient message.
func BuildPrompt(history []Message, userText string) []Message {
	out := make([]Message, 0, len(history)+2)
	out = append(out, Message{Role: "system", Content: systemPrompt})
	out = append(out, history...)
	out = append(out, Message{Role: "user", Content: userText})
	return out
}
