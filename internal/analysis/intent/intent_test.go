package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	greetingReply = "Hola! Soy el Dr. IA de TeleMed Pro. Como te sientes hoy? En que puedo ayudarte?"
	headacheReply = "Para el dolor de cabeza te recomiendo: Paracetamol 500mg cada 8 horas, Beber mucha agua, Descansar en un lugar oscuro. El dolor es intenso o moderado?"
	fallbackReply = "Entiendo tu consulta. Como asistente medico virtual, te recomiendo: 1. Describir tus sintomas con detalle, 2. Agendar una cita si persisten, 3. Consultar la seccion de Recetas. Hay algo especifico que te preocupe?"
)

func clinic(t *testing.T) *Responder {
	t.Helper()
	r, err := NewNamed(Clinic)
	require.NoError(t, err)
	return r
}

func TestRespondScenarios(t *testing.T) {
	r := clinic(t)

	assert.Equal(t, greetingReply, r.Respond("Hola doctor"))
	assert.Equal(t, headacheReply, r.Respond("me duele la cabeza"))
	assert.Equal(t, fallbackReply, r.Respond("xyz123 random text"))
}

func TestGreetingMatchesAnywhere(t *testing.T) {
	r := clinic(t)

	for _, msg := range []string{
		"hola",
		"HOLA",
		"doctor, hola, tengo una pregunta",
		"123 hola 456",
		"Buenas Noches doctor",
	} {
		assert.Equal(t, "greeting", r.Classify(msg).Rule, msg)
	}
}

func TestFirstMatchWins(t *testing.T) {
	r := clinic(t)

	// greeting is declared before gratitude
	assert.Equal(t, "greeting", r.Classify("gracias, hola").Rule)
	// symptom is declared before headache and fever
	assert.Equal(t, "symptom", r.Classify("tengo dolor de cabeza").Rule)
	assert.Equal(t, "symptom", r.Classify("tengo fiebre").Rule)
	assert.Equal(t, "gratitude", r.Classify("muchas gracias").Rule)
	assert.Equal(t, "farewell", r.Classify("adios").Rule)
	assert.Equal(t, "stomach", r.Classify("me duele el estomago").Rule)
	assert.Equal(t, "flu", r.Classify("tengo tos").Rule)
}

func TestSubstringCollisionsAreAccepted(t *testing.T) {
	r := clinic(t)

	// "hi" inside "hijo", "mal" inside "normal"
	assert.Equal(t, "greeting", r.Classify("mi hijo").Rule)
	assert.Equal(t, "symptom", r.Classify("todo normal").Rule)
}

func TestFallbackOnlyWhenNothingMatches(t *testing.T) {
	r := clinic(t)

	m := r.Classify("xyz123 random text")
	assert.False(t, m.Matched)
	assert.Equal(t, FallbackRule, m.Rule)

	for _, rule := range r.RuleSet().Rules {
		if rule.Matches("xyz123 random text") {
			t.Fatalf("rule %s unexpectedly matched", rule.Name)
		}
	}

	m = r.Classify("me siento excelente")
	assert.True(t, m.Matched)
	assert.NotEqual(t, fallbackReply, m.Response)
}

func TestRespondIsIdempotent(t *testing.T) {
	r := clinic(t)

	for _, msg := range []string{"Hola doctor", "me duele la cabeza", "xyz123 random text", "vomito"} {
		first := r.Respond(msg)
		second := r.Respond(msg)
		assert.Equal(t, first, second)
	}
}

func TestClinicOrder(t *testing.T) {
	r := clinic(t)

	var names []string
	for _, rule := range r.RuleSet().Rules {
		names = append(names, rule.Name)
	}
	assert.Equal(t, []string{
		"greeting", "positive", "symptom", "headache", "stomach", "flu", "fever", "gratitude", "farewell",
	}, names)
}

func TestTriageRules(t *testing.T) {
	r, err := NewNamed(Triage)
	require.NoError(t, err)

	assert.Equal(t, "emergency", r.Classify("hola, es una emergencia").Rule)
	assert.Equal(t, "emergency", r.Classify("tengo dolor de pecho").Rule)
	assert.Equal(t, "prescription", r.Classify("necesito ver mi receta").Rule)
	assert.Equal(t, "appointment", r.Classify("quiero agendar una cita").Rule)
	assert.Equal(t, headacheReply, r.Respond("me duele la cabeza"))
}

func TestLoadRuleSetUnknown(t *testing.T) {
	_, err := LoadRuleSet("pediatrics")
	require.ErrorIs(t, err, ErrUnknownRuleSet)
}

func TestRuleSetNames(t *testing.T) {
	assert.Equal(t, []string{Clinic, Triage}, RuleSetNames())
}

func TestParseCatalogRejectsBadPattern(t *testing.T) {
	_, err := parseCatalog([]byte(`
fallback: x
rules:
  - name: broken
    pattern: "("
    response: y
`))
	require.Error(t, err)
}

func TestAttachmentReply(t *testing.T) {
	assert.NotEmpty(t, AttachmentReply())
}
