package ai

import (
	"fmt"
	"strings"

	"github.com/telemedpro/telemed/backend/internal/model/doctor"
)

// PromptTemplate 描述某个专科的提示词模板。
type PromptTemplate struct {
	SystemPrompt string
	StyleHints   []string
	SafetyRules  []string
}

// DoctorPromptManager builds system prompts per specialty.
type DoctorPromptManager struct {
	templates map[string]*PromptTemplate
}

// NewDoctorPromptManager 创建带默认模板的管理器。
func NewDoctorPromptManager() *DoctorPromptManager {
	pm := &DoctorPromptManager{templates: make(map[string]*PromptTemplate)}
	pm.loadDefaultTemplates()
	return pm
}

// Template returns the template registered for a specialty.
func (pm *DoctorPromptManager) Template(specialty string) (*PromptTemplate, bool) {
	tpl, ok := pm.templates[specialty]
	return tpl, ok
}

// BuildSystemPrompt renders the system prompt for doc. hint is a canned
// answer from the rule table the model may adapt.
func (pm *DoctorPromptManager) BuildSystemPrompt(doc doctor.Doctor, hint string) string {
	tpl, ok := pm.Template(doc.Specialty)
	if !ok {
		tpl = pm.templates[""]
	}

	var b strings.Builder
	b.WriteString(tpl.SystemPrompt)
	fmt.Fprintf(&b, "\n\nTu identidad:\n- Nombre: %s\n- Cargo: %s\n- Especialidad: %s\n", doc.Name, doc.Title, doc.Specialty)
	if doc.Tone != "" {
		fmt.Fprintf(&b, "- Tono: %s\n", doc.Tone)
	}
	if doc.PromptHint != "" {
		fmt.Fprintf(&b, "- Indicación: %s\n", doc.PromptHint)
	}
	if len(tpl.StyleHints) > 0 {
		b.WriteString("\nEstilo:\n- ")
		b.WriteString(strings.Join(tpl.StyleHints, "\n- "))
		b.WriteString("\n")
	}
	b.WriteString("\nReglas de seguridad:\n- ")
	b.WriteString(strings.Join(pm.templates[""].SafetyRules, "\n- "))
	if len(tpl.SafetyRules) > 0 && tpl != pm.templates[""] {
		b.WriteString("\n- ")
		b.WriteString(strings.Join(tpl.SafetyRules, "\n- "))
	}
	if hint = strings.TrimSpace(hint); hint != "" {
		fmt.Fprintf(&b, "\n\nRespuesta de referencia para este mensaje: %q. Puedes adaptarla, pero no la contradigas.", hint)
	}
	return b.String()
}

func (pm *DoctorPromptManager) loadDefaultTemplates() {
	// 通用模板，同时承载所有专科共用的安全规则。
	pm.templates[""] = &PromptTemplate{
		SystemPrompt: "Eres un asistente médico de TeleMed Pro que conversa con pacientes por chat en español.",
		StyleHints: []string{
			"Responde en dos o tres frases cortas",
			"Usa un lenguaje sencillo y cercano",
		},
		SafetyRules: []string{
			"No des diagnósticos definitivos ni indiques dosis nuevas",
			"Ante dolor de pecho, dificultad para respirar o pérdida de conciencia, indica llamar al 131 de inmediato",
			"Sugiere agendar una cita cuando los síntomas persistan",
		},
	}

	pm.templates["Medicina General"] = &PromptTemplate{
		SystemPrompt: "Eres médico general en TeleMed Pro. Orientas sobre síntomas comunes y derivas al especialista adecuado.",
		StyleHints: []string{
			"Pregunta por la duración e intensidad de los síntomas",
			"Recomienda reposo e hidratación cuando corresponda",
		},
	}

	pm.templates["Cardiología"] = &PromptTemplate{
		SystemPrompt: "Eres cardiólogo en TeleMed Pro. Acompañas a pacientes con hipertensión y otras afecciones cardiovasculares.",
		StyleHints: []string{
			"Pregunta por la presión arterial y el pulso si el paciente los conoce",
		},
		SafetyRules: []string{
			"Cualquier dolor torácico se trata como emergencia",
		},
	}

	pm.templates["Pediatría"] = &PromptTemplate{
		SystemPrompt: "Eres pediatra en TeleMed Pro. Hablas con madres, padres y cuidadores sobre la salud de niños.",
		StyleHints: []string{
			"Pregunta la edad y el peso del niño",
		},
		SafetyRules: []string{
			"Fiebre en menores de tres meses requiere atención presencial urgente",
		},
	}

	pm.templates["Dermatología"] = &PromptTemplate{
		SystemPrompt: "Eres dermatólogo en TeleMed Pro. Orientas sobre lesiones y molestias de la piel.",
		StyleHints: []string{
			"Invita a adjuntar una foto de la lesión",
		},
	}

	pm.templates["Psiquiatría"] = &PromptTemplate{
		SystemPrompt: "Eres psiquiatra en TeleMed Pro. Escuchas con empatía y sin juzgar.",
		StyleHints: []string{
			"Valida las emociones del paciente antes de orientar",
		},
		SafetyRules: []string{
			"Si el paciente menciona hacerse daño, indica llamar al 131 o acudir a urgencias",
		},
	}

	pm.templates["Traumatología"] = &PromptTemplate{
		SystemPrompt: "Eres traumatólogo en TeleMed Pro. Orientas sobre golpes, esguinces y dolores musculares.",
		StyleHints: []string{
			"Pregunta cómo ocurrió la lesión y si hay inflamación",
		},
	}
}
