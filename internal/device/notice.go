package device

import (
	"errors"
	"sync"
)

// Notice is a dismissible message shown to the user.
type Notice struct {
	Capability Capability `json:"capability"`
	Message    string     `json:"message"`
}

var deniedMessages = map[Capability]string{
	Camera:       "Necesitamos acceso a la camara para continuar.",
	PhotoLibrary: "Necesitamos acceso a tus fotos para adjuntar imagenes.",
	Documents:    "Necesitamos acceso a tus archivos para adjuntar documentos.",
	Location:     "No pudimos obtener tu ubicacion. Se usara la direccion de tu perfil.",
	Audio:        "No se pudo reproducir el sonido de alerta.",
	Telephony:    "No se pudo iniciar la llamada.",
	Vibration:    "La vibracion no esta disponible.",
}

// Notices hands out at most one permission notice per capability.
// Denials are not retried; later denials of the same capability stay silent.
type Notices struct {
	mu    sync.Mutex
	shown map[Capability]bool
}

// NewNotices returns an empty tracker.
func NewNotices() *Notices {
	return &Notices{shown: make(map[Capability]bool)}
}

// For returns the notice for err when err is a first-time permission denial.
func (n *Notices) For(err error) *Notice {
	var denied *DeniedError
	if !errors.As(err, &denied) {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.shown[denied.Capability] {
		return nil
	}
	n.shown[denied.Capability] = true
	return &Notice{Capability: denied.Capability, Message: deniedMessages[denied.Capability]}
}

// Reset forgets a capability so its next denial is announced again,
// e.g. after the user changes the permission in settings.
func (n *Notices) Reset(c Capability) {
	n.mu.Lock()
	delete(n.shown, c)
	n.mu.Unlock()
}
