// Package notify implementa el sumidero de notificaciones. En la versión de
// escritorio/servidor las notificaciones van al log estructurado; la capa de
// presentación puede inyectar su propia implementación (toasts).
package notify

import "github.com/rs/zerolog"

// LogNotifier implementa inventory.Notifier sobre zerolog.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notify").Logger()}
}

// Success registra una notificación de éxito.
func (n *LogNotifier) Success(msg string) { n.log.Info().Msg(msg) }

// Error registra una notificación de error para el usuario.
func (n *LogNotifier) Error(msg string) { n.log.Warn().Msg(msg) }
