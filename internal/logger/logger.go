package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер.
// По умолчанию пишем JSON, текстовый формат включается отдельно для development.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter переключает логи в текстовый формат (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// WithComponent возвращает entry с полем component для единообразной разметки логов.
func WithComponent(name string) *logrus.Entry {
	if Log == nil {
		Init("info")
	}
	return Log.WithField("component", name)
}
