package retry_notifications

// JobQueue ставит задачу планировщика в фоновое выполнение
type JobQueue interface {
	Enqueue(name string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
