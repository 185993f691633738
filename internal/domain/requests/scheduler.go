package requests

import "time"

// Scheduler abstrae la ejecución diferida de la resolución para poder
// testearla sin esperar tiempo real.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler es la implementación de producción sobre time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
