package entity

import (
	"git.fiblab.net/sim/tldetector/clock"
	"git.fiblab.net/sim/tldetector/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	RouteManager() IRouteManager
	StopLineManager() IStopLineManager
	Vehicle() IVehicle
	RuntimeConfig() *config.RuntimeConfig
}
