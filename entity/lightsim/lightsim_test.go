package lightsim

import (
	"testing"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/stretchr/testify/assert"

	"git.fiblab.net/sim/tldetector/utils/config"
)

func newSim(lines []config.StopLine) *LightSim {
	l := &LightSim{}
	l.Init(lines)
	return l
}

func snapshotAll(l *LightSim) {
	for _, p := range l.programs {
		if p != nil {
			p.snapshot = p.runtime
		}
	}
}

func TestPhaseAdvance(t *testing.T) {
	l := newSim([]config.StopLine{{
		Program: []config.Phase{
			{State: "red", Duration: 10},
			{State: "green", Duration: 5},
		},
	}})
	snapshotAll(l)
	assert.Equal(t, []mapv2.LightState{mapv2.LightState_LIGHT_STATE_RED}, l.States())

	for i := 0; i < 10; i++ {
		l.Update(1)
	}
	snapshotAll(l)
	assert.Equal(t, []mapv2.LightState{mapv2.LightState_LIGHT_STATE_GREEN}, l.States())

	for i := 0; i < 5; i++ {
		l.Update(1)
	}
	snapshotAll(l)
	assert.Equal(t, []mapv2.LightState{mapv2.LightState_LIGHT_STATE_RED}, l.States())
}

func TestLargeStepSkipsPhases(t *testing.T) {
	l := newSim([]config.StopLine{{
		Program: []config.Phase{
			{State: "red", Duration: 1},
			{State: "yellow", Duration: 1},
			{State: "green", Duration: 10},
		},
	}})
	// 一步跨过红、黄两个相位
	l.Update(2.5)
	snapshotAll(l)
	assert.Equal(t, []mapv2.LightState{mapv2.LightState_LIGHT_STATE_GREEN}, l.States())
}

func TestPhaseOffset(t *testing.T) {
	l := newSim([]config.StopLine{{
		Program: []config.Phase{
			{State: "red", Duration: 10},
			{State: "green", Duration: 10},
		},
		PhaseOffset: 1,
	}})
	snapshotAll(l)
	assert.Equal(t, []mapv2.LightState{mapv2.LightState_LIGHT_STATE_GREEN}, l.States())
}

func TestNoProgramIsAlwaysGreen(t *testing.T) {
	l := newSim([]config.StopLine{
		{},
		{Program: []config.Phase{{State: "red", Duration: 10}}},
	})
	snapshotAll(l)
	assert.Equal(t, []mapv2.LightState{
		mapv2.LightState_LIGHT_STATE_GREEN,
		mapv2.LightState_LIGHT_STATE_RED,
	}, l.States())
	l.Update(100)
	snapshotAll(l)
	assert.Equal(t, mapv2.LightState_LIGHT_STATE_GREEN, l.States()[0])
}
