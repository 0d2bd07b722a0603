package detector_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.fiblab.net/sim/tldetector/clock"
	"git.fiblab.net/sim/tldetector/entity"
	"git.fiblab.net/sim/tldetector/entity/detector"
	"git.fiblab.net/sim/tldetector/entity/route"
	"git.fiblab.net/sim/tldetector/entity/stopline"
	"git.fiblab.net/sim/tldetector/entity/vehicle"
	"git.fiblab.net/sim/tldetector/utils/config"
)

type testContext struct {
	clock     *clock.Clock
	routes    entity.IRouteManager
	stopLines entity.IStopLineManager
	vehicle   entity.IVehicle
	rc        *config.RuntimeConfig
}

func (c *testContext) Clock() *clock.Clock                      { return c.clock }
func (c *testContext) RouteManager() entity.IRouteManager       { return c.routes }
func (c *testContext) StopLineManager() entity.IStopLineManager { return c.stopLines }
func (c *testContext) Vehicle() entity.IVehicle                 { return c.vehicle }
func (c *testContext) RuntimeConfig() *config.RuntimeConfig     { return c.rc }

func newTestContext(t *testing.T) *testContext {
	t.Helper()
	ctx := &testContext{
		clock: clock.New(config.ControlStep{Start: 0, Total: 100, Interval: 0.1}),
		rc:    config.NewRuntimeConfig(config.Config{}),
	}
	ctx.routes = route.NewManager(ctx)
	ctx.stopLines = stopline.NewManager(ctx)
	ctx.vehicle = vehicle.New(ctx)
	return ctx
}

// 直线路线：(0,0)...(n-1,0)
func straightRoute(n int) []geometry.Point {
	pts := make([]geometry.Point, n)
	for i := range pts {
		pts[i] = geometry.Point{X: float64(i)}
	}
	return pts
}

func setup(t *testing.T, ctx *testContext, lights []mapv2.LightState) {
	t.Helper()
	ctx.routes.Set(straightRoute(100))
	ctx.routes.Prepare()
	ctx.stopLines.Init([]geometry.Point{{X: 80.2, Y: 0.1}})
	if lights != nil {
		ctx.stopLines.SetLights(lights)
		ctx.stopLines.Prepare()
	}
	ctx.vehicle.SetPose(geometry.Point{X: 10.4, Y: 0})
	ctx.vehicle.Prepare()
}

func drain(out <-chan int32) []int32 {
	var vs []int32
	for {
		select {
		case v := <-out:
			vs = append(vs, v)
		default:
			return vs
		}
	}
}

func TestDetectorConfirmsRedAfterThreshold(t *testing.T) {
	ctx := newTestContext(t)
	setup(t, ctx, []mapv2.LightState{mapv2.LightState_LIGHT_STATE_RED})
	d := detector.New(ctx, detector.GroundTruth{})

	for i := 0; i < 5; i++ {
		d.Update()
	}
	// 前3个周期重发初始值-1，第4个周期起确认红灯停车点
	assert.Equal(t, []int32{-1, -1, -1, 80, 80}, drain(d.Output()))
}

func TestDetectorGreenNeverStops(t *testing.T) {
	ctx := newTestContext(t)
	setup(t, ctx, []mapv2.LightState{mapv2.LightState_LIGHT_STATE_GREEN})
	d := detector.New(ctx, detector.GroundTruth{})

	for i := 0; i < 6; i++ {
		d.Update()
	}
	assert.Equal(t, []int32{-1, -1, -1, -1, -1, -1}, drain(d.Output()))
}

func TestDetectorSkipsWithoutPose(t *testing.T) {
	ctx := newTestContext(t)
	ctx.routes.Set(straightRoute(100))
	ctx.routes.Prepare()
	ctx.stopLines.Init(nil)
	d := detector.New(ctx, detector.GroundTruth{})

	d.Update()
	assert.Empty(t, drain(d.Output()))
}

func TestDetectorSkipsWithoutRoute(t *testing.T) {
	ctx := newTestContext(t)
	ctx.stopLines.Init(nil)
	ctx.vehicle.SetPose(geometry.Point{X: 1})
	ctx.vehicle.Prepare()
	d := detector.New(ctx, detector.GroundTruth{})

	d.Update()
	assert.Empty(t, drain(d.Output()))
}

func TestDetectorSkipsOnEmptyRoute(t *testing.T) {
	ctx := newTestContext(t)
	ctx.routes.Set(nil)
	ctx.routes.Prepare()
	ctx.stopLines.Init([]geometry.Point{{X: 3}})
	ctx.stopLines.SetLights([]mapv2.LightState{mapv2.LightState_LIGHT_STATE_RED})
	ctx.stopLines.Prepare()
	ctx.vehicle.SetPose(geometry.Point{X: 1})
	ctx.vehicle.Prepare()
	d := detector.New(ctx, detector.GroundTruth{})

	// 空路线：静默跳过，不产生输出
	d.Update()
	assert.Empty(t, drain(d.Output()))
}

func TestDetectorAbortsOnMismatchedLights(t *testing.T) {
	ctx := newTestContext(t)
	setup(t, ctx, []mapv2.LightState{
		mapv2.LightState_LIGHT_STATE_RED,
		mapv2.LightState_LIGHT_STATE_RED,
	})
	d := detector.New(ctx, detector.GroundTruth{})

	// 灯色观测数量与停车线数量不符，周期作废且不产生输出
	d.Update()
	assert.Empty(t, drain(d.Output()))
}

func TestDetectorNoLightsYetPublishesNoStop(t *testing.T) {
	ctx := newTestContext(t)
	setup(t, ctx, nil)
	d := detector.New(ctx, detector.GroundTruth{})

	// 灯色数据源尚未到达：无候选，按周期发布-1
	d.Update()
	assert.Equal(t, []int32{-1}, drain(d.Output()))
}

func TestNoisyClassifierDeterministicWithSeed(t *testing.T) {
	obs := entity.LightObservation{GroundTruth: mapv2.LightState_LIGHT_STATE_RED}
	a := detector.NewNoisy(42, 0.5)
	b := detector.NewNoisy(42, 0.5)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Classify(obs), b.Classify(obs))
	}
}
