package task

import (
	"flag"
	"sync"
)

const (
	SelfName = "tldetector" // 本程序在任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：在每个观测周期开始时进行准备工作
// 算法说明：
// 1. 更新时钟：增加内部步数并计算当前时间
// 2. 心跳日志：定期输出系统状态信息
// 3. 并行准备：并发提交路线与自车定位的双缓冲区
// 4. 灯色准备：信号灯模拟器固定本步灯色并写入停车线管理器，随后提交
//
// 说明：准备完成后本步所有快照冻结，更新阶段只读快照
func (ctx *Context) prepare() {
	ctx.clock.InternalStep++
	ctx.clock.T = float64(ctx.clock.InternalStep) * ctx.clock.DT

	if ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f)",
			ctx.clock.InternalStep,
			hour, minute, second,
		)
	}

	// Prepare
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx.routeManager.Prepare() // route
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx.vehicle.Prepare() // vehicle
	}()
	wg.Wait()

	// 灯色观测先由模拟器写入缓冲区，再由停车线管理器提交
	if ctx.lightSim != nil {
		ctx.lightSim.Prepare() // lightsim
	}
	ctx.stopLineManager.Prepare() // stopline
}

// update 更新阶段，每步执行一次
// 功能：在每个观测周期中执行主要的检测逻辑
// 算法说明：
// 1. 并行更新：并发执行各实体的更新操作
//   - 自车实体：仿真模式下沿路线推进定位
//   - 信号灯模拟器：推进相位计时
//
// 2. 检测周期：执行一次完整的红灯停车线检测并发布结果
//
// 说明：自车与信号灯的更新只写各自的缓冲区，检测周期只读本步快照，
// 因此三者可以安全并发
func (ctx *Context) update() {
	var wg sync.WaitGroup

	// Update
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx.vehicle.Update(ctx.clock.DT) // vehicle
	}()
	if ctx.lightSim != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx.lightSim.Update(ctx.clock.DT) // lightsim
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx.detector.Update() // detector
	}()
	wg.Wait()
}

// Run 运行
func (ctx *Context) Run() {
	// 初始化
	ctx.Init()
	// init syncer
	ctx.sidecar.Step(false)
	for {
		ctx.prepare()
		// 通知准备阶段完成
		log.Debugf("step %d: prepare complete and call NotifyStepReady", ctx.clock.InternalStep)
		ctx.sidecar.NotifyStepReady()
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		close := false
		if ctx.clock.InternalStep+1 >= ctx.clock.END_STEP {
			close = ctx.sidecar.Step(true)
		} else {
			close = ctx.sidecar.Step(false)
		}
		if close || ctx.closed.Load() {
			break
		}
	}
	log.Infof("detector complete")
	ctx.Close()
}
