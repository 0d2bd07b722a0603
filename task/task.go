package task

import (
	"sync/atomic"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/samber/lo"

	"git.fiblab.net/sim/tldetector/clock"
	"git.fiblab.net/sim/tldetector/entity"
	"git.fiblab.net/sim/tldetector/entity/detector"
	"git.fiblab.net/sim/tldetector/entity/lightsim"
	"git.fiblab.net/sim/tldetector/entity/route"
	"git.fiblab.net/sim/tldetector/entity/stopline"
	"git.fiblab.net/sim/tldetector/entity/vehicle"
	"git.fiblab.net/sim/tldetector/utils/config"
	"git.fiblab.net/sim/tldetector/utils/input"
)

// Context 检测任务上下文
// 功能：包含一次检测任务的所有变量和状态，替代原来的全局变量
// 说明：管理检测节点的所有组件，包括时钟、各管理器、配置与输出
type Context struct {

	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 辅助程序，处理分布式模式下相关调用，包括与syncer、其他服务的交互
	sidecar *syncer.Sidecar
	// sidecar close channel
	sidecarCloseCh chan struct{}
	// 缓存文件夹
	cacheDir string

	// 路线管理器
	routeManager entity.IRouteManager
	// 停车线管理器
	stopLineManager entity.IStopLineManager
	// 自车实体
	vehicle entity.IVehicle
	// 信号灯模拟器，仅仿真模式下驱动灯色
	lightSim entity.ILightSim
	// 检测编排器
	detector entity.IDetector

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 用于初始化的输入
	initRes *input.Input
}

// NewContext 创建新的检测任务上下文
// 功能：初始化检测节点的所有组件和配置
// 参数：
//   - job: 任务名称
//   - cacheDir: 缓存目录
//   - c: 配置对象
//   - sidecar: 外部sidecar实例
//   - startSidecarServe: 是否启动sidecar服务
//
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 创建Context实例并设置基本属性
// 2. 初始化时钟、加载地图输入
// 3. 创建路线、停车线、自车、信号灯与检测器组件
// 4. 注册RPC服务到sidecar
// 5. 启动sidecar服务（如果需要）
func NewContext(
	job string,
	cacheDir string,
	c config.Config,
	sidecar *syncer.Sidecar,
	startSidecarServe bool,
) *Context {
	ctx := &Context{
		job:            job,
		cacheDir:       cacheDir,
		sidecar:        sidecar,
		sidecarCloseCh: make(chan struct{}),
	}
	ctx.clock = clock.New(c.Control.Step)

	// 下载所有检测节点启动所需的数据
	ctx.initRes = input.Init(c, ctx.cacheDir)

	ctx.runtimeConfig = config.NewRuntimeConfig(c)

	// 新建各类实体对象
	ctx.routeManager = route.NewManager(ctx)
	ctx.stopLineManager = stopline.NewManager(ctx)
	ctx.vehicle = vehicle.New(ctx)
	if sim := c.Control.Sim; sim != nil {
		ctx.lightSim = lightsim.New(ctx)
		if sim.ClassifierNoise > 0 {
			ctx.detector = detector.New(ctx, detector.NewNoisy(sim.Seed, sim.ClassifierNoise))
		} else {
			ctx.detector = detector.New(ctx, detector.GroundTruth{})
		}
	} else {
		ctx.detector = detector.New(ctx, detector.GroundTruth{})
	}

	ctx.clock.Register(ctx.sidecar)

	// sidecar协程，用于提供gRPC服务
	if startSidecarServe {
		go func() {
			err := ctx.sidecar.Serve()
			if err != nil {
				log.Panicf("failed to serve: %v", err)
			}
			ctx.sidecarCloseCh <- struct{}{}
		}()
	}

	return ctx
}

func (ctx *Context) GetInput() *input.Input {
	return ctx.initRes
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RouteManager() entity.IRouteManager {
	return ctx.routeManager
}

func (ctx *Context) StopLineManager() entity.IStopLineManager {
	return ctx.stopLineManager
}

func (ctx *Context) Vehicle() entity.IVehicle {
	return ctx.vehicle
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Detector 检测编排器，供消费方订阅输出
func (ctx *Context) Detector() entity.IDetector {
	return ctx.detector
}

func (ctx *Context) Init() {
	ctx.clock.Init()

	c := ctx.runtimeConfig.All

	// 停车线初始化
	positions := lo.Map(c.Detector.StopLines, func(l config.StopLine, _ int) geometry.Point {
		return geometry.Point{X: l.X, Y: l.Y}
	})
	ctx.stopLineManager.Init(positions)

	// 路线初始化：从地图车道中心线构建，首个Prepare后生效
	if len(c.Detector.RouteLanes) > 0 {
		waypoints, err := ctx.initRes.RouteWaypoints(c.Detector.RouteLanes)
		if err != nil {
			log.Panicf("failed to build route: %v", err)
		}
		ctx.routeManager.Set(waypoints)
		log.Infof("Waypoint: %v", len(waypoints))
	}

	// 信号灯模拟器初始化
	if ctx.lightSim != nil {
		ctx.lightSim.Init(c.Detector.StopLines)
	}
}

func (ctx *Context) Close() {
	if ctx.closed.Load() {
		return
	}
	ctx.sidecar.Close()
	// wait for graceful stop
	<-ctx.sidecarCloseCh
	ctx.closed.Store(true)
}
