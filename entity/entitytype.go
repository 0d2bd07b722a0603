package entity

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"

	"git.fiblab.net/sim/tldetector/utils/config"
)

// 未检测到红灯停车线时发布的路径点下标
const NoStopWaypoint = int32(-1)

// LightObservation 单个周期内一盏信号灯的观测数据，仅在当前周期内有效
// 仿真模式下GroundTruth由灯控程序直接给出；实车模式下由相机帧经分类器推断颜色
type LightObservation struct {
	GroundTruth mapv2.LightState // 真值灯色（仿真/调试数据源）
	Image       []byte           // 相机帧，留给真实分类器使用，仿真中为空
}

// StopCandidate 前方最近停车线候选
type StopCandidate struct {
	StopLineIndex int              // 停车线在配置列表中的序号
	WaypointIndex int              // 距停车线最近的路径点下标
	Obs           LightObservation // 该停车线当前周期的灯色观测
}

func (c StopCandidate) String() string {
	return fmt.Sprintf("StopCandidate{line=%d, wp=%d, state=%v}", c.StopLineIndex, c.WaypointIndex, c.Obs.GroundTruth)
}

// entity/route/route.go的依赖倒置
// 路线快照，构建后不可变，只能整体替换
type IRoute interface {
	Len() int                                               // 路径点数量
	Waypoints() []geometry.Point                            // 路径点序列
	ClosestWaypoint(p geometry.Point) (int, float64, error) // 最近路径点查询
	Length() float64                                        // 路线折线总长度
	PositionAt(s float64) geometry.Point                    // 路线s坐标转换为xy坐标
}

// entity/route/manager.go的依赖倒置
type IRouteManager interface {
	Set(waypoints []geometry.Point) // 整体替换路线（Prepare后生效）
	Prepare()                       // 准备阶段
	Route() IRoute                  // 当前路线快照，nil表示尚未收到路线
}

// entity/stopline/manager.go的依赖倒置
type IStopLineManager interface {
	Init(positions []geometry.Point) // 初始化停车线位置
	// 写入本周期灯色观测，与停车线列表按下标一一对应（Prepare后生效）
	SetLights(states []mapv2.LightState)
	Prepare() // 准备阶段
	// 在route上解析车辆前方最近的停车线
	ResolveNearestAhead(carWpIdx int, r IRoute) (StopCandidate, bool, error)
	Len() int                    // 停车线数量
	Positions() []geometry.Point // 停车线位置列表
}

// entity/vehicle/vehicle.go的依赖倒置
type IVehicle interface {
	SetPose(p geometry.Point) // 写入最新定位（Prepare后生效）
	Prepare()                 // 准备阶段
	Update(dt float64)        // 更新阶段（仿真模式下沿路线推进）
	Pose() (geometry.Point, bool)
}

// entity/lightsim/lightsim.go的依赖倒置
type ILightSim interface {
	Init(lines []config.StopLine) // 根据停车线配置初始化配时方案
	Prepare()                     // 准备阶段，向停车线管理器写入本周期灯色
	Update(dt float64)            // 更新阶段，推进相位
}

// entity/detector/detector.go的依赖倒置
type IDetector interface {
	Update()              // 执行一次检测周期
	Output() <-chan int32 // 发布的停车路径点下标流
}
