package vehicle

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"

	"git.fiblab.net/sim/tldetector/entity"
	"git.fiblab.net/sim/tldetector/utils/config"
	"git.fiblab.net/sim/tldetector/utils/container"
)

// Vehicle 自车实体
// 功能：持有自车最新定位快照；仿真模式下沿路线匀速推进产生定位
// 说明：定位由外部数据源异步更新，启动初期可能缺失；
// 一个观测周期内读到的定位快照保持一致
type Vehicle struct {
	ctx entity.ITaskContext

	pose container.Latest[geometry.Point]

	// 仿真运动状态
	sim *config.Sim
	s   float64 // 沿路线折线的里程
}

// New 创建自车实体
// 说明：配置了仿真数据源时启用内置运动模型，否则只接收外部定位
func New(ctx entity.ITaskContext) *Vehicle {
	v := &Vehicle{ctx: ctx}
	if simCfg := ctx.RuntimeConfig().C.Sim; simCfg != nil {
		v.sim = simCfg
		v.s = simCfg.StartS
		log.Infof("simulated ego vehicle: v=%.1fm/s, start_s=%.1fm", simCfg.V, simCfg.StartS)
	}
	return v
}

// SetPose 写入最新定位（Prepare后生效）
func (v *Vehicle) SetPose(p geometry.Point) {
	v.pose.Set(p)
}

// Prepare 准备阶段，提交定位缓冲区
func (v *Vehicle) Prepare() {
	v.pose.Prepare()
}

// Update 更新阶段
// 说明：仿真模式下沿路线推进v*dt并写入定位缓冲区（下一次Prepare后可见，
// 与真实定位数据源的异步到达语义一致）；路线尚未就绪时不推进。
// 实车模式下不做任何事
func (v *Vehicle) Update(dt float64) {
	if v.sim == nil {
		return
	}
	r := v.ctx.RouteManager().Route()
	if r == nil || r.Len() == 0 {
		return
	}
	v.s = lo.Clamp(v.s+v.sim.V*dt, 0, r.Length())
	v.pose.Set(r.PositionAt(v.s))
}

// Pose 当前定位快照
// 返回：定位与有效标志，false表示尚未收到任何定位
func (v *Vehicle) Pose() (geometry.Point, bool) {
	return v.pose.Load()
}
