package detector

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"

	"git.fiblab.net/sim/tldetector/entity"
)

// Detector 检测编排器
// 功能：每个观测周期执行一次完整的红灯停车线检测并发布结果
// 说明：周期内只读取各管理器的快照，自身不持有共享可变状态（防抖器除外）
type Detector struct {
	ctx entity.ITaskContext

	classifier Classifier
	stabilizer *Stabilizer
	out        chan int32
}

// New 创建检测编排器
// 参数：ctx-任务上下文，classifier-灯色分类器
func New(ctx entity.ITaskContext, classifier Classifier) *Detector {
	rc := ctx.RuntimeConfig()
	return &Detector{
		ctx:        ctx,
		classifier: classifier,
		stabilizer: NewStabilizer(rc.Threshold),
		out:        make(chan int32, rc.OutBuffer),
	}
}

// Output 发布的停车路径点下标流
// 说明：每个完成的周期发布一个值：前方已确认红灯停车线的路径点下标，无红灯时为-1
func (d *Detector) Output() <-chan int32 {
	return d.out
}

// Update 更新阶段，执行一次检测周期
// 算法说明：
//  1. 定位或路线缺失时整体跳过本周期（尚未就绪，不产生输出也不报错）
//  2. 求车辆当前最近路径点下标
//  3. 解析前方最近停车线
//  4. 无候选时向防抖器输入(-1, UNSPECIFIED)，否则输入分类后的候选
//  5. 发布防抖器产出的值
func (d *Detector) Update() {
	r := d.ctx.RouteManager().Route()
	if r == nil {
		log.Debug("skip cycle: no route yet")
		return
	}
	pose, ok := d.ctx.Vehicle().Pose()
	if !ok {
		log.Debug("skip cycle: no pose yet")
		return
	}
	carIdx, _, err := r.ClosestWaypoint(pose)
	if err != nil {
		// 空路线：静默跳过，等待数据源重新下发
		log.Debugf("skip cycle: %v", err)
		return
	}
	cand, found, err := d.ctx.StopLineManager().ResolveNearestAhead(carIdx, r)
	if err != nil {
		// 数据契约违约，本周期作废
		log.Errorf("abort cycle: %v", err)
		return
	}
	wp := entity.NoStopWaypoint
	state := mapv2.LightState_LIGHT_STATE_UNSPECIFIED
	if found {
		wp = int32(cand.WaypointIndex)
		state = d.classifier.Classify(cand.Obs)
	}
	d.publish(d.stabilizer.Push(wp, state))
}

// publish 非阻塞发布
// 说明：核心不允许阻塞，下游消费不及时时丢弃本周期的值并告警
func (d *Detector) publish(wp int32) {
	select {
	case d.out <- wp:
	default:
		log.Warnf("output channel full, drop value %d", wp)
	}
}
