package detector

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"

	"git.fiblab.net/sim/tldetector/entity"
)

// Stabilizer 灯色防抖状态机
// 功能：过滤逐帧分类结果的抖动，同一灯色连续出现超过阈值次数后才允许改变发布的决策
// 说明：红灯停车点不允许因单帧误分类而发布或撤销；未确认期间重发上次已确认值，
// 保证下游规划器每个周期都有可执行的决策。防抖状态是唯一跨周期保留的可变状态
type Stabilizer struct {
	threshold int // 连续观测阈值

	state         mapv2.LightState // 当前跟踪的灯色
	count         int              // 当前灯色已连续出现的次数
	lastPublished int32            // 最近一次已确认的停车路径点下标
}

// NewStabilizer 创建防抖状态机
// 参数：threshold-连续观测阈值，同一灯色需出现threshold+1次以上才被确认
func NewStabilizer(threshold int) *Stabilizer {
	s := &Stabilizer{threshold: threshold}
	s.Reset()
	return s
}

// Reset 恢复初始状态
// 说明：无终止状态，进程生命周期内持续运行，重启后可重新初始化
func (s *Stabilizer) Reset() {
	s.state = mapv2.LightState_LIGHT_STATE_UNSPECIFIED
	s.count = 0
	s.lastPublished = entity.NoStopWaypoint
}

// Push 输入本周期的候选（停车路径点，灯色），返回本周期应发布的路径点下标
// 算法说明：
//  1. 灯色变化：重置计数，本周期计为新灯色的第一次观测（尚未确认），发布值不变
//  2. 灯色不变且计数已达阈值：确认——红灯时提交候选路径点，否则提交-1
//  3. 灯色不变但尚未稳定：重发上次已确认值，而不是未经确认的新候选
//
// 每个周期结束时计数加一
func (s *Stabilizer) Push(wp int32, state mapv2.LightState) int32 {
	if state != s.state {
		s.count = 0
		s.state = state
	} else if s.count >= s.threshold {
		if state == mapv2.LightState_LIGHT_STATE_RED {
			s.lastPublished = wp
		} else {
			s.lastPublished = entity.NoStopWaypoint
		}
	}
	s.count++
	return s.lastPublished
}

// LastPublished 最近一次已确认的发布值
func (s *Stabilizer) LastPublished() int32 {
	return s.lastPublished
}
