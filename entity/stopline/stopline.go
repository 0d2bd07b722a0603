package stopline

import (
	"errors"
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/general/common/v2/parallel"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/samber/lo"

	"git.fiblab.net/sim/tldetector/entity"
	"git.fiblab.net/sim/tldetector/utils/container"
)

// ErrMismatchedLightData 灯色观测列表与停车线列表长度不一致
// 说明：这是外部数据源的数据契约违约而非可恢复的运行时状况，不做静默容忍
var ErrMismatchedLightData = errors.New("light observations do not match stop lines")

// StopLine 停车线实体
// 说明：路口前车辆必须停住的位置，与信号灯按配置列表下标一一对应，加载后不再变化
type StopLine struct {
	index int            // 在配置列表中的序号
	pos   geometry.Point // 停车位置
}

func (l *StopLine) String() string {
	return fmt.Sprintf("StopLine %d (%.1f, %.1f)", l.index, l.pos.X, l.pos.Y)
}

// StopLineManager 停车线管理器
// 功能：持有停车线配置与每周期的灯色观测，解析车辆前方最近的停车线
type StopLineManager struct {
	ctx entity.ITaskContext

	lines  []*StopLine
	lights container.Latest[[]mapv2.LightState] // 每周期整体替换的灯色观测
}

// NewManager 创建停车线管理器实例
func NewManager(ctx entity.ITaskContext) *StopLineManager {
	return &StopLineManager{
		ctx:   ctx,
		lines: make([]*StopLine, 0),
	}
}

// Init 初始化停车线位置
// 说明：停车线在一次运行中固定，只在启动时加载一次
func (m *StopLineManager) Init(positions []geometry.Point) {
	m.lines = lo.Map(positions, func(p geometry.Point, i int) *StopLine {
		return &StopLine{index: i, pos: p}
	})
	log.Infof("StopLine: %v", len(m.lines))
}

// SetLights 写入本周期灯色观测（Prepare后生效）
// 说明：与停车线列表按下标一一对应，观测只在当前周期内有效，不做保留
func (m *StopLineManager) SetLights(states []mapv2.LightState) {
	m.lights.Set(states)
}

// Prepare 准备阶段，提交灯色观测缓冲区
func (m *StopLineManager) Prepare() {
	m.lights.Prepare()
}

// 获取停车线数量
func (m *StopLineManager) Len() int {
	return len(m.lines)
}

// 获取停车线位置列表
func (m *StopLineManager) Positions() []geometry.Point {
	return lo.Map(m.lines, func(l *StopLine, _ int) geometry.Point {
		return l.pos
	})
}

// ResolveNearestAhead 解析车辆前方最近的停车线
// 功能：在route上找到位于carWpIdx之后、步距最小的停车线及其当前灯色观测
// 参数：carWpIdx-车辆当前最近路径点下标，r-路线快照
// 返回：候选停车线、是否存在候选、错误信息
// 算法说明：
//  1. 对每条停车线求最近路径点下标，步距gap = 停车线下标 - 车辆下标
//  2. gap >= 0才是候选（身后的停车线排除）；不做环路回绕修正，
//     环形路线上跨越起点的停车线在同一圈内不视作"前方"
//  3. 候选中取gap最小者，相等时取停车线序号较小者
//
// 说明：停车线数量远少于路径点，不为其构建空间索引；单线的最近路径点查询
// 代价与路径点数量成正比，各停车线之间并行计算。
// 尚未收到任何灯色观测时视作没有候选；收到的观测长度与停车线不一致时
// 返回ErrMismatchedLightData
func (m *StopLineManager) ResolveNearestAhead(carWpIdx int, r entity.IRoute) (entity.StopCandidate, bool, error) {
	lights, ok := m.lights.Load()
	if !ok {
		// 启动初期观测尚未到达，等待下一周期
		return entity.StopCandidate{}, false, nil
	}
	if len(lights) != len(m.lines) {
		return entity.StopCandidate{}, false, fmt.Errorf(
			"%w: %d stop lines but %d observations", ErrMismatchedLightData, len(m.lines), len(lights))
	}

	type lineIndex struct {
		idx int
		err error
	}
	indices := parallel.GoMap(m.lines, func(line *StopLine) lineIndex {
		idx, _, err := r.ClosestWaypoint(line.pos)
		return lineIndex{idx: idx, err: err}
	})

	// 初始最小步距取路径点数量，任何可达停车线的步距都小于它
	bestGap := r.Len()
	found := false
	var best entity.StopCandidate
	for i, line := range indices {
		if line.err != nil {
			return entity.StopCandidate{}, false, line.err
		}
		idx := line.idx
		gap := idx - carWpIdx
		if gap >= 0 && gap < bestGap {
			bestGap = gap
			found = true
			best = entity.StopCandidate{
				StopLineIndex: i,
				WaypointIndex: idx,
				Obs:           entity.LightObservation{GroundTruth: lights[i]},
			}
		}
	}
	return best, found, nil
}
