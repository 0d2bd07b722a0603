package route

import (
	"git.fiblab.net/general/common/v2/geometry"

	"git.fiblab.net/sim/tldetector/entity"
	"git.fiblab.net/sim/tldetector/utils/container"
)

// RouteManager 路线管理器
// 功能：承接路线数据源的异步整体替换，保证一个观测周期内读到的路线快照一致
// 说明：路线没有增量修改，替换同时使旧快照及其派生缓存失效
type RouteManager struct {
	ctx entity.ITaskContext

	latest container.Latest[*Route]
}

// NewManager 创建路线管理器实例
func NewManager(ctx entity.ITaskContext) *RouteManager {
	return &RouteManager{ctx: ctx}
}

// Set 整体替换路线（Prepare后生效）
func (m *RouteManager) Set(waypoints []geometry.Point) {
	m.latest.Set(New(waypoints))
	log.Debugf("buffered route update with %d waypoints", len(waypoints))
}

// Prepare 准备阶段，提交待生效的路线
func (m *RouteManager) Prepare() {
	m.latest.Prepare()
}

// Route 当前路线快照
// 返回：nil表示尚未收到路线
func (m *RouteManager) Route() entity.IRoute {
	r, ok := m.latest.Load()
	if !ok {
		return nil
	}
	return r
}
