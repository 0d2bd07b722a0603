package route

import (
	"errors"
	"math"
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/samber/lo"
)

// ErrEmptyRoute 在空路线上执行最近路径点查询
var ErrEmptyRoute = errors.New("route is empty")

// Route 行驶路线
// 功能：持有有序路径点序列，提供最近路径点查询与s坐标换算
// 说明：构建后不可变；路线更新时整体替换，路径点下标在实例生命周期内稳定
type Route struct {
	waypoints   []geometry.Point
	lineLengths []float64 // 折线累计长度列表，与waypoints一一对应
	length      float64   // 以折线长度为路线长度
}

// New 根据路径点序列构建路线
// 参数：waypoints-有序路径点序列，允许为空（查询时返回ErrEmptyRoute）
func New(waypoints []geometry.Point) *Route {
	r := &Route{waypoints: waypoints}
	if len(waypoints) > 0 {
		r.lineLengths = geometry.GetPolylineLengths2D(waypoints)
		r.length = r.lineLengths[len(r.lineLengths)-1]
	}
	return r
}

// 获取路径点数量
func (r *Route) Len() int {
	return len(r.waypoints)
}

// 获取路径点序列
func (r *Route) Waypoints() []geometry.Point {
	return r.waypoints
}

// 获取路线折线总长度
func (r *Route) Length() float64 {
	return r.length
}

// ClosestWaypoint 查询距离p最近的路径点
// 功能：返回最近路径点的下标与2D欧氏距离
// 说明：线性扫描，输入相同则结果相同；距离相等时取下标较小者。
// 路径点数量远多于停车线时可换成空间索引，外部契约不变
func (r *Route) ClosestWaypoint(p geometry.Point) (int, float64, error) {
	if len(r.waypoints) == 0 {
		return -1, 0, ErrEmptyRoute
	}
	best := 0
	bestDist := mathutil.INF
	for i, wp := range r.waypoints {
		if d := math.Hypot(wp.X-p.X, wp.Y-p.Y); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist, nil
}

// PositionAt 将路线s坐标转换为xy坐标
// 说明：s超出范围时钳制到[0, 路线长度]；空路线返回原点
func (r *Route) PositionAt(s float64) geometry.Point {
	if len(r.waypoints) == 0 {
		return geometry.Point{}
	}
	s = lo.Clamp(s, 0, r.length)
	if i := sort.SearchFloat64s(r.lineLengths, s); i == 0 {
		return r.waypoints[0]
	} else {
		sHigh, sLow := r.lineLengths[i], r.lineLengths[i-1]
		k := (s - sLow) / (sHigh - sLow)
		return geometry.Blend(r.waypoints[i-1], r.waypoints[i], k)
	}
}
